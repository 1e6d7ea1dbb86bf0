package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraConfig contains the user-facing camera parameters
type CameraConfig struct {
	Position mgl32.Vec3 // Eye position
	LookAt   mgl32.Vec3 // Point the camera looks at
	Fov      float32    // Field of view in degrees across the larger image side
}

// Camera is a pinhole camera with a precomputed orthonormal basis
type Camera struct {
	config  CameraConfig
	forward mgl32.Vec3
	right   mgl32.Vec3
	up      mgl32.Vec3
	scale   float32 // Image-plane extent at unit distance
}

// NewCamera builds the camera basis from position, look-at target and fov
func NewCamera(config CameraConfig) *Camera {
	forward := config.LookAt.Sub(config.Position).Normalize()

	// Fall back to +Z when looking straight up or down
	worldUp := mgl32.Vec3{0, 1, 0}
	if math32.Abs(forward.Dot(worldUp)) > 0.9999 {
		worldUp = mgl32.Vec3{0, 0, 1}
	}

	right := forward.Cross(worldUp).Normalize()
	up := right.Cross(forward)

	return &Camera{
		config:  config,
		forward: forward,
		right:   right,
		up:      up,
		scale:   2 * math32.Tan(mgl32.DegToRad(config.Fov)/2),
	}
}

// Position returns the eye position
func (c *Camera) Position() mgl32.Vec3 {
	return c.config.Position
}

// Config returns the parameters the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// Forward returns the unit viewing direction
func (c *Camera) Forward() mgl32.Vec3 {
	return c.forward
}

// Ray returns the unit direction through screen coordinate (x, y), where
// both range over [-0.5, 0.5] with +y pointing up.
func (c *Camera) Ray(x, y float32) mgl32.Vec3 {
	return c.forward.
		Add(c.right.Mul(x * c.scale)).
		Add(c.up.Mul(y * c.scale)).
		Normalize()
}
