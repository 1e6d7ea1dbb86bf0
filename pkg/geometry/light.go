package geometry

import "github.com/go-gl/mathgl/mgl32"

// PointLight is an omnidirectional light without falloff
type PointLight struct {
	Position  mgl32.Vec3 // Light position in world space
	Intensity mgl32.Vec3 // Light color, may exceed 1 per channel
}

// NewPointLight creates a new point light
func NewPointLight(position, intensity mgl32.Vec3) PointLight {
	return PointLight{Position: position, Intensity: intensity}
}

// Lambert returns the cosine between the surface normal and the direction
// to the light, or 0 when the light is behind the surface.
func (l PointLight) Lambert(point, normal mgl32.Vec3) float32 {
	toLight := l.Position.Sub(point).Normalize()
	cosine := toLight.Dot(normal)
	if cosine <= 0 {
		return 0
	}
	return cosine
}
