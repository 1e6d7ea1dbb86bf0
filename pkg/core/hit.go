package core

import "github.com/go-gl/mathgl/mgl32"

// Far is the distance sentinel for "nothing hit". Closest-hit searches start
// here and only accept strictly smaller distances.
const Far float32 = 1e9

// Hit records a ray-object intersection
type Hit struct {
	T        float32    // Distance along the ray, Far when there is no hit
	Position mgl32.Vec3 // Point of intersection
	Normal   mgl32.Vec3 // Unit normal pointing away from the object's center
	Color    mgl32.Vec3 // Surface color of the object that was hit
	Object   int        // Index of the hit object in its scene, -1 when none
}

// NoHit returns a hit record that represents a miss
func NoHit() Hit {
	return Hit{T: Far, Object: -1}
}

// Valid reports whether the record holds an actual intersection
func (h Hit) Valid() bool {
	return h.T < Far
}
