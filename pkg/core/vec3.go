package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// NewVec3 creates a new vector
func NewVec3(x, y, z float32) mgl32.Vec3 {
	return mgl32.Vec3{x, y, z}
}

// MultiplyVec returns component-wise multiplication of two vectors
func MultiplyVec(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Clamp returns a vector with components clamped to [minVal, maxVal]
func Clamp(v mgl32.Vec3, minVal, maxVal float32) mgl32.Vec3 {
	return mgl32.Vec3{
		math32.Max(minVal, math32.Min(maxVal, v[0])),
		math32.Max(minVal, math32.Min(maxVal, v[1])),
		math32.Max(minVal, math32.Min(maxVal, v[2])),
	}
}
