package core

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		input    mgl32.Vec3
		expected mgl32.Vec3
	}{
		{"inside range", NewVec3(0.1, 0.5, 0.9), NewVec3(0.1, 0.5, 0.9)},
		{"above range", NewVec3(1.5, 2, 100), NewVec3(1, 1, 1)},
		{"below range", NewVec3(-0.5, -1, 0), NewVec3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Clamp(tt.input, 0, 1))
		})
	}
}

func TestMultiplyVec(t *testing.T) {
	result := MultiplyVec(NewVec3(1, 2, 3), NewVec3(0.5, 0.25, 2))
	assert.Equal(t, NewVec3(0.5, 0.5, 6), result)
}

func TestRayAt(t *testing.T) {
	ray := NewRay(NewVec3(1, 0, 0), NewVec3(0, 0, -1))
	assert.Equal(t, NewVec3(1, 0, -2.5), ray.At(2.5))
	assert.Equal(t, 0, ray.Bounce)
}

func TestToRGBA(t *testing.T) {
	tests := []struct {
		name     string
		input    mgl32.Vec3
		expected color.RGBA
	}{
		{"background", NewVec3(0.2, 0.2, 0.8), color.RGBA{51, 51, 204, 255}},
		{"white", NewVec3(1, 1, 1), color.RGBA{255, 255, 255, 255}},
		{"overexposed clamps instead of wrapping", NewVec3(3.7, 1.01, 256), color.RGBA{255, 255, 255, 255}},
		{"negative clamps to black", NewVec3(-1, -0.01, 0), color.RGBA{0, 0, 0, 255}},
		{"truncates", NewVec3(0.999, 0.5, 0.1), color.RGBA{254, 127, 25, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToRGBA(tt.input))
		})
	}
}

func TestNoHit(t *testing.T) {
	h := NoHit()
	assert.False(t, h.Valid())
	assert.Equal(t, -1, h.Object)

	h.T = 3
	assert.True(t, h.Valid())
}
