package core

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// ToRGBA converts a linear [0,1] color to 8-bit channels. Components are
// clamped first and then truncated, so 1.0 maps to 255 and 0.2 maps to 51.
func ToRGBA(c mgl32.Vec3) color.RGBA {
	c = Clamp(c, 0, 1)
	return color.RGBA{
		R: uint8(c[0] * 255),
		G: uint8(c[1] * 255),
		B: uint8(c[2] * 255),
		A: 255,
	}
}
