package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float32) mgl32.Vec3 {
	hRad := h * math32.Pi / 180

	// OKLCH to OKLAB
	a := c * math32.Cos(hRad)
	b := c * math32.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	rgb := core.NewVec3(
		+4.0767416621*l_-3.3077115913*m_+0.2309699292*s_,
		-1.2684380046*l_+2.6097574011*m_-0.3413193965*s_,
		-0.0041960863*l_-0.7034186147*m_+1.7076147010*s_,
	)
	return core.Clamp(rgb, 0, 1)
}

// NewSphereGridScene creates a gridSize x gridSize grid of rainbow-colored
// spheres on the xz plane, lit by a warm key light and a cool fill light
func NewSphereGridScene(gridSize int) *Scene {
	if gridSize < 1 {
		gridSize = 1
	}

	const (
		spacing = 1.0
		radius  = 0.4
	)

	extent := float32(gridSize-1) * spacing
	mid := extent / 2

	cameraConfig := geometry.CameraConfig{
		Position: core.NewVec3(mid, extent*0.6+2, extent+6),
		LookAt:   core.NewVec3(mid, 0, mid),
		Fov:      45,
	}

	s := New(cameraConfig, core.NewVec3(0.05, 0.05, 0.1), 320, 240)

	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			hue := float32(row*gridSize+col) / float32(gridSize*gridSize) * 360
			center := core.NewVec3(float32(col)*spacing, radius, float32(row)*spacing)
			s.AddSphere(geometry.NewSphere(center, radius, oklchToRGB(0.7, 0.15, hue)))
		}
	}

	s.AddLight(geometry.NewPointLight(core.NewVec3(mid-10, 15, extent+10), core.NewVec3(0.9, 0.8, 0.7)))
	s.AddLight(geometry.NewPointLight(core.NewVec3(mid+10, 8, -5), core.NewVec3(0.2, 0.25, 0.4)))

	return s
}
