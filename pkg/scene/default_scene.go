package scene

import (
	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
)

// NewDefaultScene creates a single white unit sphere at the origin, lit from
// directly above, seen from five units down the z axis on a blue background
func NewDefaultScene() *Scene {
	cameraConfig := geometry.CameraConfig{
		Position: core.NewVec3(0, 0, 5),
		LookAt:   core.NewVec3(0, 0, 0),
		Fov:      60,
	}

	s := New(cameraConfig, core.NewVec3(0.2, 0.2, 0.8), 64, 64)

	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, 0), 1, core.NewVec3(1, 1, 1)))
	s.AddLight(geometry.NewPointLight(core.NewVec3(0, 10, 0), core.NewVec3(1, 1, 1)))

	return s
}
