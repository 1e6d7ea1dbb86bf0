package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/loaders"
)

// maxPixels bounds width*height so an RGBA image of the scene is addressable
const maxPixels = math.MaxInt32 / 4

// Scene contains all the elements needed for rendering. It is built once
// and never mutated while a render is running.
type Scene struct {
	Camera       *geometry.Camera
	CameraConfig geometry.CameraConfig
	Background   mgl32.Vec3            // Color for rays that hit nothing
	Spheres      []geometry.Sphere     // Objects in the scene, in input order
	Lights       []geometry.PointLight // Lights in the scene, in input order
	Width        int                   // Image width
	Height       int                   // Image height
}

// New creates a scene and builds its camera
func New(cameraConfig geometry.CameraConfig, background mgl32.Vec3, width, height int) *Scene {
	return &Scene{
		Camera:       geometry.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		Background:   background,
		Width:        width,
		Height:       height,
	}
}

// AddSphere appends a sphere and returns its index
func (s *Scene) AddSphere(sphere geometry.Sphere) int {
	s.Spheres = append(s.Spheres, sphere)
	return len(s.Spheres) - 1
}

// AddLight appends a point light
func (s *Scene) AddLight(light geometry.PointLight) {
	s.Lights = append(s.Lights, light)
}

// Resolution returns the square reference resolution used for ray
// generation, the larger of width and height
func (s *Scene) Resolution() int {
	return max(s.Width, s.Height)
}

// GetPrimitiveCount returns the number of spheres in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Spheres)
}

// FromDocument builds a scene from a parsed scene description. Missing keys
// and short entries are errors; no partial scene is returned.
func FromDocument(doc *loaders.Document) (*Scene, error) {
	position, err := doc.Vec3("camera_position", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("camera position: %w", err)
	}
	lookAt, err := doc.Vec3("camera_look", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("camera look-at: %w", err)
	}
	fov, err := doc.Float("camera_fov", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("camera fov: %w", err)
	}
	background, err := doc.Vec3("background", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	width, err := doc.Int("resolution", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("resolution: %w", err)
	}
	height, err := doc.Int("resolution", 0, 1)
	if err != nil {
		return nil, fmt.Errorf("resolution: %w", err)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("resolution must be positive, got %dx%d", width, height)
	}
	if width > maxPixels/height {
		return nil, fmt.Errorf("resolution %dx%d is too large", width, height)
	}

	s := New(geometry.CameraConfig{
		Position: position,
		LookAt:   lookAt,
		Fov:      fov,
	}, background, width, height)

	for i := 0; i < doc.Count("sphere"); i++ {
		sphere, err := sphereFromDocument(doc, i)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		s.AddSphere(sphere)
	}

	for i := 0; i < doc.Count("light"); i++ {
		light, err := lightFromDocument(doc, i)
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		s.AddLight(light)
	}

	return s, nil
}

// sphere entries are: radius, center x y z, color r g b
func sphereFromDocument(doc *loaders.Document, i int) (geometry.Sphere, error) {
	radius, err := doc.Float("sphere", i, 0)
	if err != nil {
		return geometry.Sphere{}, err
	}
	center, err := doc.Vec3("sphere", i, 1)
	if err != nil {
		return geometry.Sphere{}, err
	}
	color, err := doc.Vec3("sphere", i, 4)
	if err != nil {
		return geometry.Sphere{}, err
	}
	return geometry.NewSphere(center, radius, color), nil
}

// light entries are: position x y z, intensity r g b
func lightFromDocument(doc *loaders.Document, i int) (geometry.PointLight, error) {
	position, err := doc.Vec3("light", i, 0)
	if err != nil {
		return geometry.PointLight{}, err
	}
	intensity, err := doc.Vec3("light", i, 3)
	if err != nil {
		return geometry.PointLight{}, err
	}
	return geometry.NewPointLight(position, intensity), nil
}

// LoadFile loads a scene file, choosing the format by extension
func LoadFile(filename string) (*Scene, error) {
	doc, err := loaders.LoadDocument(filename)
	if err != nil {
		return nil, err
	}

	s, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}
