package renderer

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/scene"
)

// Raytracer casts primary rays into a scene and shades the closest hit.
// It holds no mutable state and is shared by all tile workers.
type Raytracer struct {
	scene *scene.Scene
	mode  geometry.IntersectMode
	res   float32 // Square reference resolution, max(width, height)
}

// NewRaytracer creates a new raytracer
func NewRaytracer(s *scene.Scene, mode geometry.IntersectMode) *Raytracer {
	return &Raytracer{
		scene: s,
		mode:  mode,
		res:   float32(s.Resolution()),
	}
}

// Scene returns the scene being rendered
func (rt *Raytracer) Scene() *scene.Scene {
	return rt.scene
}

// PixelRay returns the primary ray through pixel (x, y). Pixels are mapped
// onto a square of side max(width, height) centered on the view axis, so
// non-square images crop rather than stretch.
func (rt *Raytracer) PixelRay(x, y int) core.Ray {
	fx := float32(x)/rt.res - 0.5
	fy := -(float32(y)/rt.res - 0.5)
	return core.NewRay(rt.scene.Camera.Position(), rt.scene.Camera.Ray(fx, fy))
}

// ClosestHit tests the ray against every sphere and returns the nearest
// intersection. Ties keep the earlier sphere.
func (rt *Raytracer) ClosestHit(ray core.Ray) core.Hit {
	closest := core.NoHit()

	for i, sphere := range rt.scene.Spheres {
		var hit core.Hit
		if sphere.IntersectWith(rt.mode, ray, &hit) && hit.T < closest.T {
			hit.Object = i
			closest = hit
		}
	}

	return closest
}

// Shade returns the unclamped Lambertian color of a hit, or the background
// color for a miss. Lights are never occluded.
func (rt *Raytracer) Shade(hit core.Hit) mgl32.Vec3 {
	if !hit.Valid() {
		return rt.scene.Background
	}

	var total mgl32.Vec3
	for _, light := range rt.scene.Lights {
		cosine := light.Lambert(hit.Position, hit.Normal)
		total = total.Add(core.MultiplyVec(light.Intensity, hit.Color).Mul(cosine))
	}
	return total
}

// TracePixel computes the final color of pixel (x, y) and reports whether
// its primary ray hit a sphere
func (rt *Raytracer) TracePixel(x, y int) (color.RGBA, bool) {
	hit := rt.ClosestHit(rt.PixelRay(x, y))
	return core.ToRGBA(rt.Shade(hit)), hit.Valid()
}

// Occluded reports whether any sphere other than the hit object lies between
// the hit point and the light. Shading does not use it.
func (rt *Raytracer) Occluded(hit core.Hit, light geometry.PointLight) bool {
	toLight := light.Position.Sub(hit.Position)
	distance := toLight.Len()
	ray := core.NewRay(hit.Position, toLight.Normalize())

	for i, sphere := range rt.scene.Spheres {
		if i == hit.Object {
			continue
		}
		if sphere.IntersectsWithin(ray, distance) {
			return true
		}
	}
	return false
}
