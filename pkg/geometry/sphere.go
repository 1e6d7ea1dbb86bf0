package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-raycaster/pkg/core"
)

// IntersectMode selects which detailed intersection test the renderer uses
type IntersectMode int

const (
	// Geometric uses the closest-approach test. It rejects any hit where
	// either root is behind the ray origin, so rays starting inside a
	// sphere never hit it.
	Geometric IntersectMode = iota
	// Quadratic solves the full quadratic and accepts the nearest positive
	// root, which handles origins inside the sphere and non-unit directions.
	Quadratic
)

// String returns the flag spelling of the mode
func (m IntersectMode) String() string {
	switch m {
	case Quadratic:
		return "quadratic"
	default:
		return "geometric"
	}
}

// ParseIntersectMode parses "geometric" or "quadratic"
func ParseIntersectMode(s string) (IntersectMode, bool) {
	switch s {
	case "geometric", "":
		return Geometric, true
	case "quadratic":
		return Quadratic, true
	}
	return Geometric, false
}

// Sphere represents a sphere shape
type Sphere struct {
	Radius float32
	Center mgl32.Vec3
	Color  mgl32.Vec3
}

// NewSphere creates a new sphere
func NewSphere(center mgl32.Vec3, radius float32, color mgl32.Vec3) Sphere {
	return Sphere{
		Radius: radius,
		Center: center,
		Color:  color,
	}
}

// roots returns the two ray parameters where the ray meets the sphere
// surface. The ray direction must be unit length.
func (s Sphere) roots(ray core.Ray) (t0, t1 float32, ok bool) {
	oc := ray.Origin.Sub(s.Center)
	b := oc.Dot(ray.Direction)

	// Vector from the center to the ray's point of closest approach
	closest := oc.Sub(ray.Direction.Mul(b))
	discriminant := s.Radius*s.Radius - closest.Dot(closest)
	if discriminant < 0 {
		return 0, 0, false
	}

	sqrtD := math32.Sqrt(discriminant)
	return -b - sqrtD, -b + sqrtD, true
}

// Intersect tests the ray against the sphere and fills hit on success.
// hit is left untouched when the test fails.
func (s Sphere) Intersect(ray core.Ray, hit *core.Hit) bool {
	t0, t1, ok := s.roots(ray)
	if !ok || t0 < 0 || t1 < 0 {
		return false
	}

	s.fill(ray, t0, hit)
	return true
}

// IntersectsWithin reports whether either intersection lies in [0, maxDistance].
// Unlike Intersect this accepts rays that start inside the sphere.
func (s Sphere) IntersectsWithin(ray core.Ray, maxDistance float32) bool {
	t0, t1, ok := s.roots(ray)
	if !ok {
		return false
	}
	return (t0 >= 0 && t0 <= maxDistance) || (t1 >= 0 && t1 <= maxDistance)
}

// IntersectQuadratic solves a·t² + b·t + c = 0 without assuming a unit
// direction and picks the nearest root in front of the origin.
func (s Sphere) IntersectQuadratic(ray core.Ray, hit *core.Hit) bool {
	oc := ray.Origin.Sub(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return false
	}

	sqrtD := math32.Sqrt(discriminant)
	t0 := (-b - sqrtD) / (2 * a)
	t1 := (-b + sqrtD) / (2 * a)
	if t0 <= 0 && t1 <= 0 {
		return false
	}

	t := t0
	if t0 <= 0 {
		t = t1
	}
	s.fill(ray, t, hit)
	return true
}

// IntersectWith dispatches to the detailed test selected by mode
func (s Sphere) IntersectWith(mode IntersectMode, ray core.Ray, hit *core.Hit) bool {
	if mode == Quadratic {
		return s.IntersectQuadratic(ray, hit)
	}
	return s.Intersect(ray, hit)
}

func (s Sphere) fill(ray core.Ray, t float32, hit *core.Hit) {
	hit.Position = ray.At(t)
	hit.Color = s.Color
	hit.Normal = hit.Position.Sub(s.Center).Normalize()
	hit.T = t
}
