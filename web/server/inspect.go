package server

import (
	"fmt"
	"net/http"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/labstack/echo/v4"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/renderer"
	"github.com/df07/go-raycaster/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit      bool              `json:"hit"`
	Object   int               `json:"object"` // Sphere index, -1 for background
	Point    [3]float32        `json:"point"`
	Normal   [3]float32        `json:"normal"`
	Distance float32           `json:"distance"`
	Color    string            `json:"color"` // Final pixel color as #rrggbb
	Sphere   *SphereInfo       `json:"sphere,omitempty"`
	Lights   []LightVisibility `json:"lights,omitempty"`
}

// SphereInfo describes the sphere that was hit
type SphereInfo struct {
	Center [3]float32 `json:"center"`
	Radius float32    `json:"radius"`
	Color  string     `json:"color"`
}

// LightVisibility describes one light as seen from the hit point. Shading
// ignores occlusion; it is reported for inspection only.
type LightVisibility struct {
	Index    int     `json:"index"`
	Lambert  float32 `json:"lambert"`
	Occluded bool    `json:"occluded"`
}

func hexColor(c mgl32.Vec3) string {
	rgba := core.ToRGBA(c)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// inspectPixel casts the primary ray through (x, y) and describes the
// closest hit
func inspectPixel(rt *renderer.Raytracer, x, y int) InspectResponse {
	hit := rt.ClosestHit(rt.PixelRay(x, y))
	response := InspectResponse{
		Hit:    hit.Valid(),
		Object: hit.Object,
		Color:  hexColor(rt.Shade(hit)),
	}
	if !hit.Valid() {
		return response
	}

	response.Point = hit.Position
	response.Normal = hit.Normal
	response.Distance = hit.T

	s := rt.Scene()
	sphere := s.Spheres[hit.Object]
	response.Sphere = &SphereInfo{
		Center: sphere.Center,
		Radius: sphere.Radius,
		Color:  hexColor(sphere.Color),
	}

	for i, light := range s.Lights {
		response.Lights = append(response.Lights, LightVisibility{
			Index:    i,
			Lambert:  light.Lambert(hit.Position, hit.Normal),
			Occluded: rt.Occluded(hit, light),
		})
	}
	return response
}

// handleInspect reports what the primary ray through a pixel hits
func (s *Server) handleInspect(c echo.Context) error {
	var (
		name string
		x, y int
		mode string
	)
	err := echo.QueryParamsBinder(c).
		MustString("scene", &name).
		MustInt("x", &x).
		MustInt("y", &y).
		String("mode", &mode).
		BindError()
	if err != nil {
		return s.jsonError(c, http.StatusBadRequest, err)
	}

	intersectMode := geometry.Geometric
	if mode != "" {
		m, ok := geometry.ParseIntersectMode(mode)
		if !ok {
			return s.jsonError(c, http.StatusBadRequest, fmt.Errorf("unknown mode %q", mode))
		}
		intersectMode = m
	}

	sceneObj, err := scene.Lookup(name, s.config.ScenesDir)
	if err != nil {
		return s.jsonError(c, http.StatusBadRequest, err)
	}

	if x < 0 || x >= sceneObj.Width || y < 0 || y >= sceneObj.Height {
		return s.jsonError(c, http.StatusBadRequest,
			fmt.Errorf("pixel (%d, %d) outside %dx%d image", x, y, sceneObj.Width, sceneObj.Height))
	}

	rt := renderer.NewRaytracer(sceneObj, intersectMode)
	return c.JSON(http.StatusOK, inspectPixel(rt, x, y))
}
