package server

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/loaders"
	"github.com/df07/go-raycaster/pkg/renderer"
	"github.com/df07/go-raycaster/pkg/scene"
)

// RenderRequest holds the query parameters of a render
type RenderRequest struct {
	Scene     string // Scene name; empty means the scene is in the body
	Format    loaders.Format
	Threads   int
	BlockSize int
	Mode      geometry.IntersectMode
	Image     loaders.ImageFormat
}

// parseRenderRequest reads and validates the query parameters
func (s *Server) parseRenderRequest(c echo.Context) (*RenderRequest, error) {
	defaults := renderer.DefaultConfig()
	req := &RenderRequest{
		Threads:   s.config.MaxWorkers,
		BlockSize: defaults.TileSize,
		Mode:      defaults.Mode,
		Image:     loaders.PNG,
	}

	var mode, imageName, format string
	err := echo.QueryParamsBinder(c).
		String("scene", &req.Scene).
		String("format", &format).
		Int("threads", &req.Threads).
		Int("blocksize", &req.BlockSize).
		String("mode", &mode).
		String("image", &imageName).
		BindError()
	if err != nil {
		return nil, err
	}

	if req.Threads < 0 {
		return nil, fmt.Errorf("threads must be zero or positive, got %d", req.Threads)
	}
	if s.config.MaxWorkers > 0 && (req.Threads == 0 || req.Threads > s.config.MaxWorkers) {
		req.Threads = s.config.MaxWorkers
	}
	if req.BlockSize <= 0 {
		return nil, fmt.Errorf("blocksize must be positive, got %d", req.BlockSize)
	}

	if mode != "" {
		m, ok := geometry.ParseIntersectMode(mode)
		if !ok {
			return nil, fmt.Errorf("unknown mode %q", mode)
		}
		req.Mode = m
	}

	if imageName != "" {
		img, err := loaders.ImageFormatFromName(imageName)
		if err != nil {
			return nil, err
		}
		req.Image = img
	}

	if format == "" {
		format = formatFromContentType(c.Request().Header.Get(echo.HeaderContentType))
	}
	req.Format, err = loaders.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	return req, nil
}

// formatFromContentType maps a request media type to a scene format name
func formatFromContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return "yaml"
	case "application/toml":
		return "toml"
	case echo.MIMEApplicationJSON:
		return "json"
	}
	return ""
}

// loadScene returns the named scene or parses one from the request body
func (s *Server) loadScene(c echo.Context, req *RenderRequest) (*scene.Scene, error) {
	if req.Scene != "" {
		return scene.Lookup(req.Scene, s.config.ScenesDir)
	}

	doc, err := loaders.ParseDocument(c.Request().Body, req.Format)
	if err != nil {
		return nil, err
	}
	return scene.FromDocument(doc)
}

// handleRender renders a scene and responds with the encoded image
func (s *Server) handleRender(c echo.Context) error {
	req, err := s.parseRenderRequest(c)
	if err != nil {
		return s.jsonError(c, http.StatusBadRequest, err)
	}

	sceneObj, err := s.loadScene(c, req)
	if err != nil {
		return s.jsonError(c, http.StatusBadRequest, err)
	}
	if s.config.MaxPixels > 0 && sceneObj.Width > s.config.MaxPixels/sceneObj.Height {
		return s.jsonError(c, http.StatusBadRequest,
			fmt.Errorf("resolution %dx%d exceeds the limit of %d pixels", sceneObj.Width, sceneObj.Height, s.config.MaxPixels))
	}

	r, err := renderer.NewRenderer(sceneObj, renderer.Config{
		Workers:  req.Threads,
		TileSize: req.BlockSize,
		Mode:     req.Mode,
	}, s.logger)
	if err != nil {
		return s.jsonError(c, http.StatusBadRequest, err)
	}

	img, stats, err := r.Render()
	if err != nil {
		return s.jsonError(c, http.StatusInternalServerError, err)
	}

	var buf bytes.Buffer
	if err := loaders.EncodeImage(&buf, img, req.Image); err != nil {
		return s.jsonError(c, http.StatusInternalServerError, err)
	}

	header := c.Response().Header()
	header.Set("X-Render-Millis", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	header.Set("X-Hit-Pixels", strconv.Itoa(stats.HitPixels))
	header.Set("X-Render-Tiles", strconv.Itoa(stats.TotalTiles))
	return c.Blob(http.StatusOK, req.Image.ContentType(), buf.Bytes())
}
