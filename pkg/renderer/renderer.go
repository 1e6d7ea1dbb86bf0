package renderer

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/scene"
)

// Config contains configuration for a render
type Config struct {
	Workers  int                    // Maximum tiles in flight (0 = use CPU count, 1 = sequential)
	TileSize int                    // Side length of each square tile in pixels
	Mode     geometry.IntersectMode // Detailed ray-sphere test used for primary rays
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Workers:  1,
		TileSize: 128,
		Mode:     geometry.Geometric,
	}
}

// Renderer splits an image into tiles and renders them through a worker pool
type Renderer struct {
	scene      *scene.Scene
	config     Config
	raytracer  *Raytracer
	tiles      []Tile
	workerPool *WorkerPool
	logger     *slog.Logger
}

// NewRenderer creates a renderer for the scene. A nil logger discards output.
func NewRenderer(s *scene.Scene, config Config, logger *slog.Logger) (*Renderer, error) {
	if config.TileSize <= 0 {
		return nil, fmt.Errorf("tile size must be positive, got %d", config.TileSize)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("image size must be positive, got %dx%d", s.Width, s.Height)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	raytracer := NewRaytracer(s, config.Mode)

	return &Renderer{
		scene:      s,
		config:     config,
		raytracer:  raytracer,
		tiles:      NewTileGrid(s.Width, s.Height, config.TileSize),
		workerPool: NewWorkerPool(config.Workers),
		logger:     logger,
	}, nil
}

// Raytracer returns the raytracer shared by all tiles
func (r *Renderer) Raytracer() *Raytracer {
	return r.raytracer
}

// Tiles returns the tiles in dispatch order
func (r *Renderer) Tiles() []Tile {
	return r.tiles
}

// Render renders the scene into a new image
func (r *Renderer) Render() (*image.RGBA, RenderStats, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.scene.Width, r.scene.Height))
	stats, err := r.RenderInto(img)
	if err != nil {
		return nil, stats, err
	}
	return img, stats, nil
}

// RenderInto renders the scene into canvas, which must cover the image
func (r *Renderer) RenderInto(canvas Canvas) (RenderStats, error) {
	imageBounds := image.Rect(0, 0, r.scene.Width, r.scene.Height)
	if !imageBounds.In(canvas.Bounds()) {
		return RenderStats{}, fmt.Errorf("canvas %v does not cover image %v", canvas.Bounds(), imageBounds)
	}

	stats := RenderStats{
		TotalTiles: len(r.tiles),
		Workers:    r.workerPool.GetNumWorkers(),
	}

	r.logger.Info("rendering",
		"width", r.scene.Width,
		"height", r.scene.Height,
		"spheres", len(r.scene.Spheres),
		"lights", len(r.scene.Lights),
		"tiles", stats.TotalTiles,
		"workers", stats.Workers,
		"mode", r.config.Mode)

	tileRenderer := NewTileRenderer(r.raytracer)

	// Each tile owns its slot
	tileStats := make([]TileStats, len(r.tiles))

	start := time.Now()
	err := r.workerPool.Run(len(r.tiles), func(i int) error {
		tile := r.tiles[i]
		tileStats[i] = tileRenderer.RenderTile(tile, canvas)
		r.logger.Debug("tile done", "tile", tile.ID, "bounds", tile.Bounds, "hits", tileStats[i].Hits)
		return nil
	})
	stats.Duration = time.Since(start)

	if err != nil {
		r.logger.Error("render failed", "error", err)
		return stats, fmt.Errorf("render failed: %w", err)
	}

	for _, ts := range tileStats {
		stats.add(ts)
	}

	r.logger.Info("render complete", "stats", stats)
	return stats, nil
}
