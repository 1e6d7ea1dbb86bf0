package renderer

import (
	"log/slog"
	"time"
)

// TileStats counts the work done by a single tile
type TileStats struct {
	Pixels int // Pixels inside the image that the tile wrote
	Hits   int // Of those, pixels whose primary ray hit a sphere
}

// RenderStats contains statistics about a complete render
type RenderStats struct {
	TotalPixels int           // Total number of pixels written
	TotalTiles  int           // Number of tiles dispatched
	HitPixels   int           // Pixels that hit a sphere
	Workers     int           // Maximum number of tiles in flight
	Duration    time.Duration // Wall time from first dispatch to final join
}

// add folds one tile's counters into the totals
func (s *RenderStats) add(tile TileStats) {
	s.TotalPixels += tile.Pixels
	s.HitPixels += tile.Hits
}

// Coverage returns the fraction of pixels that hit a sphere
func (s RenderStats) Coverage() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.HitPixels) / float64(s.TotalPixels)
}

// LogValue implements slog.LogValuer
func (s RenderStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("pixels", s.TotalPixels),
		slog.Int("tiles", s.TotalTiles),
		slog.Int("hits", s.HitPixels),
		slog.Int("workers", s.Workers),
		slog.Duration("duration", s.Duration),
	)
}
