package renderer

import (
	"image"
	"image/color"
)

// Canvas is the pixel sink tiles write into. *image.RGBA satisfies it.
// Tiles write disjoint pixels, so implementations need no locking as long
// as distinct pixels do not share state.
type Canvas interface {
	Bounds() image.Rectangle
	SetRGBA(x, y int, c color.RGBA)
}

// Tile represents a square region of the image. Tiles on the right and
// bottom edges may extend past the image.
type Tile struct {
	ID     int             // Dispatch order
	Bounds image.Rectangle // Full tile square
}

// NewTileGrid creates a grid of tileSize squares covering a width x height
// image, ordered column by column: tile-x in the outer loop, tile-y inner
func NewTileGrid(width, height, tileSize int) []Tile {
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	tiles := make([]Tile, 0, tilesX*tilesY)
	for tileX := 0; tileX < tilesX; tileX++ {
		for tileY := 0; tileY < tilesY; tileY++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			tiles = append(tiles, Tile{
				ID:     len(tiles),
				Bounds: image.Rect(x0, y0, x0+tileSize, y0+tileSize),
			})
		}
	}
	return tiles
}

// TileRenderer renders individual tiles with a shared raytracer
type TileRenderer struct {
	raytracer *Raytracer
	image     image.Rectangle
}

// NewTileRenderer creates a tile renderer for the raytracer's scene
func NewTileRenderer(raytracer *Raytracer) *TileRenderer {
	s := raytracer.Scene()
	return &TileRenderer{
		raytracer: raytracer,
		image:     image.Rect(0, 0, s.Width, s.Height),
	}
}

// RenderTile traces every pixel of the tile that lies inside the image and
// writes it to canvas. Pixels outside the image are skipped.
func (tr *TileRenderer) RenderTile(tile Tile, canvas Canvas) TileStats {
	var stats TileStats
	bounds := tile.Bounds.Intersect(tr.image)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, hit := tr.raytracer.TracePixel(x, y)
			canvas.SetRGBA(x, y, c)
			stats.Pixels++
			if hit {
				stats.Hits++
			}
		}
	}
	return stats
}
