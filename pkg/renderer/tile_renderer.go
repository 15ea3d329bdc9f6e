package renderer

import (
	"image"

	"github.com/df07/go-bvh-raytracer/pkg/raster"
)

// Tile is a rectangular block of pixels rendered by one worker
type Tile struct {
	ID     int
	Bounds image.Rectangle
}

// NewTileGrid creates a grid of tiles covering the entire image. Tiles on
// the right and bottom edges are clipped to the image.
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			bounds := image.Rect(x0, y0, min(x0+tileSize, width), min(y0+tileSize, height))
			tiles = append(tiles, &Tile{ID: len(tiles), Bounds: bounds})
		}
	}
	return tiles
}

// RenderTile shades every pixel inside tile into img. Tiles never overlap,
// so concurrent calls on distinct tiles are safe.
func (r *Renderer) RenderTile(tile *Tile, img *raster.Image) Stats {
	stats := Stats{Tiles: 1, Pixels: tile.Bounds.Dx() * tile.Bounds.Dy()}
	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			img.SetPixel(x, y, r.shadePixel(x, y, &stats))
		}
	}
	return stats
}
