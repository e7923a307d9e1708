// Package tiles provides tile-based parallel dispatch for shade resolves.
//
// A fragment buffer is divided into 64x64 pixel tiles that are resolved
// independently in parallel. Tiles carry only their coordinates; the
// fragment data stays in the caller's buffer and each tile addresses a
// disjoint region of it, so no synchronization is needed between tiles.
//
// Thread safety: Grid construction is not thread-safe. Use the provided
// WorkerPool to process tiles concurrently.
package tiles

// Tile size constants optimized for cache efficiency and work distribution.
const (
	// TileWidth is the width of a tile in pixels.
	// 64 pixels is optimal for work distribution (matches vello/tiny-skia).
	TileWidth = 64

	// TileHeight is the height of a tile in pixels.
	// 64 pixels keeps a full tile of f32 fragments within L2 reach.
	TileHeight = 64
)

// Tile is a rectangular region of a fragment buffer.
//
// X and Y are tile indices, not pixels. Edge tiles have reduced Width or
// Height when the buffer is not evenly divisible by the tile size.
type Tile struct {
	// X is the tile column index (0-based).
	X int

	// Y is the tile row index (0-based).
	Y int

	// Width is the actual width in pixels (may be < TileWidth for edge tiles).
	Width int

	// Height is the actual height in pixels (may be < TileHeight for edge tiles).
	Height int
}

// Bounds returns the pixel bounds of this tile in buffer space.
// Returns (x, y, width, height) where x,y is the top-left corner.
func (t Tile) Bounds() (x, y, w, h int) {
	return t.X * TileWidth, t.Y * TileHeight, t.Width, t.Height
}

// GridSize returns the number of tile columns and rows needed to cover a
// width x height buffer.
func GridSize(width, height int) (tx, ty int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	tx = (width + TileWidth - 1) / TileWidth
	ty = (height + TileHeight - 1) / TileHeight
	return tx, ty
}

// Grid returns the tiles covering a width x height buffer in row-major
// order. Edge tiles are clipped to the buffer bounds.
func Grid(width, height int) []Tile {
	tilesX, tilesY := GridSize(width, height)
	if tilesX == 0 {
		return nil
	}

	grid := make([]Tile, 0, tilesX*tilesY)
	for ty := range tilesY {
		for tx := range tilesX {
			tileW := TileWidth
			tileH := TileHeight

			// Right edge tile
			if (tx+1)*TileWidth > width {
				tileW = width - tx*TileWidth
			}
			// Bottom edge tile
			if (ty+1)*TileHeight > height {
				tileH = height - ty*TileHeight
			}

			grid = append(grid, Tile{X: tx, Y: ty, Width: tileW, Height: tileH})
		}
	}
	return grid
}
