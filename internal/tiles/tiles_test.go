package tiles

import (
	"testing"
)

// =============================================================================
// Grid Tests
// =============================================================================

func TestGridSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantX, wantY  int
	}{
		{"exact single tile", 64, 64, 1, 1},
		{"exact multiple", 128, 192, 2, 3},
		{"partial tile", 65, 64, 2, 1},
		{"small buffer", 10, 10, 1, 1},
		{"one pixel", 1, 1, 1, 1},
		{"zero", 0, 0, 0, 0},
		{"negative", -64, 64, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, ty := GridSize(tt.width, tt.height)
			if tx != tt.wantX || ty != tt.wantY {
				t.Errorf("GridSize(%d, %d) = (%d, %d), want (%d, %d)",
					tt.width, tt.height, tx, ty, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestGrid_FullTiles(t *testing.T) {
	grid := Grid(128, 128)

	if len(grid) != 4 {
		t.Fatalf("len(Grid(128, 128)) = %d, want 4", len(grid))
	}

	for i, tile := range grid {
		if tile.Width != TileWidth || tile.Height != TileHeight {
			t.Errorf("tile %d = %dx%d, want %dx%d",
				i, tile.Width, tile.Height, TileWidth, TileHeight)
		}
	}

	// Row-major order.
	if grid[0].X != 0 || grid[0].Y != 0 {
		t.Errorf("grid[0] at (%d, %d), want (0, 0)", grid[0].X, grid[0].Y)
	}
	if grid[1].X != 1 || grid[1].Y != 0 {
		t.Errorf("grid[1] at (%d, %d), want (1, 0)", grid[1].X, grid[1].Y)
	}
	if grid[2].X != 0 || grid[2].Y != 1 {
		t.Errorf("grid[2] at (%d, %d), want (0, 1)", grid[2].X, grid[2].Y)
	}
}

func TestGrid_EdgeTiles(t *testing.T) {
	grid := Grid(100, 70)

	if len(grid) != 4 {
		t.Fatalf("len(Grid(100, 70)) = %d, want 4", len(grid))
	}

	// Right edge tiles clip to 100-64=36 wide, bottom edge to 70-64=6 tall.
	tests := []struct {
		idx          int
		wantW, wantH int
	}{
		{0, 64, 64},
		{1, 36, 64},
		{2, 64, 6},
		{3, 36, 6},
	}

	for _, tt := range tests {
		tile := grid[tt.idx]
		if tile.Width != tt.wantW || tile.Height != tt.wantH {
			t.Errorf("tile %d = %dx%d, want %dx%d",
				tt.idx, tile.Width, tile.Height, tt.wantW, tt.wantH)
		}
	}
}

func TestGrid_CoversEveryPixel(t *testing.T) {
	const w, h = 150, 90
	covered := make([]int, w*h)

	for _, tile := range Grid(w, h) {
		x0, y0, tw, th := tile.Bounds()
		for y := y0; y < y0+th; y++ {
			for x := x0; x < x0+tw; x++ {
				covered[y*w+x]++
			}
		}
	}

	for i, n := range covered {
		if n != 1 {
			t.Fatalf("pixel (%d, %d) covered %d times, want exactly once", i%w, i/w, n)
		}
	}
}

func TestGrid_Empty(t *testing.T) {
	if grid := Grid(0, 64); grid != nil {
		t.Errorf("Grid(0, 64) = %v, want nil", grid)
	}
	if grid := Grid(64, -1); grid != nil {
		t.Errorf("Grid(64, -1) = %v, want nil", grid)
	}
}

func TestTile_Bounds(t *testing.T) {
	tile := Tile{X: 2, Y: 1, Width: 30, Height: 64}

	x, y, w, h := tile.Bounds()
	if x != 128 || y != 64 || w != 30 || h != 64 {
		t.Errorf("Bounds() = (%d, %d, %d, %d), want (128, 64, 30, 64)", x, y, w, h)
	}
}
