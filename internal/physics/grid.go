package physics

import "math"

// Grid is a uniform grid for broad-phase hit detection over a bounded area.
// Items are inserted by position and index, then nearby items can be queried
// via a 3x3 neighborhood lookup.
//
// Cell size must be >= the maximum interaction distance so that every
// candidate is found within the 3x3 neighborhood. Positions outside the
// covered area are clamped to the edge cells, which keeps that guarantee.
type Grid struct {
	originX     float64
	originY     float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of items that fall within a grid cell.
type gridCell struct {
	items []int
}

// NewGrid creates a grid covering the rectangle starting at (originX, originY)
// with the given width and height.
func NewGrid(originX, originY, width, height, cellSize float64) *Grid {
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &Grid{
		originX:     originX,
		originY:     originY,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) at the given position.
func (g *Grid) Insert(x, y float64, index int) {
	col, row := g.posToCell(x, y)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// QueryAround calls fn for each item index in the 3x3 cell neighborhood
// around the given position. Neighbors outside the grid are skipped.
// If fn returns true, iteration stops early.
func (g *Grid) QueryAround(x, y float64, fn func(index int) bool) {
	col, row := g.posToCell(x, y)

	for r := max(row-1, 0); r <= min(row+1, g.rows-1); r++ {
		rowOffset := r * g.cols
		for c := max(col-1, 0); c <= min(col+1, g.cols-1); c++ {
			for _, itemIdx := range g.cells[rowOffset+c].items {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// posToCell converts coordinates to grid cell coordinates, clamped to the grid.
func (g *Grid) posToCell(x, y float64) (col, row int) {
	col = int(math.Floor((x - g.originX) * g.invCellSize))
	row = int(math.Floor((y - g.originY) * g.invCellSize))
	col = min(max(col, 0), g.cols-1)
	row = min(max(row, 0), g.rows-1)
	return col, row
}
