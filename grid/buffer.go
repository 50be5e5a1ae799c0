// Package grid provides the integer cell grid the discrete solver places
// rooms and corridors onto: a fixed-size array of signed cell codes with
// rasterization from a boundary polygon, adapted from core.Buffer's
// width/height/lines shape but storing a single signed integer per cell
// rather than a styled rune, since nothing here is ever displayed directly.
package grid

import "github.com/hellguz/magnetizing/geom"

// Cell code meanings.
const (
	// Empty marks a cell inside the boundary that has not been claimed by
	// any room or corridor yet.
	Empty = 0
	// Corridor marks a cell reserved for pedestrian circulation. Many
	// rooms may stamp the same corridor cell; ownership is non-exclusive.
	Corridor = -1
	// OutOfBounds marks a cell outside the boundary polygon, or any
	// coordinate outside the buffer's width/height. Returned by Get for
	// out-of-range reads; Set silently drops writes there.
	OutOfBounds = -2
)

// Buffer is a fixed width×height array of integer cell codes in row-major
// order. Dimensions never change after construction.
type Buffer struct {
	width, height int
	cells         []int
}

// NewBuffer allocates a width×height buffer with every cell initialized to
// Empty.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		width:  width,
		height: height,
		cells:  make([]int, width*height),
	}
}

// Width returns the buffer's fixed width.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer's fixed height.
func (b *Buffer) Height() int { return b.height }

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Get returns the cell code at (x,y), or OutOfBounds if the coordinate
// falls outside the buffer.
func (b *Buffer) Get(x, y int) int {
	if !b.inBounds(x, y) {
		return OutOfBounds
	}
	return b.cells[y*b.width+x]
}

// Set writes v at (x,y). Out-of-range coordinates are silently ignored —
// contract, not defect.
func (b *Buffer) Set(x, y, v int) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = v
}

// Clear resets every cell to Empty, preserving dimensions.
func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = Empty
	}
}

// Clone returns an independent copy of the buffer with the same
// dimensions and cell contents.
func (b *Buffer) Clone() *Buffer {
	cells := make([]int, len(b.cells))
	copy(cells, b.cells)
	return &Buffer{width: b.width, height: b.height, cells: cells}
}

// RasterizePolygon marks every cell whose center — in grid-local
// coordinates offset by the polygon's own bounding box origin, scaled by
// gridResolution — lies outside poly as OutOfBounds, leaving interior
// cells at their current value (normally Empty, immediately after
// construction).
func (b *Buffer) RasterizePolygon(poly geom.Polygon, originX, originY, gridResolution float64) {
	for gy := 0; gy < b.height; gy++ {
		for gx := 0; gx < b.width; gx++ {
			centerX := originX + (float64(gx)+0.5)*gridResolution
			centerY := originY + (float64(gy)+0.5)*gridResolution
			if !geom.PointInPolygon(geom.Vec2{X: centerX, Y: centerY}, poly) {
				b.cells[gy*b.width+gx] = OutOfBounds
			}
		}
	}
}

// ForEachNeighbor4 invokes fn for each of (x,y)'s four axis-aligned
// neighbors that lie within the buffer, passing the neighbor's coordinates
// and cell code.
func (b *Buffer) ForEachNeighbor4(x, y int, fn func(nx, ny, value int)) {
	deltas := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for _, d := range deltas {
		nx, ny := x+d[0], y+d[1]
		if b.inBounds(nx, ny) {
			fn(nx, ny, b.cells[ny*b.width+nx])
		}
	}
}

// CountOccupiedNeighbors4 returns how many of (x,y)'s four neighbors are
// neither Empty nor OutOfBounds — i.e. occupied by a room or a corridor.
func (b *Buffer) CountOccupiedNeighbors4(x, y int) int {
	count := 0
	b.ForEachNeighbor4(x, y, func(_, _, value int) {
		if value != Empty && value != OutOfBounds {
			count++
		}
	})
	return count
}

// HasCorridorNeighbor4 reports whether any of (x,y)'s four neighbors holds
// Corridor.
func (b *Buffer) HasCorridorNeighbor4(x, y int) bool {
	found := false
	b.ForEachNeighbor4(x, y, func(_, _, value int) {
		if value == Corridor {
			found = true
		}
	})
	return found
}
