package discrete

import (
	"github.com/hellguz/magnetizing/config"
	"github.com/hellguz/magnetizing/grid"
)

// PlacedRoom is a room the discrete solver has stamped onto its grid, in
// grid (not world) coordinates.
type PlacedRoom struct {
	ID           string
	X, Y         int
	Width        int
	Height       int
	Index        int
	CorridorRule config.CorridorRule
}

// center returns the room's center in grid coordinates, as
// float64 so Euclidean distance math is exact.
func (p PlacedRoom) center() (float64, float64) {
	return float64(p.X) + float64(p.Width)/2, float64(p.Y) + float64(p.Height)/2
}

// isValidPlacement runs the three-part placement validity test: core cells
// empty, footprint cells empty-or-corridor, and the magnetizing constraint
// (at least one footprint cell's 4-neighbor is corridor, trivially true for
// NONE-rule rooms).
func isValidPlacement(g *grid.Buffer, x, y, w, h int, rule config.CorridorRule) bool {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			if g.Get(x+dx, y+dy) != grid.Empty {
				return false
			}
		}
	}

	footprint := footprintOffsets(rule, w, h)
	for _, off := range footprint {
		v := g.Get(x+off.dx, y+off.dy)
		if v != grid.Empty && v != grid.Corridor {
			return false
		}
	}

	if rule == config.NoCorridor {
		return true
	}

	for _, off := range footprint {
		if g.HasCorridorNeighbor4(x+off.dx, y+off.dy) {
			return true
		}
	}
	return false
}

// stampRoom atomically writes a room's core cells to its 1-based room
// index and every footprint cell to Corridor.
func stampRoom(g *grid.Buffer, x, y, w, h, roomIndex1Based int, rule config.CorridorRule) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			g.Set(x+dx, y+dy, roomIndex1Based)
		}
	}
	for _, off := range footprintOffsets(rule, w, h) {
		g.Set(x+off.dx, y+off.dy, grid.Corridor)
	}
}

// removeRoom clears a room's core cells to Empty and clears footprint
// cells to Empty only where they are still Corridor. A corridor cell that
// another placed room's footprint also covers is cleared as well.
func removeRoom(g *grid.Buffer, x, y, w, h int, rule config.CorridorRule) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			g.Set(x+dx, y+dy, grid.Empty)
		}
	}
	for _, off := range footprintOffsets(rule, w, h) {
		nx, ny := x+off.dx, y+off.dy
		if g.Get(nx, ny) == grid.Corridor {
			g.Set(nx, ny, grid.Empty)
		}
	}
}

// compactness counts 4-neighbor perimeter cells of a candidate w×h
// rectangle at (x,y) that are occupied (room or corridor), scanning the
// rectangle's own border cells' exterior neighbors.
func compactness(g *grid.Buffer, x, y, w, h int) int {
	count := 0
	for dx := 0; dx < w; dx++ {
		if g.Get(x+dx, y-1) != grid.Empty && g.Get(x+dx, y-1) != grid.OutOfBounds {
			count++
		}
		if g.Get(x+dx, y+h) != grid.Empty && g.Get(x+dx, y+h) != grid.OutOfBounds {
			count++
		}
	}
	for dy := 0; dy < h; dy++ {
		if g.Get(x-1, y+dy) != grid.Empty && g.Get(x-1, y+dy) != grid.OutOfBounds {
			count++
		}
		if g.Get(x+w, y+dy) != grid.Empty && g.Get(x+w, y+dy) != grid.OutOfBounds {
			count++
		}
	}
	return count
}
