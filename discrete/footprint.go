package discrete

import "github.com/hellguz/magnetizing/config"

// cellOffset is a grid offset relative to a room's top-left (x,y).
type cellOffset struct{ dx, dy int }

// footprintOffsets returns the footprint cell offsets for a room of size
// w×h under the given corridor rule, relative to its top-left corner.
func footprintOffsets(rule config.CorridorRule, w, h int) []cellOffset {
	switch rule {
	case config.NoCorridor:
		return nil

	case config.OneSide:
		// One row of w cells immediately below the room.
		offsets := make([]cellOffset, 0, w)
		for dx := 0; dx < w; dx++ {
			offsets = append(offsets, cellOffset{dx, h})
		}
		return offsets

	case config.TwoSides:
		// L-shape: bottom row of w+1 cells plus right column of h cells.
		offsets := make([]cellOffset, 0, w+1+h)
		for dx := 0; dx <= w; dx++ {
			offsets = append(offsets, cellOffset{dx, h})
		}
		for dy := 0; dy < h; dy++ {
			offsets = append(offsets, cellOffset{w, dy})
		}
		return offsets

	case config.AllSides:
		// Full one-cell-thick halo surrounding the room, corners included.
		offsets := make([]cellOffset, 0, 2*w+2*h+4)
		for dx := -1; dx <= w; dx++ {
			offsets = append(offsets, cellOffset{dx, -1})
			offsets = append(offsets, cellOffset{dx, h})
		}
		for dy := 0; dy < h; dy++ {
			offsets = append(offsets, cellOffset{-1, dy})
			offsets = append(offsets, cellOffset{w, dy})
		}
		return offsets

	default:
		return nil
	}
}
