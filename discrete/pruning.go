package discrete

import "github.com/hellguz/magnetizing/grid"

// pruneDeadEnds runs the fixed-point loop: while any corridor cell has at
// most one non-empty-non-OOB 4-neighbor, clear it. Terminates because each
// pass either clears at least one cell or the grid has reached a fixpoint.
func pruneDeadEnds(g *grid.Buffer) {
	for {
		changed := false
		for y := 0; y < g.Height(); y++ {
			for x := 0; x < g.Width(); x++ {
				if g.Get(x, y) != grid.Corridor {
					continue
				}
				if g.CountOccupiedNeighbors4(x, y) <= 1 {
					g.Set(x, y, grid.Empty)
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}

// validateConnectivity runs a BFS from (startX, startY) across 4-connected
// corridor cells — the same queue/visited shape as the maze package's
// solveBFS, adapted to count reachability rather than reconstruct a path —
// and reports whether every corridor cell in the grid was reached.
func validateConnectivity(g *grid.Buffer, startX, startY int) bool {
	total := 0
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.Get(x, y) == grid.Corridor {
				total++
			}
		}
	}
	if total == 0 {
		return true
	}
	if g.Get(startX, startY) != grid.Corridor {
		return false
	}

	type point struct{ x, y int }
	queue := []point{{startX, startY}}
	visited := map[point]bool{{startX, startY}: true}
	reached := 0

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		reached++

		dirs := [4]point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
		for _, d := range dirs {
			next := point{curr.x + d.x, curr.y + d.y}
			if g.Get(next.x, next.y) == grid.Corridor && !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	return reached == total
}
