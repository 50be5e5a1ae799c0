// Package discrete implements the integer-grid "magnetizing" greedy-plus-
// mutation room placer: it decides which rooms sit where in coarse grid
// coordinates and carves a single connected corridor spanning tree from a
// start cell, adapted from the pipeline shape (resolve → reserve → carve →
// connect → validate) and the solveBFS idiom of the maze package's
// Generate entry point.
package discrete

import (
	"math"
	"sort"

	"github.com/hellguz/magnetizing/config"
	"github.com/hellguz/magnetizing/geom"
	"github.com/hellguz/magnetizing/grid"
	"github.com/hellguz/magnetizing/rng"
)

// State tracks the grid's lifecycle through Solve.
type State int

const (
	StateInit State = iota
	StateGreedyDone
	StateRefining
	StatePruned
	StateValidated
)

// Solver owns a grid buffer and a placed-room map from construction to
// destruction; Solve mutates them in place.
type Solver struct {
	boundary       geom.Polygon
	originX        float64
	originY        float64
	gridResolution float64

	grid *grid.Buffer

	rooms       []config.RoomRequest
	adjacencies []config.Adjacency
	cfg         config.DiscreteConfig

	rng *rng.RNG

	placedRooms map[string]PlacedRoom

	startX, startY int

	state             State
	connectivityValid bool
}

// NewSolver validates the input and allocates and rasterizes the grid, but
// does not run any placement — call Solve for that. Returns an error
// (construction-time, no solver state created) for invalid input.
func NewSolver(boundary config.Boundary, rooms []config.RoomRequest, adjacencies []config.Adjacency, cfg config.DiscreteConfig, seed uint32) (*Solver, error) {
	if err := config.Validate(boundary, rooms, adjacencies); err != nil {
		return nil, err
	}

	roomsCopy := make([]config.RoomRequest, len(rooms))
	copy(roomsCopy, rooms)
	config.AssignIndices(roomsCopy)

	if cfg.GridResolution <= 0 {
		cfg.GridResolution = config.DefaultGridResolution
	}

	box := geom.FromPolygon(boundary)
	width := int(math.Ceil(box.Width() / cfg.GridResolution))
	height := int(math.Ceil(box.Height() / cfg.GridResolution))
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	g := grid.NewBuffer(width, height)
	g.RasterizePolygon(boundary, box.MinX, box.MinY, cfg.GridResolution)

	startX, startY := width/2, height/2
	if cfg.StartPoint != nil {
		startX = int((cfg.StartPoint.X - box.MinX) / cfg.GridResolution)
		startY = int((cfg.StartPoint.Y - box.MinY) / cfg.GridResolution)
	}
	g.Set(startX, startY, grid.Corridor)

	s := &Solver{
		boundary:       boundary,
		originX:        box.MinX,
		originY:        box.MinY,
		gridResolution: cfg.GridResolution,
		grid:           g,
		rooms:          roomsCopy,
		adjacencies:    adjacencies,
		cfg:            cfg,
		rng:            rng.New(seed),
		placedRooms:    make(map[string]PlacedRoom),
		startX:         startX,
		startY:         startY,
		state:          StateInit,
	}
	return s, nil
}

// Solve runs the greedy initial placement, the evolutionary refinement
// loop, and post-processing (dead-end pruning then connectivity
// validation), advancing State at each stage.
func (s *Solver) Solve() {
	order := roomsByDegreeDescending(s.rooms, s.adjacencies)
	s.greedyPlace(order)
	s.state = StateGreedyDone

	s.refine()
	s.state = StateRefining

	pruneDeadEnds(s.grid)
	s.state = StatePruned

	s.connectivityValid = validateConnectivity(s.grid, s.startX, s.startY)
	s.state = StateValidated
}

// GetGrid returns a borrowed, read-only view of the grid buffer, valid
// until the next call to Solve.
func (s *Solver) GetGrid() *grid.Buffer { return s.grid }

// GetPlacedRooms returns a borrowed, read-only view of the placed-room
// map, valid until the next call to Solve.
func (s *Solver) GetPlacedRooms() map[string]PlacedRoom { return s.placedRooms }

// ConnectivityValid reports whether the post-prune BFS reached every
// corridor cell. False does not stop Solve from returning its best grid —
// callers decide whether to accept a disconnected result.
func (s *Solver) ConnectivityValid() bool { return s.connectivityValid }

// Stats summarizes a completed solve, supplementing the bare grid/
// placed-room observers with the aggregate counts a caller otherwise has
// to recompute, grounded on maze.RoomResult.Entries giving per-room
// connectivity info alongside the raw grid.
type Stats struct {
	RoomsRequested int
	RoomsPlaced    int
	CorridorCells  int
	ConnectivityOK bool
}

// Stats computes the current aggregate counts.
func (s *Solver) Stats() Stats {
	corridorCells := 0
	for y := 0; y < s.grid.Height(); y++ {
		for x := 0; x < s.grid.Width(); x++ {
			if s.grid.Get(x, y) == grid.Corridor {
				corridorCells++
			}
		}
	}
	return Stats{
		RoomsRequested: len(s.rooms),
		RoomsPlaced:    len(s.placedRooms),
		CorridorCells:  corridorCells,
		ConnectivityOK: s.connectivityValid,
	}
}

// roomsByDegreeDescending computes each room's stable connectivity degree
// (the count of adjacency entries naming it) and returns the room list
// sorted descending by degree, ties broken by original input order.
func roomsByDegreeDescending(rooms []config.RoomRequest, adjacencies []config.Adjacency) []config.RoomRequest {
	degree := make(map[string]int, len(rooms))
	for _, a := range adjacencies {
		degree[a.A]++
		degree[a.B]++
	}

	order := make([]config.RoomRequest, len(rooms))
	copy(order, rooms)
	sort.SliceStable(order, func(i, j int) bool {
		return degree[order[i].ID] > degree[order[j].ID]
	})
	return order
}

// greedyPlace attempts find-best-placement-and-stamp for each room in
// order, skipping any for which no valid placement exists.
func (s *Solver) greedyPlace(order []config.RoomRequest) {
	for _, room := range order {
		s.tryPlace(room)
	}
}

// tryPlace finds the best placement for room and stamps it if one exists,
// recording the result in placedRooms. Returns whether a placement was
// made.
func (s *Solver) tryPlace(room config.RoomRequest) bool {
	candidate, ok := s.findBestPlacement(room)
	if !ok {
		return false
	}
	stampRoom(s.grid, candidate.X, candidate.Y, candidate.Width, candidate.Height, room.Index+1, room.CorridorRule)
	s.placedRooms[room.ID] = candidate
	return true
}

// refine runs MaxIterations snapshot/mutate/evaluate rounds, keeping the
// best-scoring grid/placed-rooms state seen and restoring the previous
// state whenever a round fails to improve on it.
func (s *Solver) refine() {
	bestScore := s.calculateGlobalScore()

	for iter := 0; iter < s.cfg.MaxIterations; iter++ {
		snapshotGrid := s.grid.Clone()
		snapshotPlaced := cloneRoomMap(s.placedRooms)

		s.mutateRound()

		score := s.calculateGlobalScore()
		if score > bestScore {
			bestScore = score
			continue
		}

		s.grid = snapshotGrid
		s.placedRooms = snapshotPlaced
	}
}

// mutateRound removes ⌈|placed|·mutation_rate⌉ randomly-chosen placed
// rooms, then re-attempts placement for every currently-unplaced room in
// original insertion order.
func (s *Solver) mutateRound() {
	placedIDs := make([]string, 0, len(s.placedRooms))
	for id := range s.placedRooms {
		placedIDs = append(placedIDs, id)
	}
	sort.Strings(placedIDs)
	s.rng.Shuffle(len(placedIDs), func(i, j int) { placedIDs[i], placedIDs[j] = placedIDs[j], placedIDs[i] })

	numToRemove := int(math.Ceil(float64(len(placedIDs)) * s.cfg.MutationRate))
	for i := 0; i < numToRemove && i < len(placedIDs); i++ {
		id := placedIDs[i]
		room := s.placedRooms[id]
		removeRoom(s.grid, room.X, room.Y, room.Width, room.Height, room.CorridorRule)
		delete(s.placedRooms, id)
	}

	for _, room := range s.rooms {
		if _, placed := s.placedRooms[room.ID]; placed {
			continue
		}
		s.tryPlace(room)
	}
}

// calculateGlobalScore returns 100·|placed| minus the weighted sum of
// center distances between every placed adjacency pair. More placements
// and closer partners both raise the score.
func (s *Solver) calculateGlobalScore() float64 {
	score := 100 * float64(len(s.placedRooms))
	for _, adj := range s.adjacencies {
		a, okA := s.placedRooms[adj.A]
		b, okB := s.placedRooms[adj.B]
		if !okA || !okB {
			continue
		}
		ax, ay := a.center()
		bx, by := b.center()
		dist := math.Hypot(ax-bx, ay-by)
		score -= adj.Weight * dist
	}
	return score
}

// findBestPlacement samples one random aspect ratio within the room's
// allowed interval, derives integer grid dimensions, and scans every
// candidate (x,y) in row-major order for the maximum-scoring valid
// placement. Returns ok=false if nothing was valid.
func (s *Solver) findBestPlacement(room config.RoomRequest) (PlacedRoom, bool) {
	lo, hi := 1/room.TargetRatio, room.TargetRatio
	ratio := s.rng.NextFloat(lo, hi)

	worldWidth := math.Sqrt(room.TargetArea * ratio)
	worldHeight := room.TargetArea / worldWidth
	w := int(math.Round(worldWidth / s.gridResolution))
	h := int(math.Round(worldHeight / s.gridResolution))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	var best PlacedRoom
	bestScore := math.Inf(-1)
	found := false

	width, height := s.grid.Width(), s.grid.Height()
	for y := 0; y <= height-h; y++ {
		for x := 0; x <= width-w; x++ {
			if !isValidPlacement(s.grid, x, y, w, h, room.CorridorRule) {
				continue
			}
			score := s.placementScore(room, x, y, w, h)
			if !found || score > bestScore {
				found = true
				bestScore = score
				best = PlacedRoom{
					ID: room.ID, X: x, Y: y, Width: w, Height: h,
					Index: room.Index, CorridorRule: room.CorridorRule,
				}
			}
		}
	}
	return best, found
}

// placementScore computes w_compactness·compactness − w_adjacency·
// mean_distance_to_already_placed_partners for a candidate at (x,y).
func (s *Solver) placementScore(room config.RoomRequest, x, y, w, h int) float64 {
	comp := float64(compactness(s.grid, x, y, w, h))

	candidateCx := float64(x) + float64(w)/2
	candidateCy := float64(y) + float64(h)/2

	weightedDistSum := 0.0
	weightSum := 0.0
	for _, adj := range s.adjacencies {
		var partnerID string
		switch room.ID {
		case adj.A:
			partnerID = adj.B
		case adj.B:
			partnerID = adj.A
		default:
			continue
		}
		partner, ok := s.placedRooms[partnerID]
		if !ok {
			continue
		}
		px, py := partner.center()
		dist := math.Hypot(candidateCx-px, candidateCy-py)
		weightedDistSum += adj.Weight * dist
		weightSum += adj.Weight
	}

	meanDist := 0.0
	if weightSum > 0 {
		meanDist = weightedDistSum / weightSum
	}

	return s.cfg.WeightCompactness*comp - s.cfg.WeightAdjacency*meanDist
}

func cloneRoomMap(m map[string]PlacedRoom) map[string]PlacedRoom {
	out := make(map[string]PlacedRoom, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
