package gene

import (
	"math"
	"sort"

	"github.com/hellguz/magnetizing/config"
	"github.com/hellguz/magnetizing/rng"
)

// Mutate applies swap mutation (optional), per-room translate or
// partner-bias translate, and per-room aspect-ratio mutation.
func Mutate(g *Gene, r *rng.RNG, mutationRate, mutationStrength, aspectRatioMutationRate float64, cfg config.SpringConfig, adjacencies []config.Adjacency) {
	if cfg.UseSwapMutation && r.Float64() < cfg.SwapMutationRate {
		applySwapMutation(g, r, adjacencies)
	}

	for i := range g.Rooms {
		room := &g.Rooms[i]

		moved := false
		if cfg.UsePartnerBias && r.Float64() < cfg.PartnerBiasRate {
			if partner := findAdjacencyPartner(g, adjacencies, room.ID, r); partner != nil {
				room.X += 0.7 * (partner.X - room.X)
				room.Y += 0.7 * (partner.Y - room.Y)
				moved = true
			}
		}
		if !moved && r.Float64() < mutationRate {
			room.X += r.NextFloat(-mutationStrength/2, mutationStrength/2)
			room.Y += r.NextFloat(-mutationStrength/2, mutationStrength/2)
		}

		if r.Float64() < aspectRatioMutationRate {
			mutateAspectRatio(room, r, cfg)
		}

		clampDimensions(room)
	}
}

// mutateAspectRatio jitters a room's current width:height ratio by ±10%,
// biases it toward the less-pressured axis once accumulated pressure
// exceeds PressureActivationThreshold, clamps to the effective bound, and
// recomputes width/height to preserve target area.
func mutateAspectRatio(room *RoomState, r *rng.RNG, cfg config.SpringConfig) {
	currentRatio := room.Width / room.Height
	jitter := 1 + r.NextFloat(-0.1, 0.1)
	newRatio := currentRatio * jitter

	totalPressure := room.AccumulatedPressureX + room.AccumulatedPressureY
	if totalPressure > config.PressureActivationThreshold {
		sign := 1.0
		if room.AccumulatedPressureX < room.AccumulatedPressureY {
			sign = -1.0
		}
		newRatio += sign * config.PressureSensitivity
	}

	eff := effectiveTargetRatio(*room, cfg.GlobalTargetRatio)
	if eff > 0 {
		newRatio = math.Max(1/eff, math.Min(eff, newRatio))
	}

	room.Width = math.Sqrt(room.TargetArea * newRatio)
	room.Height = room.TargetArea / room.Width
}

// findAdjacencyPartner returns a random room connected to roomID by an
// adjacency entry, or nil if it has none.
func findAdjacencyPartner(g *Gene, adjacencies []config.Adjacency, roomID string, r *rng.RNG) *RoomState {
	var partnerIDs []string
	for _, adj := range adjacencies {
		switch roomID {
		case adj.A:
			partnerIDs = append(partnerIDs, adj.B)
		case adj.B:
			partnerIDs = append(partnerIDs, adj.A)
		}
	}
	if len(partnerIDs) == 0 {
		return nil
	}
	return g.findRoom(partnerIDs[r.NextInt(0, len(partnerIDs))])
}

// swapCandidate is one adjacency pair considered for a position swap.
type swapCandidate struct {
	aID, bID string
	score    float64
}

// applySwapMutation swaps the positions of two rooms: preferentially one
// of the top three adjacency pairs whose swap would most reduce total
// weighted center-distance across every adjacency touching either room,
// falling back to two uniformly random rooms when no pair would help.
func applySwapMutation(g *Gene, r *rng.RNG, adjacencies []config.Adjacency) {
	var candidates []swapCandidate
	for _, adj := range adjacencies {
		improvement := swapImprovement(g, adjacencies, adj.A, adj.B)
		if improvement > 0 {
			candidates = append(candidates, swapCandidate{
				aID: adj.A, bID: adj.B, score: improvement * adj.Weight,
			})
		}
	}

	if len(candidates) > 0 {
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
		top := candidates
		if len(top) > 3 {
			top = top[:3]
		}
		pick := top[r.NextInt(0, len(top))]
		swapPositions(g, pick.aID, pick.bID)
		return
	}

	if len(g.Rooms) < 2 {
		return
	}
	i := r.NextInt(0, len(g.Rooms))
	j := r.NextInt(0, len(g.Rooms)-1)
	if j >= i {
		j++
	}
	g.Rooms[i].X, g.Rooms[j].X = g.Rooms[j].X, g.Rooms[i].X
	g.Rooms[i].Y, g.Rooms[j].Y = g.Rooms[j].Y, g.Rooms[i].Y
}

// swapImprovement estimates how much swapping aID and bID's positions
// would reduce the total weighted center-distance across every adjacency
// touching either room, by simulating the swap, recomputing, and undoing
// it.
func swapImprovement(g *Gene, adjacencies []config.Adjacency, aID, bID string) float64 {
	a := g.findRoom(aID)
	b := g.findRoom(bID)
	if a == nil || b == nil {
		return 0
	}

	before := weightedAdjacencyCost(g, adjacencies, aID, bID)

	a.X, b.X = b.X, a.X
	a.Y, b.Y = b.Y, a.Y

	after := weightedAdjacencyCost(g, adjacencies, aID, bID)

	a.X, b.X = b.X, a.X
	a.Y, b.Y = b.Y, a.Y

	return before - after
}

// weightedAdjacencyCost sums weight·centerDistance over every adjacency
// touching roomA or roomB.
func weightedAdjacencyCost(g *Gene, adjacencies []config.Adjacency, roomA, roomB string) float64 {
	total := 0.0
	for _, adj := range adjacencies {
		if adj.A != roomA && adj.B != roomA && adj.A != roomB && adj.B != roomB {
			continue
		}
		a := g.findRoom(adj.A)
		b := g.findRoom(adj.B)
		if a == nil || b == nil {
			continue
		}
		acx, acy := a.center()
		bcx, bcy := b.center()
		dist := math.Hypot(acx-bcx, acy-bcy)
		total += adj.Weight * dist
	}
	return total
}

// swapPositions exchanges the X,Y position of the rooms with ids aID and
// bID.
func swapPositions(g *Gene, aID, bID string) {
	a := g.findRoom(aID)
	b := g.findRoom(bID)
	if a == nil || b == nil {
		return
	}
	a.X, b.X = b.X, a.X
	a.Y, b.Y = b.Y, a.Y
}
