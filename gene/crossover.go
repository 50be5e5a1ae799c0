package gene

import "github.com/hellguz/magnetizing/rng"

// Crossover produces a child gene with one room per id (both parents must
// carry the same ids in the same order); each of a room's free-varying
// scalar fields is picked independently and uniformly from either parent.
// TargetArea and TargetRatio are copied from the left parent; pressures
// start at zero.
func Crossover(left, right Gene, r *rng.RNG) Gene {
	child := Gene{Rooms: make([]RoomState, len(left.Rooms))}

	for i := range left.Rooms {
		l := left.Rooms[i]
		var rt RoomState
		if i < len(right.Rooms) {
			rt = right.Rooms[i]
		} else {
			rt = l
		}

		child.Rooms[i] = RoomState{
			ID:          l.ID,
			Index:       l.Index,
			X:           pick(r, l.X, rt.X),
			Y:           pick(r, l.Y, rt.Y),
			Width:       pick(r, l.Width, rt.Width),
			Height:      pick(r, l.Height, rt.Height),
			TargetArea:  l.TargetArea,
			TargetRatio: l.TargetRatio,
		}
	}

	return child
}

// pick returns a or b with equal probability.
func pick(r *rng.RNG, a, b float64) float64 {
	if r.Float64() < 0.5 {
		return a
	}
	return b
}
