// Package config holds the caller-supplied input types (room requests,
// adjacencies) and the tunable option structs for both solvers, along with
// their TOML-backed defaults, serialization, and construction-time
// validation.
package config

import (
	"fmt"

	"github.com/hellguz/magnetizing/geom"
)

// CorridorRule controls which cells around a placed room the discrete
// solver claims as corridor footprint.
type CorridorRule int

const (
	// NoCorridor claims no footprint cells.
	NoCorridor CorridorRule = iota
	// OneSide claims one row of cells immediately below the room.
	OneSide
	// TwoSides claims an L-shape: bottom row plus right column.
	TwoSides
	// AllSides claims a one-cell-thick halo around the room.
	AllSides
)

// String renders the rule the way TOML config files name it.
func (r CorridorRule) String() string {
	switch r {
	case NoCorridor:
		return "NONE"
	case OneSide:
		return "ONE_SIDE"
	case TwoSides:
		return "TWO_SIDES"
	case AllSides:
		return "ALL_SIDES"
	default:
		return "NONE"
	}
}

// ParseCorridorRule maps a config string to its CorridorRule.
func ParseCorridorRule(s string) (CorridorRule, error) {
	switch s {
	case "NONE", "":
		return NoCorridor, nil
	case "ONE_SIDE":
		return OneSide, nil
	case "TWO_SIDES":
		return TwoSides, nil
	case "ALL_SIDES":
		return AllSides, nil
	default:
		return NoCorridor, fmt.Errorf("config: unknown corridor rule %q", s)
	}
}

// RoomRequest is one caller-supplied room to place.
type RoomRequest struct {
	ID          string  `toml:"id"`
	TargetArea  float64 `toml:"target_area"`
	TargetRatio float64 `toml:"target_ratio"`
	// CorridorRule is not stored as a TOML field directly: the wire format
	// keeps it as the string in roomRequestWire.CorridorRule, converted by
	// Load/Save, since the reflection-based TOML codec has no hook for
	// encoding a named int type as a symbolic string.
	CorridorRule CorridorRule `toml:"-"`
	// Index is the room's stable, zero-based position in the input list.
	// Hot-path code carries this instead of the string id to avoid
	// per-iteration map lookups.
	Index int `toml:"-"`
}

// Adjacency is a soft pairwise requirement that two rooms sit close
// together or share a wall, weighted by importance. The same pair may
// appear more than once; weights add.
type Adjacency struct {
	A, B   string
	Weight float64
}

// Boundary is the polygonal site outline, stored as a geom.Polygon
// directly since config carries no semantics beyond the raw vertices.
type Boundary = geom.Polygon

// Validate checks the invariants construction-time: non-empty boundary,
// positive areas, ratios ≥1, adjacency ids that all resolve, and unique
// room ids. Returns the first violation found; callers construct no
// solver state when this returns non-nil.
func Validate(boundary Boundary, rooms []RoomRequest, adjacencies []Adjacency) error {
	if len(boundary) < 3 {
		return fmt.Errorf("config: boundary must have at least 3 vertices, got %d", len(boundary))
	}

	seen := make(map[string]bool, len(rooms))
	for _, r := range rooms {
		if r.ID == "" {
			return fmt.Errorf("config: room id must not be empty")
		}
		if seen[r.ID] {
			return fmt.Errorf("config: duplicate room id %q", r.ID)
		}
		seen[r.ID] = true
		if r.TargetArea <= 0 {
			return fmt.Errorf("config: room %q target_area must be positive, got %v", r.ID, r.TargetArea)
		}
		if r.TargetRatio < 1 {
			return fmt.Errorf("config: room %q target_ratio must be >= 1, got %v", r.ID, r.TargetRatio)
		}
	}

	for _, adj := range adjacencies {
		if !seen[adj.A] {
			return fmt.Errorf("config: adjacency references unknown room id %q", adj.A)
		}
		if !seen[adj.B] {
			return fmt.Errorf("config: adjacency references unknown room id %q", adj.B)
		}
	}

	return nil
}

// AssignIndices stamps each room's Index field with its zero-based
// position in the slice, per the id-to-index table design note.
func AssignIndices(rooms []RoomRequest) {
	for i := range rooms {
		rooms[i].Index = i
	}
}

// WeightedAdjacency sums every adjacency weight between room ids a and b
// (duplicates in the input list add), in either order.
func WeightedAdjacency(adjacencies []Adjacency, a, b string) float64 {
	total := 0.0
	for _, adj := range adjacencies {
		if (adj.A == a && adj.B == b) || (adj.A == b && adj.B == a) {
			total += adj.Weight
		}
	}
	return total
}
