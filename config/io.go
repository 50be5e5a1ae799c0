package config

import (
	"fmt"
	"os"

	"github.com/hellguz/magnetizing/geom"
	"github.com/hellguz/magnetizing/toml"
)

// roomRequestWire is the on-disk shape of a RoomRequest: corridor_rule is
// the symbolic string, not the CorridorRule int.
type roomRequestWire struct {
	ID           string  `toml:"id"`
	TargetArea   float64 `toml:"target_area"`
	TargetRatio  float64 `toml:"target_ratio"`
	CorridorRule string  `toml:"corridor_rule"`
}

// adjacencyWire is the on-disk shape of an Adjacency.
type adjacencyWire struct {
	A      string  `toml:"a"`
	B      string  `toml:"b"`
	Weight float64 `toml:"weight"`
}

// document is the root TOML table: boundary vertices, room requests,
// adjacencies, and both solver configs in one file, so a single Load call
// can seed both solvers from shared input.
type document struct {
	Boundary    []pointWire       `toml:"boundary"`
	Rooms       []roomRequestWire `toml:"rooms"`
	Adjacencies []adjacencyWire   `toml:"adjacencies"`
	Discrete    DiscreteConfig    `toml:"discrete"`
	Spring      SpringConfig      `toml:"spring"`
}

type pointWire struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
}

// Load reads a TOML document describing a full problem instance (boundary,
// rooms, adjacencies, and both solver configs) from path.
func Load(path string) (Boundary, []RoomRequest, []Adjacency, DiscreteConfig, SpringConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, DiscreteConfig{}, SpringConfig{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, nil, nil, DiscreteConfig{}, SpringConfig{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	boundary := make(Boundary, len(doc.Boundary))
	for i, p := range doc.Boundary {
		boundary[i] = geom.Vec2{X: p.X, Y: p.Y}
	}

	rooms := make([]RoomRequest, len(doc.Rooms))
	for i, w := range doc.Rooms {
		rule, err := ParseCorridorRule(w.CorridorRule)
		if err != nil {
			return nil, nil, nil, DiscreteConfig{}, SpringConfig{}, fmt.Errorf("config: room %q: %w", w.ID, err)
		}
		rooms[i] = RoomRequest{
			ID:           w.ID,
			TargetArea:   w.TargetArea,
			TargetRatio:  w.TargetRatio,
			CorridorRule: rule,
		}
	}
	AssignIndices(rooms)

	adjacencies := make([]Adjacency, len(doc.Adjacencies))
	for i, w := range doc.Adjacencies {
		weight := w.Weight
		if weight == 0 {
			weight = 1.0
		}
		adjacencies[i] = Adjacency{A: w.A, B: w.B, Weight: weight}
	}

	if err := Validate(boundary, rooms, adjacencies); err != nil {
		return nil, nil, nil, DiscreteConfig{}, SpringConfig{}, err
	}

	return boundary, rooms, adjacencies, doc.Discrete, doc.Spring, nil
}

// Save writes a problem instance and both solver configs to path as TOML.
func Save(path string, boundary Boundary, rooms []RoomRequest, adjacencies []Adjacency, discrete DiscreteConfig, spring SpringConfig) error {
	doc := document{
		Boundary:    make([]pointWire, len(boundary)),
		Rooms:       make([]roomRequestWire, len(rooms)),
		Adjacencies: make([]adjacencyWire, len(adjacencies)),
		Discrete:    discrete,
		Spring:      spring,
	}
	for i, v := range boundary {
		doc.Boundary[i] = pointWire{X: v.X, Y: v.Y}
	}
	for i, r := range rooms {
		doc.Rooms[i] = roomRequestWire{
			ID:           r.ID,
			TargetArea:   r.TargetArea,
			TargetRatio:  r.TargetRatio,
			CorridorRule: r.CorridorRule.String(),
		}
	}
	for i, a := range adjacencies {
		doc.Adjacencies[i] = adjacencyWire{A: a.A, B: a.B, Weight: a.Weight}
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
