package config

import "github.com/hellguz/magnetizing/geom"

// Discrete solver defaults, grouped by concern.
const (
	// DefaultGridResolution is meters per grid cell.
	DefaultGridResolution = 1.0

	// DefaultMaxIterations caps the discrete solver's snapshot/mutate/
	// evaluate refinement rounds.
	DefaultMaxIterations = 500

	// DefaultMutationRate is the fraction of placed rooms removed per
	// refinement round.
	DefaultMutationRate = 0.3
)

// Discrete solver scoring weights.
const (
	DefaultWeightCompactness = 2.0
	DefaultWeightAdjacency   = 3.0
	DefaultWeightCorridor    = 0.5
)

// DiscreteConfig tunes the discrete topological solver. A zero value is
// not a valid config; use DefaultDiscreteConfig to get one.
type DiscreteConfig struct {
	GridResolution float64 `toml:"grid_resolution"`
	MaxIterations  int     `toml:"max_iterations"`
	MutationRate   float64 `toml:"mutation_rate"`

	// StartPoint seeds the corridor network. A nil pointer means "default
	// to the grid center", resolved at solver construction time since the
	// center depends on the rasterized boundary.
	StartPoint *geom.Vec2 `toml:"-"`

	WeightCompactness float64 `toml:"weight_compactness"`
	WeightAdjacency   float64 `toml:"weight_adjacency"`
	WeightCorridor    float64 `toml:"weight_corridor"`
}

// DefaultDiscreteConfig returns the documented defaults.
func DefaultDiscreteConfig() DiscreteConfig {
	return DiscreteConfig{
		GridResolution:    DefaultGridResolution,
		MaxIterations:     DefaultMaxIterations,
		MutationRate:      DefaultMutationRate,
		StartPoint:        nil,
		WeightCompactness: DefaultWeightCompactness,
		WeightAdjacency:   DefaultWeightAdjacency,
		WeightCorridor:    DefaultWeightCorridor,
	}
}
