// Package floorplan wires the discrete topological solver and the
// continuous geometric refiner into one pipeline: solve room adjacency and
// placement on a grid, seed a population of continuous layouts from the
// placement, then refine. Grounded on the "thin interface, useful but
// optional" design note asking for dynamic dispatch across solver phases
// without forcing a shared base type.
package floorplan

import (
	"fmt"

	"github.com/hellguz/magnetizing/config"
	"github.com/hellguz/magnetizing/discrete"
	"github.com/hellguz/magnetizing/gene"
	"github.com/hellguz/magnetizing/geom"
	"github.com/hellguz/magnetizing/population"
)

// Stepper advances one phase of the pipeline by a single unit of work and
// reports whether that phase is finished. DiscreteStepper and
// ContinuousStepper both implement it so a driver can treat either phase
// identically.
type Stepper interface {
	Step()
	IsDone() bool
}

// DiscreteStepper drives the discrete topological solver; its single Step
// runs the whole greedy placement and refinement.
type DiscreteStepper struct {
	solver   *discrete.Solver
	maxSteps int
	steps    int
}

// NewDiscreteStepper wraps a freshly constructed discrete solver.
func NewDiscreteStepper(solver *discrete.Solver, maxSteps int) *DiscreteStepper {
	return &DiscreteStepper{solver: solver, maxSteps: maxSteps}
}

// Step runs the solver to completion; the discrete solver's own greedy
// placement and mutation-refinement loop isn't meaningfully resumable
// mid-round, so a single Step call exhausts it.
func (s *DiscreteStepper) Step() {
	if s.steps >= s.maxSteps {
		return
	}
	s.solver.Solve()
	s.steps = s.maxSteps
}

// IsDone reports whether Step has run.
func (s *DiscreteStepper) IsDone() bool { return s.steps >= s.maxSteps }

// Solver exposes the wrapped discrete solver for result extraction.
func (s *DiscreteStepper) Solver() *discrete.Solver { return s.solver }

// ContinuousStepper drives the continuous refiner's population one
// generation at a time.
type ContinuousStepper struct {
	collection    *population.Collection
	maxGenerations int
	generation    int
	converged     bool
	window        int
	epsilon       float64
}

// NewContinuousStepper wraps a freshly constructed population.
func NewContinuousStepper(collection *population.Collection, maxGenerations, convergenceWindow int, convergenceEpsilon float64) *ContinuousStepper {
	return &ContinuousStepper{
		collection:     collection,
		maxGenerations: maxGenerations,
		window:         convergenceWindow,
		epsilon:        convergenceEpsilon,
	}
}

// Step advances the population by one generation.
func (s *ContinuousStepper) Step() {
	if s.IsDone() {
		return
	}
	s.collection.Iterate()
	s.generation++
	if s.collection.HasConverged(s.window, s.epsilon) {
		s.converged = true
	}
}

// IsDone reports whether the generation cap was reached or the population
// has converged.
func (s *ContinuousStepper) IsDone() bool {
	return s.converged || s.generation >= s.maxGenerations
}

// GetBestLayout returns the current best gene in the wrapped population.
func (s *ContinuousStepper) GetBestLayout() gene.Gene {
	return s.collection.GetBest()
}

// Collection exposes the wrapped population for stats reporting.
func (s *ContinuousStepper) Collection() *population.Collection { return s.collection }

// SeedContinuous converts a completed discrete solve's grid-unit placements
// into world-unit RoomState values a continuous population can start from.
func SeedContinuous(placed map[string]discrete.PlacedRoom, rooms []config.RoomRequest, cfg config.DiscreteConfig) ([]gene.RoomState, error) {
	template := make([]gene.RoomState, 0, len(rooms))
	for _, req := range rooms {
		p, ok := placed[req.ID]
		if !ok {
			return nil, fmt.Errorf("room %q was not placed by the discrete solver", req.ID)
		}
		template = append(template, gene.RoomState{
			ID:          req.ID,
			Index:       req.Index,
			X:           float64(p.X) * cfg.GridResolution,
			Y:           float64(p.Y) * cfg.GridResolution,
			Width:       float64(p.Width) * cfg.GridResolution,
			Height:      float64(p.Height) * cfg.GridResolution,
			TargetArea:  req.TargetArea,
			TargetRatio: req.TargetRatio,
		})
	}
	return template, nil
}

// Run executes the full pipeline: discrete solve, seed, continuous refine
// to either convergence or maxGenerations, returning the best resulting
// gene and the discrete solver's own placement stats.
func Run(boundary geom.Polygon, rooms []config.RoomRequest, adjacencies []config.Adjacency, discreteCfg config.DiscreteConfig, springCfg config.SpringConfig, seed uint32, maxGenerations, convergenceWindow int, convergenceEpsilon float64) (gene.Gene, discrete.Stats, error) {
	solver, err := discrete.NewSolver(boundary, rooms, adjacencies, discreteCfg, seed)
	if err != nil {
		return gene.Gene{}, discrete.Stats{}, err
	}

	ds := NewDiscreteStepper(solver, 1)
	for !ds.IsDone() {
		ds.Step()
	}

	template, err := SeedContinuous(solver.GetPlacedRooms(), rooms, discreteCfg)
	if err != nil {
		return gene.Gene{}, solver.Stats(), err
	}

	collection := population.NewCollection(template, boundary, adjacencies, springCfg, seed)
	cs := NewContinuousStepper(collection, maxGenerations, convergenceWindow, convergenceEpsilon)
	for !cs.IsDone() {
		cs.Step()
	}

	return cs.GetBestLayout(), solver.Stats(), nil
}
