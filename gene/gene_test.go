package gene

import (
	"testing"

	"github.com/hellguz/magnetizing/config"
	"github.com/hellguz/magnetizing/geom"
	"github.com/hellguz/magnetizing/rng"
	"github.com/stretchr/testify/require"
)

func sampleTemplate() []RoomState {
	return []RoomState{
		{ID: "living", Index: 0, X: 0, Y: 0, Width: 14, Height: 14, TargetArea: 200, TargetRatio: 1.5},
		{ID: "kitchen", Index: 1, X: 10, Y: 0, Width: 10, Height: 12, TargetArea: 120, TargetRatio: 1.2},
		{ID: "bedroom", Index: 2, X: 0, Y: 10, Width: 12, Height: 12.5, TargetArea: 150, TargetRatio: 1.3},
	}
}

func sampleAdjacencies() []config.Adjacency {
	return []config.Adjacency{
		{A: "living", B: "kitchen", Weight: 2},
		{A: "kitchen", B: "bedroom", Weight: 1},
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewFromTemplate(sampleTemplate())
	clone := g.Clone()
	clone.Rooms[0].X = 999

	require.NotEqual(t, clone.Rooms[0].X, g.Rooms[0].X)
}

func TestSquishResolvesOverlap(t *testing.T) {
	g := NewFromTemplate(sampleTemplate())
	boundary := geom.CreateRectangle(-50, -50, 100, 100)
	cfg := config.DefaultSpringConfig()

	for i := 0; i < 20; i++ {
		ApplySquishCollisions(&g, boundary, cfg, sampleAdjacencies())
	}

	for _, r := range g.Rooms {
		require.GreaterOrEqual(t, r.Width, 1.0)
		require.GreaterOrEqual(t, r.Height, 1.0)
	}
}

func TestDimensionsNeverBelowOne(t *testing.T) {
	g := Gene{Rooms: []RoomState{
		{ID: "a", X: 0, Y: 0, Width: 0.1, Height: 0.1, TargetArea: 1, TargetRatio: 1},
		{ID: "b", X: 0.05, Y: 0.05, Width: 0.1, Height: 0.1, TargetArea: 1, TargetRatio: 1},
	}}
	boundary := geom.CreateRectangle(-10, -10, 20, 20)
	cfg := config.DefaultSpringConfig()
	ApplySquishCollisions(&g, boundary, cfg, nil)

	for _, r := range g.Rooms {
		require.GreaterOrEqual(t, r.Width, 1.0)
		require.GreaterOrEqual(t, r.Height, 1.0)
	}
}

func TestBoundaryContainmentPushesInside(t *testing.T) {
	g := Gene{Rooms: []RoomState{
		{ID: "a", X: -50, Y: -50, Width: 5, Height: 5, TargetArea: 25, TargetRatio: 1},
	}}
	boundary := geom.CreateRectangle(0, 0, 20, 20)
	cfg := config.DefaultSpringConfig()

	ApplySquishCollisions(&g, boundary, cfg, nil)

	r := g.Rooms[0]
	for _, c := range roomCorners(r) {
		require.True(t, geom.PointInPolygon(c, boundary) || nearBoundary(c, boundary))
	}
}

// nearBoundary tolerates the asymptotic nature of the corner-fixup loop —
// property 10 explicitly allows "modulo iteration cap".
func nearBoundary(p geom.Vec2, boundary geom.Polygon) bool {
	closest := geom.ClosestPointOnPolygonBoundary(p, boundary)
	return geom.Distance(p, closest) < 1.0
}

func TestFitnessLowerIsBetterOnLessOverlap(t *testing.T) {
	boundary := geom.CreateRectangle(-50, -50, 100, 100)
	cfg := config.DefaultSpringConfig()

	overlapping := Gene{Rooms: []RoomState{
		{ID: "a", X: 0, Y: 0, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1},
		{ID: "b", X: 5, Y: 0, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1},
	}}
	separate := Gene{Rooms: []RoomState{
		{ID: "a", X: 0, Y: 0, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1},
		{ID: "b", X: 20, Y: 0, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1},
	}}

	CalculateFitness(&overlapping, boundary, nil, 1.0, cfg)
	CalculateFitness(&separate, boundary, nil, 1.0, cfg)

	require.Greater(t, overlapping.Geometric, separate.Geometric)
}

func TestMutateKeepsDimensionsValid(t *testing.T) {
	g := NewFromTemplate(sampleTemplate())
	r := rng.New(42)
	cfg := config.DefaultSpringConfig()

	for i := 0; i < 50; i++ {
		Mutate(&g, r, 0.5, 2.0, 0.3, cfg, sampleAdjacencies())
	}

	for _, room := range g.Rooms {
		require.GreaterOrEqual(t, room.Width, 1.0)
		require.GreaterOrEqual(t, room.Height, 1.0)
	}
}

func TestCrossoverPreservesIdsAndOrder(t *testing.T) {
	left := NewFromTemplate(sampleTemplate())
	right := NewFromTemplate(sampleTemplate())
	right.Rooms[0].X = 999

	r := rng.New(7)
	child := Crossover(left, right, r)

	require.Len(t, child.Rooms, len(left.Rooms))
	for i, room := range child.Rooms {
		require.Equal(t, left.Rooms[i].ID, room.ID)
	}
}

func TestDeterministicMutation(t *testing.T) {
	cfg := config.DefaultSpringConfig()
	adjacencies := sampleAdjacencies()

	a := NewFromTemplate(sampleTemplate())
	b := NewFromTemplate(sampleTemplate())

	ra := rng.New(55)
	rb := rng.New(55)

	for i := 0; i < 10; i++ {
		Mutate(&a, ra, 0.5, 1.5, 0.3, cfg, adjacencies)
		Mutate(&b, rb, 0.5, 1.5, 0.3, cfg, adjacencies)
	}

	require.Equal(t, a, b)
}

func TestEffectiveTargetRatio(t *testing.T) {
	room := RoomState{ID: "living", TargetRatio: 1.3}
	require.Equal(t, 1.3, effectiveTargetRatio(room, 0))
	require.Equal(t, 2.0, effectiveTargetRatio(room, 2.0))

	corridor := RoomState{ID: "corridor-1", TargetRatio: 1.3}
	require.Equal(t, 1.3, effectiveTargetRatio(corridor, 2.0))
}
