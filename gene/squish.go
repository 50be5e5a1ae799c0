package gene

import (
	"math"

	"github.com/hellguz/magnetizing/config"
	"github.com/hellguz/magnetizing/geom"
)

// ApplySquishCollisions runs one physics tick over every room in g: zero
// pressures, optional inflation, optional adjacency attraction, pairwise
// overlap resolution along the shorter axis, pressure bookkeeping, and
// boundary containment.
func ApplySquishCollisions(g *Gene, boundary geom.Polygon, cfg config.SpringConfig, adjacencies []config.Adjacency) {
	for i := range g.Rooms {
		g.Rooms[i].PressureX = 0
		g.Rooms[i].PressureY = 0
	}

	if cfg.UseAggressiveInflation {
		applyAggressiveInflation(g, cfg)
	}

	applyAdjacencyAttraction(g, adjacencies, cfg)

	applyPairwiseOverlapResolution(g, cfg)

	for i := range g.Rooms {
		g.Rooms[i].AccumulatedPressureX = g.Rooms[i].PressureX
		g.Rooms[i].AccumulatedPressureY = g.Rooms[i].PressureY
	}

	for i := range g.Rooms {
		constrainToBoundary(&g.Rooms[i], boundary)
	}
}

// applyAggressiveInflation multiplies width and height by InflationRate
// for every room whose area falls below TargetArea·InflationThreshold.
func applyAggressiveInflation(g *Gene, cfg config.SpringConfig) {
	for i := range g.Rooms {
		r := &g.Rooms[i]
		if r.Width*r.Height < r.TargetArea*cfg.InflationThreshold {
			r.Width *= cfg.InflationRate
			r.Height *= cfg.InflationRate
			clampDimensions(r)
		}
	}
}

// applyAdjacencyAttraction nudges both endpoints of every resolvable
// adjacency toward each other by a fraction of their separation vector.
func applyAdjacencyAttraction(g *Gene, adjacencies []config.Adjacency, cfg config.SpringConfig) {
	if len(adjacencies) == 0 {
		return
	}
	strength := config.AdjacencyAttractionStrength

	for _, adj := range adjacencies {
		a := g.findRoom(adj.A)
		b := g.findRoom(adj.B)
		if a == nil || b == nil {
			continue
		}
		acx, acy := a.center()
		bcx, bcy := b.center()
		fraction := 0.1 * adj.Weight * strength
		dx := (bcx - acx) * fraction
		dy := (bcy - acy) * fraction
		a.X += dx
		a.Y += dy
		b.X -= dx
		b.Y -= dy
	}
}

// applyPairwiseOverlapResolution resolves every overlapping room pair
// (i,j), i<j, in the shared stored order, squishing along whichever axis
// has the smaller overlap.
func applyPairwiseOverlapResolution(g *Gene, cfg config.SpringConfig) {
	n := len(g.Rooms)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := &g.Rooms[i], &g.Rooms[j]
			boxA := geom.FromRect(a.X, a.Y, a.Width, a.Height)
			boxB := geom.FromRect(b.X, b.Y, b.Width, b.Height)
			overlapX, overlapY := geom.OverlapExtents(boxA, boxB)
			if overlapX <= 0 || overlapY <= 0 {
				continue
			}
			if overlapX < overlapY {
				horizontalSquish(a, b, overlapX, cfg)
			} else {
				verticalSquish(a, b, overlapY, cfg)
			}
		}
	}
}

// horizontalSquish resolves an X-axis overlap of width o between a and b.
func horizontalSquish(a, b *RoomState, o float64, cfg config.SpringConfig) {
	a.PressureX += o
	b.PressureX += o

	squishAmount := config.SquishFactor*0.5*o + 0.1

	trialWidthA := a.Width - squishAmount
	trialWidthB := b.Width - squishAmount

	squished := false
	if trialWidthA > 0 && trialWidthB > 0 {
		trialHeightA := a.TargetArea / trialWidthA
		trialHeightB := b.TargetArea / trialWidthB
		trialRatioA := trialWidthA / trialHeightA
		trialRatioB := trialWidthB / trialHeightB

		effA := effectiveTargetRatio(*a, cfg.GlobalTargetRatio)
		effB := effectiveTargetRatio(*b, cfg.GlobalTargetRatio)

		if ratioInBounds(trialRatioA, effA) && ratioInBounds(trialRatioB, effB) {
			displacement := (1-config.SquishFactor)*0.5*o + squishAmount*0.5
			if a.X < b.X {
				a.X -= displacement
				b.X += displacement
			} else {
				a.X += displacement
				b.X -= displacement
			}
			a.Width, a.Height = trialWidthA, trialHeightA
			b.Width, b.Height = trialWidthB, trialHeightB
			squished = true
		}
	}

	if !squished {
		displacement := 0.5*o + 0.1
		if a.X < b.X {
			a.X -= displacement
			b.X += displacement
		} else {
			a.X += displacement
			b.X -= displacement
		}
	}

	clampDimensions(a)
	clampDimensions(b)
}

// verticalSquish mirrors horizontalSquish with Y and height.
func verticalSquish(a, b *RoomState, o float64, cfg config.SpringConfig) {
	a.PressureY += o
	b.PressureY += o

	squishAmount := config.SquishFactor*0.5*o + 0.1

	trialHeightA := a.Height - squishAmount
	trialHeightB := b.Height - squishAmount

	squished := false
	if trialHeightA > 0 && trialHeightB > 0 {
		trialWidthA := a.TargetArea / trialHeightA
		trialWidthB := b.TargetArea / trialHeightB
		trialRatioA := trialWidthA / trialHeightA
		trialRatioB := trialWidthB / trialHeightB

		effA := effectiveTargetRatio(*a, cfg.GlobalTargetRatio)
		effB := effectiveTargetRatio(*b, cfg.GlobalTargetRatio)

		if ratioInBounds(trialRatioA, effA) && ratioInBounds(trialRatioB, effB) {
			displacement := (1-config.SquishFactor)*0.5*o + squishAmount*0.5
			if a.Y < b.Y {
				a.Y -= displacement
				b.Y += displacement
			} else {
				a.Y += displacement
				b.Y -= displacement
			}
			a.Width, a.Height = trialWidthA, trialHeightA
			b.Width, b.Height = trialWidthB, trialHeightB
			squished = true
		}
	}

	if !squished {
		displacement := 0.5*o + 0.1
		if a.Y < b.Y {
			a.Y -= displacement
			b.Y += displacement
		} else {
			a.Y += displacement
			b.Y -= displacement
		}
	}

	clampDimensions(a)
	clampDimensions(b)
}

// constrainToBoundary pushes r back inside boundary when any corner has
// escaped, up to BoundaryConstraintMaxIterations times.
func constrainToBoundary(r *RoomState, boundary geom.Polygon) {
	for iter := 0; iter < config.BoundaryConstraintMaxIterations; iter++ {
		corners := roomCorners(*r)

		var farthest geom.Vec2
		maxDist := -1.0
		anyOutside := false

		for _, c := range corners {
			if geom.PointInPolygon(c, boundary) {
				continue
			}
			anyOutside = true
			closest := geom.ClosestPointOnPolygonBoundary(c, boundary)
			dist := geom.Distance(c, closest)
			if dist > maxDist {
				maxDist = dist
				farthest = c
			}
		}

		if !anyOutside {
			return
		}

		closest := geom.ClosestPointOnPolygonBoundary(farthest, boundary)
		push := geom.Scale(geom.Sub(closest, farthest), config.BoundaryOvershoot)

		r.X += push.X
		r.Y += push.Y
		r.AccumulatedPressureX += math.Abs(push.X) * 10
		r.AccumulatedPressureY += math.Abs(push.Y) * 10
	}
}

// roomCorners returns the four corners of r's rectangle.
func roomCorners(r RoomState) [4]geom.Vec2 {
	return [4]geom.Vec2{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
}
