package gene

import (
	"math"

	"github.com/hellguz/magnetizing/config"
	"github.com/hellguz/magnetizing/geom"
)

// CalculateFitness writes g.Geometric, g.Topological, and g.Total (the
// balance-weighted combination, lower is better).
func CalculateFitness(g *Gene, boundary geom.Polygon, adjacencies []config.Adjacency, balance float64, cfg config.SpringConfig) {
	g.Geometric = geometricFitness(g, boundary, cfg)
	g.Topological = topologicalFitness(g, adjacencies, cfg)
	g.Total = g.Geometric*balance + g.Topological*(1-balance)
}

// geometricFitness sums pairwise overlap penalty plus 100·(room area not
// covered by the boundary), summed over every room.
func geometricFitness(g *Gene, boundary geom.Polygon, cfg config.SpringConfig) float64 {
	total := 0.0
	n := len(g.Rooms)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := g.Rooms[i], g.Rooms[j]
			rectA := geom.CreateRectangle(a.X, a.Y, a.Width, a.Height)
			rectB := geom.CreateRectangle(b.X, b.Y, b.Width, b.Height)

			intersection := geom.IntersectionArea(rectA, rectB)
			if intersection <= 0 {
				continue
			}

			if !cfg.UseNonLinearOverlapPenalty {
				total += intersection
				continue
			}

			penalty := math.Pow(intersection, cfg.OverlapPenaltyExponent)
			boxA, boxB := geom.FromPolygon(rectA), geom.FromPolygon(rectB)
			overlapX, overlapY := geom.OverlapExtents(boxA, boxB)
			bonus := 1.0
			if overlapX > 0 && overlapY > 0 {
				bonus = 1 + intersection/(overlapX*overlapY)
			}
			total += penalty * bonus
		}
	}

	for _, r := range g.Rooms {
		roomRect := geom.CreateRectangle(r.X, r.Y, r.Width, r.Height)
		insideArea := geom.IntersectionArea(roomRect, boundary)
		roomArea := r.Width * r.Height
		total += 100 * (roomArea - insideArea)
	}

	return total
}

// topologicalFitness sums, over every adjacency, weight·f(axis_gap_sq)
// where axis_gap_sq measures how far apart two rooms' edges are once
// their own half-extents are subtracted out (zero when they already
// touch or overlap on that axis).
func topologicalFitness(g *Gene, adjacencies []config.Adjacency, cfg config.SpringConfig) float64 {
	total := 0.0
	for _, adj := range adjacencies {
		a := g.findRoom(adj.A)
		b := g.findRoom(adj.B)
		if a == nil || b == nil {
			continue
		}
		acx, acy := a.center()
		bcx, bcy := b.center()

		gapX := math.Max(0, math.Abs(acx-bcx)-(a.Width+b.Width)/2)
		gapY := math.Max(0, math.Abs(acy-bcy)-(a.Height+b.Height)/2)
		axisGapSq := gapX*gapX + gapY*gapY

		var f float64
		if cfg.UseQuadraticPenalty {
			f = axisGapSq
		} else {
			f = math.Sqrt(axisGapSq)
		}
		total += adj.Weight * f
	}
	return total
}
