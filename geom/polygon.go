package geom

import "math"

// Polygon is an ordered, implicitly-closed sequence of vertices (length ≥
// 3 for any polygon actually used as a boundary or room footprint). May be
// convex or concave, clockwise or counter-clockwise — every operation below
// is orientation-agnostic.
type Polygon []Vec2

// CreateRectangle returns the 4-vertex, counter-clockwise polygon for the
// axis-aligned rectangle with top-left corner (x,y) and size (w,h).
func CreateRectangle(x, y, w, h float64) Polygon {
	return Polygon{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}

// Area returns the polygon's area via the shoelace formula, always
// non-negative regardless of winding order.
func Area(poly Polygon) float64 {
	n := len(poly)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	return math.Abs(sum) / 2
}

// PointInPolygon reports whether p lies inside poly using ray casting to
// +x with the half-open edge rule (yi > p.y) != (yj > p.y), so points
// exactly on certain edges are classified consistently rather than
// ambiguously by floating point luck.
func PointInPolygon(p Vec2, poly Polygon) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := poly[i], poly[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xCross := vj.X + (p.Y-vj.Y)/(vi.Y-vj.Y)*(vi.X-vj.X)
			if p.X < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// IsRectangle reports whether poly is an axis-aligned rectangle (4
// vertices, edges alternating horizontal/vertical). Used to pick the AABB
// fast path in IntersectionArea.
func IsRectangle(poly Polygon) bool {
	if len(poly) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		a, b := poly[i], poly[(i+1)%4]
		if a.X != b.X && a.Y != b.Y {
			return false
		}
	}
	return true
}

// IntersectionArea returns the area common to a and b. When both are
// axis-aligned rectangles (the overwhelming majority of hot-loop calls —
// room-vs-room overlap), this reduces to AABB overlap width × height.
// Otherwise it clips with Sutherland-Hodgman, which requires its clip
// operand to be convex: a is always the rectangular room in every call in
// this codebase, while b may be a concave boundary, so a is passed as the
// clip and b as the subject, not the reverse.
func IntersectionArea(a, b Polygon) float64 {
	if IsRectangle(a) && IsRectangle(b) {
		boxA, boxB := FromPolygon(a), FromPolygon(b)
		ox, oy := OverlapExtents(boxA, boxB)
		if ox <= 0 || oy <= 0 {
			return 0
		}
		return ox * oy
	}
	clipped := sutherlandHodgman(b, a)
	return Area(clipped)
}

// sutherlandHodgman clips subject against the convex polygon clip, both
// assumed counter-clockwise-or-consistently-wound; returns the clipped
// polygon (possibly empty).
func sutherlandHodgman(subject, clip Polygon) Polygon {
	output := subject
	if len(output) == 0 {
		return nil
	}
	n := len(clip)
	for i := 0; i < n; i++ {
		if len(output) == 0 {
			return nil
		}
		edgeStart, edgeEnd := clip[i], clip[(i+1)%n]
		input := output
		output = nil
		m := len(input)
		for k := 0; k < m; k++ {
			curr := input[k]
			prev := input[(k-1+m)%m]
			currInside := isInsideEdge(curr, edgeStart, edgeEnd)
			prevInside := isInsideEdge(prev, edgeStart, edgeEnd)
			if currInside {
				if !prevInside {
					output = append(output, lineIntersect(prev, curr, edgeStart, edgeEnd))
				}
				output = append(output, curr)
			} else if prevInside {
				output = append(output, lineIntersect(prev, curr, edgeStart, edgeEnd))
			}
		}
	}
	return output
}

// isInsideEdge reports whether p lies on the left side of the directed
// edge start->end (i.e. inside, for a counter-clockwise-wound clip
// polygon). Uses the 2D cross product sign.
func isInsideEdge(p, start, end Vec2) bool {
	cross := (end.X-start.X)*(p.Y-start.Y) - (end.Y-start.Y)*(p.X-start.X)
	return cross >= 0
}

// lineIntersect returns the intersection of segment a-b with the infinite
// line through edgeStart-edgeEnd.
func lineIntersect(a, b, edgeStart, edgeEnd Vec2) Vec2 {
	dcX, dcY := edgeEnd.X-edgeStart.X, edgeEnd.Y-edgeStart.Y
	daX, daY := b.X-a.X, b.Y-a.Y

	denom := dcX*daY - dcY*daX
	if math.Abs(denom) < 1e-12 {
		return b
	}
	t := ((a.X-edgeStart.X)*daY - (a.Y-edgeStart.Y)*daX) / denom
	return Vec2{X: edgeStart.X + t*dcX, Y: edgeStart.Y + t*dcY}
}

// ClosestPointOnPolygonBoundary returns the point on poly's boundary
// nearest to p, by checking every edge segment and projecting p onto it
// clamped to [0,1].
func ClosestPointOnPolygonBoundary(p Vec2, poly Polygon) Vec2 {
	n := len(poly)
	if n == 0 {
		return p
	}
	best := poly[0]
	bestDistSq := math.Inf(1)
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		candidate := closestPointOnSegment(p, a, b)
		dx, dy := candidate.X-p.X, candidate.Y-p.Y
		distSq := dx*dx + dy*dy
		if distSq < bestDistSq {
			bestDistSq = distSq
			best = candidate
		}
	}
	return best
}

func closestPointOnSegment(p, a, b Vec2) Vec2 {
	abX, abY := b.X-a.X, b.Y-a.Y
	lenSq := abX*abX + abY*abY
	if lenSq < 1e-12 {
		return a
	}
	t := ((p.X-a.X)*abX + (p.Y-a.Y)*abY) / lenSq
	t = math.Max(0, math.Min(1, t))
	return Vec2{X: a.X + t*abX, Y: a.Y + t*abY}
}
