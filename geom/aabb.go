package geom

// AABB is an axis-aligned bounding box.
type AABB struct {
	MinX, MinY, MaxX, MaxY float64
}

// Intersects reports whether a and b overlap, including touching edges.
func Intersects(a, b AABB) bool {
	return !(a.MaxX < b.MinX || a.MinX > b.MaxX || a.MaxY < b.MinY || a.MinY > b.MaxY)
}

// Width returns a's extent along X.
func (a AABB) Width() float64 { return a.MaxX - a.MinX }

// Height returns a's extent along Y.
func (a AABB) Height() float64 { return a.MaxY - a.MinY }

// OverlapExtents returns the signed overlap width and height of a and b.
// Positive values mean the boxes overlap by that amount on the axis; a
// non-positive value on either axis means no overlap.
func OverlapExtents(a, b AABB) (overlapX, overlapY float64) {
	overlapX = min(a.MaxX, b.MaxX) - max(a.MinX, b.MinX)
	overlapY = min(a.MaxY, b.MaxY) - max(a.MinY, b.MinY)
	return overlapX, overlapY
}

// FromPolygon sweeps every vertex to compute the polygon's bounding box.
// Returns the zero value if poly has no vertices.
func FromPolygon(poly Polygon) AABB {
	if len(poly) == 0 {
		return AABB{}
	}
	box := AABB{MinX: poly[0].X, MinY: poly[0].Y, MaxX: poly[0].X, MaxY: poly[0].Y}
	for _, v := range poly[1:] {
		box.MinX = min(box.MinX, v.X)
		box.MinY = min(box.MinY, v.Y)
		box.MaxX = max(box.MaxX, v.X)
		box.MaxY = max(box.MaxY, v.Y)
	}
	return box
}

// FromRect builds an AABB from a top-left corner and extents.
func FromRect(x, y, w, h float64) AABB {
	return AABB{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}
