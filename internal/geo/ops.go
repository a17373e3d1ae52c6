package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	sf "github.com/peterstace/simplefeatures/geom"
)

// MetresPerDegree is the flat approximation used to express metre
// tolerances in WGS84 degrees.
const MetresPerDegree = 111320.0

// OpeningBuffer is the 0.1 m tolerance, in degrees, used when matching a
// line to an opening.
const OpeningBuffer = 0.1 / MetresPerDegree

// Intersects reports whether the line touches, crosses or lies inside any part of mp.
func Intersects(ls orb.LineString, mp orb.MultiPolygon) bool {
	switch len(ls) {
	case 0:
		return false
	case 1:
		return planar.MultiPolygonContains(mp, ls[0])
	}
	lb := ls.Bound()
	line := lineGeometry(ls)
	for _, poly := range mp {
		if !hasShell(poly) || !lb.Intersects(poly.Bound()) {
			continue
		}
		if sf.Intersects(line, polygonGeometry(poly)) {
			return true
		}
	}
	return false
}

// CoveredLength is the length of the part of ls lying inside mp, boundary included.
func CoveredLength(ls orb.LineString, mp orb.MultiPolygon) float64 {
	if len(ls) < 2 {
		return 0
	}
	lb := ls.Bound()
	line := lineGeometry(ls)
	var total float64
	for _, poly := range mp {
		if !hasShell(poly) || !lb.Intersects(poly.Bound()) {
			continue
		}
		inter, err := sf.Intersection(line, polygonGeometry(poly))
		if err != nil {
			continue
		}
		total += inter.Length()
	}
	return total
}

// WithinDistance reports whether a comes within d of b.
func WithinDistance(a, b orb.LineString, d float64) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	if !a.Bound().Pad(d).Intersects(b.Bound()) {
		return false
	}
	switch {
	case len(a) == 1 && len(b) == 1:
		return planar.Distance(a[0], b[0]) <= d
	case len(a) == 1:
		return planar.DistanceFrom(b, a[0]) <= d
	case len(b) == 1:
		return planar.DistanceFrom(a, b[0]) <= d
	}
	dist, ok := sf.Distance(lineGeometry(a), lineGeometry(b))
	return ok && dist <= d
}

func hasShell(poly orb.Polygon) bool {
	return len(poly) > 0 && len(poly[0]) >= 3
}

func lineGeometry(ls orb.LineString) sf.Geometry {
	return sf.NewLineString(sequence(ls, false)).AsGeometry()
}

// polygonGeometry drops degenerate holes and closes open rings.
func polygonGeometry(poly orb.Polygon) sf.Geometry {
	rings := make([]sf.LineString, 0, len(poly))
	for _, r := range poly {
		if len(r) < 3 {
			continue
		}
		rings = append(rings, sf.NewLineString(sequence(r, true)))
	}
	return sf.NewPolygon(rings).AsGeometry()
}

func sequence(pts []orb.Point, closed bool) sf.Sequence {
	flat := make([]float64, 0, 2*len(pts)+2)
	for _, p := range pts {
		flat = append(flat, p[0], p[1])
	}
	if closed && pts[0] != pts[len(pts)-1] {
		flat = append(flat, pts[0][0], pts[0][1])
	}
	return sf.NewSequence(flat, sf.DimXY)
}
