package geo

import (
	"database/sql/driver"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkbhex"
	"github.com/twpayne/go-geom/encoding/geojson"
)

var ErrNotLine = errors.New("geometry is not a single line")

// LineZ is a 3D line in the HK1980 grid. It binds to PostGIS as hex EWKB.
type LineZ struct {
	*geom.LineString
}

// ParseLineZ decodes a GeoJSON geometry (as produced by ST_AsGeoJSON).
// 2D input gets Z = 0; a MultiLineString is accepted only with one part.
func ParseLineZ(data []byte) (LineZ, error) {
	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		return LineZ{}, fmt.Errorf("decode geojson: %w", err)
	}

	var ls *geom.LineString
	switch v := g.(type) {
	case *geom.LineString:
		ls = v
	case *geom.MultiLineString:
		if v.NumLineStrings() != 1 {
			return LineZ{}, fmt.Errorf("%w: multilinestring with %d parts", ErrNotLine, v.NumLineStrings())
		}
		ls = v.LineString(0)
	default:
		return LineZ{}, fmt.Errorf("%w: %T", ErrNotLine, g)
	}

	if ls.NumCoords() < 2 {
		return LineZ{}, fmt.Errorf("%w: %d vertices", ErrNotLine, ls.NumCoords())
	}
	return LineZ{toXYZ(ls)}, nil
}

// NewLineZ builds a line from flat x,y,z triples.
func NewLineZ(flat ...float64) LineZ {
	return LineZ{geom.NewLineStringFlat(geom.XYZ, flat).SetSRID(SRIDHK1980)}
}

func toXYZ(ls *geom.LineString) *geom.LineString {
	if ls.Layout() == geom.XYZ {
		return ls.SetSRID(SRIDHK1980)
	}
	flat := make([]float64, 0, ls.NumCoords()*3)
	for i := 0; i < ls.NumCoords(); i++ {
		c := ls.Coord(i)
		z := 0.0
		if zi := ls.Layout().ZIndex(); zi != -1 {
			z = c[zi]
		}
		flat = append(flat, c.X(), c.Y(), z)
	}
	return geom.NewLineStringFlat(geom.XYZ, flat).SetSRID(SRIDHK1980)
}

func (l LineZ) IsEmpty() bool {
	return l.LineString == nil || l.NumCoords() == 0
}

// Endpoints returns the first and last vertex; ok is false below two vertices.
func (l LineZ) Endpoints() (first, last geom.Coord, ok bool) {
	if l.IsEmpty() || l.NumCoords() < 2 {
		return nil, nil, false
	}
	return l.Coord(0), l.Coord(l.NumCoords() - 1), true
}

// PlanarLength is the 2D length in grid metres.
func (l LineZ) PlanarLength() float64 {
	if l.IsEmpty() {
		return 0
	}
	var total float64
	for i := 1; i < l.NumCoords(); i++ {
		a, b := l.Coord(i-1), l.Coord(i)
		total += math.Hypot(b.X()-a.X(), b.Y()-a.Y())
	}
	return total
}

// IsFlat reports whether every vertex has the same Z. Empty lines are flat.
func (l LineZ) IsFlat() bool {
	if l.IsEmpty() {
		return true
	}
	z0 := l.Coord(0)[2]
	for i := 1; i < l.NumCoords(); i++ {
		if l.Coord(i)[2] != z0 {
			return false
		}
	}
	return true
}

func (l LineZ) Value() (driver.Value, error) {
	if l.IsEmpty() {
		return nil, nil
	}
	return ewkbhex.Encode(l.SetSRID(SRIDHK1980), binary.LittleEndian)
}

func (l *LineZ) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case nil:
		l.LineString = nil
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into LineZ", src)
	}
	g, err := ewkbhex.Decode(s)
	if err != nil {
		return err
	}
	ls, ok := g.(*geom.LineString)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotLine, g)
	}
	l.LineString = toXYZ(ls)
	return nil
}
