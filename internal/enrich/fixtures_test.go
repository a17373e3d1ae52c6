package enrich

import (
	"indoor-network/internal/geo"
	"indoor-network/internal/models"
	"indoor-network/internal/reference"

	"github.com/paulmach/orb"
)

const (
	x0 = 836000.0
	y0 = 819000.0

	lon0 = 114.17
	lat0 = 22.28
)

// lonLat places a metre offset near lon0,lat0 on the same flat scale as
// geo.OpeningBuffer.
func lonLat(x, y float64) orb.Point {
	return orb.Point{lon0 + x/geo.MetresPerDegree, lat0 + y/geo.MetresPerDegree}
}

// gridBox is an axis-aligned rectangle of metre offsets as a WGS84 polygon.
func gridBox(minX, minY, maxX, maxY float64) orb.MultiPolygon {
	return orb.MultiPolygon{{{
		lonLat(minX, minY), lonLat(maxX, minY), lonLat(maxX, maxY), lonLat(minX, maxY), lonLat(minX, minY),
	}}}
}

// gridLine is a polyline of metre offsets as a WGS84 line.
func gridLine(xy ...float64) orb.LineString {
	var ls orb.LineString
	for i := 0; i+1 < len(xy); i += 2 {
		ls = append(ls, lonLat(xy[i], xy[i+1]))
	}
	return ls
}

func unit(id, category, level string, g orb.MultiPolygon) models.FacilityUnit {
	return models.FacilityUnit{ID: id, Category: category, LevelID: level, UnitPolyID: "P-" + id, Geometry: g}
}

func refWith(units []models.FacilityUnit, units3D ...models.Unit3D) *Reference {
	return NewReference(&reference.Snapshot{Units: units, Units3D: units3D})
}
