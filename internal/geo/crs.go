package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	// SRIDHK1980 is the local planar grid that source lines and the published table use.
	SRIDHK1980 = 2326
	// SRIDWGS84 is the geographic CRS reference facility data is stored in.
	SRIDWGS84 = 4326
)

// GeographicExpr projects a grid geometry column to 2D WGS84 GeoJSON in PostGIS.
// The EPSG:2326 definition (including its datum shift) comes from spatial_ref_sys.
const GeographicExpr = "ST_AsGeoJSON(ST_Transform(ST_Force2D(?), ?), 9)"

// GeographicLine decodes a WGS84 line produced by GeographicExpr.
// Empty, malformed or degenerate input yields an empty line so callers can
// fall back to the default classification.
func GeographicLine(data []byte) orb.LineString {
	if len(data) == 0 {
		return orb.LineString{}
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil || g == nil {
		return orb.LineString{}
	}

	var ls orb.LineString
	switch v := g.Geometry().(type) {
	case orb.LineString:
		ls = v
	case orb.MultiLineString:
		if len(v) == 1 {
			ls = v[0]
		}
	}
	if len(ls) < 2 {
		return orb.LineString{}
	}
	return ls
}
