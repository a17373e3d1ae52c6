package reference

import (
	"math"
	"strconv"

	"indoor-network/internal/models"

	"github.com/paulmach/orb"
	"github.com/tidwall/gjson"
)

// Decoders below turn loosely-typed feature-collection documents into
// explicit records. Features with unusable geometry are dropped.

func decodeUnits(doc []byte) []models.FacilityUnit {
	var out []models.FacilityUnit
	gjson.GetBytes(doc, "features").ForEach(func(_, f gjson.Result) bool {
		mp := multiPolygon(f.Get("geometry"))
		if len(mp) == 0 {
			return true
		}
		props := f.Get("properties")
		out = append(out, models.FacilityUnit{
			ID:         idString(f.Get("id")),
			Category:   props.Get("category").String(),
			Name:       bilingual(props.Get("name")),
			UnitPolyID: idString(props.Get("UnitPolyID")),
			LevelID:    idString(props.Get("level_id")),
			Geometry:   mp,
		})
		return true
	})
	return out
}

func decodeUnits3D(doc []byte) []models.Unit3D {
	var out []models.Unit3D
	gjson.GetBytes(doc, "features").ForEach(func(_, f gjson.Result) bool {
		props := f.Get("properties")
		out = append(out, models.Unit3D{
			UnitPolyID:  idString(props.Get("UnitPolyID")),
			UnitSubtype: props.Get("UnitSubtype").String(),
		})
		return true
	})
	return out
}

func decodeLevels(doc []byte) []models.Level {
	var out []models.Level
	gjson.GetBytes(doc, "features").ForEach(func(_, f gjson.Result) bool {
		props := f.Get("properties")
		out = append(out, models.Level{
			ID:          idString(f.Get("id")),
			FloorPolyID: props.Get("FloorPolyID").String(),
			Name:        bilingual(props.Get("name")),
		})
		return true
	})
	return out
}

func decodeOpenings(doc []byte) []models.Opening {
	var out []models.Opening
	gjson.GetBytes(doc, "features").ForEach(func(_, f gjson.Result) bool {
		g := f.Get("geometry")
		if g.Get("type").String() != "LineString" {
			return true
		}
		line := lineString(g.Get("coordinates"))
		if len(line) == 0 {
			return true
		}
		props := f.Get("properties")
		name := props.Get("name")
		out = append(out, models.Opening{
			ID:       idString(f.Get("id")),
			LevelID:  idString(props.Get("level_id")),
			Name:     bilingual(name),
			Named:    name.Exists() && name.Type != gjson.Null,
			Geometry: line,
		})
		return true
	})
	return out
}

func decodeBuilding(doc gjson.Result) models.BuildingInfo {
	b := models.BuildingInfo{
		BuildingCSUID: idString(doc.Get("buildingCSUID")),
		SixDigitID:    idString(doc.Get("SixDigitID")),
		BuildingID:    idString(doc.Get("BuildingID")),
		NameEN:        doc.Get("Name_EN").String(),
		NameCH:        doc.Get("Name_CH").String(),
	}
	bt := doc.Get("buildingType")
	if bt.IsArray() {
		for _, v := range bt.Array() {
			b.BuildingType = append(b.BuildingType, v.String())
		}
	} else if bt.Exists() && bt.Type != gjson.Null {
		b.BuildingType = []string{bt.String()}
	}
	return b
}

func bilingual(r gjson.Result) models.Bilingual {
	return models.Bilingual{EN: r.Get("en").String(), ZH: r.Get("zh").String()}
}

// idString renders ids that may be stored as strings, integers or whole doubles.
func idString(r gjson.Result) string {
	if r.Type != gjson.Number {
		return r.String()
	}
	f := r.Float()
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return r.Raw
}

// multiPolygon accepts Polygon and MultiPolygon geometries and drops Z.
func multiPolygon(g gjson.Result) orb.MultiPolygon {
	coords := g.Get("coordinates")
	switch g.Get("type").String() {
	case "Polygon":
		if p := polygon(coords); len(p) > 0 {
			return orb.MultiPolygon{p}
		}
	case "MultiPolygon":
		var mp orb.MultiPolygon
		coords.ForEach(func(_, pc gjson.Result) bool {
			if p := polygon(pc); len(p) > 0 {
				mp = append(mp, p)
			}
			return true
		})
		return mp
	}
	return nil
}

func polygon(coords gjson.Result) orb.Polygon {
	var p orb.Polygon
	for i, rc := range coords.Array() {
		ring := orb.Ring(lineString(rc))
		if len(ring) < 3 {
			if i == 0 {
				return nil
			}
			continue
		}
		p = append(p, ring)
	}
	return p
}

func lineString(coords gjson.Result) orb.LineString {
	var ls orb.LineString
	coords.ForEach(func(_, c gjson.Result) bool {
		xy := c.Array()
		if len(xy) >= 2 {
			ls = append(ls, orb.Point{xy[0].Float(), xy[1].Float()})
		}
		return true
	})
	return ls
}
