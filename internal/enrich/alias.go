package enrich

import (
	"strings"
	"unicode"

	"indoor-network/internal/geo"
	"indoor-network/internal/models"

	"github.com/paulmach/orb"
)

type AliasInput struct {
	Building models.Bilingual
	Level    models.Bilingual
	Facility FeatureType
	Line     orb.LineString
	// Exits are the named openings on the row's level.
	Exits []models.Opening
}

type Alias struct {
	EN       string
	TC       string
	MainExit bool
}

// BuildAlias composes bilingual alias names. The first exit within the
// opening buffer wins; otherwise the facility name, then the level name, is
// used after the building name.
func BuildAlias(in AliasInput) Alias {
	facility, isFacility := in.Facility.Facility()

	if len(in.Line) > 0 {
		for _, e := range in.Exits {
			if !geo.WithinDistance(in.Line, e.Geometry, geo.OpeningBuffer) {
				continue
			}
			en := []string{in.Building.EN, e.Name.EN}
			zh := []string{in.Building.ZH, e.Name.ZH}
			if isFacility {
				en = append(en, facility.EN)
				zh = append(zh, facility.ZH)
			}
			return Alias{EN: joinEN(en...), TC: joinTC(zh...), MainExit: true}
		}
	}

	if isFacility {
		return Alias{EN: joinEN(in.Building.EN, facility.EN), TC: joinTC(in.Building.ZH, facility.ZH)}
	}
	return Alias{EN: joinEN(in.Building.EN, in.Level.EN), TC: joinTC(in.Building.ZH, in.Level.ZH)}
}

// joinEN joins the non-empty parts with single spaces.
func joinEN(parts ...string) string {
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// joinTC concatenates the parts and strips all whitespace.
func joinTC(parts ...string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.Join(parts, ""))
}
