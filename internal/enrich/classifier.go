package enrich

import (
	"strings"

	"indoor-network/internal/geo"
	"indoor-network/internal/models"

	"github.com/paulmach/orb"
)

// Classifier assigns a FeatureType to a network line from the facility
// polygons it touches.
type Classifier struct {
	ref *Reference
}

func NewClassifier(ref *Reference) *Classifier {
	return &Classifier{ref: ref}
}

// Classify takes the line in WGS84 (2D), whether its source vertices all
// share one Z, and the row's level id.
func (c *Classifier) Classify(line orb.LineString, flat bool, levelID string) FeatureType {
	if len(line) == 0 {
		return Walkway
	}

	var candidates []models.FacilityUnit
	for _, u := range c.ref.unitsNear(levelID, line.Bound()) {
		if geo.Intersects(line, u.Geometry) {
			candidates = append(candidates, u)
		}
	}

	switch {
	case len(candidates) == 0:
		return Walkway
	case len(candidates) == 1:
		return c.unitType(candidates[0])
	case !flat:
		return preferVertical(candidates)
	}

	best, bestLen := -1, -1.0
	for i, u := range candidates {
		if l := geo.CoveredLength(line, u.Geometry); l > bestLen {
			best, bestLen = i, l
		}
	}
	return c.unitType(candidates[best])
}

func (c *Classifier) unitType(u models.FacilityUnit) FeatureType {
	if strings.EqualFold(strings.TrimSpace(u.Category), "unspecified") {
		if strings.EqualFold(strings.TrimSpace(u.Name.EN), "stairlift") || c.ref.isStairlift(u) {
			return Stairlift
		}
	}
	return CategoryCode(u.Category)
}

// preferVertical picks the first stairs/escalator/elevator, then any ramp.
func preferVertical(units []models.FacilityUnit) FeatureType {
	for _, u := range units {
		if ft, ok := isVertical(u.Category); ok {
			return ft
		}
	}
	for _, u := range units {
		if strings.EqualFold(strings.TrimSpace(u.Category), "ramp") {
			return Ramp
		}
	}
	return Walkway
}
