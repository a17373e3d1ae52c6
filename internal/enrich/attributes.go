package enrich

import (
	"math"

	"indoor-network/internal/geo"
	"indoor-network/internal/models"

	"github.com/paulmach/orb"
)

// Gradient is the absolute slope angle in radians between the line's
// endpoints. Lifts and zero-length rises are vertical.
func Gradient(highway string, line geo.LineZ) float64 {
	first, last, ok := line.Endpoints()
	if !ok {
		return 0
	}
	rise := first[2] - last[2]
	run := math.Hypot(last.X()-first.X(), last.Y()-first.Y())

	switch {
	case rise == 0:
		return 0
	case run == 0 || highway == "lift":
		return math.Pi / 2
	}
	return math.Abs(math.Atan2(rise, run))
}

// Direction encodes one-way handling: 0 two-way, -1 reversed, 1 forward.
func Direction(oneway string) int {
	switch oneway {
	case "no":
		return 0
	case "reverse":
		return -1
	}
	return 1
}

// WheelchairBarrier is 1 for escalators, staircases or explicit
// wheelchair=no, else 2.
func WheelchairBarrier(ft FeatureType, wheelchair string) int {
	if ft == Escalator || ft == Staircase || wheelchair == "no" {
		return 1
	}
	return 2
}

// WheelchairAccess is 1 only for ramps that come within the opening buffer
// of an opening on the same level.
func WheelchairAccess(ft FeatureType, levelID string, line orb.LineString, openings []models.Opening) int {
	if ft != Ramp || levelID == "" || len(line) == 0 {
		return 2
	}
	for _, o := range openings {
		if o.LevelID != levelID {
			continue
		}
		if geo.WithinDistance(line, o.Geometry, geo.OpeningBuffer) {
			return 1
		}
	}
	return 2
}

// Emergency marks lifts as unusable in an emergency.
func Emergency(ft FeatureType) string {
	if ft == Lift {
		return "no"
	}
	return "yes"
}
