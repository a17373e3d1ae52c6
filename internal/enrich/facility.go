package enrich

import "strings"

// FeatureType is the published facility classification code.
type FeatureType int

const (
	Walkway    FeatureType = 1
	Footbridge FeatureType = 2
	Escalator  FeatureType = 8
	Travelator FeatureType = 9
	Lift       FeatureType = 10
	Ramp       FeatureType = 11
	Staircase  FeatureType = 12
	Stairlift  FeatureType = 13
	Unknown    FeatureType = 14
)

// StairliftSubtype marks a 3D unit as a stairlift.
const StairliftSubtype = "12-03"

var categoryCodes = map[string]FeatureType{
	"walkway":        Walkway,
	"room":           Walkway,
	"unspecified":    Walkway,
	"footbridge":     Footbridge,
	"escalator":      Escalator,
	"moving_walkway": Travelator,
	"movingwalkway":  Travelator,
	"elevator":       Lift,
	"ramp":           Ramp,
	"stairs":         Staircase,
	"steps":          Staircase,
	"staircase":      Staircase,
	"stairlift":      Stairlift,
	"unknown":        Unknown,
	"n/a":            Unknown,
}

// CategoryCode maps a unit category to its code; unmapped categories are walkways.
func CategoryCode(category string) FeatureType {
	if ft, ok := categoryCodes[strings.ToLower(strings.TrimSpace(category))]; ok {
		return ft
	}
	return Walkway
}

type FacilityName struct {
	EN string
	ZH string
}

var facilityNames = map[FeatureType]FacilityName{
	Escalator:  {EN: "Escalator", ZH: "扶手電梯"},
	Travelator: {EN: "Travelator", ZH: "自動行人道"},
	Lift:       {EN: "Lift", ZH: "升降機"},
	Ramp:       {EN: "Ramp", ZH: "斜道"},
	Staircase:  {EN: "Staircase", ZH: "樓梯"},
	Stairlift:  {EN: "Stairlift", ZH: "輪椅升降台"},
}

// Facility returns the bilingual facility name for codes 8 to 13.
func (f FeatureType) Facility() (FacilityName, bool) {
	n, ok := facilityNames[f]
	return n, ok
}

func isVertical(category string) (FeatureType, bool) {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "stairs", "escalator", "elevator":
		return CategoryCode(category), true
	}
	return 0, false
}
