package models

import "github.com/paulmach/orb"

// Bilingual is an IMDF-style {en, zh} label.
type Bilingual struct {
	EN string `json:"en"`
	ZH string `json:"zh"`
}

// FacilityUnit is a unit polygon (room, stairs, lift...) in WGS84.
type FacilityUnit struct {
	ID         string           `json:"id"`
	Category   string           `json:"category"`
	Name       Bilingual        `json:"name"`
	UnitPolyID string           `json:"UnitPolyID"`
	LevelID    string           `json:"level_id"`
	Geometry   orb.MultiPolygon `json:"-"`
}

// Unit3D carries the subtype code of a 3D unit, joined to FacilityUnit by UnitPolyID.
type Unit3D struct {
	UnitPolyID  string `json:"UnitPolyID"`
	UnitSubtype string `json:"UnitSubtype"`
}

// Opening is a door / exit line in WGS84. Named is false when the source name is null.
type Opening struct {
	ID       string         `json:"id"`
	LevelID  string         `json:"level_id"`
	Name     Bilingual      `json:"name"`
	Named    bool           `json:"named"`
	Geometry orb.LineString `json:"-"`
}

type Level struct {
	ID          string    `json:"id"`
	FloorPolyID string    `json:"FloorPolyID"`
	Name        Bilingual `json:"name"`
}

type BuildingInfo struct {
	BuildingCSUID string   `json:"buildingCSUID"`
	SixDigitID    string   `json:"SixDigitID"`
	BuildingID    string   `json:"BuildingID"`
	NameEN        string   `json:"Name_EN"`
	NameCH        string   `json:"Name_CH"`
	BuildingType  []string `json:"buildingType"`
}

// FloorPolyRef is the decoded form of an flpolyid / FloorPolyID string.
type FloorPolyRef struct {
	BuildingCSUID string
	FloorNumber   string
}

// DecodeFloorPolyID slices a floor polygon id; ok is false for ids shorter than 26 characters.
func DecodeFloorPolyID(id string) (FloorPolyRef, bool) {
	if len(id) < 26 {
		return FloorPolyRef{}, false
	}
	return FloorPolyRef{BuildingCSUID: id[1:20], FloorNumber: id[22:26]}, true
}
