package models

import "encoding/json"

// NetworkFeature is a published network row as a GeoJSON feature.
type NetworkFeature struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties *IndoorNetwork  `json:"properties"`
}

// NetworkFeatureCollection is the read API response for published rows.
type NetworkFeatureCollection struct {
	Type     string           `json:"type"` // "FeatureCollection"
	Features []NetworkFeature `json:"features"`
	Count    int              `json:"count"`
}
