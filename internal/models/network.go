package models

import (
	"time"

	"indoor-network/internal/geo"

	"github.com/paulmach/orb"
	"github.com/uptrace/bun"
)

// Default creator / amender code applied when the holding-area value is NULL.
const DefaultActorCode = "03"

// StagingRow is one typed row read back from the network holding area.
type StagingRow struct {
	INetworkID string `json:"inetworkid" validate:"required"`
	GeoJSON    string `json:"geojson" validate:"required"`
	Highway    string `json:"highway" validate:"required"`
	Oneway     string `json:"oneway" validate:"required"`
	Emergency  string `json:"emergency,omitempty" validate:"omitempty,oneof=yes no"`
	Wheelchair string `json:"wheelchair,omitempty" validate:"omitempty,oneof=yes no limited"`
	FlPolyID   string `json:"flpolyid" validate:"required"`
	CrtDt      string `json:"crtdt,omitempty"`
	CrtBy      string `json:"crtby" validate:"required,numeric,len=2"`
	LstAmdDt   string `json:"lstamddt,omitempty"`
	LstAmdBy   string `json:"lstamdby" validate:"required,numeric,len=2"`
	Restricted string `json:"restricted" validate:"required,oneof=Y N"`
	PedRouteID *int64 `json:"pedrouteid,omitempty"`

	Line geo.LineZ `json:"-"`
	// Geographic is Line projected to 2D WGS84; empty when the projection failed.
	Geographic orb.LineString `json:"-"`
}

// NeedsEnrichment is true for rows without a pedestrian route id.
func (r *StagingRow) NeedsEnrichment() bool {
	return r.PedRouteID == nil || *r.PedRouteID == 0
}

// IndoorNetwork is a published network row keyed by inetworkid.
type IndoorNetwork struct {
	bun.BaseModel `bun:"table:indoor_network,alias:n"`

	INetworkID  string    `bun:"inetworkid,pk" json:"inetworkid"`
	DisplayName string    `bun:"displayname,notnull" json:"displayname"`
	Highway     string    `bun:"highway" json:"highway"`
	Oneway      string    `bun:"oneway" json:"oneway"`
	Emergency   string    `bun:"emergency" json:"emergency"`
	Wheelchair  string    `bun:"wheelchair" json:"wheelchair"`
	FlPolyID    string    `bun:"flpolyid" json:"flpolyid"`
	CrtDt       *string   `bun:"crtdt" json:"crtdt"`
	CrtBy       string    `bun:"crtby" json:"crtby"`
	LstAmdDt    *string   `bun:"lstamddt" json:"lstamddt"`
	LstAmdBy    string    `bun:"lstamdby" json:"lstamdby"`
	Restricted  string    `bun:"restricted" json:"restricted"`
	Shape       geo.LineZ `bun:"shape,type:geometry(LineStringZ,2326)" json:"-"`
	PedRouteID  *int64    `bun:"pedrouteid" json:"pedrouteid"`

	// Derived attributes; nil on pass-through rows.
	LevelID          *string  `bun:"level_id" json:"level_id"`
	FeatType         *int     `bun:"feattype" json:"feattype"`
	FloorID          *int64   `bun:"floorid" json:"floorid"`
	Location         *int     `bun:"location" json:"location"`
	WcAccess         *int     `bun:"wc_access" json:"wc_access"`
	WcBarrier        *int     `bun:"wc_barrier" json:"wc_barrier"`
	Direction        *int     `bun:"direction" json:"direction"`
	Gradient         *float64 `bun:"gradient" json:"gradient"`
	WxProof          *int     `bun:"wx_proof" json:"wx_proof"`
	MainExit         *bool    `bun:"mainexit" json:"mainexit"`
	BldgID1          *string  `bun:"bldgid_1" json:"bldgid_1"`
	BuildingNameEng  *string  `bun:"buildingnameeng" json:"buildingnameeng"`
	BuildingNameChi  *string  `bun:"buildingnamechi" json:"buildingnamechi"`
	LevelEnglishName *string  `bun:"levelenglishname" json:"levelenglishname"`
	LevelChineseName *string  `bun:"levelchinesename" json:"levelchinesename"`
	AliasNameTC      *string  `bun:"aliasnamtc" json:"aliasnamtc"`
	AliasNameEN      *string  `bun:"aliasnamen" json:"aliasnamen"`

	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// UpsertColumns lists every column overwritten on conflict.
var UpsertColumns = []string{
	"displayname", "highway", "oneway", "emergency", "wheelchair", "flpolyid",
	"crtdt", "crtby", "lstamddt", "lstamdby", "restricted", "shape", "pedrouteid",
	"level_id", "feattype", "floorid", "location", "wc_access", "wc_barrier",
	"direction", "gradient", "wx_proof", "mainexit", "bldgid_1",
	"buildingnameeng", "buildingnamechi", "levelenglishname", "levelchinesename",
	"aliasnamtc", "aliasnamen",
}

// FromStaging copies the source columns of a staging row and forces the
// display name. Derived attributes are left nil for the caller to fill.
func FromStaging(row StagingRow, displayName string) *IndoorNetwork {
	return &IndoorNetwork{
		INetworkID:  row.INetworkID,
		DisplayName: displayName,
		Highway:     row.Highway,
		Oneway:      row.Oneway,
		Emergency:   row.Emergency,
		Wheelchair:  row.Wheelchair,
		FlPolyID:    row.FlPolyID,
		CrtDt:       optional(row.CrtDt),
		CrtBy:       row.CrtBy,
		LstAmdDt:    optional(row.LstAmdDt),
		LstAmdBy:    row.LstAmdBy,
		Restricted:  row.Restricted,
		Shape:       row.Line,
		PedRouteID:  row.PedRouteID,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ValidationReport is the JSON object returned by validate_network_staging().
type ValidationReport struct {
	Valid      bool `json:"valid"`
	ErrorCount int  `json:"error_count"`
}
