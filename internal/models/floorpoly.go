package models

import (
	"time"

	"github.com/uptrace/bun"
)

// PedRouteRelFloorPoly links an IMDF level to its building floor.
type PedRouteRelFloorPoly struct {
	bun.BaseModel `bun:"table:pedrouterelfloorpoly"`

	LevelID           string    `bun:"level_id,pk"`
	FloorID           *int64    `bun:"floor_id"`
	FloorPolyID       string    `bun:"floor_poly_id"`
	BuildingID        string    `bun:"buildingid"`
	EnglishName       string    `bun:"english_name"`
	ChineseName       string    `bun:"chinese_name"`
	BuildingCSUID     string    `bun:"buildingcsuid"`
	BuildingType      []string  `bun:"buildingtype,array"`
	CreationDate      time.Time `bun:"creation_date,nullzero,notnull,default:current_timestamp"`
	LastAmendmentDate time.Time `bun:"last_amendment_date,nullzero,notnull,default:current_timestamp"`
	ModifiedBy        string    `bun:"modified_by"`
}
