package enrich

import (
	"errors"
	"fmt"
	"strconv"

	"indoor-network/internal/models"
)

var (
	ErrBadFloorPolyID  = errors.New("flpolyid cannot be decoded")
	ErrUnknownBuilding = errors.New("no building info for building code")
)

// Enricher turns staging rows into published rows using one run's reference data.
type Enricher struct {
	ref        *Reference
	classifier *Classifier
}

func NewEnricher(ref *Reference) *Enricher {
	return &Enricher{ref: ref, classifier: NewClassifier(ref)}
}

// Enrich computes every derived attribute for a row without a route id.
// It does not touch the row's geometry.
func (e *Enricher) Enrich(row models.StagingRow, displayName string) (*models.IndoorNetwork, error) {
	ref, ok := models.DecodeFloorPolyID(row.FlPolyID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadFloorPolyID, row.FlPolyID)
	}
	building, ok := e.ref.Building(ref.BuildingCSUID)
	if !ok {
		return nil, fmt.Errorf("%w %s (flpolyid %s)", ErrUnknownBuilding, ref.BuildingCSUID, row.FlPolyID)
	}
	level, hasLevel := e.ref.LevelForFloorPoly(row.FlPolyID)

	out := models.FromStaging(row, displayName)

	line := row.Geographic
	ft := e.classifier.Classify(line, row.Line.IsFlat(), level.ID)

	if hasLevel {
		out.LevelID = ptr(level.ID)
	}
	out.FeatType = ptr(int(ft))
	out.FloorID = floorID(building.SixDigitID, ref.FloorNumber)
	out.BldgID1 = nonEmpty(building.BuildingID)
	out.BuildingNameEng = ptr(building.NameEN)
	out.BuildingNameChi = ptr(building.NameCH)
	out.LevelEnglishName = ptr(level.Name.EN)
	out.LevelChineseName = ptr(level.Name.ZH)

	out.Emergency = Emergency(ft)
	out.Direction = ptr(Direction(row.Oneway))
	out.WcBarrier = ptr(WheelchairBarrier(ft, row.Wheelchair))
	out.WcAccess = ptr(WheelchairAccess(ft, level.ID, line, e.ref.OpeningsOnLevel(level.ID)))
	out.Gradient = ptr(Gradient(row.Highway, row.Line))
	out.Location = ptr(2)
	out.WxProof = ptr(1)

	alias := BuildAlias(AliasInput{
		Building: models.Bilingual{EN: building.NameEN, ZH: building.NameCH},
		Level:    level.Name,
		Facility: ft,
		Line:     line,
		Exits:    e.ref.ExitsOnLevel(level.ID),
	})
	out.AliasNameEN = ptr(alias.EN)
	out.AliasNameTC = ptr(alias.TC)
	out.MainExit = ptr(alias.MainExit)

	return out, nil
}

func floorID(sixDigit, floorNumber string) *int64 {
	if sixDigit == "" {
		return nil
	}
	v, err := strconv.ParseInt(sixDigit+floorNumber, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ptr[T any](v T) *T { return &v }
