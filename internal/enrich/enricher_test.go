package enrich

import (
	"errors"
	"math"
	"testing"

	"indoor-network/internal/geo"
	"indoor-network/internal/models"
	"indoor-network/internal/reference"

	"github.com/paulmach/orb"
)

const (
	testCSUID    = "HKB0000000000000001"
	testFlPolyID = "F" + testCSUID + "FL" + "0012"
)

func testSnapshot() *reference.Snapshot {
	return &reference.Snapshot{
		DisplayName: "Site A",
		Units: []models.FacilityUnit{
			unit("stairs", "stairs", "L1", gridBox(0, 0, 10, 10)),
			unit("lift", "elevator", "L2", gridBox(0, 0, 10, 10)),
		},
		Levels: []models.Level{
			{ID: "L1", FloorPolyID: testFlPolyID, Name: models.Bilingual{EN: "G/F", ZH: "地下"}},
		},
		Openings: []models.Opening{
			{ID: "o1", LevelID: "L1", Named: true, Name: models.Bilingual{EN: "Exit A", ZH: "A出口"}, Geometry: gridLine(40, 0, 40, 10)},
		},
		Buildings: []models.BuildingInfo{
			{BuildingCSUID: testCSUID, SixDigitID: "123456", BuildingID: "42", NameEN: "City Hall", NameCH: "大會堂"},
		},
	}
}

// stagingRow builds a row from x,y,z offsets, with its grid line and the
// matching WGS84 copy.
func stagingRow(id string, xyz ...float64) models.StagingRow {
	var flat, xy []float64
	for i := 0; i+2 < len(xyz); i += 3 {
		flat = append(flat, x0+xyz[i], y0+xyz[i+1], xyz[i+2])
		xy = append(xy, xyz[i], xyz[i+1])
	}
	return models.StagingRow{
		INetworkID: id,
		Highway:    "steps",
		Oneway:     "no",
		FlPolyID:   testFlPolyID,
		CrtBy:      models.DefaultActorCode,
		LstAmdBy:   models.DefaultActorCode,
		Restricted: "N",
		Line:       geo.NewLineZ(flat...),
		Geographic: gridLine(xy...),
	}
}

func TestEnrich(t *testing.T) {
	e := NewEnricher(NewReference(testSnapshot()))
	row := stagingRow("n1", 1, 5, 0, 9, 5, 3)

	got, err := e.Enrich(row, "Site A")
	if err != nil {
		t.Fatal(err)
	}

	if got.DisplayName != "Site A" || got.INetworkID != "n1" {
		t.Errorf("identity fields lost: %+v", got)
	}
	if *got.LevelID != "L1" {
		t.Errorf("LevelID = %v", *got.LevelID)
	}
	if *got.FeatType != int(Staircase) {
		t.Errorf("FeatType = %d, want staircase", *got.FeatType)
	}
	if *got.FloorID != 1234560012 {
		t.Errorf("FloorID = %d", *got.FloorID)
	}
	if *got.BldgID1 != "42" || *got.BuildingNameEng != "City Hall" || *got.LevelChineseName != "地下" {
		t.Error("building / level names not joined")
	}
	if *got.Direction != 0 || *got.WcBarrier != 1 || *got.WcAccess != 2 {
		t.Errorf("direction=%d barrier=%d access=%d", *got.Direction, *got.WcBarrier, *got.WcAccess)
	}
	if got.Emergency != "yes" || *got.Location != 2 || *got.WxProof != 1 {
		t.Error("constant attributes wrong")
	}
	if math.Abs(*got.Gradient-math.Atan2(3, 8)) > 1e-12 {
		t.Errorf("Gradient = %v", *got.Gradient)
	}
	if *got.AliasNameEN != "City Hall Staircase" || *got.AliasNameTC != "大會堂樓梯" || *got.MainExit {
		t.Errorf("alias = %q / %q / %v", *got.AliasNameEN, *got.AliasNameTC, *got.MainExit)
	}
	if got.Shape.LineString != row.Line.LineString {
		t.Error("geometry must be carried through untouched")
	}
}

func TestEnrichMissingLevelKeepsGoing(t *testing.T) {
	snap := testSnapshot()
	snap.Levels = nil
	e := NewEnricher(NewReference(snap))

	got, err := e.Enrich(stagingRow("n1", 1, 5, 0, 9, 5, 0), "Site A")
	if err != nil {
		t.Fatal(err)
	}
	if got.LevelID != nil {
		t.Errorf("LevelID = %v, want nil", *got.LevelID)
	}
	if *got.LevelEnglishName != "" {
		t.Errorf("LevelEnglishName = %q", *got.LevelEnglishName)
	}
	// without a level both overlapping units are candidates; the first maximal wins
	if *got.FeatType != int(Staircase) {
		t.Errorf("FeatType = %d", *got.FeatType)
	}
}

func TestEnrichErrors(t *testing.T) {
	e := NewEnricher(NewReference(testSnapshot()))

	bad := stagingRow("n1", 0, 0, 0, 1, 0, 0)
	bad.FlPolyID = "short"
	if _, err := e.Enrich(bad, "Site A"); !errors.Is(err, ErrBadFloorPolyID) {
		t.Errorf("err = %v, want ErrBadFloorPolyID", err)
	}

	unknown := stagingRow("n2", 0, 0, 0, 1, 0, 0)
	unknown.FlPolyID = "FHKB9999999999999999FL0001"
	if _, err := e.Enrich(unknown, "Site A"); !errors.Is(err, ErrUnknownBuilding) {
		t.Errorf("err = %v, want ErrUnknownBuilding", err)
	}
}

func TestEnrichWithoutGeographicLineDefaultsToWalkway(t *testing.T) {
	e := NewEnricher(NewReference(testSnapshot()))
	row := stagingRow("n1", 1, 5, 0, 9, 5, 3)
	row.Geographic = orb.LineString{}

	got, err := e.Enrich(row, "Site A")
	if err != nil {
		t.Fatal(err)
	}
	if *got.FeatType != int(Walkway) {
		t.Errorf("FeatType = %d, want walkway", *got.FeatType)
	}
	if *got.WcAccess != 2 {
		t.Errorf("WcAccess = %d", *got.WcAccess)
	}
}
