package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"indoor-network/internal/converter"
	"indoor-network/internal/geo"
	"indoor-network/internal/logger"
	"indoor-network/internal/models"
	"indoor-network/internal/reference"

	"go.uber.org/zap"
)

const (
	x0          = 836000.0
	y0          = 819000.0
	testSite    = "Site A"
	testCSUID   = "HKB0000000000000001"
	testFlPoly  = "F" + testCSUID + "FL" + "0012"
	testLevelID = "L1"

	lon0 = 114.17
	lat0 = 22.28
)

// fakeNetworkStore keeps the holding area and published table in memory.
type fakeNetworkStore struct {
	mu         sync.Mutex
	staging    []map[string]interface{}
	report     models.ValidationReport
	errs       []map[string]interface{}
	publishErr error
	published  map[string]*models.IndoorNetwork
	cleared    int
	// entered is closed when Publish starts; block then holds it until closed
	entered chan struct{}
	block   chan struct{}
}

func newFakeNetworkStore(rows ...map[string]interface{}) *fakeNetworkStore {
	return &fakeNetworkStore{
		staging:   rows,
		report:    models.ValidationReport{Valid: true},
		published: map[string]*models.IndoorNetwork{},
	}
}

func (f *fakeNetworkStore) ClearStaging(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	return errors.New(`relation "network_staging" does not exist`)
}

func (f *fakeNetworkStore) ValidateStaging(context.Context) (models.ValidationReport, error) {
	return f.report, nil
}

func (f *fakeNetworkStore) StagingErrors(context.Context) ([]map[string]interface{}, error) {
	return f.errs, nil
}

func (f *fakeNetworkStore) StagingRows(context.Context) ([]map[string]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.staging, nil
}

func (f *fakeNetworkStore) Publish(_ context.Context, rows []*models.IndoorNetwork) (int, error) {
	if f.block != nil {
		close(f.entered)
		<-f.block
	}
	if f.publishErr != nil {
		return 0, f.publishErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range rows {
		cp := *r
		f.published[r.INetworkID] = &cp
	}
	return len(rows), nil
}

// fakeConverter records requests and creates the files an export would.
type fakeConverter struct {
	loads   []converter.LoadRequest
	exports []converter.ExportRequest
	err     error
	// geojson written on GeoJSON exports
	geojson string
}

func (c *fakeConverter) Load(_ context.Context, req converter.LoadRequest) error {
	c.loads = append(c.loads, req)
	return c.err
}

func (c *fakeConverter) Export(_ context.Context, req converter.ExportRequest) error {
	c.exports = append(c.exports, req)
	if c.err != nil {
		return c.err
	}
	if strings.HasSuffix(req.Output, ".geojson") {
		return os.WriteFile(req.Output, []byte(c.geojson), 0o644)
	}
	return os.WriteFile(req.Output, []byte("shp"), 0o644)
}

type fakeFloorPolyStore struct {
	rows []*models.PedRouteRelFloorPoly
	err  error
}

func (f *fakeFloorPolyStore) UpsertFloorPolys(_ context.Context, rows []*models.PedRouteRelFloorPoly) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	// ON CONFLICT cannot affect the same row twice in one statement
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		if seen[r.LevelID] {
			return 0, fmt.Errorf("level_id %s affected a second time", r.LevelID)
		}
		seen[r.LevelID] = true
	}
	f.rows = append(f.rows, rows...)
	return len(rows), nil
}

// gridCoords renders metre offsets as WGS84 GeoJSON positions near lon0,lat0,
// on the same flat scale as geo.OpeningBuffer.
func gridCoords(xy ...float64) string {
	var parts []string
	for i := 0; i+1 < len(xy); i += 2 {
		lon := lon0 + xy[i]/geo.MetresPerDegree
		lat := lat0 + xy[i+1]/geo.MetresPerDegree
		parts = append(parts, fmt.Sprintf("[%.12f,%.12f]", lon, lat))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// testReference is a site with one ramp unit and a named exit on level L1.
func testReference() *reference.MemoryStore {
	m := reference.NewMemoryStore()
	m.Put(reference.CollectionUnits, testSite, []byte(`{"displayName":"Site A","features":[
		{"id":"u-ramp","geometry":{"type":"Polygon","coordinates":[`+gridCoords(0, 0, 10, 0, 10, 10, 0, 10, 0, 0)+`]},
		 "properties":{"category":"ramp","UnitPolyID":"P-1","level_id":"L1"}}]}`))
	m.Put(reference.CollectionLevels, testSite, []byte(`{"displayName":"Site A","features":[
		{"id":"L1","properties":{"FloorPolyID":"`+testFlPoly+`","name":{"en":"G/F","zh":"地下"}}},
		{"id":"L9","properties":{"FloorPolyID":"short"}},
		{"id":"L8","properties":{}}]}`))
	m.Put(reference.CollectionOpenings, testSite, []byte(`{"displayName":"Site A","features":[
		{"id":"o1","geometry":{"type":"LineString","coordinates":`+gridCoords(9.05, 0, 9.05, 10)+`},
		 "properties":{"level_id":"L1","name":{"en":"North Exit","zh":"北出口"}}}]}`))
	m.PutBuilding([]byte(`{"displayName":"Site A","buildingCSUID":"` + testCSUID + `","SixDigitID":123456,"BuildingID":42,"Name_EN":"City Hall","Name_CH":"大會堂","buildingType":["Civic"]}`))
	return m
}

// stagingRow is a raw holding-area row for a grid line given as x,y,z triples.
func stagingRow(id string, pedRouteID interface{}, xyz ...float64) map[string]interface{} {
	var coords []string
	var xy []float64
	for i := 0; i+2 < len(xyz); i += 3 {
		coords = append(coords, fmt.Sprintf("[%f,%f,%f]", x0+xyz[i], y0+xyz[i+1], xyz[i+2]))
		xy = append(xy, xyz[i], xyz[i+1])
	}
	return map[string]interface{}{
		"inetworkid":    id,
		"geojson":       `{"type":"LineString","coordinates":[` + strings.Join(coords, ",") + `]}`,
		"geojson_wgs84": `{"type":"LineString","coordinates":` + gridCoords(xy...) + `}`,
		"highway":       "footway",
		"oneway":        "no",
		"emergency":     nil,
		"wheelchair":    "yes",
		"flpolyid":      testFlPoly,
		"crtdt":         "01/02/2024",
		"crtby":         nil,
		"lstamddt":      nil,
		"lstamdby":      "05",
		"restricted":    "N",
		"pedrouteid":    pedRouteID,
		"shape":         []byte{0x01},
	}
}

// importDir creates a folder holding an (empty) network shapefile.
func importDir(t *testing.T) (base, folder string) {
	t.Helper()
	base = t.TempDir()
	dir := filepath.Join(base, "site-a", "2024")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, converter.NetworkShapefile), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	return base, "site-a/2024"
}

type harness struct {
	store  *fakeNetworkStore
	conv   *fakeConverter
	floors *fakeFloorPolyStore
	svc    *NetworkImportService
	folder string
}

func newHarness(t *testing.T, rows ...map[string]interface{}) *harness {
	t.Helper()
	base, folder := importDir(t)
	h := &harness{
		store:  newFakeNetworkStore(rows...),
		conv:   &fakeConverter{},
		floors: &fakeFloorPolyStore{},
		folder: folder,
	}
	refs := testReference()
	fp := NewFloorPolyService(h.floors, refs, zap.NewNop())
	h.svc = NewNetworkImportService(h.store, refs, h.conv, fp, base, false, logger.Nop())
	return h
}
