package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"indoor-network/internal/app"
	"indoor-network/internal/config"
	"indoor-network/internal/logger"
	"indoor-network/internal/reference"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	refs := reference.NewMemoryStore()
	refs.Put(reference.CollectionLevels, "Site A", []byte(`{"displayName":"Site A","features":[]}`))
	cfg := &config.Config{
		Ogr2OgrPath:            filepath.Join(t.TempDir(), "no-ogr2ogr"),
		OgrPGConnection:        "PG:dbname=gis",
		ImportBasePath:         t.TempDir(),
		ExportResultDir:        t.TempDir(),
		PedestrianLayer:        "PedestrianRoute",
		NetworkFieldMapping:    "../../config/indoor_network_fields.yml",
		PedestrianFieldMapping: "../../config/pedestrian_route_fields.yml",
		AllowedOrigins:         []string{"http://localhost:3000"},
	}
	a, err := app.New(nil, refs, cfg, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return NewRouter(a, cfg, logger.Nop())
}

func TestHealthAndMetrics(t *testing.T) {
	h := testRouter(t)
	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s = %d", path, rec.Code)
		}
	}
}

func TestReferenceRoute(t *testing.T) {
	h := testRouter(t)
	cases := []struct {
		path string
		code int
	}{
		{"/api/v1/imdf/IMDFLevel?displayname=Site%20A", http.StatusOK},
		{"/api/v1/imdf/IMDFLevel?displayname=Nowhere", http.StatusNotFound},
		{"/api/v1/imdf/IMDFLevel", http.StatusBadRequest},
		{"/api/v1/imdf/BuildingInfo?displayname=Site%20A", http.StatusBadRequest},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, c.path, nil))
		if rec.Code != c.code {
			t.Errorf("%s = %d, want %d: %s", c.path, rec.Code, c.code, rec.Body)
		}
	}
}

func TestImportRouteRejectsBadRequests(t *testing.T) {
	h := testRouter(t)
	cases := []struct {
		body string
		code int
	}{
		{``, http.StatusBadRequest},
		{`{"displayname":"Site A"}`, http.StatusBadRequest},
		{`{"displayname":"Site A","folder_path":"../etc"}`, http.StatusBadRequest},
		{`{"displayname":"Site A","folder_path":"x","extra":1}`, http.StatusBadRequest},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/network/import", strings.NewReader(c.body))
		h.ServeHTTP(rec, req)
		if rec.Code != c.code {
			t.Errorf("body %q = %d, want %d: %s", c.body, rec.Code, c.code, rec.Body)
		}
	}
}

func TestExportRouteRejectsBadParams(t *testing.T) {
	h := testRouter(t)
	for _, path := range []string{
		"/api/v1/network/export",
		"/api/v1/network/export?displayname=Site%20A&format=kml",
		"/api/v1/network/export?displayname=Site%20A&category=outdoor",
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s = %d", path, rec.Code)
		}
	}
}

func TestFloorPolyRouteReportsMissingLevels(t *testing.T) {
	h := testRouter(t)
	body, _ := json.Marshal(map[string]string{"displayname": "Nowhere"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/floorpoly/sync", bytes.NewReader(body)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", rec.Code)
	}
	var res struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Status != "error" || res.Message != "Level data not found or invalid" {
		t.Errorf("response = %+v", res)
	}
}

func TestPedestrianRouteConverterMissing(t *testing.T) {
	h := testRouter(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pedestrian/sync", strings.NewReader(`{"folder_path":"ped/routes.gdb"}`))
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("code = %d: %s", rec.Code, rec.Body)
	}
}
