package converter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestLoadArgs(t *testing.T) {
	o := NewOgr2Ogr("ogr2ogr", "PG:host=db dbname=gis password=secret", 0, zap.NewNop())
	got := o.LoadArgs(LoadRequest{
		Source:       "/data/site/3D Indoor Network.shp",
		Table:        "public.network_staging",
		GeometryType: "LINESTRINGZ",
		TargetSRS:    "EPSG:2326",
	})
	want := []string{
		"-f", "PostgreSQL", "PG:host=db dbname=gis password=secret", "/data/site/3D Indoor Network.shp",
		"-nln", "public.network_staging", "-nlt", "LINESTRINGZ",
		"-lco", "GEOMETRY_NAME=shape", "-t_srs", "EPSG:2326", "-overwrite",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("LoadArgs =\n%v\nwant\n%v", got, want)
	}

	withLayer := o.LoadArgs(LoadRequest{Source: "routes.gdb", Layer: "PedestrianRoute", Table: "t", GeometryType: "LINESTRINGZ", TargetSRS: "EPSG:2326"})
	if withLayer[4] != "PedestrianRoute" {
		t.Errorf("layer should follow the source, got %v", withLayer)
	}
}

func TestExportArgs(t *testing.T) {
	o := NewOgr2Ogr("ogr2ogr", "PG:host=db", 0, zap.NewNop())
	got := o.ExportArgs(ExportRequest{
		Driver:          "GeoJSON",
		Output:          "/out/3D Indoor Network.geojson",
		SQL:             "SELECT 1",
		CreationOptions: []string{"RFC7946=YES"},
		TargetSRS:       "EPSG:4326",
	})
	joined := strings.Join(got, "|")
	if !strings.Contains(joined, "-sql|SELECT 1") || !strings.Contains(joined, "-lco|RFC7946=YES") || !strings.HasSuffix(joined, "-t_srs|EPSG:4326") {
		t.Fatalf("ExportArgs = %v", got)
	}
}

func TestMaskArgs(t *testing.T) {
	got := MaskArgs([]string{"PG:host=db password=hunter2 user=x", "plain"})
	if strings.Contains(got[0], "hunter2") || got[1] != "plain" {
		t.Fatalf("MaskArgs = %v", got)
	}
}

func TestRunReportsStderr(t *testing.T) {
	o := NewOgr2Ogr("sh", "PG:", 0, zap.NewNop())
	err := o.run(context.Background(), []string{"-c", "echo boom >&2; exit 3"})
	var convErr *Error
	if !errors.As(err, &convErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if !strings.Contains(convErr.Stderr, "boom") {
		t.Errorf("stderr = %q", convErr.Stderr)
	}
}

func TestResolveFolder(t *testing.T) {
	base := t.TempDir()
	got, err := ResolveFolder(base, `wing\HK_1 City Hall\SHP\`)
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(base, "wing", "HK_1 City Hall", "SHP") {
		t.Errorf("ResolveFolder = %q", got)
	}

	cases := map[string]error{
		"   ":         ErrEmptyPath,
		"/":           ErrEmptyPath,
		"a/../../etc": ErrPathTraversal,
		`..\secrets`:  ErrPathTraversal,
	}
	for in, want := range cases {
		if _, err := ResolveFolder(base, in); !errors.Is(err, want) {
			t.Errorf("ResolveFolder(%q) err = %v, want %v", in, err, want)
		}
	}
}

func TestFindFileCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "3D indoor network.SHP"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := FindFile(dir, NetworkShapefile)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "3D indoor network.SHP" {
		t.Errorf("FindFile = %q", got)
	}

	if _, err := FindFile(t.TempDir(), NetworkShapefile); !errors.Is(err, ErrNoShapefile) {
		t.Errorf("err = %v, want ErrNoShapefile", err)
	}
	if _, err := FindFile(filepath.Join(dir, "missing"), NetworkShapefile); !errors.Is(err, ErrNoShapefile) {
		t.Errorf("missing dir err = %v, want ErrNoShapefile", err)
	}
}
