package geo

import (
	"errors"
	"math"
	"testing"
)

func TestParseLineZ(t *testing.T) {
	l, err := ParseLineZ([]byte(`{"type":"LineString","coordinates":[[836000,819000,3],[836003,819004,7]]}`))
	if err != nil {
		t.Fatal(err)
	}
	if l.NumCoords() != 2 {
		t.Fatalf("coords = %d", l.NumCoords())
	}
	if got := l.PlanarLength(); math.Abs(got-5) > 1e-9 {
		t.Errorf("PlanarLength = %v, want 5", got)
	}
	if l.IsFlat() {
		t.Error("line with differing Z reported flat")
	}
	if l.SRID() != SRIDHK1980 {
		t.Errorf("SRID = %d", l.SRID())
	}
}

func TestParseLineZ2DGetsZeroZ(t *testing.T) {
	l, err := ParseLineZ([]byte(`{"type":"LineString","coordinates":[[0,0],[1,1]]}`))
	if err != nil {
		t.Fatal(err)
	}
	first, last, ok := l.Endpoints()
	if !ok || first[2] != 0 || last[2] != 0 {
		t.Fatalf("expected zero Z, got %v %v", first, last)
	}
	if !l.IsFlat() {
		t.Error("2D line should be flat")
	}
}

func TestParseLineZRejects(t *testing.T) {
	cases := map[string]string{
		"point":      `{"type":"Point","coordinates":[1,2,3]}`,
		"one vertex": `{"type":"LineString","coordinates":[[1,2,3]]}`,
		"multi":      `{"type":"MultiLineString","coordinates":[[[0,0,0],[1,1,1]],[[2,2,2],[3,3,3]]]}`,
	}
	for name, in := range cases {
		if _, err := ParseLineZ([]byte(in)); !errors.Is(err, ErrNotLine) {
			t.Errorf("%s: err = %v, want ErrNotLine", name, err)
		}
	}
	if _, err := ParseLineZ([]byte(`{not json`)); err == nil {
		t.Error("expected decode error")
	}
}

func TestLineZValueScan(t *testing.T) {
	in := NewLineZ(1, 2, 3, 4, 5, 6)
	v, err := in.Value()
	if err != nil {
		t.Fatal(err)
	}
	var out LineZ
	if err := out.Scan(v); err != nil {
		t.Fatal(err)
	}
	if out.NumCoords() != 2 || out.Coord(1)[2] != 6 {
		t.Fatalf("scan lost data: %v", out.FlatCoords())
	}

	var empty LineZ
	if v, err := empty.Value(); err != nil || v != nil {
		t.Errorf("empty line Value = %v, %v", v, err)
	}
}
