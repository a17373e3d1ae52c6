package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func square(x0, y0, size float64) orb.Polygon {
	return orb.Polygon{{
		{x0, y0}, {x0 + size, y0}, {x0 + size, y0 + size}, {x0, y0 + size}, {x0, y0},
	}}
}

func TestIntersects(t *testing.T) {
	box := orb.MultiPolygon{square(0, 0, 10)}
	cases := []struct {
		name string
		line orb.LineString
		want bool
	}{
		{"inside", orb.LineString{{1, 1}, {2, 2}}, true},
		{"crossing", orb.LineString{{-5, 5}, {15, 5}}, true},
		{"touching edge", orb.LineString{{10, 5}, {20, 5}}, true},
		{"outside", orb.LineString{{11, 11}, {20, 20}}, false},
		{"empty", orb.LineString{}, false},
	}
	for _, c := range cases {
		if got := Intersects(c.line, box); got != c.want {
			t.Errorf("%s: Intersects = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestIntersectsRespectsHoles(t *testing.T) {
	donut := orb.Polygon{
		square(0, 0, 10)[0],
		{{4, 4}, {6, 4}, {6, 6}, {4, 6}, {4, 4}},
	}
	line := orb.LineString{{4.5, 5}, {5.5, 5}}
	if Intersects(line, orb.MultiPolygon{donut}) {
		t.Error("line inside the hole must not intersect")
	}
}

func TestCoveredLength(t *testing.T) {
	box := orb.MultiPolygon{square(0, 0, 10)}
	cases := []struct {
		name string
		line orb.LineString
		want float64
	}{
		{"fully inside", orb.LineString{{1, 1}, {1, 5}}, 4},
		{"half out", orb.LineString{{5, 5}, {15, 5}}, 5},
		{"through", orb.LineString{{-5, 5}, {15, 5}}, 10},
		{"bent", orb.LineString{{-2, 2}, {2, 2}, {2, 20}}, 2 + 8},
		{"outside", orb.LineString{{20, 20}, {30, 30}}, 0},
		{"along edge", orb.LineString{{-5, 0}, {5, 0}}, 5},
		{"single vertex", orb.LineString{{5, 5}}, 0},
	}
	for _, c := range cases {
		if got := CoveredLength(c.line, box); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%s: CoveredLength = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestCoveredLengthSkipsHoles(t *testing.T) {
	donut := orb.Polygon{
		square(0, 0, 10)[0],
		{{4, 4}, {6, 4}, {6, 6}, {4, 6}, {4, 4}},
	}
	got := CoveredLength(orb.LineString{{0, 5}, {10, 5}}, orb.MultiPolygon{donut})
	if math.Abs(got-8) > 1e-9 {
		t.Fatalf("CoveredLength = %v, want 8", got)
	}
}

func TestCoveredLengthSumsParts(t *testing.T) {
	mp := orb.MultiPolygon{square(0, 0, 2), square(5, 0, 2)}
	got := CoveredLength(orb.LineString{{-1, 1}, {10, 1}}, mp)
	if math.Abs(got-4) > 1e-9 {
		t.Fatalf("CoveredLength = %v, want 4", got)
	}
}

func TestWithinDistance(t *testing.T) {
	opening := orb.LineString{{0, 0}, {0, 1}}
	near := orb.LineString{{OpeningBuffer / 2, 0.5}, {1, 0.5}}
	far := orb.LineString{{OpeningBuffer * 3, 0.5}, {1, 0.5}}
	crossing := orb.LineString{{-1, 0.5}, {1, 0.5}}

	if !WithinDistance(near, opening, OpeningBuffer) {
		t.Error("near line should be within buffer")
	}
	if WithinDistance(far, opening, OpeningBuffer) {
		t.Error("far line should not be within buffer")
	}
	if !WithinDistance(crossing, opening, OpeningBuffer) {
		t.Error("crossing line should be within buffer")
	}
	if !WithinDistance(orb.LineString{{OpeningBuffer / 2, 0.5}}, opening, OpeningBuffer) {
		t.Error("single vertex near the opening should be within buffer")
	}
	if WithinDistance(orb.LineString{}, opening, OpeningBuffer) {
		t.Error("empty line is never within buffer")
	}
}

func TestIndexSearchKeepsInsertionOrder(t *testing.T) {
	bounds := []orb.Bound{
		square(0, 0, 10).Bound(),
		square(100, 100, 10).Bound(),
		square(5, 5, 10).Bound(),
		{Min: orb.Point{3, 3}, Max: orb.Point{3, 3}},
	}
	ix := NewIndex(bounds)
	got := ix.Search(orb.LineString{{2, 2}, {6, 6}}.Bound())
	want := []int{0, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("Search = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Search = %v, want %v", got, want)
		}
	}
	if NewIndex(nil).Search(bounds[0]) != nil {
		t.Error("empty index should return nil")
	}
}
