package geo

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// rtreego rejects zero-extent rectangles, so every box is padded.
const boxPad = 1e-9

type entry struct {
	pos  int
	rect rtreego.Rect
}

func (e entry) Bounds() rtreego.Rect { return e.rect }

// Index answers bounding-box candidate queries over a fixed list of bounds.
// Results come back in insertion order so callers can keep "first wins" rules.
type Index struct {
	tree *rtreego.Rtree
	size int
}

func NewIndex(bounds []orb.Bound) *Index {
	ix := &Index{tree: rtreego.NewTree(2, 25, 50), size: len(bounds)}
	for i, b := range bounds {
		ix.tree.Insert(entry{pos: i, rect: toRect(b)})
	}
	return ix
}

func (ix *Index) Len() int { return ix.size }

// Search returns the positions of all bounds that overlap b, ascending.
func (ix *Index) Search(b orb.Bound) []int {
	if ix.size == 0 {
		return nil
	}
	hits := ix.tree.SearchIntersect(toRect(b))
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(entry).pos)
	}
	sort.Ints(out)
	return out
}

func toRect(b orb.Bound) rtreego.Rect {
	r, err := rtreego.NewRect(
		rtreego.Point{b.Min[0] - boxPad, b.Min[1] - boxPad},
		[]float64{b.Max[0] - b.Min[0] + 2*boxPad, b.Max[1] - b.Min[1] + 2*boxPad},
	)
	if err != nil {
		// lengths are always positive after padding
		panic(err)
	}
	return r
}
