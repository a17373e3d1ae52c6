package enrich

import (
	"indoor-network/internal/geo"
	"indoor-network/internal/models"
	"indoor-network/internal/reference"

	"github.com/paulmach/orb"
)

// unitSet is an ordered list of units with a bounding-box index over them.
type unitSet struct {
	units []models.FacilityUnit
	index *geo.Index
}

func newUnitSet(units []models.FacilityUnit) *unitSet {
	bounds := make([]orb.Bound, len(units))
	for i, u := range units {
		bounds[i] = u.Geometry.Bound()
	}
	return &unitSet{units: units, index: geo.NewIndex(bounds)}
}

// near returns units whose bounds overlap b, in document order.
func (s *unitSet) near(b orb.Bound) []models.FacilityUnit {
	hits := s.index.Search(b)
	out := make([]models.FacilityUnit, len(hits))
	for i, pos := range hits {
		out[i] = s.units[pos]
	}
	return out
}

// Reference is the per-run lookup view of a reference snapshot.
// It is built once and only read afterwards.
type Reference struct {
	all            *unitSet
	byLevel        map[string]*unitSet
	stairliftPolys map[string]bool
	levelsByFloor  map[string]models.Level
	levelsByID     map[string]models.Level
	openings       map[string][]models.Opening
	buildings      map[string]models.BuildingInfo
}

func NewReference(snap *reference.Snapshot) *Reference {
	r := &Reference{
		all:            newUnitSet(snap.Units),
		byLevel:        map[string]*unitSet{},
		stairliftPolys: map[string]bool{},
		levelsByFloor:  map[string]models.Level{},
		levelsByID:     map[string]models.Level{},
		openings:       map[string][]models.Opening{},
		buildings:      map[string]models.BuildingInfo{},
	}

	grouped := map[string][]models.FacilityUnit{}
	for _, u := range snap.Units {
		grouped[u.LevelID] = append(grouped[u.LevelID], u)
	}
	for level, units := range grouped {
		r.byLevel[level] = newUnitSet(units)
	}

	for _, u := range snap.Units3D {
		if u.UnitPolyID != "" && u.UnitSubtype == StairliftSubtype {
			r.stairliftPolys[u.UnitPolyID] = true
		}
	}

	// first level wins when a FloorPolyID repeats
	for _, l := range snap.Levels {
		if _, dup := r.levelsByFloor[l.FloorPolyID]; !dup && l.FloorPolyID != "" {
			r.levelsByFloor[l.FloorPolyID] = l
		}
		if _, dup := r.levelsByID[l.ID]; !dup && l.ID != "" {
			r.levelsByID[l.ID] = l
		}
	}

	for _, o := range snap.Openings {
		r.openings[o.LevelID] = append(r.openings[o.LevelID], o)
	}

	for _, b := range snap.Buildings {
		if _, dup := r.buildings[b.BuildingCSUID]; !dup {
			r.buildings[b.BuildingCSUID] = b
		}
	}
	return r
}

// LevelForFloorPoly resolves the level feature whose FloorPolyID matches.
func (r *Reference) LevelForFloorPoly(flpolyid string) (models.Level, bool) {
	l, ok := r.levelsByFloor[flpolyid]
	return l, ok
}

func (r *Reference) Level(id string) (models.Level, bool) {
	l, ok := r.levelsByID[id]
	return l, ok
}

func (r *Reference) Building(csuid string) (models.BuildingInfo, bool) {
	b, ok := r.buildings[csuid]
	return b, ok
}

// unitsNear narrows candidates to a level; with no level every unit is considered.
func (r *Reference) unitsNear(levelID string, b orb.Bound) []models.FacilityUnit {
	if levelID == "" {
		return r.all.near(b)
	}
	set, ok := r.byLevel[levelID]
	if !ok {
		return nil
	}
	return set.near(b)
}

// OpeningsOnLevel returns every opening on a level.
func (r *Reference) OpeningsOnLevel(levelID string) []models.Opening {
	return r.openings[levelID]
}

// ExitsOnLevel returns the named openings on a level.
func (r *Reference) ExitsOnLevel(levelID string) []models.Opening {
	var out []models.Opening
	for _, o := range r.openings[levelID] {
		if o.Named {
			out = append(out, o)
		}
	}
	return out
}

func (r *Reference) isStairlift(u models.FacilityUnit) bool {
	return u.UnitPolyID != "" && r.stairliftPolys[u.UnitPolyID]
}
