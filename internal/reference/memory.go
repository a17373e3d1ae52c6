package reference

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"indoor-network/internal/models"

	"github.com/tidwall/gjson"
)

// MemoryStore serves reference documents held in memory. It backs offline
// imports from exported JSON files and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	docs      map[string]map[string][]byte // collection -> displayName -> document
	buildings []gjson.Result
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string]map[string][]byte{}}
}

// LoadDir reads <Collection>.json files exported from the reference store.
// Feature collections are single documents carrying a displayName; the
// BuildingInfo file is an array of building documents.
func LoadDir(dir string) (*MemoryStore, error) {
	m := NewMemoryStore()
	for _, c := range []string{CollectionUnits, Collection3DUnits, CollectionLevels, CollectionOpenings} {
		data, err := os.ReadFile(filepath.Join(dir, c+".json"))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		docs := gjson.ParseBytes(data)
		if !docs.IsArray() {
			docs = gjson.Parse("[" + docs.Raw + "]")
		}
		for _, d := range docs.Array() {
			m.Put(c, d.Get("displayName").String(), []byte(d.Raw))
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, CollectionBuildingInfo+".json"))
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("%s.json is not valid JSON", CollectionBuildingInfo)
		}
		for _, d := range gjson.ParseBytes(data).Array() {
			m.PutBuilding([]byte(d.Raw))
		}
	}
	return m, nil
}

func (m *MemoryStore) Put(collection, displayName string, doc []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[collection] == nil {
		m.docs[collection] = map[string][]byte{}
	}
	m.docs[collection][displayName] = doc
}

// PutBuilding adds one BuildingInfo document; it must carry displayName and buildingCSUID.
func (m *MemoryStore) PutBuilding(doc []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buildings = append(m.buildings, gjson.ParseBytes(doc))
}

func (m *MemoryStore) Raw(_ context.Context, collection, displayName string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[collection][displayName]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (m *MemoryStore) Units(ctx context.Context, displayName string) ([]models.FacilityUnit, error) {
	doc, err := m.Raw(ctx, CollectionUnits, displayName)
	if err != nil {
		return nil, err
	}
	return decodeUnits(doc), nil
}

func (m *MemoryStore) Units3D(ctx context.Context, displayName string) ([]models.Unit3D, error) {
	doc, err := m.Raw(ctx, Collection3DUnits, displayName)
	if err != nil {
		return nil, err
	}
	return decodeUnits3D(doc), nil
}

func (m *MemoryStore) Levels(ctx context.Context, displayName string) ([]models.Level, error) {
	doc, err := m.Raw(ctx, CollectionLevels, displayName)
	if err != nil {
		return nil, err
	}
	return decodeLevels(doc), nil
}

func (m *MemoryStore) Openings(ctx context.Context, displayName string) ([]models.Opening, error) {
	doc, err := m.Raw(ctx, CollectionOpenings, displayName)
	if err != nil {
		return nil, err
	}
	return decodeOpenings(doc), nil
}

func (m *MemoryStore) Buildings(_ context.Context, displayName string) ([]models.BuildingInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.BuildingInfo
	for _, b := range m.buildings {
		if b.Get("displayName").String() == displayName {
			out = append(out, decodeBuilding(b))
		}
	}
	return out, nil
}

func (m *MemoryStore) BuildingByCSUID(_ context.Context, csuid string) (*models.BuildingInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.buildings {
		if idString(b.Get("buildingCSUID")) == csuid {
			info := decodeBuilding(b)
			return &info, nil
		}
	}
	return nil, ErrNotFound
}
