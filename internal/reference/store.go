package reference

import (
	"context"
	"errors"
	"fmt"

	"indoor-network/internal/models"

	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned when no document matches a display name.
var ErrNotFound = errors.New("reference document not found")

// Collection names in the IMDF reference store.
const (
	CollectionUnits        = "IMDFUnit"
	Collection3DUnits      = "3DUnits"
	CollectionLevels       = "IMDFLevel"
	CollectionOpenings     = "IMDFOpening"
	CollectionBuildingInfo = "BuildingInfo"
)

// Store reads reference records for a site.
type Store interface {
	Units(ctx context.Context, displayName string) ([]models.FacilityUnit, error)
	Units3D(ctx context.Context, displayName string) ([]models.Unit3D, error)
	Levels(ctx context.Context, displayName string) ([]models.Level, error)
	Openings(ctx context.Context, displayName string) ([]models.Opening, error)
	Buildings(ctx context.Context, displayName string) ([]models.BuildingInfo, error)
	BuildingByCSUID(ctx context.Context, csuid string) (*models.BuildingInfo, error)
	// Raw returns a whole collection document as relaxed extended JSON.
	Raw(ctx context.Context, collection, displayName string) ([]byte, error)
}

// Snapshot is every reference record a single import run needs.
type Snapshot struct {
	DisplayName string
	Units       []models.FacilityUnit
	Units3D     []models.Unit3D
	Levels      []models.Level
	Openings    []models.Opening
	Buildings   []models.BuildingInfo
}

// FetchSnapshot loads all reference collections for a site concurrently.
// A missing document yields an empty slice; any other error aborts the fetch.
func FetchSnapshot(ctx context.Context, s Store, displayName string) (*Snapshot, error) {
	snap := &Snapshot{DisplayName: displayName}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Units, err = tolerateMissing(s.Units(ctx, displayName))
		return wrap(CollectionUnits, err)
	})
	g.Go(func() (err error) {
		snap.Units3D, err = tolerateMissing(s.Units3D(ctx, displayName))
		return wrap(Collection3DUnits, err)
	})
	g.Go(func() (err error) {
		snap.Levels, err = tolerateMissing(s.Levels(ctx, displayName))
		return wrap(CollectionLevels, err)
	})
	g.Go(func() (err error) {
		snap.Openings, err = tolerateMissing(s.Openings(ctx, displayName))
		return wrap(CollectionOpenings, err)
	})
	g.Go(func() (err error) {
		snap.Buildings, err = tolerateMissing(s.Buildings(ctx, displayName))
		return wrap(CollectionBuildingInfo, err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func tolerateMissing[T any](v []T, err error) ([]T, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return v, err
}

func wrap(collection string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("fetch %s: %w", collection, err)
}
