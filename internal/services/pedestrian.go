package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"indoor-network/internal/converter"
	"indoor-network/internal/mapping"
	"indoor-network/internal/metrics"
	"indoor-network/internal/models"
	"indoor-network/internal/store"

	"go.uber.org/zap"
)

type PedestrianStore interface {
	Reconcile(ctx context.Context, m *mapping.Mapping) (store.ReconcileCounts, error)
}

// PedestrianService loads a pedestrian route snapshot and reconciles the
// published table against it.
type PedestrianService struct {
	store    PedestrianStore
	conv     converter.Converter
	mapping  *mapping.Mapping
	layer    string
	basePath string
	logger   *zap.Logger

	busy sync.Mutex
}

func NewPedestrianService(
	st PedestrianStore,
	conv converter.Converter,
	m *mapping.Mapping,
	layer, basePath string,
	logger *zap.Logger,
) *PedestrianService {
	return &PedestrianService{store: st, conv: conv, mapping: m, layer: layer, basePath: basePath, logger: logger}
}

// SyncFromFolder loads the geodatabase found at folder (relative to the
// import base path) and reconciles it.
func (s *PedestrianService) SyncFromFolder(ctx context.Context, folder string) *models.ReconcileResult {
	src, err := converter.ResolveFolder(s.basePath, folder)
	if err != nil {
		return &models.ReconcileResult{Status: models.StatusError, Message: err.Error()}
	}
	return s.Sync(ctx, src)
}

func (s *PedestrianService) Sync(ctx context.Context, source string) *models.ReconcileResult {
	if !s.busy.TryLock() {
		return &models.ReconcileResult{Status: models.StatusError, Message: "pedestrian holding area is in use by another sync"}
	}
	defer s.busy.Unlock()

	counts, err := s.sync(ctx, source)
	if err != nil {
		s.logger.Error("Pedestrian sync failed", zap.String("source", source), zap.Error(err))
		return &models.ReconcileResult{Status: models.StatusError, Message: err.Error()}
	}

	metrics.PedestrianRowsTotal.WithLabelValues("inserted").Add(float64(counts.Inserted))
	metrics.PedestrianRowsTotal.WithLabelValues("updated").Add(float64(counts.Updated))
	metrics.PedestrianRowsTotal.WithLabelValues("deleted").Add(float64(counts.Deleted))
	s.logger.Info("Pedestrian sync complete",
		zap.Int("loaded", counts.Loaded),
		zap.Int("inserted", counts.Inserted),
		zap.Int("updated", counts.Updated),
		zap.Int("deleted", counts.Deleted),
	)
	return &models.ReconcileResult{
		Status:   models.StatusSuccess,
		Message:  fmt.Sprintf("Reconciled %d pedestrian routes", counts.Loaded),
		Loaded:   counts.Loaded,
		Inserted: counts.Inserted,
		Updated:  counts.Updated,
		Deleted:  counts.Deleted,
	}
}

func (s *PedestrianService) sync(ctx context.Context, source string) (store.ReconcileCounts, error) {
	err := s.conv.Load(ctx, converter.LoadRequest{
		Source:       source,
		Layer:        s.layer,
		Table:        "public." + store.PedestrianStagingTable,
		GeometryType: "LINESTRINGZ",
		TargetSRS:    gridSRS,
	})
	if err != nil {
		metrics.ConverterFailuresTotal.WithLabelValues("load").Inc()
		return store.ReconcileCounts{}, &ConversionError{Err: err}
	}

	counts, err := s.store.Reconcile(ctx, s.mapping)
	if err != nil {
		if errors.Is(err, store.ErrEmptySnapshot) {
			return store.ReconcileCounts{}, &ReconciliationError{Step: "load", Err: err}
		}
		return store.ReconcileCounts{}, &ReconciliationError{Step: "reconcile", Err: err}
	}
	return counts, nil
}
