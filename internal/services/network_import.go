package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"indoor-network/internal/converter"
	"indoor-network/internal/enrich"
	"indoor-network/internal/logger"
	"indoor-network/internal/metrics"
	"indoor-network/internal/models"
	"indoor-network/internal/reference"
	"indoor-network/internal/staging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NetworkStore is the holding area plus the published network table.
type NetworkStore interface {
	ClearStaging(ctx context.Context) error
	ValidateStaging(ctx context.Context) (models.ValidationReport, error)
	StagingErrors(ctx context.Context) ([]map[string]interface{}, error)
	StagingRows(ctx context.Context) ([]map[string]interface{}, error)
	// Publish empties the holding area and upserts rows atomically.
	Publish(ctx context.Context, rows []*models.IndoorNetwork) (int, error)
}

const (
	stagingTable = "public.network_staging"
	gridSRS      = "EPSG:2326"
	modifiedBy   = "network_import"
)

type NetworkImportService struct {
	store      NetworkStore
	refs       reference.Store
	conv       converter.Converter
	floorPolys *FloorPolyService
	decoder    *staging.Decoder
	basePath   string
	production bool
	logger     *logger.Logger

	// one run owns the holding area at a time
	busy sync.Mutex
}

func NewNetworkImportService(
	store NetworkStore,
	refs reference.Store,
	conv converter.Converter,
	floorPolys *FloorPolyService,
	basePath string,
	production bool,
	logr *logger.Logger,
) *NetworkImportService {
	return &NetworkImportService{
		store:      store,
		refs:       refs,
		conv:       conv,
		floorPolys: floorPolys,
		decoder:    staging.NewDecoder(),
		basePath:   basePath,
		production: production,
		logger:     logr,
	}
}

// ImportFromFolder resolves folder under the import base path and imports it.
func (s *NetworkImportService) ImportFromFolder(ctx context.Context, displayName, folder string) *models.ImportResult {
	dir, err := converter.ResolveFolder(s.basePath, folder)
	if err != nil {
		s.logger.Warn("Rejected import folder", zap.String("folder", folder), zap.Error(err))
		return &models.ImportResult{
			Status:  models.StatusError,
			Message: err.Error(),
			State:   string(StateIdle),
		}
	}
	return s.Import(ctx, displayName, dir)
}

// Import runs the whole pipeline for the shapefile in dir. Every outcome is
// reported in the result; the error taxonomy is only used internally.
func (s *NetworkImportService) Import(ctx context.Context, displayName, dir string) *models.ImportResult {
	if !s.busy.TryLock() {
		metrics.ImportsTotal.WithLabelValues("busy").Inc()
		return &models.ImportResult{
			Status:  models.StatusError,
			Message: ErrHoldingAreaBusy.Error(),
			State:   string(StateIdle),
		}
	}
	defer s.busy.Unlock()

	start := time.Now()
	id := uuid.NewString()
	r := &run{id: id, state: StateIdle, logger: s.logger.Job(id, displayName)}
	r.logger.Info("Network import started", zap.String("dir", dir))

	res, err := s.run(ctx, r, displayName, dir)
	if err != nil {
		r.advance(StateFailed)
		res = s.failure(r, err)
	}
	res.JobID = r.id
	res.State = string(r.state)

	metrics.ImportsTotal.WithLabelValues(string(res.Status)).Inc()
	metrics.ImportDurationSeconds.Observe(time.Since(start).Seconds())
	r.logger.Info("Network import finished",
		zap.String("status", string(res.Status)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res
}

func (s *NetworkImportService) run(ctx context.Context, r *run, displayName, dir string) (*models.ImportResult, error) {
	if err := s.store.ClearStaging(ctx); err != nil {
		// the converter recreates the table, so a missing one is fine
		r.logger.Warn("Pre-clear of holding area failed", zap.Error(err))
	}
	r.advance(StateCleared)

	r.advance(StateConverting)
	shp, err := converter.FindFile(dir, converter.NetworkShapefile)
	if err != nil {
		return nil, &ConversionError{Err: err}
	}
	err = s.conv.Load(ctx, converter.LoadRequest{
		Source:       shp,
		Table:        stagingTable,
		GeometryType: "LINESTRINGZ",
		TargetSRS:    gridSRS,
	})
	if err != nil {
		metrics.ConverterFailuresTotal.WithLabelValues("load").Inc()
		return nil, &ConversionError{Err: err}
	}

	r.advance(StateValidating)
	report, err := s.store.ValidateStaging(ctx)
	if err != nil {
		return nil, err
	}
	if !report.Valid {
		errs, err := s.store.StagingErrors(ctx)
		if err != nil {
			r.logger.Warn("Could not read staging errors", zap.Error(err))
		}
		return nil, &ValidationError{ErrorCount: report.ErrorCount, Errors: errs}
	}

	r.advance(StateLoading)
	raw, err := s.store.StagingRows(ctx)
	if err != nil {
		return nil, err
	}

	r.advance(StateTypeChecking)
	rows, err := s.decoder.DecodeAll(raw)
	if err != nil {
		var rowErr *staging.RowError
		if errors.As(err, &rowErr) {
			return nil, &RowTypeError{Index: rowErr.Index, INetworkID: rowErr.INetworkID, Row: rowErr.Row, Err: rowErr.Err}
		}
		return nil, err
	}

	r.advance(StateEnriching)
	published, err := s.enrichAll(ctx, rows, displayName)
	if err != nil {
		return nil, err
	}

	r.advance(StateUpserting)
	n, err := s.store.Publish(ctx, published)
	if err != nil {
		return nil, &CommitError{Err: err}
	}
	r.advance(StateCommitted)
	metrics.StagingRowsTotal.Add(float64(len(rows)))
	metrics.RowsUpsertedTotal.Add(float64(n))

	r.advance(StateCrossRefSync)
	xref := s.floorPolys.Sync(ctx, displayName, modifiedBy)
	if xref.Status != models.StatusSuccess {
		r.logger.Warn("Floor poly sync did not complete", zap.String("message", xref.Message))
	}

	r.advance(StateDone)
	return &models.ImportResult{
		Status:                models.StatusSuccess,
		Message:               fmt.Sprintf("Imported %d rows for %s", n, displayName),
		StagingCount:          len(rows),
		IndoorNetworkUpserted: n,
		FloorPolySync:         xref,
	}, nil
}

// enrichAll keeps holding-area order. Reference data is fetched once, and
// only when some row needs it.
func (s *NetworkImportService) enrichAll(ctx context.Context, rows []models.StagingRow, displayName string) ([]*models.IndoorNetwork, error) {
	var enricher *enrich.Enricher
	for _, row := range rows {
		if row.NeedsEnrichment() {
			snap, err := reference.FetchSnapshot(ctx, s.refs, displayName)
			if err != nil {
				return nil, &EnrichmentError{Err: err}
			}
			enricher = enrich.NewEnricher(enrich.NewReference(snap))
			break
		}
	}

	out := make([]*models.IndoorNetwork, 0, len(rows))
	for _, row := range rows {
		if !row.NeedsEnrichment() {
			out = append(out, models.FromStaging(row, displayName))
			continue
		}
		pub, err := enricher.Enrich(row, displayName)
		if err != nil {
			return nil, &EnrichmentError{INetworkID: row.INetworkID, Err: err}
		}
		out = append(out, pub)
	}
	return out, nil
}

func (s *NetworkImportService) failure(r *run, err error) *models.ImportResult {
	res := &models.ImportResult{Status: models.StatusError, Message: err.Error()}

	var valErr *ValidationError
	var rowErr *RowTypeError
	switch {
	case errors.As(err, &valErr):
		res.Status = models.StatusValidationFailed
		res.Message = fmt.Sprintf("Validation failed with %d errors", valErr.ErrorCount)
		res.Errors = valErr.Errors
		r.logger.Warn("Holding area failed validation", zap.Int("error_count", valErr.ErrorCount))
		return res
	case errors.As(err, &rowErr):
		idx := rowErr.Index
		res.RowIndex = &idx
		res.RowData = rowErr.Row
	}

	r.logger.Error("Network import failed", zap.Error(err), zap.Stack("stack"))
	if !s.production {
		res.Trace = errorChain(err)
	}
	return res
}

// errorChain lists every wrapped error from outermost to root cause.
func errorChain(err error) string {
	var parts []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		parts = append(parts, fmt.Sprintf("%T: %v", e, e))
	}
	return strings.Join(parts, "\n")
}

type run struct {
	id     string
	state  State
	logger *zap.Logger
}

func (r *run) advance(next State) {
	if !r.state.CanTransition(next) {
		r.logger.DPanic("Illegal import state transition",
			zap.String("from", string(r.state)),
			zap.String("to", string(next)),
		)
	}
	r.logger.Debug("Import state", zap.String("from", string(r.state)), zap.String("to", string(next)))
	r.state = next
}
