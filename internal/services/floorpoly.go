package services

import (
	"context"
	"errors"
	"strconv"

	"indoor-network/internal/metrics"
	"indoor-network/internal/models"
	"indoor-network/internal/reference"

	"go.uber.org/zap"
)

// Reasons a level is left out of the cross-reference sync.
const (
	SkipMissingIDs      = "missing_level_id_or_floorpolyid"
	SkipBadFloorPolyID  = "bad_floorpolyid_format"
	SkipUnknownBuilding = "no_buildinginfo_for_buildingcsuid"
	SkipDuplicateLevel  = "duplicate_level_id"
)

type FloorPolyStore interface {
	UpsertFloorPolys(ctx context.Context, rows []*models.PedRouteRelFloorPoly) (int, error)
}

// FloorPolyService keeps pedrouterelfloorpoly in step with the site's levels.
type FloorPolyService struct {
	store  FloorPolyStore
	refs   reference.Store
	logger *zap.Logger
}

func NewFloorPolyService(store FloorPolyStore, refs reference.Store, logger *zap.Logger) *FloorPolyService {
	return &FloorPolyService{store: store, refs: refs, logger: logger}
}

// Sync never returns an error; failures are reported in the result.
func (s *FloorPolyService) Sync(ctx context.Context, displayName, modifiedBy string) *models.FloorPolySyncResult {
	res := &models.FloorPolySyncResult{Skipped: []models.SkippedLevel{}}

	levels, err := s.refs.Levels(ctx, displayName)
	if errors.Is(err, reference.ErrNotFound) || (err == nil && len(levels) == 0) {
		res.Status = models.StatusError
		res.Message = "Level data not found or invalid"
		return res
	}
	if err != nil {
		s.logger.Error("Failed to read levels", zap.String("displayname", displayName), zap.Error(err))
		res.Status = models.StatusError
		res.Message = (&ReconciliationError{Step: "read levels", Err: err}).Error()
		return res
	}

	buildings := make(map[string]*models.BuildingInfo)
	// one upsert statement cannot touch a level_id twice; the first level wins
	levelSeen := make(map[string]bool, len(levels))
	var rows []*models.PedRouteRelFloorPoly
	for _, lvl := range levels {
		if lvl.ID == "" || lvl.FloorPolyID == "" {
			res.Skipped = append(res.Skipped, skip(SkipMissingIDs, lvl, ""))
			continue
		}
		if levelSeen[lvl.ID] {
			res.Skipped = append(res.Skipped, skip(SkipDuplicateLevel, lvl, ""))
			continue
		}
		levelSeen[lvl.ID] = true
		ref, ok := models.DecodeFloorPolyID(lvl.FloorPolyID)
		if !ok {
			res.Skipped = append(res.Skipped, skip(SkipBadFloorPolyID, lvl, ""))
			continue
		}

		b, seen := buildings[ref.BuildingCSUID]
		if !seen {
			b, err = s.refs.BuildingByCSUID(ctx, ref.BuildingCSUID)
			if err != nil && !errors.Is(err, reference.ErrNotFound) {
				res.Status = models.StatusError
				res.Message = (&ReconciliationError{Step: "read building info", Err: err}).Error()
				return res
			}
			buildings[ref.BuildingCSUID] = b
		}
		if b == nil {
			res.Skipped = append(res.Skipped, skip(SkipUnknownBuilding, lvl, ref.BuildingCSUID))
			continue
		}

		row := &models.PedRouteRelFloorPoly{
			LevelID:       lvl.ID,
			FloorPolyID:   lvl.FloorPolyID,
			BuildingID:    b.BuildingID,
			EnglishName:   lvl.Name.EN,
			ChineseName:   lvl.Name.ZH,
			BuildingCSUID: ref.BuildingCSUID,
			BuildingType:  b.BuildingType,
			ModifiedBy:    modifiedBy,
		}
		if id, err := strconv.ParseInt(b.SixDigitID+ref.FloorNumber, 10, 64); err == nil {
			row.FloorID = &id
		}
		rows = append(rows, row)
	}

	for _, sk := range res.Skipped {
		metrics.FloorPolySkippedTotal.WithLabelValues(sk.Reason).Inc()
	}

	n, err := s.store.UpsertFloorPolys(ctx, rows)
	if err != nil {
		s.logger.Error("Floor poly upsert failed", zap.String("displayname", displayName), zap.Error(err))
		res.Status = models.StatusError
		res.Message = (&ReconciliationError{Step: "upsert", Err: err}).Error()
		return res
	}
	res.Status = models.StatusSuccess
	res.Upserted = n
	s.logger.Info("Floor poly sync complete",
		zap.String("displayname", displayName),
		zap.Int("upserted", n),
		zap.Int("skipped", len(res.Skipped)),
	)
	return res
}

func skip(reason string, lvl models.Level, csuid string) models.SkippedLevel {
	return models.SkippedLevel{
		Reason:        reason,
		LevelID:       lvl.ID,
		FloorPolyID:   lvl.FloorPolyID,
		BuildingCSUID: csuid,
	}
}
