package store

import (
	"context"

	"indoor-network/internal/models"

	"github.com/uptrace/bun"
)

type FloorPolyStore struct {
	db *bun.DB
}

func NewFloorPolyStore(db *bun.DB) *FloorPolyStore {
	return &FloorPolyStore{db: db}
}

var floorPolyUpdateColumns = []string{
	"floor_id", "floor_poly_id", "buildingid", "english_name", "chinese_name",
	"buildingcsuid", "buildingtype", "modified_by",
}

// UpsertFloorPolys writes every row in one transaction. creation_date is
// kept from the first insert.
func (s *FloorPolyStore) UpsertFloorPolys(ctx context.Context, rows []*models.PedRouteRelFloorPoly) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewInsert().
			Model(&rows).
			On("CONFLICT (level_id) DO UPDATE")
		for _, col := range floorPolyUpdateColumns {
			q = q.Set("? = EXCLUDED.?", bun.Ident(col), bun.Ident(col))
		}
		_, err := q.Set("last_amendment_date = now()").Exec(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
