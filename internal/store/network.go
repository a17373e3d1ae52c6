package store

import (
	"context"
	"database/sql"
	"fmt"

	"indoor-network/internal/geo"
	"indoor-network/internal/models"

	"github.com/tidwall/gjson"
	"github.com/uptrace/bun"
)

const (
	NetworkStagingTable = "network_staging"
	networkErrorsTable  = "network_staging_errors"
)

// NetworkStore owns the network holding area and the published table.
type NetworkStore struct {
	db *bun.DB
}

func NewNetworkStore(db *bun.DB) *NetworkStore {
	return &NetworkStore{db: db}
}

// ClearStaging empties the holding area. It fails when the table does not exist yet.
func (s *NetworkStore) ClearStaging(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "TRUNCATE TABLE ?", bun.Ident(NetworkStagingTable))
	return err
}

// ValidateStaging runs the database-side validator over the holding area.
func (s *NetworkStore) ValidateStaging(ctx context.Context) (models.ValidationReport, error) {
	var out sql.NullString
	if err := s.db.NewRaw("SELECT validate_network_staging()::text").Scan(ctx, &out); err != nil {
		return models.ValidationReport{}, fmt.Errorf("validate_network_staging: %w", err)
	}
	return parseValidationReport(out.String), nil
}

// parseValidationReport treats a missing or malformed report as invalid.
func parseValidationReport(doc string) models.ValidationReport {
	if !gjson.Valid(doc) {
		return models.ValidationReport{}
	}
	r := gjson.Parse(doc)
	return models.ValidationReport{
		Valid:      r.Get("valid").Bool(),
		ErrorCount: int(r.Get("error_count").Int()),
	}
}

func (s *NetworkStore) StagingErrors(ctx context.Context) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	err := s.db.NewSelect().
		TableExpr("?", bun.Ident(networkErrorsTable)).
		Scan(ctx, &rows)
	return rows, err
}

// StagingRows reads every holding-area row with its geometry as grid GeoJSON
// and as a WGS84 copy for matching against reference data.
func (s *NetworkStore) StagingRows(ctx context.Context) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	err := s.stagingRowsQuery().Scan(ctx, &rows)
	return rows, err
}

func (s *NetworkStore) stagingRowsQuery() *bun.SelectQuery {
	return s.db.NewSelect().
		ColumnExpr("*").
		ColumnExpr("ST_AsGeoJSON(shape) AS geojson").
		ColumnExpr(geo.GeographicExpr+" AS geojson_wgs84", bun.Ident("shape"), geo.SRIDWGS84).
		TableExpr("?", bun.Ident(NetworkStagingTable))
}

// Publish empties the holding area and upserts rows in one transaction.
func (s *NetworkStore) Publish(ctx context.Context, rows []*models.IndoorNetwork) (int, error) {
	upserted := 0
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, "TRUNCATE TABLE ?", bun.Ident(NetworkStagingTable)); err != nil {
			return fmt.Errorf("truncate holding area: %w", err)
		}
		for _, row := range rows {
			q := tx.NewInsert().
				Model(row).
				On("CONFLICT (inetworkid) DO UPDATE")
			for _, col := range models.UpsertColumns {
				q = q.Set("? = EXCLUDED.?", bun.Ident(col), bun.Ident(col))
			}
			q = q.Set("updated_at = now()")
			if _, err := q.Exec(ctx); err != nil {
				return fmt.Errorf("upsert %s: %w", row.INetworkID, err)
			}
			upserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return upserted, nil
}

// NetworkFeature is a published row with its geometry as WGS84 GeoJSON.
type NetworkFeature struct {
	models.IndoorNetwork `bun:",extend"`
	GeoJSON              string `bun:"geojson"`
}

// NetworkBySites lists the published rows of the given sites.
func (s *NetworkStore) NetworkBySites(ctx context.Context, displayNames []string) ([]NetworkFeature, error) {
	var rows []NetworkFeature
	err := s.db.NewSelect().
		Model(&rows).
		ColumnExpr("n.*").
		ColumnExpr("ST_AsGeoJSON(ST_Transform(n.shape, 4326)) AS geojson").
		Where("n.displayname IN (?)", bun.In(displayNames)).
		Where("n.shape IS NOT NULL").
		OrderExpr("n.displayname ASC, n.inetworkid ASC").
		Scan(ctx)
	return rows, err
}
