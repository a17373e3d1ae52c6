package database

import (
	"context"
	"fmt"
	"strings"

	"indoor-network/internal/mapping"
	"indoor-network/internal/models"

	"github.com/uptrace/bun"
)

const stagingSupport = `
CREATE TABLE IF NOT EXISTS network_staging_errors (
	inetworkid  text,
	error       text NOT NULL,
	detected_at timestamptz NOT NULL DEFAULT now()
);
DO $do$
BEGIN
	IF to_regprocedure('validate_network_staging()') IS NULL THEN
		EXECUTE $fn$
		CREATE FUNCTION validate_network_staging() RETURNS jsonb LANGUAGE plpgsql AS $body$
		DECLARE
			n integer;
		BEGIN
			TRUNCATE network_staging_errors;
			INSERT INTO network_staging_errors (inetworkid, error)
			SELECT inetworkid, 'missing required attribute' FROM network_staging
			WHERE inetworkid IS NULL OR highway IS NULL OR oneway IS NULL
				OR flpolyid IS NULL OR restricted IS NULL;
			INSERT INTO network_staging_errors (inetworkid, error)
			SELECT inetworkid, 'duplicate inetworkid' FROM network_staging
			WHERE inetworkid IS NOT NULL GROUP BY inetworkid HAVING count(*) > 1;
			INSERT INTO network_staging_errors (inetworkid, error)
			SELECT inetworkid, 'geometry is not a 3D line' FROM network_staging
			WHERE shape IS NULL OR NOT ST_HasZ(shape)
				OR GeometryType(shape) NOT IN ('LINESTRING', 'MULTILINESTRING');
			SELECT count(*) INTO n FROM network_staging_errors;
			RETURN jsonb_build_object('valid', n = 0, 'error_count', n);
		END
		$body$
		$fn$;
	END IF;
END
$do$;
`

const historySupport = `
CREATE TABLE IF NOT EXISTS pedestrian_route_history (
	history_id  bigserial PRIMARY KEY,
	operation   text NOT NULL,
	recorded_at timestamptz NOT NULL DEFAULT now(),
	LIKE pedestrian_route
);
CREATE OR REPLACE FUNCTION pedestrian_route_capture_history() RETURNS trigger LANGUAGE plpgsql AS $fn$
BEGIN
	INSERT INTO pedestrian_route_history
	SELECT nextval('pedestrian_route_history_history_id_seq'), TG_OP, now(), OLD.*;
	RETURN OLD;
END
$fn$;
DROP TRIGGER IF EXISTS pedestrian_route_history_trg ON pedestrian_route;
CREATE TRIGGER pedestrian_route_history_trg
	AFTER UPDATE OR DELETE ON pedestrian_route
	FOR EACH ROW EXECUTE FUNCTION pedestrian_route_capture_history();
`

// EnsureSchema creates the published, cross-reference, pedestrian and
// history tables when they are missing. Existing tables are left alone.
func EnsureSchema(ctx context.Context, db *bun.DB, pedestrian *mapping.Mapping) error {
	if _, err := db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS postgis"); err != nil {
		return fmt.Errorf("postgis extension: %w", err)
	}

	for _, model := range []interface{}{
		(*models.IndoorNetwork)(nil),
		(*models.PedRouteRelFloorPoly)(nil),
	} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}

	if _, err := db.ExecContext(ctx, PedestrianDDL(pedestrian)); err != nil {
		return fmt.Errorf("create %s: %w", pedestrian.Table, err)
	}
	if _, err := db.ExecContext(ctx, historySupport); err != nil {
		return fmt.Errorf("history capture: %w", err)
	}
	if _, err := db.ExecContext(ctx, stagingSupport); err != nil {
		return fmt.Errorf("staging validator: %w", err)
	}
	return nil
}

// PedestrianDDL renders the CREATE TABLE statement for the pedestrian mapping.
func PedestrianDDL(m *mapping.Mapping) string {
	keyType := m.KeyType
	if keyType == "" {
		keyType = "text"
	}
	cols := []string{fmt.Sprintf("%s %s PRIMARY KEY", m.Key, keyType)}
	for _, f := range m.Fields {
		if f.Database == m.Key {
			continue
		}
		cols = append(cols, fmt.Sprintf("%s %s", f.Database, f.SQLType()))
	}
	cols = append(cols,
		fmt.Sprintf("%s geometry(LineStringZ,2326)", m.Geometry),
		"last_modified timestamptz NOT NULL DEFAULT now()",
	)
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", m.Table, strings.Join(cols, ",\n\t"))
}
