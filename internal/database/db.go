package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"indoor-network/internal/config"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// New connects to PostGIS and returns a Bun DB handle.
func New(dsn string, cfg *config.Config) (*bun.DB, error) {
	// ogr2ogr loads and the publish transaction can run for minutes on large sites
	connector := pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(cfg.StatementTimeout),
		pgdriver.WithDialTimeout(15*time.Second),
		pgdriver.WithReadTimeout(cfg.StatementTimeout),
		pgdriver.WithWriteTimeout(30*time.Second),
		// applied to every pooled connection, not just the first one
		pgdriver.WithConnParams(map[string]interface{}{
			"search_path":                         "public",
			"statement_timeout":                   fmt.Sprintf("%ds", int(cfg.StatementTimeout.Seconds())),
			"idle_in_transaction_session_timeout": "180s",
		}),
	)

	sqldb := sql.OpenDB(connector)
	db := bun.NewDB(sqldb, pgdialect.New())

	// Configure connection pool
	sqldb.SetMaxOpenConns(10)
	sqldb.SetMaxIdleConns(5)
	sqldb.SetConnMaxLifetime(5 * time.Minute)
	sqldb.SetConnMaxIdleTime(10 * time.Minute)

	// Optional query logging
	if cfg.BunDebug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var postgis string
	if err := db.NewRaw("SELECT postgis_lib_version()").Scan(ctx, &postgis); err != nil {
		return nil, fmt.Errorf("postgis extension unavailable: %w", err)
	}

	return db, nil
}
