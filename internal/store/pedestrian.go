package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"indoor-network/internal/mapping"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

const PedestrianStagingTable = "pedestrian_staging"

// ErrEmptySnapshot is returned instead of deleting every published row.
var ErrEmptySnapshot = errors.New("pedestrian snapshot is empty")

// ReconcileCounts reports what one reconciliation changed.
type ReconcileCounts struct {
	Loaded   int
	Inserted int
	Updated  int
	Deleted  int
}

type PedestrianStore struct {
	db *bun.DB
}

func NewPedestrianStore(db *bun.DB) *PedestrianStore {
	return &PedestrianStore{db: db}
}

// Reconcile makes the published table match the holding table: changed rows
// are updated, new rows inserted and absent keys deleted, all in one
// transaction.
func (s *PedestrianStore) Reconcile(ctx context.Context, m *mapping.Mapping) (ReconcileCounts, error) {
	var counts ReconcileCounts
	upsertSQL, deleteSQL := ReconcileSQL(s.db.Formatter(), m, PedestrianStagingTable)

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		loaded, err := tx.NewSelect().TableExpr("?", bun.Ident(PedestrianStagingTable)).Count(ctx)
		if err != nil {
			return fmt.Errorf("count snapshot: %w", err)
		}
		if loaded == 0 {
			return ErrEmptySnapshot
		}
		counts.Loaded = loaded

		var inserted []bool
		if err := tx.NewRaw(upsertSQL).Scan(ctx, &inserted); err != nil {
			return fmt.Errorf("upsert: %w", err)
		}
		for _, ins := range inserted {
			if ins {
				counts.Inserted++
			} else {
				counts.Updated++
			}
		}

		res, err := tx.ExecContext(ctx, deleteSQL)
		if err != nil {
			return fmt.Errorf("delete absent: %w", err)
		}
		n, _ := res.RowsAffected()
		counts.Deleted = int(n)
		return nil
	})
	if err != nil {
		return ReconcileCounts{}, err
	}
	return counts, nil
}

// ReconcileSQL builds the upsert-if-changed and delete-absent statements for
// a mapping. The upsert returns one boolean per written row, true for inserts.
func ReconcileSQL(f schema.Formatter, m *mapping.Mapping, staging string) (upsert, del string) {
	cols := m.ReconcileColumns()
	types := make(map[string]string, len(m.Fields))
	for _, fld := range m.Fields {
		types[fld.Database] = fld.SQLType()
	}
	keyType := m.KeyType
	if keyType == "" {
		keyType = "text"
	}

	targets := []string{f.FormatQuery("?", bun.Ident(m.Key))}
	sources := []string{f.FormatQuery("CAST(? AS "+keyType+")", bun.Ident(m.Key))}
	var sets, current, incoming []string
	for _, c := range cols {
		targets = append(targets, f.FormatQuery("?", bun.Ident(c.Target)))
		sets = append(sets, f.FormatQuery("? = EXCLUDED.?", bun.Ident(c.Target), bun.Ident(c.Target)))
		if c.Target == m.Geometry {
			sources = append(sources, f.FormatQuery("?", bun.Ident(c.Source)))
			current = append(current, f.FormatQuery("ST_AsEWKB(?.?)", bun.Ident(m.Table), bun.Ident(c.Target)))
			incoming = append(incoming, f.FormatQuery("ST_AsEWKB(EXCLUDED.?)", bun.Ident(c.Target)))
			continue
		}
		sources = append(sources, f.FormatQuery("CAST(? AS "+types[c.Target]+")", bun.Ident(c.Source)))
		current = append(current, f.FormatQuery("?.?", bun.Ident(m.Table), bun.Ident(c.Target)))
		incoming = append(incoming, f.FormatQuery("EXCLUDED.?", bun.Ident(c.Target)))
	}
	sets = append(sets, "last_modified = now()")

	upsert = f.FormatQuery("INSERT INTO ? (", bun.Ident(m.Table)) + strings.Join(targets, ", ") + ") " +
		"SELECT " + strings.Join(sources, ", ") + f.FormatQuery(" FROM ? ", bun.Ident(staging)) +
		f.FormatQuery("ON CONFLICT (?) DO UPDATE SET ", bun.Ident(m.Key)) + strings.Join(sets, ", ") +
		" WHERE (" + strings.Join(current, ", ") + ") IS DISTINCT FROM (" + strings.Join(incoming, ", ") + ")" +
		" RETURNING (xmax = 0) AS inserted"

	del = f.FormatQuery(
		"DELETE FROM ? AS p WHERE NOT EXISTS (SELECT 1 FROM ? AS s WHERE CAST(s.? AS "+keyType+") = p.?)",
		bun.Ident(m.Table), bun.Ident(staging), bun.Ident(m.Key), bun.Ident(m.Key),
	)
	return upsert, del
}
