package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/helioworks/solar-fleet-telemetry/internal/domain"
)

// Repos is the persistence layer for panel readings and daily rollups.
// All SQL is written with ? bindvars and rebound per driver, so the same
// queries run on Postgres in production and SQLite in tests.
type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

// Transact runs fn inside a single transaction, committing on nil and
// rolling back otherwise. Ingest uses it to make the batch insert and the
// rollup upsert one atomic commit.
func (r *Repos) Transact(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return &domain.StoreError{Op: "begin tx", Err: err}
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return &domain.StoreError{Op: "commit tx", Err: err}
	}
	return nil
}
