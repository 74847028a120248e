package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/helioworks/solar-fleet-telemetry/internal/domain"
)

const (
	defaultSnapshotLimit = 100
	defaultHistoryLimit  = 10
)

const readingColumns = `id, name, power, efficiency, status, temperature, dirt_level, dust_accumulation, recorded_at`

// AppendMany persists the submitted samples in input order on the given
// executor (normally the ingest transaction). recorded_at is assigned here
// from the server clock, so it is non-decreasing across the batch. Returns
// the persisted rows with their ids.
func (r *Repos) AppendMany(ctx context.Context, q sqlx.ExtContext, samples []domain.PanelSample) ([]domain.Reading, error) {
	stmt := q.Rebind(`INSERT INTO panel_readings
	    (name, power, efficiency, status, temperature, dirt_level, dust_accumulation, recorded_at)
	 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	 RETURNING id`)

	out := make([]domain.Reading, 0, len(samples))
	for _, p := range samples {
		rec := domain.Reading{
			Name:             p.Name,
			Power:            p.Power,
			Efficiency:       p.Efficiency,
			Status:           p.Status,
			Temperature:      p.Temperature,
			DirtLevel:        p.DirtLevel,
			DustAccumulation: p.DustAccumulation,
			RecordedAt:       time.Now().UTC(),
		}
		row := q.QueryRowxContext(ctx, stmt,
			rec.Name, rec.Power, rec.Efficiency, rec.Status,
			rec.Temperature, rec.DirtLevel, rec.DustAccumulation, rec.RecordedAt)
		if err := row.Scan(&rec.ID); err != nil {
			return nil, &domain.StoreError{Op: "append reading", Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}

// LatestPerPanel returns each distinct panel's most recent reading,
// ordered by name ascending, at most limit rows. limit falls back to 100
// when absent or invalid.
func (r *Repos) LatestPerPanel(ctx context.Context, limit int) ([]domain.Reading, error) {
	if limit <= 0 {
		limit = defaultSnapshotLimit
	}
	// MAX(id) picks the newest row per name; ids grow with recorded_at.
	stmt := r.db.Rebind(`SELECT r.id, r.name, r.power, r.efficiency, r.status,
	        r.temperature, r.dirt_level, r.dust_accumulation, r.recorded_at
	 FROM panel_readings r
	 JOIN (SELECT name, MAX(id) AS max_id FROM panel_readings GROUP BY name) latest
	   ON latest.max_id = r.id
	 ORDER BY r.name ASC
	 LIMIT ?`)
	out := []domain.Reading{}
	if err := r.db.SelectContext(ctx, &out, stmt, limit); err != nil {
		return nil, &domain.StoreError{Op: "latest per panel", Err: err}
	}
	return out, nil
}

// HistoryFor returns readings for one panel, newest first, at most limit
// rows. limit falls back to 10 when absent or invalid.
func (r *Repos) HistoryFor(ctx context.Context, name string, limit int) ([]domain.Reading, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	stmt := r.db.Rebind(`SELECT ` + readingColumns + `
	 FROM panel_readings
	 WHERE name = ?
	 ORDER BY recorded_at DESC, id DESC
	 LIMIT ?`)
	out := []domain.Reading{}
	if err := r.db.SelectContext(ctx, &out, stmt, name, limit); err != nil {
		return nil, &domain.StoreError{Op: "panel history", Err: err}
	}
	return out, nil
}

// PurgeOlderThan deletes readings recorded strictly before now minus the
// given number of days and reports how many rows went away. The cutoff is
// always passed as a bind parameter, never spliced into the query text.
func (r *Repos) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	stmt := r.db.Rebind(`DELETE FROM panel_readings WHERE recorded_at < ?`)
	res, err := r.db.ExecContext(ctx, stmt, cutoff)
	if err != nil {
		return 0, &domain.StoreError{Op: "purge readings", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &domain.StoreError{Op: "purge rows affected", Err: err}
	}
	return n, nil
}
