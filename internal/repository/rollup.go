package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/helioworks/solar-fleet-telemetry/internal/domain"
)

const defaultStatsDays = 7

// UpsertDailyStats inserts the aggregate row for date or, when the date
// already has one, replaces every value column and refreshes updated_at.
// The keyed ON CONFLICT makes concurrent upserts for the same date
// last-commit-wins in full; no mixed rows.
func (r *Repos) UpsertDailyStats(ctx context.Context, q sqlx.ExtContext, date string, totalPower, avgEfficiency float64, clean, dirty int) (domain.DailyAggregate, error) {
	agg := domain.DailyAggregate{
		Date:            date,
		TotalPower:      totalPower,
		AvgEfficiency:   avgEfficiency,
		CleanPanelCount: clean,
		DirtyPanelCount: dirty,
		UpdatedAt:       time.Now().UTC(),
	}
	stmt := q.Rebind(`INSERT INTO daily_stats
	    (date, total_power, avg_efficiency, clean_panel_count, dirty_panel_count, updated_at)
	 VALUES (?, ?, ?, ?, ?, ?)
	 ON CONFLICT(date) DO UPDATE SET
	    total_power       = excluded.total_power,
	    avg_efficiency    = excluded.avg_efficiency,
	    clean_panel_count = excluded.clean_panel_count,
	    dirty_panel_count = excluded.dirty_panel_count,
	    updated_at        = excluded.updated_at`)
	if _, err := q.ExecContext(ctx, stmt,
		agg.Date, agg.TotalPower, agg.AvgEfficiency,
		agg.CleanPanelCount, agg.DirtyPanelCount, agg.UpdatedAt); err != nil {
		return domain.DailyAggregate{}, &domain.StoreError{Op: "upsert daily stats", Err: err}
	}
	return agg, nil
}

// ListRecentDailyStats returns up to days aggregates, newest date first.
// days falls back to 7 when absent or invalid.
func (r *Repos) ListRecentDailyStats(ctx context.Context, days int) ([]domain.DailyAggregate, error) {
	if days <= 0 {
		days = defaultStatsDays
	}
	stmt := r.db.Rebind(`SELECT date, total_power, avg_efficiency, clean_panel_count, dirty_panel_count, updated_at
	 FROM daily_stats
	 ORDER BY date DESC
	 LIMIT ?`)
	out := []domain.DailyAggregate{}
	if err := r.db.SelectContext(ctx, &out, stmt, days); err != nil {
		return nil, &domain.StoreError{Op: "list daily stats", Err: err}
	}
	return out, nil
}
