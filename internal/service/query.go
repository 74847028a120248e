package service

import (
	"context"

	"github.com/helioworks/solar-fleet-telemetry/internal/domain"
	"github.com/helioworks/solar-fleet-telemetry/internal/repository"
)

// QueryService is the read-only surface. It never mutates state; store
// failures surface as StoreError.
type QueryService struct {
	repos *repository.Repos
}

// LatestSnapshot returns each panel's most recent reading, one row per
// distinct name.
func (s *QueryService) LatestSnapshot(ctx context.Context, limit int) ([]domain.Reading, error) {
	return s.repos.LatestPerPanel(ctx, limit)
}

// PanelHistory returns one panel's readings, newest first.
func (s *QueryService) PanelHistory(ctx context.Context, name string, limit int) ([]domain.Reading, error) {
	return s.repos.HistoryFor(ctx, name, limit)
}

// DailyStats returns the most recent daily aggregates, newest date first.
func (s *QueryService) DailyStats(ctx context.Context, days int) ([]domain.DailyAggregate, error) {
	return s.repos.ListRecentDailyStats(ctx, days)
}
