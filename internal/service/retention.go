package service

import (
	"context"
	"strconv"

	"github.com/helioworks/solar-fleet-telemetry/internal/domain"
	"github.com/helioworks/solar-fleet-telemetry/internal/metrics"
	"github.com/helioworks/solar-fleet-telemetry/internal/repository"
)

// RetentionService deletes raw readings older than a caller-supplied age.
type RetentionService struct {
	repos *repository.Repos
}

// Cleanup parses days as a non-negative integer and purges readings
// recorded before now minus that many days, returning the deleted count.
// The raw value is never forwarded to the store unparsed.
func (s *RetentionService) Cleanup(ctx context.Context, days string) (int64, error) {
	n, err := strconv.Atoi(days)
	if err != nil {
		return 0, &domain.ValidationError{Msg: "days must be an integer"}
	}
	if n < 0 {
		return 0, &domain.ValidationError{Msg: "days must not be negative"}
	}
	count, err := s.repos.PurgeOlderThan(ctx, n)
	if err != nil {
		return 0, err
	}
	metrics.ReadingsPurged.Add(float64(count))
	return count, nil
}
