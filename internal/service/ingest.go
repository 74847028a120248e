package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/helioworks/solar-fleet-telemetry/internal/domain"
	"github.com/helioworks/solar-fleet-telemetry/internal/metrics"
	"github.com/helioworks/solar-fleet-telemetry/internal/repository"
)

// IngestionService validates an incoming batch, persists the readings and
// folds the batch into today's rollup. Both writes happen in one
// transaction: either the readings and the aggregate land together or
// neither does.
type IngestionService struct {
	repos   *repository.Repos
	reports *ReportService

	// now is the clock used to pick the aggregate date. UTC-pinned so the
	// date boundary does not drift with server locale.
	now func() time.Time
}

// IngestResult is what one successful ingest call produced.
type IngestResult struct {
	Inserted  []domain.Reading
	Aggregate domain.DailyAggregate
}

func (s *IngestionService) Ingest(ctx context.Context, batch domain.IngestBatch) (*IngestResult, error) {
	if err := batch.Validate(); err != nil {
		metrics.IngestBatches.WithLabelValues("validation_error").Inc()
		return nil, err
	}
	timer := prometheus.NewTimer(metrics.IngestDuration)
	defer timer.ObserveDuration()

	today := s.now().UTC().Format(domain.DateLayout)
	clean, dirty := domain.CountDirt(batch.Panels)

	var result IngestResult
	err := s.repos.Transact(ctx, func(tx *sqlx.Tx) error {
		inserted, err := s.repos.AppendMany(ctx, tx, batch.Panels)
		if err != nil {
			return err
		}
		agg, err := s.repos.UpsertDailyStats(ctx, tx,
			today, batch.TotalPower, batch.AvgEfficiency, clean, dirty)
		if err != nil {
			return err
		}
		result = IngestResult{Inserted: inserted, Aggregate: agg}
		return nil
	})
	if err != nil {
		metrics.IngestBatches.WithLabelValues("store_error").Inc()
		return nil, err
	}
	metrics.IngestBatches.WithLabelValues("ok").Inc()
	metrics.ReadingsInserted.Add(float64(len(result.Inserted)))

	// Alerting is best-effort; an SNS hiccup never fails the call.
	if err := s.reports.MaybeAlertDirt(ctx, result.Aggregate); err != nil {
		log.Error().Err(err).Str("date", result.Aggregate.Date).Msg("dirt alert failed")
	}
	return &result, nil
}

// FromMQTT ingests one broker message carrying the same JSON body as
// POST /api/solar-data.
func (s *IngestionService) FromMQTT(topic string, payload []byte) error {
	var batch domain.IngestBatch
	if err := json.Unmarshal(payload, &batch); err != nil {
		return fmt.Errorf("decode batch from %s: %w", topic, err)
	}
	_, err := s.Ingest(context.Background(), batch)
	return err
}
