package service

import (
	"context"
	"errors"
	"testing"

	"github.com/helioworks/solar-fleet-telemetry/internal/domain"
)

func TestCleanupRejectsBadInput(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	for _, bad := range []string{"abc", "-1", "1.5", "1; DROP TABLE panel_readings", ""} {
		_, err := svcs.Retention.Cleanup(ctx, bad)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Cleanup(%q): want ValidationError, got %v", bad, err)
		}
	}
}

func TestCleanupZeroDaysDeletesEverything(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	if _, err := svcs.Ingestion.Ingest(ctx, exampleBatch()); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	count, err := svcs.Retention.Cleanup(ctx, "0")
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if count != 2 {
		t.Fatalf("want 2 deleted, got %d", count)
	}

	// The rollup has no deletion path; only raw readings go away.
	stats, err := svcs.Query.DailyStats(ctx, 7)
	if err != nil {
		t.Fatalf("DailyStats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("cleanup must not touch aggregates, got %d rows", len(stats))
	}

	again, err := svcs.Retention.Cleanup(ctx, "0")
	if err != nil {
		t.Fatalf("second Cleanup: %v", err)
	}
	if again != 0 {
		t.Fatalf("want 0 deleted on empty table, got %d", again)
	}
}

func TestCleanupKeepsRecentReadings(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	if _, err := svcs.Ingestion.Ingest(ctx, exampleBatch()); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	count, err := svcs.Retention.Cleanup(ctx, "30")
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if count != 0 {
		t.Fatalf("fresh readings purged: %d", count)
	}

	rows, err := svcs.Query.LatestSnapshot(ctx, 100)
	if err != nil {
		t.Fatalf("LatestSnapshot: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows intact, got %d", len(rows))
	}
}
