package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/helioworks/solar-fleet-telemetry/internal/cloud"
	"github.com/helioworks/solar-fleet-telemetry/internal/domain"
	"github.com/helioworks/solar-fleet-telemetry/internal/repository"
)

// ReportService exports daily stats to S3 and raises fleet-dirt alerts
// over SNS. Both paths are disabled unless cloud services are enabled at
// startup; every method is safe to call with the clients unset.
type ReportService struct {
	repos          *repository.Repos
	s3             *cloud.S3Client
	sns            *cloud.SNSClient
	dirtyThreshold int
}

// Exports are keyed under one prefix so listing sees only reports.
const reportPrefix = "reports/"

// Enabled reports whether the export path is configured.
func (s *ReportService) Enabled() bool { return s != nil && s.s3 != nil }

// ListReports returns the keys of every export in the bucket.
func (s *ReportService) ListReports(ctx context.Context) ([]string, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("cloud services not enabled")
	}
	return s.s3.ListReports(ctx, reportPrefix)
}

// ExportDailyStats uploads the last days of aggregates as a JSON document
// and returns a presigned download URL.
func (s *ReportService) ExportDailyStats(ctx context.Context, days int) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("cloud services not enabled")
	}
	stats, err := s.repos.ListRecentDailyStats(ctx, days)
	if err != nil {
		return "", err
	}
	doc, err := json.Marshal(struct {
		GeneratedAt time.Time               `json:"generatedAt"`
		Days        int                     `json:"days"`
		Stats       []domain.DailyAggregate `json:"stats"`
	}{
		GeneratedAt: time.Now().UTC(),
		Days:        days,
		Stats:       stats,
	})
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	key := fmt.Sprintf("%sdaily-stats-%s.json", reportPrefix, time.Now().UTC().Format(domain.DateLayout))
	return s.s3.UploadReport(ctx, key, doc, "application/json")
}

// MaybeAlertDirt publishes a cleaning alert when the day's dirty panel
// count reaches the configured threshold. A nil SNS client or a zero
// threshold disables alerting.
func (s *ReportService) MaybeAlertDirt(ctx context.Context, agg domain.DailyAggregate) error {
	if s == nil || s.sns == nil || s.dirtyThreshold <= 0 {
		return nil
	}
	if agg.DirtyPanelCount < s.dirtyThreshold {
		return nil
	}
	return s.sns.SendDirtAlert(ctx, agg.Date, agg.DirtyPanelCount, s.dirtyThreshold)
}
