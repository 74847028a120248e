package service

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/helioworks/solar-fleet-telemetry/internal/cloud"
	"github.com/helioworks/solar-fleet-telemetry/internal/repository"
)

type Services struct {
	Repos     *repository.Repos
	Ingestion *IngestionService
	Query     *QueryService
	Retention *RetentionService
	Reports   *ReportService
}

func New(db *sqlx.DB) *Services {
	repos := repository.New(db)
	reports := &ReportService{repos: repos}
	return &Services{
		Repos:     repos,
		Reports:   reports,
		Ingestion: &IngestionService{repos: repos, reports: reports, now: time.Now},
		Query:     &QueryService{repos: repos},
		Retention: &RetentionService{repos: repos},
	}
}

// EnableCloud attaches the optional S3/SNS clients. Without it the report
// and alert paths stay disabled and everything else runs locally.
func (s *Services) EnableCloud(s3c *cloud.S3Client, snsc *cloud.SNSClient, dirtyThreshold int) {
	s.Reports.s3 = s3c
	s.Reports.sns = snsc
	s.Reports.dirtyThreshold = dirtyThreshold
}
