package domain

import (
	"fmt"
	"time"
)

// Dirt level thresholds. Panels below DirtLevelClean count as clean,
// panels at or above DirtLevelDirty count as dirty, anything in between
// counts toward neither bucket.
const (
	DirtLevelClean = 10
	DirtLevelDirty = 30
)

// Reading is one persisted sample of a panel's operating metrics.
// RecordedAt is assigned by the server at persistence time.
type Reading struct {
	ID               int64     `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Power            float64   `db:"power" json:"power"`
	Efficiency       int       `db:"efficiency" json:"efficiency"`
	Status           string    `db:"status" json:"status"`
	Temperature      int       `db:"temperature" json:"temperature"`
	DirtLevel        int       `db:"dirt_level" json:"dirtLevel"`
	DustAccumulation string    `db:"dust_accumulation" json:"dustAccumulation"`
	RecordedAt       time.Time `db:"recorded_at" json:"recordedAt"`
}

// PanelSample is one panel's sample as submitted by a client, before the
// server assigns an id and timestamp.
type PanelSample struct {
	Name             string  `json:"name"`
	Power            float64 `json:"power"`
	Efficiency       int     `json:"efficiency"`
	Status           string  `json:"status"`
	Temperature      int     `json:"temperature"`
	DirtLevel        int     `json:"dirtLevel"`
	DustAccumulation string  `json:"dustAccumulation"`
}

// IngestBatch is the body of one ingest call: the submitted panel samples
// plus the caller-computed fleet totals for the batch. TotalPower and
// AvgEfficiency are stored verbatim, never recomputed server-side.
type IngestBatch struct {
	Panels        []PanelSample `json:"panels"`
	TotalPower    float64       `json:"totalPower"`
	AvgEfficiency float64       `json:"avgEfficiency"`
}

// Validate checks the batch shape. A nil Panels slice means the field was
// absent from the request; an empty array is a valid, empty batch.
func (b IngestBatch) Validate() error {
	if b.Panels == nil {
		return &ValidationError{Msg: "panels must be an array"}
	}
	for i, p := range b.Panels {
		if p.Name == "" {
			return &ValidationError{Msg: fmt.Sprintf("panels[%d]: name is required", i)}
		}
	}
	return nil
}

// CountDirt returns how many samples in the batch fall into the clean and
// dirty buckets.
func CountDirt(panels []PanelSample) (clean, dirty int) {
	for _, p := range panels {
		switch {
		case p.DirtLevel < DirtLevelClean:
			clean++
		case p.DirtLevel >= DirtLevelDirty:
			dirty++
		}
	}
	return clean, dirty
}

// DateLayout is the aggregate date key format (ISO calendar date).
const DateLayout = "2006-01-02"

// DailyAggregate is the per-calendar-day rollup derived from the batches
// ingested that day. Date is the primary key, formatted per DateLayout.
// Each upsert replaces the row in full; values are never accumulated.
type DailyAggregate struct {
	Date            string    `db:"date" json:"date"`
	TotalPower      float64   `db:"total_power" json:"totalPower"`
	AvgEfficiency   float64   `db:"avg_efficiency" json:"avgEfficiency"`
	CleanPanelCount int       `db:"clean_panel_count" json:"cleanPanelCount"`
	DirtyPanelCount int       `db:"dirty_panel_count" json:"dirtyPanelCount"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}
