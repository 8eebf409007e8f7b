package models

import "time"

// ImportRunStatus is the lifecycle state of one import run.
type ImportRunStatus string

const (
	ImportQueued    ImportRunStatus = "queued"
	ImportRunning   ImportRunStatus = "running"
	ImportCompleted ImportRunStatus = "completed"
	ImportPartial   ImportRunStatus = "partial"
	ImportFailed    ImportRunStatus = "failed"
)

// ImportSummary accounts for one processed import: how the rows mapped
// and how the batch write went.
type ImportSummary struct {
	Mapped  int         `json:"mapped"`
	Skipped int         `json:"skipped"`
	Batch   BatchResult `json:"batch"`
}

// ImportRun is the tracked state of a CSV import, synchronous or
// queued.
type ImportRun struct {
	ID         string          `json:"id"`
	EditionID  string          `json:"edition_id"`
	Status     ImportRunStatus `json:"status"`
	Summary    *ImportSummary  `json:"summary,omitempty"`
	Error      string          `json:"error,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}
