package report

import (
	"context"
	"time"
)

// HistorySource provides the raw sensor history to analyse.
type HistorySource interface {
	Read() (string, error)
	Reset() error
}

// Summarizer turns raw history text into a structured report.
type Summarizer interface {
	Summarize(ctx context.Context, history string) (Report, error)
}

// Store persists reports keyed by their date.
type Store interface {
	Save(r Report, now time.Time) (string, error)
}

// Trigger identifies what started a pipeline run.
type Trigger string

const (
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
)
