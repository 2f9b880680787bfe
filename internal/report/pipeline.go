package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-report-agent/internal/metrics"
)

var (
	// ErrNoHistory is returned when the history file is missing, empty or unreadable.
	ErrNoHistory = errors.New("no history data")
	// ErrAnalysisFailed is returned when the summarizer produced no report.
	ErrAnalysisFailed = errors.New("analysis failed")
)

// State is a step of a single pipeline run.
type State string

const (
	StateIdle           State = "idle"
	StateReadingHistory State = "reading_history"
	StateSummarizing    State = "summarizing"
	StateSaving         State = "saving"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// Options tweak pipeline behaviour. The zero value matches the default deployment.
type Options struct {
	// ResetHistory truncates the history file after a report was saved.
	ResetHistory bool
	// Now overrides the clock used to date reports.
	Now func() time.Time
}

// Pipeline reads the sensor history, has it summarized and stores the report.
// Runs are independent; concurrent runs for the same date race and the last
// writer wins.
type Pipeline struct {
	history      HistorySource
	summarizer   Summarizer
	store        Store
	resetHistory bool
	now          func() time.Time
}

// NewPipeline creates a new Pipeline.
func NewPipeline(history HistorySource, summarizer Summarizer, store Store, opts Options) *Pipeline {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		history:      history,
		summarizer:   summarizer,
		store:        store,
		resetHistory: opts.ResetHistory,
		now:          now,
	}
}

// run tracks the state of one invocation for logging and metrics.
type run struct {
	id      string
	trigger Trigger
	state   State
	started time.Time
}

func (r *run) enter(s State) {
	log.Printf("DEBUG: report run %s: %s -> %s", r.id, r.state, s)
	r.state = s
}

// Run executes one report generation. It returns the report on success even
// if persisting it failed; save errors are only logged.
func (p *Pipeline) Run(ctx context.Context, trigger Trigger) (*Report, error) {
	r := &run{
		id:      uuid.NewString(),
		trigger: trigger,
		state:   StateIdle,
		started: time.Now(),
	}
	log.Printf("INFO: report run %s started (trigger=%s)", r.id, trigger)
	defer func() {
		metrics.PipelineRuns.WithLabelValues(string(trigger), string(r.state)).Inc()
		metrics.PipelineDuration.WithLabelValues(string(trigger)).Observe(time.Since(r.started).Seconds())
	}()

	r.enter(StateReadingHistory)
	history, err := p.history.Read()
	if err != nil {
		r.enter(StateFailed)
		log.Printf("ERROR: report run %s: could not read history: %v", r.id, err)
		return nil, fmt.Errorf("%w: %v", ErrNoHistory, err)
	}

	r.enter(StateSummarizing)
	rep, err := p.summarizer.Summarize(ctx, history)
	if err != nil {
		r.enter(StateFailed)
		log.Printf("ERROR: report run %s: summarizer returned no report: %v", r.id, err)
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	r.enter(StateSaving)
	now := p.now()
	rep.Fecha = DateFor(now)
	path, err := p.store.Save(rep, now)
	if err != nil {
		log.Printf("ERROR: report run %s: failed to save report: %v", r.id, err)
	} else {
		log.Printf("INFO: report run %s: report written to %s", r.id, path)
		if p.resetHistory {
			if err := p.history.Reset(); err != nil {
				log.Printf("ERROR: report run %s: failed to reset history: %v", r.id, err)
			}
		}
	}

	r.enter(StateDone)
	log.Printf("INFO: report run %s completed in %s", r.id, time.Since(r.started).Round(time.Millisecond))
	return &rep, nil
}
