// Package metrics exposes Prometheus collectors for the report services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineRuns counts report runs by trigger and final state.
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_report_runs_total",
			Help: "Total number of report generation runs",
		},
		[]string{"trigger", "state"},
	)

	// PipelineDuration measures how long a report run took end to end.
	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weather_report_run_duration_seconds",
			Help:    "Report generation duration in seconds",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"trigger"},
	)

	// SummarizerRequests counts calls to the language model by result.
	SummarizerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_report_summarizer_requests_total",
			Help: "Total number of summarization requests sent to the language model",
		},
		[]string{"result"},
	)

	// ReportsServed counts GET /report responses by status code.
	ReportsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_report_served_total",
			Help: "Total number of report lookups served",
		},
		[]string{"status"},
	)

	// HistoryEntries counts blocks appended to the history file.
	HistoryEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_history_entries_total",
			Help: "Total number of history entries appended",
		},
	)
)
