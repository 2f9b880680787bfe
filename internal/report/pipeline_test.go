package report_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/weather-report-agent/internal/report"
	"github.com/i474232898/weather-report-agent/internal/store"
)

type stubSummarizer struct {
	rep   report.Report
	err   error
	calls int
}

func (s *stubSummarizer) Summarize(_ context.Context, _ string) (report.Report, error) {
	s.calls++
	return s.rep, s.err
}

type failingStore struct{}

func (failingStore) Save(report.Report, time.Time) (string, error) {
	return "", errors.New("disk full")
}

func modelReport() report.Report {
	return report.Report{
		Fecha:            "2001-09-09",
		Resumen:          "Día despejado",
		CondicionGeneral: "Dia Soleado",
		Variables: map[string]report.Variable{
			report.VarTemperature: {
				Promedio:  report.NewMeasure(20),
				Max:       report.NewMeasure(25),
				Min:       report.NewMeasure(14),
				Tendencia: report.TrendStable,
			},
		},
		Anomalias:     []string{},
		Observaciones: "Nada que destacar",
	}
}

func writeHistory(t *testing.T, content string) *store.History {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write history: %v", err)
	}
	return store.NewHistory(path)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRunOverwritesFechaWithComputationDate(t *testing.T) {
	reportsDir := t.TempDir()
	reports := store.NewReports(reportsDir)
	sum := &stubSummarizer{rep: modelReport()}
	now := time.Date(2025, 3, 2, 4, 59, 0, 0, time.UTC)

	p := report.NewPipeline(writeHistory(t, "line\n"), sum, reports, report.Options{Now: fixedClock(now)})
	rep, err := p.Run(context.Background(), report.TriggerManual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rep.Fecha != "2025-03-01" {
		t.Fatalf("expected fecha 2025-03-01, got %s", rep.Fecha)
	}
	raw, err := reports.Load("2025-03-01")
	if err != nil {
		t.Fatalf("load saved report: %v", err)
	}
	if want := `"fecha": "2025-03-01"`; !strings.Contains(string(raw), want) {
		t.Fatalf("saved report does not carry %s: %s", want, raw)
	}
}

func TestRunWithoutHistoryWritesNothing(t *testing.T) {
	cases := map[string]*store.History{
		"missing":    store.NewHistory(filepath.Join(t.TempDir(), "nope.txt")),
		"whitespace": writeHistory(t, "   \n\n"),
	}

	for name, history := range cases {
		t.Run(name, func(t *testing.T) {
			reportsDir := filepath.Join(t.TempDir(), "reports")
			sum := &stubSummarizer{rep: modelReport()}
			p := report.NewPipeline(history, sum, store.NewReports(reportsDir), report.Options{})

			rep, err := p.Run(context.Background(), report.TriggerSchedule)
			if !errors.Is(err, report.ErrNoHistory) {
				t.Fatalf("expected ErrNoHistory, got %v", err)
			}
			if rep != nil {
				t.Fatalf("expected no report, got %+v", rep)
			}
			if sum.calls != 0 {
				t.Fatalf("summarizer should not be called, got %d calls", sum.calls)
			}
			if _, err := os.Stat(reportsDir); !errors.Is(err, os.ErrNotExist) {
				t.Fatalf("reports directory should not exist, stat err=%v", err)
			}
		})
	}
}

func TestRunSummarizerFailureKeepsExistingReport(t *testing.T) {
	reports := store.NewReports(t.TempDir())
	now := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)

	first := report.NewPipeline(writeHistory(t, "a\n"), &stubSummarizer{rep: modelReport()}, reports, report.Options{Now: fixedClock(now)})
	if _, err := first.Run(context.Background(), report.TriggerManual); err != nil {
		t.Fatalf("first run: %v", err)
	}
	before, err := reports.Load("2025-03-01")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	failing := report.NewPipeline(writeHistory(t, "b\n"), &stubSummarizer{err: errors.New("timeout")}, reports, report.Options{Now: fixedClock(now)})
	rep, err := failing.Run(context.Background(), report.TriggerManual)
	if !errors.Is(err, report.ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got %v", err)
	}
	if rep != nil {
		t.Fatalf("expected no report, got %+v", rep)
	}

	after, err := reports.Load("2025-03-01")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("a failed run must not touch the stored report")
	}
}

func TestRunSaveFailureStillReturnsReport(t *testing.T) {
	p := report.NewPipeline(writeHistory(t, "a\n"), &stubSummarizer{rep: modelReport()}, failingStore{}, report.Options{})

	rep, err := p.Run(context.Background(), report.TriggerManual)
	if err != nil {
		t.Fatalf("save failures must not fail the run: %v", err)
	}
	if rep == nil || rep.Resumen != "Día despejado" {
		t.Fatalf("unexpected report %+v", rep)
	}
}

func TestRunKeepsHistoryByDefault(t *testing.T) {
	history := writeHistory(t, "keep me\n")
	p := report.NewPipeline(history, &stubSummarizer{rep: modelReport()}, store.NewReports(t.TempDir()), report.Options{})

	if _, err := p.Run(context.Background(), report.TriggerSchedule); err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := history.Read()
	if err != nil || got != "keep me\n" {
		t.Fatalf("history should be untouched, got %q (%v)", got, err)
	}
}

func TestRunResetsHistoryWhenEnabled(t *testing.T) {
	history := writeHistory(t, "old\n")
	p := report.NewPipeline(history, &stubSummarizer{rep: modelReport()}, store.NewReports(t.TempDir()), report.Options{ResetHistory: true})

	if _, err := p.Run(context.Background(), report.TriggerSchedule); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := history.Read(); !errors.Is(err, store.ErrEmpty) {
		t.Fatalf("expected history to be truncated, got %v", err)
	}
}

func TestManualAndScheduledRunsProduceIdenticalFiles(t *testing.T) {
	now := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
	history := writeHistory(t, "2025-06-10T12:00:00-05:00:\n  Luz: 800 lux\n")

	files := make([][]byte, 0, 2)
	for _, trigger := range []report.Trigger{report.TriggerManual, report.TriggerSchedule} {
		reports := store.NewReports(t.TempDir())
		p := report.NewPipeline(history, &stubSummarizer{rep: modelReport()}, reports, report.Options{Now: fixedClock(now)})
		if _, err := p.Run(context.Background(), trigger); err != nil {
			t.Fatalf("%s run: %v", trigger, err)
		}
		data, err := os.ReadFile(reports.Path("2025-06-10"))
		if err != nil {
			t.Fatalf("read %s report: %v", trigger, err)
		}
		files = append(files, data)
	}

	if string(files[0]) != string(files[1]) {
		t.Fatalf("reports differ:\n%s\n---\n%s", files[0], files[1])
	}
}
