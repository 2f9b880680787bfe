package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/weather-report-agent/internal/report"
)

func sampleReport(summary string) report.Report {
	return report.Report{
		Fecha:            "1999-01-01",
		Resumen:          summary,
		CondicionGeneral: "Dia Soleado",
		Variables: map[string]report.Variable{
			report.VarTemperature: {
				Promedio:  report.NewMeasure(21.5),
				Max:       report.NewMeasure(27),
				Min:       report.NewMeasure(15.25),
				Tendencia: report.TrendIncreasing,
			},
		},
		Anomalias:     []string{"Caída abrupta de luminosidad a las 18:01"},
		Observaciones: "Condiciones favorables & estables",
	}
}

func TestReportsSaveUsesUTCMinusFiveDate(t *testing.T) {
	dir := t.TempDir()
	s := NewReports(dir)

	// 03:00 UTC on March 2nd is still March 1st in UTC-5.
	now := time.Date(2025, 3, 2, 3, 0, 0, 0, time.UTC)
	path, err := s.Save(sampleReport("ok"), now)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	want := filepath.Join(dir, "informe_2025-03-01.json")
	if path != want {
		t.Fatalf("expected path %s, got %s", want, path)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("report file missing: %v", err)
	}
}

func TestReportsSaveFormatting(t *testing.T) {
	s := NewReports(t.TempDir())
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	path, err := s.Save(sampleReport("Mañana húmeda"), now)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "Mañana húmeda") {
		t.Fatalf("non-ASCII text was escaped: %s", text)
	}
	if !strings.Contains(text, "favorables & estables") {
		t.Fatalf("HTML characters were escaped: %s", text)
	}
	if !strings.Contains(text, "\n    \"resumen\"") {
		t.Fatalf("expected four-space indentation: %s", text)
	}
}

func TestReportsSaveOverwritesSameDate(t *testing.T) {
	dir := t.TempDir()
	s := NewReports(dir)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, err := s.Save(sampleReport("first"), now); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := s.Save(sampleReport("second"), now.Add(time.Hour)); err != nil {
		t.Fatalf("second save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected exactly one file, got %v", names)
	}

	raw, err := s.Load("2025-03-01")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var got report.Report
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Resumen != "second" {
		t.Fatalf("expected second report content, got %q", got.Resumen)
	}
}

func TestReportsLoad(t *testing.T) {
	dir := t.TempDir()
	s := NewReports(dir)

	if _, err := s.Load("2025-03-01"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := os.WriteFile(s.Path("2025-03-02"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := s.Load("2025-03-02"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}

	doc := []byte(`{"fecha":"2025-03-03","resumen":"ok"}`)
	if err := os.WriteFile(s.Path("2025-03-03"), doc, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw, err := s.Load("2025-03-03")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(raw, doc) {
		t.Fatalf("expected %s, got %s", doc, raw)
	}
}
