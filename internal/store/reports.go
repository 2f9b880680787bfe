package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/i474232898/weather-report-agent/internal/report"
)

// Reports stores one JSON document per day under a directory, named
// informe_<YYYY-MM-DD>.json.
type Reports struct {
	dir string
}

// NewReports returns a Reports store rooted at dir.
func NewReports(dir string) *Reports {
	return &Reports{dir: dir}
}

// Path returns the file name used for the report of date.
func (s *Reports) Path(date string) string {
	return filepath.Join(s.dir, "informe_"+date+".json")
}

// Save writes r as the report for the UTC-5 date of now, replacing any
// report already stored for that date. The file is written to a temporary
// name and renamed so readers never see a partial document.
func (s *Reports) Save(r report.Report, now time.Time) (string, error) {
	path := s.Path(report.DateFor(now))

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(r); err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".informe-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp report: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close report: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("chmod report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("replace report %s: %w", path, err)
	}

	return path, nil
}

// Load returns the stored report for date as raw JSON.
func (s *Reports) Load(date string) (json.RawMessage, error) {
	path := s.Path(date)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("report %s: %w", date, ErrNotFound)
		}
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%s: %w", path, ErrCorrupt)
	}
	return json.RawMessage(data), nil
}
