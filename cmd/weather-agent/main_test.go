package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/i474232898/weather-report-agent/internal/report"
)

type okRunner struct{}

func (okRunner) Run(_ context.Context, _ report.Trigger) (*report.Report, error) {
	return &report.Report{Fecha: "2025-03-01"}, nil
}

func TestCORSCoversEveryRoute(t *testing.T) {
	app := newApp(okRunner{})

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/health"},
		{http.MethodGet, "/metrics"},
		{http.MethodPost, "/generate-report"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		req.Header.Set("Origin", "http://dashboard.local")

		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("%s %s: unexpected error: %v", tc.method, tc.path, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s %s: expected status %d, got %d", tc.method, tc.path, http.StatusOK, resp.StatusCode)
		}
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
			t.Fatalf("%s %s: expected CORS header *, got %q", tc.method, tc.path, got)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	app := newApp(okRunner{})

	req := httptest.NewRequest(http.MethodOptions, "/generate-report", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, resp.StatusCode)
	}
}
