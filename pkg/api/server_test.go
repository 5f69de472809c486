package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wineetl/pkg/config"
	"wineetl/pkg/pipeline"
	"wineetl/pkg/report"
)

const goodCSV = `fixed acidity,volatile acidity,alcohol,quality
7.4,0.7,9.4,5
7.8,0.88,9.8,5
7.3,0.65,10,7
`

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	cfg := config.Default()
	cfg.Validation.RequiredColumns = []string{"fixed acidity", "volatile acidity", "alcohol", "quality"}
	r, err := pipeline.NewRunner(cfg)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	dir := t.TempDir()
	s := NewServer(r, dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, dir
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("status %d body %v", resp.StatusCode, body)
	}

	resp, err = http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown path status = %d", resp.StatusCode)
	}
}

func TestLatestReport(t *testing.T) {
	ts, dir := newTestServer(t)
	resp, err := http.Get(ts.URL + "/report")
	if err != nil {
		t.Fatalf("GET /report: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status before any run = %d", resp.StatusCode)
	}

	if _, err := report.Write(dir, &pipeline.Result{RunID: "r1", OutputRows: 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	resp, err = http.Get(ts.URL + "/report")
	if err != nil {
		t.Fatalf("GET /report: %v", err)
	}
	defer resp.Body.Close()
	var got struct {
		RunID string `json:"run_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != http.StatusOK || got.RunID != "r1" {
		t.Fatalf("status %d run %q", resp.StatusCode, got.RunID)
	}
}

func TestValidate(t *testing.T) {
	ts, _ := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
		valid  bool
	}{
		{"valid", goodCSV, http.StatusOK, true},
		{"missing column", "fixed acidity,alcohol\n7.4,9.4\n", http.StatusUnprocessableEntity, false},
		{"no rows", "fixed acidity,volatile acidity,alcohol,quality\n", http.StatusUnprocessableEntity, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/validate", "text/csv", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			defer resp.Body.Close()
			var got validateResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.StatusCode != tt.status || got.Valid != tt.valid {
				t.Fatalf("status %d valid %v, want %d %v (%s)", resp.StatusCode, got.Valid, tt.status, tt.valid, got.Error)
			}
		})
	}
}

func TestValidateRejectsGet(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/validate")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
