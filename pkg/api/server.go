// Package api exposes health, the latest run report and ad-hoc validation
// over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"wineetl/pkg/data"
	"wineetl/pkg/pipeline"
	"wineetl/pkg/report"
	"wineetl/pkg/validation"
)

// MaxUploadBytes bounds the CSV body accepted by POST /validate.
const MaxUploadBytes = 32 << 20

type Server struct {
	runner    *pipeline.Runner
	reportDir string
	logger    *slog.Logger
}

func NewServer(runner *pipeline.Runner, reportDir string, logger *slog.Logger) *Server {
	return &Server{runner: runner, reportDir: reportDir, logger: logger}
}

// Handler returns the routes:
//
//	GET  /          health
//	GET  /report    latest run report
//	POST /validate  validate a CSV body
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.health)
	mux.HandleFunc("GET /report", s.latestReport)
	mux.HandleFunc("POST /validate", s.validate)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown", "err", err)
		}
	}()

	s.logger.Info("listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) latestReport(w http.ResponseWriter, _ *http.Request) {
	b, err := report.ReadLatest(s.reportDir)
	switch {
	case errors.Is(err, report.ErrNoReport):
		writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.logger.Error("read report", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type validateResponse struct {
	Valid  bool              `json:"valid"`
	Error  string            `json:"error,omitempty"`
	Report validation.Report `json:"report"`
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	f, err := data.ReadCSV(http.MaxBytesReader(w, r.Body, MaxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rep, err := s.runner.Validate(f)
	resp := validateResponse{Valid: err == nil && rep.Valid(), Report: rep}
	if err != nil {
		resp.Error = err.Error()
		s.logger.Info("validation failed", "err", err, "rows", f.NumRows())
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
