// Package status serves the controller state, recent cycles and Prometheus
// metrics over HTTP while the reapply loop runs.
package status

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"codeberg.org/mutker/ryzenctl/internal/apply"
	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/logger"
	"codeberg.org/mutker/ryzenctl/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	defaultCycleLimit = 20
	maxCycleLimit     = 500
	shutdownTimeout   = 5 * time.Second
)

// SnapshotSource reports the controller status.
type SnapshotSource interface {
	Snapshot() apply.Snapshot
}

type Server struct {
	snapshots SnapshotSource
	cycles    telemetry.Collector
	metrics   http.Handler
	info      any
}

// NewServer creates a status server for src. Cycles, metrics and info are
// optional and their routes are omitted when nil.
func NewServer(src SnapshotSource, cycles telemetry.Collector, metrics http.Handler, info any) *Server {
	return &Server{
		snapshots: src,
		cycles:    cycles,
		metrics:   metrics,
		info:      info,
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/state", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, s.snapshots.Snapshot())
	})

	if s.info != nil {
		r.Get("/profile", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, s.info)
		})
	}

	if s.cycles != nil {
		r.Get("/cycles", s.handleCycles)
	}

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	return r
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	limit := defaultCycleLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxCycleLimit)
	}

	records, err := s.cycles.Recent(r.Context(), limit)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read cycle history")
		writeError(w, http.StatusInternalServerError, "cycle history unavailable")
		return
	}
	if records == nil {
		records = []telemetry.CycleRecord{}
	}

	writeJSON(w, http.StatusOK, records)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	errFactory := errors.New()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errFactory.Wrap(errors.ErrInitFailed, err)
	}

	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	errFactory := errors.New()
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	logger.Info().Str("addr", ln.Addr().String()).Msg("Status server listening")

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errFactory.Wrap(errors.ErrUnavailable, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errFactory.Wrap(errors.ErrShutdownFailed, err)
	}
	logger.Debug().Msg("Status server stopped")

	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
