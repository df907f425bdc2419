// Package ioserver implements the HTTP API over the page and annotation
// stores. The front-end uploads page scans for detection, saves drawn
// regions incrementally or in bulk, and reads stored regions back.
package ioserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/seiten/pagedb/pkg/config"
	"github.com/seiten/pagedb/pkg/detect"
	"github.com/seiten/pagedb/pkg/store"
)

// maxUploadSize caps multipart uploads; page scans are large.
const maxUploadSize = 50 << 20

// Server serves the annotation HTTP API.
type Server struct {
	cfg      *config.Config
	pages    store.PageStore
	anns     store.AnnotationStore
	detector detect.Detector
	log      *slog.Logger
}

// New creates a new Server.
func New(
	cfg *config.Config,
	pages store.PageStore,
	anns store.AnnotationStore,
	detector detect.Detector,
	log *slog.Logger,
) *Server {
	return &Server{
		cfg:      cfg,
		pages:    pages,
		anns:     anns,
		detector: detector,
		log:      log,
	}
}

// Handler builds the route table with CORS and logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /segment", s.handleSegment)
	mux.HandleFunc("POST /save", s.handleSave)
	mux.HandleFunc("POST /save_all", s.handleSaveAll)
	mux.HandleFunc("POST /ground_truth", s.handleGroundTruth)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.httpLogger(s.cors(mux))
}

// Run starts the server and blocks until the context is cancelled or
// the listener fails.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP API listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("Shutting down HTTP API")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return StartError(addr, err)
	}
}

// cors allows the configured front-end origin to call the API from the
// browser.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.Server.CORSOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// httpLogger records method, path, status and latency for every request.
func (s *Server) httpLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("http",
			"status", rec.status,
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// statusRecorder captures the response status for the logger.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
