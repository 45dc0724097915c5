package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/urlprint/internal/config"
	"github.com/nao1215/urlprint/internal/fingerprint"
	"github.com/nao1215/urlprint/internal/metrics"
	"github.com/nao1215/urlprint/internal/model"
	"github.com/nao1215/urlprint/internal/scrape"
)

// ShutdownTimeout bounds graceful shutdown after the context is cancelled.
const ShutdownTimeout = 5 * time.Second

// Comparer produces a ComparisonReport. *compare.Comparator implements it.
type Comparer interface {
	Compare(ctx context.Context, url1, url2 string, bits, keepBytes int) (*model.ComparisonReport, error)
}

// Scraper lists the items of a page. *scrape.Scraper implements it.
type Scraper interface {
	Scrape(ctx context.Context, target string) ([]scrape.Item, error)
}

// Server is the urlprint HTTP service.
type Server struct {
	comparer       Comparer
	scraper        Scraper
	recorder       *metrics.Recorder
	logger         *slog.Logger
	requestTimeout time.Duration
	defaultBits    int
	defaultBytes   int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRecorder serves the recorder on /metrics and counts requests with it.
// Without it /metrics responds 404.
func WithRecorder(r *metrics.Recorder) Option {
	return func(s *Server) {
		s.recorder = r
	}
}

// WithRequestTimeout bounds each /compare and /scrape request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithDefaults sets the bits and bytes used when a request omits them.
func WithDefaults(bits, keepBytes int) Option {
	return func(s *Server) {
		s.defaultBits = bits
		s.defaultBytes = keepBytes
	}
}

// New creates a Server.
func New(comparer Comparer, scraper Scraper, opts ...Option) *Server {
	s := &Server{
		comparer:       comparer,
		scraper:        scraper,
		requestTimeout: config.DefaultTimeout,
		defaultBits:    config.DefaultBits,
		defaultBytes:   config.DefaultKeepBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Handler returns the routing handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /compare", s.instrument("compare", http.HandlerFunc(s.handleCompare)))
	mux.Handle("GET /scrape", s.instrument("scrape", http.HandlerFunc(s.handleScrape)))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	if s.recorder != nil {
		mux.Handle("GET /metrics", s.recorder.Handler())
	}
	return mux
}

func (s *Server) instrument(name string, h http.Handler) http.Handler {
	if s.recorder == nil {
		return h
	}
	return s.recorder.InstrumentHandler(name, h)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      s.requestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	s.logger.Info("server listening", "address", listener.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	q := r.URL.Query()
	url1 := strings.TrimSpace(q.Get("url1"))
	url2 := strings.TrimSpace(q.Get("url2"))
	if url1 == "" || url2 == "" {
		s.writeError(w, http.StatusBadRequest, "missing url1 or url2 param")
		return
	}
	bits, err := intParam(q.Get("bits"), s.defaultBits)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid bits param")
		return
	}
	keepBytes, err := intParam(q.Get("bytes"), s.defaultBytes)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid bytes param")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	report, err := s.comparer.Compare(ctx, url1, url2, bits, keepBytes)
	switch {
	case errors.Is(err, fingerprint.ErrInvalidArgument):
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.Warn("compare failed", "url1", url1, "url2", url2, "error", err)
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	target := strings.TrimSpace(r.URL.Query().Get("url"))
	if target == "" {
		s.writeError(w, http.StatusBadRequest, "missing url param")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	items, err := s.scraper.Scrape(ctx, target)
	switch {
	case errors.Is(err, scrape.ErrInvalidTarget):
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.Warn("scrape failed", "url", target, "error", err)
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, items)
}

// intParam parses an optional integer query parameter.
func intParam(v string, def int) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
