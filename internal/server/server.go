// Package server exposes pronunciation analysis over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuispeak/internal/analysis"
	"github.com/verte-zerg/tuispeak/internal/logging"
	"github.com/verte-zerg/tuispeak/internal/model"
	"github.com/verte-zerg/tuispeak/internal/observability/metrics"
	"github.com/verte-zerg/tuispeak/internal/phonemes"
)

const (
	defaultAddr         = ":8080"
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
	shutdownTimeout     = 10 * time.Second
	publishTimeout      = 5 * time.Second
	maxBodyBytes        = 1 << 20
)

// Publisher receives completed analyses.
type Publisher interface {
	PublishAnalysis(ctx context.Context, result model.AnalysisResult) error
}

// Config holds HTTP server settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// DefaultText is analyzed when a request omits the text.
	DefaultText string
}

// Server serves the analysis API.
type Server struct {
	cfg       Config
	analyzer  *analysis.Analyzer
	phonemes  phonemes.Source
	publisher Publisher
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	http      *http.Server
	pending   sync.WaitGroup
}

// New builds a server. publisher may be nil.
func New(cfg Config, analyzer *analysis.Analyzer, phonemeSource phonemes.Source, publisher Publisher) *Server {
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.DefaultText == "" {
		cfg.DefaultText = phonemes.DefaultText
	}
	// The write deadline has to outlast the artificial analysis delay.
	if floor := analyzer.Delay() + time.Second; cfg.WriteTimeout < floor {
		cfg.WriteTimeout = floor
	}
	s := &Server{
		cfg:       cfg,
		analyzer:  analyzer,
		phonemes:  phonemeSource,
		publisher: publisher,
		metrics:   metrics.DefaultMetrics,
		logger:    logging.WithComponent("server"),
	}
	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler constructs the HTTP router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/phonemes", s.handlePhonemes)
	})

	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("Starting HTTP server")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.http.Shutdown(shutdownCtx)
	s.pending.Wait()
	if err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = statusClientClosed
			}
			s.metrics.RecordHTTPRequest(route, strconv.Itoa(status))
			s.logger.Info().
				Str("requestId", requestID(r)).
				Str("method", r.Method).
				Str("route", route).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("latency", time.Since(start)).
				Msg("HTTP request")
		}()
		next.ServeHTTP(ww, r)
	})
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
