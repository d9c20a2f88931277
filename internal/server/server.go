// Package server exposes the classifier over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nethalo/sqlclass/internal/cache"
	"github.com/nethalo/sqlclass/internal/classifier"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	// DefaultListen is the address served when none is configured.
	DefaultListen = "127.0.0.1:8080"

	// maxBodyBytes bounds request bodies. It is above the MySQL
	// max_allowed_packet default.
	maxBodyBytes = 64 << 20

	connTimeout     = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server answers classification requests.
type Server struct {
	classifier *classifier.Classifier
	cache      *cache.Cache
	registry   *prometheus.Registry
	log        zerolog.Logger
}

// New returns a Server. Classifications of statement text go through cache;
// raw packets are classified by c. registry is served on /metrics.
func New(c *classifier.Classifier, records *cache.Cache, registry *prometheus.Registry, log zerolog.Logger) *Server {
	return &Server{
		classifier: c,
		cache:      records,
		registry:   registry,
		log:        log,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer, s.accessLog)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))

	r.Route("/classify", func(r chi.Router) {
		r.Post("/", s.handleClassify)
		r.Post("/batch", s.handleClassifyBatch)
		r.Post("/packet", s.handleClassifyPacket)
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hsrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: connTimeout,
		IdleTimeout:       connTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")
		errCh <- hsrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving HTTP: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hsrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving HTTP: %w", err)
	}
	s.log.Info().Msg("HTTP server stopped")
	return nil
}

// accessLog logs every request once it has been answered.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		ev := s.log.Debug()
		if ww.Status() >= http.StatusInternalServerError {
			ev = s.log.Warn()
		}
		ev.Int("status", ww.Status()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("ip", r.RemoteAddr).
			Dur("latency", time.Since(start)).
			Msg("HTTP request")
	})
}
