package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jaekwang-park/todos/internal/config"
	"github.com/jaekwang-park/todos/internal/middleware"
)

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	name       string
}

// NewServer wraps router in the middleware chain:
// recovery -> request id -> logging -> metrics -> rate limit -> auth -> router.
// Rate limiting and auth are only applied when configured.
func NewServer(cfg config.Config, logger *zap.Logger, router http.Handler) (*Server, error) {
	chain := router
	if cfg.Auth.Enabled() {
		auth, err := middleware.NewAuth(cfg.Auth.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to create auth middleware: %w", err)
		}
		chain = auth.Middleware(chain)
	}
	if cfg.RateLimit.RPS > 0 {
		chain = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger).Middleware(chain)
	}
	chain = middleware.Metrics(chain)
	chain = middleware.Logging(logger)(chain)
	chain = middleware.RequestID(chain)
	chain = middleware.Recovery(logger)(chain)

	return newServer("api", cfg.ServerPort, logger, chain), nil
}

// NewMetricsServer exposes the default prometheus registry on /metrics.
func NewMetricsServer(port string, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return newServer("metrics", port, logger, mux)
}

func newServer(name, port string, logger *zap.Logger, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger.With(zap.String("server", name)),
		name:   name,
	}
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server: %w", s.name, err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
