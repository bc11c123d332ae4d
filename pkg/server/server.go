package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/modules"
	"github.com/vango-dev/reconcile/pkg/patch"
)

// Server is the inspection server.
type Server struct {
	config   *ServerConfig
	router   chi.Router
	upgrader websocket.Upgrader
	sessions *SessionManager

	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a Server. Unset config fields take their defaults; unknown
// module names are rejected.
func New(config *ServerConfig) (*Server, error) {
	config = config.withDefaults()
	if _, err := modules.ByName(nil, config.Modules...); err != nil {
		return nil, err
	}

	logger := config.Logger.With("component", "server")
	s := &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		sessions: newSessionManager(config.Metrics, logger),
		logger:   logger,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Post("/patch", s.HandlePatch)
	r.Get("/ws", s.HandleWebSocket)
	if s.config.Metrics != nil {
		r.Method(http.MethodGet, s.config.MetricsPath,
			promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the session manager.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// newEngine builds an engine over arena with the configured modules,
// metrics and tracer. subscribers are added after the metrics collector.
func (s *Server) newEngine(arena *host.Arena, logger *slog.Logger, subscribers ...any) (*patch.Engine, error) {
	appliers, err := modules.ByName(arena, s.config.Modules...)
	if err != nil {
		return nil, err
	}
	opts := []patch.Option{
		patch.WithModules(appliers...),
		patch.WithLogger(logger),
	}
	if s.config.Tracer != nil {
		opts = append(opts, patch.WithTracer(s.config.Tracer))
	}
	if s.config.Metrics != nil {
		opts = append(opts, patch.WithHooks(s.config.Metrics), patch.WithObserver(s.config.Metrics))
	}
	if len(subscribers) > 0 {
		opts = append(opts, patch.WithHooks(subscribers...))
	}
	return patch.New(arena, opts...), nil
}

// Run starts the server and blocks until ctx is done, an interrupt
// arrives or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-shutdown:
	case <-ctx.Done():
	}
	s.logger.Info("shutting down...")
	return s.Shutdown(context.Background())
}

// Shutdown closes every session and stops the HTTP server within the
// configured window.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.sessions.Shutdown()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
