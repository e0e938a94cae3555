package server

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MKhiriev/go-study-keeper/internal/config"
	"github.com/MKhiriev/go-study-keeper/internal/handler"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
)

type server struct {
	httpServer *httpServer
	background Background
	logger     *logger.Logger

	shutdownOnce sync.Once
	stopped      chan struct{}
}

// NewServer builds the HTTP server for handlers. background may be nil.
func NewServer(handlers *handler.Handlers, background Background, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil || cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	return &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		background: background,
		logger:     logger,
		stopped:    make(chan struct{}),
	}, nil
}

func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	s.run(ctx, s.httpServer.RunServer)
}

// Shutdown stops the HTTP server and the background workers. It is safe to
// call more than once.
func (s *server) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.httpServer.Shutdown()
		if s.background != nil {
			s.background.Stop()
		}
		close(s.stopped)
	})
}

// run starts the workers and serve, then blocks until ctx is done or
// Shutdown is called.
func (s *server) run(ctx context.Context, serve func()) {
	if s.background != nil {
		s.background.Run(ctx)
	}

	s.logger.Info().Msg("Launching HTTP server")
	go serve()

	select {
	case <-ctx.Done():
		s.Shutdown()
	case <-s.stopped:
	}

	s.logger.Info().Msg("server Shutdown gracefully")
}
