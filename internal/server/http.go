package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/MKhiriev/go-study-keeper/internal/config"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type httpServer struct {
	server *http.Server
	// cancel ends the base context of every request, which closes open
	// event streams before the drain.
	cancel context.CancelFunc
	logger *logger.Logger
}

func newHTTPServer(handler http.Handler, cfg config.Server, logger *logger.Logger) *httpServer {
	baseCtx, cancel := context.WithCancel(context.Background())

	return &httpServer{
		server: &http.Server{
			Addr:    cfg.HTTPAddress,
			Handler: handler,
			// no WriteTimeout: /api/stream stays open
			ReadHeaderTimeout: cfg.RequestTimeout,
			ReadTimeout:       cfg.RequestTimeout,
			IdleTimeout:       2 * cfg.RequestTimeout,
			BaseContext:       func(net.Listener) context.Context { return baseCtx },
		},
		cancel: cancel,
		logger: logger,
	}
}

// Serve accepts connections on l until Shutdown.
func (h *httpServer) Serve(l net.Listener) error {
	h.logger.Info().Str("address", l.Addr().String()).Msg("HTTP server listening")
	if err := h.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Err(err).Str("func", "*httpServer.Serve").Msg("HTTP server stopped with error")
		return err
	}
	return nil
}

func (h *httpServer) RunServer() {
	l, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		h.logger.Err(err).Str("address", h.server.Addr).Msg("HTTP server listen failed")
		return
	}
	_ = h.Serve(l)
}

func (h *httpServer) Shutdown() {
	h.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		h.logger.Err(err).Str("func", "*httpServer.Shutdown").Msg("HTTP server shutdown failed")
	}
}
