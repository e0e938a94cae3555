package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-study-keeper/internal/adapter"
	"github.com/MKhiriev/go-study-keeper/internal/config"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/models"
)

var errNoCredentials = errors.New("client e-mail and password are required")

type App struct {
	server   adapter.ServerAdapter
	renderer Renderer
	cfg      *config.ClientConfig
	out      io.Writer
	logger   *logger.Logger
}

func NewApp(server adapter.ServerAdapter, renderer Renderer, cfg *config.ClientConfig, out io.Writer, logger *logger.Logger) (*App, error) {
	if cfg.Email == "" || cfg.Password == "" {
		return nil, errNoCredentials
	}
	return &App{server: server, renderer: renderer, cfg: cfg, out: out, logger: logger}, nil
}

// Run signs in and shows the dashboard: once when no refresh interval is
// configured, otherwise until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if info, err := a.server.Version(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("server version unavailable")
	} else {
		a.logger.Debug().Str("version", info.Version).Str("commit", info.Commit).Msg("connected to server")
	}

	err := a.server.Login(ctx, models.User{Email: a.cfg.Email, Password: a.cfg.Password})
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	if a.cfg.RefreshInterval <= 0 {
		return a.renderer.Print(ctx, a.out)
	}
	return a.renderer.Watch(ctx, a.cfg.RefreshInterval)
}
