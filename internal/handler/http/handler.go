package http

import (
	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/service"
)

type Handler struct {
	services *service.Services

	// filesDir is served under /files/ when avatars are stored locally.
	filesDir string

	logger *logger.Logger
}

func NewHandler(services *service.Services, filesDir string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		filesDir: filesDir,
		logger:   logger,
	}
}
