package service

import (
	"github.com/MKhiriev/go-study-keeper/internal/config"
	"github.com/MKhiriev/go-study-keeper/internal/gateway"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/store"
	"github.com/MKhiriev/go-study-keeper/internal/validators"
	"github.com/MKhiriev/go-study-keeper/models"
)

type Services struct {
	AuthService    AuthService
	AppInfoService AppInfoService
	Sessions       *Sessions
	// Threshold is the configured passing average.
	Threshold float64
}

func NewServices(storages *store.Storages, files gateway.FileStorage, mailer Mailer, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	validator := validators.NewStudyValidator(nil)
	auth := NewAuthService(storages.UserRepository, validator, mailer, *cfg, logger)

	appInfo, err := NewAppInfoService(cfg.App, buildInfo, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:    auth,
		AppInfoService: appInfo,
		Sessions: NewSessions(SessionDeps{
			Store:     storages.Documents,
			Feed:      storages.Feed,
			Auth:      auth,
			Files:     files,
			Validator: validator,
			Threshold: cfg.App.PassingThreshold,
			Log:       logger,
		}),
		Threshold: cfg.App.PassingThreshold,
	}, nil
}
