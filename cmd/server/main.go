package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-study-keeper/internal/config"
	"github.com/MKhiriev/go-study-keeper/internal/files"
	"github.com/MKhiriev/go-study-keeper/internal/handler"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/mailer"
	"github.com/MKhiriev/go-study-keeper/internal/server"
	"github.com/MKhiriev/go-study-keeper/internal/service"
	"github.com/MKhiriev/go-study-keeper/internal/store"
	"github.com/MKhiriev/go-study-keeper/internal/workers"
	"github.com/MKhiriev/go-study-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	log := logger.NewLogger("go-study-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("error setting log level")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	fileStorage, err := files.New(ctx, cfg.Storage.Files, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating file storage")
	}

	services, err := service.NewServices(storages, fileStorage, mailer.New(cfg.Mail, log), cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}
	defer services.Sessions.Close()

	// avatars in a bucket are served by the bucket itself
	filesDir := cfg.Storage.Files.Dir
	if cfg.Storage.Files.S3.Bucket != "" {
		filesDir = ""
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, filesDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, workers.NewWorkers(services.Sessions, cfg.Workers, log), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}
