package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-study-keeper/internal/config"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/models"
)

func TestNewAppInfoService_EmptyVersion_ReturnsError(t *testing.T) {
	svc, err := NewAppInfoService(config.App{}, models.NewAppBuildInfo("", "", ""), logger.Nop())

	assert.Nil(t, svc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVersionIsNotSpecified))
}

func TestGetAppVersion_ReturnsConfiguredVersion(t *testing.T) {
	build := models.NewAppBuildInfo("ignored", "2026-01-02", "abc123")
	svc, err := NewAppInfoService(config.App{Version: "3.1.4"}, build, logger.Nop())
	require.NoError(t, err)

	got := svc.GetAppVersion(context.Background())

	assert.Equal(t, models.VersionInfo{Version: "3.1.4", Date: "2026-01-02", Commit: "abc123"}, got)
}

func TestGetAppVersion_MissingBuildInfo(t *testing.T) {
	svc, err := NewAppInfoService(config.App{Version: "v1.2.3-beta+build.42"}, models.NewAppBuildInfo("", "", ""), logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // контекст не используется

	got := svc.GetAppVersion(ctx)
	assert.Equal(t, "v1.2.3-beta+build.42", got.Version)
	assert.Equal(t, "N/A", got.Date)
	assert.Equal(t, "N/A", got.Commit)
}
