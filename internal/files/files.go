// Package files stores uploaded avatar images, either in an S3-compatible
// bucket or in a local directory.
package files

import (
	"context"
	"errors"
	"io"

	"github.com/MKhiriev/go-study-keeper/internal/config"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
)

// ErrInvalidKey is returned for keys that are empty or escape the store root.
var ErrInvalidKey = errors.New("invalid file key")

// Storage uploads a file under key and returns the URL it is served from.
type Storage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// New returns an S3 storage when cfg.S3.Bucket is set and a local one
// otherwise.
func New(ctx context.Context, cfg config.Files, log *logger.Logger) (Storage, error) {
	if cfg.S3.Bucket == "" {
		log.Info().Str("dir", cfg.Dir).Msg("storing avatars on the local file system")
		return NewLocal(cfg.Dir, LocalURLPrefix)
	}
	return NewS3(ctx, cfg.S3)
}
