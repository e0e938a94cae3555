package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-study-keeper/internal/logger"
)

// LocalURLPrefix is the URL path the HTTP server serves the local directory
// under.
const LocalURLPrefix = "/files/"

// Local writes files below a directory.
type Local struct {
	dir       string
	urlPrefix string
}

// NewLocal creates dir if needed.
func NewLocal(dir, urlPrefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating files dir: %w", err)
	}
	return &Local{dir: dir, urlPrefix: urlPrefix}, nil
}

// Dir returns the root directory.
func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) Upload(ctx context.Context, key, _ string, body io.Reader, size int64) (string, error) {
	clean := path.Clean("/" + key)[1:]
	if key == "" || clean == "" || clean != key || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	dst := filepath.Join(l.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("error creating dir: %w", err)
	}

	// write to a temp file first so readers never see a partial image
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("error creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, io.LimitReader(body, size+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("error writing file: %w", err)
	}
	if n != size {
		return "", fmt.Errorf("error writing file: got %d bytes, want %d", n, size)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("error moving file: %w", err)
	}

	logger.FromContext(ctx).Debug().Str("key", clean).Int64("size", size).Msg("file stored")
	return l.urlPrefix + clean, nil
}
