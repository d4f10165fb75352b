// Package storage persists uploaded profile images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/Bidon15/piedpiper/internal/config"
)

// ErrInvalidName is returned when an object name cannot be made safe.
var ErrInvalidName = errors.New("invalid object name")

// ImageStore stores an image and returns the path or URL it can be read
// back from. size is the body length in bytes, or -1 when unknown.
type ImageStore interface {
	Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error)
}

// New builds the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (ImageStore, error) {
	switch cfg.Driver {
	case "local":
		return NewLocalStore(cfg.LocalRoot)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectName turns a client-supplied name into a flat "<name>.jpg" key.
// Directory components and unsafe characters are stripped.
func ObjectName(name string) (string, error) {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.TrimSuffix(base, ".jpg")
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "", ErrInvalidName
	}
	return base + ".jpg", nil
}
