package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage persists uploaded images under a flat namespace of sanitized
// filenames. Saving an existing name overwrites it.
type Storage interface {
	// Save stores the content of reader under name
	Save(ctx context.Context, name string, reader io.Reader, contentType string) error

	// Open returns the stored content of name
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// URL is where clients can fetch name
	URL(name string) string
}

type Config struct {
	Type      string // local, s3
	BasePath  string // upload directory for local storage
	BaseURL   string // public URL base
	Bucket    string // for S3
	Region    string // for S3
	AccessKey string // for S3
	SecretKey string // for S3
	Endpoint  string // for S3-compatible services
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
