package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yourorg/eztech-media/internal/config"
)

// ErrNotFound is returned by Get when the key has no object.
var ErrNotFound = errors.New("object not found")

// ObjectStore is one container on a remote (or embedded) object store.
// Implementations are long-lived and safe for concurrent use.
type ObjectStore interface {
	// EnsureContainer creates the container when it is missing. Idempotent.
	EnsureContainer(ctx context.Context) error
	// Put writes body under key and returns the status the store reported.
	// A confirmed create is normalised to http.StatusCreated.
	Put(ctx context.Context, key string, body []byte, contentType string) (int, error)
	// Get returns a reader for key or ErrNotFound.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	// DeleteIfExists reports whether an object was there to delete.
	DeleteIfExists(ctx context.Context, key string) (bool, error)
	// Walk calls fn for every key in the container until fn returns an error.
	Walk(ctx context.Context, fn func(key string) error) error
	Close() error
}

// Open builds the store selected by cfg.Driver from its connection string.
func Open(ctx context.Context, cfg config.Storage) (ObjectStore, error) {
	cs, err := ParseConnectionString(cfg.ConnectionString)
	if err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case "s3":
		return NewS3(ctx, cs, cfg.Container)
	case "badger":
		return NewBadger(cs, cfg.Container)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %q", cfg.Driver)
	}
}
