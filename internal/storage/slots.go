package storage

import (
	"context"
	"errors"
	"fmt"

	"canvasboard/internal/config"
)

// ErrUnknownDriver is returned by Open for an unsupported storage driver.
var ErrUnknownDriver = errors.New("storage: unknown driver")

// Slots is a string key/value store holding one serialized canvas per key.
type Slots interface {
	// Get returns the payload stored under key. ok is false when the key
	// has never been written or was deleted.
	Get(ctx context.Context, key string) (payload string, ok bool, err error)
	// Set writes payload under key, replacing any previous value.
	Set(ctx context.Context, key, payload string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Backend is a Slots implementation that holds external resources.
type Backend interface {
	Slots
	Close() error
}

// Open connects the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemorySlots(), nil
	case "sqlite", "postgres", "mysql":
		db, err := New(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return NewSQLSlots(db), nil
	case "mongo":
		m, err := OpenMongoSlots(ctx, cfg.DSN, cfg.Database)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
