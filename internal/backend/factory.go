package backend

import (
	"context"
	"fmt"

	"ledger/internal/log"
	"ledger/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case JSONBackend:
		return f.createJSONBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createJSONBackend(config Config) (*BackendResult, error) {
	file := storage.NewJSONFile(config.Path)

	f.logger.With(log.FieldBackend, config.Type.String()).Debug("Initialized JSON backend", log.FieldPath, config.Path)

	return &BackendResult{
		Persister: file,
		Cleanup:   file.Close,
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	db, err := storage.NewSQLite(ctx, config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite backend: %w", err)
	}

	f.logger.With(log.FieldBackend, config.Type.String()).Debug("Initialized SQLite backend", log.FieldPath, config.Path)

	return &BackendResult{
		Persister: db,
		Cleanup:   db.Close,
	}, nil
}
