// Package cli provides the command-line front end of the ledger and the
// initialization steps it shares: .env loading, config, logging and
// opening the store.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"ledger/internal/backend"
	"ledger/internal/config"
	"ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/storage"
)

// LoadEnvFile loads the .env file for local use.
// A missing file is fine; settings then come from the environment or defaults.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the application logger from cfg, writing to w,
// and installs it as the slog default.
func SetupLogger(cfg *config.Config, w io.Writer) *log.Logger {
	lc := log.DefaultConfig()
	lc.Level, _ = log.ParseLevel(cfg.LogLevel)
	lc.Format = cfg.LogFormat
	lc.Component = log.ComponentCLI
	if w != nil {
		lc.Output = w
	}
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// OpenService creates the configured persister, loads the saved ledger and
// returns a service ready for use. dataPath, when set, overrides the
// configured location.
func OpenService(ctx context.Context, cfg *config.Config, dataPath string, logger *log.Logger) (*services.LedgerService, error) {
	bcfg, err := backend.FromAppConfig(cfg, dataPath)
	if err != nil {
		return nil, err
	}

	if samePath(bcfg.Path, cfg.ExportPath) {
		return nil, fmt.Errorf("%w: export path %s is the data file", ErrPathConflict, cfg.ExportPath)
	}

	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", bcfg.Type, err)
	}

	svc := services.NewLedgerService(storage.NewStore(res.Persister), logger)
	if err := svc.Load(ctx); err != nil {
		if res.Cleanup != nil {
			res.Cleanup()
		}
		return nil, err
	}

	logger.Debug("Ledger opened",
		log.FieldOperation, log.OpStartup,
		log.FieldBackend, bcfg.Type.String(),
		log.FieldPath, bcfg.Path,
		log.FieldCount, len(svc.ListRecords()))
	return svc, nil
}
