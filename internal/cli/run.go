package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"ledger/internal/log"
)

// Run is the whole command-line program. It returns the exit status.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	dataPath := fs.String("data", "", "ledger file, overrides LEDGER_DATA_PATH")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	LoadEnvFile()
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		lc := log.DefaultConfig()
		lc.Component = log.ComponentCLI
		lc.Output = stderr
		log.New(lc).Error("Invalid configuration",
			log.FieldOperation, log.OpStartup,
			log.FieldErrorType, log.ErrorTypeConfiguration,
			log.FieldError, err)
		return 2
	}
	logger := SetupLogger(cfg, stderr)

	svc, err := OpenService(ctx, cfg, *dataPath, logger)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return ExitCode(err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("Failed to close ledger", log.FieldError, err)
		}
	}()

	app := &App{
		Service:    svc,
		ExportPath: cfg.ExportPath,
		Out:        stdout,
		Err:        stderr,
	}
	if err := app.Execute(ctx, fs.Args()); err != nil {
		if !errors.Is(err, ErrUsage) || err.Error() != ErrUsage.Error() {
			fmt.Fprintln(stderr, "error:", err)
		}
		return ExitCode(err)
	}
	return 0
}
