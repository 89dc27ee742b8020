// Package cli provides common initialization shared by the forecast commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"spese-forecast/internal/amqp"
	"spese-forecast/internal/config"
	"spese-forecast/internal/log"
	ports "spese-forecast/internal/sheets"
	"spese-forecast/internal/sheets/google"
	"spese-forecast/internal/sheets/memory"
	"spese-forecast/internal/storage"
)

// SetupLogger builds the application logger from LOG_LEVEL and LOG_FORMAT
// and installs it as the slog default.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: component,
		Output:    os.Stdout,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads .env and the configuration, sets up logging
// and exits the process on validation failure.
func LoadAndValidateConfig(component string) (*config.Config, *log.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	logger := SetupLogger(cfg, component)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// OpenSource builds the observation source selected by DATA_SOURCE. The
// returned close function releases its resources and is never nil.
func OpenSource(ctx context.Context, cfg *config.Config) (ports.ObservationSource, func() error, error) {
	noop := func() error { return nil }

	switch cfg.DataSource {
	case config.SourceSample, "":
		return memory.Sample(), noop, nil
	case config.SourceCSV:
		store, err := memory.NewFromFile(cfg.DataFile)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case config.SourceSQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, noop, fmt.Errorf("init sqlite repository: %w", err)
		}
		return repo, repo.Close, nil
	case config.SourceSheets:
		client, err := google.New(ctx, google.Options{
			SpreadsheetID: cfg.GoogleSpreadsheetID,
			SheetName:     cfg.GoogleSheetName,
			Years:         cfg.GoogleSheetYears,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("init google sheets client: %w", err)
		}
		return client, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}
}

// OpenWriter builds the expense store that accepts imports for DATA_SOURCE,
// along with the component name used in its logs. Only the sqlite and sheets
// sources are writable.
func OpenWriter(ctx context.Context, cfg *config.Config) (ports.ExpenseWriter, string, func() error, error) {
	noop := func() error { return nil }

	switch cfg.DataSource {
	case config.SourceSQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, "", noop, fmt.Errorf("init sqlite repository: %w", err)
		}
		return repo, log.ComponentStorage, repo.Close, nil
	case config.SourceSheets:
		client, err := google.New(ctx, google.Options{
			SpreadsheetID: cfg.GoogleSpreadsheetID,
			SheetName:     cfg.GoogleSheetName,
			Years:         cfg.GoogleSheetYears,
		})
		if err != nil {
			return nil, "", noop, fmt.Errorf("init google sheets client: %w", err)
		}
		return client, log.ComponentSheets, noop, nil
	default:
		return nil, "", noop, fmt.Errorf("data source %q does not accept imports", cfg.DataSource)
	}
}

// ConnectAMQP dials the broker when AMQP_URL is set. It returns a nil client
// when messaging is disabled.
func ConnectAMQP(cfg *config.Config) (*amqp.Client, error) {
	if cfg.AMQPURL == "" {
		return nil, nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return nil, fmt.Errorf("connect AMQP: %w", err)
	}
	return client, nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
func GracefulShutdown(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
	}()
	return ctx, stop
}
