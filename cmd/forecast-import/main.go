package main

import (
	"os"

	"spese-forecast/internal/cli"
	"spese-forecast/internal/core"
	"spese-forecast/internal/log"
	"spese-forecast/internal/services"
	"spese-forecast/internal/sheets/memory"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentImporter)
	ctx, stop := cli.GracefulShutdown(logger)
	defer stop()
	ctx = log.WithLogger(ctx, logger)

	expenses, err := readExpenses(cfg.ImportFile)
	if err != nil {
		log.NewStructuredLogger(logger).LogError(ctx, "Failed to read import file", err,
			log.ComponentImporter, log.OpParse, log.NewFields())
		return 1
	}

	writer, component, closeWriter, err := cli.OpenWriter(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open expense store", log.FieldError, err, log.FieldSource, cfg.DataSource)
		return 1
	}
	defer closeWriter()

	logger.Info("Starting import",
		log.FieldSource, cfg.DataSource,
		"file", cfg.ImportFile,
		"rows", len(expenses))

	res, err := services.NewImportService(writer, component).Run(ctx, expenses)
	if err != nil {
		logger.Error("Import interrupted", log.FieldError, err, "imported", res.Imported)
		return 1
	}
	if res.Failed > 0 {
		return 1
	}
	return 0
}

func readExpenses(path string) ([]core.Expense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return memory.ReadExpensesCSV(f)
}
