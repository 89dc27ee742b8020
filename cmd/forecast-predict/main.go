package main

import (
	"context"
	"fmt"
	"os"

	"spese-forecast/internal/cli"
	"spese-forecast/internal/log"
	"spese-forecast/internal/services"
)

// nextMonth is the first month after the five-month sample dataset.
const nextMonth = 6

func main() {
	os.Exit(run())
}

func run() int {
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentPredictor)
	ctx := log.WithLogger(context.Background(), logger)

	predictor, err := services.LoadPredictor(cfg.ModelPath)
	if err != nil {
		fields := log.NewFields()
		fields[log.FieldModelPath] = cfg.ModelPath
		log.NewStructuredLogger(logger).LogError(ctx, "Failed to load model", err,
			log.ComponentArtifact, log.OpLoad, fields)
		return 1
	}

	predicted, err := predictor.Predict(ctx, nextMonth)
	if err != nil {
		logger.Error("Prediction failed", log.FieldError, err)
		return 1
	}

	fmt.Printf("Predicted expense for month %d: %.2f\n", nextMonth, predicted)
	return 0
}
