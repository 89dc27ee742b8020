package main

import (
	"context"
	"os"

	"spese-forecast/internal/cli"
	"spese-forecast/internal/log"
	"spese-forecast/internal/services"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentTrainer)
	ctx := log.WithLogger(context.Background(), logger)

	source, closeSource, err := cli.OpenSource(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open data source", log.FieldError, err, log.FieldSource, cfg.DataSource)
		return 1
	}
	defer closeSource()

	var publisher services.ModelPublisher
	amqpClient, err := cli.ConnectAMQP(cfg)
	if err != nil {
		logger.Warn("AMQP unavailable, model trained message will not be published", log.FieldError, err)
	} else if amqpClient != nil {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	logger.Info("Starting training run",
		log.FieldSource, cfg.DataSource,
		log.FieldModelPath, cfg.ModelPath,
		"holdout", cfg.HoldoutFraction)

	trainer := services.NewTrainingService(source, cfg.ModelPath, cfg.HoldoutFraction, publisher)
	res, err := trainer.Run(ctx)
	if err != nil {
		logger.Error("Training failed", log.FieldError, err, log.FieldOperation, log.OpTrain)
		return 1
	}

	logger.Info("Mean squared error on held-out months",
		log.FieldMSE, res.MSE,
		log.FieldTestRows, res.TestRows)
	return 0
}
