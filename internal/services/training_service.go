package services

import (
	"context"
	"fmt"

	"spese-forecast/internal/amqp"
	"spese-forecast/internal/artifact"
	"spese-forecast/internal/core"
	"spese-forecast/internal/log"
	"spese-forecast/internal/regression"
	ports "spese-forecast/internal/sheets"
)

// ModelPublisher announces freshly saved models.
type ModelPublisher interface {
	PublishModelTrained(ctx context.Context, msg *amqp.ModelTrainedMessage) error
}

// TrainingService reads the dataset, fits the model, saves the artifact and
// notifies subscribers.
type TrainingService struct {
	source    ports.ObservationSource
	modelPath string
	holdout   float64
	publisher ModelPublisher
}

// NewTrainingService wires a training run. publisher may be nil.
func NewTrainingService(source ports.ObservationSource, modelPath string, holdout float64, publisher ModelPublisher) *TrainingService {
	return &TrainingService{
		source:    source,
		modelPath: modelPath,
		holdout:   holdout,
		publisher: publisher,
	}
}

// Run performs one training run. The artifact is written only when fitting
// succeeds; a failed publish is logged and does not fail the run.
func (s *TrainingService) Run(ctx context.Context) (regression.Result, error) {
	logger := log.FromContext(ctx)

	obs, err := s.source.Observations(ctx)
	if err != nil {
		return regression.Result{}, fmt.Errorf("load observations: %w", err)
	}
	core.SortObservations(obs)
	logger.InfoContext(ctx, "Loaded training data", "rows", len(obs))

	res, err := regression.TrainObservations(obs, s.holdout)
	if err != nil {
		return regression.Result{}, fmt.Errorf("train model: %w", err)
	}

	if err := artifact.Save(s.modelPath, res.Model); err != nil {
		return regression.Result{}, err
	}

	log.NewStructuredLogger(logger).LogModelTrained(ctx,
		res.Model.Slope, res.Model.Intercept, res.MSE, res.TrainRows, res.TestRows, s.modelPath)

	if s.publisher == nil {
		logger.DebugContext(ctx, "AMQP publisher not configured, skipping model trained message")
		return res, nil
	}
	msg := amqp.NewModelTrainedMessage(s.modelPath, res.Model.Slope, res.Model.Intercept, res.MSE, res.TrainRows, res.TestRows)
	if err := s.publisher.PublishModelTrained(ctx, msg); err != nil {
		log.NewStructuredLogger(logger).LogError(ctx, "Failed to publish model trained message", err,
			log.ComponentAMQP, log.OpPublish, log.NewFields())
	}

	return res, nil
}
