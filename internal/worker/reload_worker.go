package worker

import (
	"context"
	"errors"
	"fmt"

	"spese-forecast/internal/amqp"
	"spese-forecast/internal/log"
)

type (
	// ModelReloader swaps the served model for the artifact at path.
	ModelReloader interface {
		Reload(ctx context.Context, path string) error
		Path() string
	}

	// ModelTrainedConsumer delivers model-trained notifications until ctx ends.
	ModelTrainedConsumer interface {
		ConsumeModelTrained(ctx context.Context, handler func(context.Context, *amqp.ModelTrainedMessage) error) error
	}
)

// ReloadWorker reloads the predictor whenever a new model is announced.
type ReloadWorker struct {
	reloader ModelReloader
	consumer ModelTrainedConsumer
}

func NewReloadWorker(reloader ModelReloader, consumer ModelTrainedConsumer) *ReloadWorker {
	return &ReloadWorker{
		reloader: reloader,
		consumer: consumer,
	}
}

// Run consumes notifications until ctx is cancelled. Cancellation is not an error.
func (w *ReloadWorker) Run(ctx context.Context) error {
	logger := log.FromContext(ctx).WithComponent(log.ComponentWorker)
	logger.InfoContext(ctx, "Model reload worker started")

	err := w.consumer.ConsumeModelTrained(ctx, w.HandleModelTrained)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		logger.InfoContext(ctx, "Model reload worker stopped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("consume model trained messages: %w", err)
	}
	return nil
}

// HandleModelTrained reloads the model named by msg. A failed reload leaves
// the current model serving and is reported to the consumer.
func (w *ReloadWorker) HandleModelTrained(ctx context.Context, msg *amqp.ModelTrainedMessage) error {
	logger := log.FromContext(ctx).WithComponent(log.ComponentWorker)
	logger.InfoContext(ctx, "Processing model trained message",
		log.FieldModelPath, msg.ModelPath,
		log.FieldTrainRows, msg.TrainRows,
		log.FieldTestRows, msg.TestRows)

	if err := w.reloader.Reload(ctx, msg.ModelPath); err != nil {
		fields := log.NewFields()
		fields[log.FieldModelPath] = msg.ModelPath
		fields["current_model_path"] = w.reloader.Path()
		log.NewStructuredLogger(logger).LogError(ctx, "Model reload failed, keeping current model", err,
			log.ComponentWorker, log.OpReload, fields)
		return err
	}
	return nil
}
