package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"spese-forecast/internal/cli"
	apphttp "spese-forecast/internal/http"
	"spese-forecast/internal/log"
	"spese-forecast/internal/services"
	"spese-forecast/internal/worker"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentApp)

	predictor, err := services.LoadPredictor(cfg.ModelPath)
	if err != nil {
		fields := log.NewFields()
		fields[log.FieldModelPath] = cfg.ModelPath
		log.NewStructuredLogger(logger).LogError(context.Background(), "Failed to load model", err,
			log.ComponentArtifact, log.OpLoad, fields)
		return 1
	}
	if m, ok := predictor.Model(); ok {
		logger.Info("Model loaded",
			log.FieldModelPath, cfg.ModelPath,
			log.FieldSlope, m.Slope,
			log.FieldIntercept, m.Intercept)
	}

	ctx, stop := cli.GracefulShutdown(logger)
	defer stop()
	ctx = log.WithLogger(ctx, logger)

	srv := apphttp.NewServer(cfg.Addr(), predictor, logger)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting forecast server", "port", cfg.Port, log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		return nil
	})

	amqpClient, err := cli.ConnectAMQP(cfg)
	if err != nil {
		logger.Warn("AMQP unavailable, model hot reload disabled", log.FieldError, err)
	} else if amqpClient != nil {
		defer amqpClient.Close()
		reloader := worker.NewReloadWorker(predictor, amqpClient)
		g.Go(func() error {
			// Losing the broker disables hot reload but keeps predictions serving.
			if err := reloader.Run(log.WithLogger(gctx, logger)); err != nil {
				logger.Error("Model reload worker stopped", log.FieldError, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err)
		return 1
	}
	logger.Info("Server stopped gracefully")
	return 0
}
