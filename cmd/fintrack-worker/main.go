package main

import (
	"context"
	"errors"
	"os"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/log"
	"fintrack/internal/worker"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig()

	if !cfg.AMQPEnabled() {
		logger.Error("AMQP_URL is required for the activity worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	activity := worker.NewActivityWorker(logger)

	ctx, cancel := cli.ShutdownContext(logger)
	defer cancel()

	logger.Info("Starting fintrack-worker",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
		"report_interval", cfg.WorkerReportInterval.String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeWithRetry(gctx, activity.HandleEntryRecorded)
	})
	g.Go(func() error {
		return activity.RunReporter(gctx, cfg.WorkerReportInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
