package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"ReviewAnalyzer/internal/app"
	"ReviewAnalyzer/internal/config"
	"ReviewAnalyzer/internal/logging"
)

func main() {
	once := flag.Bool("once", false, "process a single batch now and exit")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once || cfg.Scheduler.CronExpression == "" {
		if err := application.Run(ctx); err != nil {
			logger.Error("batch failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := application.RunScheduled(ctx); err != nil {
		logger.Error("scheduler stopped", "error", err)
		os.Exit(1)
	}
}
