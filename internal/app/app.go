package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"ReviewAnalyzer/internal/config"
	"ReviewAnalyzer/internal/infrastructure/csvsource"
	"ReviewAnalyzer/internal/infrastructure/playstore"
	"ReviewAnalyzer/internal/infrastructure/report"
	"ReviewAnalyzer/internal/infrastructure/scheduler"
	"ReviewAnalyzer/internal/infrastructure/storage"
	"ReviewAnalyzer/internal/logging"
	"ReviewAnalyzer/internal/ports"
	"ReviewAnalyzer/internal/sentiment"
	"ReviewAnalyzer/internal/source"
	"ReviewAnalyzer/internal/themes"
	"ReviewAnalyzer/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	db       *sql.DB
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := source.NewRegistry()
	registry.Register(playstore.NewScanner(nil))
	registry.Register(csvsource.NewReader(baseLogger.With("component", "source.csv")))

	src := source.NewStrategySource(registry, cfg.Sources, baseLogger.With("component", "source"))

	var db *sql.DB
	var repository ports.ReviewRepository
	if cfg.Database.DSN != "" {
		opened, err := storage.Open(cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		db = opened

		if cfg.Database.MigrationsPath != "" {
			if err := storage.RunMigrations(db, cfg.Database.MigrationsPath, baseLogger.With("component", "migrations")); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("migrate database: %w", err)
			}
		}

		repository = storage.NewPostgresRepository(db, displayNames(cfg.Entities))
	}

	var reporter ports.ReportWriter
	if cfg.Reports.Dir != "" {
		reporter = report.NewCSVWriter(cfg.Reports.Dir)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:         src,
		Repository:     repository,
		Reporter:       reporter,
		Strategy:       buildStrategy(cfg.Sentiment),
		Thresholds:     buildThresholds(cfg.Sentiment),
		Vocabularies:   buildVocabularies(cfg.Entities),
		PersistTimeout: cfg.Database.Timeout(),
		Logger:         baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline, db: db}, nil
}

// Run performs a single batch execution for the current day.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	now := time.Now().In(a.cfg.Scheduler.Location())
	_, err := a.pipeline.ProcessDay(ctx, now)
	return err
}

// RunScheduled starts the cron loop and blocks until ctx is cancelled.
func (a *Application) RunScheduled(ctx context.Context) error {
	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	runner := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))

	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return runner.Stop(stopCtx)
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func buildStrategy(cfg config.SentimentConfig) sentiment.Strategy {
	if cfg.Strategy == "remote" && cfg.Endpoint != "" {
		return sentiment.NewRemote(cfg.Endpoint, cfg.APIKey, nil)
	}
	return sentiment.NewLexicon()
}

func buildThresholds(cfg config.SentimentConfig) sentiment.Thresholds {
	th := sentiment.DefaultThresholds()
	if cfg.PositiveThreshold != nil {
		th.Positive = *cfg.PositiveThreshold
	}
	if cfg.NegativeThreshold != nil {
		th.Negative = *cfg.NegativeThreshold
	}
	return th
}

func buildVocabularies(entities []config.EntityConfig) themes.Table {
	table := make(themes.Table, len(entities))
	for _, entity := range entities {
		vocab := themes.Vocabulary{Themes: make([]themes.Theme, 0, len(entity.Themes))}
		for _, theme := range entity.Themes {
			vocab.Themes = append(vocab.Themes, themes.Theme{Tag: theme.Tag, Triggers: theme.Triggers})
		}
		table[entity.ID] = vocab
	}
	return table
}

func displayNames(entities []config.EntityConfig) map[string]string {
	names := make(map[string]string, len(entities))
	for _, entity := range entities {
		names[entity.ID] = entity.DisplayName
	}
	return names
}
