package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ReviewAnalyzer/internal/config"
	"ReviewAnalyzer/internal/domain"
	"ReviewAnalyzer/internal/ports"
)

// StrategySource implements ReviewSource via registered fetch adapters.
type StrategySource struct {
	registry *Registry
	sources  []config.SourceConfig
	logger   *slog.Logger
}

var _ ports.ReviewSource = (*StrategySource)(nil)

// NewStrategySource wires the adapter registry with config-defined sources.
func NewStrategySource(reg *Registry, sources []config.SourceConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sources:  sources,
		logger:   log,
	}
}

// FetchBatch iterates over configured sources and executes their adapters.
func (s *StrategySource) FetchBatch(ctx context.Context, day time.Time) ([]domain.RawReview, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("source registry is not configured")
	}

	s.debug("fetch batch", "sources", len(s.sources), "day", day.Format("2006-01-02"))

	var aggregated []domain.RawReview
	for _, src := range s.sources {
		s.debug("process source", "source", src.Name, "adapter", src.Adapter, "apps", len(src.Apps))
		adapter, err := s.registry.Resolve(src.Adapter)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}

		req := Request{
			Day:        day,
			SourceName: src.Name,
			Options:    src.Options,
			Apps:       toAdapterApps(src.Apps),
		}

		results, err := adapter.Fetch(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("fetch source %s: %w", src.Name, err)
		}

		for i := range results {
			if results[i].Source == "" {
				results[i].Source = src.Name
			}
		}
		s.debug("source produced reviews", "source", src.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	s.debug("strategy source done", "total_reviews", len(aggregated))
	return aggregated, nil
}

func toAdapterApps(cfg []config.AppConfig) []App {
	apps := make([]App, 0, len(cfg))
	for _, app := range cfg {
		apps = append(apps, App{
			EntityID: app.EntityID,
			URL:      app.URL,
		})
	}
	return apps
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
