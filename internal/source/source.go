package source

import (
	"context"
	"fmt"
	"time"

	"ReviewAnalyzer/internal/domain"
)

// App binds a tracked entity to its location within a source: a review-page
// URL for store adapters, a file path for file-based ones.
type App struct {
	EntityID string
	URL      string
}

// Request carries all parameters required to pull one source's reviews.
type Request struct {
	Day        time.Time
	SourceName string
	Apps       []App
	Options    map[string]string
}

// Adapter is a single fetch strategy (Play-store HTML, raw CSV, ...).
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, req Request) ([]domain.RawReview, error)
}

// Registry keeps a mapping from adapter names to their implementations.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: map[string]Adapter{}}
}

// Register adds or replaces an adapter implementation.
func (r *Registry) Register(adapter Adapter) {
	if r.adapters == nil {
		r.adapters = map[string]Adapter{}
	}
	r.adapters[adapter.Name()] = adapter
}

// Resolve returns an adapter by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Adapter, error) {
	if adapter, ok := r.adapters[name]; ok {
		return adapter, nil
	}
	return nil, fmt.Errorf("source adapter %s is not registered", name)
}
