package ports

import (
	"context"
	"time"

	"ReviewAnalyzer/internal/domain"
)

// ReviewSource supplies raw review records from upstream providers.
type ReviewSource interface {
	FetchBatch(ctx context.Context, day time.Time) ([]domain.RawReview, error)
}

// ReviewRepository persists one processed batch. SaveBatch must be atomic:
// either every row of the batch becomes visible or none do.
type ReviewRepository interface {
	SaveBatch(ctx context.Context, reviews []domain.ClassifiedReview, summaries map[string]domain.EntitySummary) error
}

// ReportWriter exports batch results for the downstream reporting layer.
type ReportWriter interface {
	WriteBatch(report domain.BatchReport, reviews []domain.ClassifiedReview) error
}

// Scheduler controls when pipeline batches execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
