package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ReviewAnalyzer/internal/aggregate"
	"ReviewAnalyzer/internal/domain"
	"ReviewAnalyzer/internal/normalize"
	"ReviewAnalyzer/internal/ports"
	"ReviewAnalyzer/internal/sentiment"
	"ReviewAnalyzer/internal/themes"
)

// State identifies the orchestrator's position in the batch lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateNormalizing State = "normalizing"
	StateScoring     State = "scoring"
	StateClassifying State = "classifying"
	StateAggregating State = "aggregating"
	StatePersisting  State = "persisting"
	StateAborted     State = "aborted"
)

// PipelineDeps wires adapters and configuration into the orchestrator.
type PipelineDeps struct {
	Source         ports.ReviewSource
	Repository     ports.ReviewRepository
	Reporter       ports.ReportWriter
	Strategy       sentiment.Strategy
	Thresholds     sentiment.Thresholds
	Vocabularies   themes.Table
	PersistTimeout time.Duration
	Logger         *slog.Logger
}

// Pipeline sequences one batch through normalize, score, classify, aggregate,
// and persist. Record-level errors are counted and skipped; only a failed
// persistence handoff aborts a batch. A Pipeline processes one batch at a
// time; run concurrent batches on separate Pipeline values.
type Pipeline struct {
	source         ports.ReviewSource
	repository     ports.ReviewRepository
	reporter       ports.ReportWriter
	strategy       sentiment.Strategy
	thresholds     sentiment.Thresholds
	vocabularies   themes.Table
	persistTimeout time.Duration
	logger         *slog.Logger

	state State
}

// Result pairs the batch report with the computed rows. The rows are
// returned even when persistence fails so the caller can retry the handoff.
type Result struct {
	Report  domain.BatchReport
	Reviews []domain.ClassifiedReview
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:         deps.Source,
		repository:     deps.Repository,
		reporter:       deps.Reporter,
		strategy:       deps.Strategy,
		thresholds:     deps.Thresholds,
		vocabularies:   deps.Vocabularies,
		persistTimeout: deps.PersistTimeout,
		logger:         deps.Logger,
		state:          StateIdle,
	}
}

// State reports where the last (or current) batch run got to.
func (p *Pipeline) State() State {
	return p.state
}

// ProcessDay fetches one day's batch from the source, processes it, and
// exports the report. A failed report export is logged, not fatal: the
// persisted batch is already safe.
func (p *Pipeline) ProcessDay(ctx context.Context, day time.Time) (Result, error) {
	if p.source == nil {
		return Result{}, fmt.Errorf("no review source configured")
	}

	raw, err := p.source.FetchBatch(ctx, day)
	if err != nil {
		return Result{}, fmt.Errorf("fetch batch: %w", err)
	}

	res, err := p.ProcessBatch(ctx, raw)
	if err != nil {
		return res, err
	}

	if p.reporter != nil {
		if wErr := p.reporter.WriteBatch(res.Report, res.Reviews); wErr != nil {
			p.warn("write report", "error", wErr)
		}
	}

	return res, nil
}

// ProcessBatch runs one raw batch through all stages and hands the result to
// the persistence backend as a single unit.
func (p *Pipeline) ProcessBatch(ctx context.Context, raw []domain.RawReview) (Result, error) {
	report := domain.BatchReport{RunAt: time.Now().UTC()}

	p.state = StateNormalizing
	normRes := normalize.Batch(raw)
	report.Malformed = len(normRes.Malformed)
	report.DuplicatesDropped = normRes.DuplicatesDropped
	for _, m := range normRes.Malformed {
		p.warn("record rejected", "position", m.Position, "reason", m.Reason)
	}

	p.state = StateScoring
	scored := make([]domain.ScoredReview, 0, len(normRes.Reviews))
	for _, rev := range normRes.Reviews {
		sr := domain.ScoredReview{NormalizedReview: rev, SentimentLabel: domain.SentimentNeutral}
		if p.strategy != nil {
			applied, err := sentiment.Apply(ctx, p.strategy, p.thresholds, rev)
			if err != nil {
				// A failed scoring never drops the record; it stays neutral.
				report.ScoringFailures++
				p.warn("scoring failed", "review_id", rev.ReviewID, "error", err)
			} else {
				sr = applied
			}
		}
		scored = append(scored, sr)
	}

	p.state = StateClassifying
	classified := make([]domain.ClassifiedReview, 0, len(scored))
	unconfigured := map[string]struct{}{}
	for _, sr := range scored {
		tags, err := p.vocabularies.Classify(sr)
		if err != nil {
			var ue *domain.UnconfiguredEntityError
			if !errors.As(err, &ue) {
				return Result{Report: report}, fmt.Errorf("classify review %s: %w", sr.ReviewID, err)
			}
			if _, seen := unconfigured[ue.EntityID]; !seen {
				unconfigured[ue.EntityID] = struct{}{}
				p.warn("entity has no vocabulary, passing reviews through", "entity", ue.EntityID)
			}
			report.Unconfigured++
			tags = []string{}
		}
		classified = append(classified, domain.ClassifiedReview{ScoredReview: sr, Themes: tags})
	}

	p.state = StateAggregating
	report.Accepted = len(classified)
	report.Summaries = aggregate.Summarize(classified)

	p.state = StatePersisting
	if p.repository != nil {
		if err := p.persist(ctx, classified, report.Summaries); err != nil {
			p.state = StateAborted
			report.Aborted = true
			p.warn("batch aborted", "error", err)
			return Result{Report: report, Reviews: classified}, &domain.PersistenceError{Err: err}
		}
	}

	p.state = StateIdle
	p.info("batch complete",
		"accepted", report.Accepted,
		"malformed", report.Malformed,
		"duplicates", report.DuplicatesDropped,
		"unconfigured", report.Unconfigured,
		"entities", len(report.Summaries),
	)

	return Result{Report: report, Reviews: classified}, nil
}

func (p *Pipeline) persist(ctx context.Context, reviews []domain.ClassifiedReview, summaries map[string]domain.EntitySummary) error {
	if p.persistTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.persistTimeout)
		defer cancel()
	}
	return p.repository.SaveBatch(ctx, reviews, summaries)
}

func (p *Pipeline) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
