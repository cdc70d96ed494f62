package sentiment

import (
	"context"
	"fmt"

	"ReviewAnalyzer/internal/domain"
)

// Strategy scores normalized review text in [-1, 1]. Sign is polarity,
// magnitude is confidence. Implementations must be deterministic for a fixed
// configuration.
type Strategy interface {
	Name() string
	Score(ctx context.Context, review domain.NormalizedReview) (float64, error)
}

// Thresholds hold the score band that separates the three labels. The band is
// configuration so strategies stay swappable without changing label semantics.
type Thresholds struct {
	Positive float64 // strictly above -> positive
	Negative float64 // strictly below -> negative
}

// DefaultThresholds is the standard ±0.05 neutral band.
func DefaultThresholds() Thresholds {
	return Thresholds{Positive: 0.05, Negative: -0.05}
}

// Label derives the sentiment label from a score. This is the only place the
// score-to-label mapping lives.
func (t Thresholds) Label(score float64) domain.SentimentLabel {
	switch {
	case score > t.Positive:
		return domain.SentimentPositive
	case score < t.Negative:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// Apply scores one review with the given strategy and attaches the label.
// Empty text is a valid edge case: zero score, neutral label, no error.
func Apply(ctx context.Context, s Strategy, t Thresholds, review domain.NormalizedReview) (domain.ScoredReview, error) {
	scored := domain.ScoredReview{NormalizedReview: review, SentimentLabel: domain.SentimentNeutral}

	if review.Text == "" {
		return scored, nil
	}

	score, err := s.Score(ctx, review)
	if err != nil {
		return domain.ScoredReview{}, fmt.Errorf("strategy %s: %w", s.Name(), err)
	}

	scored.SentimentScore = clamp(score)
	scored.SentimentLabel = t.Label(scored.SentimentScore)
	return scored, nil
}

func clamp(score float64) float64 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}
