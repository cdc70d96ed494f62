package domain

import "time"

// SentimentLabel is the polarity class derived from a sentiment score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// RawReview is a record exactly as a review source supplied it. PostedAt is
// kept textual until the normalizer canonicalizes it.
type RawReview struct {
	Text     string
	Rating   int
	PostedAt string
	EntityID string
	Source   string
}

// NormalizedReview is a cleaned, deduplicated review. ReviewID is the stable
// hash of (entity, text, date, source) used as the primary key downstream.
type NormalizedReview struct {
	ReviewID string
	EntityID string
	Text     string
	Rating   int
	PostedAt time.Time
	Source   string
}

// ScoredReview adds sentiment to a normalized review. The label is always
// derived from the score via the configured thresholds.
type ScoredReview struct {
	NormalizedReview
	SentimentLabel SentimentLabel
	SentimentScore float64
}

// ClassifiedReview adds theme tags to a scored review. Themes is empty (never
// nil) when no trigger matched, in the vocabulary's configured order otherwise.
type ClassifiedReview struct {
	ScoredReview
	Themes []string
}

// EntitySummary holds per-entity statistics recomputed from one batch.
// Rating buckets with no reviews are absent from MeanSentimentByRating.
type EntitySummary struct {
	EntityID              string
	ReviewCount           int
	MeanRating            float64
	SentimentDistribution map[SentimentLabel]int
	ThemeFrequency        map[string]int
	MeanSentimentByRating map[int]float64
}

// BatchReport summarizes one pipeline run. It is returned to the caller even
// when persistence fails so computed results can be inspected and retried.
type BatchReport struct {
	RunAt             time.Time
	Accepted          int
	Malformed         int
	DuplicatesDropped int
	Unconfigured      int
	ScoringFailures   int
	Aborted           bool
	Summaries         map[string]EntitySummary
}
