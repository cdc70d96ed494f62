package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ReviewAnalyzer/internal/config"
	"ReviewAnalyzer/internal/sentiment"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuildThresholds(t *testing.T) {
	t.Parallel()

	// Unset thresholds fall back to the ±0.05 default band.
	th := buildThresholds(config.SentimentConfig{})
	assert.Equal(t, sentiment.DefaultThresholds(), th)

	// An explicit zero is a valid configuration: no neutral band.
	th = buildThresholds(config.SentimentConfig{
		PositiveThreshold: floatPtr(0),
		NegativeThreshold: floatPtr(0),
	})
	assert.Zero(t, th.Positive)
	assert.Zero(t, th.Negative)

	th = buildThresholds(config.SentimentConfig{
		PositiveThreshold: floatPtr(0.2),
		NegativeThreshold: floatPtr(-0.3),
	})
	assert.Equal(t, 0.2, th.Positive)
	assert.Equal(t, -0.3, th.Negative)
}

func TestBuildStrategy(t *testing.T) {
	t.Parallel()

	s := buildStrategy(config.SentimentConfig{Strategy: "lexicon"})
	assert.Equal(t, "lexicon", s.Name())

	// Remote without an endpoint falls back to the offline heuristic.
	s = buildStrategy(config.SentimentConfig{Strategy: "remote"})
	assert.Equal(t, "lexicon", s.Name())

	s = buildStrategy(config.SentimentConfig{Strategy: "remote", Endpoint: "https://scorer.example.com"})
	assert.Equal(t, "remote", s.Name())
}
