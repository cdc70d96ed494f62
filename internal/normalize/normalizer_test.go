package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReviewAnalyzer/internal/domain"
)

func rawReview(text, date string) domain.RawReview {
	return domain.RawReview{
		Text:     text,
		Rating:   4,
		PostedAt: date,
		EntityID: "com.boa.boaMobileBanking",
		Source:   "Google Play",
	}
}

func TestBatchDropsDuplicates(t *testing.T) {
	t.Parallel()

	batch := []domain.RawReview{
		rawReview("App crashes on login", "2024-06-01"),
		rawReview("Great fast transfers", "2024-06-02"),
		rawReview("App crashes on login", "2024-06-01"),
	}

	res := Batch(batch)

	require.Len(t, res.Reviews, 2)
	assert.Equal(t, 1, res.DuplicatesDropped)
	assert.Empty(t, res.Malformed)
	assert.Equal(t, "App crashes on login", res.Reviews[0].Text)
}

func TestBatchIdempotent(t *testing.T) {
	t.Parallel()

	batch := []domain.RawReview{
		rawReview("Needs dark mode", "2024-06-01"),
		rawReview("Needs dark mode", "2024-06-01"),
		rawReview("Login never works", "2024-06-03"),
	}

	first := Batch(batch)
	require.Equal(t, 1, first.DuplicatesDropped)

	// Re-running on its own output must be a no-op.
	again := make([]domain.RawReview, 0, len(first.Reviews))
	for _, r := range first.Reviews {
		again = append(again, domain.RawReview{
			Text:     r.Text,
			Rating:   r.Rating,
			PostedAt: r.PostedAt.Format("2006-01-02"),
			EntityID: r.EntityID,
			Source:   r.Source,
		})
	}

	second := Batch(again)
	assert.Equal(t, 0, second.DuplicatesDropped)
	require.Len(t, second.Reviews, len(first.Reviews))
	for i := range first.Reviews {
		assert.Equal(t, first.Reviews[i].ReviewID, second.Reviews[i].ReviewID)
	}
}

func TestBatchRejectsMalformed(t *testing.T) {
	t.Parallel()

	batch := []domain.RawReview{
		rawReview("Fine", "2024-06-01"),
		{Text: "", Rating: 3, PostedAt: "2024-06-01", EntityID: "e"},
		{Text: "No rating", Rating: 0, PostedAt: "2024-06-01", EntityID: "e"},
		{Text: "Rating too big", Rating: 9, PostedAt: "2024-06-01", EntityID: "e"},
		{Text: "Bad date", Rating: 2, PostedAt: "last tuesday", EntityID: "e"},
	}

	res := Batch(batch)

	require.Len(t, res.Reviews, 1)
	require.Len(t, res.Malformed, 4)
	assert.Equal(t, 1, res.Malformed[0].Position)
	assert.Equal(t, 4, res.Malformed[3].Position)
	assert.Contains(t, res.Malformed[3].Error(), "unparseable date")
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	got := CleanText("  Great\tapp,\n\nreally   GOOD!\x00 ")
	assert.Equal(t, "Great app, really GOOD!", got)
}

func TestParseDateEncodings(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	for _, input := range []string{
		"2024-06-01 13:45:10",
		"2024-06-01T13:45:10Z",
		"2024-06-01",
		"1 Jun 2024",
	} {
		got, ok := ParseDate(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, ok := ParseDate("06/01/2024 oops")
	assert.False(t, ok)
}

func TestParseDateOffsetsCollapseToUTCDate(t *testing.T) {
	t.Parallel()

	// The same instant formatted with different offsets must canonicalize
	// to one date, so reformatted duplicates keep colliding on ReviewID.
	utc, ok := ParseDate("2024-06-02T03:00:00Z")
	require.True(t, ok)
	offset, ok := ParseDate("2024-06-01T22:00:00-05:00")
	require.True(t, ok)

	want := time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, utc)
	assert.Equal(t, want, offset)

	a, errA := One(0, rawReview("Crashes a lot", "2024-06-02T03:00:00Z"))
	require.Nil(t, errA)
	b, errB := One(1, rawReview("Crashes a lot", "2024-06-01T22:00:00-05:00"))
	require.Nil(t, errB)
	assert.Equal(t, a.ReviewID, b.ReviewID)
}

func TestReviewIDIgnoresFormattingNoise(t *testing.T) {
	t.Parallel()

	a, err := One(0, rawReview("Crashes   a lot", "2024-06-01"))
	require.Nil(t, err)
	b, err := One(1, rawReview("Crashes a\tlot", "2024-06-01 08:30:00"))
	require.Nil(t, err)

	assert.Equal(t, a.ReviewID, b.ReviewID)
}
