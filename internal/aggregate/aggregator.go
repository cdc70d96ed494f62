package aggregate

import "ReviewAnalyzer/internal/domain"

// Summarize reduces classified reviews into per-entity summaries. The
// accumulation is commutative and associative, so the result is identical for
// any permutation of the input.
func Summarize(reviews []domain.ClassifiedReview) map[string]domain.EntitySummary {
	type accumulator struct {
		count        int
		ratingSum    int
		labels       map[domain.SentimentLabel]int
		themes       map[string]int
		scoreByStars map[int]float64
		countByStars map[int]int
	}

	accs := make(map[string]*accumulator)

	for _, r := range reviews {
		acc, ok := accs[r.EntityID]
		if !ok {
			acc = &accumulator{
				labels:       make(map[domain.SentimentLabel]int),
				themes:       make(map[string]int),
				scoreByStars: make(map[int]float64),
				countByStars: make(map[int]int),
			}
			accs[r.EntityID] = acc
		}

		acc.count++
		acc.ratingSum += r.Rating
		acc.labels[r.SentimentLabel]++
		for _, tag := range r.Themes {
			acc.themes[tag]++
		}
		acc.scoreByStars[r.Rating] += r.SentimentScore
		acc.countByStars[r.Rating]++
	}

	out := make(map[string]domain.EntitySummary, len(accs))
	for entityID, acc := range accs {
		summary := domain.EntitySummary{
			EntityID:              entityID,
			ReviewCount:           acc.count,
			MeanRating:            float64(acc.ratingSum) / float64(acc.count),
			SentimentDistribution: acc.labels,
			ThemeFrequency:        acc.themes,
			MeanSentimentByRating: make(map[int]float64, len(acc.countByStars)),
		}
		// Rating buckets with no reviews stay absent rather than reporting
		// a mean over an empty set.
		for rating, n := range acc.countByStars {
			summary.MeanSentimentByRating[rating] = acc.scoreByStars[rating] / float64(n)
		}
		out[entityID] = summary
	}

	return out
}
