package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"ReviewAnalyzer/internal/domain"
	"ReviewAnalyzer/internal/ports"
)

// CSVWriter exports one batch's rows and summaries as CSV files for the
// downstream reporting layer.
type CSVWriter struct {
	dir string
}

var _ ports.ReportWriter = (*CSVWriter)(nil)

// NewCSVWriter targets the given output directory, created on first write.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// WriteBatch writes reviews_<date>.csv and summary_<date>.csv.
func (w *CSVWriter) WriteBatch(report domain.BatchReport, reviews []domain.ClassifiedReview) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	stamp := report.RunAt.Format("20060102")

	if err := w.writeReviews(filepath.Join(w.dir, "reviews_"+stamp+".csv"), reviews); err != nil {
		return err
	}
	return w.writeSummaries(filepath.Join(w.dir, "summary_"+stamp+".csv"), report)
}

func (w *CSVWriter) writeReviews(path string, reviews []domain.ClassifiedReview) error {
	return writeCSV(path, func(out *csv.Writer) error {
		header := []string{"review_id", "entity_id", "text", "rating", "posted_at", "sentiment_label", "sentiment_score", "themes"}
		if err := out.Write(header); err != nil {
			return err
		}

		for _, r := range reviews {
			row := []string{
				r.ReviewID,
				r.EntityID,
				r.Text,
				strconv.Itoa(r.Rating),
				r.PostedAt.Format("2006-01-02"),
				string(r.SentimentLabel),
				strconv.FormatFloat(r.SentimentScore, 'f', 4, 64),
				strings.Join(r.Themes, "|"),
			}
			if err := out.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *CSVWriter) writeSummaries(path string, report domain.BatchReport) error {
	return writeCSV(path, func(out *csv.Writer) error {
		header := []string{"entity_id", "review_count", "mean_rating", "positive", "negative", "neutral", "themes"}
		if err := out.Write(header); err != nil {
			return err
		}

		ids := make([]string, 0, len(report.Summaries))
		for id := range report.Summaries {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			s := report.Summaries[id]
			row := []string{
				s.EntityID,
				strconv.Itoa(s.ReviewCount),
				strconv.FormatFloat(s.MeanRating, 'f', 2, 64),
				strconv.Itoa(s.SentimentDistribution[domain.SentimentPositive]),
				strconv.Itoa(s.SentimentDistribution[domain.SentimentNegative]),
				strconv.Itoa(s.SentimentDistribution[domain.SentimentNeutral]),
				formatThemeCounts(s.ThemeFrequency),
			}
			if err := out.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func formatThemeCounts(freq map[string]int) string {
	tags := make([]string, 0, len(freq))
	for tag := range freq {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		parts = append(parts, fmt.Sprintf("%s:%d", tag, freq[tag]))
	}
	return strings.Join(parts, "|")
}

func writeCSV(path string, fill func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	out := csv.NewWriter(f)
	if err := fill(out); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	out.Flush()
	if err := out.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
