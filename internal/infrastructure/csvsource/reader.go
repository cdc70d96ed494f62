package csvsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ReviewAnalyzer/internal/domain"
	"ReviewAnalyzer/internal/source"
)

// Reader loads the raw review CSVs produced by the scraping stage. Expected
// columns: review_text, rating, date, app_id, source. Cell-level problems are
// carried through as raw records for the normalizer to reject.
type Reader struct {
	logger *slog.Logger
}

var _ source.Adapter = (*Reader)(nil)

// NewReader builds a CSV-file source adapter.
func NewReader(log *slog.Logger) *Reader {
	return &Reader{logger: log}
}

// Name identifies the strategy inside the registry.
func (r *Reader) Name() string {
	return "csv"
}

// Fetch reads each app's configured file under the source's dir option.
// A file that does not exist is skipped; the scrape for that app may simply
// not have run yet.
func (r *Reader) Fetch(ctx context.Context, req source.Request) ([]domain.RawReview, error) {
	dir := req.Options["dir"]

	var results []domain.RawReview
	for _, app := range req.Apps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := app.URL
		if dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		records, err := r.readFile(path, app.EntityID, req.SourceName)
		if err != nil {
			if os.IsNotExist(err) {
				r.debug("raw file missing, skipping", "path", path, "entity", app.EntityID)
				continue
			}
			return nil, fmt.Errorf("app %s: %w", app.EntityID, err)
		}

		results = append(results, records...)
	}

	return results, nil
}

func (r *Reader) readFile(path, entityID, sourceName string) ([]domain.RawReview, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	idx := columnIndex(header)

	var records []domain.RawReview
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row of %s: %w", path, err)
		}

		rec := domain.RawReview{
			Text:     cell(row, idx.lookup("review_text")),
			PostedAt: cell(row, idx.lookup("date")),
			EntityID: cell(row, idx.lookup("app_id")),
			Source:   cell(row, idx.lookup("source")),
		}
		if rec.EntityID == "" {
			rec.EntityID = entityID
		}
		if rec.Source == "" {
			rec.Source = sourceName
		}
		// Unparseable ratings stay zero and fail normalization later.
		rec.Rating, _ = strconv.Atoi(cell(row, idx.lookup("rating")))

		records = append(records, rec)
	}

	r.debug("read raw file", "path", path, "rows", len(records))
	return records, nil
}

type columns map[string]int

func columnIndex(header []string) columns {
	idx := make(columns, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

func (c columns) lookup(name string) int {
	if i, ok := c[name]; ok {
		return i
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (r *Reader) debug(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
