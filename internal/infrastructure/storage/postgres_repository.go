package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"ReviewAnalyzer/internal/domain"
	"ReviewAnalyzer/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Postgres caps a statement at 65535 bind parameters. Reviews carry 7
// parameters per row, so large batches are split into chunks that stay
// well under the cap while remaining inside one transaction.
const insertChunkSize = 500

// chunk splits n items into [start, end) ranges of at most size each.
func chunk(n, size int) [][2]int {
	if n <= 0 {
		return nil
	}
	ranges := make([][2]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// PostgresRepository persists processed batches into Postgres. One batch is
// one transaction: readers never see a partial commit.
type PostgresRepository struct {
	db           *sql.DB
	displayNames map[string]string
}

var _ ports.ReviewRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB and the per-entity display names.
func NewPostgresRepository(db *sql.DB, displayNames map[string]string) *PostgresRepository {
	return &PostgresRepository{db: db, displayNames: displayNames}
}

// SaveBatch writes entities, reviews, and theme rows in a single transaction.
// Re-delivered reviews hit the primary key and are skipped, which keeps
// at-least-once handoff safe.
func (r *PostgresRepository) SaveBatch(ctx context.Context, reviews []domain.ClassifiedReview, summaries map[string]domain.EntitySummary) error {
	if r.db == nil || len(reviews) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := r.upsertEntities(ctx, tx, reviews); err != nil {
		return err
	}
	if err := insertReviews(ctx, tx, reviews); err != nil {
		return err
	}
	if err := insertThemes(ctx, tx, reviews); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	return nil
}

func (r *PostgresRepository) upsertEntities(ctx context.Context, tx *sql.Tx, reviews []domain.ClassifiedReview) error {
	sources := make(map[string]string)
	for _, rev := range reviews {
		if _, ok := sources[rev.EntityID]; !ok {
			sources[rev.EntityID] = rev.Source
		}
	}

	ids := make([]string, 0, len(sources))
	for id := range sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ins := psql.Insert("entities").Columns("entity_id", "display_name", "source")
	for _, id := range ids {
		name := r.displayNames[id]
		if name == "" {
			name = id
		}
		ins = ins.Values(id, name, sources[id])
	}
	ins = ins.Suffix("ON CONFLICT (entity_id) DO UPDATE SET display_name = EXCLUDED.display_name, source = EXCLUDED.source")

	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build entities insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert entities: %w", err)
	}
	return nil
}

func insertReviews(ctx context.Context, tx *sql.Tx, reviews []domain.ClassifiedReview) error {
	for _, rng := range chunk(len(reviews), insertChunkSize) {
		ins := psql.Insert("reviews").
			Columns("review_id", "entity_id", "text", "rating", "posted_at", "sentiment_label", "sentiment_score")
		for _, rev := range reviews[rng[0]:rng[1]] {
			ins = ins.Values(
				rev.ReviewID,
				rev.EntityID,
				rev.Text,
				rev.Rating,
				rev.PostedAt,
				string(rev.SentimentLabel),
				rev.SentimentScore,
			)
		}
		ins = ins.Suffix("ON CONFLICT (review_id) DO NOTHING")

		query, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("build reviews insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert reviews: %w", err)
		}
	}
	return nil
}

func insertThemes(ctx context.Context, tx *sql.Tx, reviews []domain.ClassifiedReview) error {
	type themeRow struct {
		reviewID string
		tag      string
	}
	rows := make([]themeRow, 0, len(reviews))
	for _, rev := range reviews {
		for _, tag := range rev.Themes {
			rows = append(rows, themeRow{reviewID: rev.ReviewID, tag: tag})
		}
	}
	if len(rows) == 0 {
		return nil
	}

	for _, rng := range chunk(len(rows), insertChunkSize) {
		ins := psql.Insert("review_themes").Columns("review_id", "theme_tag")
		for _, row := range rows[rng[0]:rng[1]] {
			ins = ins.Values(row.reviewID, row.tag)
		}
		ins = ins.Suffix("ON CONFLICT (review_id, theme_tag) DO NOTHING")

		query, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("build themes insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert themes: %w", err)
		}
	}
	return nil
}
