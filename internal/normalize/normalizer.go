package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"

	"ReviewAnalyzer/internal/domain"
)

// dateLayouts lists accepted textual date encodings, most specific first.
// The first is the raw-CSV export format of the scraping stage.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
	"2 Jan 2006",
}

// Result carries the surviving records plus per-batch rejection accounting.
type Result struct {
	Reviews           []domain.NormalizedReview
	DuplicatesDropped int
	Malformed         []*domain.MalformedRecordError
}

// Batch cleans, validates, and deduplicates one batch of raw reviews.
// Malformed records are reported and skipped, never fatal; on a ReviewID
// collision the first occurrence in input order wins.
func Batch(raw []domain.RawReview) Result {
	res := Result{Reviews: make([]domain.NormalizedReview, 0, len(raw))}
	seen := make(map[string]struct{}, len(raw))

	for i, rec := range raw {
		norm, err := One(i, rec)
		if err != nil {
			res.Malformed = append(res.Malformed, err)
			continue
		}
		if _, dup := seen[norm.ReviewID]; dup {
			res.DuplicatesDropped++
			continue
		}
		seen[norm.ReviewID] = struct{}{}
		res.Reviews = append(res.Reviews, norm)
	}

	return res
}

// One validates and canonicalizes a single raw record.
func One(pos int, rec domain.RawReview) (domain.NormalizedReview, *domain.MalformedRecordError) {
	fail := func(reason string) (domain.NormalizedReview, *domain.MalformedRecordError) {
		return domain.NormalizedReview{}, &domain.MalformedRecordError{Position: pos, Reason: reason}
	}

	if strings.TrimSpace(rec.Text) == "" {
		return fail("missing text")
	}
	if rec.EntityID == "" {
		return fail("missing entity id")
	}
	if rec.Rating < 1 || rec.Rating > 5 {
		return fail(fmt.Sprintf("rating %d outside 1..5", rec.Rating))
	}

	day, ok := ParseDate(rec.PostedAt)
	if !ok {
		return fail(fmt.Sprintf("unparseable date %q", rec.PostedAt))
	}

	norm := domain.NormalizedReview{
		EntityID: rec.EntityID,
		Text:     CleanText(rec.Text),
		Rating:   rec.Rating,
		PostedAt: day,
		Source:   rec.Source,
	}
	norm.ReviewID = ReviewID(norm)
	return norm, nil
}

// CleanText collapses whitespace runs into single spaces, trims, and drops
// non-printable runes. Casing and punctuation are preserved for the
// downstream stages to decide on.
func CleanText(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case unicode.IsPrint(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		}
	}

	return b.String()
}

// ParseDate tries the accepted encodings and truncates to a UTC calendar date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// Normalize to UTC first so the same instant always maps to
			// one calendar date regardless of the source's offset.
			t = t.UTC()
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}

// ReviewID derives the stable dedup key from the canonical fields, so a
// reformatted copy of the same review hashes identically.
func ReviewID(r domain.NormalizedReview) string {
	h := sha256.New()
	h.Write([]byte(r.EntityID))
	h.Write([]byte{'\n'})
	h.Write([]byte(r.Text))
	h.Write([]byte{'\n'})
	h.Write([]byte(r.PostedAt.Format("2006-01-02")))
	h.Write([]byte{'\n'})
	h.Write([]byte(r.Source))
	return hex.EncodeToString(h.Sum(nil)[:16])
}
