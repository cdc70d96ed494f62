package playstore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ReviewAnalyzer/internal/domain"
	"ReviewAnalyzer/internal/source"
)

const defaultMaxPages = 10

var starsExpr = regexp.MustCompile(`[1-5]`)

// Scanner crawls store review pages and extracts raw review records.
// It deliberately does no validation beyond locating the fields: broken
// entries become raw records the normalizer rejects, not scan failures.
type Scanner struct {
	client   *http.Client
	maxPages int
}

var _ source.Adapter = (*Scanner)(nil)

// NewScanner wires an HTTP client; page depth defaults to 10.
func NewScanner(client *http.Client) *Scanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Scanner{client: client, maxPages: defaultMaxPages}
}

// Name identifies the strategy inside the registry.
func (s *Scanner) Name() string {
	return "playstore"
}

// Fetch walks each app's review pages until a page comes back empty or the
// page limit is reached.
func (s *Scanner) Fetch(ctx context.Context, req source.Request) ([]domain.RawReview, error) {
	if len(req.Apps) == 0 {
		return nil, fmt.Errorf("no apps configured for source %s", req.SourceName)
	}

	maxPages := s.maxPages
	if raw, ok := req.Options["max_pages"]; ok {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			maxPages = parsed
		}
	}

	var results []domain.RawReview
	for _, app := range req.Apps {
		for page := 1; page <= maxPages; page++ {
			pageURL, err := buildPageURL(app.URL, page)
			if err != nil {
				return nil, fmt.Errorf("app %s: %w", app.EntityID, err)
			}

			doc, err := s.fetchDocument(ctx, pageURL)
			if err != nil {
				return nil, fmt.Errorf("app %s: %w", app.EntityID, err)
			}

			pageReviews := extractReviews(doc, app.EntityID, req.SourceName)
			if len(pageReviews) == 0 {
				break
			}
			results = append(results, pageReviews...)
		}
	}

	return results, nil
}

func (s *Scanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ReviewAnalyzer/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("store returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func extractReviews(doc *goquery.Document, entityID, sourceName string) []domain.RawReview {
	var collected []domain.RawReview

	doc.Find("div.review").Each(func(_ int, sel *goquery.Selection) {
		collected = append(collected, parseEntry(sel, entityID, sourceName))
	})

	return collected
}

func parseEntry(sel *goquery.Selection, entityID, sourceName string) domain.RawReview {
	text := strings.TrimSpace(sel.Find(".review-text").First().Text())

	rating := 0
	ratingText, exists := sel.Find(".review-rating").First().Attr("aria-label")
	if !exists {
		ratingText = sel.Find(".review-rating").First().Text()
	}
	if match := starsExpr.FindString(ratingText); match != "" {
		rating, _ = strconv.Atoi(match)
	}

	dateText := strings.TrimSpace(sel.Find(".review-date").First().Text())

	return domain.RawReview{
		Text:     text,
		Rating:   rating,
		PostedAt: dateText,
		EntityID: entityID,
		Source:   sourceName,
	}
}

func buildPageURL(base string, page int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid review page url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("page", strconv.Itoa(page))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
