package playstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"ReviewAnalyzer/internal/source"
)

func TestBuildPageURL(t *testing.T) {
	t.Parallel()

	base := "https://store.example.com/apps/com.boa.boaMobileBanking/reviews"
	u, err := buildPageURL(base, 3)
	if err != nil {
		t.Fatalf("buildPageURL returned error: %v", err)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}

	if parsed.Host != "store.example.com" {
		t.Fatalf("unexpected host: %s", parsed.Host)
	}
	if got := parsed.Query().Get("page"); got != "3" {
		t.Fatalf("expected page=3, got %s", got)
	}
}

func TestParseEntry(t *testing.T) {
	t.Parallel()

	html := `
	<div class="review">
	  <span class="review-rating" aria-label="Rated 4 stars out of five"></span>
	  <p class="review-text">Great fast transfers</p>
	  <span class="review-date">2024-06-02</span>
	</div>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	rec := parseEntry(doc.Find("div.review").First(), "com.boa.boaMobileBanking", "Google Play")

	if rec.Text != "Great fast transfers" {
		t.Fatalf("unexpected text: %s", rec.Text)
	}
	if rec.Rating != 4 {
		t.Fatalf("unexpected rating: %d", rec.Rating)
	}
	if rec.PostedAt != "2024-06-02" {
		t.Fatalf("unexpected date: %s", rec.PostedAt)
	}
	if rec.EntityID != "com.boa.boaMobileBanking" {
		t.Fatalf("unexpected entity: %s", rec.EntityID)
	}
	if rec.Source != "Google Play" {
		t.Fatalf("unexpected source: %s", rec.Source)
	}
}

func TestParseEntryMissingRating(t *testing.T) {
	t.Parallel()

	html := `
	<div class="review">
	  <p class="review-text">No stars here</p>
	  <span class="review-date">2024-06-02</span>
	</div>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	rec := parseEntry(doc.Find("div.review").First(), "e", "s")

	// A missing rating stays zero so the normalizer rejects the record.
	if rec.Rating != 0 {
		t.Fatalf("expected rating 0, got %d", rec.Rating)
	}
}

func TestScannerFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			_, _ = w.Write([]byte(`<html><body></body></html>`))
			return
		}
		_, _ = w.Write([]byte(`
		<div class="review">
		  <span class="review-rating" aria-label="Rated 1 stars out of five"></span>
		  <p class="review-text">App crashes on login</p>
		  <span class="review-date">2024-06-01</span>
		</div>
		<div class="review">
		  <span class="review-rating" aria-label="Rated 5 stars out of five"></span>
		  <p class="review-text">Great fast transfers</p>
		  <span class="review-date">2024-06-02</span>
		</div>`))
	}))
	defer server.Close()

	sc := NewScanner(server.Client())

	req := source.Request{
		SourceName: "Google Play",
		Apps: []source.App{
			{EntityID: "com.boa.boaMobileBanking", URL: server.URL + "/reviews"},
		},
	}

	reviews, err := sc.Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}
	if reviews[0].Text != "App crashes on login" || reviews[0].Rating != 1 {
		t.Fatalf("unexpected first review: %+v", reviews[0])
	}
	if reviews[1].Rating != 5 {
		t.Fatalf("unexpected second review: %+v", reviews[1])
	}
}
