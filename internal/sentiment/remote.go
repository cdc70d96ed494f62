package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ReviewAnalyzer/internal/domain"
)

// Remote delegates scoring to an external pretrained classifier service.
// The service contract is a single POST /score returning a signed score;
// which model sits behind it is the service's business.
type Remote struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ Strategy = (*Remote)(nil)

// NewRemote creates a reusable HTTP-backed strategy.
func NewRemote(endpoint, apiKey string, client *http.Client) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Remote{endpoint: endpoint, apiKey: apiKey, http: client}
}

func (c *Remote) Name() string {
	return "remote"
}

// Score posts the review text for classification.
func (c *Remote) Score(ctx context.Context, review domain.NormalizedReview) (float64, error) {
	payload := map[string]any{
		"text":      review.Text,
		"entity_id": review.EntityID,
	}

	var resp struct {
		SentimentScore float64 `json:"sentiment_score"`
	}

	if err := c.post(ctx, "/score", payload, &resp); err != nil {
		return 0, err
	}

	if resp.SentimentScore < -1 || resp.SentimentScore > 1 {
		return 0, fmt.Errorf("classifier returned score %f outside [-1, 1]", resp.SentimentScore)
	}

	return resp.SentimentScore, nil
}

func (c *Remote) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
