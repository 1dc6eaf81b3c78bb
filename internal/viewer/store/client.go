package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshmark/internal/logger"
)

// Client submits annotation batches to the review server over HTTP.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient creates a submit client for the given server base URL.
func NewClient(base string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("store base url: %w", err)
	}
	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// SubmitBatch posts the batch to the model's annotation endpoint.
func (c *Client) SubmitBatch(ctx context.Context, batch PendingEditBatch) error {
	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}

	u := c.base.JoinPath("/api/models/" + url.PathEscape(batch.Token) + "/annotations")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("submit batch: unexpected status %s", resp.Status)
	}

	logger.Info("annotation batch submitted",
		zap.String("token", batch.Token),
		zap.Int("new", len(batch.New)),
		zap.Int("changes", len(batch.Changes)),
	)
	return nil
}
