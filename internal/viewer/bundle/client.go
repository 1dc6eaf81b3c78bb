package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshmark/internal/logger"
)

// Fetcher is the model-fetch collaborator the viewer bootstraps from.
type Fetcher interface {
	FetchModel(ctx context.Context, token string) (*ModelBundle, error)
	FetchAnnotations(ctx context.Context, token string) ([]StoredAnnotation, error)
}

// Client fetches bundles from the review server over HTTP.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient creates a fetch client for the given server base URL.
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

// modelResponse is the wire shape of a bundle. Texture bytes arrive base64
// encoded, which encoding/json decodes into []byte directly.
type modelResponse struct {
	Name        string            `json:"name"`
	OBJ         string            `json:"obj"`
	MTL         string            `json:"mtl"`
	Textures    map[string][]byte `json:"textures"`
	RealHeightM float64           `json:"real_height_m"`
}

// FetchModel retrieves the bundle for a share token. Annotations are fetched
// separately; callers typically follow up with FetchAnnotations.
func (c *Client) FetchModel(ctx context.Context, token string) (*ModelBundle, error) {
	var resp modelResponse
	if err := c.getJSON(ctx, "/api/models/"+url.PathEscape(token), &resp); err != nil {
		return nil, err
	}

	logger.Info("model bundle fetched",
		zap.String("token", token),
		zap.String("name", resp.Name),
		zap.Int("textures", len(resp.Textures)),
	)

	return &ModelBundle{
		Name:             resp.Name,
		OBJText:          resp.OBJ,
		MTLText:          resp.MTL,
		Textures:         resp.Textures,
		Token:            token,
		RealHeightMeters: resp.RealHeightM,
	}, nil
}

// FetchAnnotations retrieves the ordered annotation list for a model.
func (c *Client) FetchAnnotations(ctx context.Context, token string) ([]StoredAnnotation, error) {
	var out []StoredAnnotation
	if err := c.getJSON(ctx, "/api/models/"+url.PathEscape(token)+"/annotations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	u := c.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("fetch %s: unexpected status %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
