package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	apperrors "github.com/allisson/farmaggregator/internal/errors"
)

// maxInfoBodySize bounds the farm info document read by Info.
const maxInfoBodySize = 1 << 20

// FarmClient is an authenticated handle on a farm's remote API. Requests carry the farm's
// bearer token; expired tokens are refreshed and persisted transparently.
type FarmClient struct {
	baseURL     string
	httpClient  *http.Client
	tokenSource oauth2.TokenSource
}

// NewFarmClient creates a client for baseURL that authenticates with ts. The context may
// carry an oauth2.HTTPClient used as the underlying transport.
func NewFarmClient(ctx context.Context, baseURL string, ts oauth2.TokenSource) *FarmClient {
	return &FarmClient{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  oauth2.NewClient(ctx, ts),
		tokenSource: ts,
	}
}

// BaseURL returns the farm's base URL without a trailing slash.
func (c *FarmClient) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the authenticated HTTP client.
func (c *FarmClient) HTTPClient() *http.Client {
	return c.httpClient
}

// Token returns the current access token, refreshing it first if needed.
func (c *FarmClient) Token() (*oauth2.Token, error) {
	return c.tokenSource.Token()
}

// Get performs an authenticated GET against path, relative to the farm base URL.
func (c *FarmClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+strings.TrimPrefix(path, "/"), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build farm request")
	}
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}

// Info fetches the farm's API root document.
func (c *FarmClient) Info(ctx context.Context) (map[string]any, error) {
	resp, err := c.Get(ctx, "/api")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, err.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Wrap(
			apperrors.ErrUpstream,
			fmt.Sprintf("farm info request returned status %d", resp.StatusCode),
		)
	}

	var info map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxInfoBodySize)).Decode(&info); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, "invalid farm info response")
	}

	return info, nil
}
