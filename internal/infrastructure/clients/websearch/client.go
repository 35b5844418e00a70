package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alokrajg/hcp-profiling-agent/internal/domain/entities"
	"github.com/alokrajg/hcp-profiling-agent/pkg/config"
)

// DefaultMaxResults caps how many hits a query returns.
const DefaultMaxResults = 5

// Client runs open web searches for provider context.
type Client interface {
	Search(ctx context.Context, query string) ([]entities.WebResult, error)
}

// HTTPClient queries a SearxNG-compatible search endpoint. Web search is the
// least reliable source in the pipeline, so every failure degrades to an
// empty result list instead of an error.
type HTTPClient struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
}

type searchResponse struct {
	Results []entities.WebResult `json:"results"`
}

// NewClient creates a web search client from configuration. An empty base URL
// disables the source entirely.
func NewClient(cfg *config.WebSearchConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		maxResults: maxResults,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search returns at most maxResults hits for the query. It never returns an
// error; a nil-safe empty slice stands in for any failure.
func (c *HTTPClient) Search(ctx context.Context, query string) ([]entities.WebResult, error) {
	if c.baseURL == "" || strings.TrimSpace(query) == "" {
		return []entities.WebResult{}, nil
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&format=json", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return []entities.WebResult{}, nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("web search unavailable")
		return []entities.WebResult{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Str("query", query).Msg("web search returned non-2xx")
		return []entities.WebResult{}, nil
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Warn().Err(err).Str("query", query).Msg("web search returned malformed body")
		return []entities.WebResult{}, nil
	}

	results := parsed.Results
	if results == nil {
		results = []entities.WebResult{}
	}
	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	return results, nil
}
