package npiregistry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alokrajg/hcp-profiling-agent/internal/domain/entities"
	"github.com/alokrajg/hcp-profiling-agent/pkg/config"
	apperrors "github.com/alokrajg/hcp-profiling-agent/pkg/errors"
	"github.com/alokrajg/hcp-profiling-agent/pkg/retry"
)

// Client queries the public NPI registry for individual providers.
type Client interface {
	Lookup(ctx context.Context, npi string) (*entities.RegistryRecord, error)
}

// HTTPClient is the live registry client.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	retryCfg   retry.Config
}

type lookupResponse struct {
	ResultCount int                       `json:"result_count"`
	Results     []entities.RegistryRecord `json:"results"`
}

// NewClient creates a registry client from configuration.
func NewClient(cfg *config.RegistryConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/") + "/",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryCfg: retry.SourceFetchConfig(),
	}
}

// WithRetry overrides the retry policy. Mostly useful for tests and for
// callers that already wrap the lookup in their own deadline.
func (c *HTTPClient) WithRetry(cfg retry.Config) *HTTPClient {
	c.retryCfg = cfg
	return c
}

// Lookup fetches the registry record for a canonical 10-digit NPI. Transient
// failures are retried with exponential backoff; exhausted retries surface an
// EXTERNAL error the caller treats as "no registry data". A well-formed
// response with no results returns (nil, nil): valid, just unknown.
func (c *HTTPClient) Lookup(ctx context.Context, npi string) (*entities.RegistryRecord, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}

	query := endpoint.Query()
	query.Set("number", npi)
	query.Set("enumeration_type", "NPI-1")
	query.Set("version", "2.1")
	endpoint.RawQuery = query.Encode()

	var parsed lookupResponse
	err = retry.Do(ctx, c.retryCfg, func() error {
		return c.doJSON(ctx, endpoint.String(), &parsed)
	})
	if err != nil {
		return nil, apperrors.NewExternalError("npi registry lookup failed", err)
	}

	if len(parsed.Results) == 0 {
		return nil, nil
	}
	record := parsed.Results[0]
	return &record, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("npi registry returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
