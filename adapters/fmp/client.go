// Package fmp reads annual income statements from the Financial Modeling Prep REST API.
package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"goincome/domain/statement"
	"goincome/internal"
	"goincome/internal/errors"
	"goincome/ports"

	"github.com/tidwall/gjson"
)

const serviceName = "financial modeling prep"

// maxSnippet bounds how much of an unexpected body ends up in an error
const maxSnippet = 256

// Config holds the endpoint settings. APIKey is injected from the environment.
type Config struct {
	BaseURL string
	Symbol  string
	APIKey  string
	Timeout time.Duration
}

// Client fetches the income-statement endpoint for one symbol
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *internal.Logger
}

var _ ports.StatementSource = (*Client)(nil)

// NewClient creates a client with its own HTTP timeout
func NewClient(config Config, logger *internal.Logger) *Client {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger.With("FMP"),
	}
}

// FetchStatements performs one GET and decodes the statement array
func (c *Client) FetchStatements(ctx context.Context) ([]statement.Record, error) {
	endpoint, err := c.buildURL()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build request URL for %s", c.config.Symbol)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build request for %s", c.config.Symbol)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("failed to read response: %w", err))
	}
	c.logger.Debug("GET income-statement/%s -> %d (%d bytes, %s)", c.config.Symbol, resp.StatusCode, len(body), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.ExternalServiceError(serviceName,
			fmt.Errorf("status %d: %s", resp.StatusCode, snippet(body)))
	}

	records, err := parseStatements(body)
	if err != nil {
		return nil, errors.ExternalServiceError(serviceName, err)
	}
	return records, nil
}

// buildURL constructs {base}/income-statement/{symbol}?period=annual&apikey=...
func (c *Client) buildURL() (string, error) {
	base, err := url.Parse(strings.TrimRight(c.config.BaseURL, "/"))
	if err != nil {
		return "", err
	}
	base = base.JoinPath("income-statement", c.config.Symbol)

	q := base.Query()
	q.Set("period", "annual")
	q.Set("apikey", c.config.APIKey)
	base.RawQuery = q.Encode()
	return base.String(), nil
}

// parseStatements accepts a JSON array of statements. FMP reports problems
// as an object with an "Error Message" field and a 200 status.
func parseStatements(body []byte) ([]statement.Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("response is not valid JSON: %s", snippet(body))
	}

	result := gjson.ParseBytes(body)
	if result.IsObject() {
		if msg := result.Get("Error Message"); msg.Exists() {
			return nil, fmt.Errorf("api error: %s", msg.String())
		}
		return nil, fmt.Errorf("expected a JSON array, got an object: %s", snippet(body))
	}
	if !result.IsArray() {
		return nil, fmt.Errorf("expected a JSON array: %s", snippet(body))
	}

	var records []statement.Record
	if err := json.Unmarshal([]byte(result.Raw), &records); err != nil {
		return nil, fmt.Errorf("failed to decode statements: %w", err)
	}
	return records, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSnippet {
		s = s[:maxSnippet] + "..."
	}
	return s
}
