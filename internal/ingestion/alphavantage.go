package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/guttosm/findata/config"
)

const seriesFunction = "TIME_SERIES_DAILY_ADJUSTED"

// DailyQuote is the subset of the provider's per-day payload we persist.
// The upstream keys are numbered ("1. open", "4. close", ...), and all
// values arrive as strings.
type DailyQuote struct {
	Open   string `json:"1. open"`
	Close  string `json:"4. close"`
	Volume string `json:"6. volume"`
}

// dailySeriesResponse mirrors the provider's TIME_SERIES_DAILY_ADJUSTED envelope.
//
// The provider reports failures inside a 200 body rather than via HTTP
// status codes: throttling arrives as "Note" or "Information", a bad
// symbol or key as "Error Message". All three are captured so callers
// get a real error instead of an empty series.
type dailySeriesResponse struct {
	TimeSeries   map[string]DailyQuote `json:"Time Series (Daily)"`
	Note         string                `json:"Note"`
	Information  string                `json:"Information"`
	ErrorMessage string                `json:"Error Message"`
}

// Provider fetches daily price series for a symbol.
type Provider interface {
	DailySeries(ctx context.Context, symbol string) (map[string]DailyQuote, error)
}

// Client is an Alpha Vantage API client implementing Provider.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient builds a Client from provider configuration.
func NewClient(cfg config.ProviderConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// DailySeries fetches the daily time series for a symbol.
//
// Returns:
//   - map keyed by date string (YYYY-MM-DD) with open/close/volume per day.
//   - error: on transport failure, non-200 status, a provider-reported
//     error, or a body with no time series.
func (c *Client) DailySeries(ctx context.Context, symbol string) (map[string]DailyQuote, error) {
	q := url.Values{}
	q.Set("function", seriesFunction)
	q.Set("symbol", symbol)
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", symbol, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch daily series for %s: %w", symbol, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("provider returned status %d for %s: %s", resp.StatusCode, symbol, body)
	}

	var payload dailySeriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode daily series for %s: %w", symbol, err)
	}

	if payload.ErrorMessage != "" {
		return nil, fmt.Errorf("provider error for %s: %s", symbol, payload.ErrorMessage)
	}
	if payload.Note != "" {
		return nil, fmt.Errorf("provider throttled request for %s: %s", symbol, payload.Note)
	}
	if payload.Information != "" {
		return nil, fmt.Errorf("provider rejected request for %s: %s", symbol, payload.Information)
	}
	if payload.TimeSeries == nil {
		return nil, fmt.Errorf("provider returned no time series for %s", symbol)
	}

	return payload.TimeSeries, nil
}
