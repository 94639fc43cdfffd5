package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
	"papertrade/internal/util"
)

// Provider is the capability that resolves a ticker symbol to a current
// quote. Implementations distinguish three outcomes: a quote,
// util.ErrSymbolNotFound for an unknown symbol, and
// util.ErrQuoteUnavailable when the upstream source cannot be reached.
type Provider interface {
	Lookup(ctx context.Context, symbol string) (*domain.Quote, error)
}

const (
	maxAttempts    = 3
	initialBackoff = 250 * time.Millisecond
)

// Client fetches quotes from the Alpha Vantage GLOBAL_QUOTE endpoint.
// Transient failures (network errors, 5xx, 429) are retried with a
// doubling backoff before surfacing util.ErrQuoteUnavailable; an unknown
// symbol is permanent and never retried.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates an Alpha Vantage client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
}

// Lookup resolves symbol to its current price.
func (c *Client) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, util.ErrSymbolNotFound
	}

	addr := fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		c.baseURL, url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	var lastErr error
	backoff := initialBackoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", util.ErrQuoteUnavailable, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		quote, retryable, err := c.fetch(ctx, addr, symbol)
		if err == nil {
			return quote, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", util.ErrQuoteUnavailable, lastErr)
}

// fetch performs a single request. The second return value reports whether
// the failure is transient.
func (c *Client) fetch(ctx context.Context, addr, symbol string) (*domain.Quote, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, true, fmt.Errorf("quote source returned %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("%w: quote source returned %s", util.ErrQuoteUnavailable, resp.Status)
	}

	var result globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, true, fmt.Errorf("failed to parse quote response: %w", err)
	}

	// Alpha Vantage reports unknown symbols as an empty Global Quote.
	if result.GlobalQuote.Price == "" {
		return nil, false, util.ErrSymbolNotFound
	}

	price, err := decimal.NewFromString(result.GlobalQuote.Price)
	if err != nil {
		return nil, false, fmt.Errorf("invalid price %q for %s: %w", result.GlobalQuote.Price, symbol, err)
	}

	name := result.GlobalQuote.Symbol
	if name == "" {
		name = symbol
	}

	return &domain.Quote{Symbol: symbol, Name: name, Price: price}, false, nil
}
