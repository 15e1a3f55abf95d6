package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/vitos/tickerwatch/internal/domain"
	"go.uber.org/zap"
)

const BitfinexBaseURL = "https://api-pub.bitfinex.com/v2"

// Field positions in a trading-pair row of GET /tickers.
const (
	idxSymbol              = 0
	idxDailyChange         = 5
	idxDailyChangeRelative = 6
	idxLastPrice           = 7
	idxVolume              = 8
	idxHigh                = 9
	idxLow                 = 10
	rowLen                 = 11
)

// APIError is an HTTP error response from the exchange.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bitfinex api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// BitfinexAdapter is a domain.QuoteSource backed by the public REST API.
type BitfinexAdapter struct {
	baseURL      string
	client       *http.Client
	logger       *zap.Logger
	maxRetries   int
	retryBackoff time.Duration
}

// Option configures a BitfinexAdapter.
type Option func(*BitfinexAdapter)

func WithTimeout(d time.Duration) Option {
	return func(b *BitfinexAdapter) {
		b.client.Timeout = d
	}
}

func WithRetries(max int, backoff time.Duration) Option {
	return func(b *BitfinexAdapter) {
		b.maxRetries = max
		b.retryBackoff = backoff
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(b *BitfinexAdapter) {
		b.logger = logger
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(b *BitfinexAdapter) {
		b.client = hc
	}
}

func NewBitfinexAdapter(baseURL string, opts ...Option) *BitfinexAdapter {
	if baseURL == "" {
		baseURL = BitfinexBaseURL
	}
	b := &BitfinexAdapter{
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       &http.Client{Timeout: 10 * time.Second},
		logger:       zap.NewNop(),
		maxRetries:   2,
		retryBackoff: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FetchTickers returns one record per trading pair in the response, in response order.
func (b *BitfinexAdapter) FetchTickers(ctx context.Context, symbols []string) ([]domain.RawTicker, error) {
	query := url.Values{}
	query.Set("symbols", strings.Join(symbols, ","))

	body, err := b.doWithRetry(ctx, "/tickers", query)
	if err != nil {
		return nil, err
	}
	return ParseTickers(body)
}

// ParseTickers decodes the array-of-arrays payload of GET /tickers.
func ParseTickers(body []byte) ([]domain.RawTicker, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", domain.ErrMalformedPayload)
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected array, got %s", domain.ErrMalformedPayload, root.Type)
	}

	rows := root.Array()
	if len(rows) == 0 {
		return nil, domain.ErrEmptyPayload
	}
	// Errors come back as ["error", code, "message"].
	if rows[0].String() == "error" && rows[0].Type == gjson.String {
		return nil, fmt.Errorf("bitfinex error %d: %s", root.Get("1").Int(), root.Get("2").String())
	}

	out := make([]domain.RawTicker, 0, len(rows))
	for i, row := range rows {
		if !row.IsArray() {
			return nil, fmt.Errorf("%w: row %d is not an array", domain.ErrMalformedPayload, i)
		}
		fields := row.Array()
		if len(fields) < rowLen {
			return nil, fmt.Errorf("%w: row %d has %d fields, want %d", domain.ErrMalformedPayload, i, len(fields), rowLen)
		}
		if fields[idxSymbol].Type != gjson.String {
			return nil, fmt.Errorf("%w: row %d has no symbol", domain.ErrMalformedPayload, i)
		}

		out = append(out, domain.RawTicker{
			Symbol:             fields[idxSymbol].String(),
			DailyChange:        fields[idxDailyChange].Float(),
			DailyChangePercent: fields[idxDailyChangeRelative].Float() * 100,
			LastPrice:          fields[idxLastPrice].Float(),
			Volume:             fields[idxVolume].Float(),
			High:               fields[idxHigh].Float(),
			Low:                fields[idxLow].Float(),
		})
	}
	return out, nil
}

func (b *BitfinexAdapter) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := b.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}
	return body, nil
}

// doWithRetry retries retryable API errors with jittered exponential backoff.
func (b *BitfinexAdapter) doWithRetry(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var lastErr error
	backoff := b.retryBackoff

	for attempt := 0; attempt <= b.maxRetries; attempt++ {
		if attempt > 0 {
			wait := backoff
			if backoff > 0 {
				wait = backoff/2 + time.Duration(rand.Int64N(int64(backoff)))
			}
			b.logger.Debug("Retrying ticker request",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", wait),
				zap.String("path", path))

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			backoff *= 2
		}

		body, err := b.doRequest(ctx, path, query)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
