// Package yahoo provides a client for the Yahoo Finance quote API
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/MedNourS/Bourstad-Helper/internal/common"
	"github.com/MedNourS/Bourstad-Helper/internal/interfaces"
	"github.com/MedNourS/Bourstad-Helper/internal/models"
)

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 4 // requests per second

	// Yahoo rejects requests that do not present a browser user agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var (
	// ErrNoData indicates the provider has no record for the symbol
	ErrNoData = errors.New("no data for symbol")

	// ErrDelisted indicates the record carries no listing metadata
	ErrDelisted = errors.New("symbol appears delisted")
)

// Client implements the MarketDataClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Yahoo Finance error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", path).Msg("Yahoo Finance request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetQuote retrieves and normalizes the current quote for one symbol.
// A record without listing metadata is reported as delisted; a missing
// price makes the record unusable. Neither outcome is cached upstream.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.MarketSnapshot, error) {
	params := url.Values{}
	params.Set("symbols", symbol)

	var resp quoteResponse
	if err := c.get(ctx, "/v7/finance/quote", params, &resp); err != nil {
		return nil, err
	}

	if len(resp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("%q: %w", symbol, ErrNoData)
	}

	quote := resp.QuoteResponse.Result[0]
	if quote.ExchangeTimezoneName == "" {
		return nil, fmt.Errorf("%q: %w", symbol, ErrDelisted)
	}
	if quote.RegularMarketPrice == nil {
		return nil, fmt.Errorf("%q: no current price: %w", symbol, ErrNoData)
	}

	name := quote.LongName
	if name == "" {
		name = quote.ShortName
	}

	return &models.MarketSnapshot{
		Symbol:        symbol,
		Name:          name,
		Currency:      quote.Currency,
		Exchange:      quote.FullExchangeName,
		CurrentPrice:  floatPtr(quote.RegularMarketPrice),
		MarketCap:     floatPtr(quote.MarketCap),
		High52Week:    floatPtr(quote.FiftyTwoWeekHigh),
		Low52Week:     floatPtr(quote.FiftyTwoWeekLow),
		PE:            floatPtr(quote.TrailingPE),
		EPS:           floatPtr(quote.EPSTrailingTwelveMonths),
		DividendYield: floatPtr(quote.TrailingAnnualDividendYield),
		Volume:        quote.RegularMarketVolume,
	}, nil
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  *apiMessage   `json:"error"`
	} `json:"quoteResponse"`
}

type quoteResult struct {
	Symbol                      string       `json:"symbol"`
	LongName                    string       `json:"longName"`
	ShortName                   string       `json:"shortName"`
	Currency                    string       `json:"currency"`
	FullExchangeName            string       `json:"fullExchangeName"`
	ExchangeTimezoneName        string       `json:"exchangeTimezoneName"`
	RegularMarketPrice          *flexFloat64 `json:"regularMarketPrice"`
	MarketCap                   *flexFloat64 `json:"marketCap"`
	FiftyTwoWeekHigh            *flexFloat64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow             *flexFloat64 `json:"fiftyTwoWeekLow"`
	RegularMarketVolume         *int64       `json:"regularMarketVolume"`
	TrailingPE                  *flexFloat64 `json:"trailingPE"`
	EPSTrailingTwelveMonths     *flexFloat64 `json:"epsTrailingTwelveMonths"`
	TrailingAnnualDividendYield *flexFloat64 `json:"trailingAnnualDividendYield"`
}

type apiMessage struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// GetDailyBars retrieves daily open/close/volume bars for [from, to).
// Slots the provider nulls out are dropped; an empty window is not an
// error.
func (c *Client) GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.DailyBar, error) {
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(from.Unix(), 10))
	params.Set("period2", strconv.FormatInt(to.Unix(), 10))
	params.Set("interval", "1d")

	var resp chartResponse
	if err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), params, &resp); err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("%q: %s: %w", symbol, resp.Chart.Error.Description, ErrNoData)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%q: %w", symbol, ErrNoData)
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	var bars []models.DailyBar
	for i, ts := range result.Timestamp {
		openPx := at(quote.Open, i)
		closePx := at(quote.Close, i)
		volume := atInt(quote.Volume, i)
		if openPx == nil || closePx == nil {
			continue
		}

		bar := models.DailyBar{
			Date:  time.Unix(ts, 0).UTC(),
			Open:  *openPx,
			Close: *closePx,
		}
		if volume != nil {
			bar.Volume = *volume
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiMessage `json:"error"`
	} `json:"chart"`
}

// at indexes a nullable series, tolerating ragged lengths.
func at(series []*float64, i int) *float64 {
	if i >= len(series) {
		return nil
	}
	return series[i]
}

func atInt(series []*int64, i int) *int64 {
	if i >= len(series) {
		return nil
	}
	return series[i]
}

func floatPtr(f *flexFloat64) *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
