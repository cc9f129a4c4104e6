// Package bourstad provides a client for the Bourstad simulation portal
package bourstad

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/MedNourS/Bourstad-Helper/internal/common"
	"github.com/MedNourS/Bourstad-Helper/internal/interfaces"
	"github.com/MedNourS/Bourstad-Helper/internal/models"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second

	emailField    = "txt_email"
	passwordField = "txt_password"

	// The portal serves the login prompt again when credentials are
	// rejected. Its French "Se connecter" button text is the only
	// reliable failure marker, so the check must use that exact literal.
	rejectionText = "Se connecter"

	catalogSelector  = "select.select2_demo_3 option"
	holdingsSelector = "table#editable2 tbody tr"
	holdingsColumns  = 6
)

var (
	// ErrNotConfigured indicates a required portal URL is missing
	ErrNotConfigured = errors.New("portal endpoint not configured")

	// ErrLoginRejected indicates the portal refused the credentials
	ErrLoginRejected = errors.New("login rejected by portal")

	// ErrNoSessionTokens indicates suid/aut were absent after login
	ErrNoSessionTokens = errors.New("session tokens missing from redirect URL")
)

// Client implements the PortalClient interface
type Client struct {
	loginURL    string
	catalogURL  string
	detailURL   string
	holdingsURL string
	httpClient  *http.Client
	logger      *common.Logger
	limiter     *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

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

// NewClient creates a new portal client. Only the endpoint URLs are
// copied out of the config; credentials are passed per call and never
// retained.
func NewClient(cfg common.PortalConfig, opts ...ClientOption) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		loginURL:    cfg.LoginURL,
		catalogURL:  cfg.CatalogURL,
		detailURL:   cfg.DetailURL,
		holdingsURL: cfg.HoldingsURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a portal HTTP error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Bourstad portal error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// Login authenticates against the portal: it loads the login page,
// carries every hidden form field into the credential POST, follows the
// redirect chain, and reads the suid/aut tokens off the final URL. Any
// anomaly fails closed with no session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if c.loginURL == "" {
		return nil, fmt.Errorf("login: %w", ErrNotConfigured)
	}

	page, err := c.fetch(ctx, c.loginURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load login page: %w", err)
	}

	form, err := hiddenFields(page)
	if err != nil {
		return nil, fmt.Errorf("failed to parse login page: %w", err)
	}
	form.Set(emailField, email)
	form.Set(passwordField, password)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    "login failed",
			Endpoint:   endpointOf(c.loginURL),
		}
	}
	if bytes.Contains(body, []byte(rejectionText)) {
		return nil, ErrLoginRejected
	}

	// The portal appends the session tokens to the post-login redirect
	// target; resp.Request holds the last request of the chain.
	query := resp.Request.URL.Query()
	session := &models.Session{
		SUID: query.Get("suid"),
		Aut:  query.Get("aut"),
	}
	if !session.Valid() {
		return nil, ErrNoSessionTokens
	}

	c.logger.Info().Msg("Portal login succeeded")
	return session, nil
}

// GetCatalog retrieves the tradable-security dropdown for the session.
// A page without the dropdown yields an empty catalog, not an error.
func (c *Client) GetCatalog(ctx context.Context, session *models.Session) ([]models.CatalogEntry, error) {
	if c.catalogURL == "" {
		return nil, fmt.Errorf("catalog: %w", ErrNotConfigured)
	}
	if !session.Valid() {
		return nil, fmt.Errorf("catalog: %w", ErrNoSessionTokens)
	}

	page, err := c.fetch(ctx, sessionURL(c.catalogURL, session, nil))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog page: %w", err)
	}

	var entries []models.CatalogEntry
	doc.Find(catalogSelector).Each(func(_ int, option *goquery.Selection) {
		entries = append(entries, models.CatalogEntry{
			ID:   option.AttrOr("id", ""),
			Name: strings.TrimSpace(option.Text()),
		})
	})

	c.logger.Debug().Int("entries", len(entries)).Msg("Catalog fetched")
	return entries, nil
}

// GetSecurityDetail retrieves one symbol's transaction page and parses
// it. The raw page bytes are returned alongside the parsed record so
// callers can archive the capture for offline re-parsing.
func (c *Client) GetSecurityDetail(ctx context.Context, session *models.Session, symbol string) (*models.SecurityDetail, []byte, error) {
	if c.detailURL == "" {
		return nil, nil, fmt.Errorf("detail: %w", ErrNotConfigured)
	}
	if !session.Valid() {
		return nil, nil, fmt.Errorf("detail: %w", ErrNoSessionTokens)
	}

	params := url.Values{}
	params.Set("Symbol", symbol)
	page, err := c.fetch(ctx, sessionURL(c.detailURL, session, params))
	if err != nil {
		return nil, nil, err
	}

	detail, err := ParseSecurityDetail(symbol, page)
	if err != nil {
		return nil, nil, err
	}
	return detail, page, nil
}

// ParseSecurityDetail extracts the lightweight detail record from a
// transaction page. Absent elements degrade to empty fields rather than
// failing the record.
func ParseSecurityDetail(symbol string, page []byte) (*models.SecurityDetail, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse detail page: %w", err)
	}

	return &models.SecurityDetail{
		Symbol:    symbol,
		Name:      strings.TrimSpace(doc.Find("h1.stock-name").First().Text()),
		LastPrice: strings.TrimSpace(doc.Find("span.last-price").First().Text()),
		MarketCap: strings.TrimSpace(doc.Find("div.market-cap").First().Text()),
	}, nil
}

// GetHoldings retrieves the dashboard holdings table. A missing table
// yields no positions; a row that fails to parse is skipped without
// aborting the rest.
func (c *Client) GetHoldings(ctx context.Context, session *models.Session) ([]models.OwnedPosition, error) {
	if c.holdingsURL == "" {
		return nil, fmt.Errorf("holdings: %w", ErrNotConfigured)
	}
	if !session.Valid() {
		return nil, fmt.Errorf("holdings: %w", ErrNoSessionTokens)
	}

	page, err := c.fetch(ctx, sessionURL(c.holdingsURL, session, nil))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse holdings page: %w", err)
	}

	var positions []models.OwnedPosition
	doc.Find(holdingsSelector).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < holdingsColumns {
			return
		}

		pos, err := parseHoldingRow(cells)
		if err != nil {
			c.logger.Debug().Err(err).Msg("Skipping holdings row")
			return
		}
		positions = append(positions, pos)
	})

	c.logger.Debug().Int("positions", len(positions)).Msg("Holdings fetched")
	return positions, nil
}

// parseHoldingRow maps the fixed dashboard column order onto an
// OwnedPosition. Price columns arrive currency-formatted.
func parseHoldingRow(cells *goquery.Selection) (models.OwnedPosition, error) {
	quantity, err := strconv.Atoi(strings.TrimSpace(cells.Eq(2).Text()))
	if err != nil {
		return models.OwnedPosition{}, fmt.Errorf("quantity: %w", err)
	}

	averagePrice, err := parseCurrency(cells.Eq(3).Text())
	if err != nil {
		return models.OwnedPosition{}, fmt.Errorf("average price: %w", err)
	}

	currentPrice, err := parseCurrency(cells.Eq(4).Text())
	if err != nil {
		return models.OwnedPosition{}, fmt.Errorf("current price: %w", err)
	}

	return models.OwnedPosition{
		Symbol:         strings.TrimSpace(cells.Eq(0).Text()),
		Name:           strings.TrimSpace(cells.Eq(1).Text()),
		Quantity:       quantity,
		AveragePrice:   averagePrice,
		CurrentPrice:   currentPrice,
		GainLossStatus: strings.TrimSpace(cells.Eq(5).Text()),
	}, nil
}

// parseCurrency parses a currency-formatted cell, stripping the dollar
// sign, thousands separators and spacing (including non-breaking
// spaces, which the portal uses in French formatting).
func parseCurrency(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "", " ", "").Replace(s)
	return strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
}

// hiddenFields collects every hidden input on a form page into POST
// values, keyed by input name.
func hiddenFields(page []byte) (url.Values, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	doc.Find("input[type=hidden]").Each(func(_ int, input *goquery.Selection) {
		name, ok := input.Attr("name")
		if !ok || name == "" {
			return
		}
		form.Set(name, input.AttrOr("value", ""))
	})
	return form, nil
}

// fetch performs a rate-limited GET and returns the response body
func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("endpoint", endpointOf(rawURL)).Msg("Portal request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Endpoint:   endpointOf(rawURL),
		}
	}

	return body, nil
}

// sessionURL appends the session tokens (and any extra parameters) to
// an endpoint URL the way the portal expects them.
func sessionURL(base string, session *models.Session, extra url.Values) string {
	query := url.Values{}
	query.Set("suid", session.SUID)
	query.Set("aut", session.Aut)
	for key, values := range extra {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	return base + "?" + query.Encode()
}

// endpointOf strips the query string so session tokens never reach the
// logs.
func endpointOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String()
}

// Ensure Client implements PortalClient
var _ interfaces.PortalClient = (*Client)(nil)
