// Package sbb implements the catalog.Source interface for the SBB FDK
// (Swiss Federal Railways facility data catalog) HTTP API.
package sbb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"fdk/internal/catalog"
	"fdk/internal/domain"
)

// DefaultBaseURL is the production SBB FDK API endpoint.
const DefaultBaseURL = "https://bim-fdk-api.app.sbb.ch"

// supportedLanguages are the language codes the API accepts.
var supportedLanguages = []string{"de", "fr", "it", "en"}

// Config holds the SBB client settings.
type Config struct {
	// BaseURL is the API endpoint. Empty means DefaultBaseURL.
	BaseURL string `mapstructure:"base_url"`

	// Timeout is the per-request timeout. Zero means 30 seconds.
	Timeout time.Duration `mapstructure:"timeout"`

	// RateLimit caps outgoing requests per second. Zero disables the cap.
	RateLimit float64 `mapstructure:"rate_limit"`

	// RateBurst is the limiter burst size. Zero means 1.
	RateBurst int `mapstructure:"rate_burst"`
}

// Client is an HTTP client for the SBB FDK API.
// It performs single attempts; retry policy belongs to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// New creates a new SBB FDK client.
func New(cfg Config, opts ...Option) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst == 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchListing retrieves the complete catalog listing.
func (c *Client) FetchListing(ctx context.Context, language string) (*catalog.Listing, error) {
	if err := c.checkLanguage(language); err != nil {
		return nil, err
	}

	var resp objectsResponse
	if err := c.getJSON(ctx, "fetch listing", "/objects", language, &resp); err != nil {
		return nil, err
	}

	return mapListing(resp), nil
}

// FetchObject retrieves one object with full details.
func (c *Client) FetchObject(ctx context.Context, id domain.ObjectID, language string) (*domain.CatalogObject, error) {
	if err := c.checkLanguage(language); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.ErrInvalidObjectID
	}

	var resp detailObject
	err := c.getJSON(ctx, "fetch object", "/objects/"+url.PathEscape(string(id)), language, &resp)
	if err != nil {
		if errors.Is(err, domain.ErrObjectNotFound) {
			return nil, &domain.NotFoundError{ObjectID: id}
		}
		return nil, err
	}

	return mapDetail(resp), nil
}

// SupportedLanguages returns the language codes the API accepts.
func (c *Client) SupportedLanguages() []string {
	langs := make([]string, len(supportedLanguages))
	copy(langs, supportedLanguages)
	return langs
}

// getJSON performs a GET request and decodes the JSON response.
// A 404 maps to domain.ErrObjectNotFound; other failures become
// domain.SourceError wrapping the cause.
func (c *Client) getJSON(ctx context.Context, op, path, language string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &domain.SourceError{Op: op, Err: err}
	}

	reqURL := c.baseURL + path + "?language=" + url.QueryEscape(language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &domain.SourceError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.SourceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrObjectNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return &domain.SourceError{Op: op, Err: fmt.Errorf("unexpected status: %s", resp.Status)}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &domain.SourceError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}

func (c *Client) checkLanguage(language string) error {
	for _, lang := range supportedLanguages {
		if lang == language {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (supported: %s)",
		domain.ErrInvalidLanguage, language, strings.Join(supportedLanguages, ", "))
}

// Ensure interface compliance
var _ catalog.Source = (*Client)(nil)
