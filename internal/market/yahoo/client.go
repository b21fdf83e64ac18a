// Package yahoo fetches quotes, daily bars, ESG scores and headlines from the
// public Yahoo Finance JSON endpoints.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/argentis/internal/models"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Yahoo Finance query host.
	DefaultBaseURL = "https://query2.finance.yahoo.com"

	// DefaultCookieURL issues the session cookie the crumb endpoint requires.
	DefaultCookieURL = "https://fc.yahoo.com"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	crumbTTL = time.Hour
)

// Browser-like headers; Yahoo rejects requests without them.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Referer":         "https://finance.yahoo.com/",
}

// StatusError is a non-200 response from Yahoo.
type StatusError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("yahoo finance error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// Client is a Yahoo Finance client implementing interfaces.MarketDataProvider.
type Client struct {
	baseURL    string
	cookieURL  string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter

	mu      sync.Mutex
	crumb   string
	crumbAt time.Time
	now     func() time.Time
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithCookieURL sets the URL visited to obtain the session cookie.
func WithCookieURL(cookieURL string) ClientOption {
	return func(c *Client) {
		if cookieURL != "" {
			c.cookieURL = cookieURL
		}
	}
}

// WithHTTPClient uses a copy of httpClient. A cookie jar is added to the copy
// when missing; the caller's client is never modified.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			cp := *httpClient
			c.httpClient = &cp
		}
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new Yahoo Finance client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		cookieURL:  DefaultCookieURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		jar, _ := cookiejar.New(nil)
		c.httpClient.Jar = jar
	}

	return c
}

// Name identifies the provider in logs.
func (c *Client) Name() string {
	return "yahoo"
}

func (c *Client) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}
	return req, nil
}

// getCrumb returns the cached crumb or performs the cookie + crumb handshake.
func (c *Client) getCrumb(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb != "" && c.now().Sub(c.crumbAt) < crumbTTL {
		return c.crumb, nil
	}

	// The cookie host answers 404 but still sets the session cookie.
	req, err := c.newRequest(ctx, c.cookieURL)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch session cookie: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	req, err = c.newRequest(ctx, c.baseURL+"/v1/test/getcrumb")
	if err != nil {
		return "", err
	}
	resp, err = c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch crumb: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	crumb := strings.TrimSpace(string(body))
	if resp.StatusCode != http.StatusOK || crumb == "" || strings.ContainsAny(crumb, "<{") {
		return "", &StatusError{StatusCode: resp.StatusCode, Endpoint: "/v1/test/getcrumb", Message: "crumb unavailable"}
	}

	c.crumb = crumb
	c.crumbAt = c.now()
	return crumb, nil
}

func (c *Client) resetCrumb() {
	c.mu.Lock()
	c.crumb = ""
	c.mu.Unlock()
}

// get performs a GET against path and decodes JSON into result.
// On 401 the crumb is refreshed and the request retried once.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		crumb, err := c.getCrumb(ctx)
		if err != nil {
			return err
		}

		q := url.Values{}
		for k, v := range params {
			q[k] = v
		}
		q.Set("crumb", crumb)

		req, err := c.newRequest(ctx, c.baseURL+path+"?"+q.Encode())
		if err != nil {
			return err
		}

		if c.logger != nil {
			c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo Finance request")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to execute request: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			c.resetCrumb()
			continue
		}

		err = decodeResponse(resp, path, result)
		resp.Body.Close()
		return err
	}
}

func decodeResponse(resp *http.Response, path string, result interface{}) error {
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", path, models.ErrTickerNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Endpoint: path, Message: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
