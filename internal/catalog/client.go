package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"karolbroda.com/moosic/internal/config"
)

var (
	ErrNoToken  = errors.New("token is not set")
	ErrNoUserID = errors.New("user id is unknown, validate the token first")

	ErrPlaylistNotFound = errors.New("playlist not found")
)

// APIError is a business error reported by the catalog inside a 200 response:
// bad token, missing permission, rate limit and so on.
type APIError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog error %d", e.Code)
	}
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// Session is the authenticated caller. It is read-only input to every call.
type Session struct {
	Token  string
	UserID int64
}

func (s Session) HasToken() bool {
	return strings.TrimSpace(s.Token) != ""
}

type Options struct {
	BaseURL    string
	Version    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL    *url.URL
	version    string
	userAgent  string
	httpClient *http.Client
}

type envelope struct {
	Response json.RawMessage `json:"response"`
	Error    *APIError       `json:"error"`
}

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = config.DefaultAPIURL
	}
	if opts.Version == "" {
		opts.Version = config.DefaultAPIVersion
	}
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = config.HTTPTimeout
	}

	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", opts.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: missing scheme or host", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(opts.Timeout)
	}

	return &Client{
		baseURL:    base,
		version:    opts.Version,
		userAgent:  opts.UserAgent,
		httpClient: httpClient,
	}, nil
}

// NewHTTPClient returns a client with a small keep-alive pool sized for one
// interactive user.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     60 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// HTTPClient exposes the underlying client so downloads reuse the same pool.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *Client) UserAgent() string {
	return c.userAgent
}

// Call performs GET {base}/{method} and decodes the "response" member into out.
func (c *Client) Call(ctx context.Context, s Session, method string, params url.Values, out any) error {
	if !s.HasToken() {
		return ErrNoToken
	}

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("access_token", s.Token)
	query.Set("v", c.version)

	endpoint := c.baseURL.JoinPath(method)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	slog.Debug("catalog call", "method", method, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if env.Error != nil {
		return env.Error
	}
	if len(env.Response) == 0 || string(env.Response) == "null" {
		return fmt.Errorf("%s response has neither result nor error", method)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Response, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}
