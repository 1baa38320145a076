// Package cloudprint talks to the Google Cloud Print printer directory.
package cloudprint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Directory lists printers and fetches their capabilities.
// This interface is implemented by *Client and can be used for testing.
type Directory interface {
	ListPrinters(ctx context.Context, token string) ([]PrinterRef, error)
	GetPrinter(ctx context.Context, token, printerID string) (PrinterDetails, error)
}

// Ensure Client implements Directory at compile time.
var _ Directory = (*Client)(nil)

var (
	// ErrSearchFailed is returned when /search answers with success=false.
	ErrSearchFailed = errors.New("printer search unsuccessful")

	// ErrUnauthorized is returned when the API rejects the bearer token.
	ErrUnauthorized = errors.New("token rejected")
)

// Client talks to the Cloud Print HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultBaseURL is the public Cloud Print endpoint.
	DefaultBaseURL   = "https://www.google.com/cloudprint"
	defaultUserAgent = "gcpsettings/0.1"
	requestTimeout   = 10 * time.Second
	maxBodyBytes     = 4 << 20
)

// NewClient builds a Client rooted at baseURL. An empty baseURL uses
// DefaultBaseURL; a zero timeout uses the package default.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = requestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// ListPrinters returns the printers visible to the token's account.
func (c *Client) ListPrinters(ctx context.Context, token string) ([]PrinterRef, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("token required")
	}

	resp, err := c.get(ctx, token, c.endpoint("search", nil))
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if unauthorized(resp.StatusCode) {
		return nil, fmt.Errorf("%w: api /search returned status %d", ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("api /search returned status %d", resp.StatusCode)
	}
	var payload searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !payload.Success {
		if payload.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrSearchFailed, payload.Message)
		}
		return nil, ErrSearchFailed
	}

	// Entries are kept as listed, even without an id; such a printer can be
	// shown but never linked.
	printers := make([]PrinterRef, 0, len(payload.Printers))
	for _, p := range payload.Printers {
		printers = append(printers, p.ref())
	}
	return printers, nil
}

// GetPrinter fetches the printer's capability document. Only transport
// failures are returned as errors; callers inspect PrinterDetails.OK.
func (c *Client) GetPrinter(ctx context.Context, token, printerID string) (PrinterDetails, error) {
	if c == nil {
		return PrinterDetails{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(printerID) == "" {
		return PrinterDetails{}, fmt.Errorf("printer id required")
	}
	values := url.Values{}
	values.Set("printerid", printerID)
	values.Set("use_cdd", "true")

	resp, err := c.get(ctx, token, c.endpoint("printer", values))
	if err != nil {
		return PrinterDetails{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return PrinterDetails{}, fmt.Errorf("read response: %w", err)
	}
	return PrinterDetails{
		PrinterID:  printerID,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

func (c *Client) endpoint(name string, values url.Values) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + name
	if values != nil {
		u.RawQuery = values.Encode()
	}
	return &u
}

func (c *Client) get(ctx context.Context, token string, reqURL *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", raw, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
