// Package fetch performs the one-shot GET requests the gallery service
// expects: fixed default headers, optional Range, raw body out.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrRejected is returned when the service refuses a request or the
// transport fails. It is re-exported at the library root as ErrNetwork.
var ErrRejected = errors.New("hitomi: request rejected")

// Client issues GET requests with the service's default headers.
type Client struct {
	httpClient *http.Client
	referer    string
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithReferer sets the Referer header sent with each request.
func WithReferer(referer string) Option {
	return func(c *Client) {
		c.referer = referer
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	return c
}

// Get fetches url and returns the response body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url, "")
}

// GetRange fetches url with a Range header, e.g. "bytes=0-463". The service
// answers with 206 and the requested slice.
func (c *Client) GetRange(ctx context.Context, url, byteRange string) ([]byte, error) {
	return c.get(ctx, url, byteRange)
}

func (c *Client) get(ctx context.Context, url, byteRange string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrRejected, url, err)
	}
	req.Header.Set("Accept", "*/*")
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if byteRange != "" {
		req.Header.Set("Range", byteRange)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrRejected, url, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusPartialContent:
	default:
		return nil, fmt.Errorf("%w: GET %s: status %s", ErrRejected, url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrRejected, url, err)
	}
	return body, nil
}
