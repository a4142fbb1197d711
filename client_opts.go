package hitomi

import "net/http"

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient sets the HTTP client used for all requests. Defaults to
// http.DefaultClient.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = httpClient
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) error {
		c.userAgent = userAgent
		return nil
	}
}

// WithResolverOptions passes options through to the client's image-URI
// resolver.
func WithResolverOptions(opts ...ResolverOption) Option {
	return func(c *Client) error {
		c.resolverOpts = append(c.resolverOpts, opts...)
		return nil
	}
}
