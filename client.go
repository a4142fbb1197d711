package hitomi

import (
	"net/http"

	"github.com/hitogo/hitomi/internal/fetch"
	"github.com/hitogo/hitomi/internal/galleryindex"
)

// Client provides high-level access to the gallery service: metadata
// retrieval, id search over the remote index, tag listings and image URL
// resolution.
//
// A Client is safe for concurrent use. The embedded image-URI resolver is
// shared; its rule cache is populated once and reused by every caller.
type Client struct {
	httpClient   *http.Client
	userAgent    string
	resolverOpts []ResolverOption

	fetcher  *fetch.Client
	resolver *ImageURIResolver
	index    *galleryindex.Client
}

// NewClient creates a client with the given options.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	fetchOpts := []fetch.Option{fetch.WithReferer("https://" + BaseDomain)}
	if c.httpClient != nil {
		fetchOpts = append(fetchOpts, fetch.WithHTTPClient(c.httpClient))
	}
	if c.userAgent != "" {
		fetchOpts = append(fetchOpts, fetch.WithUserAgent(c.userAgent))
	}
	c.fetcher = fetch.New(fetchOpts...)

	c.resolver = NewImageURIResolver(c.fetcher.Get, c.resolverOpts...)

	index, err := galleryindex.New(c.fetcher, "https://"+ResourceDomain+"/galleriesindex")
	if err != nil {
		return nil, err
	}
	c.index = index

	return c, nil
}

// Resolver returns the client's image-URI resolver.
func (c *Client) Resolver() *ImageURIResolver {
	return c.resolver
}
