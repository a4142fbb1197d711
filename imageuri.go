package hitomi

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"
)

// FetchFunc performs a single GET against the given URL and returns the raw
// response body. Implementations should fail with an error wrapping
// [ErrNetwork] on transport failures; the resolver never retries on its own.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// ImageURLOptions selects a rendition variant.
type ImageURLOptions struct {
	// IsThumbnail requests the thumbnail rendition instead of the
	// full-size image.
	IsThumbnail bool

	// IsSmall requests the reduced thumbnail. Only valid together with
	// IsThumbnail and the avif extension.
	IsSmall bool
}

// ImageURIResolver caches the service's URL-construction rules and builds
// image download URLs from them.
//
// The cache starts empty. Synchronize (or SynchronizeContext) fetches and
// parses the rules document exactly once per cache epoch: concurrent
// callers serialize on a single lock, the first one performs the fetch and
// the rest observe its outcome without issuing a second request. ClearCache
// starts a new epoch. ImageURL reads the current snapshot without locking
// and never performs I/O.
type ImageURIResolver struct {
	fetch    FetchFunc
	rulesURL string
	domain   string

	// lock is the single mutual-exclusion primitive guarding rule
	// installation and invalidation. A capacity-1 channel so it can be
	// acquired both unconditionally and under a context.
	lock chan struct{}

	rules atomic.Pointer[RuleSet]

	// attempts counts completed fetch attempts. lastErr records the
	// outcome of the most recent one. Both let a caller that waited out
	// an in-flight fetch share its result instead of fetching again.
	// lastErr is guarded by lock; attempts is read before acquiring it.
	attempts atomic.Uint64
	lastErr  error
}

// ResolverOption configures an ImageURIResolver.
type ResolverOption func(*ImageURIResolver)

// WithRulesURL overrides the URL of the rules document.
func WithRulesURL(url string) ResolverOption {
	return func(r *ImageURIResolver) {
		r.rulesURL = url
	}
}

// WithImageDomain overrides the base domain used in resolved image URLs.
func WithImageDomain(domain string) ResolverOption {
	return func(r *ImageURIResolver) {
		r.domain = domain
	}
}

// NewImageURIResolver creates a resolver that fetches the rules document
// with fetch. The cache starts empty; call Synchronize before resolving
// URLs.
func NewImageURIResolver(fetch FetchFunc, opts ...ResolverOption) *ImageURIResolver {
	r := &ImageURIResolver{
		fetch:    fetch,
		rulesURL: "https://" + ResourceDomain + "/gg.js",
		domain:   BaseDomain,
		lock:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Synchronize populates the rule cache if it is empty, blocking until the
// fetch completes. A no-op when the cache is already populated. On failure
// the cache stays empty and the error is returned; a later call may try
// again.
func (r *ImageURIResolver) Synchronize() error {
	return r.synchronize(context.Background())
}

// SynchronizeContext is the context-aware form of Synchronize. The context
// is honored while waiting for the lock and during the fetch itself; it
// shares the same lock as Synchronize, so mixed callers still produce at
// most one fetch.
func (r *ImageURIResolver) SynchronizeContext(ctx context.Context) error {
	return r.synchronize(ctx)
}

func (r *ImageURIResolver) synchronize(ctx context.Context) error {
	seen := r.attempts.Load()

	select {
	case r.lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-r.lock }()

	if r.rules.Load() != nil {
		return nil
	}

	// An attempt completed while this caller waited for the lock: share
	// its outcome. A nil outcome with an empty cache means the installed
	// rules were invalidated in the meantime; that starts a new epoch, so
	// fall through to a fresh fetch.
	if r.attempts.Load() != seen && r.lastErr != nil {
		return r.lastErr
	}

	err := r.populate(ctx)
	r.lastErr = err
	r.attempts.Add(1)
	return err
}

func (r *ImageURIResolver) populate(ctx context.Context) error {
	body, err := r.fetch(ctx, r.rulesURL)
	if err != nil {
		return fmt.Errorf("fetch rules: %w", err)
	}
	rules, err := parseRules(string(body))
	if err != nil {
		return err
	}
	rules.FetchedAt = time.Now()
	r.rules.Store(rules)
	return nil
}

// ClearCache discards the cached rules unconditionally, competing for the
// same lock as Synchronize. A fetch already in flight still installs its
// result when it completes; clearing afterwards removes it again.
func (r *ImageURIResolver) ClearCache() {
	r.lock <- struct{}{}
	r.rules.Store(nil)
	<-r.lock
}

// Snapshot returns the current rule set, or false if the cache is empty.
// It never blocks.
func (r *ImageURIResolver) Snapshot() (*RuleSet, bool) {
	rules := r.rules.Load()
	return rules, rules != nil
}

// ImageURL builds the download URL for one rendition of an image using the
// cached rules. It performs no I/O: if the cache is empty it fails with
// [ErrNotSynchronized] instead of fetching. Identical inputs against the
// same snapshot always produce the same URL.
func (r *ImageURIResolver) ImageURL(image Image, extension Extension, opts ImageURLOptions) (string, error) {
	rules, ok := r.Snapshot()
	if !ok {
		return "", fmt.Errorf("%w: call Synchronize first", ErrNotSynchronized)
	}
	return ResolveImageURL(image, extension, opts, rules, r.domain)
}

// ResolveImageURL is the pure resolution function behind
// [ImageURIResolver.ImageURL]: it maps an image, a rendition request and a
// rule snapshot to a URL deterministically.
//
// The subdomain index is derived from the image hash modulo the subdomain
// space; an excluded index deterministically falls back to the next
// non-excluded one, so every image maps to exactly one valid subdomain.
// The rule set's orientation flag selects the base subdomain letter.
func ResolveImageURL(image Image, extension Extension, opts ImageURLOptions, rules *RuleSet, domain string) (string, error) {
	switch extension {
	case ExtensionWebP, ExtensionAVIF, ExtensionJXL:
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrInvalidCombination, extension)
	}
	if !image.Has(extension) {
		return "", fmt.Errorf("%w: image %q has no %s rendition", ErrInvalidCombination, image.Hash, extension)
	}
	if opts.IsSmall && (!opts.IsThumbnail || extension != ExtensionAVIF) {
		return "", fmt.Errorf("%w: small variant requires an avif thumbnail", ErrInvalidCombination)
	}

	hashCode, err := imageHashCode(image.Hash)
	if err != nil {
		return "", err
	}

	index := int(hashCode % subdomainCount)
	for attempt := 0; attempt < subdomainCount; attempt++ {
		if !rules.IsExcluded(index) {
			break
		}
		index = (index + 1) % subdomainCount
	}

	base := byte('a')
	if !rules.StartsWithA {
		base = 'b'
	}
	letter := string(base + byte(index))

	var subdomain, path string
	if opts.IsThumbnail {
		subdomain = "tn" + letter
		n := len(image.Hash)
		path = "bigtn/" + image.Hash[n-1:] + "/" + image.Hash[n-3:n-1] + "/" + image.Hash
		if opts.IsSmall {
			path = "small" + path
		}
	} else {
		subdomain = string(extension[0]) + letter
		path = rules.PathCode + "/" + strconv.FormatUint(uint64(hashCode), 10) + "/" + image.Hash
	}

	return "https://" + subdomain + "." + domain + "/" + path + "." + string(extension), nil
}

// imageHashCode derives the numeric code used for subdomain selection and
// full-size paths from an image hash: the last hex digit followed by the
// two digits before it, read as one base-16 number.
func imageHashCode(hash string) (uint32, error) {
	if len(hash) < 3 {
		return 0, fmt.Errorf("%w: image hash %q too short", ErrInvalidValue, hash)
	}
	n := len(hash)
	code, err := strconv.ParseUint(hash[n-1:]+hash[n-3:n-1], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: image hash %q not hexadecimal", ErrInvalidValue, hash)
	}
	return uint32(code), nil
}
