// Package hitomi provides a client for the hitomi.la gallery service:
// gallery metadata retrieval, tag-based search over the remote index,
// and construction of download URLs for gallery images.
//
// Image URLs depend on a set of URL-construction rules published by the
// service in a remote document that changes over time. The
// [ImageURIResolver] caches those rules process-wide: the first
// Synchronize call fetches and parses them, concurrent callers share that
// single fetch, and resolution itself is a pure function over the cached
// snapshot.
//
// # Quick Start
//
// Fetch a gallery and build URLs for its images:
//
//	c := hitomi.NewClient()
//	if err := c.Resolver().Synchronize(); err != nil {
//	    return err
//	}
//	g, err := c.Gallery(ctx, 1861463)
//	if err != nil {
//	    return err
//	}
//	for _, img := range g.Files {
//	    u, err := c.Resolver().ImageURL(img, hitomi.ExtensionWebP, hitomi.ImageURLOptions{})
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(u)
//	}
//
// # Search
//
// Combine tags and title words into an id search:
//
//	tags, err := hitomi.ParseTags("language:english female:glasses -male:shota")
//	if err != nil {
//	    return err
//	}
//	ids, err := c.GalleryIDs(ctx, hitomi.SearchQuery{Tags: tags})
//
// # Rule cache lifecycle
//
// The resolver's rule cache is explicit: it is empty until a Synchronize
// succeeds, stays populated until ClearCache, and never refreshes behind
// the caller's back. ImageURL never performs I/O; calling it before a
// successful Synchronize returns [ErrNotSynchronized].
package hitomi
