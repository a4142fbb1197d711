package hitomi

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hitogo/hitomi/internal/idset"
)

// IDRange selects a slice of a search result by position. End <= 0 means
// unbounded.
type IDRange struct {
	Start int
	End   int
}

// SearchQuery describes one gallery-id search. All criteria are optional;
// an empty query returns the full index in its native order.
type SearchQuery struct {
	// Title matches galleries whose titles contain every word.
	Title string

	// Tags narrows the result; negative tags subtract their matches.
	Tags []Tag

	// Range slices the result. Without Title and Tags the slice is pushed
	// down to the service as a byte-range read.
	Range *IDRange

	// Popularity orders the result by a popularity period instead of by
	// date.
	Popularity PopularityPeriod
}

// GalleryIDs runs a search and returns matching gallery ids, preserving
// the service's result order. Independent index fetches run concurrently.
func (c *Client) GalleryIDs(ctx context.Context, query SearchQuery) ([]int, error) {
	hasTitle := query.Title != ""
	hasTags := len(query.Tags) > 0
	hasRange := query.Range != nil
	sliceResult := hasRange && (hasTitle || hasTags)

	var words []string
	if hasTitle {
		words = strings.Split(strings.ToLower(query.Title), " ")
		for _, word := range words {
			if word == "" {
				return nil, fmt.Errorf("%w: title must not contain continuous or edge spaces", ErrInvalidValue)
			}
		}
	}

	var version string
	if hasTitle {
		v, err := c.index.Version(ctx)
		if err != nil {
			return nil, err
		}
		version = v
	}

	g, gctx := errgroup.WithContext(ctx)

	// The ordered set restricts the base index when the caller asked for
	// popularity ordering, positional pagination, or leads with a
	// negative tag (which subtracts and therefore needs the full base).
	var orderedSet *idset.Set
	if query.Popularity != "" || hasRange || (hasTags && query.Tags[0].IsNegative) {
		g.Go(func() error {
			uri := NozomiURI(NozomiOptions{Popularity: query.Popularity})
			var body []byte
			var err error
			if hasRange && !sliceResult {
				body, err = c.fetcher.GetRange(gctx, uri, nozomiByteRange(query.Range))
			} else {
				body, err = c.fetcher.Get(gctx, uri)
			}
			if err != nil {
				return err
			}
			orderedSet = idset.Decode(body, false)
			return nil
		})
	}

	wordSets := make([]*idset.Set, len(words))
	for i, word := range words {
		i, word := i, word
		g.Go(func() error {
			set, err := c.titleWordIDs(gctx, version, word)
			if err != nil {
				return err
			}
			wordSets[i] = set
			return nil
		})
	}

	tagSets := make([]*idset.Set, len(query.Tags))
	for i, tag := range query.Tags {
		i, tag := i, tag
		g.Go(func() error {
			body, err := c.fetcher.Get(gctx, NozomiURI(NozomiOptions{Tag: &tag}))
			if err != nil {
				return err
			}
			tagSets[i] = idset.Decode(body, tag.IsNegative)
			return nil
		})
	}

	var base *idset.Set
	g.Go(func() error {
		body, err := c.fetcher.Get(gctx, NozomiURI(NozomiOptions{}))
		if err != nil {
			return err
		}
		base = idset.Decode(body, false)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if orderedSet != nil {
		base.Apply(orderedSet)
	}
	for _, set := range wordSets {
		base.Apply(set)
	}
	for _, set := range tagSets {
		base.Apply(set)
	}

	ids := base.IDs()
	if sliceResult {
		ids = sliceIDs(ids, query.Range)
	}
	return ids, nil
}

// titleWordIDs resolves one title word through the remote word index. An
// absent word yields an empty set, which empties the whole result.
func (c *Client) titleWordIDs(ctx context.Context, version, word string) (*idset.Set, error) {
	digest := sha256.Sum256([]byte(word))
	ref, found, err := c.index.Search(ctx, version, digest[:4])
	if err != nil {
		return nil, err
	}
	if !found {
		return idset.New(false), nil
	}
	body, err := c.index.Data(ctx, version, ref)
	if err != nil {
		return nil, err
	}
	return idset.Decode(body, false), nil
}

// nozomiByteRange converts an id range to the byte range of the packed
// 4-byte ids backing it.
func nozomiByteRange(r *IDRange) string {
	start := r.Start * 4
	if r.End > 0 {
		return fmt.Sprintf("bytes=%d-%d", start, r.End*4-1)
	}
	return fmt.Sprintf("bytes=%d-", start)
}

func sliceIDs(ids []int, r *IDRange) []int {
	start := min(max(r.Start, 0), len(ids))
	end := len(ids)
	if r.End > 0 {
		end = min(r.End, len(ids))
	}
	if start >= end {
		return nil
	}
	return ids[start:end]
}
