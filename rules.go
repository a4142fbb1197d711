package hitomi

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// subdomainCount is the size of the subdomain space image URLs are spread
// across. Hash-derived indexes are taken modulo this value.
const subdomainCount = 4

// RuleSet is one immutable snapshot of the URL-construction rules published
// by the service. All fields come from a single successful fetch and parse;
// a RuleSet is never mutated after it is installed in the resolver.
type RuleSet struct {
	// PathCode is the time-varying path segment embedded in full-size
	// image URLs.
	PathCode string

	// StartsWithA selects the base letter used to build subdomain names.
	StartsWithA bool

	// excluded holds subdomain indexes that must not be used. May be
	// empty, but never covers the whole subdomain space.
	excluded map[int]struct{}

	// FetchedAt records when this snapshot was retrieved.
	FetchedAt time.Time
}

// IsExcluded reports whether the given subdomain index must not be used.
func (r *RuleSet) IsExcluded(index int) bool {
	_, ok := r.excluded[index]
	return ok
}

// ExcludedIndexes returns the excluded subdomain indexes. The returned
// slice is a copy.
func (r *RuleSet) ExcludedIndexes() []int {
	out := make([]int, 0, len(r.excluded))
	for i := range r.excluded {
		out = append(out, i)
	}
	return out
}

// parseRules extracts a RuleSet from the raw rules document.
//
// The document is a small script; the lines of interest are keyed by their
// first character: "b" carries the path code, "o" the orientation flag and
// "c" one excluded index each. The path code and orientation flag are
// mandatory, the exclusion list may be empty. Any malformed line or an
// exclusion list covering the whole subdomain space fails the parse as a
// whole; no partial result is ever returned.
func parseRules(text string) (*RuleSet, error) {
	var (
		pathCode       string
		startsWithA    bool
		sawPathCode    bool
		sawOrientation bool
		excluded       = make(map[int]struct{})
	)

	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		switch line[0] {
		case 'b':
			if len(line) < 7 {
				return nil, fmt.Errorf("%w: truncated path-code line %q", ErrParse, line)
			}
			pathCode = line[4 : len(line)-2]
			sawPathCode = true
		case 'o':
			if len(line) < 5 {
				return nil, fmt.Errorf("%w: truncated orientation line %q", ErrParse, line)
			}
			startsWithA = line[4] == '0'
			sawOrientation = true
		case 'c':
			if len(line) < 7 {
				return nil, fmt.Errorf("%w: truncated case line %q", ErrParse, line)
			}
			index, err := strconv.Atoi(line[5 : len(line)-1])
			if err != nil {
				return nil, fmt.Errorf("%w: case line %q: %v", ErrParse, line, err)
			}
			excluded[((index%subdomainCount)+subdomainCount)%subdomainCount] = struct{}{}
		}
	}

	if !sawPathCode || pathCode == "" {
		return nil, fmt.Errorf("%w: rules document missing path code", ErrParse)
	}
	if !sawOrientation {
		return nil, fmt.Errorf("%w: rules document missing orientation flag", ErrParse)
	}
	if len(excluded) >= subdomainCount {
		return nil, fmt.Errorf("%w: rules document excludes every subdomain", ErrParse)
	}

	return &RuleSet{
		PathCode:    pathCode,
		StartsWithA: startsWithA,
		excluded:    excluded,
	}, nil
}

// newRuleSet builds a RuleSet directly. Used by tests that need a snapshot
// without going through a fetch.
func newRuleSet(pathCode string, startsWithA bool, excluded []int) *RuleSet {
	set := make(map[int]struct{}, len(excluded))
	for _, i := range excluded {
		set[i] = struct{}{}
	}
	return &RuleSet{
		PathCode:    pathCode,
		StartsWithA: startsWithA,
		excluded:    set,
		FetchedAt:   time.Now(),
	}
}
