package hitomi

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// tagTypes are the tag categories the service indexes.
var tagTypes = map[string]struct{}{
	"artist":    {},
	"group":     {},
	"type":      {},
	"language":  {},
	"series":    {},
	"character": {},
	"male":      {},
	"female":    {},
	"tag":       {},
}

var tagNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-_.]*$`)

// ParseTags parses a space-separated tag expression such as
// "language:english female:glasses -male:shota". A leading dash marks a
// negative tag. Underscores in names become spaces, matching how the
// service spells multi-word tags in URLs.
func ParseTags(text string) ([]Tag, error) {
	var tags []Tag
	seen := make(map[string]struct{})

	for _, field := range strings.Split(text, " ") {
		colon := strings.IndexByte(field, ':')
		if colon < 0 {
			return nil, fmt.Errorf("%w: %q is not a type:name tag", ErrInvalidValue, field)
		}

		isNegative := strings.HasPrefix(field, "-")
		tagType := field[:colon]
		if isNegative {
			tagType = tagType[1:]
		}
		name := field[colon+1:]

		if _, ok := tagTypes[tagType]; !ok {
			return nil, fmt.Errorf("%w: %q must be one of %s", ErrInvalidValue, tagType, allowedTagTypes())
		}
		if !tagNamePattern.MatchString(name) {
			return nil, fmt.Errorf("%w: %q must match /^[a-z0-9][a-z0-9-_.]*$/", ErrInvalidValue, name)
		}

		raw := tagType + ":" + name
		if _, dup := seen[raw]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTag, raw)
		}
		seen[raw] = struct{}{}

		tags = append(tags, Tag{
			Type:       tagType,
			Name:       strings.ReplaceAll(name, "_", " "),
			IsNegative: isNegative,
		})
	}

	return tags, nil
}

func allowedTagTypes() string {
	names := make([]string, 0, len(tagTypes))
	for name := range tagTypes {
		names = append(names, "'"+name+"'")
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// galleryTypeTags is the fixed listing for the type category; the service
// has no page for it.
var galleryTypeTags = []Tag{
	{Type: "type", Name: "doujinshi"},
	{Type: "type", Name: "manga"},
	{Type: "type", Name: "artistcg"},
	{Type: "type", Name: "gamecg"},
	{Type: "type", Name: "imageset"},
	{Type: "type", Name: "anime"},
}

// Tags fetches the tag listing for tagType. Alphabetical categories
// require startsWith (a letter or "0-9"); type and language forbid it.
func (c *Client) Tags(ctx context.Context, tagType, startsWith string) ([]Tag, error) {
	isType := tagType == "type"
	isLanguage := tagType == "language"
	if (startsWith != "") == (isType || isLanguage) {
		return nil, fmt.Errorf("%w: startsWith must be set for every tag type except type and language", ErrInvalidValue)
	}

	if isType {
		out := make([]Tag, len(galleryTypeTags))
		copy(out, galleryTypeTags)
		return out, nil
	}

	uri, err := TagURI(tagType, startsWith)
	if err != nil {
		return nil, err
	}
	body, err := c.fetcher.Get(ctx, uri)
	if err != nil {
		return nil, err
	}

	if isLanguage {
		return parseLanguageListing(string(body)), nil
	}
	return parseTagListing(string(body), tagType), nil
}

// parseTagListing scans a listing page for tag links. Links end in
// "-<letter>.html"; the four characters before the extension dot are the
// per-letter suffix and get stripped.
func parseTagListing(response, tagType string) []Tag {
	target := `href="/`
	if tagType == "male" || tagType == "female" {
		target += "tag/" + tagType + "%3A"
	} else {
		target += tagType + "/"
	}

	var tags []Tag
	pos := strings.Index(response, target)
	for pos >= 0 {
		current := pos + len(target)
		next := strings.Index(response[current:], ".")
		if next < 0 {
			break
		}
		next += current

		// The generic tag page also lists gendered tags; those belong to
		// the male/female categories.
		skip := tagType == "tag" &&
			(strings.HasPrefix(response[current:], "male") || strings.HasPrefix(response[current:], "female"))

		if !skip && next-4 > current {
			candidate := response[current : next-4]
			if name, err := url.PathUnescape(candidate); err == nil {
				tags = append(tags, Tag{Type: tagType, Name: name})
			}
		}

		pos = strings.Index(response[next:], target)
		if pos >= 0 {
			pos += next
		}
	}
	return tags
}

// parseLanguageListing extracts language names from the language-support
// document, a single flat JSON object.
func parseLanguageListing(response string) []Tag {
	end := strings.Index(response, "}")
	if end < 0 {
		return nil
	}

	var tags []Tag
	current := strings.Index(response, ":")
	if current < 0 {
		return nil
	}
	current += 2

	for current < end {
		next := strings.Index(response[current:], `"`)
		if next < 0 {
			break
		}
		next += current
		if next >= end {
			break
		}
		tags = append(tags, Tag{Type: "language", Name: response[current:next]})

		colon := strings.Index(response[next:], ":")
		if colon < 0 {
			break
		}
		current = next + colon + 2
	}
	return tags
}
