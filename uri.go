package hitomi

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// BaseDomain hosts gallery pages and the image subdomains.
	BaseDomain = "gold-usergeneratedcontent.net"

	// ResourceDomain hosts metadata documents, index files and the rules
	// document.
	ResourceDomain = "ltn." + BaseDomain
)

// NozomiOptions selects which gallery-id index file to address.
type NozomiOptions struct {
	// Tag narrows the index to one tag. A language tag selects the
	// language column of the plain index instead of a tag index.
	Tag *Tag

	// Popularity selects a popularity-ordered index. Empty means ordered
	// by date. Ignored when Tag is set.
	Popularity PopularityPeriod
}

// NozomiURI returns the URL of the .nozomi gallery-id index described by
// opts.
func NozomiURI(opts NozomiOptions) string {
	path := "index"
	language := "all"

	switch {
	case opts.Tag != nil:
		tag := opts.Tag
		switch tag.Type {
		case "male", "female":
			path = "tag/" + tag.Type + ":" + percentEncode(tag.Name)
		case "language":
			language = tag.Name
		default:
			path = tag.Type + "/" + percentEncode(tag.Name)
		}
	case opts.Popularity != "":
		if opts.Popularity == PopularityDay {
			path = "today"
		} else {
			path = string(opts.Popularity)
		}
	}

	prefix := "n"
	if opts.Popularity != "" && opts.Tag == nil {
		prefix = "popular"
	}
	return "https://" + ResourceDomain + "/" + prefix + "/" + path + "-" + language + ".nozomi"
}

// TagURI returns the URL of the tag listing page for tagType. Alphabetical
// tag types require startsWith (a letter, or "0-9"); the language type
// forbids it.
func TagURI(tagType string, startsWith string) (string, error) {
	isLanguage := tagType == "language"
	if (startsWith != "") == isLanguage {
		if isLanguage {
			return "", fmt.Errorf("%w: startsWith must not be used with language", ErrInvalidValue)
		}
		return "", fmt.Errorf("%w: startsWith required for tag type %q", ErrInvalidValue, tagType)
	}

	if isLanguage {
		return "https://" + ResourceDomain + "/language_support", nil
	}

	path := "all"
	switch tagType {
	case "tag", "male", "female":
		path += "tags"
	case "artist", "series", "character", "group":
		path += tagType
		if !strings.HasSuffix(path, "s") {
			path += "s"
		}
	default:
		return "", fmt.Errorf("%w: unknown tag type %q", ErrInvalidValue, tagType)
	}

	suffix := startsWith
	if suffix == "0-9" {
		suffix = "123"
	}
	return "https://" + BaseDomain + "/" + path + "-" + suffix + ".html", nil
}

// VideoURI returns the streaming URL for an anime gallery.
func VideoURI(gallery *Gallery) (string, error) {
	if gallery.Type != GalleryTypeAnime {
		return "", fmt.Errorf("%w: gallery type must be anime", ErrInvalidValue)
	}
	title := strings.ReplaceAll(strings.ToLower(gallery.Title.Display), " ", "-")
	return "https://streaming." + BaseDomain + "/videos/" + title + ".mp4", nil
}

// galleryURIPunctuation folds characters the service strips from gallery
// page slugs: parentheses, apostrophes and a fixed set of percent escapes.
var galleryURIPunctuation = regexp.MustCompile(`\(|\)|'|%(2[0235F]|3[CEF]|5[BD]|7[BD])`)

// GalleryURI returns the canonical page URL for a gallery.
//
// The slug prefers the Japanese title, truncates it to 200 bytes on a rune
// boundary, percent-encodes it and folds slug punctuation to dashes, the
// way the service builds its own links.
func GalleryURI(gallery *Gallery) string {
	title := gallery.Title.Japanese
	if title == "" {
		title = gallery.Title.Display
	}
	title = truncateUTF8(title, 200)

	slug := galleryURIPunctuation.ReplaceAllString(percentEncode(title), "-")

	galleryType := string(gallery.Type)
	if gallery.Type == GalleryTypeArtistCG {
		galleryType = "cg"
	}

	language := ""
	if gallery.LanguageName.Local != "" {
		language = "-" + percentEncode(gallery.LanguageName.Local)
	}

	uri := "https://" + BaseDomain + "/" + galleryType + "/" + slug + language + "-" + strconv.Itoa(gallery.ID) + ".html"
	return strings.ToLower(uri)
}

// truncateUTF8 cuts s to at most max bytes without leaving a partial rune
// at the end.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	b := []byte(s[:max])
	for len(b) > 0 {
		r, size := utf8.DecodeLastRune(b)
		if r == utf8.RuneError && size <= 1 {
			b = b[:len(b)-1]
			continue
		}
		break
	}
	return string(b)
}

const upperhex = "0123456789ABCDEF"

// percentEncode escapes the way the service's own pages do
// (encodeURIComponent semantics): slashes are escaped, while !'()*~-._
// stay bare so the slug punctuation rules can see them.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			c == '-', c == '_', c == '.', c == '~',
			c == '!', c == '*', c == '\'', c == '(', c == ')':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		}
	}
	return b.String()
}
