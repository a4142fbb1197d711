package hitomi

import (
	"errors"

	"github.com/hitogo/hitomi/internal/fetch"
)

var (
	// ErrNetwork is returned when a request to the service fails or is
	// rejected with a non-success status.
	ErrNetwork = fetch.ErrRejected

	// ErrParse is returned when a remote document is missing an expected
	// field or does not match its expected shape.
	ErrParse = errors.New("hitomi: malformed response")

	// ErrInvalidCombination is returned when a requested image rendition is
	// not supported by the given image.
	ErrInvalidCombination = errors.New("hitomi: invalid rendition for image")

	// ErrNotSynchronized is returned when an image URL is requested before
	// the URL-construction rules have been fetched.
	ErrNotSynchronized = errors.New("hitomi: resolver not synchronized")

	// ErrInvalidValue is returned when an argument is outside its allowed
	// set of values.
	ErrInvalidValue = errors.New("hitomi: invalid value")

	// ErrDuplicateTag is returned when a tag expression names the same tag
	// twice.
	ErrDuplicateTag = errors.New("hitomi: duplicated tag")
)
