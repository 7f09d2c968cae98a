package mirror

import "errors"

var (
	ErrInvalidURL        = errors.New("invalid url")
	ErrUnsupportedDomain = errors.New("not a valid Twitter/X url")
	ErrFetchFailed       = errors.New("failed to fetch content")
	ErrNoContent         = errors.New("tweet not found or could not be parsed")
)
