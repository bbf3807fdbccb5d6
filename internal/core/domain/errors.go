package domain

import "errors"

var (
	// ErrStaleNotModified - the server answered 304 Not Modified but no
	// cached payload exists for the feed URL. This is cache corruption,
	// not a plain transport failure, and the run cannot recover from it.
	ErrStaleNotModified = errors.New("feed cache inconsistency: 304 Not Modified received but no cached payload exists")

	// ErrMalformedFeed - the feed document itself could not be parsed.
	ErrMalformedFeed = errors.New("feed document is not well-formed XML")

	// ErrMissingReference - a feed record lacks its natural key.
	ErrMissingReference = errors.New("feed record has no reference")

	// ErrMissingURL - a feed record lacks its listing URL.
	ErrMissingURL = errors.New("feed record has no url")
)
