package domain

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Provenance explains why a fetch returned the payload it did.
type Provenance string

const (
	// ProvenanceNetwork - a fresh body came over the wire.
	ProvenanceNetwork Provenance = "network"
	// ProvenanceCacheRecent - a cached body within the reuse window was
	// returned without any network call.
	ProvenanceCacheRecent Provenance = "cache-recent"
	// ProvenanceCache304 - the server confirmed the cached body is still
	// current (304 Not Modified).
	ProvenanceCache304 Provenance = "cache-304"
)

// FeedCacheEntry is one cached HTTP response for a feed URL.
// Entries are append-only: a new fetch inserts a new row, the current
// entry is always the most recently fetched one for that URL.
type FeedCacheEntry struct {
	ID                 int64
	FeedURL            string
	ETag               string
	LastModifiedHeader string
	Payload            []byte
	ContentHash        string
	ContentLength      int
	StatusCode         int
	FetchedAt          time.Time
}

// NewFeedCacheEntry builds an entry from a network response, filling in
// the content hash and length from the payload.
func NewFeedCacheEntry(feedURL string, payload []byte, etag, lastModified string, statusCode int, fetchedAt time.Time) FeedCacheEntry {
	return FeedCacheEntry{
		FeedURL:            feedURL,
		ETag:               etag,
		LastModifiedHeader: lastModified,
		Payload:            payload,
		ContentHash:        fmt.Sprintf("%x", sha256.Sum256(payload)),
		ContentLength:      len(payload),
		StatusCode:         statusCode,
		FetchedAt:          fetchedAt,
	}
}

// HasPayload reports whether the entry carries a non-empty body.
func (e *FeedCacheEntry) HasPayload() bool {
	return e != nil && len(e.Payload) > 0
}

// IsRecent reports whether the entry was fetched within the reuse window.
func (e *FeedCacheEntry) IsRecent(now time.Time, window time.Duration) bool {
	return e != nil && now.Sub(e.FetchedAt) < window
}
