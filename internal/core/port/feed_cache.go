package port

import (
	"context"

	"github.com/ndestates/google-stats-sub001/internal/core/domain"
)

// FeedCachePort persists HTTP responses for feed URLs. The table is
// append-only: Append always inserts, Latest returns the most recently
// fetched entry or nil when the URL was never fetched.
type FeedCachePort interface {
	Latest(ctx context.Context, feedURL string) (*domain.FeedCacheEntry, error)
	Append(ctx context.Context, entry domain.FeedCacheEntry) error
}
