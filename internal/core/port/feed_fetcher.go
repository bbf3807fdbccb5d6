package port

import (
	"context"

	"github.com/ndestates/google-stats-sub001/internal/core/domain"
)

// FeedFetcherPort retrieves the current feed document, deciding between a
// network round trip and the cached copy.
//
// forceRefresh skips the reuse window AND the conditional headers, so the
// very first sync against an empty table always hits the network.
type FeedFetcherPort interface {
	Fetch(ctx context.Context, forceRefresh bool) ([]byte, domain.Provenance, error)
}
