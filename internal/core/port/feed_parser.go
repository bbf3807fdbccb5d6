package port

import (
	"context"

	"github.com/ndestates/google-stats-sub001/internal/core/domain"
)

// FeedParserPort turns the raw feed document into property records.
// Records missing required fields are dropped and counted in skipped;
// a malformed document is a fatal error.
type FeedParserPort interface {
	Parse(ctx context.Context, payload []byte) (records []domain.PropertyRecord, skipped int, err error)
}
