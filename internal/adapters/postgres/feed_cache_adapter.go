package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ndestates/google-stats-sub001/internal/core/domain"
)

// FeedCacheAdapter implements FeedCachePort for PostgreSQL. The table is
// append-only: this adapter never updates or deletes rows, pruning is an
// external concern.
type FeedCacheAdapter struct {
	pool *pgxpool.Pool
}

func NewFeedCacheAdapter(pool *pgxpool.Pool) (*FeedCacheAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &FeedCacheAdapter{pool: pool}, nil
}

// Latest returns the most recently fetched entry for the URL, or nil when
// the URL was never fetched.
func (a *FeedCacheAdapter) Latest(ctx context.Context, feedURL string) (*domain.FeedCacheEntry, error) {
	var entry domain.FeedCacheEntry
	err := a.pool.QueryRow(ctx, `
		SELECT id, feed_url, etag, last_modified_header, payload,
		       content_hash, content_length, status_code, fetched_at
		FROM feed_cache
		WHERE feed_url = $1
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1`,
		feedURL,
	).Scan(
		&entry.ID, &entry.FeedURL, &entry.ETag, &entry.LastModifiedHeader,
		&entry.Payload, &entry.ContentHash, &entry.ContentLength,
		&entry.StatusCode, &entry.FetchedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest feed cache entry for %s: %w", feedURL, err)
	}

	return &entry, nil
}

// Append inserts a new cache entry.
func (a *FeedCacheAdapter) Append(ctx context.Context, entry domain.FeedCacheEntry) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO feed_cache (
			feed_url, etag, last_modified_header, payload,
			content_hash, content_length, status_code, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.FeedURL, entry.ETag, entry.LastModifiedHeader, entry.Payload,
		entry.ContentHash, entry.ContentLength, entry.StatusCode, entry.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append feed cache entry for %s: %w", entry.FeedURL, err)
	}
	return nil
}
