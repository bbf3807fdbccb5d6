package feedfetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"

	"github.com/ndestates/google-stats-sub001/internal/contextkeys"
	"github.com/ndestates/google-stats-sub001/internal/core/domain"
	"github.com/ndestates/google-stats-sub001/internal/core/port"
)

// FeedFetcherAdapter retrieves the property feed over HTTP with
// conditional-request support and an append-only response cache.
type FeedFetcherAdapter struct {
	collector   *colly.Collector
	cache       port.FeedCachePort
	feedURL     string
	reuseWindow time.Duration
	now         func() time.Time
}

// Config for the fetcher. ReuseWindow defaults to 30 minutes, Timeout to
// 30 seconds.
type Config struct {
	FeedURL     string
	ReuseWindow time.Duration
	Timeout     time.Duration
}

func NewFeedFetcherAdapter(cfg Config, cache port.FeedCachePort) (*FeedFetcherAdapter, error) {
	if cfg.FeedURL == "" {
		return nil, fmt.Errorf("feed fetcher: feed URL is required")
	}
	if cache == nil {
		return nil, fmt.Errorf("feed fetcher: cache port cannot be nil")
	}
	if cfg.ReuseWindow <= 0 {
		cfg.ReuseWindow = 30 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	// Parent collector; every Fetch works on a clone of it.
	c := colly.NewCollector(colly.AllowURLRevisit())
	c.SetRequestTimeout(cfg.Timeout)
	extensions.RandomUserAgent(c)

	return &FeedFetcherAdapter{
		collector:   c,
		cache:       cache,
		feedURL:     cfg.FeedURL,
		reuseWindow: cfg.ReuseWindow,
		now:         time.Now,
	}, nil
}

// Fetch returns the current feed payload together with its provenance.
//
// Decision order: a cached body younger than the reuse window is returned
// as-is (cache-recent, no network call); otherwise a conditional GET is
// issued and a 304 reuses the cached body (cache-304); any other success
// stores a new cache entry (network). forceRefresh disables both the
// reuse window and the conditional headers.
func (a *FeedFetcherAdapter) Fetch(ctx context.Context, forceRefresh bool) ([]byte, domain.Provenance, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchLogger := logger.WithFields(port.Fields{
		"component": "FeedFetcherAdapter",
		"feed_url":  a.feedURL,
	})

	latest, err := a.cache.Latest(ctx, a.feedURL)
	if err != nil {
		fetchLogger.Error("Failed to read feed cache", err, nil)
		return nil, "", fmt.Errorf("failed to read feed cache for %s: %w", a.feedURL, err)
	}

	if !forceRefresh && latest.HasPayload() && latest.IsRecent(a.now(), a.reuseWindow) {
		fetchLogger.Info("Reusing recent cached payload, skipping network call", port.Fields{
			"fetched_at": latest.FetchedAt,
			"bytes":      latest.ContentLength,
		})
		return latest.Payload, domain.ProvenanceCacheRecent, nil
	}

	collector := a.collector.Clone()

	var (
		body         []byte
		respETag     string
		respLastMod  string
		statusCode   int
		notModified  bool
		transportErr error
	)

	collector.OnRequest(func(r *colly.Request) {
		if forceRefresh || latest == nil {
			return
		}
		if latest.ETag != "" {
			r.Headers.Set("If-None-Match", latest.ETag)
		}
		if latest.LastModifiedHeader != "" {
			r.Headers.Set("If-Modified-Since", latest.LastModifiedHeader)
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		if r.StatusCode == http.StatusNotModified {
			notModified = true
			return
		}
		body = r.Body
		respETag = r.Headers.Get("ETag")
		respLastMod = r.Headers.Get("Last-Modified")
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
			// colly reports every non-2xx as an error; 304 is ours.
			if r.StatusCode == http.StatusNotModified {
				notModified = true
				return
			}
		}
		transportErr = err
	})

	fetchLogger.Info("Requesting feed", port.Fields{"force_refresh": forceRefresh, "conditional": !forceRefresh && latest != nil})

	if err := collector.Visit(a.feedURL); err != nil && transportErr == nil && !notModified {
		transportErr = err
	}
	collector.Wait()

	if notModified {
		if !latest.HasPayload() {
			fetchLogger.Error("Server replied 304 but no cached payload exists", domain.ErrStaleNotModified, nil)
			return nil, "", fmt.Errorf("fetch %s: %w", a.feedURL, domain.ErrStaleNotModified)
		}
		fetchLogger.Info("Feed not modified, reusing cached payload", port.Fields{"etag": latest.ETag})
		return latest.Payload, domain.ProvenanceCache304, nil
	}

	if transportErr != nil {
		fetchLogger.Error("Feed request failed", transportErr, port.Fields{"status": statusCode})
		return nil, "", fmt.Errorf("failed to fetch feed %s (status %d): %w", a.feedURL, statusCode, transportErr)
	}

	entry := domain.NewFeedCacheEntry(a.feedURL, body, respETag, respLastMod, statusCode, a.now())
	if err := a.cache.Append(ctx, entry); err != nil {
		fetchLogger.Error("Failed to append feed cache entry", err, nil)
		return nil, "", fmt.Errorf("failed to cache feed response for %s: %w", a.feedURL, err)
	}

	fetchLogger.Info("Feed fetched from network", port.Fields{
		"status":       statusCode,
		"bytes":        entry.ContentLength,
		"content_hash": entry.ContentHash,
	})
	return body, domain.ProvenanceNetwork, nil
}
