package feedfetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndestates/google-stats-sub001/internal/core/domain"
)

type memoryCache struct {
	entries []domain.FeedCacheEntry
}

func (m *memoryCache) Latest(_ context.Context, feedURL string) (*domain.FeedCacheEntry, error) {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].FeedURL == feedURL {
			entry := m.entries[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func (m *memoryCache) Append(_ context.Context, entry domain.FeedCacheEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func newTestFetcher(t *testing.T, url string, cache *memoryCache) *FeedFetcherAdapter {
	t.Helper()
	fetcher, err := NewFeedFetcherAdapter(Config{FeedURL: url, ReuseWindow: 30 * time.Minute}, cache)
	require.NoError(t, err)
	return fetcher
}

func TestFetchFromNetworkAppendsCacheEntry(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Last-Modified", "Mon, 24 Aug 2026 10:00:00 GMT")
		w.Write([]byte("<properties/>"))
	}))
	defer server.Close()

	cache := &memoryCache{}
	fetcher := newTestFetcher(t, server.URL, cache)

	payload, provenance, err := fetcher.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, domain.ProvenanceNetwork, provenance)
	assert.Equal(t, []byte("<properties/>"), payload)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	require.Len(t, cache.entries, 1)
	entry := cache.entries[0]
	assert.Equal(t, server.URL, entry.FeedURL)
	assert.Equal(t, `"v1"`, entry.ETag)
	assert.Equal(t, http.StatusOK, entry.StatusCode)
	assert.Equal(t, len(payload), entry.ContentLength)
	assert.NotEmpty(t, entry.ContentHash)
}

func TestFetchReusesRecentCacheWithoutNetworkCall(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("<properties/>"))
	}))
	defer server.Close()

	now := time.Now()
	cache := &memoryCache{entries: []domain.FeedCacheEntry{
		domain.NewFeedCacheEntry(server.URL, []byte("<cached/>"), `"v1"`, "", http.StatusOK, now.Add(-5*time.Minute)),
	}}
	fetcher := newTestFetcher(t, server.URL, cache)
	fetcher.now = func() time.Time { return now }

	payload, provenance, err := fetcher.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, domain.ProvenanceCacheRecent, provenance)
	assert.Equal(t, []byte("<cached/>"), payload)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits), "reuse window must skip the network")
	assert.Len(t, cache.entries, 1, "cache-recent must not append")
}

func TestFetchConditionalRequestHandles304(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Write([]byte("<fresh/>"))
	}))
	defer server.Close()

	now := time.Now()
	cache := &memoryCache{entries: []domain.FeedCacheEntry{
		domain.NewFeedCacheEntry(server.URL, []byte("<cached/>"), `"v1"`, "", http.StatusOK, now.Add(-2*time.Hour)),
	}}
	fetcher := newTestFetcher(t, server.URL, cache)
	fetcher.now = func() time.Time { return now }

	payload, provenance, err := fetcher.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, domain.ProvenanceCache304, provenance)
	assert.Equal(t, []byte("<cached/>"), payload)
	assert.Len(t, cache.entries, 1, "a 304 must not append a new entry")
}

func TestFetch304WithoutCachedPayloadIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	now := time.Now()
	// An entry with headers but an empty body, as left by a buggy writer.
	cache := &memoryCache{entries: []domain.FeedCacheEntry{
		domain.NewFeedCacheEntry(server.URL, nil, `"v1"`, "", http.StatusOK, now.Add(-2*time.Hour)),
	}}
	fetcher := newTestFetcher(t, server.URL, cache)
	fetcher.now = func() time.Time { return now }

	_, _, err := fetcher.Fetch(context.Background(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStaleNotModified)
}

func TestFetchForceRefreshSkipsConditionalHeaders(t *testing.T) {
	var sawConditional bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			sawConditional = true
		}
		w.Write([]byte("<fresh/>"))
	}))
	defer server.Close()

	now := time.Now()
	cache := &memoryCache{entries: []domain.FeedCacheEntry{
		domain.NewFeedCacheEntry(server.URL, []byte("<cached/>"), `"v1"`, "Mon, 24 Aug 2026 10:00:00 GMT", http.StatusOK, now.Add(-5*time.Minute)),
	}}
	fetcher := newTestFetcher(t, server.URL, cache)
	fetcher.now = func() time.Time { return now }

	payload, provenance, err := fetcher.Fetch(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, domain.ProvenanceNetwork, provenance)
	assert.Equal(t, []byte("<fresh/>"), payload)
	assert.False(t, sawConditional, "force refresh must not send conditional headers")
	assert.Len(t, cache.entries, 2)
}

func TestFetchServerErrorIsReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := newTestFetcher(t, server.URL, &memoryCache{})

	_, _, err := fetcher.Fetch(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetcherConfigValidation(t *testing.T) {
	_, err := NewFeedFetcherAdapter(Config{}, &memoryCache{})
	assert.Error(t, err)

	_, err = NewFeedFetcherAdapter(Config{FeedURL: "https://example.com/feed"}, nil)
	assert.Error(t, err)
}
