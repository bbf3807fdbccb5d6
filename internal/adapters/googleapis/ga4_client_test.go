package googleapis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndestates/google-stats-sub001/internal/core/domain"
)

func testDateRange(t *testing.T) domain.DateRange {
	t.Helper()
	start, err := time.Parse("2006-01-02", "2026-08-01")
	require.NoError(t, err)
	end, err := time.Parse("2006-01-02", "2026-08-07")
	require.NoError(t, err)
	return domain.DateRange{Start: start, End: end}
}

func TestGA4RunTrafficReport(t *testing.T) {
	var gotPath, gotAuth string
	var gotRequest ga4RunReportRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		json.NewEncoder(w).Encode(ga4RunReportResponse{Rows: []ga4Row{
			{
				DimensionValues: []ga4Value{{Value: "20260801"}, {Value: "Organic Search"}},
				MetricValues:    []ga4Value{{Value: "120"}, {Value: "95"}, {Value: "80"}},
			},
			{
				DimensionValues: []ga4Value{{Value: "20260802"}, {Value: "Paid Search"}},
				MetricValues:    []ga4Value{{Value: "45"}, {Value: "40"}, {Value: "33"}},
			},
		}})
	}))
	defer server.Close()

	client, err := NewGA4Client(GA4Config{BaseURL: server.URL, PropertyID: "123456", AccessToken: "token-abc"})
	require.NoError(t, err)

	rows, err := client.RunTrafficReport(context.Background(), testDateRange(t))
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/properties/123456:runReport", gotPath)
	assert.Equal(t, "Bearer token-abc", gotAuth)
	require.Len(t, gotRequest.DateRanges, 1)
	assert.Equal(t, "2026-08-01", gotRequest.DateRanges[0].StartDate)
	assert.Equal(t, "2026-08-07", gotRequest.DateRanges[0].EndDate)

	require.Len(t, rows, 2)
	assert.Equal(t, "Organic Search", rows[0].Channel)
	assert.Equal(t, int64(120), rows[0].Sessions)
	assert.Equal(t, int64(95), rows[0].TotalUsers)
	assert.Equal(t, int64(80), rows[0].EngagedSessions)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), rows[0].Date)
}

func TestGA4SkipsMalformedRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ga4RunReportResponse{Rows: []ga4Row{
			{ // not enough metric values
				DimensionValues: []ga4Value{{Value: "20260801"}, {Value: "Direct"}},
				MetricValues:    []ga4Value{{Value: "10"}},
			},
			{ // unparsable date
				DimensionValues: []ga4Value{{Value: "yesterday"}, {Value: "Direct"}},
				MetricValues:    []ga4Value{{Value: "10"}, {Value: "9"}, {Value: "8"}},
			},
			{
				DimensionValues: []ga4Value{{Value: "20260803"}, {Value: "Referral"}},
				MetricValues:    []ga4Value{{Value: "7"}, {Value: "6"}, {Value: "5"}},
			},
		}})
	}))
	defer server.Close()

	client, err := NewGA4Client(GA4Config{BaseURL: server.URL, PropertyID: "123456", AccessToken: "token"})
	require.NoError(t, err)

	rows, err := client.RunTrafficReport(context.Background(), testDateRange(t))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Referral", rows[0].Channel)
}

func TestGA4ErrorStatusIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid property"}}`, http.StatusForbidden)
	}))
	defer server.Close()

	client, err := NewGA4Client(GA4Config{BaseURL: server.URL, PropertyID: "123456", AccessToken: "token"})
	require.NoError(t, err)

	_, err = client.RunTrafficReport(context.Background(), testDateRange(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestGA4ConfigValidation(t *testing.T) {
	_, err := NewGA4Client(GA4Config{AccessToken: "token"})
	assert.Error(t, err)

	_, err = NewGA4Client(GA4Config{PropertyID: "123"})
	assert.Error(t, err)
}
