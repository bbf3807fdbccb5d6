package googleapis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdsRunCampaignReport(t *testing.T) {
	var gotPath, gotDeveloperToken string
	var gotRequest adsSearchRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDeveloperToken = r.Header.Get("developer-token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		json.NewEncoder(w).Encode([]adsSearchChunk{
			{Results: []adsResult{
				{
					Campaign: adsCampaign{Name: "St Helier Apartments"},
					Metrics:  adsMetrics{Impressions: "1500", Clicks: "120", CostMicros: "45250000", Conversions: 6.5},
				},
			}},
			{Results: []adsResult{
				{
					Campaign: adsCampaign{Name: "Jersey Property Listings"},
					Metrics:  adsMetrics{Impressions: "900", Clicks: "40", CostMicros: "12000000", Conversions: 2},
				},
			}},
		})
	}))
	defer server.Close()

	client, err := NewAdsClient(AdsConfig{
		BaseURL:        server.URL,
		CustomerID:     "1234567890",
		DeveloperToken: "dev-token",
		AccessToken:    "access-token",
	})
	require.NoError(t, err)

	rows, err := client.RunCampaignReport(context.Background(), testDateRange(t))
	require.NoError(t, err)

	assert.Equal(t, "/v17/customers/1234567890/googleAds:searchStream", gotPath)
	assert.Equal(t, "dev-token", gotDeveloperToken)
	assert.Contains(t, gotRequest.Query, "BETWEEN '2026-08-01' AND '2026-08-07'")

	require.Len(t, rows, 2)
	assert.Equal(t, "St Helier Apartments", rows[0].Campaign)
	assert.Equal(t, int64(1500), rows[0].Impressions)
	assert.Equal(t, int64(120), rows[0].Clicks)
	assert.InDelta(t, 45.25, rows[0].Cost, 1e-9)
	assert.Equal(t, 6.5, rows[0].Conversions)
}

func TestAdsErrorStatusIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"status":"UNAUTHENTICATED"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewAdsClient(AdsConfig{
		BaseURL:        server.URL,
		CustomerID:     "1234567890",
		DeveloperToken: "dev-token",
		AccessToken:    "access-token",
	})
	require.NoError(t, err)

	_, err = client.RunCampaignReport(context.Background(), testDateRange(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestParseMetricInt(t *testing.T) {
	assert.Equal(t, int64(42), parseMetricInt("42"))
	assert.Equal(t, int64(0), parseMetricInt(""))
	assert.Equal(t, int64(0), parseMetricInt("n/a"))
}

func TestAdsConfigValidation(t *testing.T) {
	_, err := NewAdsClient(AdsConfig{DeveloperToken: "d", AccessToken: "a"})
	assert.Error(t, err)

	_, err = NewAdsClient(AdsConfig{CustomerID: "1", AccessToken: "a"})
	assert.Error(t, err)

	_, err = NewAdsClient(AdsConfig{CustomerID: "1", DeveloperToken: "d"})
	assert.Error(t, err)
}
