package googleapis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ndestates/google-stats-sub001/internal/contextkeys"
	"github.com/ndestates/google-stats-sub001/internal/core/domain"
	"github.com/ndestates/google-stats-sub001/internal/core/port"
)

const adsDefaultBaseURL = "https://googleads.googleapis.com"

// AdsClient queries the Google Ads API searchStream REST endpoint.
type AdsClient struct {
	baseURL        string
	customerID     string
	developerToken string
	accessToken    string
	httpClient     *http.Client
}

type AdsConfig struct {
	BaseURL        string // defaults to the public endpoint; tests override it
	CustomerID     string
	DeveloperToken string
	AccessToken    string
}

func NewAdsClient(cfg AdsConfig) (*AdsClient, error) {
	if cfg.CustomerID == "" {
		return nil, fmt.Errorf("Ads customer ID is required")
	}
	if cfg.DeveloperToken == "" {
		return nil, fmt.Errorf("Ads developer token is required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("Ads access token is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = adsDefaultBaseURL
	}

	return &AdsClient{
		baseURL:        cfg.BaseURL,
		customerID:     cfg.CustomerID,
		developerToken: cfg.DeveloperToken,
		accessToken:    cfg.AccessToken,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// RunCampaignReport pulls impressions, clicks, cost and conversions per
// campaign over the date range.
func (c *AdsClient) RunCampaignReport(ctx context.Context, dateRange domain.DateRange) ([]domain.CampaignRow, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "AdsClient",
		"method":    "RunCampaignReport",
	})

	query := fmt.Sprintf(
		"SELECT campaign.name, metrics.impressions, metrics.clicks, "+
			"metrics.cost_micros, metrics.conversions "+
			"FROM campaign WHERE segments.date BETWEEN '%s' AND '%s'",
		dateRange.Start.Format(ga4DateLayout),
		dateRange.End.Format(ga4DateLayout))

	payload, err := json.Marshal(adsSearchRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Ads request: %w", err)
	}

	url := fmt.Sprintf("%s/v17/customers/%s/googleAds:searchStream", c.baseURL, c.customerID)
	clientLogger.Debug("Sending searchStream request", port.Fields{"url": url})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create Ads request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("developer-token", c.developerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		clientLogger.Error("Ads request failed", err, nil)
		return nil, fmt.Errorf("Ads request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("Ads API returned non-success status code %d: %s", resp.StatusCode, string(bodyBytes))
		clientLogger.Error("Received error response from Ads API", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	var chunks []adsSearchChunk
	if err := json.NewDecoder(resp.Body).Decode(&chunks); err != nil {
		clientLogger.Error("Failed to decode Ads response", err, nil)
		return nil, fmt.Errorf("failed to decode Ads response: %w", err)
	}

	var rows []domain.CampaignRow
	for _, chunk := range chunks {
		for _, result := range chunk.Results {
			rows = append(rows, domain.CampaignRow{
				Campaign:    result.Campaign.Name,
				Impressions: parseMetricInt(result.Metrics.Impressions),
				Clicks:      parseMetricInt(result.Metrics.Clicks),
				Cost:        float64(parseMetricInt(result.Metrics.CostMicros)) / 1e6,
				Conversions: result.Metrics.Conversions,
			})
		}
	}

	clientLogger.Info("Ads report received", port.Fields{"campaigns": len(rows)})
	return rows, nil
}

// parseMetricInt reads an int64 metric that proto JSON renders as a
// string. Unparsable values degrade to zero.
func parseMetricInt(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
