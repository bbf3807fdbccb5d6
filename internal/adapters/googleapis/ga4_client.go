package googleapis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ndestates/google-stats-sub001/internal/contextkeys"
	"github.com/ndestates/google-stats-sub001/internal/core/domain"
	"github.com/ndestates/google-stats-sub001/internal/core/port"
)

const (
	ga4DefaultBaseURL = "https://analyticsdata.googleapis.com"
	ga4DateLayout     = "2006-01-02"
	ga4RowDateLayout  = "20060102"
)

// GA4Client queries the GA4 Data API over its REST surface. Token
// acquisition is out of scope: the access token arrives via configuration.
type GA4Client struct {
	baseURL     string
	propertyID  string
	accessToken string
	httpClient  *http.Client
}

type GA4Config struct {
	BaseURL     string // defaults to the public endpoint; tests override it
	PropertyID  string
	AccessToken string
}

func NewGA4Client(cfg GA4Config) (*GA4Client, error) {
	if cfg.PropertyID == "" {
		return nil, fmt.Errorf("GA4 property ID is required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("GA4 access token is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = ga4DefaultBaseURL
	}

	return &GA4Client{
		baseURL:     cfg.BaseURL,
		propertyID:  cfg.PropertyID,
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// RunTrafficReport pulls sessions, users and engaged sessions by date and
// default channel group.
func (c *GA4Client) RunTrafficReport(ctx context.Context, dateRange domain.DateRange) ([]domain.TrafficRow, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "GA4Client",
		"method":    "RunTrafficReport",
	})

	reqBody := ga4RunReportRequest{
		DateRanges: []ga4DateRange{{
			StartDate: dateRange.Start.Format(ga4DateLayout),
			EndDate:   dateRange.End.Format(ga4DateLayout),
		}},
		Dimensions: []ga4Name{{Name: "date"}, {Name: "sessionDefaultChannelGroup"}},
		Metrics:    []ga4Name{{Name: "sessions"}, {Name: "totalUsers"}, {Name: "engagedSessions"}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GA4 request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/properties/%s:runReport", c.baseURL, c.propertyID)
	clientLogger.Debug("Sending runReport request", port.Fields{"url": url})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create GA4 request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		clientLogger.Error("GA4 request failed", err, nil)
		return nil, fmt.Errorf("GA4 request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("GA4 returned non-success status code %d: %s", resp.StatusCode, string(bodyBytes))
		clientLogger.Error("Received error response from GA4", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	var report ga4RunReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		clientLogger.Error("Failed to decode GA4 response", err, nil)
		return nil, fmt.Errorf("failed to decode GA4 response: %w", err)
	}

	rows := make([]domain.TrafficRow, 0, len(report.Rows))
	for _, raw := range report.Rows {
		if len(raw.DimensionValues) < 2 || len(raw.MetricValues) < 3 {
			clientLogger.Warn("Skipping malformed GA4 row", port.Fields{
				"dimensions": len(raw.DimensionValues),
				"metrics":    len(raw.MetricValues),
			})
			continue
		}
		date, err := time.Parse(ga4RowDateLayout, raw.DimensionValues[0].Value)
		if err != nil {
			clientLogger.Warn("Skipping GA4 row with unparsable date", port.Fields{"date": raw.DimensionValues[0].Value})
			continue
		}
		rows = append(rows, domain.TrafficRow{
			Date:            date,
			Channel:         raw.DimensionValues[1].Value,
			Sessions:        parseMetricInt(raw.MetricValues[0].Value),
			TotalUsers:      parseMetricInt(raw.MetricValues[1].Value),
			EngagedSessions: parseMetricInt(raw.MetricValues[2].Value),
		})
	}

	clientLogger.Info("GA4 report received", port.Fields{"rows": len(rows)})
	return rows, nil
}
