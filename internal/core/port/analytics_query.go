package port

import (
	"context"

	"github.com/ndestates/google-stats-sub001/internal/core/domain"
)

// AnalyticsQueryPort runs reporting queries against the GA4 Data API.
type AnalyticsQueryPort interface {
	RunTrafficReport(ctx context.Context, dateRange domain.DateRange) ([]domain.TrafficRow, error)
}

// AdsQueryPort runs reporting queries against the Google Ads API.
type AdsQueryPort interface {
	RunCampaignReport(ctx context.Context, dateRange domain.DateRange) ([]domain.CampaignRow, error)
}
