package googleapis

// --- GA4 Data API (runReport) ---

type ga4RunReportRequest struct {
	DateRanges []ga4DateRange `json:"dateRanges"`
	Dimensions []ga4Name      `json:"dimensions"`
	Metrics    []ga4Name      `json:"metrics"`
}

type ga4DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type ga4Name struct {
	Name string `json:"name"`
}

type ga4RunReportResponse struct {
	Rows []ga4Row `json:"rows"`
}

type ga4Row struct {
	DimensionValues []ga4Value `json:"dimensionValues"`
	MetricValues    []ga4Value `json:"metricValues"`
}

type ga4Value struct {
	Value string `json:"value"`
}

// --- Google Ads API (searchStream) ---

type adsSearchRequest struct {
	Query string `json:"query"`
}

// searchStream returns an array of chunks, each with its own results.
type adsSearchChunk struct {
	Results []adsResult `json:"results"`
}

type adsResult struct {
	Campaign adsCampaign `json:"campaign"`
	Metrics  adsMetrics  `json:"metrics"`
}

type adsCampaign struct {
	Name string `json:"name"`
}

// int64 metrics arrive as JSON strings (proto JSON encoding).
type adsMetrics struct {
	Impressions string  `json:"impressions"`
	Clicks      string  `json:"clicks"`
	CostMicros  string  `json:"costMicros"`
	Conversions float64 `json:"conversions"`
}
