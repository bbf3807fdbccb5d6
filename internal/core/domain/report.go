package domain

import "time"

// DateRange bounds a reporting query, inclusive on both ends.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// TrafficRow is one GA4 result row: traffic for one date and channel group.
type TrafficRow struct {
	Date            time.Time
	Channel         string
	Sessions        int64
	TotalUsers      int64
	EngagedSessions int64
}

// ChannelSummary aggregates traffic over the whole range for one channel.
type ChannelSummary struct {
	Channel         string
	Sessions        int64
	TotalUsers      int64
	EngagedSessions int64
}

// TrafficReport is the shaped output of one GA4 report run.
type TrafficReport struct {
	Range    DateRange
	Rows     []TrafficRow
	Channels []ChannelSummary
}

// CampaignRow is one Google Ads result row for a single campaign, already
// cross-referenced against the number of active stored listings carrying
// the same campaign label.
type CampaignRow struct {
	Campaign       string
	Impressions    int64
	Clicks         int64
	Cost           float64 // account currency units, from cost_micros
	Conversions    float64
	ActiveListings int
}

// CampaignReport is the shaped output of one Ads report run.
type CampaignReport struct {
	Range DateRange
	Rows  []CampaignRow
}
