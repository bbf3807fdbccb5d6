package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultCampaign is the label every listing gets unless its parish maps
// to a dedicated campaign.
const DefaultCampaign = "Jersey Property Listings"

// CampaignRules drives the parish -> campaign mapping. The built-in rules
// cover the twelve Jersey parishes; deployments may override them with a
// JSON file validated by internal/contracts.
type CampaignRules struct {
	DefaultLabel string   `json:"default_label"`
	Parishes     []string `json:"parishes"`
}

// DefaultCampaignRules returns the built-in rule set.
func DefaultCampaignRules() CampaignRules {
	return CampaignRules{
		DefaultLabel: DefaultCampaign,
		Parishes: []string{
			"St Helier",
			"St Saviour",
			"St Clement",
			"St Brelade",
			"St Lawrence",
			"St Martin",
			"St Ouen",
			"St Peter",
			"St Mary",
			"St John",
			"Trinity",
			"Grouville",
		},
	}
}

var parishCaser = cases.Title(language.BritishEnglish)

// normalizeParish folds a parish spelling down to a comparable form:
// lower case, "st." and "saint" collapsed to "st", single spaces.
func normalizeParish(parish string) string {
	s := strings.ToLower(strings.TrimSpace(parish))
	s = strings.ReplaceAll(s, "st.", "st")
	s = strings.ReplaceAll(s, "saint ", "st ")
	return strings.Join(strings.Fields(s), " ")
}

// Classify maps (parish, property type) to a marketing campaign label.
// The function is total: every input pair yields some label, never an error.
func (r CampaignRules) Classify(parish, propertyType string) string {
	label := r.DefaultLabel
	if label == "" {
		label = DefaultCampaign
	}

	normalized := normalizeParish(parish)
	if normalized == "" {
		return label
	}

	for _, known := range r.Parishes {
		if normalizeParish(known) != normalized {
			continue
		}
		display := parishCaser.String(normalizeParish(known))
		if strings.Contains(strings.ToLower(propertyType), "apartment") {
			return display + " Apartments"
		}
		return display + " Properties"
	}

	return label
}

// Classify applies the built-in rules.
func Classify(parish, propertyType string) string {
	return DefaultCampaignRules().Classify(parish, propertyType)
}
