package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyParishApartment(t *testing.T) {
	label := Classify("St Helier", "Apartment")

	assert.Equal(t, "St Helier Apartments", label)
	assert.Contains(t, label, "St Helier")
}

func TestClassifyParishProperties(t *testing.T) {
	assert.Equal(t, "St Brelade Properties", Classify("St Brelade", "House"))
	assert.Equal(t, "Trinity Properties", Classify("Trinity", ""))
	assert.Equal(t, "Grouville Apartments", Classify("Grouville", "Luxury Apartment"))
}

func TestClassifyAcceptsDottedAndCasedSpellings(t *testing.T) {
	assert.Equal(t, "St Helier Properties", Classify("st. helier", "House"))
	assert.Equal(t, "St Ouen Properties", Classify("ST OUEN", "Cottage"))
	assert.Equal(t, "St Mary Apartments", Classify("St. Mary", "apartment"))
	assert.Equal(t, "St John Properties", Classify("  st john  ", "Farmhouse"))
}

// Classify must be total: any input yields a label, never an error.
func TestClassifyTotality(t *testing.T) {
	assert.Equal(t, DefaultCampaign, Classify("", ""))
	assert.Equal(t, DefaultCampaign, Classify("Atlantis", "Apartment"))
	assert.Equal(t, DefaultCampaign, Classify("Atlantis", ""))
	assert.NotEmpty(t, Classify("St Helier", "\x00weird\xff"))
}

func TestClassifyCustomRules(t *testing.T) {
	rules := CampaignRules{
		DefaultLabel: "All Listings",
		Parishes:     []string{"st aubin"},
	}

	assert.Equal(t, "St Aubin Properties", rules.Classify("St. Aubin", "House"))
	assert.Equal(t, "St Aubin Apartments", rules.Classify("st aubin", "Apartment"))
	assert.Equal(t, "All Listings", rules.Classify("St Helier", "House"))
}

func TestClassifyEmptyDefaultLabelFallsBack(t *testing.T) {
	rules := CampaignRules{Parishes: []string{"St Helier"}}

	assert.Equal(t, DefaultCampaign, rules.Classify("Unknown", "House"))
}
