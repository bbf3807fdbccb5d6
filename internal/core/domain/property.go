package domain

import (
	"time"
)

// MaxImages is how many image URLs the feed carries per listing.
const MaxImages = 5

// PropertyRecord is one real-world listing as published by the feed.
// Reference is the natural key: at most one stored row per reference.
type PropertyRecord struct {
	Reference    string
	URL          string
	HouseName    string
	PropertyName string
	PropertyType string
	Price        float64
	Parish       string
	Status       string
	SaleType     string // buy / rent

	// Nullable counters: a value the feed omitted or that failed to parse
	// stays nil instead of becoming a bogus zero.
	Bedrooms   *int
	Bathrooms  *int
	Receptions *int
	Parking    *int

	Latitude    float64
	Longitude   float64
	Description string
	Images      []string // up to MaxImages entries

	// Campaign is derived from parish and property type, never taken
	// from the feed itself.
	Campaign string

	IsActive    bool
	CreatedAt   time.Time
	LastUpdated time.Time
}

// StoredProperty is a PropertyRecord as it sits in storage, together with
// the fingerprint computed when the row was last written.
type StoredProperty struct {
	Record      PropertyRecord
	Fingerprint string
}
