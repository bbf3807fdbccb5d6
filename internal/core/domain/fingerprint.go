package domain

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/mmcloughlin/geohash"
)

const geohashPrecision = 5

// comparisonPayload builds a stable string out of the tracked fields of a
// listing. Two records with an equal payload are considered current with
// respect to each other; server-assigned fields (timestamps, is_active)
// are deliberately excluded.
func comparisonPayload(rec PropertyRecord) string {
	geohsh := geohash.Encode(rec.Latitude, rec.Longitude)

	parts := []string{
		geohsh[:geohashPrecision],
		fmt.Sprintf("%.5f,%.5f", rec.Latitude, rec.Longitude),
		normalizeText(rec.URL),
		normalizeText(rec.HouseName),
		normalizeText(rec.PropertyName),
		normalizeText(rec.PropertyType),
		fmt.Sprintf("%.2f", rec.Price),
		normalizeText(rec.Parish),
		normalizeText(rec.Status),
		normalizeText(rec.SaleType),
		normalizeText(rec.Description),
		normalizeText(rec.Campaign),
	}

	addInt := func(val *int) {
		if val != nil {
			parts = append(parts, fmt.Sprintf("%d", *val))
		} else {
			parts = append(parts, "null")
		}
	}

	addInt(rec.Bedrooms)
	addInt(rec.Bathrooms)
	addInt(rec.Receptions)
	addInt(rec.Parking)

	for i := 0; i < MaxImages; i++ {
		if i < len(rec.Images) {
			parts = append(parts, normalizeText(rec.Images[i]))
		} else {
			parts = append(parts, "null")
		}
	}

	return strings.Join(parts, "|")
}

func normalizeText(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "null"
	}
	return strings.ToLower(trimmed)
}

// Fingerprint computes the SHA256 content fingerprint of a listing's
// tracked fields. Stored next to the row, it lets the reconciler detect
// updates without comparing field by field.
func Fingerprint(rec PropertyRecord) string {
	h := sha256.New()
	h.Write([]byte(comparisonPayload(rec)))
	return fmt.Sprintf("%x", h.Sum(nil))
}
