package feedfetcher

import (
	"fmt"
	"strconv"

	"github.com/ndestates/google-stats-sub001/internal/core/domain"
)

var imageTags = []string{"image_one", "image_two", "image_three", "image_four", "image_five"}

// toDomainRecord maps the extracted tag values onto a PropertyRecord.
// reference and url are required; every other field degrades to its empty
// value, and unparsable numerics stay nil rather than aborting the record.
func toDomainRecord(fields map[string]string) (domain.PropertyRecord, error) {
	if fields["reference"] == "" {
		return domain.PropertyRecord{}, domain.ErrMissingReference
	}
	if fields["url"] == "" {
		return domain.PropertyRecord{}, fmt.Errorf("record %s: %w", fields["reference"], domain.ErrMissingURL)
	}

	record := domain.PropertyRecord{
		Reference:    fields["reference"],
		URL:          fields["url"],
		HouseName:    fields["housename"], // covers both houseName and housename
		PropertyName: fields["propertyname"],
		PropertyType: fields["propertytype"],
		Price:        parseFloat(fields["price"]),
		Parish:       fields["parish"],
		Status:       fields["status"],
		SaleType:     fields["type"],
		Bedrooms:     parseIntPtr(fields["bedrooms"]),
		Bathrooms:    parseIntPtr(fields["bathrooms"]),
		Receptions:   parseIntPtr(fields["receptions"]),
		Parking:      parseIntPtr(fields["parking"]),
		Latitude:     parseCoordinate(fields["latitude"]),
		Longitude:    parseCoordinate(fields["longitude"]),
		Description:  fields["description"],
	}

	for _, tag := range imageTags {
		if url := fields[tag]; url != "" {
			record.Images = append(record.Images, url)
		}
	}

	return record, nil
}

// parseFloat is for nonnegative amounts such as price.
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// parseCoordinate keeps the sign: Jersey longitudes are negative.
func parseCoordinate(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseIntPtr(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}
