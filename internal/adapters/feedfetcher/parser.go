package feedfetcher

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ndestates/google-stats-sub001/internal/contextkeys"
	"github.com/ndestates/google-stats-sub001/internal/core/domain"
	"github.com/ndestates/google-stats-sub001/internal/core/port"
)

// FeedParserAdapter parses the XML feed document into property records.
//
// The feed variants are inconsistent about tag casing (houseName vs
// housename), so every child tag is matched case-insensitively.
type FeedParserAdapter struct{}

func NewFeedParserAdapter() *FeedParserAdapter {
	return &FeedParserAdapter{}
}

// Parse walks the document and extracts one record per <property>
// element. Records missing reference or url are dropped and counted in
// skipped; a malformed document is a fatal error.
func (p *FeedParserAdapter) Parse(ctx context.Context, payload []byte) ([]domain.PropertyRecord, int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	parseLogger := logger.WithFields(port.Fields{"component": "FeedParserAdapter"})

	decoder := xml.NewDecoder(bytes.NewReader(payload))

	var records []domain.PropertyRecord
	skipped := 0

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			parseLogger.Error("Feed document is malformed", err, nil)
			return nil, 0, fmt.Errorf("%w: %v", domain.ErrMalformedFeed, err)
		}

		start, ok := token.(xml.StartElement)
		if !ok || !strings.EqualFold(start.Name.Local, "property") {
			continue
		}

		fields, err := decodePropertyElement(decoder, start)
		if err != nil {
			parseLogger.Error("Feed document is malformed inside a property element", err, nil)
			return nil, 0, fmt.Errorf("%w: %v", domain.ErrMalformedFeed, err)
		}

		record, err := toDomainRecord(fields)
		if err != nil {
			skipped++
			parseLogger.Warn("Skipping feed record with missing required field", port.Fields{
				"error":     err.Error(),
				"reference": fields["reference"],
			})
			continue
		}
		records = append(records, record)
	}

	parseLogger.Info("Feed parsed", port.Fields{"records": len(records), "skipped": skipped})
	return records, skipped, nil
}

// decodePropertyElement reads the children of one <property> element into
// a map keyed by the lower-cased tag name. Nested markup inside a child is
// flattened to its character data.
func decodePropertyElement(decoder *xml.Decoder, start xml.StartElement) (map[string]string, error) {
	fields := make(map[string]string)

	var currentTag string
	var text strings.Builder
	depth := 0

	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("unexpected end of property element: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				currentTag = strings.ToLower(t.Name.Local)
				text.Reset()
			}
		case xml.CharData:
			if depth >= 1 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 0 {
				// Closing the <property> element itself.
				return fields, nil
			}
			if depth == 1 && currentTag != "" {
				fields[currentTag] = strings.TrimSpace(text.String())
				currentTag = ""
			}
			depth--
		}
	}
}
