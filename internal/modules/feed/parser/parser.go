// Package parser normalizes raw RSS 2.0 and Atom payloads into a
// uniform list of feed items. It is deliberately permissive: malformed
// individual entries degrade to empty fields, and only a structurally
// broken document is reported as an error.
package parser

import (
	"fmt"
	"strings"

	"github.com/reshetovitsme/rss-digest-feed/internal/modules/feed/domain"
)

// ParseError reports a document that could not be interpreted as a feed
// at all, with a description of the offending part.
type ParseError struct {
	Format domain.FeedFormat
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s document: %s", e.Format, e.Detail)
}

// Parser converts raw feed documents into domain items.
type Parser struct{}

// New creates a feed parser.
func New() *Parser {
	return &Parser{}
}

// DetectFormat classifies raw feed text as Atom or RSS. This is a
// heuristic, not a validating parser: a document containing both a feed
// root marker and an entry marker is treated as Atom, everything else
// as RSS.
func DetectFormat(raw string) domain.FeedFormat {
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "<feed") && strings.Contains(lower, "<entry") {
		return domain.FeedFormatAtom
	}
	return domain.FeedFormatRss
}

// Parse extracts the items of a feed document. When format is auto the
// document is classified first. Re-parsing the same text always yields
// the same number of items.
func (p *Parser) Parse(raw string, format domain.FeedFormat) ([]domain.Item, error) {
	if format == domain.FeedFormatAuto || format == "" {
		format = DetectFormat(raw)
	}

	switch format {
	case domain.FeedFormatAtom:
		return p.parseAtom(raw)
	default:
		return p.parseRSS(raw)
	}
}

// looksLikeXML rejects payloads with no XML markers before decoding.
func looksLikeXML(raw string, rootMarker string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, rootMarker) || strings.Contains(lower, "<?xml")
}
