package parser

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/reshetovitsme/rss-digest-feed/internal/modules/feed/domain"
)

type atomDocument struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string     `xml:"title"`
	Links     []atomLink `xml:"link"`
	Updated   string     `xml:"updated"`
	Published string     `xml:"published"`
	Content   *atomText  `xml:"content"`
	Summary   *atomText  `xml:"summary"`
}

// atomLink covers every link shape seen in the wild: a plain string
// element, a single href object, or a list of objects distinguished by
// their rel attribute.
type atomLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
	Text string `xml:",chardata"`
}

// atomText holds content/summary nodes that may be plain text or a
// typed node with inline text.
type atomText struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

// parseAtom reads feed>entry entries. Dates prefer updated over
// published; content falls back to summary when absent.
func (p *Parser) parseAtom(raw string) ([]domain.Item, error) {
	if !looksLikeXML(raw, "<feed") {
		return nil, &ParseError{Format: domain.FeedFormatAtom, Detail: "text is not recognizable as XML"}
	}

	var doc atomDocument
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &ParseError{Format: domain.FeedFormatAtom, Detail: fmt.Sprintf("malformed XML: %v", err)}
	}

	items := make([]domain.Item, 0, len(doc.Entries))
	for _, entry := range doc.Entries {
		date := entry.Updated
		if date == "" {
			date = entry.Published
		}
		published, fallback := NormalizeDate(date)

		items = append(items, domain.Item{
			Title:           entry.Title,
			URL:             canonicalLink(entry.Links),
			PublishedDate:   published,
			Content:         entryContent(entry),
			DateWasFallback: fallback,
		})
	}
	return items, nil
}

// canonicalLink picks the entry link marked rel="alternate", falling
// back to the first link that carries any target at all.
func canonicalLink(links []atomLink) string {
	if len(links) == 0 {
		return ""
	}

	for _, l := range links {
		if l.Rel == "alternate" && l.Href != "" {
			return l.Href
		}
	}
	for _, l := range links {
		if l.Href != "" {
			return l.Href
		}
	}
	// Plain-string link elements have no href attribute.
	return strings.TrimSpace(links[0].Text)
}

func entryContent(entry atomEntry) string {
	if entry.Content != nil {
		if text := strings.TrimSpace(entry.Content.Text); text != "" {
			return text
		}
	}
	if entry.Summary != nil {
		return strings.TrimSpace(entry.Summary.Text)
	}
	return ""
}
