package parser

import (
	"encoding/xml"
	"fmt"

	"github.com/reshetovitsme/rss-digest-feed/internal/modules/feed/domain"
)

type rssDocument struct {
	XMLName xml.Name    `xml:"rss"`
	Channel *rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// parseRSS reads channel>item entries. A single item and an item list
// decode the same way; missing fields stay empty.
func (p *Parser) parseRSS(raw string) ([]domain.Item, error) {
	if !looksLikeXML(raw, "<rss") {
		return nil, &ParseError{Format: domain.FeedFormatRss, Detail: "text is not recognizable as XML"}
	}

	var doc rssDocument
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &ParseError{Format: domain.FeedFormatRss, Detail: fmt.Sprintf("malformed XML: %v", err)}
	}

	if doc.Channel == nil {
		return nil, &ParseError{Format: domain.FeedFormatRss, Detail: "missing rss>channel root element"}
	}

	items := make([]domain.Item, 0, len(doc.Channel.Items))
	for _, it := range doc.Channel.Items {
		published, fallback := NormalizeDate(it.PubDate)
		items = append(items, domain.Item{
			Title:           it.Title,
			URL:             it.Link,
			PublishedDate:   published,
			Content:         it.Description,
			DateWasFallback: fallback,
		})
	}
	return items, nil
}
