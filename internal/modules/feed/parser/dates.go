package parser

import (
	"strings"
	"time"
)

// isoTimestamp is the canonical output format for published dates,
// always UTC with millisecond precision.
const isoTimestamp = "2006-01-02T15:04:05.000Z"

// dateLayouts are tried in order; RFC-2822 shapes first (RSS pubDate),
// then ISO-8601 shapes (Atom updated/published).
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeDate converts an RFC-2822 or ISO-8601 date string into the
// canonical ISO-8601 UTC form. A missing or unparseable value is
// replaced with the current time, reported through the second return
// value so callers can treat fallback-dated items specially.
func NormalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC().Format(isoTimestamp), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(isoTimestamp), false
		}
	}

	return time.Now().UTC().Format(isoTimestamp), true
}
