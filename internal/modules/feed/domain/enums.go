//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// FeedFormat represents the wire format of a feed source
// ENUM(rss,atom,auto)
type FeedFormat string
