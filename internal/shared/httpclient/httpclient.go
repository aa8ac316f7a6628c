// Package httpclient provides the shared outbound HTTP client used by
// feed fetching, the summarization backend and webhook delivery.
package httpclient

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 15 * time.Second

// New returns a resty client tuned for outbound calls to third-party
// services. A non-positive timeout falls back to the default.
func New(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "rss-digest-feed/1.0")
}
