package errors

import "errors"

var (
	ErrMissingGeminiKey  = errors.New("GEMINI_API_KEY environment variable is required")
	ErrNoFeedsConfigured = errors.New("no feed sources configured")
	ErrArticleNotFound   = errors.New("article not found")
	ErrFeedNotFound      = errors.New("feed source not found")
)
