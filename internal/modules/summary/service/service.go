package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/reshetovitsme/rss-digest-feed/internal/modules/summary/backend"
	"github.com/reshetovitsme/rss-digest-feed/internal/modules/summary/domain"
	"github.com/samber/oops"
)

const (
	defaultMaxLength  = 400
	defaultMaxRetries = 3

	emptyContentPlaceholder = "(内容なし)"
)

var newlineRuns = regexp.MustCompile(`\n+`)

// BackoffFunc maps a 1-based attempt number to the delay before the
// next attempt. It must be a pure function of the attempt number.
type BackoffFunc func(attempt int) time.Duration

// Service wraps the generative backend with the prompt template,
// response validation, length capping and retry with backoff.
type Service struct {
	backend    backend.Backend
	maxLength  int
	maxRetries int
	backoff    BackoffFunc
}

// New creates a new summarization service
func New(b backend.Backend, maxLength, maxRetries int) *Service {
	if maxLength <= 0 {
		maxLength = defaultMaxLength
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Service{
		backend:    b,
		maxLength:  maxLength,
		maxRetries: maxRetries,
		backoff:    defaultBackoff,
	}
}

// SetBackoff replaces the delay schedule. Tests inject a zero delay.
func (s *Service) SetBackoff(fn BackoffFunc) {
	if fn != nil {
		s.backoff = fn
	}
}

// Summarize generates a capped summary for the request, retrying up to
// the configured attempt count with exponential backoff in between.
func (s *Service) Summarize(ctx context.Context, req domain.Request) (*domain.Response, error) {
	prompt := s.BuildPrompt(req)

	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		text, err := s.backend.Generate(ctx, prompt)
		if err == nil {
			if strings.TrimSpace(text) == "" {
				err = oops.Errorf("empty response from generation service")
			} else {
				return &domain.Response{Summary: s.ValidateAndTruncate(text)}, nil
			}
		}
		lastErr = err

		if attempt == s.maxRetries {
			break
		}

		select {
		case <-time.After(s.backoff(attempt)):
		case <-ctx.Done():
			return nil, oops.With("context", "summarization cancelled").Wrap(ctx.Err())
		}
	}

	if s.maxRetries > 1 {
		return nil, oops.Errorf("failed to generate summary after %d attempts: %v", s.maxRetries, lastErr)
	}
	return nil, oops.Errorf("failed to generate summary: %v", lastErr)
}

// BuildPrompt renders the fixed instruction prompt for a request. Empty
// content is substituted with a literal placeholder token.
func (s *Service) BuildPrompt(req domain.Request) string {
	content := req.Content
	if content == "" {
		content = emptyContentPlaceholder
	}

	return fmt.Sprintf(`以下の記事について新聞のテレビ欄のように日本語で概要と注目すべき点を無駄なく簡潔に記述してください。
絶対に250字を超えないようにしてください。
強調表現(**)なども不要、句読点は , . を使ってください。
「詳細は〇〇」という文言も不要です。

タイトル: %s
内容: %s

概要と注目すべき点:`, req.Title, content)
}

// ValidateAndTruncate collapses internal newlines, trims, and enforces
// the length cap counted in runes. A truncated result is exactly
// maxLength long and ends with a single ellipsis character; input
// already within the cap passes through unchanged.
func (s *Service) ValidateAndTruncate(summary string) string {
	cleaned := newlineRuns.ReplaceAllString(strings.TrimSpace(summary), " ")

	runes := []rune(cleaned)
	if len(runes) <= s.maxLength {
		return cleaned
	}

	return string(runes[:s.maxLength-1]) + "…"
}

func defaultBackoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}
