package service

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/reshetovitsme/rss-digest-feed/internal/modules/article/domain"
	"github.com/samber/oops"
)

// Telegram sends article notifications to a Telegram chat through the
// bot API. The bot is only used for outbound sends.
type Telegram struct {
	bot    *bot.Bot
	chatID string
}

// NewTelegram creates a Telegram notification channel.
func NewTelegram(b *bot.Bot, chatID string) *Telegram {
	return &Telegram{
		bot:    b,
		chatID: chatID,
	}
}

func (t *Telegram) Name() string {
	return "telegram"
}

// Notify sends one message per article with title, link and summary.
func (t *Telegram) Notify(ctx context.Context, article *domain.Article) error {
	text := fmt.Sprintf("%s\n%s", article.Title, article.URL)
	if article.Summary != "" {
		text = fmt.Sprintf("%s\n\n%s", text, article.Summary)
	}

	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   text,
	})
	if err != nil {
		return oops.With("chat_id", t.chatID, "article_url", article.URL, "context", "failed to send telegram message").Wrap(err)
	}
	return nil
}
