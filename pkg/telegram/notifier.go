package telegram

import (
	"context"
	"errors"
	"fmt"

	"crypto-meanrev/config"
	"crypto-meanrev/pkg/logger"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// ErrNotConfigured is returned when the bot token or chat IDs are missing.
var ErrNotConfigured = errors.New("no telegram token or chat ids configured")

// chatID lets plain string chat identifiers (numeric IDs or @channels)
// act as telebot recipients.
type chatID string

func (c chatID) Recipient() string { return string(c) }

// Notifier delivers one pre-built Markdown report to every configured
// chat, throttled by a global limiter.
type Notifier struct {
	cfg     *config.TelegramConfig
	log     *logger.Logger
	bot     *telebot.Bot
	limiter *rate.Limiter
}

func NewNotifier(cfg *config.TelegramConfig, log *logger.Logger) (*Notifier, error) {
	if cfg.BotToken == "" || len(cfg.ChatIDs) == 0 {
		return nil, ErrNotConfigured
	}

	bot, err := telebot.NewBot(telebot.Settings{Token: cfg.BotToken})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Notifier{
		cfg:     cfg,
		log:     log,
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(cfg.MaxRequestPerSecond), 1),
	}, nil
}

// Broadcast sends the text to every configured chat. A failed recipient
// does not stop delivery to the rest; all failures are joined into the
// returned error.
func (n *Notifier) Broadcast(ctx context.Context, text string) error {
	opts := &telebot.SendOptions{
		ParseMode:             telebot.ModeMarkdown,
		DisableWebPagePreview: true,
	}

	var errs []error
	for _, id := range n.cfg.ChatIDs {
		if err := n.limiter.Wait(ctx); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := n.bot.Send(chatID(id), text, opts); err != nil {
			n.log.Error("Failed to send telegram message",
				logger.StringField("chat_id", id),
				logger.ErrorField(err),
			)
			errs = append(errs, fmt.Errorf("chat %s: %w", id, err))
			continue
		}
		n.log.Info("Sent telegram message", logger.StringField("chat_id", id))
	}
	return errors.Join(errs...)
}
