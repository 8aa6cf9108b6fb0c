// Package telegram posts support-ticket alerts to a staff chat.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"quizblog/gateway/internal/models"
)

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Translator interface {
	GetString(lang, key string) string
}

// Notifier is a broker sink reacting to contact.submitted and contact.unclaimed.
type Notifier struct {
	bot    Sender
	chatID int64
	text   Translator
	log    *zap.Logger
}

func NewNotifier(token string, chatID int64, text Translator, log *zap.Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	bot.Debug = false
	log.Info("telegram notifier authorized", zap.String("account", bot.Self.UserName))
	return newNotifier(bot, chatID, text, log), nil
}

func newNotifier(bot Sender, chatID int64, text Translator, log *zap.Logger) *Notifier {
	return &Notifier{bot: bot, chatID: chatID, text: text, log: log}
}

func (n *Notifier) Name() string { return "telegram" }

func (n *Notifier) Publish(_ context.Context, event models.DomainEvent) error {
	payload, ok := event.Payload.(models.ContactEvent)
	if !ok {
		return nil
	}
	c := payload.Contact

	var text string
	switch event.Topic {
	case models.TopicContactSubmitted:
		text = fmt.Sprintf(n.text.GetString("en", "telegram.new_contact"), c.Name, c.Email, subjectOrDash(c.Subject))
	case models.TopicContactUnclaimed:
		text = fmt.Sprintf(n.text.GetString("en", "telegram.unclaimed"), c.ID, c.Name)
	default:
		return nil
	}

	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	n.log.Debug("telegram alert sent", zap.String("contact_id", c.ID), zap.String("topic", event.Topic))
	return nil
}

func subjectOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
