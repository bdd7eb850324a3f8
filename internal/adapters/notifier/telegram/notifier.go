package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

// Notifier delivers notifications as Telegram messages to users who
// linked a chat id. Users without one are skipped silently.
type Notifier struct {
	bot *tgbotapi.BotAPI
}

func New(token string) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Notifier{bot: bot}, nil
}

func (n *Notifier) Deliver(ctx context.Context, user *domain.User, notification *domain.Notification) error {
	if user == nil || user.TelegramChatID == 0 {
		return nil
	}

	msg := tgbotapi.NewMessage(user.TelegramChatID, messageText(notification))
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

func messageText(n *domain.Notification) string {
	switch n.Kind {
	case domain.NotifyDelegationReceived:
		return "Someone delegated their vote to you."
	case domain.NotifyDelegationRevoked:
		return "A delegation to you was revoked."
	case domain.NotifyElectionVoted:
		return "A new vote was cast in your election."
	default:
		return fmt.Sprintf("You have a new notification: %s", n.Kind)
	}
}

var _ ports.Notifier = (*Notifier)(nil)
