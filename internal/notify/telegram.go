// Package notify delivers outbound Telegram messages to users.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"
)

// TelegramNotifier sends level-up messages through a Telegram bot.
// Delivery is best effort: failures are logged and never propagated to
// the workflow that triggered the notification.
type TelegramNotifier struct {
	bot *tele.Bot
}

// NewTelegramNotifier creates a notifier for the given bot token.
func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	if token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &TelegramNotifier{bot: bot}, nil
}

// NotifyLevelUp sends a congratulation message to the user.
func (n *TelegramNotifier) NotifyLevelUp(ctx context.Context, telegramID int64, newLevel int) {
	recipient := &tele.User{ID: telegramID}
	msg := fmt.Sprintf("Level up! You are now level %d.", newLevel)

	if _, err := n.bot.Send(recipient, msg); err != nil {
		log.Warn().
			Err(err).
			Int64("telegram_id", telegramID).
			Int("new_level", newLevel).
			Msg("Failed to deliver level-up notification")
	}
}
