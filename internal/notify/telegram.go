package notify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// TelegramNotifier delivers landlord notifications through a Telegram bot.
// Telegram addresses chats by numeric ID, not phone number, so the notifier
// carries a phone → chat ID mapping from config.
type TelegramNotifier struct {
	bot   *telego.Bot
	chats map[string]string // recipient phone → chat ID
}

func NewTelegramNotifier(token string, chats map[string]string) (*TelegramNotifier, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: create bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chats: chats}, nil
}

func (t *TelegramNotifier) Name() string { return "telegram" }

func (t *TelegramNotifier) Send(ctx context.Context, to, body string) error {
	chat, ok := t.chats[to]
	if !ok {
		return fmt.Errorf("telegram: no chat mapped for %s", to)
	}
	chatID, err := strconv.ParseInt(chat, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: bad chat ID %q for %s: %w", chat, to, err)
	}

	if _, err := t.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), body)); err != nil {
		return fmt.Errorf("telegram: send to %s: %w", to, err)
	}
	return nil
}
