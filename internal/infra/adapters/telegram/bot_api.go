package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-tempmail-bot/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*BotAPIAdapter)(nil)

// BotAPIAdapter implements the Telegram port on top of tgbotapi.
type BotAPIAdapter struct {
	bot *tgbotapi.BotAPI
}

func NewBotAPIAdapter(token string) (*BotAPIAdapter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &BotAPIAdapter{bot: bot}, nil
}

func (a *BotAPIAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := a.bot.Send(msg)
	return err
}

func (a *BotAPIAdapter) ChannelMember(ctx context.Context, channel string, chatID int64) (adapter.MemberStatus, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	member, err := a.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: channel,
			UserID:             chatID,
		},
	})
	if err != nil {
		return "", err
	}
	return adapter.MemberStatus(member.Status), nil
}
