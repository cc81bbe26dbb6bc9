package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-tempmail-bot/internal/domain"
	"telegram-tempmail-bot/internal/domain/model"
	"telegram-tempmail-bot/internal/domain/ports/adapter"
	"telegram-tempmail-bot/internal/domain/ports/repository"
	"telegram-tempmail-bot/internal/infra/logging"
)

// Compile-time check
var _ VerifyUseCase = (*verifyUC)(nil)

// VerifyUseCase is the channel-membership gate in front of mailbox
// commands.
type VerifyUseCase interface {
	// Verify checks channel membership for chatID. nil means the chat
	// is now verified; domain.ErrNotChannelMember means the check ran
	// but the chat has not joined; any other error is a platform
	// failure. Only the nil outcome touches the session.
	Verify(ctx context.Context, chatID int64) error
	// RequireVerified reports whether the chat may run mailbox
	// commands, returning domain.ErrNotVerified when it may not. It
	// never performs a remote call.
	RequireVerified(chatID int64) error
}

type verifyUC struct {
	sessions repository.SessionRepository
	bot      adapter.TelegramBotAdapter
	channel  string
	log      *zerolog.Logger
}

func NewVerifyUseCase(sessions repository.SessionRepository, bot adapter.TelegramBotAdapter, channel string, logger *zerolog.Logger) *verifyUC {
	return &verifyUC{
		sessions: sessions,
		bot:      bot,
		channel:  channel,
		log:      logger,
	}
}

func (u *verifyUC) Verify(ctx context.Context, chatID int64) error {
	defer logging.TraceDuration(u.log, "VerifyUC.Verify")()

	status, err := u.bot.ChannelMember(ctx, u.channel, chatID)
	if err != nil {
		u.log.Error().Err(err).Int64("chat_id", chatID).Str("channel", u.channel).Msg("membership check failed")
		return err
	}
	if !status.IsJoined() {
		return domain.ErrNotChannelMember
	}
	u.sessions.Update(chatID, func(s *model.Session) { s.MarkVerified() })
	return nil
}

func (u *verifyUC) RequireVerified(chatID int64) error {
	if !u.sessions.Get(chatID).Verified {
		return domain.ErrNotVerified
	}
	return nil
}
