package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"telegram-tempmail-bot/internal/domain"
	"telegram-tempmail-bot/internal/domain/ports/repository"
	"telegram-tempmail-bot/internal/infra/logging"
	"telegram-tempmail-bot/internal/usecase"
)

// BotFacade composes usecases into high-level bot commands. Every
// handler returns the reply string to forward to the chat; failures
// are collapsed into the per-command user text here while the cause is
// logged with its error kind for operators.
type BotFacade struct {
	VerifyUC    usecase.VerifyUseCase
	MailboxUC   usecase.MailboxUseCase
	BroadcastUC usecase.BroadcastUseCase
	StatsUC     usecase.StatsUseCase

	sessions repository.SessionRepository
	channel  string
	adminID  int64
	log      *zerolog.Logger
}

func NewBotFacade(
	verifyUC usecase.VerifyUseCase,
	mailboxUC usecase.MailboxUseCase,
	broadcastUC usecase.BroadcastUseCase,
	statsUC usecase.StatsUseCase,
	sessions repository.SessionRepository,
	channel string,
	adminID int64,
	logger *zerolog.Logger,
) *BotFacade {
	return &BotFacade{
		VerifyUC:    verifyUC,
		MailboxUC:   mailboxUC,
		BroadcastUC: broadcastUC,
		StatsUC:     statsUC,
		sessions:    sessions,
		channel:     channel,
		adminID:     adminID,
		log:         logger,
	}
}

// inboxDisplayLimit caps how many messages /check shows.
const inboxDisplayLimit = 5

// HandleStart creates the session on first contact and returns the
// welcome text naming the required channel and the command list.
func (b *BotFacade) HandleStart(ctx context.Context, chatID int64) string {
	b.sessions.Get(chatID) // first contact creates the default session
	return fmt.Sprintf("Welcome to Temp Mail Bot! 📧\nPlease join our channel %s to use the bot.\nAfter joining, use /verify to activate the bot.\nCommands: /new, /check, /delete", b.channel)
}

// HandleVerify runs the channel-membership check. Not-a-member and
// platform-error outcomes get distinct texts; neither flips the flag.
func (b *BotFacade) HandleVerify(ctx context.Context, chatID int64) string {
	err := b.VerifyUC.Verify(ctx, chatID)
	switch {
	case err == nil:
		return "Verification successful! 🎉\nYou can now use: /new, /check, /delete"
	case errors.Is(err, domain.ErrNotChannelMember):
		return fmt.Sprintf("Please join %s first, then use /verify again.", b.channel)
	default:
		logging.With(ctx, b.log).Error().Err(err).Msg("verify failed")
		return fmt.Sprintf("Error: Could not verify. Ensure you joined %s and try again.", b.channel)
	}
}

// HandleNew provisions a temporary mailbox for a verified chat.
func (b *BotFacade) HandleNew(ctx context.Context, chatID int64) string {
	if reply, ok := b.requireVerified(chatID); !ok {
		return reply
	}
	address, err := b.MailboxUC.Create(ctx, chatID)
	if err != nil {
		b.logProviderErr(ctx, err, "create mailbox")
		return "Error: Something went wrong. Try again."
	}
	return fmt.Sprintf("Your new temporary email is: %s", address)
}

// HandleCheck lists up to inboxDisplayLimit messages of the chat's
// mailbox.
func (b *BotFacade) HandleCheck(ctx context.Context, chatID int64) string {
	if reply, ok := b.requireVerified(chatID); !ok {
		return reply
	}
	messages, err := b.MailboxUC.Inbox(ctx, chatID)
	switch {
	case errors.Is(err, domain.ErrNoMailbox):
		return "No email found. Use /new to create one."
	case err != nil:
		b.logProviderErr(ctx, err, "check inbox")
		return "Error: Could not check inbox."
	}
	if len(messages) == 0 {
		return "Your inbox is empty."
	}

	sb := strings.Builder{}
	sb.WriteString("Inbox:\n")
	for i, msg := range messages {
		if i == inboxDisplayLimit {
			break
		}
		sb.WriteString(fmt.Sprintf("From: %s\nSubject: %s\n\n", msg.From, msg.Subject))
	}
	return sb.String()
}

// HandleDelete removes the chat's mailbox at the provider and clears
// the session fields.
func (b *BotFacade) HandleDelete(ctx context.Context, chatID int64) string {
	if reply, ok := b.requireVerified(chatID); !ok {
		return reply
	}
	err := b.MailboxUC.Delete(ctx, chatID)
	switch {
	case errors.Is(err, domain.ErrNoMailbox):
		return "No email found. Use /new to create one."
	case err != nil:
		b.logProviderErr(ctx, err, "delete mailbox")
		return "Error: Could not delete email."
	}
	return "Email deleted successfully."
}

// HandleBroadcast sends a fixed-prefix message to every known chat.
// Only the configured admin may use it.
func (b *BotFacade) HandleBroadcast(ctx context.Context, chatID int64, args string) string {
	if err := b.authorize(chatID); err != nil {
		return "You are not authorized to use this command."
	}
	if strings.TrimSpace(args) == "" {
		return "Please provide a message to broadcast. Usage: /broadcast <message>"
	}
	count, err := b.BroadcastUC.BroadcastMessage(ctx, "Admin Broadcast: "+args)
	if err != nil {
		logging.With(ctx, b.log).Error().Err(err).Msg("broadcast failed")
		return "Error: Could not send broadcast."
	}
	return fmt.Sprintf("Broadcast sent to %d users.", count)
}

// HandleStats returns the admin-only session summary.
func (b *BotFacade) HandleStats(ctx context.Context, chatID int64) string {
	if err := b.authorize(chatID); err != nil {
		return "You are not authorized to use this command."
	}
	st, err := b.StatsUC.Snapshot(ctx)
	if err != nil {
		logging.With(ctx, b.log).Error().Err(err).Msg("stats failed")
		return "Error: Could not load stats."
	}
	return fmt.Sprintf("Sessions: %d\nVerified: %d\nActive mailboxes: %d", st.Sessions, st.Verified, st.ActiveMailboxes)
}

// HandleHelp lists the available commands.
func (b *BotFacade) HandleHelp(ctx context.Context, chatID int64) string {
	return "Commands:\n/start - welcome\n/verify - confirm channel membership\n/new - create a temporary email\n/check - read the inbox\n/delete - remove the email\n/help - this text"
}

// requireVerified short-circuits mailbox commands for unverified
// chats with the fixed instructional reply.
func (b *BotFacade) requireVerified(chatID int64) (string, bool) {
	if err := b.VerifyUC.RequireVerified(chatID); errors.Is(err, domain.ErrNotVerified) {
		return fmt.Sprintf("Please join %s and use /verify to activate the bot.", b.channel), false
	}
	return "", true
}

// authorize gates admin commands on the configured admin chat id.
func (b *BotFacade) authorize(chatID int64) error {
	if chatID != b.adminID {
		return domain.ErrUnauthorized
	}
	return nil
}

func (b *BotFacade) logProviderErr(ctx context.Context, err error, action string) {
	logging.With(ctx, b.log).Error().
		Err(err).
		Str("kind", string(domain.ProviderErrKind(err))).
		Msgf("%s failed", action)
}
