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
var _ MailboxUseCase = (*mailboxUC)(nil)

// MailboxUseCase drives the temporary-mailbox lifecycle for a chat.
// Verification is enforced by the caller; these methods assume it.
type MailboxUseCase interface {
	// Create provisions a mailbox at the provider and attaches it to
	// the chat's session, returning the new address.
	Create(ctx context.Context, chatID int64) (string, error)
	// Inbox lists the mailbox contents in provider order. Returns
	// domain.ErrNoMailbox when no mailbox is attached.
	Inbox(ctx context.Context, chatID int64) ([]adapter.InboxMessage, error)
	// Delete removes the provider account and clears the session
	// fields. Returns domain.ErrNoMailbox when no mailbox is attached.
	Delete(ctx context.Context, chatID int64) error
}

type mailboxUC struct {
	sessions repository.SessionRepository
	provider adapter.MailboxProvider
	log      *zerolog.Logger
}

func NewMailboxUseCase(sessions repository.SessionRepository, provider adapter.MailboxProvider, logger *zerolog.Logger) *mailboxUC {
	return &mailboxUC{
		sessions: sessions,
		provider: provider,
		log:      logger,
	}
}

func (u *mailboxUC) Create(ctx context.Context, chatID int64) (string, error) {
	defer logging.TraceDuration(u.log, "MailboxUC.Create")()

	dom, err := u.provider.PickDomain(ctx)
	if err != nil {
		return "", err
	}
	box, err := u.provider.CreateMailbox(ctx, dom)
	if err != nil {
		return "", err
	}
	u.sessions.Update(chatID, func(s *model.Session) {
		s.AttachMailbox(box.Address, box.AccountID, box.Token)
	})
	u.log.Info().Int64("chat_id", chatID).Str("address", box.Address).Msg("mailbox created")
	return box.Address, nil
}

func (u *mailboxUC) Inbox(ctx context.Context, chatID int64) ([]adapter.InboxMessage, error) {
	defer logging.TraceDuration(u.log, "MailboxUC.Inbox")()

	sess := u.sessions.Get(chatID)
	if !sess.HasMailbox() {
		return nil, domain.ErrNoMailbox
	}
	return u.provider.ListMessages(ctx, sess.AuthToken)
}

func (u *mailboxUC) Delete(ctx context.Context, chatID int64) error {
	defer logging.TraceDuration(u.log, "MailboxUC.Delete")()

	sess := u.sessions.Get(chatID)
	if !sess.HasMailbox() {
		return domain.ErrNoMailbox
	}
	if err := u.provider.DeleteMailbox(ctx, sess.AccountID, sess.AuthToken); err != nil {
		return err
	}
	u.sessions.Update(chatID, func(s *model.Session) { s.ClearMailbox() })
	u.log.Info().Int64("chat_id", chatID).Str("address", sess.MailboxAddress).Msg("mailbox deleted")
	return nil
}
