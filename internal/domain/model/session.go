package model

import "time"

// Session is the per-chat state the bot keeps for its lifetime.
// A session exists from the first contact with a chat and is never
// destroyed; it is lost when the process exits.
type Session struct {
	ChatID int64

	// Mailbox fields. Address, AccountID and AuthToken are set and
	// cleared together: either all three are present or none is.
	MailboxAddress string
	AccountID      string
	AuthToken      string

	Verified  bool
	CreatedAt time.Time
}

// NewSession returns the default record for a chat that has not
// interacted before: unverified, no mailbox.
func NewSession(chatID int64) *Session {
	return &Session{
		ChatID:    chatID,
		CreatedAt: time.Now(),
	}
}

// HasMailbox reports whether a mailbox is currently attached.
func (s *Session) HasMailbox() bool {
	return s.MailboxAddress != ""
}

// AttachMailbox records a freshly created mailbox on the session.
func (s *Session) AttachMailbox(address, accountID, token string) {
	s.MailboxAddress = address
	s.AccountID = accountID
	s.AuthToken = token
}

// ClearMailbox removes the mailbox fields after a successful delete.
func (s *Session) ClearMailbox() {
	s.MailboxAddress = ""
	s.AccountID = ""
	s.AuthToken = ""
}

// MarkVerified flips the verification flag after a confirmed
// channel-membership check.
func (s *Session) MarkVerified() {
	s.Verified = true
}

// Clone returns a copy safe to hand outside the repository lock.
func (s *Session) Clone() *Session {
	c := *s
	return &c
}
