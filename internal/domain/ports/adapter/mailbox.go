package adapter

import "context"

// Mailbox is the result of a successful account creation at the mail
// provider: the address plus the credentials needed for later calls.
type Mailbox struct {
	Address   string
	AccountID string
	Token     string
}

// InboxMessage is the subset of a provider message shown to users.
type InboxMessage struct {
	From    string
	Subject string
}

// MailboxProvider wraps the remote disposable-mail API. Pure
// request/response, no local state, no retries.
type MailboxProvider interface {
	// PickDomain returns the first domain the provider advertises.
	PickDomain(ctx context.Context) (string, error)
	// CreateMailbox registers a new account under domain and
	// authenticates it. Two round trips; if the token call fails the
	// account may be orphaned on the provider side.
	CreateMailbox(ctx context.Context, domain string) (*Mailbox, error)
	// ListMessages fetches the mailbox contents in provider order.
	ListMessages(ctx context.Context, token string) ([]InboxMessage, error)
	// DeleteMailbox removes the account identified by accountID.
	DeleteMailbox(ctx context.Context, accountID, token string) error
}
