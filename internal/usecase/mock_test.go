//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-tempmail-bot/internal/domain/ports/adapter"
	"telegram-tempmail-bot/internal/infra/worker"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// newTestPool starts a worker pool and ties its shutdown to the test.
func newTestPool(t *testing.T, workers int) *worker.Pool {
	t.Helper()
	pool := worker.NewPool(workers, newTestLogger())
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	t.Cleanup(func() {
		cancel()
		pool.Stop()
	})
	return pool
}

// =============================
// Adapters
// =============================

// ---- Mock TelegramBotAdapter ----

type SentMessage struct {
	ChatID int64
	Text   string
}

type MockTelegramBot struct {
	mu   sync.Mutex
	Sent []SentMessage // Capture all sent messages

	SendMessageFunc   func(ctx context.Context, chatID int64, text string) error
	ChannelMemberFunc func(ctx context.Context, channel string, chatID int64) (adapter.MemberStatus, error)
}

var _ adapter.TelegramBotAdapter = (*MockTelegramBot)(nil)

func (m *MockTelegramBot) SendMessage(ctx context.Context, chatID int64, text string) error {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, chatID, text)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMessage{ChatID: chatID, Text: text})
	return nil
}

func (m *MockTelegramBot) ChannelMember(ctx context.Context, channel string, chatID int64) (adapter.MemberStatus, error) {
	if m.ChannelMemberFunc != nil {
		return m.ChannelMemberFunc(ctx, channel, chatID)
	}
	return adapter.StatusMember, nil
}

func (m *MockTelegramBot) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// ---- Mock MailboxProvider ----

type MockMailboxProvider struct {
	mu sync.Mutex

	PickDomainFunc    func(ctx context.Context) (string, error)
	CreateMailboxFunc func(ctx context.Context, domain string) (*adapter.Mailbox, error)
	ListMessagesFunc  func(ctx context.Context, token string) ([]adapter.InboxMessage, error)
	DeleteMailboxFunc func(ctx context.Context, accountID, token string) error

	// tracing of invocations
	Calls struct {
		PickDomain    int
		CreateMailbox int
		ListMessages  int
		DeleteMailbox int
	}
}

var _ adapter.MailboxProvider = (*MockMailboxProvider)(nil)

func (m *MockMailboxProvider) PickDomain(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.Calls.PickDomain++
	m.mu.Unlock()
	if m.PickDomainFunc != nil {
		return m.PickDomainFunc(ctx)
	}
	return "example.com", nil
}

func (m *MockMailboxProvider) CreateMailbox(ctx context.Context, domain string) (*adapter.Mailbox, error) {
	m.mu.Lock()
	m.Calls.CreateMailbox++
	m.mu.Unlock()
	if m.CreateMailboxFunc != nil {
		return m.CreateMailboxFunc(ctx, domain)
	}
	return &adapter.Mailbox{
		Address:   fmt.Sprintf("user%d@%s", time.Now().UnixNano(), domain),
		AccountID: "acc-1",
		Token:     "tok-1",
	}, nil
}

func (m *MockMailboxProvider) ListMessages(ctx context.Context, token string) ([]adapter.InboxMessage, error) {
	m.mu.Lock()
	m.Calls.ListMessages++
	m.mu.Unlock()
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, token)
	}
	return nil, nil
}

func (m *MockMailboxProvider) DeleteMailbox(ctx context.Context, accountID, token string) error {
	m.mu.Lock()
	m.Calls.DeleteMailbox++
	m.mu.Unlock()
	if m.DeleteMailboxFunc != nil {
		return m.DeleteMailboxFunc(ctx, accountID, token)
	}
	return nil
}

func (m *MockMailboxProvider) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls.PickDomain + m.Calls.CreateMailbox + m.Calls.ListMessages + m.Calls.DeleteMailbox
}
