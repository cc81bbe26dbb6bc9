//go:build !integration

package application_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-tempmail-bot/internal/application"
	"telegram-tempmail-bot/internal/domain/ports/adapter"
	"telegram-tempmail-bot/internal/infra/memory"
	"telegram-tempmail-bot/internal/infra/worker"
	"telegram-tempmail-bot/internal/usecase"
)

const (
	testChannel = "@mychannel"
	adminChatID = int64(99)
)

type mockBot struct {
	mu   sync.Mutex
	sent map[int64]int

	sendErr     error
	memberState adapter.MemberStatus
	memberErr   error
}

var _ adapter.TelegramBotAdapter = (*mockBot)(nil)

func newMockBot() *mockBot {
	return &mockBot{sent: map[int64]int{}, memberState: adapter.StatusLeft}
}

func (m *mockBot) SendMessage(ctx context.Context, chatID int64, text string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[chatID]++
	return nil
}

func (m *mockBot) ChannelMember(ctx context.Context, channel string, chatID int64) (adapter.MemberStatus, error) {
	if m.memberErr != nil {
		return "", m.memberErr
	}
	return m.memberState, nil
}

type mockProvider struct {
	mu       sync.Mutex
	calls    int
	domain   string
	inbox    []adapter.InboxMessage
	inboxErr error
	newErr   error
	delErr   error
}

var _ adapter.MailboxProvider = (*mockProvider)(nil)

func (m *mockProvider) bump() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockProvider) PickDomain(ctx context.Context) (string, error) {
	m.bump()
	if m.newErr != nil {
		return "", m.newErr
	}
	if m.domain == "" {
		return "example.com", nil
	}
	return m.domain, nil
}

func (m *mockProvider) CreateMailbox(ctx context.Context, domain string) (*adapter.Mailbox, error) {
	m.bump()
	if m.newErr != nil {
		return nil, m.newErr
	}
	return &adapter.Mailbox{
		Address:   fmt.Sprintf("user%d@%s", time.Now().UnixNano(), domain),
		AccountID: "acc-1",
		Token:     "tok-1",
	}, nil
}

func (m *mockProvider) ListMessages(ctx context.Context, token string) ([]adapter.InboxMessage, error) {
	m.bump()
	return m.inbox, m.inboxErr
}

func (m *mockProvider) DeleteMailbox(ctx context.Context, accountID, token string) error {
	m.bump()
	return m.delErr
}

type fixture struct {
	facade   *application.BotFacade
	sessions *memory.SessionRepo
	bot      *mockBot
	provider *mockProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zerolog.New(io.Discard)
	sessions := memory.NewSessionRepo()
	bot := newMockBot()
	provider := &mockProvider{}

	pool := worker.NewPool(2, &logger)
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	t.Cleanup(func() {
		cancel()
		pool.Stop()
	})

	verifyUC := usecase.NewVerifyUseCase(sessions, bot, testChannel, &logger)
	mailboxUC := usecase.NewMailboxUseCase(sessions, provider, &logger)
	broadcastUC := usecase.NewBroadcastUseCase(sessions, bot, pool, &logger)
	statsUC := usecase.NewStatsUseCase(sessions, &logger)

	facade := application.NewBotFacade(verifyUC, mailboxUC, broadcastUC, statsUC, sessions, testChannel, adminChatID, &logger)
	return &fixture{facade: facade, sessions: sessions, bot: bot, provider: provider}
}

func (f *fixture) verify(t *testing.T, chatID int64) {
	t.Helper()
	f.bot.memberState = adapter.StatusMember
	reply := f.facade.HandleVerify(context.Background(), chatID)
	if !strings.Contains(reply, "Verification successful") {
		t.Fatalf("verification did not succeed: %q", reply)
	}
}

func TestHandleStart(t *testing.T) {
	f := newFixture(t)

	reply := f.facade.HandleStart(context.Background(), 42)
	if !strings.Contains(reply, testChannel) {
		t.Errorf("welcome text must name the channel: %q", reply)
	}
	for _, cmd := range []string{"/verify", "/new", "/check", "/delete"} {
		if !strings.Contains(reply, cmd) {
			t.Errorf("welcome text must mention %s: %q", cmd, reply)
		}
	}
	if f.sessions.Len() != 1 {
		t.Errorf("start must create the session, store has %d", f.sessions.Len())
	}
}

func TestHandleVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("member becomes verified", func(t *testing.T) {
		f := newFixture(t)
		f.bot.memberState = adapter.StatusMember
		reply := f.facade.HandleVerify(ctx, 42)
		if !strings.Contains(reply, "Verification successful") {
			t.Errorf("unexpected reply: %q", reply)
		}
		if !f.sessions.Get(42).Verified {
			t.Error("session must be verified")
		}
	})

	t.Run("non-member is told to join", func(t *testing.T) {
		f := newFixture(t)
		f.bot.memberState = adapter.StatusLeft
		reply := f.facade.HandleVerify(ctx, 42)
		if !strings.Contains(reply, "Please join "+testChannel) {
			t.Errorf("unexpected reply: %q", reply)
		}
		if f.sessions.Get(42).Verified {
			t.Error("session must stay unverified")
		}
	})

	t.Run("platform error gets its own text", func(t *testing.T) {
		f := newFixture(t)
		f.bot.memberErr = errors.New("channel unreachable")
		reply := f.facade.HandleVerify(ctx, 42)
		if !strings.Contains(reply, "Error: Could not verify") {
			t.Errorf("unexpected reply: %q", reply)
		}
		if f.sessions.Get(42).Verified {
			t.Error("session must stay unverified")
		}
	})
}

func TestHandleNew(t *testing.T) {
	ctx := context.Background()
	addressRe := regexp.MustCompile(`user\d+@example\.com`)

	t.Run("unverified chat is told to join and provider sees no call", func(t *testing.T) {
		f := newFixture(t)
		reply := f.facade.HandleNew(ctx, 42)
		if !strings.Contains(reply, "Please join "+testChannel) {
			t.Errorf("unexpected reply: %q", reply)
		}
		if f.provider.callCount() != 0 {
			t.Errorf("provider recorded %d calls, want 0", f.provider.callCount())
		}
	})

	t.Run("verified chat gets an address", func(t *testing.T) {
		f := newFixture(t)
		f.verify(t, 42)

		reply := f.facade.HandleNew(ctx, 42)
		if !addressRe.MatchString(reply) {
			t.Errorf("reply must contain the new address: %q", reply)
		}
		sess := f.sessions.Get(42)
		if !addressRe.MatchString(sess.MailboxAddress) {
			t.Errorf("session address %q does not match user<digits>@example.com", sess.MailboxAddress)
		}
		if sess.AuthToken == "" {
			t.Error("token must be stored with the address")
		}
	})

	t.Run("provider failure collapses to the generic text", func(t *testing.T) {
		f := newFixture(t)
		f.verify(t, 42)
		f.provider.newErr = errors.New("boom")

		reply := f.facade.HandleNew(ctx, 42)
		if reply != "Error: Something went wrong. Try again." {
			t.Errorf("unexpected reply: %q", reply)
		}
		if f.sessions.Get(42).HasMailbox() {
			t.Error("session must have no mailbox after a failed create")
		}
	})
}

func TestHandleCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("before new yields the no-email reply and no provider call", func(t *testing.T) {
		f := newFixture(t)
		f.verify(t, 42)
		calls := f.provider.callCount()

		reply := f.facade.HandleCheck(ctx, 42)
		if reply != "No email found. Use /new to create one." {
			t.Errorf("unexpected reply: %q", reply)
		}
		if f.provider.callCount() != calls {
			t.Error("check without a mailbox must not call the provider")
		}
	})

	t.Run("truncates to five messages", func(t *testing.T) {
		for _, n := range []int{0, 3, 5, 12} {
			t.Run(fmt.Sprintf("%d messages", n), func(t *testing.T) {
				f := newFixture(t)
				f.verify(t, 42)
				f.facade.HandleNew(ctx, 42)

				for i := 0; i < n; i++ {
					f.provider.inbox = append(f.provider.inbox, adapter.InboxMessage{
						From:    fmt.Sprintf("sender%d@mail.test", i),
						Subject: fmt.Sprintf("subject %d", i),
					})
				}

				reply := f.facade.HandleCheck(ctx, 42)
				if n == 0 {
					if reply != "Your inbox is empty." {
						t.Errorf("unexpected reply: %q", reply)
					}
					return
				}
				shown := strings.Count(reply, "From: ")
				want := n
				if want > 5 {
					want = 5
				}
				if shown != want {
					t.Errorf("reply shows %d messages, want %d:\n%s", shown, want, reply)
				}
			})
		}
	})

	t.Run("provider failure collapses to the generic text", func(t *testing.T) {
		f := newFixture(t)
		f.verify(t, 42)
		f.facade.HandleNew(ctx, 42)
		f.provider.inboxErr = errors.New("boom")

		if reply := f.facade.HandleCheck(ctx, 42); reply != "Error: Could not check inbox." {
			t.Errorf("unexpected reply: %q", reply)
		}
	})
}

func TestHandleDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("before new yields the no-email reply", func(t *testing.T) {
		f := newFixture(t)
		f.verify(t, 42)

		if reply := f.facade.HandleDelete(ctx, 42); reply != "No email found. Use /new to create one." {
			t.Errorf("unexpected reply: %q", reply)
		}
	})

	t.Run("clears the session on success", func(t *testing.T) {
		f := newFixture(t)
		f.verify(t, 42)
		f.facade.HandleNew(ctx, 42)

		if reply := f.facade.HandleDelete(ctx, 42); reply != "Email deleted successfully." {
			t.Errorf("unexpected reply: %q", reply)
		}
		sess := f.sessions.Get(42)
		if sess.MailboxAddress != "" || sess.AuthToken != "" {
			t.Errorf("mailbox fields must be cleared: %+v", sess)
		}
	})

	t.Run("provider failure keeps the mailbox", func(t *testing.T) {
		f := newFixture(t)
		f.verify(t, 42)
		f.facade.HandleNew(ctx, 42)
		f.provider.delErr = errors.New("boom")

		if reply := f.facade.HandleDelete(ctx, 42); reply != "Error: Could not delete email." {
			t.Errorf("unexpected reply: %q", reply)
		}
		if !f.sessions.Get(42).HasMailbox() {
			t.Error("mailbox must stay attached after a failed delete")
		}
	})
}

func TestHandleBroadcast(t *testing.T) {
	ctx := context.Background()

	t.Run("non-admin gets the rejection and nothing is sent", func(t *testing.T) {
		f := newFixture(t)
		f.facade.HandleStart(ctx, 42)

		reply := f.facade.HandleBroadcast(ctx, 42, "hi all")
		if reply != "You are not authorized to use this command." {
			t.Errorf("unexpected reply: %q", reply)
		}
		if len(f.bot.sent) != 0 {
			t.Errorf("expected zero sends, got %v", f.bot.sent)
		}
	})

	t.Run("admin reaches every known chat", func(t *testing.T) {
		f := newFixture(t)
		for _, id := range []int64{42, 43, 44} {
			f.facade.HandleStart(ctx, id)
		}

		reply := f.facade.HandleBroadcast(ctx, adminChatID, "maintenance tonight")
		if reply != "Broadcast sent to 3 users." {
			t.Errorf("unexpected reply: %q", reply)
		}
		for _, id := range []int64{42, 43, 44} {
			if f.bot.sent[id] != 1 {
				t.Errorf("chat %d received %d messages, want 1", id, f.bot.sent[id])
			}
		}
	})

	t.Run("empty text yields the usage reply", func(t *testing.T) {
		f := newFixture(t)
		f.facade.HandleStart(ctx, 42)

		reply := f.facade.HandleBroadcast(ctx, adminChatID, "")
		if !strings.Contains(reply, "Usage: /broadcast") {
			t.Errorf("unexpected reply: %q", reply)
		}
		if len(f.bot.sent) != 0 {
			t.Errorf("expected zero sends, got %v", f.bot.sent)
		}
	})
}

func TestHandleStats(t *testing.T) {
	ctx := context.Background()

	t.Run("non-admin is rejected", func(t *testing.T) {
		f := newFixture(t)
		if reply := f.facade.HandleStats(ctx, 42); reply != "You are not authorized to use this command." {
			t.Errorf("unexpected reply: %q", reply)
		}
	})

	t.Run("admin sees the session summary", func(t *testing.T) {
		f := newFixture(t)
		f.facade.HandleStart(ctx, 42)
		f.verify(t, 42)
		f.facade.HandleNew(ctx, 42)

		reply := f.facade.HandleStats(ctx, adminChatID)
		if !strings.Contains(reply, "Sessions: 1") ||
			!strings.Contains(reply, "Verified: 1") ||
			!strings.Contains(reply, "Active mailboxes: 1") {
			t.Errorf("unexpected reply: %q", reply)
		}
	})
}
