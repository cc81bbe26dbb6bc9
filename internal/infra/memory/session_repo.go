package memory

import (
	"sync"

	"telegram-tempmail-bot/internal/domain/model"
	"telegram-tempmail-bot/internal/domain/ports/repository"
	"telegram-tempmail-bot/internal/infra/metrics"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo keeps sessions in a process-local map. Each session has
// its own lock so overlapping updates for the same chat are applied
// one at a time; updates for different chats never contend.
type SessionRepo struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

type entry struct {
	mu   sync.Mutex
	sess *model.Session
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{entries: make(map[int64]*entry)}
}

// entryFor returns the entry for chatID, creating the default session
// on first contact.
func (r *SessionRepo) entryFor(chatID int64) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[chatID]
	if !ok {
		e = &entry{sess: model.NewSession(chatID)}
		r.entries[chatID] = e
		metrics.IncSessionCreated()
	}
	return e
}

func (r *SessionRepo) Get(chatID int64) *model.Session {
	e := r.entryFor(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.Clone()
}

func (r *SessionRepo) Update(chatID int64, fn func(*model.Session)) {
	e := r.entryFor(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.sess)
}

func (r *SessionRepo) All() []*model.Session {
	r.mu.Lock()
	entries := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.Unlock()

	out := make([]*model.Session, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.sess.Clone())
		e.mu.Unlock()
	}
	return out
}

func (r *SessionRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
