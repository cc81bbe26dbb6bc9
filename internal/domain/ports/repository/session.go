package repository

import "telegram-tempmail-bot/internal/domain/model"

// SessionRepository holds one session per chat for the process
// lifetime. Implementations must serialize mutations per chat;
// returned sessions are snapshots and never alias live records.
type SessionRepository interface {
	// Get returns the session for chatID, creating the default record
	// on first contact.
	Get(chatID int64) *model.Session
	// Update applies fn to the live session for chatID (creating it if
	// absent) while holding that session's lock.
	Update(chatID int64, fn func(*model.Session))
	// All returns a snapshot of every known session.
	All() []*model.Session
	// Len reports the number of known sessions.
	Len() int
}
