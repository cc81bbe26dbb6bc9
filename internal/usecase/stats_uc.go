package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-tempmail-bot/internal/domain/ports/repository"
	"telegram-tempmail-bot/internal/infra/logging"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// Stats is an admin-facing summary of the session table.
type Stats struct {
	Sessions        int
	Verified        int
	ActiveMailboxes int
}

type StatsUseCase interface {
	Snapshot(ctx context.Context) (Stats, error)
}

type statsUC struct {
	sessions repository.SessionRepository
	log      *zerolog.Logger
}

func NewStatsUseCase(sessions repository.SessionRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{sessions: sessions, log: logger}
}

func (u *statsUC) Snapshot(ctx context.Context) (Stats, error) {
	defer logging.TraceDuration(u.log, "StatsUC.Snapshot")()

	var st Stats
	for _, s := range u.sessions.All() {
		st.Sessions++
		if s.Verified {
			st.Verified++
		}
		if s.HasMailbox() {
			st.ActiveMailboxes++
		}
	}
	return st, nil
}
