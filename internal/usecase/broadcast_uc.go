package usecase

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"telegram-tempmail-bot/internal/domain"
	"telegram-tempmail-bot/internal/domain/ports/adapter"
	"telegram-tempmail-bot/internal/domain/ports/repository"
	"telegram-tempmail-bot/internal/infra/metrics"
	"telegram-tempmail-bot/internal/infra/worker"
)

// Compile-time check
var _ BroadcastUseCase = (*broadcastUC)(nil)

type BroadcastUseCase interface {
	// BroadcastMessage sends text to every chat currently in the
	// session store and returns the number of successful sends.
	// Failures are logged and counted, never retried.
	BroadcastMessage(ctx context.Context, text string) (int, error)
}

type broadcastUC struct {
	sessions   repository.SessionRepository
	bot        adapter.TelegramBotAdapter
	workerPool *worker.Pool
	log        *zerolog.Logger
}

func NewBroadcastUseCase(
	sessions repository.SessionRepository,
	bot adapter.TelegramBotAdapter,
	pool *worker.Pool,
	logger *zerolog.Logger,
) *broadcastUC {
	return &broadcastUC{
		sessions:   sessions,
		bot:        bot,
		workerPool: pool,
		log:        logger,
	}
}

func (uc *broadcastUC) BroadcastMessage(ctx context.Context, text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, domain.ErrEmptyBroadcast
	}

	recipients := uc.sessions.All()
	uc.log.Info().Int("recipient_count", len(recipients)).Msg("starting broadcast")

	var (
		wg   sync.WaitGroup
		sent atomic.Int64
	)
	for _, sess := range recipients {
		chatID := sess.ChatID
		wg.Add(1)
		task := func(taskCtx context.Context) error {
			defer wg.Done()
			if err := uc.bot.SendMessage(taskCtx, chatID, text); err != nil {
				uc.log.Warn().Err(err).Int64("chat_id", chatID).Msg("broadcast send failed")
				metrics.IncBroadcastSend(false)
				return nil
			}
			sent.Add(1)
			metrics.IncBroadcastSend(true)
			return nil
		}
		if err := uc.workerPool.Submit(task); err != nil {
			// Queue saturated; run inline so every recipient is tried
			// exactly once and the reported count stays exact.
			_ = task(ctx)
		}
	}
	wg.Wait()

	count := int(sent.Load())
	uc.log.Info().Int("sent", count).Int("recipient_count", len(recipients)).Msg("broadcast finished")
	return count, nil
}
