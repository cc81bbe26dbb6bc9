// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-tempmail-bot/internal/application"
	"telegram-tempmail-bot/internal/config"
	"telegram-tempmail-bot/internal/infra/adapters/mailtm"
	tele "telegram-tempmail-bot/internal/infra/adapters/telegram"
	"telegram-tempmail-bot/internal/infra/logging"
	"telegram-tempmail-bot/internal/infra/memory"
	"telegram-tempmail-bot/internal/infra/metrics"
	"telegram-tempmail-bot/internal/infra/web"
	"telegram-tempmail-bot/internal/infra/worker"
	"telegram-tempmail-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Runtime.Dev {
		log.Printf("[DEV MODE] Enabled")
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Session store ----
	sessions := memory.NewSessionRepo()

	// ---- Mail provider ----
	provider := mailtm.NewClient(&cfg.MailTM, logger)

	// ---- Telegram ----
	botAdapter, err := tele.NewBotAPIAdapter(cfg.Bot.Token)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}

	// ---- Broadcast worker pool ----
	pool := worker.NewPool(cfg.Broadcast.Workers, logger)
	pool.Start(ctx)

	// ---- Use cases ----
	verifyUC := usecase.NewVerifyUseCase(sessions, botAdapter, cfg.Bot.Channel, logger)
	mailboxUC := usecase.NewMailboxUseCase(sessions, provider, logger)
	broadcastUC := usecase.NewBroadcastUseCase(sessions, botAdapter, pool, logger)
	statsUC := usecase.NewStatsUseCase(sessions, logger)

	// ---- Facade + dispatcher ----
	facade := application.NewBotFacade(verifyUC, mailboxUC, broadcastUC, statsUC, sessions, cfg.Bot.Channel, cfg.Bot.AdminID, logger)
	dispatcher := tele.NewDispatcher(facade, botAdapter, logger)

	// ---- Webhook server ----
	srv := web.NewServer(dispatcher, logger)
	go func() {
		if err := srv.Start(cfg.HTTP.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("webhook server: %v", err)
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	log.Println("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("webhook shutdown: %v", err)
	}
	cancel()
	pool.Stop()
}
