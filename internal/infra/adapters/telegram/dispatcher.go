package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-tempmail-bot/internal/application"
	"telegram-tempmail-bot/internal/domain/ports/adapter"
	"telegram-tempmail-bot/internal/infra/logging"
	"telegram-tempmail-bot/internal/infra/metrics"
)

// Dispatcher routes a decoded webhook update to the facade and sends
// the reply back through the bot adapter. Plain text and unrecognized
// commands are ignored.
type Dispatcher struct {
	facade *application.BotFacade
	bot    adapter.TelegramBotAdapter
	log    *zerolog.Logger
}

func NewDispatcher(facade *application.BotFacade, bot adapter.TelegramBotAdapter, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		facade: facade,
		bot:    bot,
		log:    logger,
	}
}

func (d *Dispatcher) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil || update.Message.Chat == nil {
		return nil
	}
	if !update.Message.IsCommand() {
		return nil
	}

	chatID := update.Message.Chat.ID
	command := update.Message.Command()
	metrics.IncCommand(command)

	ctx = logging.WithChatID(ctx, chatID)
	log := logging.With(ctx, d.log)
	log.Debug().Str("command", command).Msg("command received")

	var reply string
	switch command {
	case "start":
		reply = d.facade.HandleStart(ctx, chatID)
	case "verify":
		reply = d.facade.HandleVerify(ctx, chatID)
	case "new":
		reply = d.facade.HandleNew(ctx, chatID)
	case "check":
		reply = d.facade.HandleCheck(ctx, chatID)
	case "delete":
		reply = d.facade.HandleDelete(ctx, chatID)
	case "broadcast":
		reply = d.facade.HandleBroadcast(ctx, chatID, update.Message.CommandArguments())
	case "stats":
		reply = d.facade.HandleStats(ctx, chatID)
	case "help":
		reply = d.facade.HandleHelp(ctx, chatID)
	default:
		return nil
	}

	if reply == "" {
		return nil
	}
	if err := d.bot.SendMessage(ctx, chatID, reply); err != nil {
		log.Error().Err(err).Str("command", command).Msg("could not send reply")
		return err
	}
	return nil
}
