package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/tartampluch/go-countdown/internal/config"
	"github.com/tartampluch/go-countdown/internal/engine"
	"github.com/tartampluch/go-countdown/internal/messages"
	"github.com/tartampluch/go-countdown/internal/storage"
)

// UpdateHandler consumes one Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

// Dispatcher maps updates to bot behaviour:
//
//	/start           register the chat and welcome it
//	/status          send the status message now
//	bot added        register the group and greet it
//	bot removed      unregister the group
type Dispatcher struct {
	Notifier    *engine.Notifier
	Recipients  storage.Recipients
	Messages    *messages.Catalog
	Title       string
	BotUsername string
}

// HandleUpdate ignores everything that is not one of the events above.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		slog.Debug(config.MsgUpdateIgnored,
			config.LogKeyComponent, config.CompTelegram,
			config.LogKeyUpdateID, update.UpdateID,
		)
		return nil
	}
	chatID := msg.Chat.ID

	if msg.LeftChatMember != nil && d.isSelf(msg.LeftChatMember) {
		if err := d.Recipients.Remove(ctx, chatID); err != nil {
			return fmt.Errorf("%s: %w", config.ErrUnregister, err)
		}
		slog.Info(config.MsgChatRemoved,
			config.LogKeyComponent, config.CompTelegram,
			config.LogKeyChatID, chatID,
		)
		return nil
	}

	for i := range msg.NewChatMembers {
		if d.isSelf(&msg.NewChatMembers[i]) {
			return d.register(ctx, chatID, d.Messages.GroupWelcome(d.Title))
		}
	}

	if !msg.IsCommand() || !d.addressedToMe(msg) {
		return nil
	}

	switch cmd := msg.Command(); cmd {
	case config.CmdStart:
		return d.register(ctx, chatID, d.Messages.Welcome(d.Title))
	case config.CmdStatus:
		return d.Notifier.SendStatus(ctx, chatID)
	default:
		slog.Debug(config.MsgUpdateIgnored,
			config.LogKeyComponent, config.CompTelegram,
			config.LogKeyCommand, cmd,
		)
		return nil
	}
}

// register adds the chat to the registry before greeting it, so a failed
// greeting still leaves the chat subscribed.
func (d *Dispatcher) register(ctx context.Context, chatID int64, greeting string) error {
	if err := d.Recipients.Add(ctx, chatID); err != nil {
		return fmt.Errorf("%s: %w", config.ErrRegister, err)
	}
	slog.Info(config.MsgChatRegistered,
		config.LogKeyComponent, config.CompTelegram,
		config.LogKeyChatID, chatID,
	)
	return d.Notifier.Deliver(ctx, chatID, greeting)
}

// addressedToMe rejects group commands like /status@OtherBot. A bare
// command, or any command when BotUsername is unknown, is accepted.
func (d *Dispatcher) addressedToMe(msg *tgbotapi.Message) bool {
	_, target, found := strings.Cut(msg.CommandWithAt(), "@")
	if !found || target == "" || d.BotUsername == "" {
		return true
	}
	return strings.EqualFold(target, d.BotUsername)
}

func (d *Dispatcher) isSelf(u *tgbotapi.User) bool {
	return d.BotUsername != "" && strings.EqualFold(u.UserName, d.BotUsername)
}
