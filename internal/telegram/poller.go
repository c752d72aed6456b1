package telegram

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/tartampluch/go-countdown/internal/config"
)

// UpdateSource is the long-polling side of *tgbotapi.BotAPI.
type UpdateSource interface {
	GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Poller feeds long-polled updates to a handler.
type Poller struct {
	Source  UpdateSource
	Handler UpdateHandler
	Timeout int // seconds
}

// Run blocks until ctx is cancelled or the update channel closes.
// Handler errors are logged; they never stop the loop.
func (p *Poller) Run(ctx context.Context) error {
	log := slog.With(config.LogKeyComponent, config.CompPoller)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = p.Timeout
	updates := p.Source.GetUpdatesChan(u)
	defer p.Source.StopReceivingUpdates()

	log.Info(config.MsgPollerStart)
	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgPollerStop)
			return nil

		case update, ok := <-updates:
			if !ok {
				log.Info(config.MsgPollerStop)
				return nil
			}
			if err := p.Handler.HandleUpdate(ctx, update); err != nil {
				log.Error(config.ErrHandleUpdate,
					config.LogKeyUpdateID, update.UpdateID,
					config.LogKeyError, err,
				)
			}
		}
	}
}
