package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/tartampluch/go-countdown/internal/config"
	"github.com/tartampluch/go-countdown/internal/storage"
)

// ErrUndeliverable marks a delivery failure that retrying cannot fix, such as
// the bot being blocked or removed from the chat.
var ErrUndeliverable = errors.New("recipient cannot receive messages")

// Sender delivers a text to one chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// BroadcastResult summarizes one periodic run.
type BroadcastResult struct {
	Total   int
	Sent    int
	Failed  int
	Removed int
}

// Notifier is the caller of the countdown core: it builds status messages and
// hands them to a Sender, retrying transient transport errors.
type Notifier struct {
	Reporter   *Reporter
	Sender     Sender
	Recipients storage.Recipients

	// MaxTries bounds delivery attempts per message. Zero means config.SendMaxTries.
	MaxTries uint
	// NewBackOff returns the retry schedule for one message. Nil means exponential.
	NewBackOff func() backoff.BackOff
}

// SendStatus is the on-demand trigger: one status message to one chat.
func (n *Notifier) SendStatus(ctx context.Context, chatID int64) error {
	if err := n.Deliver(ctx, chatID, n.Reporter.Status()); err != nil {
		return err
	}
	slog.Debug(config.MsgStatusSent,
		config.LogKeyComponent, config.CompNotifier,
		config.LogKeyChatID, chatID,
	)
	return nil
}

// Broadcast is the periodic trigger: one freshly built status message per
// registered chat. A failing chat never stops the run; chats that can no
// longer be reached are dropped from the registry.
func (n *Notifier) Broadcast(ctx context.Context) (BroadcastResult, error) {
	start := time.Now()
	log := slog.With(config.LogKeyComponent, config.CompNotifier)

	ids, err := n.Recipients.List(ctx)
	if err != nil {
		return BroadcastResult{}, fmt.Errorf("%s: %w", config.ErrRecipients, err)
	}

	res := BroadcastResult{Total: len(ids)}
	log.InfoContext(ctx, config.MsgBroadcastStart,
		config.LogKeyTotal, res.Total,
		config.LogKeyRemaining, n.Reporter.RemainingDays(),
	)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		err := n.Deliver(ctx, id, n.Reporter.Status())
		if err == nil {
			res.Sent++
			continue
		}

		res.Failed++
		log.Error(config.ErrSendFailed,
			config.LogKeyChatID, id,
			config.LogKeyError, err,
		)
		if errors.Is(err, ErrUndeliverable) {
			if rmErr := n.Recipients.Remove(ctx, id); rmErr != nil {
				log.Error(config.ErrUnregister, config.LogKeyChatID, id, config.LogKeyError, rmErr)
			} else {
				res.Removed++
				log.Info(config.MsgChatRemoved, config.LogKeyChatID, id)
			}
		}
	}

	log.InfoContext(ctx, config.MsgBroadcastDone,
		config.LogKeySent, res.Sent,
		config.LogKeyFailed, res.Failed,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return res, nil
}

// Deliver sends text to chatID, retrying transient errors.
func (n *Notifier) Deliver(ctx context.Context, chatID int64, text string) error {
	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := n.Sender.Send(ctx, chatID, text)
		if errors.Is(err, ErrUndeliverable) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(n.backOff()),
		backoff.WithMaxTries(n.maxTries()),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn(config.MsgSendRetry,
				config.LogKeyComponent, config.CompNotifier,
				config.LogKeyChatID, chatID,
				config.LogKeyAttempt, attempt,
				config.LogKeyRetryIn, next,
				config.LogKeyError, err,
			)
		}),
	)
	if err != nil {
		return fmt.Errorf("%s to %d: %w", config.ErrSendFailed, chatID, err)
	}
	return nil
}

func (n *Notifier) maxTries() uint {
	if n.MaxTries == 0 {
		return config.SendMaxTries
	}
	return n.MaxTries
}

func (n *Notifier) backOff() backoff.BackOff {
	if n.NewBackOff != nil {
		return n.NewBackOff()
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = config.SendInitialBackoff
	b.MaxInterval = config.SendMaxBackoff
	return b
}
