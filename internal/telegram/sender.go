// Package telegram connects the countdown to the Telegram Bot API: it sends
// messages, dispatches incoming updates and runs the long-poll loop.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/tartampluch/go-countdown/internal/config"
	"github.com/tartampluch/go-countdown/internal/engine"
)

// API is the subset of *tgbotapi.BotAPI used by this package.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

// Sender implements engine.Sender on top of the Bot API.
type Sender struct {
	api       API
	ParseMode string
}

// NewSender returns a Sender using legacy Markdown formatting.
func NewSender(api API) *Sender {
	return &Sender{api: api, ParseMode: config.ParseModeMarkdown}
}

// Send delivers text to chatID. A 403 from Telegram (bot blocked, kicked
// from the group) is reported as engine.ErrUndeliverable.
func (s *Sender) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = s.ParseMode

	if _, err := s.api.Send(msg); err != nil {
		if code, desc, ok := apiError(err); ok && code == http.StatusForbidden {
			return fmt.Errorf("%w: %s", engine.ErrUndeliverable, desc)
		}
		return err
	}
	return nil
}

// apiError extracts the Bot API error code, whichever way the library
// returned it.
func apiError(err error) (int, string, bool) {
	var ptr *tgbotapi.Error
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Code, ptr.Message, true
	}
	var val tgbotapi.Error
	if errors.As(err, &val) {
		return val.Code, val.Message, true
	}
	return 0, "", false
}

// RegisterWebhook points Telegram at url. When secret is set Telegram sends
// it back in the X-Telegram-Bot-Api-Secret-Token header.
func RegisterWebhook(api API, url, secret string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)

	if _, err := api.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWebhookSet, err)
	}
	slog.Info(config.MsgWebhookSet,
		config.LogKeyComponent, config.CompTelegram,
		config.LogKeyURL, url,
	)
	return nil
}

// DeleteWebhook removes any webhook so long polling can receive updates.
func DeleteWebhook(api API) error {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWebhookSet, err)
	}
	return nil
}

// slogLogger routes the library's logs through slog.
type slogLogger struct{}

func (slogLogger) Println(v ...interface{}) {
	slog.Debug(fmt.Sprint(v...), config.LogKeyComponent, config.CompTelegram)
}

func (slogLogger) Printf(format string, v ...interface{}) {
	slog.Debug(fmt.Sprintf(format, v...), config.LogKeyComponent, config.CompTelegram)
}

// NewBotAPI authorizes token against Telegram.
func NewBotAPI(token string) (*tgbotapi.BotAPI, error) {
	if err := tgbotapi.SetLogger(slogLogger{}); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBotInit, err)
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBotInit, err)
	}
	slog.Info(config.MsgBotAuthorized,
		config.LogKeyComponent, config.CompTelegram,
		config.LogKeyUsername, api.Self.UserName,
	)
	return api, nil
}
