package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/zalando/go-keyring"
)

// Settings holds the runtime configuration read from the environment.
// Dates stay raw strings here; they are parsed by the countdown package so a
// malformed date surfaces as a countdown.ConfigurationError.
type Settings struct {
	BotToken      string `env:"BOT_TOKEN"`
	BotUsername   string `env:"BOT_USERNAME"`
	StartDate     string `env:"START_DATE,required"`
	EndDate       string `env:"END_DATE,required"`
	ProjectTitle  string `env:"PROJECT_TITLE,required"`
	Timezone      string `env:"TIMEZONE" envDefault:"Asia/Tehran"`
	Schedule      string `env:"SCHEDULE" envDefault:"0 0 * * *"`
	Transport     string `env:"TRANSPORT" envDefault:"polling"`
	WebhookURL    string `env:"WEBHOOK_URL"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	HTTPPort      string `env:"HTTP_PORT" envDefault:"18080"`
	DBPath        string `env:"DB_PATH"`
	Language      string `env:"LANGUAGE" envDefault:"fa"`
	PollTimeout   int    `env:"POLL_TIMEOUT" envDefault:"60"`
}

// Load reads the optional dotenv file, parses the process environment and
// resolves the bot token.
func Load(envFile string) (Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Settings{}, fmt.Errorf("%s: %w", ErrEnvFile, err)
			}
			slog.Warn(MsgEnvFileMissing,
				LogKeyComponent, CompConfig,
				LogKeyFile, envFile,
			)
		}
	}

	s, err := Parse(nil)
	if err != nil {
		return Settings{}, err
	}
	if err := s.ResolveToken(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Parse decodes settings from environ, or from the process environment when
// environ is nil, and validates them.
func Parse(environ map[string]string) (Settings, error) {
	var s Settings
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrEnvParse, err)
	}
	s.Language = strings.ToLower(strings.TrimSpace(s.Language))
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings that do not depend on the calendar.
func (s Settings) Validate() error {
	switch s.Transport {
	case TransportPolling:
	case TransportWebhook:
		if strings.TrimSpace(s.WebhookURL) == "" {
			return errors.New(ErrWebhookURL)
		}
	default:
		return fmt.Errorf("%s: %q", ErrTransport, s.Transport)
	}

	if _, err := cron.ParseStandard(s.Schedule); err != nil {
		return fmt.Errorf("%s %q: %w", ErrSchedule, s.Schedule, err)
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("%s %q: %w", ErrTimezone, s.Timezone, err)
	}
	switch s.Language {
	case LanguagePersian, LanguageEnglish:
	default:
		return fmt.Errorf("%s: %q", ErrLanguage, s.Language)
	}
	if s.PollTimeout <= 0 {
		return errors.New(ErrPollTimeout)
	}
	if strings.TrimSpace(s.HTTPPort) == "" {
		return errors.New(ErrPortRequired)
	}
	return nil
}

// ResolveToken falls back to the OS keyring when BOT_TOKEN is empty.
func (s *Settings) ResolveToken() error {
	if s.BotToken != "" {
		return nil
	}
	token, err := keyring.Get(KeyringService, KeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New(ErrTokenMissing)
		}
		return fmt.Errorf("%s: %w", ErrKeyring, err)
	}
	if token == "" {
		return errors.New(ErrTokenMissing)
	}
	s.BotToken = token
	slog.Info(MsgTokenKeyring, LogKeyComponent, CompConfig)
	return nil
}

// Location returns the time zone used for "today" and for the schedule.
// Validate has already proven the name loads.
func (s Settings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
