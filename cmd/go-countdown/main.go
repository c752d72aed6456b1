package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/tartampluch/go-countdown/internal/config"
	"github.com/tartampluch/go-countdown/internal/countdown"
	"github.com/tartampluch/go-countdown/internal/engine"
	"github.com/tartampluch/go-countdown/internal/messages"
	"github.com/tartampluch/go-countdown/internal/scheduler"
	"github.com/tartampluch/go-countdown/internal/server"
	"github.com/tartampluch/go-countdown/internal/storage"
	"github.com/tartampluch/go-countdown/internal/storage/sqlite"
	"github.com/tartampluch/go-countdown/internal/telegram"
	"golang.org/x/sync/errgroup"
)

// main is the application entry point.
// It delegates execution to runMain so deferred calls (closing the log file,
// the database) run before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	envFile := flag.String(config.FlagEnvFile, config.DefaultEnvFile, config.FlagDescEnvFile)
	flag.Parse()

	if *showVersion {
		printVersion(os.Stdout)
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	logCloser := setupLogging(*debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, *envFile); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run loads the configuration, wires dependencies and blocks until ctx is
// cancelled or one of the long-running components fails.
func run(ctx context.Context, envFile string) error {
	settings, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrConfiguration, err)
	}
	loc := settings.Location()

	reporter, err := newReporter(settings)
	if err != nil {
		return err
	}
	window, cal, tables := reporter.Window, reporter.Calendar, reporter.Tables
	slog.Info(config.MsgWindowLoaded,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyTitle, window.Title,
		config.LogKeyStart, countdown.FormatDate(window.Start, cal, tables),
		config.LogKeyEnd, countdown.FormatDate(window.End, cal, tables),
		config.LogKeyRemaining, reporter.RemainingDays(),
		config.LogKeyTimezone, loc.String(),
		config.LogKeyLang, settings.Language,
	)

	recipients, closeStore, err := openRecipients(ctx, settings.DBPath)
	if err != nil {
		return err
	}
	defer closeStore()

	api, err := telegram.NewBotAPI(settings.BotToken)
	if err != nil {
		return err
	}
	username := settings.BotUsername
	if username == "" {
		username = api.Self.UserName
	}

	notifier := &engine.Notifier{
		Reporter:   reporter,
		Sender:     telegram.NewSender(api),
		Recipients: recipients,
	}
	dispatcher := &telegram.Dispatcher{
		Notifier:    notifier,
		Recipients:  recipients,
		Messages:    messages.New(settings.Language),
		Title:       window.Title,
		BotUsername: username,
	}

	srv := server.New(settings.HTTPPort)
	srv.WebhookSecret = settings.WebhookSecret
	if err := refreshCalendar(reporter, srv); err != nil {
		return err
	}

	sched, err := scheduler.New(settings.Schedule, loc, func(ctx context.Context) {
		if _, err := notifier.Broadcast(ctx); err != nil {
			slog.Error(config.ErrBroadcast,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyError, err,
			)
		}
		if err := refreshCalendar(reporter, srv); err != nil {
			slog.Error(config.ErrICalRefresh,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyError, err,
			)
		}
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	slog.Info(config.MsgTransportMode,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyMode, settings.Transport,
	)
	switch settings.Transport {
	case config.TransportWebhook:
		if err := telegram.RegisterWebhook(api, settings.WebhookURL, settings.WebhookSecret); err != nil {
			return err
		}
		srv.Updates = dispatcher
	default:
		if err := telegram.DeleteWebhook(api); err != nil {
			return err
		}
		poller := &telegram.Poller{Source: api, Handler: dispatcher, Timeout: settings.PollTimeout}
		g.Go(func() error { return poller.Run(gctx) })
	}

	g.Go(func() error { return srv.Start(gctx) })
	g.Go(func() error { return sched.Run(gctx) })

	err = g.Wait()
	if ctx.Err() != nil {
		slog.Info(config.MsgContextCanceled, config.LogKeyComponent, config.CompMain)
	}
	return err
}

// newReporter parses the project window and binds it to the locale picked by
// LANGUAGE. START_DATE and END_DATE are always solar-hijri; the language only
// decides how dates are rendered. Every error here is a configuration error.
func newReporter(settings config.Settings) (*engine.Reporter, error) {
	loc := settings.Location()
	window, err := countdown.ParseWindow(countdown.NewSolarHijri(loc), settings.StartDate, settings.EndDate, settings.ProjectTitle)
	if err != nil {
		return nil, err
	}
	locale, err := countdown.ForLanguage(settings.Language, loc)
	if err != nil {
		return nil, err
	}
	return engine.NewReporter(window, locale.Calendar, locale.Tables)
}

// openRecipients returns the SQLite registry when path is set, the in-memory
// one otherwise. The returned func closes the store.
func openRecipients(ctx context.Context, path string) (storage.Recipients, func(), error) {
	if path == "" {
		slog.Warn(config.MsgStorageMemory, config.LogKeyComponent, config.CompMain)
		return storage.NewMemory(), func() {}, nil
	}

	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func refreshCalendar(r *engine.Reporter, srv *server.Server) error {
	data, err := r.ICS()
	if err != nil {
		return err
	}
	srv.Update(data)
	return nil
}

// printVersion writes the build information to w.
func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyBuildDate, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stdout}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
