package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Go Countdown"
	AppID          = "com.github.tartampluch.go-countdown"
	KeyringService = "com.github.tartampluch.go-countdown"
	KeyringUser    = "bot_token"
	LogFileName    = "app.log"
	DefaultEnvFile = ".env"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagEnvFile      = "env-file"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescEnvFile  = "Path of the dotenv file loaded before reading the environment"
	MsgVersionOutput = "%s version %s (commit %s, built %s) %s/%s\n"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	TransportPolling = "polling"
	TransportWebhook = "webhook"

	DefaultTimezone    = "Asia/Tehran"
	DefaultSchedule    = "0 0 * * *"
	DefaultTransport   = TransportPolling
	DefaultPort        = "18080"
	LanguagePersian    = "fa"
	LanguageEnglish    = "en"
	DefaultLanguage    = LanguagePersian
	DefaultPollTimeout = 60

	// DateLayoutConfig describes START_DATE / END_DATE, always solar-hijri.
	DateLayoutConfig = "jYYYY/jMM/jDD"
	DateSeparator    = "/"

	ParseModeMarkdown = "Markdown"
)

// -----------------------------------------------------------------------------
// Delivery Retry
// -----------------------------------------------------------------------------

const (
	SendMaxTries       = 3
	SendInitialBackoff = 500 * time.Millisecond
	SendMaxBackoff     = 5 * time.Second
)

// -----------------------------------------------------------------------------
// Telegram
// -----------------------------------------------------------------------------

const (
	CmdStart  = "start"
	CmdStatus = "status"

	HeaderTelegramSecret = "X-Telegram-Bot-Api-Secret-Token"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWelcome      = "welcome"       // Requires Title
	TKeyGroupWelcome = "group_welcome" // Requires Title
)

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Countdown//Engine//EN"
	ICalCalName = "Project Countdown"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "gocountdown"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDescription = "DESCRIPTION"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	FormatUID           = "%s-%s@%s"
	FormatEventSummary  = "%s: %s"
	EventKindStart      = "start"
	EventKindEnd        = "end"
	DefaultICalRefresh  = 24 * time.Hour
	UIDHashLength       = 8
	FormatUIDHashSource = "%s|%s"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	AllowedMethodsICS  = "GET, HEAD"
	AllowedMethodsHook = "POST"
	MaxWebhookBodySize = 1 << 20 // 1MB
	RouteCalendar      = "/calendar.ics"
	RouteWebhook       = "/webhook"
	AddrSeparator      = ":"
	WebhookReply       = "OK"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeTextPlain       = "text/plain; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrConfiguration    = "configuration error"
	ErrEnvParse         = "failed to parse environment"
	ErrEnvFile          = "failed to load env file"
	ErrTokenMissing     = "bot token is not set (BOT_TOKEN or keyring)"
	ErrKeyring          = "failed to read bot token from keyring"
	ErrTransport        = "unsupported transport"
	ErrWebhookURL       = "WEBHOOK_URL is required in webhook mode"
	ErrSchedule         = "invalid cron schedule"
	ErrSchedulerStop    = "scheduler did not stop in time"
	ErrICalRefresh      = "failed to refresh calendar feed"
	ErrTimezone         = "unknown time zone"
	ErrPollTimeout      = "POLL_TIMEOUT must be positive"
	ErrLanguage         = "unsupported language"
	ErrDateFormat       = "date must look like " + DateLayoutConfig
	ErrDateInvalid      = "date does not exist in the solar-hijri calendar"
	ErrWindowOrder      = "end date is before start date"
	ErrTitleEmpty       = "project title is empty"
	ErrTableIncomplete  = "locale table is incomplete"
	ErrTableDuplicate   = "locale digit table maps two digits to the same glyph"
	ErrSendFailed       = "failed to deliver message"
	ErrBroadcast        = "broadcast failed"
	ErrRecipients       = "failed to list recipients"
	ErrRegister         = "failed to register chat"
	ErrUnregister       = "failed to unregister chat"
	ErrBotInit          = "failed to initialize telegram bot"
	ErrWebhookSet       = "failed to register webhook"
	ErrWebhookDecode    = "failed to decode webhook update"
	ErrHandleUpdate     = "failed to handle update"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrStorageOpen      = "failed to open storage"
	ErrStoragePath      = "storage path is required"
	ErrStorageSchema    = "failed to init storage schema"
	ErrStorageQuery     = "storage query failed"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrUnauthorized     = "Unauthorized"
	ErrBadRequest       = "Bad Request"
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgEnvFileMissing  = "Env file not found, reading environment variables directly"
	MsgTokenKeyring    = "Bot token loaded from keyring"
	MsgWindowLoaded    = "Project window loaded"
	MsgBotAuthorized   = "Authorized on Telegram"
	MsgWebhookSet      = "Webhook registered"
	MsgPollerStart     = "Long polling started"
	MsgPollerStop      = "Long polling stopped"
	MsgUpdateIgnored   = "Ignoring update"
	MsgChatRegistered  = "Chat registered"
	MsgChatRemoved     = "Chat unregistered"
	MsgStatusSent      = "Status sent"
	MsgSendRetry       = "Delivery failed, retrying"
	MsgBroadcastStart  = "Broadcast started"
	MsgBroadcastDone   = "Broadcast finished"
	MsgSchedulerStart  = "Scheduler started"
	MsgSchedulerStop   = "Scheduler stopped"
	MsgJobStart        = "Scheduled job started"
	MsgJobDone         = "Scheduled job finished"
	MsgTransportMode   = "Transport selected"
	MsgStorageMemory   = "DB_PATH not set, subscriptions are kept in memory"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Calendar cache updated"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgStorageReady    = "Storage ready"
	MsgContextCanceled = "Context cancelled, shutting down"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyChatID    = "chat_id"
	LogKeyCommand   = "command"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeySchedule  = "schedule"
	LogKeyTimezone  = "timezone"
	LogKeyAttempt   = "attempt"
	LogKeyRetryIn   = "retry_in"
	LogKeySent      = "sent"
	LogKeyFailed    = "failed"
	LogKeyTotal     = "total"
	LogKeyUsername  = "username"
	LogKeyURL       = "url"
	LogKeyPath      = "path"
	LogKeyStart     = "start"
	LogKeyEnd       = "end"
	LogKeyTitle     = "title"
	LogKeyRemaining = "remaining_days"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"
	LogKeyUpdateID  = "update_id"
	LogKeyNextRun   = "next_run"

	// Startup Info Keys
	LogKeyBuild     = "build"
	LogKeyApp       = "app"
	LogKeyVersion   = "version"
	LogKeyCommit    = "commit"
	LogKeyBuildDate = "build_date"
	LogKeyGoVer     = "go_version"
	LogKeyEnv       = "env"
	LogKeyOS        = "os"
	LogKeyArch      = "arch"
	LogKeyPID       = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain      = "main"
	CompConfig    = "config"
	CompEngine    = "engine"
	CompNotifier  = "notifier"
	CompTelegram  = "telegram"
	CompPoller    = "poller"
	CompServer    = "server"
	CompScheduler = "scheduler"
	CompStorage   = "storage"
	CompI18n      = "i18n"
)
