package countdown

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-countdown/internal/config"
)

var (
	errDateFormat      = errors.New(config.ErrDateFormat)
	errDateInvalid     = errors.New(config.ErrDateInvalid)
	errWindowOrder     = errors.New(config.ErrWindowOrder)
	errTitleEmpty      = errors.New(config.ErrTitleEmpty)
	errTableIncomplete = errors.New(config.ErrTableIncomplete)
	errTableDuplicate  = errors.New(config.ErrTableDuplicate)
	errLanguage        = errors.New(config.ErrLanguage)
)

// ConfigurationError reports a startup-fatal problem with the project window
// or the locale tables. The process must not continue with a default.
type ConfigurationError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Field != "" && e.Value != "":
		return fmt.Sprintf("%s: %s %q: %v", config.ErrConfiguration, e.Field, e.Value, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%s: %s: %v", config.ErrConfiguration, e.Field, e.Err)
	default:
		return fmt.Sprintf("%s: %q: %v", config.ErrConfiguration, e.Value, e.Err)
	}
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// withField tags a ConfigurationError with the setting it came from.
func withField(err error, field string) error {
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return &ConfigurationError{Field: field, Value: ce.Value, Err: ce.Err}
	}
	return &ConfigurationError{Field: field, Err: err}
}
