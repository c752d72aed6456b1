package engine

import (
	"github.com/tartampluch/go-countdown/internal/countdown"
)

// Reporter binds the project window to a calendar and locale so callers only
// have to ask for "the status now".
type Reporter struct {
	Clock    Clock
	Window   countdown.ProjectWindow
	Calendar countdown.Calendar
	Tables   countdown.LocaleTables
}

// NewReporter validates the locale tables and returns a Reporter using the
// real clock.
func NewReporter(w countdown.ProjectWindow, cal countdown.Calendar, tables countdown.LocaleTables) (*Reporter, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return &Reporter{
		Clock:    RealClock{},
		Window:   w,
		Calendar: cal,
		Tables:   tables,
	}, nil
}

// Status returns the status message for the current instant.
func (r *Reporter) Status() string {
	return countdown.BuildStatusMessage(r.Window, r.Clock.Now(), r.Calendar, r.Tables)
}

// RemainingDays returns the day count for the current instant.
func (r *Reporter) RemainingDays() int {
	now := r.Clock.Now().In(r.Calendar.Location())
	return countdown.RemainingDays(r.Window.End, now)
}
