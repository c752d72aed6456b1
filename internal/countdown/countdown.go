// Package countdown renders the project countdown: remaining days and
// localized dates with native digits. Everything here is pure and safe for
// concurrent use.
package countdown

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const hoursPerDay = 24

// ProjectWindow is the tracked project.
type ProjectWindow struct {
	Start time.Time
	End   time.Time
	Title string
}

// ParseWindow builds a ProjectWindow from configuration strings. Any problem
// is returned as a *ConfigurationError.
func ParseWindow(cal Calendar, start, end, title string) (ProjectWindow, error) {
	s, err := cal.Parse(start)
	if err != nil {
		return ProjectWindow{}, withField(err, "START_DATE")
	}
	e, err := cal.Parse(end)
	if err != nil {
		return ProjectWindow{}, withField(err, "END_DATE")
	}
	if e.Before(s) {
		return ProjectWindow{}, &ConfigurationError{Field: "END_DATE", Value: end, Err: errWindowOrder}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return ProjectWindow{}, withField(errTitleEmpty, "PROJECT_TITLE")
	}
	return ProjectWindow{Start: s, End: e, Title: title}, nil
}

// IsConfigurationError reports whether err is startup-fatal configuration.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// RemainingDays returns the number of calendar days from now to end,
// counted midnight to midnight in now's location. The hour of either
// instant never matters.
func RemainingDays(end, now time.Time) int {
	loc := now.Location()
	ey, em, ed := end.In(loc).Date()
	ny, nm, nd := now.Date()

	// UTC midnights have no DST gaps, so the difference is a whole number of days.
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	n := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(e.Sub(n).Hours()) / hoursPerDay
}

// FormatDate renders t as "<weekday><sep><day> <month> <year>".
func FormatDate(t time.Time, cal Calendar, tables LocaleTables) string {
	d := cal.Date(t)

	var b strings.Builder
	b.WriteString(tables.WeekdayName(d.Weekday))
	b.WriteString(tables.Separator)
	b.WriteString(ToNativeDigits(d.Day, tables))
	b.WriteByte(' ')
	b.WriteString(tables.MonthName(d.Month))
	b.WriteByte(' ')
	b.WriteString(ToNativeDigits(d.Year, tables))
	return b.String()
}

// StatusLines returns the status message line by line. The line sequence
// is fixed; only the labels come from tables.
func StatusLines(w ProjectWindow, now time.Time, cal Calendar, tables LocaleTables) []string {
	now = now.In(cal.Location())
	days := ToNativeDigits(RemainingDays(w.End, now), tables)

	l := tables.Labels
	return []string{
		l.Header,
		"",
		l.Today + FormatDate(now, cal, tables),
		"",
		fmt.Sprintf(l.Remaining, days),
		fmt.Sprintf(l.Title, w.Title),
		"",
		l.Schedule,
		l.Start + FormatDate(w.Start, cal, tables),
		l.End + FormatDate(w.End, cal, tables),
	}
}

// BuildStatusMessage composes the Markdown status message for now.
func BuildStatusMessage(w ProjectWindow, now time.Time, cal Calendar, tables LocaleTables) string {
	return strings.Join(StatusLines(w, now, cal, tables), "\n")
}
