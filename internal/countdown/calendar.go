package countdown

import (
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/tartampluch/go-countdown/internal/config"
	ptime "github.com/yaa110/go-persian-calendar"
)

// CalendarDate is a date expressed in a specific calendar system.
// Month is 1-12 and Weekday follows time.Weekday (Sunday == 0).
type CalendarDate struct {
	Year    int
	Month   int
	Day     int
	Weekday time.Weekday
}

// Calendar converts instants to and from a calendar system.
type Calendar interface {
	// Date converts t, in the calendar's location, into a CalendarDate.
	Date(t time.Time) CalendarDate
	// Parse reads a "YYYY/MM/DD" date and returns midnight of that day in
	// the calendar's location.
	Parse(value string) (time.Time, error)
	// Location is the time zone in which "today" is evaluated.
	Location() *time.Location
}

// DefaultLocation is the Iran Standard Time zone.
func DefaultLocation() *time.Location {
	loc, err := time.LoadLocation(config.DefaultTimezone)
	if err != nil {
		return time.FixedZone("IRST", 3*60*60+30*60)
	}
	return loc
}

// SolarHijri is the Persian (Jalali) calendar. The zero value evaluates in
// DefaultLocation.
type SolarHijri struct {
	Loc *time.Location
}

// NewSolarHijri returns a solar-hijri calendar evaluated in loc, or in
// DefaultLocation when loc is nil.
func NewSolarHijri(loc *time.Location) SolarHijri {
	if loc == nil {
		loc = DefaultLocation()
	}
	return SolarHijri{Loc: loc}
}

// Location returns Loc, or DefaultLocation when Loc is nil.
func (c SolarHijri) Location() *time.Location {
	if c.Loc == nil {
		return DefaultLocation()
	}
	return c.Loc
}

// Date returns the solar-hijri date of t as seen in Location.
func (c SolarHijri) Date(t time.Time) CalendarDate {
	local := t.In(c.Location())
	p := ptime.New(local)
	return CalendarDate{
		Year:    p.Year(),
		Month:   int(p.Month()),
		Day:     p.Day(),
		Weekday: local.Weekday(),
	}
}

// Parse reads a solar-hijri "YYYY/MM/DD" date. Dates that do not exist,
// such as 1403/11/31, are rejected rather than normalized.
func (c SolarHijri) Parse(value string) (time.Time, error) {
	y, m, d, err := splitDate(value)
	if err != nil {
		return time.Time{}, err
	}
	t := ptime.Date(y, ptime.Month(m), d, 0, 0, 0, 0, c.Location()).Time()

	// ptime normalizes overflowing days (1403/07/31 becomes 1403/08/01);
	// a round-trip catches dates that do not exist.
	if got := c.Date(t); got.Year != y || got.Month != m || got.Day != d {
		return time.Time{}, &ConfigurationError{Value: value, Err: errDateInvalid}
	}
	return t, nil
}

// Gregorian is the proleptic Gregorian calendar, used by the English locale.
// The zero value evaluates in UTC.
type Gregorian struct {
	Loc *time.Location
}

// Location returns Loc, or UTC when Loc is nil.
func (c Gregorian) Location() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}

// Date returns the Gregorian date of t as seen in Location.
func (c Gregorian) Date(t time.Time) CalendarDate {
	local := t.In(c.Location())
	y, m, d := local.Date()
	return CalendarDate{Year: y, Month: int(m), Day: d, Weekday: local.Weekday()}
}

// Parse reads a Gregorian "YYYY/MM/DD" date; 2023/02/29 is rejected.
func (c Gregorian) Parse(value string) (time.Time, error) {
	y, m, d, err := splitDate(value)
	if err != nil {
		return time.Time{}, err
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, c.Location())
	if ty, tm, td := t.Date(); ty != y || int(tm) != m || td != d {
		return time.Time{}, &ConfigurationError{Value: value, Err: errDateInvalid}
	}
	return t, nil
}

// splitDate parses "YYYY/MM/DD" into its numeric parts.
func splitDate(value string) (int, int, int, error) {
	parts := strings.Split(strings.TrimSpace(value), config.DateSeparator)
	if len(parts) != 3 {
		return 0, 0, 0, &ConfigurationError{Value: value, Err: errDateFormat}
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return 0, 0, 0, &ConfigurationError{Value: value, Err: errDateFormat}
		}
		nums[i] = n
	}
	if nums[1] > 12 || nums[2] > 31 {
		return 0, 0, 0, &ConfigurationError{Value: value, Err: errDateInvalid}
	}
	return nums[0], nums[1], nums[2], nil
}
