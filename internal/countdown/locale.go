package countdown

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-countdown/internal/config"
)

// LocaleTables holds the names and glyphs used to render dates.
// Weekdays is indexed by time.Weekday, Months by month-1, Digits by the
// ASCII digit value.
type LocaleTables struct {
	Weekdays  [7]string
	Months    [12]string
	Digits    [10]rune
	Separator string // between the weekday and the day of month
	Labels    StatusLabels
}

// StatusLabels are the fixed texts of the status message and of the
// calendar feed events. Remaining takes the day count, Title the project
// title; Today, Start and End are prefixes of a formatted date.
type StatusLabels struct {
	Header    string
	Today     string
	Remaining string
	Title     string
	Schedule  string
	Start     string
	End       string

	EventStart string
	EventEnd   string
}

// Locale pairs the calendar that dates are rendered in with its tables.
type Locale struct {
	Calendar Calendar
	Tables   LocaleTables
}

// ForLanguage returns the rendering locale for lang ("fa" or "en"),
// evaluated in loc. Any other value is a ConfigurationError.
func ForLanguage(lang string, loc *time.Location) (Locale, error) {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case config.LanguagePersian:
		return Locale{Calendar: NewSolarHijri(loc), Tables: PersianTables()}, nil
	case config.LanguageEnglish:
		if loc == nil {
			loc = DefaultLocation()
		}
		return Locale{Calendar: Gregorian{Loc: loc}, Tables: EnglishTables()}, nil
	default:
		return Locale{}, &ConfigurationError{Field: "LANGUAGE", Value: lang, Err: errLanguage}
	}
}

// PersianTables returns the Persian weekday and month names with
// Extended Arabic-Indic digits.
func PersianTables() LocaleTables {
	return LocaleTables{
		Weekdays: [7]string{
			time.Sunday:    "یکشنبه",
			time.Monday:    "دوشنبه",
			time.Tuesday:   "سه‌شنبه",
			time.Wednesday: "چهارشنبه",
			time.Thursday:  "پنج‌شنبه",
			time.Friday:    "جمعه",
			time.Saturday:  "شنبه",
		},
		Months: [12]string{
			"فروردین", "اردیبهشت", "خرداد",
			"تیر", "مرداد", "شهریور",
			"مهر", "آبان", "آذر",
			"دی", "بهمن", "اسفند",
		},
		Digits:    [10]rune{'۰', '۱', '۲', '۳', '۴', '۵', '۶', '۷', '۸', '۹'},
		Separator: "، ",
		Labels: StatusLabels{
			Header:     "🎯 *وضعیت پروژه*",
			Today:      "📅 *امروز:* ",
			Remaining:  "⏳ *%s روز تا پایان پروژه*",
			Title:      "📌 *%s*",
			Schedule:   "📊 *جزئیات زمان‌بندی:*",
			Start:      "📅 *شروع:* ",
			End:        "🎯 *پایان:* ",
			EventStart: "شروع",
			EventEnd:   "پایان",
		},
	}
}

// EnglishTables renders Gregorian dates with English names and ASCII digits.
func EnglishTables() LocaleTables {
	t := LocaleTables{
		Digits:    [10]rune{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'},
		Separator: ", ",
		Labels: StatusLabels{
			Header:     "🎯 *Project status*",
			Today:      "📅 *Today:* ",
			Remaining:  "⏳ *%s days until the end of the project*",
			Title:      "📌 *%s*",
			Schedule:   "📊 *Schedule details:*",
			Start:      "📅 *Start:* ",
			End:        "🎯 *End:* ",
			EventStart: "Start",
			EventEnd:   "End",
		},
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		t.Weekdays[d] = d.String()
	}
	for m := time.January; m <= time.December; m++ {
		t.Months[m-1] = m.String()
	}
	return t
}

// Validate reports a ConfigurationError when a name, digit or label is
// missing or when two digits share a glyph.
func (t LocaleTables) Validate() error {
	for i, name := range t.Weekdays {
		if strings.TrimSpace(name) == "" {
			return &ConfigurationError{Field: fmt.Sprintf("weekday[%d]", i), Err: errTableIncomplete}
		}
	}
	for i, name := range t.Months {
		if strings.TrimSpace(name) == "" {
			return &ConfigurationError{Field: fmt.Sprintf("month[%d]", i+1), Err: errTableIncomplete}
		}
	}
	seen := make(map[rune]int, len(t.Digits))
	for i, r := range t.Digits {
		if r == 0 {
			return &ConfigurationError{Field: fmt.Sprintf("digit[%d]", i), Err: errTableIncomplete}
		}
		if j, ok := seen[r]; ok {
			return &ConfigurationError{Field: fmt.Sprintf("digit[%d]", i), Value: strconv.Itoa(j), Err: errTableDuplicate}
		}
		seen[r] = i
	}

	labels := []struct {
		name, value string
	}{
		{"header", t.Labels.Header},
		{"today", t.Labels.Today},
		{"remaining", t.Labels.Remaining},
		{"title", t.Labels.Title},
		{"schedule", t.Labels.Schedule},
		{"start", t.Labels.Start},
		{"end", t.Labels.End},
		{"event_start", t.Labels.EventStart},
		{"event_end", t.Labels.EventEnd},
	}
	for _, l := range labels {
		if strings.TrimSpace(l.value) == "" {
			return &ConfigurationError{Field: "label." + l.name, Err: errTableIncomplete}
		}
	}
	return nil
}

// WeekdayName returns the localized name of d.
func (t LocaleTables) WeekdayName(d time.Weekday) string {
	return t.Weekdays[d]
}

// MonthName returns the localized name of month (1-12).
func (t LocaleTables) MonthName(month int) string {
	return t.Months[month-1]
}

// ToNativeDigits renders n in base 10 with every ASCII digit replaced by its
// native glyph. A leading minus sign stays ASCII.
func ToNativeDigits(n int, t LocaleTables) string {
	return NativeDigits(strconv.Itoa(n), t)
}

// NativeDigits replaces the ASCII digits of s and leaves other runes alone.
func NativeDigits(s string, t LocaleTables) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			if g := t.Digits[r-'0']; g != 0 {
				return g
			}
		}
		return r
	}, s)
}

// FromNativeDigits is the inverse of NativeDigits.
func FromNativeDigits(s string, t LocaleTables) string {
	return strings.Map(func(r rune) rune {
		for i, g := range t.Digits {
			if g == r {
				return rune('0' + i)
			}
		}
		return r
	}, s)
}
