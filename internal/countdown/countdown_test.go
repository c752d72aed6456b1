package countdown_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-countdown/internal/countdown"
)

// Iran has not observed DST since 2022; a fixed zone keeps the tests
// independent of the host tzdata.
var tehran = time.FixedZone("IRST", 3*60*60+30*60)

func persian() countdown.SolarHijri {
	return countdown.NewSolarHijri(tehran)
}

func mustParse(t *testing.T, cal countdown.Calendar, value string) time.Time {
	t.Helper()
	v, err := cal.Parse(value)
	require.NoError(t, err, value)
	return v
}

// -----------------------------------------------------------------------------
// Native digits
// -----------------------------------------------------------------------------

func TestToNativeDigits(t *testing.T) {
	tables := countdown.PersianTables()

	tests := []struct {
		in   int
		want string
	}{
		{0, "۰"},
		{7, "۷"},
		{195, "۱۹۵"},
		{1403, "۱۴۰۳"},
		{-5, "-۵"},
		{-120, "-۱۲۰"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, countdown.ToNativeDigits(tt.in, tables), "input %d", tt.in)
	}
}

func TestNativeDigits_RoundTrip(t *testing.T) {
	tables := countdown.PersianTables()

	for n := 0; n < 100000; n += 37 {
		native := countdown.ToNativeDigits(n, tables)
		assert.NotContains(t, native, "0", "native rendering must not leak ASCII digits")
		assert.Equal(t, strconv.Itoa(n), countdown.FromNativeDigits(native, tables))
	}
}

func TestNativeDigits_LeavesOtherRunes(t *testing.T) {
	tables := countdown.PersianTables()
	assert.Equal(t, "۱۴۰۳/۰۱/۰۱ Project", countdown.NativeDigits("1403/01/01 Project", tables))
}

// -----------------------------------------------------------------------------
// Remaining days
// -----------------------------------------------------------------------------

func TestRemainingDays_SameDay(t *testing.T) {
	end := time.Date(2025, 3, 19, 0, 0, 0, 0, tehran)

	assert.Equal(t, 0, countdown.RemainingDays(end, end))
	assert.Equal(t, 0, countdown.RemainingDays(end, end.Add(23*time.Hour+59*time.Minute)))
	assert.Equal(t, 0, countdown.RemainingDays(end.Add(22*time.Hour), end.Add(time.Hour)))
}

func TestRemainingDays_IndependentOfHour(t *testing.T) {
	end := time.Date(2025, 3, 19, 0, 0, 0, 0, tehran)
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, tehran)

	for day := 0; day < 60; day++ {
		base := start.AddDate(0, 0, day)
		want := countdown.RemainingDays(end, base)
		for _, h := range []int{0, 1, 11, 12, 23} {
			now := base.Add(time.Duration(h) * time.Hour)
			assert.Equal(t, want, countdown.RemainingDays(end, now), "day %d hour %d", day, h)
		}
		if day > 0 {
			prev := countdown.RemainingDays(end, start.AddDate(0, 0, day-1))
			assert.Equal(t, prev-1, want, "count must decrement by exactly one per day")
		}
	}
}

func TestRemainingDays_Negative(t *testing.T) {
	end := time.Date(2025, 3, 19, 23, 0, 0, 0, tehran)
	now := time.Date(2025, 3, 24, 1, 0, 0, 0, tehran)
	assert.Equal(t, -5, countdown.RemainingDays(end, now))
}

func TestRemainingDays_DSTBoundary(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Spring forward on 2025-03-09: that day is only 23 hours long.
	now := time.Date(2025, 3, 8, 23, 30, 0, 0, ny)
	end := time.Date(2025, 3, 10, 0, 15, 0, 0, ny)
	assert.Equal(t, 2, countdown.RemainingDays(end, now))
}

func TestRemainingDays_UsesNowLocation(t *testing.T) {
	// 22:00 UTC on the 1st is already the 2nd in Tehran.
	end := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	nowUTC := time.Date(2025, 1, 1, 22, 0, 0, 0, time.UTC)

	assert.Equal(t, 9, countdown.RemainingDays(end, nowUTC))
	assert.Equal(t, 8, countdown.RemainingDays(end, nowUTC.In(tehran)))
}

// -----------------------------------------------------------------------------
// Calendar conversion & parsing
// -----------------------------------------------------------------------------

func TestSolarHijri_KnownDates(t *testing.T) {
	cal := persian()

	tests := []struct {
		gregorian time.Time
		want      countdown.CalendarDate
	}{
		{time.Date(2024, 3, 20, 12, 0, 0, 0, tehran), countdown.CalendarDate{Year: 1403, Month: 1, Day: 1, Weekday: time.Wednesday}},
		{time.Date(2024, 9, 5, 12, 0, 0, 0, tehran), countdown.CalendarDate{Year: 1403, Month: 6, Day: 15, Weekday: time.Thursday}},
		{time.Date(2025, 3, 19, 12, 0, 0, 0, tehran), countdown.CalendarDate{Year: 1403, Month: 12, Day: 29, Weekday: time.Wednesday}},
		{time.Date(2024, 10, 22, 12, 0, 0, 0, tehran), countdown.CalendarDate{Year: 1403, Month: 8, Day: 1, Weekday: time.Tuesday}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cal.Date(tt.gregorian), tt.gregorian.String())
	}
}

func TestSolarHijri_Parse(t *testing.T) {
	cal := persian()

	got := mustParse(t, cal, "1403/06/15")
	assert.True(t, time.Date(2024, 9, 5, 0, 0, 0, 0, tehran).Equal(got), got.String())

	// Leading/trailing spaces and unpadded parts are accepted.
	assert.True(t, got.Equal(mustParse(t, cal, " 1403/6/15 ")))
}

func TestSolarHijri_ParseErrors(t *testing.T) {
	cal := persian()

	for _, in := range []string{
		"",
		"1403-01-01",
		"1403/01",
		"1403/aa/01",
		"1403/00/10",
		"1403/13/01",
		"1403/07/31", // Mehr has 30 days
		"1403/11/31", // Bahman has 30 days
		"1403/01/01/01",
	} {
		_, err := cal.Parse(in)
		require.Error(t, err, in)

		var ce *countdown.ConfigurationError
		assert.True(t, errors.As(err, &ce), "parse errors must be configuration errors: %q", in)
	}
}

func TestCalendar_ZeroValueLocation(t *testing.T) {
	assert.Equal(t, countdown.DefaultLocation().String(), countdown.SolarHijri{}.Location().String())
	assert.Equal(t, countdown.NewSolarHijri(nil).Location().String(), countdown.SolarHijri{}.Location().String())
	assert.Equal(t, time.UTC, countdown.Gregorian{}.Location())

	// Both spellings agree on the date.
	at := time.Date(2024, 9, 5, 22, 0, 0, 0, time.UTC) // 02:30 the next day in Tehran
	assert.Equal(t, countdown.NewSolarHijri(nil).Date(at), countdown.SolarHijri{}.Date(at))
}

func TestGregorian_Parse(t *testing.T) {
	cal := countdown.Gregorian{Loc: tehran}
	got := mustParse(t, cal, "2024/02/29")
	assert.True(t, got.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, tehran)))

	_, err := cal.Parse("2023/02/29")
	require.Error(t, err)
	assert.True(t, countdown.IsConfigurationError(err))
}

// -----------------------------------------------------------------------------
// Locale tables
// -----------------------------------------------------------------------------

func TestLocaleTables_Validate(t *testing.T) {
	require.NoError(t, countdown.PersianTables().Validate())
	require.NoError(t, countdown.EnglishTables().Validate())

	missingDigit := countdown.PersianTables()
	missingDigit.Digits[4] = 0
	err := missingDigit.Validate()
	require.Error(t, err)
	assert.True(t, countdown.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "digit[4]")

	missingMonth := countdown.PersianTables()
	missingMonth.Months[11] = " "
	err = missingMonth.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "month[12]")

	missingDay := countdown.PersianTables()
	missingDay.Weekdays[time.Friday] = ""
	assert.Error(t, missingDay.Validate())

	duplicate := countdown.PersianTables()
	duplicate.Digits[9] = duplicate.Digits[8]
	err = duplicate.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "same glyph")
}

func TestLocaleTables_ValidateLabels(t *testing.T) {
	tables := countdown.EnglishTables()
	tables.Labels.Remaining = ""

	err := tables.Validate()
	require.Error(t, err)
	assert.True(t, countdown.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "label.remaining")
}

func TestForLanguage(t *testing.T) {
	tests := []struct {
		lang     string
		wantDate string
	}{
		{"fa", "پنج‌شنبه، ۱۵ شهریور ۱۴۰۳"},
		{" FA ", "پنج‌شنبه، ۱۵ شهریور ۱۴۰۳"},
		{"en", "Thursday, 5 September 2024"},
	}

	at := time.Date(2024, 9, 5, 10, 30, 0, 0, tehran)
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			loc, err := countdown.ForLanguage(tt.lang, tehran)
			require.NoError(t, err)
			require.NoError(t, loc.Tables.Validate())
			assert.Equal(t, tehran, loc.Calendar.Location())
			assert.Equal(t, tt.wantDate, countdown.FormatDate(at, loc.Calendar, loc.Tables))
		})
	}

	_, err := countdown.ForLanguage("de", tehran)
	require.Error(t, err)
	assert.True(t, countdown.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "LANGUAGE")
}

func TestForLanguage_StatusIsNotMixed(t *testing.T) {
	w, err := countdown.ParseWindow(persian(), "1403/01/01", "1403/12/29", "Project X")
	require.NoError(t, err)
	now := time.Date(2024, 9, 5, 10, 30, 0, 0, tehran)

	en, err := countdown.ForLanguage("en", tehran)
	require.NoError(t, err)
	msg := countdown.BuildStatusMessage(w, now, en.Calendar, en.Tables)
	assert.Contains(t, msg, "⏳ *195 days until the end of the project*")
	for _, r := range msg {
		assert.False(t, r >= 0x0600 && r <= 0x06FF, "unexpected Arabic-script rune %q in %q", r, msg)
	}

	fa, err := countdown.ForLanguage("fa", tehran)
	require.NoError(t, err)
	assert.Contains(t, countdown.BuildStatusMessage(w, now, fa.Calendar, fa.Tables), "⏳ *۱۹۵ روز تا پایان پروژه*")
}

// -----------------------------------------------------------------------------
// Date formatting
// -----------------------------------------------------------------------------

func TestFormatDate(t *testing.T) {
	tables := countdown.PersianTables()
	cal := persian()

	got := countdown.FormatDate(mustParse(t, cal, "1403/06/15"), cal, tables)
	want := tables.WeekdayName(time.Thursday) + "، ۱۵ شهریور ۱۴۰۳"
	assert.Equal(t, want, got)
}

func TestFormatDate_Gregorian(t *testing.T) {
	cal := countdown.Gregorian{Loc: time.UTC}
	got := countdown.FormatDate(time.Date(2024, 9, 5, 8, 0, 0, 0, time.UTC), cal, countdown.EnglishTables())
	assert.Equal(t, "Thursday, 5 September 2024", got)
}

func TestFormatDate_ExactlyOneWeekdayAndMonth(t *testing.T) {
	tables := countdown.PersianTables()
	cal := persian()
	start := mustParse(t, cal, "1403/01/01")

	for i := 0; i < 400; i++ {
		at := start.AddDate(0, 0, i)
		out := countdown.FormatDate(at, cal, tables)
		d := cal.Date(at)

		parts := strings.SplitN(out, tables.Separator, 2)
		require.Len(t, parts, 2, out)
		assert.Equal(t, 1, countEqual(tables.Weekdays[:], parts[0]), out)
		assert.Equal(t, tables.WeekdayName(d.Weekday), parts[0])

		fields := strings.Fields(parts[1])
		require.Len(t, fields, 3, out)
		assert.Equal(t, 1, countEqual(tables.Months[:], fields[1]), out)
		assert.Equal(t, tables.MonthName(d.Month), fields[1])
	}
}

func countEqual(names []string, s string) int {
	n := 0
	for _, name := range names {
		if name == s {
			n++
		}
	}
	return n
}

// -----------------------------------------------------------------------------
// Project window & status message
// -----------------------------------------------------------------------------

func TestParseWindow_Errors(t *testing.T) {
	cal := persian()

	tests := []struct {
		name       string
		start, end string
		title      string
		field      string
	}{
		{"Bad start", "1403/1/x", "1403/12/29", "P", "START_DATE"},
		{"Bad end", "1403/01/01", "29/12/1403", "P", "END_DATE"},
		{"End before start", "1403/12/29", "1403/01/01", "P", "END_DATE"},
		{"Empty title", "1403/01/01", "1403/12/29", "  ", "PROJECT_TITLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := countdown.ParseWindow(cal, tt.start, tt.end, tt.title)
			require.Error(t, err)

			var ce *countdown.ConfigurationError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestBuildStatusMessage_Scenario(t *testing.T) {
	tables := countdown.PersianTables()
	cal := persian()

	w, err := countdown.ParseWindow(cal, "1403/01/01", "1403/12/29", "Project X")
	require.NoError(t, err)
	now := mustParse(t, cal, "1403/06/15").Add(10*time.Hour + 30*time.Minute)

	wed := tables.WeekdayName(time.Wednesday)
	thu := tables.WeekdayName(time.Thursday)
	want := []string{
		"🎯 *وضعیت پروژه*",
		"",
		"📅 *امروز:* " + thu + "، ۱۵ شهریور ۱۴۰۳",
		"",
		"⏳ *۱۹۵ روز تا پایان پروژه*",
		"📌 *Project X*",
		"",
		"📊 *جزئیات زمان‌بندی:*",
		"📅 *شروع:* " + wed + "، ۱ فروردین ۱۴۰۳",
		"🎯 *پایان:* " + wed + "، ۲۹ اسفند ۱۴۰۳",
	}

	msg := countdown.BuildStatusMessage(w, now, cal, tables)
	assert.Equal(t, want, strings.Split(msg, "\n"))
	assert.Equal(t, want, countdown.StatusLines(w, now, cal, tables))
}

func TestBuildStatusMessage_RemainingLine(t *testing.T) {
	tables := countdown.PersianTables()
	cal := persian()
	w, err := countdown.ParseWindow(cal, "1403/01/01", "1403/12/29", "Project X")
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"On end day", w.End.Add(20 * time.Hour), "⏳ *۰ روز تا پایان پروژه*"},
		{"After end", w.End.AddDate(0, 0, 5).Add(time.Hour), "⏳ *-۵ روز تا پایان پروژه*"},
		{"Day before", w.End.AddDate(0, 0, -1).Add(23 * time.Hour), "⏳ *۱ روز تا پایان پروژه*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := countdown.StatusLines(w, tt.now, cal, tables)
			assert.Equal(t, tt.want, lines[4])
		})
	}
}

func TestBuildStatusMessage_EvaluatesInCalendarZone(t *testing.T) {
	tables := countdown.PersianTables()
	cal := persian()
	w, err := countdown.ParseWindow(cal, "1403/01/01", "1403/12/29", "Project X")
	require.NoError(t, err)

	// 21:00 UTC on 2025-03-18 is 00:30 on 1403/12/29 in Tehran.
	now := time.Date(2025, 3, 18, 21, 0, 0, 0, time.UTC)
	lines := countdown.StatusLines(w, now, cal, tables)
	assert.Equal(t, "⏳ *۰ روز تا پایان پروژه*", lines[4])
}
