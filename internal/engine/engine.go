// Package engine drives the countdown: it turns the project window into status
// messages for chats and into an iCalendar feed for calendar apps.
package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-countdown/internal/config"
	"github.com/tartampluch/go-countdown/internal/countdown"
)

// ICS renders the project window as an iCalendar document stamped with the
// reporter's clock.
func (r *Reporter) ICS() ([]byte, error) {
	return BuildCalendar(r.Window, r.Calendar, r.Tables, r.Clock.Now())
}

// BuildCalendar returns an iCalendar document holding two all-day events:
// the project start and the project end. Summaries and descriptions are
// rendered with tables in cal.
func BuildCalendar(w countdown.ProjectWindow, cal countdown.Calendar, tables countdown.LocaleTables, now time.Time) ([]byte, error) {
	c := ical.NewCalendar()
	c.Props.SetText(config.PropVersion, config.ICalVersion)
	c.Props.SetText(config.PropProdid, config.ICalProdid)
	c.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	c.Props.SetText(config.PropCalScale, config.ICalScale)
	c.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986 refresh hint.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	c.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	events := []struct {
		kind    string
		label   string
		instant time.Time
	}{
		{config.EventKindStart, tables.Labels.EventStart, w.Start},
		{config.EventKindEnd, tables.Labels.EventEnd, w.End},
	}

	for _, e := range events {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, eventUID(w.Title, e.kind))
		event.Props.SetText(config.PropSummary, fmt.Sprintf(config.FormatEventSummary, e.label, w.Title))
		event.Props.SetText(config.PropDescription, countdown.FormatDate(e.instant, cal, tables))

		// All-day event on the calendar's local date.
		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(e.instant.In(cal.Location()))
		event.Props.Set(dtStartProp)
		event.Props.Set(dtStampProp)

		c.Children = append(c.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeySizeBytes, buf.Len(),
	)
	return buf.Bytes(), nil
}

// eventUID is deterministic so calendar clients update events in place.
func eventUID(title, kind string) string {
	hash := sha256.Sum256(fmt.Appendf(nil, config.FormatUIDHashSource, title, kind))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), kind, config.ICalDomain)
}
