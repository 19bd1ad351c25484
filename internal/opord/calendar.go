package opord

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

// CalendarFilename is the download name used for iCalendar exports.
const CalendarFilename = "opord.ics"

const calendarProductID = "-//zach-portfolio//OPORD Builder//EN"

var eventNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://zach.dev/opord"))

// ExportICS writes the placed rows of the schedule as VEVENTs. stamp is used
// for DTSTAMP. UIDs are derived from the row contents so re-exporting an
// unchanged schedule yields the same events.
func ExportICS(w io.Writer, s FormState, loc *time.Location, stamp time.Time) error {
	layout := ComputeScheduleIn(loc, s.Window, s.Rows)
	if !layout.Scheduled {
		return ErrWindowUnset
	}
	if len(layout.Rows) == 0 {
		return ErrEmptySchedule
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, calendarProductID)
	cal.Props.SetText(ical.PropVersion, "2.0")

	for i, row := range layout.Rows {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, eventUID(s.Meta.OpordNumber, i, row))
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, row.Start.UTC())
		event.Props.SetDateTime(ical.PropDateTimeEnd, row.End.UTC())

		summary := row.Activity
		if summary == "" {
			summary = fmt.Sprintf("Activity %d", i+1)
		}
		event.Props.SetText(ical.PropSummary, summary)
		if row.Location != "" {
			event.Props.SetText(ical.PropLocation, row.Location)
		}
		if row.POCIC != "" {
			event.Props.SetText(ical.PropDescription, "POC: "+row.POCIC)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	return ical.NewEncoder(w).Encode(cal)
}

func eventUID(opordNumber string, index int, row ScheduledRow) string {
	name := fmt.Sprintf("%s|%d|%s|%s", opordNumber, index, row.Start.UTC().Format(time.RFC3339), row.Activity)
	return uuid.NewSHA1(eventNamespace, []byte(name)).String()
}
