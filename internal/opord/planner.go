package opord

import (
	"math"
	"strings"
	"time"
)

// ScheduledRow is an activity with its computed start time. Time is the
// 24-hour HHMM start and is empty when no schedule was computed.
type ScheduledRow struct {
	ActivityRow
	Time string `json:"time,omitempty"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

// Layout is the derived schedule for a state. It is never stored.
type Layout struct {
	Rows       []ScheduledRow `json:"rows"`
	GapMinutes float64        `json:"gapMinutes"`
	Overflowed bool           `json:"overflowed"`

	// Scheduled reports whether both window bounds were usable.
	Scheduled bool `json:"scheduled"`
}

var windowLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// ParseWindowTime parses a window bound. Values without a zone are read in
// loc; RFC 3339 values keep their own offset.
func ParseWindowTime(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range windowLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}

// ComputeSchedule lays rows out inside w using the local time zone.
func ComputeSchedule(w Window, rows []ActivityRow) Layout {
	return ComputeScheduleIn(time.Local, w, rows)
}

// ComputeScheduleIn lays rows out inside w, reading and formatting times in
// loc. Rows are placed back to back from the window start; the walk stops at
// the first row that would end after the window end and marks the layout as
// overflowed. Durations are fixed 60s minutes with no calendar awareness.
func ComputeScheduleIn(loc *time.Location, w Window, rows []ActivityRow) Layout {
	start, okStart := ParseWindowTime(w.Start, loc)
	end, okEnd := ParseWindowTime(w.End, loc)
	if !okStart || !okEnd {
		out := make([]ScheduledRow, len(rows))
		for i, r := range rows {
			out[i] = ScheduledRow{ActivityRow: r}
		}
		return Layout{Rows: out}
	}

	layout := Layout{
		Rows:      make([]ScheduledRow, 0, len(rows)),
		Scheduled: true,
	}
	cursor := start
	for _, r := range rows {
		next := cursor.Add(minutesDuration(r.Minutes))
		if next.After(end) {
			layout.Overflowed = true
			break
		}
		layout.Rows = append(layout.Rows, ScheduledRow{
			ActivityRow: r,
			Time:        cursor.Format("1504"),
			Start:       cursor,
			End:         next,
		})
		cursor = next
	}

	used := cursor.Sub(start).Minutes()
	total := end.Sub(start).Minutes()
	layout.GapMinutes = math.Max(total-used, 0)
	return layout
}

// minutesDuration converts minutes to whole milliseconds. Negative minutes
// count as zero.
func minutesDuration(minutes float64) time.Duration {
	if minutes <= 0 || math.IsNaN(minutes) {
		return 0
	}
	ms := math.Trunc(minutes * 60000)
	if ms > float64(math.MaxInt64/int64(time.Millisecond)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ms) * time.Millisecond
}
