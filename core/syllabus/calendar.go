package syllabus

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
)

// CanvasTimeLayout is the UTC layout Canvas accepts for due_at.
const CanvasTimeLayout = "2006-01-02T15:04:05Z"

// DayCodes are the meeting day letters, Monday first.
var DayCodes = [7]string{"M", "T", "W", "R", "F", "S", "U"}

// ActiveDays returns the offsets from Monday (0 to 6) of every day the class meets, in week order.
func ActiveDays(days MeetsDays) []int {
	flags := days.Days()
	active := make([]int, 0, len(flags))
	for i, on := range flags {
		if on {
			active = append(active, i)
		}
	}
	return active
}

// ParseDate parses a YYYY/MM/DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(core.CourseDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing date %q", s)
	}
	return d, nil
}

// MondayOnOrBefore returns the Monday of the week containing d.
func MondayOnOrBefore(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// CourseDate resolves a (week, ordinal) pair: the Monday on or before start, plus week weeks,
// plus the weekday of the ordinal-th active day. ok is false when the ordinal is out of range.
func CourseDate(start time.Time, active []int, week, ordinal int) (date time.Time, ok bool) {
	if ordinal < 0 || ordinal >= len(active) {
		return time.Time{}, false
	}
	return MondayOnOrBefore(start).AddDate(0, 0, 7*week+active[ordinal]), true
}

// DueTimes are the UTC times of day at which a deliverable is due, the morning after its meeting.
type DueTimes struct {
	Standard time.Duration
	Daylight time.Duration
}

// DefaultDueTimes give a 23:59:59 cutoff in US Eastern time.
var DefaultDueTimes = DueTimes{
	Standard: 4*time.Hour + 59*time.Minute + 59*time.Second,
	Daylight: 3*time.Hour + 59*time.Minute + 59*time.Second,
}

// ParseDueTimes parses "T045959Z|T035959Z" (standard time first, then daylight saving time).
func ParseDueTimes(s string) (DueTimes, error) {
	parts := strings.Split(strings.TrimSpace(s), "|")
	if len(parts) != 2 {
		return DueTimes{}, core.NewArgumentError("due times must be of form: T045959Z|T035959Z")
	}
	var offsets [2]time.Duration
	for i, p := range parts {
		t, err := time.Parse("T150405Z", strings.TrimSpace(p))
		if err != nil {
			return DueTimes{}, core.NewArgumentError("invalid due time " + p + " (want THHMMSSZ)")
		}
		offsets[i] = time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
	}
	return DueTimes{Standard: offsets[0], Daylight: offsets[1]}, nil
}

// IsDST reports whether the civil date d observes daylight saving time in loc, checked at local noon.
func IsDST(d time.Time, loc *time.Location) bool {
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc).IsDST()
}

// DueInstant is the due time of a deliverable presented at the given meeting date:
// the next day at times.Daylight UTC when that day is in DST in loc, else at times.Standard UTC.
func DueInstant(meeting time.Time, times DueTimes, loc *time.Location) time.Time {
	next := meeting.AddDate(0, 0, 1)
	offset := times.Standard
	if IsDST(next, loc) {
		offset = times.Daylight
	}
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC).Add(offset)
}

// FormatCanvasTime renders t in UTC the way Canvas writes due_at, eg. "2025-09-02T03:59:59Z".
func FormatCanvasTime(t time.Time) string {
	return t.UTC().Format(CanvasTimeLayout)
}

// DateHeader formats a meeting date the way module names start, eg. "Tue, Sep 23, 2025".
func DateHeader(d time.Time) string {
	return d.Format("Mon, Jan 02, 2006")
}
