package syllabus

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestActiveDays(t *testing.T) {
	assert.Equal(t, []int{0, 2, 4}, ActiveDays(MeetsDays{IsM: true, IsW: true, IsF: true}))
	assert.Equal(t, []int{1, 3}, ActiveDays(MeetsDays{IsR: true, IsT: true}))
	assert.Empty(t, ActiveDays(MeetsDays{}))
}

func TestCourseDate(t *testing.T) {
	start := date(2025, time.August, 25) // a Monday
	mwf := []int{0, 2, 4}

	tests := []struct {
		name    string
		start   time.Time
		active  []int
		week    int
		ordinal int
		want    time.Time
		wantOK  bool
	}{
		{name: "week 0 friday", start: start, active: mwf, week: 0, ordinal: 2, want: date(2025, time.August, 29), wantOK: true},
		{name: "week 1 monday", start: start, active: mwf, week: 1, ordinal: 0, want: date(2025, time.September, 1), wantOK: true},
		{name: "week 3 wednesday", start: start, active: mwf, week: 3, ordinal: 1, want: date(2025, time.September, 17), wantOK: true},
		{name: "start mid-week uses its monday", start: date(2025, time.August, 27), active: mwf, week: 0, ordinal: 0, want: date(2025, time.August, 25), wantOK: true},
		{name: "start on sunday", start: date(2025, time.August, 31), active: []int{1, 3}, week: 0, ordinal: 1, want: date(2025, time.August, 28), wantOK: true},
		{name: "ordinal out of range", start: start, active: mwf, week: 0, ordinal: 3},
		{name: "negative ordinal", start: start, active: mwf, week: 0, ordinal: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CourseDate(tt.start, tt.active, tt.week, tt.ordinal)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDueInstant(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name    string
		meeting time.Time
		want    string
	}{
		{name: "daylight saving time", meeting: date(2025, time.September, 10), want: "2025-09-11T03:59:59Z"},
		{name: "standard time", meeting: date(2025, time.December, 1), want: "2025-12-02T04:59:59Z"},
		{name: "day after falls back", meeting: date(2025, time.November, 1), want: "2025-11-02T04:59:59Z"},
		{name: "day after springs forward", meeting: date(2026, time.March, 7), want: "2026-03-08T03:59:59Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCanvasTime(DueInstant(tt.meeting, DefaultDueTimes, loc)))
		})
	}
}

func TestParseDueTimes(t *testing.T) {
	got, err := ParseDueTimes("T045959Z|T035959Z")
	require.NoError(t, err)
	assert.Equal(t, DefaultDueTimes, got)

	got, err = ParseDueTimes("T055959Z|T045959Z")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Hour+59*time.Minute+59*time.Second, got.Standard)

	for _, bad := range []string{"", "T045959Z", "T04:59Z|T035959Z"} {
		_, err := ParseDueTimes(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateHeader(t *testing.T) {
	assert.Equal(t, "Tue, Sep 23, 2025", DateHeader(date(2025, time.September, 23)))
	assert.Equal(t, "Mon, Sep 01, 2025", DateHeader(date(2025, time.September, 1)))
}
