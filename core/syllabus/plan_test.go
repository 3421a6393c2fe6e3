package syllabus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
)

func parsePlan(t *testing.T, text string) (*Plan, error) {
	t.Helper()
	doc, err := Parse(text)
	require.NoError(t, err)
	s, err := Decode(doc)
	if err != nil {
		return nil, err
	}
	return ExtractPlan(s)
}

func TestExtractPlan(t *testing.T) {
	plan, err := parsePlan(t, sampleSyllabus)
	require.NoError(t, err)

	require.Len(t, plan.Meetings, 3)
	assert.Equal(t, date(2025, time.August, 25), plan.Meetings[0].Date)
	assert.Equal(t, "https://example.edu/welcome", plan.Meetings[0].Link)
	assert.Equal(t, []Item{{Title: "Chapter 1"}}, plan.Meetings[0].Readings)

	assert.Equal(t, date(2025, time.August, 29), plan.Meetings[1].Date)
	assert.Equal(t, []Item{{Title: "Activity: Shell Basics", URL: "./Activities/shell.html"}}, plan.Meetings[1].Activities)
	assert.Equal(t, date(2025, time.September, 1), plan.Meetings[2].Date)

	require.Len(t, plan.Due, 2)
	assert.Equal(t, "Assignment: Warmup Due", plan.Due[0].Title)
	assert.Equal(t, 50.0, plan.Due[0].Points)
	assert.True(t, plan.Due[0].HasPoints)
	assert.Equal(t, "rubrics/warmup.md", plan.Due[0].RubricPath)
	assert.Equal(t, "Quiz 1 Due", plan.Due[1].Title)
	assert.False(t, plan.Due[1].HasPoints)

	require.Len(t, plan.HandedOut, 1)
	assert.Equal(t, 0, plan.HandedOut[0].Ordinal)
	assert.Len(t, plan.All, 3)

	assert.Equal(t, date(2025, time.December, 12), plan.End)
}

func TestExtractPlan_SkipsAndSorts(t *testing.T) {
	plan, err := parsePlan(t, `info:
  course_start_date: 2025/08/25
  class_meets_days: {isT: true, isR: true}
schedule:
  - {week: 1, date: 1, title: Late, deliverables: [{dtitle: B Due}, {dtitle: a Due}]}
  - {week: 0, date: 0, title: First, activity: Warmup}
  - {week: x, date: 0, title: Bad week}
  - {week: 0, date: 2, title: No third day}
  - {week: 0, date: 1, title: Second, in_class: [{name: "Lab: Pairs", link: "../pairs"}, "  "]}
`)
	require.NoError(t, err)

	titles := make([]string, 0, len(plan.Meetings))
	for _, m := range plan.Meetings {
		titles = append(titles, m.Title)
	}
	assert.Equal(t, []string{"First", "Second", "Late"}, titles)
	assert.Equal(t, []Item{{Title: "Activity: Warmup"}}, plan.Meetings[0].Activities)
	assert.Equal(t, []Item{{Title: "Lab: Pairs", URL: "../pairs"}}, plan.Meetings[1].Activities)

	require.Len(t, plan.Due, 2)
	assert.Equal(t, "a Due", plan.Due[0].Title)
	assert.Equal(t, "B Due", plan.Due[1].Title)

	d, ok := plan.MeetingDate(1, 1)
	assert.True(t, ok)
	assert.Equal(t, date(2025, time.September, 4), d)
	_, ok = plan.MeetingDate(5, 0)
	assert.False(t, ok)
}

func TestExtractPlan_UnreadableWeekOrDate(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		want  []string
	}{
		{"sequence week", "{week: [1], date: 0, title: Odd}", []string{"First"}},
		{"mapping date", "{week: 1, date: {a: 1}, title: Odd}", []string{"First"}},
		{"integral float week", "{week: 1.0, date: 0, title: Odd}", []string{"First", "Odd"}},
		{"fractional week", "{week: 1.5, date: 0, title: Odd}", []string{"First"}},
		{"quoted week", "{week: \"1\", date: 0, title: Odd}", []string{"First", "Odd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := parsePlan(t, `info:
  course_start_date: 2025/08/25
  class_meets_days: {isM: true}
schedule:
  - {week: 0, date: 0, title: First}
  - `+tt.entry+"\n")
			require.NoError(t, err)
			titles := make([]string, 0, len(plan.Meetings))
			for _, m := range plan.Meetings {
				titles = append(titles, m.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestFlex(t *testing.T) {
	tests := []struct {
		yaml    string
		want    int
		wantOK  bool
		valid   bool
		written string
	}{
		{"3", 3, true, true, "3\n"},
		{"1.0", 1, true, true, "1.0\n"},
		{"2.5", 0, false, true, "2.5\n"},
		{"\"4\"", 4, true, true, "\"4\"\n"},
		{"x", 0, false, true, "x\n"},
		{"[1]", 0, false, false, "[1]\n"},
		{"{a: 1}", 0, false, false, "{a: 1}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.yaml, func(t *testing.T) {
			var f Flex
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &f))
			n, ok := f.Int()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, n)
			assert.Equal(t, tt.valid, f.Valid())

			out, err := yaml.Marshal(f)
			require.NoError(t, err)
			assert.Equal(t, tt.written, string(out))
		})
	}
}

func TestExtractPlan_Errors(t *testing.T) {
	_, err := parsePlan(t, "info:\n  course_start_date: 2025/08/25\nschedule: []\n")
	assert.Equal(t, ErrNoMeetingDays, err)

	_, err = parsePlan(t, "info:\n  course_start_date: 08-25-2025\n  class_meets_days: {isM: true}\n")
	require.Error(t, err)
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok, "got %T", err)
	assert.Contains(t, vErr.Fields[0].Field, "course_start_date")

	_, err = parsePlan(t, "schedule: []\n")
	assert.Error(t, err)
}

func TestPlan_Meetings(t *testing.T) {
	plan := &Plan{Meetings: []Meeting{
		{Date: date(2025, time.September, 3)},
		{Date: date(2025, time.September, 1)},
		{Date: date(2025, time.September, 3)},
		{Date: date(2025, time.September, 8)},
	}}
	assert.Equal(t, []time.Time{
		date(2025, time.September, 1),
		date(2025, time.September, 3),
		date(2025, time.September, 8),
	}, plan.MeetingDates())

	next, ok := plan.NextMeetingOnOrAfter(date(2025, time.September, 4))
	assert.True(t, ok)
	assert.Equal(t, date(2025, time.September, 8), next)

	next, ok = plan.NextMeetingOnOrAfter(date(2025, time.September, 3))
	assert.True(t, ok)
	assert.Equal(t, date(2025, time.September, 3), next)

	_, ok = plan.NextMeetingOnOrAfter(date(2025, time.September, 9))
	assert.False(t, ok)
}
