package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/syllabus"
)

const scheduleYAML = `
- week: 1
  date: 0
  title: Welcome
  link: https://example.edu/welcome
  room: Pfahler 010
  readings:
    - rtitle: Chapter 1
      rlink: false
      pages: 1-20
  deliverables:
    - dtitle: "Lab 1 Handed Out"
      dlink: false
- week: 1
  date: 2
  activities:
    - title: Shell Basics
      url: ./Activities/shell.html
  deliverables:
    - dtitle: "Lab 1 Due"
      dlink: ./Labs/lab1.html
      points: 20
      rubricpath: rubrics/lab1.md
      submission_types: online_upload
      team: true
- week: 2
  date: 1
  title: Git
  deliverables:
    - dtitle: "Quiz 1 Due"
      dlink: false
`

func parseEntries(t *testing.T, text string) []syllabus.Entry {
	t.Helper()
	var entries []syllabus.Entry
	require.NoError(t, yaml.Unmarshal([]byte(text), &entries))
	return entries
}

func TestFromEntries(t *testing.T) {
	days := FromEntries(parseEntries(t, scheduleYAML))
	require.Len(t, days, 3)

	assert.Equal(t, "1", days[0].Week.String())
	assert.Equal(t, "0", days[0].Slot.String())
	assert.Equal(t, []Item{{Title: "Welcome", Link: "https://example.edu/welcome"}}, days[0].Lectures)
	assert.Equal(t, []Item{{Title: "Chapter 1", Extra: map[string]interface{}{"pages": "1-20"}}}, days[0].Readings)
	assert.Equal(t, []Item{{Title: "Lab 1 Handed Out"}}, days[0].Deliverables)

	assert.Empty(t, days[1].Lectures)
	require.Len(t, days[1].Deliverables, 1)
	due := days[1].Deliverables[0]
	assert.Equal(t, "Lab 1 Due", due.Title)
	assert.Equal(t, "./Labs/lab1.html", due.Link)
	assert.Equal(t, "rubrics/lab1.md", due.Extra["rubricpath"])
	assert.Equal(t, "online_upload", due.Extra["submission_types"])
	assert.Equal(t, true, due.Extra["team"])
	assert.Equal(t, syllabus.Flex{Value: "20"}, due.Extra["points"])
}

func TestToEntries(t *testing.T) {
	days := FromEntries(parseEntries(t, scheduleYAML))
	days[0].Lectures = append(days[0].Lectures, Item{Title: "Overflow"})
	days[2].Lectures = nil

	entries := ToEntries(days)
	require.Len(t, entries, 3)

	assert.Equal(t, "Welcome", entries[0].Title)
	assert.Equal(t, "Pfahler 010", entries[0].Extra["room"])
	assert.Equal(t, "", entries[2].Title)
	assert.Equal(t, "Shell Basics", entries[1].ActivityList()[0].Title)

	lab := entries[1].Deliverables[0]
	assert.Equal(t, "20", lab.Points.String())
	assert.Equal(t, "rubrics/lab1.md", lab.RubricPath)
	assert.Equal(t, "online_upload", lab.SubmissionTypes)
	assert.Equal(t, map[string]interface{}{"team": true}, lab.Extra)

	out, err := yaml.Marshal(entries)
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "rlink: false")
	assert.Contains(t, text, "dlink: false")
	assert.Contains(t, text, "points: 20")
	assert.Contains(t, text, "pages: 1-20")
	assert.NotContains(t, text, "Overflow")
	assert.NotContains(t, text, "title: Git")
}

func TestToEntries_RoundTrip(t *testing.T) {
	entries := parseEntries(t, scheduleYAML)
	want, err := yaml.Marshal(entries)
	require.NoError(t, err)

	got, err := yaml.Marshal(ToEntries(NewBoard(FromEntries(entries)).Days()))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestCategory(t *testing.T) {
	tests := []struct {
		cat   Category
		name  string
		label string
	}{
		{Readings, "readings", "Readings"},
		{Deliverables, "deliverables", "Deliverables"},
		{Lectures, "lectures", "Lectures"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.cat.String())
			assert.Equal(t, tt.label, tt.cat.Label())
		})
	}
}
