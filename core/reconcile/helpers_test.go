package reconcile_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/reconcile"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/syllabus"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/services/canvas"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/services/canvas/canvastest"
)

var _ reconcile.Course = (*canvas.Client)(nil)

const courseSyllabus = `---
info:
  course_start_date: 2025/08/25
  class_meets_days: {isM: true, isW: true, isF: true}
schedule:
  - week: 0
    date: 0
    title: Welcome
    link: https://example.edu/welcome
    readings:
      - {rtitle: Chapter 1, rlink: false}
    deliverables:
      - {dtitle: "Assignment: Warmup Handed Out"}
  - week: 0
    date: 2
    title: Shell
    activities: [{title: Shell Basics, url: ./Activities/shell.html}]
    readings:
      - {rtitle: Syllabus Page, rlink: ./syllabus}
    deliverables:
      - {dtitle: Quiz 1 Due}
  - week: 1
    date: 0
    title: Git
    link: https://example.edu/git
    activities: [{title: Git, url: "https://example.edu/git"}]
    deliverables:
      - {dtitle: "Assignment: Warmup Due", points: 50, rubricpath: warmup.md}
  - week: 1
    date: 1
    title: Review
---
# CS 173
`

func parsePlan(t *testing.T, text string) *syllabus.Plan {
	t.Helper()
	doc, err := syllabus.Parse(text)
	require.NoError(t, err)
	s, err := syllabus.Decode(doc)
	require.NoError(t, err)
	plan, err := syllabus.ExtractPlan(s)
	require.NoError(t, err)
	return plan
}

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func newCourse(t *testing.T) (*canvastest.Server, *canvas.Client) {
	t.Helper()
	srv := canvastest.NewServer()
	t.Cleanup(srv.Close)
	client := canvas.NewClient(canvas.Options{
		BaseURL:  srv.URL,
		Token:    canvastest.Token,
		CourseID: canvastest.CourseID,
	})
	return srv, client
}

// memJournal keeps entries in memory.
type memJournal struct {
	mu      sync.Mutex
	entries []core.JournalEntry
}

func (j *memJournal) Record(_ context.Context, e core.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	e.ID = int64(len(j.entries) + 1)
	j.entries = append(j.entries, e)
	return nil
}

func (j *memJournal) Entries(_ context.Context, runID string) ([]core.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []core.JournalEntry
	for _, e := range j.entries {
		if e.RunID == runID {
			out = append(out, e)
		}
	}
	return out, nil
}

func messages(actions core.Actions, tag string) []string {
	var out []string
	for _, a := range actions {
		if a.Tag == tag {
			out = append(out, a.Message)
		}
	}
	return out
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
