package reconcile

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/lms"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/syllabus"
)

// minHintRatio is the similarity above which an unmatched key gets a "closest" hint.
const minHintRatio = 0.6

// DueTarget is the due instant planned for every assignment whose normalized name is Key.
type DueTarget struct {
	Key   string
	Title string
	Due   time.Time
}

// ISO is the due instant in the LMS format, eg. "2025-09-02T03:59:59Z".
func (t DueTarget) ISO() string {
	return syllabus.FormatCanvasTime(t.Due)
}

// BuildDueMap plans the due instant of every Due deliverable, keyed by syllabus.BaseKey.
// A later deliverable with the same key replaces the earlier one's due instant in place.
func BuildDueMap(plan *syllabus.Plan, times syllabus.DueTimes, loc *time.Location) []DueTarget {
	targets := make([]DueTarget, 0, len(plan.Due))
	index := make(map[string]int, len(plan.Due))
	for _, d := range plan.Due {
		t := DueTarget{
			Key:   syllabus.BaseKey(d.Title),
			Title: d.Title,
			Due:   syllabus.DueInstant(d.Date, times, loc),
		}
		if i, ok := index[t.Key]; ok {
			targets[i] = t
			continue
		}
		index[t.Key] = len(targets)
		targets = append(targets, t)
	}
	return targets
}

// FindBestMatch returns the first assignment whose normalized name equals key, else the first
// one whose normalized name contains it (a prefix match being a special case).
func FindBestMatch(assignments []lms.Assignment, key string) (*lms.Assignment, bool) {
	for i := range assignments {
		if syllabus.BaseKey(assignments[i].Name) == key {
			return &assignments[i], true
		}
	}
	for i := range assignments {
		if strings.Contains(syllabus.BaseKey(assignments[i].Name), key) {
			return &assignments[i], true
		}
	}
	return nil, false
}

// closestName returns the assignment name most similar to key.
func closestName(assignments []lms.Assignment, key string) (string, bool) {
	best, bestRatio := "", 0.0
	a := strings.Split(key, "")
	for _, asg := range assignments {
		m := difflib.NewMatcher(a, strings.Split(syllabus.BaseKey(asg.Name), ""))
		if ratio := m.Ratio(); ratio > bestRatio {
			best, bestRatio = asg.Name, ratio
		}
	}
	return best, bestRatio >= minHintRatio
}

// sameInstant compares an LMS due_at with a planned instant.
func sameInstant(dueAt string, want time.Time) bool {
	if dueAt == "" {
		return false
	}
	got, err := time.Parse(time.RFC3339, dueAt)
	if err != nil {
		return dueAt == syllabus.FormatCanvasTime(want)
	}
	return got.Equal(want)
}

// ApplyDueDates sets the due date of the assignment matching every target. A failed update is
// logged and the batch goes on; only listing the assignments can fail the whole call.
func ApplyDueDates(ctx context.Context, course Course, targets []DueTarget, opts Options) (core.Actions, error) {
	r := newRun(ctx, course, opts)
	assignments, err := course.ListAssignments(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing assignments")
	}

	for _, t := range targets {
		a, ok := FindBestMatch(assignments, t.Key)
		if !ok {
			if name, near := closestName(assignments, t.Key); near {
				r.add(core.TagWarn, "No Canvas assignment matched '%s' (closest: '%s')", t.Key, name)
			} else {
				r.add(core.TagWarn, "No Canvas assignment matched '%s'", t.Key)
			}
			continue
		}
		iso := t.ISO()
		if sameInstant(a.DueAt, t.Due) {
			r.add(core.TagSkip, "'%s' due_at already %s", a.Name, iso)
			continue
		}
		current := a.DueAt
		if current == "" {
			current = "none"
		}
		r.add(core.TagUpdate, "'%s' due_at: %s -> %s", a.Name, current, iso)
		if !opts.Apply {
			continue
		}

		in := lms.AssignmentInput{DueAt: iso}
		if _, err := course.UpdateAssignment(ctx, a.ID, in); err != nil {
			r.add(core.TagError, "Failed to update assignment id=%d: %v", a.ID, err)
			continue
		}
		a.DueAt = iso
		r.record(core.TagUpdate, "assignment", a.ID, a.Name, in)
	}
	return r.actions, nil
}
