package reconcile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/lms"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/rubric"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/syllabus"
)

// DefaultPoints grade a deliverable that has no points.
const DefaultPoints = 100

// RubricOptions add to Options where to find relative rubric paths (the working directory by default).
type RubricOptions struct {
	Options
	RubricDir string

	// Create makes the assignments that do not exist yet. They are due the morning after
	// their meeting (Times in Location) and lock the morning after End, when End is set.
	// Their description links the deliverable, resolved against BaseURL.
	Create   bool
	Times    syllabus.DueTimes
	Location *time.Location
	End      time.Time
}

// RubricTarget is a graded deliverable that names a rubric file.
type RubricTarget struct {
	Name            string
	RubricPath      string
	Points          float64
	Meeting         time.Time
	Link            string
	SubmissionTypes string
}

// RubricTargets lists the deliverables with a rubric, in schedule order. Handed-out entries and
// quizzes are not graded with rubrics; a trailing " Due" is dropped from the assignment name.
func RubricTargets(plan *syllabus.Plan) []RubricTarget {
	var targets []RubricTarget
	for _, d := range plan.All {
		name := strings.TrimSuffix(strings.TrimSpace(d.Title), " Due")
		lower := strings.ToLower(name)
		if strings.Contains(lower, " handed out") || strings.Contains(lower, "quiz:") {
			continue
		}
		if d.RubricPath == "" {
			continue
		}
		t := RubricTarget{
			Name:            name,
			RubricPath:      d.RubricPath,
			Points:          DefaultPoints,
			Meeting:         d.Date,
			Link:            d.Link,
			SubmissionTypes: d.SubmissionTypes,
		}
		if d.HasPoints {
			t.Points = d.Points
		}
		targets = append(targets, t)
	}
	return targets
}

// ReplaceRubrics deletes the rubric of every target's assignment and recreates it from the
// target's rubric file. A missing assignment is created when opts.Create is set, else skipped
// with a warning. A failure stops the replacement of that assignment only; what was already
// deleted stays deleted.
func ReplaceRubrics(ctx context.Context, course Course, targets []RubricTarget, opts RubricOptions) (core.Actions, error) {
	r := newRun(ctx, course, opts.Options)
	assignments, err := course.ListAssignments(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing assignments")
	}

	for _, t := range targets {
		path := t.RubricPath
		if opts.RubricDir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(opts.RubricDir, path)
		}
		if _, err := os.Stat(path); err != nil {
			r.add(core.TagWarn, "rubricpath '%s' not found for assignment '%s'", t.RubricPath, t.Name)
			continue
		}

		def, err := rubric.Load(path)
		if err != nil {
			r.add(core.TagError, "Could not read rubric %s: %v", t.RubricPath, err)
			continue
		}

		a, ok := findByName(assignments, t.Name)
		if !ok && !opts.Create {
			r.add(core.TagWarn, "No Canvas assignment named '%s' for rubric %s", t.Name, t.RubricPath)
			continue
		}
		if !opts.Apply {
			if !ok {
				r.planned(core.TagCreate, "Assignment '%s' due %s", t.Name, opts.dueAt(t))
			}
			r.planned(core.TagUpdate, "Rubric of '%s' from %s (%g points)", t.Name, t.RubricPath, t.Points)
			continue
		}
		if !ok {
			created, err := r.createAssignment(t, opts)
			if err != nil {
				r.add(core.TagError, "Failed to create assignment '%s': %v", t.Name, err)
				continue
			}
			a = *created
			assignments = append(assignments, a)
		}
		r.replaceRubric(a, def, t)
	}
	return r.actions, nil
}

func findByName(assignments []lms.Assignment, name string) (lms.Assignment, bool) {
	want := syllabus.Norm(name)
	for _, a := range assignments {
		if syllabus.Norm(a.Name) == want {
			return a, true
		}
	}
	return lms.Assignment{}, false
}

func (r *run) replaceRubric(a lms.Assignment, def *rubric.Definition, t RubricTarget) {
	current, err := r.course.GetAssignment(r.ctx, a.ID)
	if err != nil {
		r.add(core.TagError, "Failed to read rubric settings of '%s': %v", a.Name, err)
		return
	}
	if rs := current.RubricSettings; rs != nil {
		if rs.RubricAssociationID != 0 {
			if err := r.course.DeleteRubricAssociation(r.ctx, rs.RubricAssociationID); err != nil {
				r.add(core.TagError, "Failed to delete rubric association %d of '%s': %v", rs.RubricAssociationID, a.Name, err)
				return
			}
			r.add(core.TagDelete, "Rubric association %d of '%s'", rs.RubricAssociationID, a.Name)
			r.record(core.TagDelete, "rubric_association", rs.RubricAssociationID, a.Name, rs)
		}
		if rs.ID != 0 {
			if err := r.course.DeleteRubric(r.ctx, rs.ID); err != nil {
				r.add(core.TagError, "Failed to delete rubric %d of '%s': %v", rs.ID, a.Name, err)
				return
			}
			r.add(core.TagDelete, "Rubric %d of '%s'", rs.ID, a.Name)
			r.record(core.TagDelete, "rubric", rs.ID, rs.Title, rs)
		}
	}

	payload := rubric.BuildPayload(def, a.ID, a.Name, t.Points)
	created, err := r.course.CreateRubric(r.ctx, payload)
	if err != nil {
		r.add(core.TagError, "Failed to create rubric for '%s': %v", a.Name, err)
		return
	}
	r.add(core.TagCreate, "Rubric '%s' for '%s' from %s", payload.Rubric.Title, a.Name, t.RubricPath)
	r.record(core.TagCreate, "rubric", created.Rubric.ID, payload.Rubric.Title, payload)
}

func (opts RubricOptions) dueAt(t RubricTarget) string {
	return syllabus.FormatCanvasTime(syllabus.DueInstant(t.Meeting, opts.dueTimes(), opts.location()))
}

func (opts RubricOptions) lockAt() string {
	if opts.End.IsZero() {
		return ""
	}
	return syllabus.FormatCanvasTime(syllabus.DueInstant(opts.End, opts.dueTimes(), opts.location()))
}

func (opts RubricOptions) dueTimes() syllabus.DueTimes {
	if opts.Times == (syllabus.DueTimes{}) {
		return syllabus.DefaultDueTimes
	}
	return opts.Times
}

func (opts RubricOptions) location() *time.Location {
	if opts.Location == nil {
		return time.UTC
	}
	return opts.Location
}

func (r *run) createAssignment(t RubricTarget, opts RubricOptions) (*lms.Assignment, error) {
	published := true
	in := lms.AssignmentInput{
		Name:           t.Name,
		Description:    describe(t.Name, t.Link, opts.BaseURL),
		DueAt:          opts.dueAt(t),
		LockAt:         opts.lockAt(),
		PointsPossible: t.Points,
		NotifyOfUpdate: true,
		Published:      &published,
	}
	in.SubmissionTypes, in.AllowedExtensions = SubmissionTypes(t.SubmissionTypes)

	a, err := r.course.CreateAssignment(r.ctx, in)
	if err != nil {
		return nil, err
	}
	r.add(core.TagCreate, "Assignment '%s' due %s", a.Name, in.DueAt)
	r.record(core.TagCreate, "assignment", a.ID, a.Name, in)
	return a, nil
}

// describe is the description of a created assignment: its name, with the deliverable link when
// there is one. A relative link is kept as is when there is no base to resolve it against.
func describe(name, link, base string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return name
	}
	if resolved, ok := syllabus.ResolveURL(link, base); ok {
		link = resolved
	}
	return fmt.Sprintf(`%s (<a href="%s">%s</a>)`, name, link, link)
}

var archiveExtensions = []string{"zip", "bz2", "tar", "gz", "rar", "7z"}

// SubmissionTypes maps the submission_types of a deliverable to Canvas submission types and
// allowed extensions. "onpaper" and "noupload" take no files; anything else is an upload of an
// archive, and "written" also accepts documents and a text entry.
func SubmissionTypes(s string) (types, extensions []string) {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "onpaper"):
		return []string{"on_paper"}, nil
	case strings.Contains(lower, "noupload"):
		return []string{"online_text_entry"}, nil
	}
	types = []string{"online_upload"}
	extensions = append([]string(nil), archiveExtensions...)
	if strings.Contains(lower, "written") {
		types = append(types, "online_text_entry")
		extensions = append(extensions, "pdf", "doc", "docx", "txt")
	}
	return types, extensions
}
