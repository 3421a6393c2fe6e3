// Package reconcile brings an LMS course in line with a syllabus plan: assignment due dates,
// one module per class meeting and assignment rubrics. Every driver returns the action log of
// what it did, or would do when Options.Apply is false.
package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/lms"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/rubric"
)

// Course is the LMS course being reconciled.
type Course interface {
	CourseID() string

	ListAssignments(ctx context.Context) ([]lms.Assignment, error)
	GetAssignment(ctx context.Context, id int64) (*lms.Assignment, error)
	UpdateAssignment(ctx context.Context, id int64, in lms.AssignmentInput) (*lms.Assignment, error)
	CreateAssignment(ctx context.Context, in lms.AssignmentInput) (*lms.Assignment, error)

	ListModules(ctx context.Context) ([]lms.Module, error)
	CreateModule(ctx context.Context, in lms.ModuleInput) (*lms.Module, error)
	UpdateModule(ctx context.Context, id int64, in lms.ModuleInput) (*lms.Module, error)
	DeleteModule(ctx context.Context, id int64) error

	ListModuleItems(ctx context.Context, moduleID int64) ([]lms.ModuleItem, error)
	CreateModuleItem(ctx context.Context, moduleID int64, in lms.ModuleItemInput) (*lms.ModuleItem, error)
	UpdateModuleItem(ctx context.Context, moduleID, itemID int64, in lms.ModuleItemInput) (*lms.ModuleItem, error)
	DeleteModuleItem(ctx context.Context, moduleID, itemID int64) error

	ListPages(ctx context.Context) ([]lms.Page, error)

	DeleteRubricAssociation(ctx context.Context, id int64) error
	DeleteRubric(ctx context.Context, id int64) error
	CreateRubric(ctx context.Context, payload rubric.Payload) (*lms.CreatedRubric, error)
}

type Options struct {
	// Apply sends the changes; otherwise they are only logged.
	Apply bool
	// BaseURL prefixes relative syllabus links.
	BaseURL string
	// RunID groups the journal entries of one invocation.
	RunID   string
	Journal core.Journal
	Logger  core.Logger
}

// run carries the state shared by the steps of one driver.
type run struct {
	ctx     context.Context
	course  Course
	opts    Options
	actions core.Actions
}

func newRun(ctx context.Context, course Course, opts Options) *run {
	if opts.Journal == nil {
		opts.Journal = core.NopJournal{}
	}
	return &run{ctx: ctx, course: course, opts: opts}
}

func (r *run) add(tag, format string, args ...interface{}) {
	r.actions.Addf(tag, format, args...)
}

// planned logs a change that dry-run mode did not send.
func (r *run) planned(tag, format string, args ...interface{}) {
	r.actions.Addf(tag, "(dry-run) "+format, args...)
}

// record journals a mutation that was sent. Journal failures are logged and never stop a run.
func (r *run) record(action, resource string, remoteID int64, name string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte(fmt.Sprintf("%q", fmt.Sprint(payload)))
	}
	entry := core.JournalEntry{
		RunID:      r.opts.RunID,
		CourseID:   r.course.CourseID(),
		Action:     action,
		Resource:   resource,
		RemoteID:   remoteID,
		Name:       name,
		Payload:    string(data),
		RecordedAt: time.Now().UTC(),
	}
	if err := r.opts.Journal.Record(r.ctx, entry); err != nil && r.opts.Logger != nil {
		r.opts.Logger.Warn("journal: could not record "+action+" "+resource, err)
	}
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
