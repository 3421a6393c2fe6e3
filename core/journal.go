package core

import (
	"context"
	"time"
)

// JournalEntry records one remote mutation sent to the LMS.
type JournalEntry struct {
	ID         int64     `db:"id" json:"id"`
	RunID      string    `db:"run_id" json:"runId"`
	CourseID   string    `db:"course_id" json:"courseId"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	RemoteID   int64     `db:"remote_id" json:"remoteId"`
	Name       string    `db:"name" json:"name"`
	Payload    string    `db:"payload" json:"payload"`
	RecordedAt time.Time `db:"recorded_at" json:"recordedAt"`
}

// Journal keeps a durable record of remote mutations, grouped by run.
type Journal interface {
	Record(ctx context.Context, entry JournalEntry) error
	Entries(ctx context.Context, runID string) ([]JournalEntry, error)
}

// NopJournal discards every entry; it is used when no database is configured.
type NopJournal struct{}

var _ Journal = NopJournal{}

func (NopJournal) Record(context.Context, JournalEntry) error { return nil }

func (NopJournal) Entries(context.Context, string) ([]JournalEntry, error) { return nil, nil }
