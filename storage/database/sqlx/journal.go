package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
)

// RunSummary describes one journaled invocation.
type RunSummary struct {
	RunID      string    `db:"run_id" json:"runId"`
	CourseID   string    `db:"course_id" json:"courseId"`
	StartedAt  time.Time `db:"started_at" json:"startedAt"`
	FinishedAt time.Time `db:"finished_at" json:"finishedAt"`
	Mutations  int       `db:"mutations" json:"mutations"`
}

type journalRepository struct {
	db *sqlx.DB
}

var _ core.Journal = (*journalRepository)(nil)

func NewJournalRepository(db *sqlx.DB) *journalRepository {
	return &journalRepository{db: db}
}

const insertEntry = `INSERT INTO journal_entry (run_id, course_id, action, resource, remote_id, name, payload, recorded_at)
VALUES (:run_id, :course_id, :action, :resource, :remote_id, :name, :payload, :recorded_at)
RETURNING id`

func (repo journalRepository) Record(ctx context.Context, entry core.JournalEntry) error {
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}
	query, args, err := repo.db.BindNamed(insertEntry, entry)
	if err != nil {
		return errors.Wrap(err, "binding journal entry")
	}
	var id int64
	if err := repo.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return errors.Wrap(err, "recording journal entry")
	}
	return nil
}

func (repo journalRepository) Entries(ctx context.Context, runID string) ([]core.JournalEntry, error) {
	entries := make([]core.JournalEntry, 0)
	err := repo.db.SelectContext(ctx, &entries, `SELECT id, run_id, course_id, action, resource, remote_id, name, payload, recorded_at
FROM journal_entry WHERE run_id = $1 ORDER BY id`, runID)
	if err != nil {
		return nil, errors.Wrapf(err, "querying journal of run %s", runID)
	}
	return entries, nil
}

// Runs lists the most recent runs first.
func (repo journalRepository) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	runs := make([]RunSummary, 0)
	err := repo.db.SelectContext(ctx, &runs, `SELECT run_id, course_id, started_at, finished_at, mutations
FROM journal_run ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying journal runs")
	}
	return runs, nil
}
