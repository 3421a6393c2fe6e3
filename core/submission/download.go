// Package submission downloads the submitted files of an assignment into a local folder.
package submission

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/lms"
)

// PromptFile is written in the output folder with the assignment name, due date and description.
const PromptFile = "prompt.txt"

// Source is the part of the LMS client the downloader needs.
type Source interface {
	GetCourseAssignment(ctx context.Context, courseID string, id int64) (*lms.Assignment, error)
	ListSubmissions(ctx context.Context, courseID string, assignmentID int64) ([]lms.Submission, error)
	Download(ctx context.Context, fileURL string, w io.Writer) (int64, error)
}

type Options struct {
	// Root is where the assignment folder is created; the working directory when empty.
	Root   string
	Logger core.Logger
}

// Result tells where the files went and what happened to each attachment.
type Result struct {
	Dir     string
	Actions core.Actions
}

// Sanitize keeps letters, digits, spaces, dots, underscores and dashes; anything else becomes `_`.
func Sanitize(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || strings.ContainsRune(" ._-", r) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// DirName is the folder of an assignment's submissions.
func DirName(courseID string, assignmentID int64, assignmentName string) string {
	return fmt.Sprintf("course_%s_assignment_%d_%s", courseID, assignmentID, Sanitize(assignmentName))
}

// Download saves the prompt and every submission attachment of an assignment. ZIP attachments are
// extracted next to the archive. A failing attachment is logged in the result and skipped; only
// failing to read the assignment or its submissions, or to create the folder, is an error.
func Download(ctx context.Context, src Source, courseID string, assignmentID int64, opts Options) (*Result, error) {
	assignment, err := src.GetCourseAssignment(ctx, courseID, assignmentID)
	if err != nil {
		return nil, errors.Wrap(err, "retrieving the assignment")
	}

	dir := filepath.Join(opts.Root, DirName(courseID, assignmentID, assignment.Name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}
	if err := writePrompt(filepath.Join(dir, PromptFile), assignment); err != nil {
		return nil, err
	}

	subs, err := src.ListSubmissions(ctx, courseID, assignmentID)
	if err != nil {
		return nil, errors.Wrap(err, "listing submissions")
	}

	res := &Result{Dir: dir}
	for _, sub := range subs {
		user := sub.UserName()
		if len(sub.Attachments) == 0 {
			res.Actions.Addf(core.TagSkip, "No attachments found for %s.", user)
			continue
		}
		for _, att := range sub.Attachments {
			name := Sanitize(user) + "_" + Sanitize(att.Filename)
			if err := fetch(ctx, src, att.URL, dir, name, &res.Actions); err != nil {
				res.Actions.Addf(core.TagError, "Failed to handle attachment for %s: %v", user, err)
				if opts.Logger != nil {
					opts.Logger.Error(err.Error(), map[string]interface{}{"user": user, "file": att.Filename})
				}
			}
		}
	}
	return res, nil
}

func writePrompt(path string, a *lms.Assignment) error {
	due := a.DueAt
	if due == "" {
		due = "none"
	}
	desc := DescriptionText(a.Description)
	if desc == "" {
		desc = "[No description]"
	}
	text := fmt.Sprintf("Assignment Name: %s\nDue At: %s\nDescription:\n%s\n", a.Name, due, desc)
	return errors.Wrapf(ioutil.WriteFile(path, []byte(text), 0o644), "writing %s", path)
}

func fetch(ctx context.Context, src Source, fileURL, dir, name string, log *core.Actions) error {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = src.Download(ctx, fileURL, f)
	if cerr := f.Close(); err == nil {
		err = errors.WithStack(cerr)
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	log.Addf(core.TagAdd, "Downloaded %s", name)

	if !IsZip(path) {
		return nil
	}
	target := filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name)))
	n, err := Extract(path, target)
	if err != nil {
		return err
	}
	log.Addf(core.TagAdd, "Extracted %d files from %s to %s", n, name, target)
	return nil
}
