package core

import (
	"fmt"
	"io"
	"strings"
)

// Action tags as printed in the action log.
const (
	TagAdd          = "add"
	TagSkip         = "skip"
	TagWarn         = "warn"
	TagError        = "error"
	TagUpdate       = "update"
	TagDelItem      = "del-item"
	TagDelModule    = "del-module"
	TagCreateModule = "create-module"
	TagPublish      = "publish"
	TagUnpublish    = "unpublish"
	TagDelete       = "delete"
	TagCreate       = "create"
)

// Action is one line of the action log, rendered as "[tag] message".
type Action struct {
	Tag     string
	Message string
}

func (a Action) String() string {
	return "[" + a.Tag + "] " + a.Message
}

// Actions is the ordered log of what a reconciliation did (or would do in dry-run mode).
type Actions []Action

func (as *Actions) Add(tag, msg string) {
	*as = append(*as, Action{Tag: tag, Message: msg})
}

func (as *Actions) Addf(tag, format string, args ...interface{}) {
	as.Add(tag, fmt.Sprintf(format, args...))
}

// Append adds every action of `other` at the end of the log.
func (as *Actions) Append(other Actions) {
	*as = append(*as, other...)
}

// Count returns how many actions carry one of the given tags.
func (as Actions) Count(tags ...string) int {
	n := 0
	for _, a := range as {
		for _, t := range tags {
			if a.Tag == t {
				n++
				break
			}
		}
	}
	return n
}

// Summary counts additions, skips and problems.
func (as Actions) Summary() string {
	return fmt.Sprintf("[summary] added=%d skipped=%d warnings_or_errors=%d",
		as.Count(TagAdd), as.Count(TagSkip), as.Count(TagWarn, TagError))
}

func (as Actions) String() string {
	lines := make([]string, 0, len(as))
	for _, a := range as {
		lines = append(lines, a.String())
	}
	return strings.Join(lines, "\n")
}

// WriteTo prints one action per line.
func (as Actions) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, a := range as {
		n, err := fmt.Fprintln(w, a.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
