package attendance

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
)

// SummaryHeader is the header of the per-student summary CSV.
var SummaryHeader = []string{"Student Name", "present", "absent", "late", "total_marked", "attended", "absent_equiv"}

// Summary counts the marks of one student.
type Summary struct {
	Student string
	Present int
	Absent  int
	Late    int
}

// TotalMarked counts the sessions with a known status.
func (s Summary) TotalMarked() int { return s.Present + s.Absent + s.Late }

// Attended counts late arrivals as attended.
func (s Summary) Attended() int { return s.Present + s.Late }

// AbsentEquiv counts a late arrival as half an absence.
func (s Summary) AbsentEquiv() float64 { return float64(s.Absent) + 0.5*float64(s.Late) }

func (s Summary) record() []string {
	return []string{
		s.Student,
		strconv.Itoa(s.Present),
		strconv.Itoa(s.Absent),
		strconv.Itoa(s.Late),
		strconv.Itoa(s.TotalMarked()),
		strconv.Itoa(s.Attended()),
		formatFloat(s.AbsentEquiv()),
	}
}

// formatFloat always keeps one decimal: 2 -> "2.0", 2.5 -> "2.5".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Summarize counts the statuses of every student, sorted by name. Rows without a student are
// ignored; students whose marks are all unknown are kept with zero counts.
func Summarize(t *Table, studentCol, attendanceCol int) []Summary {
	byStudent := make(map[string]*Summary)
	for _, row := range t.Rows {
		name := strings.TrimSpace(row[studentCol])
		if name == "" {
			continue
		}
		s, ok := byStudent[name]
		if !ok {
			s = &Summary{Student: name}
			byStudent[name] = s
		}
		switch NormalizeStatus(row[attendanceCol]) {
		case Present:
			s.Present++
		case Absent:
			s.Absent++
		case Late:
			s.Late++
		}
	}

	out := make([]Summary, 0, len(byStudent))
	for _, s := range byStudent {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Student < out[j].Student })
	return out
}

// WriteCSV writes the summaries under SummaryHeader.
func WriteCSV(w io.Writer, rows []Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return errors.Wrap(err, "writing summary header")
	}
	for _, s := range rows {
		if err := cw.Write(s.record()); err != nil {
			return errors.Wrap(err, "writing summary row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "writing summary")
}

// WritePreview prints the first n summaries as an aligned table.
func WritePreview(w io.Writer, rows []Summary, n int) error {
	if n > len(rows) {
		n = len(rows)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(SummaryHeader, "\t")+"\t")
	for _, s := range rows[:n] {
		fmt.Fprintln(tw, strings.Join(s.record(), "\t")+"\t")
	}
	return tw.Flush()
}

// Report is the outcome of aggregating one export.
type Report struct {
	StudentColumn    string
	AttendanceColumn string
	Rows             []Summary
}

// Aggregate detects the attendance and student columns of t and summarizes it.
func Aggregate(t *Table) (*Report, error) {
	att, err := FindAttendanceColumn(t)
	if err != nil {
		return nil, err
	}
	student, err := ChooseStudentColumn(t, att)
	if err != nil {
		return nil, err
	}
	return &Report{
		StudentColumn:    t.Header[student],
		AttendanceColumn: t.Header[att],
		Rows:             Summarize(t, student, att),
	}, nil
}
