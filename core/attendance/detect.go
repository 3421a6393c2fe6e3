package attendance

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
)

// Normalized statuses.
const (
	Present = "present"
	Absent  = "absent"
	Late    = "late"
)

const (
	minAttendanceScore = 0.4
	attendanceThresh   = 0.7
	datesThresh        = 0.65
	numericThresh      = 0.7
	idLettersThresh    = 0.3
)

var (
	ErrNoAttendanceColumn = errors.New("could not confidently identify the attendance column; values should resemble present/absent/late")
	ErrNoStudentColumn    = errors.New("could not determine a student name column")

	trailingPunctRegex = regexp.MustCompile(`[.,;:!?]+$`)
	dateLikeRegex      = regexp.MustCompile(`^\d{1,4}[-/]\d{1,2}[-/]\d{1,4}$`)
	digitsRegex        = regexp.MustCompile(`^[0-9]+$`)
	letterRegex        = regexp.MustCompile(`[A-Za-z]`)

	statusSynonyms = map[string]string{
		"present": Present, "p": Present, "here": Present,
		"absent": Absent, "a": Absent, "unexcused absence": Absent, "excused absence": Absent,
		"late": Late, "l": Late, "tardy": Late, "late arrival": Late, "late check-in": Late,
	}

	// dateLayouts are tried in order on values that do not look like d/m/y.
	dateLayouts = []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"1/2/2006 15:04",
		"1/2/2006 3:04 PM",
		"1/2/2006 3:04:05 PM",
		"Jan 2, 2006",
		"January 2, 2006",
		"Jan 2 2006",
		"2 Jan 2006",
		"Mon, Jan 2, 2006",
		"Monday, January 2, 2006",
		"2006-01-02T15:04:05",
	}
)

// NormalizeStatus lowers a raw status, drops trailing punctuation and folds the known
// synonyms into Present, Absent or Late. Unknown values are returned lowered.
func NormalizeStatus(v string) string {
	s := strings.ToLower(strings.TrimSpace(v))
	s = trailingPunctRegex.ReplaceAllString(s, "")
	if status, ok := statusSynonyms[s]; ok {
		return status
	}
	return strings.TrimSpace(s)
}

func isStatus(s string) bool {
	return s == Present || s == Absent || s == Late
}

// attendanceShare is the share of all values, empty ones included, that are a known status.
func attendanceShare(values []string) float64 {
	if len(values) == 0 {
		return 0
	}
	n := 0
	for _, v := range values {
		if isStatus(NormalizeStatus(v)) {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// share is the fraction of the non-empty values accepted by match.
func share(values []string, match func(string) bool) float64 {
	vs := nonEmpty(values)
	if len(vs) == 0 {
		return 0
	}
	n := 0
	for _, v := range vs {
		if match(v) {
			n++
		}
	}
	return float64(n) / float64(len(vs))
}

func parsesAsDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// IsMostlyDates reports whether at least 65% of the non-empty values are dates.
func IsMostlyDates(values []string) bool {
	if len(nonEmpty(values)) == 0 {
		return false
	}
	if share(values, dateLikeRegex.MatchString) >= datesThresh {
		return true
	}
	return share(values, func(s string) bool {
		return dateLikeRegex.MatchString(s) || parsesAsDate(s)
	}) >= datesThresh
}

// LooksLikeAttendance reports whether at least 70% of the values are a known status.
func LooksLikeAttendance(values []string) bool {
	return attendanceShare(values) >= attendanceThresh
}

// IsMostlyNumeric reports whether at least 70% of the non-empty values are digits only.
func IsMostlyNumeric(values []string) bool {
	return share(values, digitsRegex.MatchString) >= numericThresh
}

// LetterShare is the fraction of the non-empty values containing an ASCII letter.
func LetterShare(values []string) float64 {
	return share(values, letterRegex.MatchString)
}

// FindAttendanceColumn returns the column with the largest share of known statuses.
func FindAttendanceColumn(t *Table) (int, error) {
	best, bestScore := -1, -1.0
	if len(t.Rows) == 0 {
		return best, ErrNoAttendanceColumn
	}
	for i := range t.Header {
		if score := attendanceShare(t.Column(i)); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 || bestScore < minAttendanceScore {
		return -1, ErrNoAttendanceColumn
	}
	return best, nil
}

// NameScore rates how much a column looks like student names: mostly letters, not mostly
// digits, and about a quarter of distinct values since names repeat across sessions.
func NameScore(values []string) float64 {
	vs := nonEmpty(values)
	if len(vs) == 0 {
		return 0
	}
	nonNumeric := 1.0
	if IsMostlyNumeric(vs) {
		nonNumeric = 0
	}
	distinct := make(map[string]bool, len(vs))
	for _, v := range vs {
		distinct[v] = true
	}
	card := 1 - math.Abs(float64(len(distinct))/float64(len(vs))-0.25)
	card = math.Max(0, math.Min(1, card))
	return 0.5*LetterShare(vs) + 0.3*nonNumeric + 0.2*card
}

// ChooseStudentColumn prefers a Student Name (or Student, Name) header, then a Student ID
// column holding names, then the most name-like remaining column. Date-like and
// attendance-like columns are never chosen.
func ChooseStudentColumn(t *Table, attendanceCol int) (int, error) {
	byHeader := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		byHeader[core.CleanString(h, true)] = i
	}
	usable := func(i int) bool {
		col := t.Column(i)
		return !IsMostlyDates(col) && !LooksLikeAttendance(col)
	}

	for _, alias := range []string{"student name", "student", "name"} {
		if i, ok := byHeader[alias]; ok && usable(i) {
			return i, nil
		}
	}
	if i, ok := byHeader["student id"]; ok && LetterShare(t.Column(i)) >= idLettersThresh && usable(i) {
		return i, nil
	}

	best, bestScore := -1, -1.0
	for i := range t.Header {
		if i == attendanceCol || !usable(i) {
			continue
		}
		col := t.Column(i)
		if len(nonEmpty(col)) == 0 {
			continue
		}
		if score := NameScore(col); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return -1, ErrNoStudentColumn
	}
	return best, nil
}
