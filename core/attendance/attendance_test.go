package attendance

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const export = "\ufeffStudent  Name,Student ID,Class Date,Attendance\n" +
	"Ada Lovelace,1001,9/2/2025,Present\n" +
	"Alan Turing,1002,9/2/2025,absent.\n" +
	"Grace Hopper,1003,9/2/2025,Tardy\n" +
	"Ada Lovelace,1001,9/4/2025,P\n" +
	"Alan Turing,1002,9/4/2025,Late Arrival\n" +
	"Grace Hopper,1003,9/4/2025,\n" +
	"Ada Lovelace,1001,9/9/2025,Excused Absence!\n" +
	"Alan Turing,1002,9/9/2025,here\n" +
	"Grace Hopper,1003,9/9/2025,present\n" +
	"Edsger Dijkstra,1004,9/9/2025,unknown\n"

func readExport(t *testing.T, text string) *Table {
	t.Helper()
	tbl, err := ReadCSV(strings.NewReader(text))
	require.NoError(t, err)
	return tbl
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Present", Present}, {" p ", Present}, {"HERE", Present}, {"present.", Present},
		{"Absent", Absent}, {"a", Absent}, {"Unexcused Absence", Absent}, {"excused absence!", Absent},
		{"late", Late}, {"L", Late}, {"Tardy;", Late}, {"late arrival", Late}, {"Late Check-In", Late},
		{"Excused", "excused"}, {"", ""}, {"?!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStatus(tt.in))
		})
	}
}

func TestReadCSV(t *testing.T) {
	tbl := readExport(t, export)
	assert.Equal(t, []string{"Student Name", "Student ID", "Class Date", "Attendance"}, tbl.Header)
	require.Len(t, tbl.Rows, 10)
	assert.Equal(t, []string{"Grace Hopper", "1003", "9/4/2025", ""}, tbl.Rows[5])

	short := readExport(t, "a,b,c\n1\n1,2,3,4\n")
	assert.Equal(t, [][]string{{"1", "", ""}, {"1", "2", "3"}}, short.Rows)

	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance.csv")
	require.NoError(t, ioutil.WriteFile(path, []byte(export), 0o644))
	tbl, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 10)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestColumnHeuristics(t *testing.T) {
	assert.True(t, IsMostlyDates([]string{"9/2/2025", "2025-09-04", "", "x", "9/9/2025"}))
	assert.True(t, IsMostlyDates([]string{"Sep 2, 2025", "Sep 4, 2025", "2025-09-09 10:00:00"}))
	assert.False(t, IsMostlyDates([]string{"Ada", "9/2/2025"}))
	assert.False(t, IsMostlyDates(nil))

	assert.True(t, LooksLikeAttendance([]string{"p", "a", "late", "x"}))
	assert.False(t, LooksLikeAttendance([]string{"p", "a", "", ""}))

	assert.True(t, IsMostlyNumeric([]string{"1", "2", "3", "a"}))
	assert.False(t, IsMostlyNumeric([]string{"1", "a"}))
	assert.Equal(t, 0.5, LetterShare([]string{"a1", "12", ""}))
}

func TestFindAttendanceColumn(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr error
	}{
		{
			name: "mostly statuses",
			text: "Name,Status,Notes\nA,p,here\nB,absent,\nC,late,\nD,Tardy,\nE,x,\n",
			want: "Status",
		},
		{
			name: "status column even with blanks below 70%",
			text: "Name,Mark\nA,p\nB,\nC,a\nD,\n",
			want: "Mark",
		},
		{
			name:    "nothing resembles attendance",
			text:    "Name,Score\nA,10\nB,12\nC,p\n",
			wantErr: ErrNoAttendanceColumn,
		},
		{
			name:    "no rows",
			text:    "Name,Status\n",
			wantErr: ErrNoAttendanceColumn,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := readExport(t, tt.text)
			got, err := FindAttendanceColumn(tbl)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tbl.Header[got])
		})
	}
}

func TestChooseStudentColumn(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr error
	}{
		{
			name: "student name header",
			text: "Student Name,Attendance\nAda,p\nAlan,a\n",
			want: "Student Name",
		},
		{
			name: "name header holding dates falls back to a student id with names",
			text: "Name,Student ID,Attendance\n9/2/2025,Ada,p\n9/4/2025,Alan,a\n9/9/2025,Ada,p\n",
			want: "Student ID",
		},
		{
			name: "numeric student id is not a name",
			text: "Student ID,Who,Attendance\n1001,Ada,p\n1002,Alan,a\n1001,Ada,p\n1002,Alan,p\n",
			want: "Who",
		},
		{
			name: "heuristic skips dates and attendance",
			text: "Date,Section,Person,Mark\n9/2/2025,1,Ada L,p\n9/2/2025,1,Alan T,a\n9/4/2025,1,Ada L,late\n9/4/2025,1,Alan T,p\n",
			want: "Person",
		},
		{
			name:    "nothing usable",
			text:    "Date,Mark\n9/2/2025,p\n9/4/2025,a\n",
			wantErr: ErrNoStudentColumn,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := readExport(t, tt.text)
			att, err := FindAttendanceColumn(tbl)
			require.NoError(t, err)
			got, err := ChooseStudentColumn(tbl, att)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tbl.Header[got])
		})
	}
}

func TestAggregate(t *testing.T) {
	report, err := Aggregate(readExport(t, export))
	require.NoError(t, err)
	assert.Equal(t, "Student Name", report.StudentColumn)
	assert.Equal(t, "Attendance", report.AttendanceColumn)

	assert.Equal(t, []Summary{
		{Student: "Ada Lovelace", Present: 2, Absent: 1},
		{Student: "Alan Turing", Present: 1, Absent: 1, Late: 1},
		{Student: "Edsger Dijkstra"},
		{Student: "Grace Hopper", Present: 1, Late: 1},
	}, report.Rows)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, report.Rows))
	assert.Equal(t, "Student Name,present,absent,late,total_marked,attended,absent_equiv\n"+
		"Ada Lovelace,2,1,0,3,2,1.0\n"+
		"Alan Turing,1,1,1,3,2,1.5\n"+
		"Edsger Dijkstra,0,0,0,0,0,0.0\n"+
		"Grace Hopper,1,0,1,2,2,0.5\n", buf.String())

	buf.Reset()
	require.NoError(t, WritePreview(&buf, report.Rows, 2))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Ada Lovelace")
	assert.Contains(t, lines[2], "Alan Turing")
}
