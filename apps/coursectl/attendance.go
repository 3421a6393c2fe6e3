package main

import (
	"os"

	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/attendance"
)

const (
	defaultAttendanceIn  = "attendance_reports_attendance.csv"
	defaultAttendanceOut = "attendance_summary_by_student.csv"
	previewRows          = 12
)

func (cli *commandLine) attendance(args []string) error {
	fs := cli.newFlagSet("attendance")
	in := fs.String("in", defaultAttendanceIn, "The attendance export (.csv or .xls).")
	out := fs.String("out", defaultAttendanceOut, "Where to write the per-student summary.")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	table, err := attendance.ReadFile(*in)
	if err != nil {
		return err
	}
	report, err := attendance.Aggregate(table)
	if err != nil {
		return err
	}
	printf := cli.logf("attendance_aggregate")
	printf("Student column chosen: '%s'", report.StudentColumn)
	printf("Attendance column chosen: '%s'", report.AttendanceColumn)

	f, err := os.Create(*out)
	if err != nil {
		return errors.Wrap(err, "creating summary file")
	}
	if err := attendance.WriteCSV(f, report.Rows); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing summary file")
	}
	printf("Saved per-student summary to: %s", *out)
	return attendance.WritePreview(cli.stdout, report.Rows, previewRows)
}
