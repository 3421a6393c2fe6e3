package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/pages"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/syllabus"
)

// logf returns a printer of "[component] message" lines on stdout.
func (cli *commandLine) logf(component string) func(format string, args ...interface{}) {
	return func(format string, args ...interface{}) {
		fmt.Fprintf(cli.stdout, "["+component+"] "+format+"\n", args...)
	}
}

func readScheduleCSV(path string) ([]syllabus.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening schedule csv")
	}
	defer f.Close()
	return syllabus.ReadScheduleCSV(f)
}

func (cli *commandLine) csvToYAML(args []string) error {
	fs := cli.newFlagSet("csv2yaml")
	positional, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		fmt.Fprintln(cli.stdout, "Usage: csv2yaml <csv filename>")
		return errHelp
	}
	entries, err := readScheduleCSV(positional[0])
	if err != nil {
		return err
	}
	return syllabus.EncodeSchedule(cli.stdout, entries)
}

func (cli *commandLine) yamlToCSV(args []string) error {
	fs := cli.newFlagSet("yaml2csv")
	positional, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		fmt.Fprintln(cli.stdout, "Usage: yaml2csv <markdown filename>")
		return errHelp
	}
	doc, err := syllabus.Load(positional[0])
	if err != nil {
		return err
	}
	var entries []syllabus.Entry
	if err := doc.Decode("schedule", &entries); err != nil {
		return err
	}

	out := positional[0] + ".csv"
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "creating schedule csv")
	}
	if err := syllabus.WriteScheduleCSV(f, entries); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing schedule csv")
	}
	fmt.Fprintf(cli.stdout, "Wrote %d schedule rows to %s\n", len(entries), out)
	return nil
}

func (cli *commandLine) pages(args []string) error {
	fs := cli.newFlagSet("pages")
	dir := fs.String("dir", ".", "Where to write the page stubs.")
	positional, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(positional) < 3 {
		fmt.Fprintln(cli.stdout, "Usage: pages <csv filename> <course number> \"<course title>\"")
		return errHelp
	}
	entries, err := readScheduleCSV(positional[0])
	if err != nil {
		return err
	}
	stubs, err := pages.Generate(entries, pages.Course{Number: positional[1], Title: positional[2]})
	if err != nil {
		return err
	}
	if err := pages.Write(*dir, stubs); err != nil {
		return err
	}
	for _, s := range stubs {
		fmt.Fprintln(cli.stdout, "[add] "+s.Name)
	}
	return nil
}
