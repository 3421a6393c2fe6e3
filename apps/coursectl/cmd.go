package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/jmoiron/sqlx"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/services/canvas"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/storage/database"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/storage/database/sqlx"
)

var (
	readPasswordFunc = term.ReadPassword      // mockable
	isTerminalFunc   = term.IsTerminal        // mockable
	gooseRunFunc     = database.RunMigrations // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf   *core.Config
	logger core.Logger
	stdout io.Writer
	stderr io.Writer
	stdin  *bufio.Reader

	// openDB connects the journal database; nil when it is not configured.
	openDB     func() (*sql.DB, error)
	newJournal func(db *sql.DB) journalStore
	mailer     func() core.EmailService
}

// journalStore is the journal plus the run listing of the database repository.
type journalStore interface {
	core.Journal
	Runs(ctx context.Context, limit int) ([]sqlxrepos.RunSummary, error)
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.stdout, "Usage:")
	fmt.Fprintln(cli.stdout, "  sync <syllabus.md> [-apply] [-config f] [-base-url u] [-skip-modules] [-notify] - update due dates and rebuild modules")
	fmt.Fprintln(cli.stdout, "  rubrics -markdown <syllabus.md> [-apply] [-timezone tz] [-duetime ST|DST] [-notify] - sync due dates and replace rubrics")
	fmt.Fprintln(cli.stdout, "  attendance [-in file] [-out file] - summarize an attendance export per student")
	fmt.Fprintln(cli.stdout, "  csv2yaml <schedule.csv> - print the schedule spreadsheet as front matter")
	fmt.Fprintln(cli.stdout, "  yaml2csv <syllabus.md> - write the schedule of a syllabus to <syllabus.md>.csv")
	fmt.Fprintln(cli.stdout, "  pages <schedule.csv> <coursenum> \"<course title>\" - generate page stubs")
	fmt.Fprintln(cli.stdout, "  download -course ID -assignment ID - download the submissions of an assignment")
	fmt.Fprintln(cli.stdout, "  migrate <up|up-by-one|up-to|down|down-to|redo|reset|status|version|fix> - migrate the journal database")
	fmt.Fprintln(cli.stdout, "  journal [-run ID] - list journaled runs, or the mutations of one run")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "sync":
		return cli.sync(args[2:])
	case "rubrics":
		return cli.rubrics(args[2:])
	case "attendance":
		return cli.attendance(args[2:])
	case "csv2yaml":
		return cli.csvToYAML(args[2:])
	case "yaml2csv":
		return cli.yamlToCSV(args[2:])
	case "pages":
		return cli.pages(args[2:])
	case "download":
		return cli.download(args[2:])
	case "migrate":
		return cli.migrate(args[2:])
	case "journal":
		return cli.journal(args[2:])
	case "help", "-h", "-help", "--help":
		cli.printUsage()
		return errHelp
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.stderr)
	return fs
}

// parse parses flags placed before, between or after the positional arguments and returns the latter.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if err == flag.ErrHelp {
				return nil, errHelp
			}
			return nil, core.NewArgumentError(err.Error())
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// canvasFlags are shared by the subcommands talking to Canvas.
type canvasFlags struct {
	config   *string
	courseID *string
	token    *string
	userID   *string
}

func addCanvasFlags(fs *flag.FlagSet) canvasFlags {
	return canvasFlags{
		config:   fs.String("config", "", "Optional JSON file with CANVAS_API_URL, CANVAS_API_TOKEN, CANVAS_COURSE_ID and TZ."),
		courseID: fs.String("courseid", "", "The Canvas course id (default $CANVAS_COURSE_ID)."),
		token:    fs.String("apikey", "", "The Canvas API token (default $CANVAS_API_TOKEN). Prompted when missing."),
		userID:   fs.String("userid", "", "The Canvas user id to check the token against (default self)."),
	}
}

// canvasClient resolves the Canvas settings from the config file, the flags and, on a terminal,
// prompts, then builds the client.
func (cli *commandLine) canvasClient(f canvasFlags) (*canvas.Client, error) {
	if *f.config != "" {
		if err := cli.conf.MergeJSONFile(*f.config); err != nil {
			return nil, err
		}
	}
	c := &cli.conf.Canvas
	if *f.courseID != "" {
		c.CourseID = *f.courseID
	}
	if *f.token != "" {
		c.Token = *f.token
	}
	if *f.userID != "" {
		c.UserID = *f.userID
	}

	if c.CourseID == "" && cli.interactive() {
		id, err := cli.prompt("Enter Course ID: ")
		if err != nil {
			return nil, err
		}
		c.CourseID = id
	}
	if c.Token == "" && cli.interactive() {
		fmt.Fprintf(cli.stdout, "Enter API Key (get from %s/profile/settings): ", c.APIURL)
		tok, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.stdout)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "reading API key")
		}
		c.Token = strings.TrimSpace(string(tok))
	}

	validate, translator := core.NewValidator()
	if err := cli.conf.ValidateCanvas(validate); err != nil {
		return nil, core.NewArgumentError("missing Canvas configuration: " + core.TranslateErrors(err, translator).Error())
	}
	return canvas.NewClient(canvas.Options{
		BaseURL:  c.APIURL,
		Token:    c.Token,
		CourseID: c.CourseID,
		PerPage:  c.PerPage,
		MinDelay: c.MinDelay,
		MaxDelay: c.MaxDelay,
		Logger:   cli.logger,
	}), nil
}

func (cli *commandLine) interactive() bool {
	return isTerminalFunc(int(syscall.Stdin))
}

func (cli *commandLine) prompt(label string) (string, error) {
	fmt.Fprint(cli.stdout, label)
	line, err := cli.stdin.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", pkgerrors.Wrap(err, "reading answer")
	}
	return strings.TrimSpace(line), nil
}

// journalFor returns the journal of a run, and a func to release it.
func (cli *commandLine) journalFor() (journalStore, func(), error) {
	if cli.openDB == nil {
		return nopStore{}, func() {}, nil
	}
	db, err := cli.openDB()
	if err != nil {
		return nil, nil, err
	}
	return cli.newJournal(db), func() { _ = db.Close() }, nil
}

type nopStore struct{ core.NopJournal }

func (nopStore) Runs(context.Context, int) ([]sqlxrepos.RunSummary, error) { return nil, nil }

func openDatabase(conf *core.Config) func() (*sql.DB, error) {
	if !conf.Database.Enabled() {
		return nil
	}
	return func() (*sql.DB, error) {
		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		return db.DB, nil
	}
}

func newDatabaseJournal(db *sql.DB) journalStore {
	return sqlxrepos.NewJournalRepository(sqlx.NewDb(db, "postgres"))
}
