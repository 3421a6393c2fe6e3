package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/reconcile"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/syllabus"
)

// rubrics replaces the rubrics of the graded deliverables, creating the assignments that do not
// exist yet. Existing assignments keep their due dates. Nothing is deleted besides the rubrics
// being replaced.
func (cli *commandLine) rubrics(args []string) error {
	fs := cli.newFlagSet("rubrics")
	cf := addCanvasFlags(fs)
	markdown := fs.String("markdown", "", "Path to the course syllabus markdown file. Prompted when missing.")
	webpage := fs.String("webpage", "", "The course website; relative deliverable links of created assignments are resolved against it.")
	timezone := fs.String("timezone", "", "Time zone of the due dates of created assignments, eg. America/New_York (default $TZ).")
	dueTime := fs.String("duetime", "", "Due times in UTC for standard|daylight time (default T045959Z|T035959Z).")
	create := fs.Bool("create", true, "Create the assignments that do not exist yet.")
	delay := fs.String("delay", "2s-6s", "Random pause MIN-MAX before each Canvas request (0 disables).")
	apply := fs.Bool("apply", false, "Send the changes to Canvas (default: dry run).")
	notify := fs.Bool("notify", false, "E-mail the action log to the configured recipients.")

	if _, err := parse(fs, args); err != nil {
		return err
	}

	times := syllabus.DefaultDueTimes
	if *dueTime != "" {
		t, err := syllabus.ParseDueTimes(*dueTime)
		if err != nil {
			return err
		}
		times = t
	}
	if *timezone != "" {
		cli.conf.Canvas.Timezone = *timezone
	}
	minDelay, maxDelay, err := parseDelay(*delay)
	if err != nil {
		return err
	}
	cli.conf.Canvas.MinDelay, cli.conf.Canvas.MaxDelay = minDelay, maxDelay
	if *markdown == "" && cli.interactive() {
		path, err := cli.prompt("Enter path to course syllabus markdown file: ")
		if err != nil {
			return err
		}
		*markdown = path
	}
	if *markdown == "" {
		fs.Usage()
		return errHelp
	}

	client, err := cli.canvasClient(cf)
	if err != nil {
		return err
	}
	loc, err := cli.conf.Location()
	if err != nil {
		return core.NewArgumentError(err.Error())
	}
	plan, err := syllabus.LoadPlan(*markdown)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if u, err := client.Self(ctx); err != nil {
		cli.logger.Warn("[main:get_user] could not check the API key", err)
	} else {
		fmt.Fprintf(cli.stdout, "Authenticated as %s (id=%d)\n", u.Name, u.ID)
	}

	journal, release, err := cli.journalFor()
	if err != nil {
		return err
	}
	defer release()

	opts := reconcile.RubricOptions{
		Options: reconcile.Options{
			Apply:   *apply,
			BaseURL: *webpage,
			RunID:   uuid.New().String(),
			Journal: journal,
			Logger:  cli.logger,
		},
		RubricDir: filepath.Dir(*markdown),
		Create:    *create,
		Times:     times,
		Location:  loc,
		End:       plan.End,
	}

	fmt.Fprintln(cli.stdout, "Syncing assignments and replacing rubrics (no deletions of assignments/modules/etc.)...")
	actions, err := reconcile.ReplaceRubrics(ctx, client, reconcile.RubricTargets(plan), opts)
	if err != nil {
		return errors.Wrap(err, "replacing rubrics")
	}

	cli.printActions(actions, *apply)
	if *notify {
		return cli.notify("rubrics "+*markdown, actions, *apply)
	}
	return nil
}

// parseDelay reads "2s-6s", a single duration (a fixed pause) or "0".
func parseDelay(s string) (lo, hi time.Duration, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	var d [2]time.Duration
	for i, p := range parts {
		if d[i], err = time.ParseDuration(strings.TrimSpace(p)); err != nil || d[i] < 0 {
			return 0, 0, core.NewArgumentError(fmt.Sprintf("delay must be of form MIN-MAX, eg. 2s-6s (got '%s')", s))
		}
	}
	if len(parts) == 1 {
		return d[0], d[0], nil
	}
	if d[1] < d[0] {
		return 0, 0, core.NewArgumentError(fmt.Sprintf("delay maximum is below its minimum (got '%s')", s))
	}
	return d[0], d[1], nil
}
