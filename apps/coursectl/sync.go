package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/reconcile"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/syllabus"
)

func (cli *commandLine) sync(args []string) error {
	fs := cli.newFlagSet("sync")
	cf := addCanvasFlags(fs)
	apply := fs.Bool("apply", false, "Send the changes to Canvas (default: dry run).")
	baseURL := fs.String("base-url", "", "Prefix for relative syllabus links (eg. https://host/course).")
	skipModules := fs.Bool("skip-modules", false, "Only update due dates.")
	notify := fs.Bool("notify", false, "E-mail the action log to the configured recipients.")
	timezone := fs.String("timezone", "", "Time zone of the due dates (default $TZ).")

	positional, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		fs.Usage()
		return errHelp
	}
	if *timezone != "" {
		cli.conf.Canvas.Timezone = *timezone
	}

	client, err := cli.canvasClient(cf)
	if err != nil {
		return err
	}
	plan, err := syllabus.LoadPlan(positional[0])
	if err != nil {
		return err
	}
	loc, err := cli.conf.Location()
	if err != nil {
		return core.NewArgumentError(err.Error())
	}

	targets := reconcile.BuildDueMap(plan, syllabus.DefaultDueTimes, loc)
	printDueMap(cli, targets)

	journal, release, err := cli.journalFor()
	if err != nil {
		return err
	}
	defer release()

	ctx := context.Background()
	opts := reconcile.Options{
		Apply:   *apply,
		BaseURL: *baseURL,
		RunID:   uuid.New().String(),
		Journal: journal,
		Logger:  cli.logger,
	}

	var actions core.Actions
	dueActions, err := reconcile.ApplyDueDates(ctx, client, targets, opts)
	if err != nil {
		return errors.Wrap(err, "updating due dates")
	}
	actions.Append(dueActions)

	if !*skipModules {
		modActions, err := reconcile.RebuildModules(ctx, client, plan, opts)
		if err != nil {
			return errors.Wrap(err, "rebuilding modules")
		}
		actions.Append(modActions)
	}

	cli.printActions(actions, *apply)
	if *notify {
		return cli.notify("sync "+positional[0], actions, *apply)
	}
	return nil
}

func printDueMap(cli *commandLine, targets []reconcile.DueTarget) {
	fmt.Fprintln(cli.stdout, "Planned assignment due dates (normalized_name -> iso_due):")
	for _, t := range targets {
		fmt.Fprintf(cli.stdout, "  - %s -> %s\n", t.Key, t.ISO())
	}
	fmt.Fprintln(cli.stdout)
}

func (cli *commandLine) printActions(actions core.Actions, applied bool) {
	fmt.Fprintln(cli.stdout, "\nActions:")
	for _, a := range actions {
		fmt.Fprintln(cli.stdout, "  "+a.String())
	}
	fmt.Fprintln(cli.stdout, actions.Summary())
	if applied {
		fmt.Fprintln(cli.stdout, "\n[applied] Updates sent to Canvas.")
	} else {
		fmt.Fprintln(cli.stdout, "\n[dry-run] No changes were sent to Canvas. Re-run with --apply to commit updates.")
	}
}
