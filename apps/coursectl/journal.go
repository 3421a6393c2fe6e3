package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/storage/database"
)

func (cli *commandLine) journal(args []string) error {
	fs := cli.newFlagSet("journal")
	runID := fs.String("run", "", "Show the mutations of one run.")
	limit := fs.Int("limit", 20, "How many of the latest runs to list.")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if cli.openDB == nil {
		return database.ErrDisabled
	}

	store, release, err := cli.journalFor()
	if err != nil {
		return err
	}
	defer release()

	ctx := context.Background()
	tw := tabwriter.NewWriter(cli.stdout, 0, 4, 2, ' ', 0)
	if *runID == "" {
		runs, err := store.Runs(ctx, *limit)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "RUN\tCOURSE\tSTARTED\tFINISHED\tMUTATIONS")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", r.RunID, r.CourseID,
				r.StartedAt.Format(time.RFC3339), r.FinishedAt.Format(time.RFC3339), r.Mutations)
		}
		return tw.Flush()
	}

	entries, err := store.Entries(ctx, *runID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(cli.stdout, "No mutations journaled for run %s.\n", *runID)
		return nil
	}
	fmt.Fprintln(tw, "ID\tACTION\tRESOURCE\tREMOTE ID\tNAME\tRECORDED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n", e.ID, e.Action, e.Resource, e.RemoteID, e.Name,
			e.RecordedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}
