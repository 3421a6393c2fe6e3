package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/submission"
)

func (cli *commandLine) download(args []string) error {
	fs := cli.newFlagSet("download")
	cf := addCanvasFlags(fs)
	course := fs.String("course", "", "The Canvas course id (alias of -courseid).")
	assignment := fs.String("assignment", "", "The Canvas assignment id.")
	root := fs.String("root", "", "Where to create the assignment folder (default: working directory).")
	positional, err := parse(fs, args)
	if err != nil {
		return err
	}
	// download <course_id> <assignment_id> [api_key] is accepted too
	for i, p := range positional {
		switch i {
		case 0:
			*course = p
		case 1:
			*assignment = p
		case 2:
			*cf.token = p
		}
	}
	if *course != "" {
		*cf.courseID = *course
	}
	if *assignment == "" && cli.interactive() {
		id, err := cli.prompt("Enter Assignment ID: ")
		if err != nil {
			return err
		}
		*assignment = id
	}
	if *assignment == "" {
		fs.Usage()
		return errHelp
	}
	assignmentID, err := strconv.ParseInt(*assignment, 10, 64)
	if err != nil {
		return core.NewArgumentError(fmt.Sprintf("assignment id must be a number (got '%s')", *assignment))
	}

	client, err := cli.canvasClient(cf)
	if err != nil {
		return err
	}
	res, err := submission.Download(context.Background(), client, client.CourseID(), assignmentID, submission.Options{
		Root:   *root,
		Logger: cli.logger,
	})
	if err != nil {
		return err
	}
	if _, err := res.Actions.WriteTo(cli.stdout); err != nil {
		return err
	}
	fmt.Fprintf(cli.stdout, "Finished downloading submissions to '%s'.\n", res.Dir)
	return nil
}
