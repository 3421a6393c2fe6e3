// Command coursectl keeps a Canvas course in line with its syllabus and converts course files.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/rollbar/rollbar-go"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	logsvc "github.com/BillJr99/Ursinus-Boilerplate-Code/services/logger"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(logsvc.New("COURSECTL : "), conf)

	cli := commandLine{
		conf:       conf,
		logger:     logger,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		stdin:      bufio.NewReader(os.Stdin),
		openDB:     openDatabase(conf),
		newJournal: newDatabaseJournal,
		mailer:     newMailer(conf),
	}
	err := cli.run(os.Args)
	code := exitCode(err, os.Args, os.Stderr)
	if code == 1 {
		logger.Error("coursectl failed", err, map[string]interface{}{"args": os.Args[1:]})
	}
	rollbar.Wait()
	os.Exit(code)
}

// exitCode prints err tagged with the subcommand and maps it to the process status:
// 0 on success, 2 for usage and argument errors, 1 otherwise.
func exitCode(err error, args []string, w io.Writer) int {
	if err == nil {
		return 0
	}
	if err == errHelp {
		return 2
	}
	tag := "coursectl"
	if len(args) > 1 {
		tag = args[1]
	}
	if core.IsArgumentError(err) {
		fmt.Fprintf(w, "[%s] %v\n", tag, err)
		return 2
	}
	fmt.Fprintf(w, "[%s] %+v\n", tag, err)
	return 1
}
