// Command editor serves the schedule of a syllabus for editing over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/BillJr99/Ursinus-Boilerplate-Code/apps/editor/echo"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/syllabus"
	logsvc "github.com/BillJr99/Ursinus-Boilerplate-Code/services/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(logsvc.New("EDITOR : "), conf)
	logger.Enable(conf.RollbarToken != "" && !conf.Debug && !conf.TestMode)

	addr := flag.String("addr", conf.Editor.Address, "The address to listen on.")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage: editor [-addr host:port] <syllabus.md|schedule.yaml>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	doc, err := syllabus.Load(path)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading %s: %v", path, err), err)
	}
	server, err := echoapi.NewServer(&echoapi.Options{
		Address: *addr,
		Debug:   conf.Debug,
		Path:    path,
		Doc:     doc,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up the editor: %v", err), err)
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.Start()
	}()
	logger.Info(fmt.Sprintf("Editing %s on http://%s (version %q)", path, *addr, conf.Build))

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errs:
		if err != nil {
			logger.Fatal(fmt.Sprintf("server error: %v", err), err)
		}
	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}
