package main

import "github.com/BillJr99/Ursinus-Boilerplate-Code/storage/database"

func (cli *commandLine) migrate(args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}
	if cli.openDB == nil {
		return database.ErrDisabled
	}
	db, err := cli.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], db, arguments...)
}
