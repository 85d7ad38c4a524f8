package main

import (
	"github.com/trezcool/goose"

	appfs "github.com/trezcool/soma/fs"
)

var gooseRunFunc = goose.RunFS // mockable

// migrate drives goose over the embedded migration files.
// args[0] is the goose command (up, down, status, ...), the rest
// are passed through as-is.
func (cli *commandLine) migrate(args []string) error {
	var arguments []string
	if len(args) > 1 {
		arguments = args[1:]
	}
	return gooseRunFunc(args[0], cli.db.DB, appfs.FS, "migrations", arguments...)
}
