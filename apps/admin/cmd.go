package main

import (
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/soma/core/user"
)

var (
	errHelp = errors.New("help")

	readPasswordFunc = term.ReadPassword // mockable
)

type commandLine struct {
	db      *sqlx.DB
	usrRepo user.Repository
	usrSvc  *user.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println(" migrate <command> [args]  - Apply database migrations. Commands: up, up-by-one, down, redo, reset, status, version")
	fmt.Println(" addadmin -name NAME -email EMAIL [-school SCHOOL]  - Create an admin profile")
	fmt.Println(" help  - Print usage")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)

	addAdminCmd := flag.NewFlagSet("addadmin", flag.ExitOnError)
	addAdminName := addAdminCmd.String("name", "", "The admin's full name. Required.")
	addAdminEmail := addAdminCmd.String("email", "", "The admin's email address. Required.")
	addAdminSchool := addAdminCmd.String("school", "", "The school the admin belongs to.")

	switch args[1] {
	case "migrate":
		if err := migrateCmd.Parse(args[2:]); err != nil {
			return err
		}
	case "addadmin":
		if err := addAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
	default:
		cli.printUsage()
		return errHelp
	}

	if migrateCmd.Parsed() {
		cmdArgs := migrateCmd.Args()
		if len(cmdArgs) < 1 {
			migrateCmd.Usage()
			return errHelp
		}
		return cli.migrate(cmdArgs)
	}

	if addAdminCmd.Parsed() {
		if *addAdminName == "" || *addAdminEmail == "" {
			addAdminCmd.Usage()
			return errHelp
		}

		fmt.Print("Password: ")
		password, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return errors.Wrap(err, "reading password")
		}
		return cli.addAdmin(*addAdminName, *addAdminEmail, *addAdminSchool, string(password))
	}

	cli.printUsage()
	return errHelp
}
