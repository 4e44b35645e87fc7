package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "main"
)

func main() {
	root := &cobra.Command{
		Use:           "filekeep",
		Short:         "Per-user file storage server",
		Long:          "filekeep stores files per user with public/private visibility, access tokens and soft delete.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       fmt.Sprintf("%s.%s", version, commit),
	}

	serve := newServeCommand()
	root.AddCommand(serve)
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newUserCommand())

	// Running the binary without a subcommand starts the server.
	root.RunE = serve.RunE

	if err := root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
