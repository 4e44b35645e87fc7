package main

import (
	"fmt"

	"github.com/rohits-web03/filekeep/internal/api/services"
	"github.com/rohits-web03/filekeep/internal/config"
	"github.com/rohits-web03/filekeep/internal/repositories"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// Opening the database migrates it.
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer repositories.Close(db)

			fmt.Fprintln(cmd.OutOrStdout(), "Database schema is up to date")
			return nil
		},
	}
}

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserCreateCommand())
	return cmd
}

func newUserCreateCommand() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user and print its access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer repositories.Close(db)

			user, err := services.ProvisionUser(cmd.Context(), repositories.NewUserStore(db), username, email, password)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:           %s\n", user.ID)
			fmt.Fprintf(out, "access token: %s\n", user.AccessToken)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (empty allows Google login only)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
