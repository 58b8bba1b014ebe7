package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/course"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/store"
)

func newImportCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "import <catalog.json>",
		Short: "Import or update courses from a JSON catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := store.NewSQLite(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			n, err := course.NewService(repo).ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d course(s) into %s\n", n, dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", envOr("DB_PATH", "./data/edunova.db"), "SQLite database path")
	return cmd
}
