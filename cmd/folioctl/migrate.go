package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garnizeh/folio/internal/storage"
)

//nolint:gochecknoglobals // Cobra boilerplate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	d, err := storage.OpenDatabase(cmd.Context(), cfg, newLogger(cmd))
	if err != nil {
		return err
	}
	defer d.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", d.Dialect())
	return nil
}
