package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garnizeh/folio/internal/config"
	"github.com/garnizeh/folio/internal/repository/sqldb"
	"github.com/garnizeh/folio/internal/storage"
	"github.com/garnizeh/folio/internal/transfer"
	"github.com/garnizeh/folio/pkg/models"
	"github.com/garnizeh/folio/pkg/repository"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	transferKinds []string
	transferPrune bool
)

//nolint:gochecknoglobals // Cobra boilerplate
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy content from the generated files into the database",
	Long: `Copies every record from the content directory into the configured
database, creating missing records and overwriting existing ones.

Examples:
  # Import everything
  folioctl import

  # Import only skills and projects, removing database rows not in the files
  folioctl import --kind skills --kind projects --prune`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error { return runTransfer(cmd, true) },
}

//nolint:gochecknoglobals // Cobra boilerplate
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Regenerate the content files from the database",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, _ []string) error { return runTransfer(cmd, false) },
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	for _, c := range []*cobra.Command{importCmd, exportCmd} {
		c.Flags().StringSliceVar(&transferKinds, "kind", nil, "content kind to copy (repeatable; default all)")
		c.Flags().BoolVar(&transferPrune, "prune", false, "delete destination records missing from the source")
		rootCmd.AddCommand(c)
	}
}

func runTransfer(cmd *cobra.Command, toDatabase bool) error {
	ctx := cmd.Context()
	logger := newLogger(cmd)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	kinds, err := parseKinds(transferKinds)
	if err != nil {
		return err
	}

	// the operator asked for this write, so the platform probe is bypassed
	cfg.Storage.AllowFileWrites = true
	files, _ := storage.OpenFiles(cfg, logger)

	d, err := storage.OpenDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()
	database := sqldb.New(d, logger)

	var src, dst repository.ContentBackend = files, database
	if !toDatabase {
		src, dst = database, files
	}

	results, err := transfer.Copy(ctx, src, dst, transfer.Options{Kinds: kinds, Prune: transferPrune, Logger: logger})
	for _, k := range models.Kinds {
		if res, ok := results[k]; ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%-13s created=%d updated=%d deleted=%d\n", k, res.Created, res.Updated, res.Deleted)
		}
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "copied %s -> %s (%s)\n", src.Name(), dst.Name(), describe(cfg, toDatabase))
	return nil
}

func parseKinds(names []string) ([]models.Kind, error) {
	kinds := make([]models.Kind, 0, len(names))
	for _, n := range names {
		k, err := models.ParseKind(n)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func describe(cfg *config.Config, toDatabase bool) string {
	if toDatabase {
		return cfg.Database.Dialect + " database"
	}
	return "content dir " + cfg.Storage.ContentDir
}
