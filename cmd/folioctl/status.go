package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/garnizeh/folio/internal/config"
	"github.com/garnizeh/folio/internal/probe"
	"github.com/garnizeh/folio/internal/storage"
)

//nolint:gochecknoglobals // Cobra boilerplate
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the configured backend and whether it accepts writes",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusReport struct {
	Backend     string        `json:"backend"`
	Environment string        `json:"environment"`
	ContentDir  string        `json:"contentDir,omitempty"`
	Dialect     string        `json:"dialect,omitempty"`
	Probe       *probe.Result `json:"probe,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	report := statusReport{Backend: cfg.Storage.Backend, Environment: cfg.Env}
	switch cfg.Storage.Backend {
	case config.BackendFile:
		_, p := storage.OpenFiles(cfg, newLogger(cmd))
		r := p.Evaluate(cmd.Context())
		report.ContentDir = cfg.Storage.ContentDir
		report.Probe = &r
	case config.BackendDatabase:
		report.Dialect = cfg.Database.Dialect
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
