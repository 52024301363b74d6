// Package storage opens the content backend selected by configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	migrations "github.com/garnizeh/folio/db"
	"github.com/garnizeh/folio/internal/config"
	"github.com/garnizeh/folio/internal/db"
	"github.com/garnizeh/folio/internal/probe"
	"github.com/garnizeh/folio/internal/repository/file"
	"github.com/garnizeh/folio/internal/repository/sqldb"
	"github.com/garnizeh/folio/pkg/repository"
)

// Storage is an opened backend plus the pieces callers may need besides the
// ContentBackend itself. Files and Probe are set for the file backend, DB for
// the database backend.
type Storage struct {
	Backend repository.ContentBackend
	Files   *file.Backend
	Probe   *probe.Probe
	DB      *db.DB
}

// Open returns the backend named by cfg.Storage.Backend. The database backend
// is migrated before it is returned.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		files, p := OpenFiles(cfg, logger)
		return &Storage{Backend: files, Files: files, Probe: p}, nil
	case config.BackendDatabase:
		d, err := OpenDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &Storage{Backend: sqldb.New(d, logger), DB: d}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// OpenFiles builds the file backend over cfg.Storage.ContentDir with its
// writability probe.
func OpenFiles(cfg *config.Config, logger *slog.Logger) (*file.Backend, *probe.Probe) {
	p := probe.New(probe.Options{
		Dir:         cfg.Storage.ContentDir,
		Development: cfg.IsDevelopment(),
		AllowWrites: cfg.Storage.AllowFileWrites,
		Timeout:     cfg.Storage.ProbeTimeout,
		Logger:      logger,
	})
	return file.New(cfg.Storage.ContentDir, p, logger), p
}

// OpenDatabase connects to the configured database and applies migrations.
func OpenDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.DB, error) {
	dialect, err := db.ParseDialect(cfg.Database.Dialect)
	if err != nil {
		return nil, err
	}
	d, err := db.New(ctx, dialect, cfg.Database.DSN, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(ctx, d, migrations.Migrations); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return d, nil
}

func (s *Storage) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
