// Command db_backup writes a consistent copy of a sqlite database next to it as
// <dsn>.bak. Postgres deployments should use pg_dump.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/garnizeh/folio/internal/config"
	"github.com/garnizeh/folio/internal/db"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.Dialect != string(db.DialectSQLite) {
		fmt.Fprintf(os.Stderr, "Backup error: only sqlite databases are supported, use pg_dump for %s\n", cfg.Database.Dialect)
		os.Exit(1)
	}
	dst := cfg.Database.DSN + ".bak"
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, db.DialectSQLite, cfg.Database.DSN, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	// VACUUM INTO takes a transactionally consistent snapshot
	if _, err := database.GetConn().ExecContext(ctx, `VACUUM INTO ?`, dst); err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database backup completed.")
}
