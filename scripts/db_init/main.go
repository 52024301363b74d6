// Command db_init migrates the configured database and seeds it from the checked-in
// content files. Records already in the database are overwritten.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/garnizeh/folio/internal/config"
	"github.com/garnizeh/folio/internal/repository/sqldb"
	"github.com/garnizeh/folio/internal/storage"
	"github.com/garnizeh/folio/internal/transfer"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	database, err := storage.OpenDatabase(ctx, cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	files, _ := storage.OpenFiles(cfg, nil)
	if _, err := transfer.Copy(ctx, files, sqldb.New(database, nil), transfer.Options{}); err != nil {
		fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database initialized successfully.")
}
