// Command db_restore replaces a sqlite database with the <dsn>.bak written by
// db_backup. Stop the server first.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/garnizeh/folio/internal/config"
	"github.com/garnizeh/folio/internal/db"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.Dialect != string(db.DialectSQLite) {
		fmt.Fprintf(os.Stderr, "Restore error: only sqlite databases are supported\n")
		os.Exit(1)
	}
	dst := cfg.Database.DSN
	src := dst + ".bak"

	srcFile, err := os.Open(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database restore completed.")
}
