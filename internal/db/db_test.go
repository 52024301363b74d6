package db_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	dbpkg "github.com/garnizeh/folio/internal/db"
)

func memDSN(t *testing.T) string {
	return "file:" + t.Name() + "?mode=memory&cache=shared"
}

func TestNew_Close_GetConn(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	d, err := dbpkg.New(ctx, dbpkg.DialectSQLite, memDSN(t), nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if d.GetConn() == nil {
		t.Fatalf("expected non-nil sql.DB from GetConn")
	}
	if d.Dialect() != dbpkg.DialectSQLite {
		t.Fatalf("unexpected dialect %q", d.Dialect())
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestExec_Query(t *testing.T) {
	ctx := context.Background()
	d, err := dbpkg.New(ctx, dbpkg.DialectSQLite, memDSN(t), nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer d.Close()

	if _, err := d.Exec(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	for _, n := range []string{"foo", "bar"} {
		if _, err := d.Exec(ctx, `INSERT INTO items (name) VALUES (?)`, n); err != nil {
			t.Fatalf("insert %s: %v", n, err)
		}
	}

	var name string
	if err := d.QueryRow(ctx, `SELECT name FROM items WHERE id = ?`, 1).Scan(&name); err != nil {
		t.Fatalf("QueryRow scan: %v", err)
	}
	if name != "foo" {
		t.Fatalf("expected name 'foo' got %q", name)
	}

	rows, err := d.Query(ctx, `SELECT name FROM items ORDER BY id`)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	defer rows.Close()
	var got []string
	for rows.Next() {
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, name)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(got) != 2 || got[1] != "bar" {
		t.Fatalf("unexpected rows %v", got)
	}
}

func TestSQLiteBusyTimeout(t *testing.T) {
	ctx := context.Background()
	d, err := dbpkg.New(ctx, dbpkg.DialectSQLite, filepath.Join(t.TempDir(), "busy.db"), nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer d.Close()

	var timeout int
	if err := d.QueryRow(ctx, `PRAGMA busy_timeout`).Scan(&timeout); err != nil {
		t.Fatalf("read busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Fatalf("expected busy_timeout 5000, got %d", timeout)
	}
}

func TestSQLiteConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	d, err := dbpkg.New(ctx, dbpkg.DialectSQLite, filepath.Join(t.TempDir(), "writers.db"), nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer d.Close()
	if _, err := d.Exec(ctx, `CREATE TABLE t (k TEXT PRIMARY KEY)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	const writers, rows = 6, 20
	errs := make(chan error, writers*rows)
	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				var seen int
				if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM t`).Scan(&seen); err != nil {
					errs <- err
					return
				}
				if _, err := d.Exec(ctx, `INSERT INTO t (k) VALUES (?)`, fmt.Sprintf("%d-%d", w, i)); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent write failed: %v", err)
	}

	var n int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM t`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != writers*rows {
		t.Fatalf("expected %d rows, got %d", writers*rows, n)
	}
}

func TestNew_UnknownDialect(t *testing.T) {
	if _, err := dbpkg.New(context.Background(), "oracle", "x", nil); err == nil {
		t.Fatalf("expected error for unknown dialect")
	}
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    dbpkg.Dialect
		wantErr bool
	}{
		{"sqlite", dbpkg.DialectSQLite, false},
		{"SQLite3", dbpkg.DialectSQLite, false},
		{"postgres", dbpkg.DialectPostgres, false},
		{"postgresql", dbpkg.DialectPostgres, false},
		{"mysql", "", true},
	}
	for _, tc := range tests {
		got, err := dbpkg.ParseDialect(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseDialect(%q) err = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseDialect(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect dbpkg.Dialect
		in      string
		want    string
	}{
		{"sqlite untouched", dbpkg.DialectSQLite, `SELECT * FROM t WHERE a = ? AND b = ?`, `SELECT * FROM t WHERE a = ? AND b = ?`},
		{"postgres numbered", dbpkg.DialectPostgres, `SELECT * FROM t WHERE a = ? AND b = ?`, `SELECT * FROM t WHERE a = $1 AND b = $2`},
		{"quoted literal kept", dbpkg.DialectPostgres, `SELECT '?' FROM t WHERE a = ?`, `SELECT '?' FROM t WHERE a = $1`},
		{"no placeholders", dbpkg.DialectPostgres, `SELECT 1`, `SELECT 1`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := dbpkg.Rebind(tc.dialect, tc.in); got != tc.want {
				t.Fatalf("Rebind = %q, want %q", got, tc.want)
			}
		})
	}
}
