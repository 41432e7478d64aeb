// Package db opens the SQLite database shared by the medicine store and
// the alert history.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mavwarf/medtime/internal/paths"

	_ "modernc.org/sqlite"
)

// pragmas are applied by the driver to every pooled connection, so each
// writer waits on busy_timeout instead of failing with SQLITE_BUSY.
var pragmas = []string{
	"journal_mode(WAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// Open opens (or creates) the SQLite database at path with the connection
// PRAGMAs set. Tables are created by the stores that own them.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), paths.DirPerm); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite open %s: %w", path, err)
	}
	return db, nil
}

func dsn(path string) string {
	q := make([]string, len(pragmas))
	for i, p := range pragmas {
		q[i] = "_pragma=" + p
	}
	return path + "?" + strings.Join(q, "&")
}
