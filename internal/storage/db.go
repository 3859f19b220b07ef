// Package storage keeps a SQLite journal of simulator sessions: every
// committed turn and every finished sequence. It is a read-only history;
// puzzle state is never restored from it.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/log"
	_ "modernc.org/sqlite"

	"github.com/SeamusWaldron/cubesim/internal/config"
)

// dbFile is the journal file name inside the cubesim directory.
const dbFile = "cubesim.db"

// pragmas are applied once after the connection opens.
var pragmas = []string{
	"foreign_keys = ON",
	"journal_mode = WAL",
	"busy_timeout = 5000",
}

// DB is an open journal. The embedded *sql.DB serves the repositories.
type DB struct {
	*sql.DB
	path string
}

// DefaultDBPath returns ~/.cubesim/cubesim.db.
func DefaultDBPath() (string, error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbFile), nil
}

// Open opens the journal at path, creating the file and its directory when
// missing, and migrates it to the newest schema.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", filepath.Dir(path), err)
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	// SQLite allows one writer; the journal never needs more.
	conn.SetMaxOpenConns(1)

	db := &DB{DB: conn, path: path}
	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// OpenDefault opens the journal at DefaultDBPath.
func OpenDefault() (*DB, error) {
	path, err := DefaultDBPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

func (db *DB) init() error {
	for _, p := range pragmas {
		if _, err := db.Exec("PRAGMA " + p); err != nil {
			return fmt.Errorf("storage: pragma %s: %w", p, err)
		}
	}
	return db.MigrateUp()
}

// Path returns the file the journal lives in.
func (db *DB) Path() string {
	return db.path
}

// MigrateUp runs every embedded migration newer than CurrentVersion, each
// in its own transaction. An up-to-date journal is left untouched.
func (db *DB) MigrateUp() error {
	have, err := db.CurrentVersion()
	if err != nil {
		return err
	}
	all, err := loadMigrations()
	if err != nil {
		return err
	}
	for _, m := range all {
		if m.version <= have {
			continue
		}
		err := db.Transaction(func(tx *sql.Tx) error {
			_, err := tx.Exec(m.sql)
			return err
		})
		if err != nil {
			return fmt.Errorf("storage: migration %s: %w", m.name, err)
		}
		log.Infof("storage: %s migrated to version %d", filepath.Base(db.path), m.version)
	}
	return nil
}

// CurrentVersion returns the newest applied migration, or 0 for a journal
// that has none.
func (db *DB) CurrentVersion() (int, error) {
	var table string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'`).Scan(&table)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("storage: schema lookup: %w", err)
	}

	var v int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("storage: schema version: %w", err)
	}
	return v, nil
}

// Transaction runs fn in a transaction. It commits when fn returns nil and
// rolls back otherwise.
func (db *DB) Transaction(fn func(*sql.Tx) error) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("storage: begin: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("storage: rollback: %w", rbErr))
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit: %w", err)
	}
	return nil
}
