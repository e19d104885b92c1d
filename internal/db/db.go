package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	dbFile = ".rangepick/history.db"

	// DriverName is the database/sql driver used by Open and Initialize.
	DriverName = "sqlite"
)

// ErrNoHistory is returned by Open when no history database exists yet.
var ErrNoHistory = errors.New("no pick history yet")

// clock is replaced in tests to control timestamps.
var clock = time.Now

// DB wraps the history database connection
type DB struct {
	conn *sqlx.DB
	mu   sync.RWMutex
}

// Path returns the history database location under baseDir.
func Path(baseDir string) string {
	return filepath.Join(baseDir, dbFile)
}

// Open opens an existing history database
func Open(baseDir string) (*DB, error) {
	dbPath := Path(baseDir)

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, ErrNoHistory
	}

	return connect(DriverName, dbPath)
}

// Initialize creates the history database if needed and opens it
func Initialize(baseDir string) (*DB, error) {
	dbPath := Path(baseDir)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	return connect(DriverName, dbPath)
}

// connect opens the database at path with any registered sqlite driver.
func connect(driver, path string) (*DB, error) {
	conn, err := sqlx.Connect(driver, path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads while writes are serialized
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	// Slightly faster writes, still safe with WAL
	conn.Exec("PRAGMA synchronous=NORMAL")

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	conn.SetMaxOpenConns(1)
	return &DB{conn: conn}, nil
}

// Close closes the database
func (db *DB) Close() error {
	return db.conn.Close()
}
