// Package repodb maintains a small database of git repository URLs, keyed
// by project name. It backs the `treekeep repos` subcommand: URLs are
// collected from the remotes of local checkouts and can be listed or dumped
// to a flat file for re-cloning elsewhere.
package repodb

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/treekeep/internal/filelock"
)

//go:embed schema.sql
var schemaSQL string

// ErrEmptyDatabase is returned when a listing finds no entries.
var ErrEmptyDatabase = fmt.Errorf("no repositories in database")

// Repo is a single stored repository record.
type Repo struct {
	ID      string
	Name    string
	URL     string
	AddedAt time.Time
}

// Store manages the SQLite database of repository URLs.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the database at dbPath and ensures
// the schema exists. The parent directory is created for file-based
// databases; ":memory:" is supported for tests.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// busy_timeout first so later statements wait on locks instead of
	// failing immediately.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add stores a repository URL under the given project name. It returns
// false when the name is already present, in which case nothing is written.
func (s *Store) Add(name, url string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT COUNT(*) FROM repos WHERE name = ?", name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking for %s: %w", name, err)
	}
	if exists > 0 {
		return false, nil
	}

	_, err = s.db.Exec(
		"INSERT INTO repos (id, name, url) VALUES (?, ?, ?)",
		uuid.NewString(), name, url,
	)
	if err != nil {
		return false, fmt.Errorf("storing %s: %w", name, err)
	}
	return true, nil
}

// Projects returns all stored project names in ascending order.
func (s *Store) Projects() ([]string, error) {
	return s.column("SELECT name FROM repos ORDER BY name")
}

// URLs returns all stored URLs in ascending order.
func (s *Store) URLs() ([]string, error) {
	return s.column("SELECT url FROM repos ORDER BY url")
}

// column runs a single-column query and collects the values.
func (s *Store) column(query string) ([]string, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying repos: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return values, nil
}

// Dump writes all URLs, newline-joined, to the given path atomically,
// holding an advisory lock so concurrent dumps to the same file serialize.
func (s *Store) Dump(path string) error {
	urls, err := s.URLs()
	if err != nil {
		return err
	}
	data := strings.Join(urls, "\n")
	if len(urls) > 0 {
		data += "\n"
	}
	if err := filelock.LockAndWrite(path, []byte(data)); err != nil {
		return fmt.Errorf("dumping urls: %w", err)
	}
	return nil
}
