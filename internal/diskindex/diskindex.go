// Package diskindex is the SQLite-backed persistent symbol store: the
// same table set, WAL/pragma tuning, and "replace a file's data in one
// transaction" update contract across every language, built on
// database/sql and mattn/go-sqlite3.
package diskindex

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rocket-tycoon/rocketindex/internal/errs"
)

// DefaultDBName is the database filename within a project's .rocketindex/
// directory.
const DefaultDBName = "index.db"

// Index is the SQLite-backed disk index for symbol storage and querying.
type Index struct {
	db *sql.DB
}

// Open opens an existing database at path. Returns errs.IndexNotFound if
// the file does not exist.
func Open(path string) (*Index, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errs.IndexNotFound
		}
		return nil, fmt.Errorf("stat index: %w", err)
	}
	idx, err := connect(path)
	if err != nil {
		return nil, err
	}
	version, err := idx.GetSchemaVersion()
	if err != nil {
		idx.Close()
		return nil, err
	}
	if version > SchemaVersion {
		idx.Close()
		return nil, fmt.Errorf("%w: on-disk schema v%d, binary supports v%d", errs.SchemaMismatch, version, SchemaVersion)
	}
	if version < SchemaVersion {
		if err := idx.migrate(version); err != nil {
			idx.Close()
			return nil, err
		}
	}
	return idx, nil
}

// Create initializes a new database at path. Fails if a file already exists.
func Create(path string) (*Index, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("create index: %w: %s already exists", errs.Io, path)
	}
	idx, err := connect(path)
	if err != nil {
		return nil, err
	}
	if err := idx.initSchema(); err != nil {
		idx.Close()
		return nil, err
	}
	return idx, nil
}

// OpenOrCreate opens path if it exists, otherwise creates it (and any
// missing parent directories).
func OpenOrCreate(path string) (*Index, error) {
	if _, err := os.Stat(path); err == nil {
		return Open(path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}
	return Create(path)
}

// InMemory opens a throwaway in-memory database, for tests.
func InMemory() (*Index, error) {
	idx, err := connect(":memory:")
	if err != nil {
		return nil, err
	}
	if err := idx.initSchema(); err != nil {
		idx.Close()
		return nil, err
	}
	return idx, nil
}

func connect(path string) (*Index, error) {
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=30000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping index: %w", err)
	}
	if _, err := db.Exec("PRAGMA cache_size = -64000; PRAGMA mmap_size = 268435456; PRAGMA temp_store = MEMORY;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("tune index pragmas: %w", err)
	}
	return &Index{db: db}, nil
}

// Close closes the underlying connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// DB returns the underlying *sql.DB, for callers that need to run their own
// statements (tests, migration tooling).
func (idx *Index) DB() *sql.DB {
	return idx.db
}

func (idx *Index) initSchema() error {
	if _, err := idx.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return idx.SetMetadata("schema_version", fmt.Sprintf("%d", SchemaVersion))
}

// migrate applies any schema changes needed to bring a database from
// fromVersion up to SchemaVersion. Every step is additive: existing tables
// and rows are never rewritten.
func (idx *Index) migrate(fromVersion int) error {
	if fromVersion < 4 {
		if _, err := idx.db.Exec(`CREATE TABLE IF NOT EXISTS file_mtimes (
			path  TEXT PRIMARY KEY,
			mtime INTEGER NOT NULL
		);`); err != nil {
			return fmt.Errorf("migrate to v4: %w", err)
		}
	}
	return idx.SetMetadata("schema_version", fmt.Sprintf("%d", SchemaVersion))
}

// GetSchemaVersion returns the schema_version recorded in metadata, or 0 for
// a legacy/empty database.
func (idx *Index) GetSchemaVersion() (int, error) {
	value, err := idx.GetMetadata("schema_version")
	if err != nil {
		return 0, err
	}
	if value == "" {
		return 0, nil
	}
	var version int
	if _, err := fmt.Sscanf(value, "%d", &version); err != nil {
		return 0, fmt.Errorf("%w: invalid schema_version %q", errs.Io, value)
	}
	return version, nil
}

// SetMetadata upserts a metadata key/value pair.
func (idx *Index) SetMetadata(key, value string) error {
	_, err := idx.db.Exec("INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		return fmt.Errorf("set metadata %s: %w", key, err)
	}
	return nil
}

// GetMetadata reads a metadata value, returning "" if key is unset.
func (idx *Index) GetMetadata(key string) (string, error) {
	var value string
	err := idx.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get metadata %s: %w", key, err)
	}
	return value, nil
}
