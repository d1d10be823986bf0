package ingest

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the watcher's processed-file ledger: content hash -> import
// outcome. It exists so restarting the watcher never re-imports a menu that
// was already digitized. Parsed records themselves are never persisted here;
// that remains the caller's concern.
type Store struct {
	conn *sql.DB
}

func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	s := &Store{conn: conn}
	if err := s.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS imports (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  path TEXT NOT NULL,
  hash TEXT NOT NULL UNIQUE,
  items INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL,
  importedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_imports_path ON imports(path);
`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// Seen reports whether a file with this content hash was already imported.
func (s *Store) Seen(hash string) (bool, error) {
	var one int
	err := s.conn.QueryRow(`SELECT 1 FROM imports WHERE hash = ?`, hash).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Record stores the outcome of one import attempt. Re-recording the same
// hash overwrites the previous outcome.
func (s *Store) Record(path, hash string, items int, status string) error {
	_, err := s.conn.Exec(`
INSERT INTO imports (path, hash, items, status, importedAt)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(hash) DO UPDATE SET path = excluded.path, items = excluded.items,
	status = excluded.status, importedAt = excluded.importedAt`,
		path, hash, items, status, time.Now().UTC().Format(time.RFC3339))
	return err
}
