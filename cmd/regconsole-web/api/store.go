package api

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store provides SQLite persistence for the exchange history.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new store with the given database path.
// Use ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	_, err = db.Exec(`PRAGMA journal_mode = WAL;`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		action TEXT NOT NULL,
		address TEXT NOT NULL,
		size INTEGER NOT NULL,
		data TEXT,
		error TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_session ON history(session_id);
	CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddEntry stores an entry. ID and CreatedAt are filled in when empty.
func (s *Store) AddEntry(entry *HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO history (id, session_id, action, address, size, data, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.SessionID, entry.Action, entry.Address, entry.Size,
		nullString(entry.Data), nullString(entry.Error), entry.CreatedAt)

	return err
}

// ListEntries retrieves entries, most recent first. An empty sessionID
// lists all sessions.
func (s *Store) ListEntries(sessionID string, limit, offset int) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(`
		SELECT id, session_id, action, address, size, data, error, created_at
		FROM history
		WHERE ? = '' OR session_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, sessionID, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		var data, errMsg sql.NullString

		if err := rows.Scan(
			&entry.ID, &entry.SessionID, &entry.Action, &entry.Address,
			&entry.Size, &data, &errMsg, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}

		if data.Valid {
			entry.Data = data.String
		}
		if errMsg.Valid {
			entry.Error = errMsg.String
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// CountEntries returns the total number of entries.
func (s *Store) CountEntries() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM history").Scan(&count)
	return count, err
}

// PruneBefore deletes entries older than t and returns how many were removed.
func (s *Store) PruneBefore(t time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM history WHERE created_at < ?", t)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
