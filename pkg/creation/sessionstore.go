package creation

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// SQLiteSessionStore persists the session as a single JSON row so an
// interrupted conversation survives a restart.
type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(path string) (*SQLiteSessionStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open session database")
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		state TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not initialize session schema")
	}

	return &SQLiteSessionStore{db: db}, nil
}

// Load returns the saved state, or nil when no session has been saved.
func (s *SQLiteSessionStore) Load() (*State, error) {
	var raw string
	err := s.db.QueryRow(`SELECT state FROM session WHERE id = 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not load session state")
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, errors.Wrap(err, "could not decode session state")
	}
	return &state, nil
}

func (s *SQLiteSessionStore) Save(state State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "could not encode session state")
	}

	_, err = s.db.Exec(`INSERT INTO session (id, state, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		string(raw), time.Now().UTC().Format(time.RFC3339))
	return errors.Wrap(err, "could not save session state")
}

func (s *SQLiteSessionStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM session`)
	return errors.Wrap(err, "could not clear session state")
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}
