package storage

import (
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// SQLiteStore caches Scenarios as JSON blobs in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) a SQLite database at path
// and ensures the cache table exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite database")
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS scenarios (
			hash TEXT PRIMARY KEY,
			payload TEXT NOT NULL
		)
	`); err != nil {
		return nil, errors.Wrap(err, "creating scenarios table")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(hash string) (*Scenario, bool, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM scenarios WHERE hash = ?`, hash).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "querying scenario cache")
	}
	var scenario Scenario
	if err := json.Unmarshal([]byte(payload), &scenario); err != nil {
		return nil, false, errors.Wrap(err, "decoding cached scenario")
	}
	return &scenario, true, nil
}

func (s *SQLiteStore) Put(hash string, scenario *Scenario) error {
	payload, err := json.Marshal(scenario)
	if err != nil {
		return errors.Wrap(err, "encoding scenario")
	}
	_, err = s.db.Exec(`
		INSERT INTO scenarios (hash, payload) VALUES (?, ?)
		ON CONFLICT(hash) DO UPDATE SET payload = excluded.payload
	`, hash, string(payload))
	if err != nil {
		return errors.Wrap(err, "writing scenario cache")
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
