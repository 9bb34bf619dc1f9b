package storage

import (
	"database/sql"
	"encoding/json"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// PostgresStore caches Scenarios as JSON blobs in a Postgres table, for
// deployments sharing one cache across multiple simulation workers.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects using connStr (a lib/pq connection string)
// and ensures the cache table exists.
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres connection")
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS scenarios (
			hash TEXT PRIMARY KEY,
			payload JSONB NOT NULL
		)
	`); err != nil {
		return nil, errors.Wrap(err, "creating scenarios table")
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(hash string) (*Scenario, bool, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM scenarios WHERE hash = $1`, hash).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "querying scenario cache")
	}
	var scenario Scenario
	if err := json.Unmarshal(payload, &scenario); err != nil {
		return nil, false, errors.Wrap(err, "decoding cached scenario")
	}
	return &scenario, true, nil
}

func (s *PostgresStore) Put(hash string, scenario *Scenario) error {
	payload, err := json.Marshal(scenario)
	if err != nil {
		return errors.Wrap(err, "encoding scenario")
	}
	_, err = s.db.Exec(`
		INSERT INTO scenarios (hash, payload) VALUES ($1, $2)
		ON CONFLICT (hash) DO UPDATE SET payload = excluded.payload
	`, hash, payload)
	if err != nil {
		return errors.Wrap(err, "writing scenario cache")
	}
	return nil
}

// Close releases the underlying database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
