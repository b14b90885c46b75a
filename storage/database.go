package storage

import (
	"database/sql"
	"encoding/json"
	"strings"
	"sync"

	"rost/models"

	_ "modernc.org/sqlite"
)

// DBStore persists documents as JSON bodies in sqlite, keyed by their full
// document ID of the form `<collection>/<partialId>`.
type DBStore struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewDBStore(dataSourceName string) (*DBStore, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	store := &DBStore{db: db}
	if err = store.initTables(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *DBStore) initTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			collection TEXT NOT NULL,
			partial_id TEXT NOT NULL,
			body TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_collection
			ON documents (collection, partial_id);`,
	}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return err
		}
	}
	return nil
}

func (s *DBStore) Close() {
	s.db.Close()
}

func (s *DBStore) Ping() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.Ping()
}

func (s *DBStore) Load(id string, out any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var body string
	err := s.db.QueryRow("SELECT body FROM documents WHERE id = ?", id).Scan(&body)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}

	return true, json.Unmarshal([]byte(body), out)
}

func (s *DBStore) Store(id string, document any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, partialID, ok := splitID(id)
	if !ok {
		collection = id
	}

	body, err := json.Marshal(document)
	if err != nil {
		return err
	}

	query := `INSERT INTO documents (id, collection, partial_id, body, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`
	_, err = s.db.Exec(query, id, collection, partialID, string(body))
	return err
}

func (s *DBStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM documents WHERE id = ?", id)
	return err
}

func (s *DBStore) LoadCollection(collection string, partialIDPrefix string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT partial_id, body FROM documents WHERE collection = ? AND partial_id LIKE ?",
		collection, partialIDPrefix+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	documents := make(map[string][]byte)
	for rows.Next() {
		var partialID, body string
		if err := rows.Scan(&partialID, &body); err != nil {
			return nil, err
		}
		documents[partialID] = []byte(body)
	}
	return documents, rows.Err()
}

func splitID(id string) (collection, partialID string, ok bool) {
	collection, partialID, ok = strings.Cut(id, models.IDSeparator)
	return collection, partialID, ok
}
