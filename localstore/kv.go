// Package localstore persists the console's client-side entities (job cards,
// inventory items, shift handovers, rejection logs): one storage key per
// entity type holding a serialized sequence, whole-key overwrite on write,
// empty sequence on absent or unparseable content.
package localstore

import (
	"database/sql"
	"sync"
)

// KV is the raw key/value layer under the entity stores. sqlite in
// production, in-memory for tests.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key string, value string) error
}

type sqliteKV struct {
	db *sql.DB
}

func NewSqliteKV(db *sql.DB) KV {
	return &sqliteKV{db: db}
}

func (s *sqliteKV) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM local_kv WHERE store_key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *sqliteKV) Set(key string, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO local_kv (store_key, value) VALUES (?, ?) ON CONFLICT(store_key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

type memoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKV() KV {
	return &memoryKV{values: make(map[string]string)}
}

func (m *memoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryKV) Set(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
