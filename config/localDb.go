package config

import (
	"database/sql"
	"log"
	"os"

	_ "modernc.org/sqlite"
)

var (
	localDB *sql.DB
)

// GetLocalDB returns the embedded sqlite handle backing the local store
// (job cards, inventory items, shift handovers, rejection logs).
func GetLocalDB() *sql.DB {
	return localDB
}

// ConnectLocalStore opens (or creates) the embedded sqlite database used for
// locally-persisted entities. Unlike MySQL/Redis this is a local file, so a
// failure here is logged and the local store stays disabled rather than
// blocking startup.
func ConnectLocalStore() {
	path := os.Getenv("LOCAL_STORE_PATH")
	if path == "" {
		path = "mfgops_local.db"
	}

	handle, err := sql.Open("sqlite", path)
	if err != nil {
		log.Printf("failed to open local store (path=%s): %v; local entities disabled", path, err)
		return
	}
	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY between the entity stores.
	handle.SetMaxOpenConns(1)

	if _, err := handle.Exec(`CREATE TABLE IF NOT EXISTS local_kv (
		store_key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		log.Printf("failed to init local store schema (path=%s): %v; local entities disabled", path, err)
		_ = handle.Close()
		return
	}

	localDB = handle
	log.Printf("local store ready (path=%s)", path)
}
