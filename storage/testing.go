package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// NewTestDB opens a migrated in-memory database on the cgo sqlite3 driver.
// The returned func closes it.
func NewTestDB() (*Storage, func(), error) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, nil, fmt.Errorf("open test database: %w", err)
	}
	// each pooled connection would see its own empty :memory: database
	conn.SetMaxOpenConns(1)

	store, err := wrap(conn, ":memory:")
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}
