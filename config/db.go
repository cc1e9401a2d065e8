package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// OpenDB opens the SQLite database at path and creates the schema.
// The pool is pinned to one connection: SQLite serialises writers anyway,
// and ":memory:" databases exist per connection.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func createTables(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}

	// seq keeps insertion order independent of the client-chosen id.
	productTable := `
		CREATE TABLE IF NOT EXISTS products (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id INTEGER NOT NULL UNIQUE CHECK(id >= 0),
		name TEXT NOT NULL,
		price REAL NOT NULL CHECK(price >= 0)
	);`
	if _, err = tx.Exec(productTable); err != nil {
		tx.Rollback()
		return fmt.Errorf("create products table: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
