package database

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// The whole application state is one flat namespace of string keys, each
// holding a JSON document. The version column is the optimistic-concurrency
// token: every successful write increments it, and writers must present the
// version they read.
const schema = `
CREATE TABLE IF NOT EXISTS kv_store (
	key     TEXT PRIMARY KEY,
	value   TEXT NOT NULL,
	version INTEGER NOT NULL DEFAULT 1
);
`

// InitDB opens the sqlite database at dataSourceName (":memory:" for tests)
// and ensures the schema exists.
func InitDB(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
