package database

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/linkedup/app/internal/models"
)

var (
	// ErrNotFound is returned when a key has never been written.
	ErrNotFound = errors.New("key not found")
	// ErrVersionConflict is returned when a write presents a stale version,
	// i.e. another writer got in between the read and the write.
	ErrVersionConflict = errors.New("version conflict")
)

// casRetries bounds the read-modify-write retry loop in UpdateJSON. The
// store has no cross-key transactions; per-key CAS is the only discipline.
const casRetries = 5

// GetKey returns the raw JSON value and version stored under key.
func GetKey(db *sql.DB, key string) (string, int64, error) {
	var value string
	var version int64
	row := db.QueryRow("SELECT value, version FROM kv_store WHERE key = ?", key)
	err := row.Scan(&value, &version)
	if err == sql.ErrNoRows {
		return "", 0, ErrNotFound
	}
	if err != nil {
		return "", 0, err
	}
	return value, version, nil
}

// PutKey writes value under key. expectedVersion must be the version
// returned by the preceding read, or 0 when the key is expected to be new.
func PutKey(db *sql.DB, key, value string, expectedVersion int64) error {
	if expectedVersion == 0 {
		_, err := db.Exec("INSERT INTO kv_store(key, value) VALUES(?, ?)", key, value)
		if err != nil {
			// A concurrent insert of the same key trips the primary key.
			if _, _, getErr := GetKey(db, key); getErr == nil {
				return ErrVersionConflict
			}
			return err
		}
		return nil
	}

	res, err := db.Exec(
		"UPDATE kv_store SET value = ?, version = version + 1 WHERE key = ? AND version = ?",
		value, key, expectedVersion,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}

// DeleteKey removes a key. Deleting an absent key is not an error.
func DeleteKey(db *sql.DB, key string) error {
	_, err := db.Exec("DELETE FROM kv_store WHERE key = ?", key)
	return err
}

// KeysWithPrefix lists all keys starting with prefix, sorted.
func KeysWithPrefix(db *sql.DB, prefix string) ([]string, error) {
	rows, err := db.Query("SELECT key FROM kv_store WHERE key LIKE ? || '%' ORDER BY key", prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// GetJSON decodes the document under key into dst and returns its version.
// An absent key returns (0, ErrNotFound); undecodable JSON returns a
// *models.RecordError naming the key.
func GetJSON(db *sql.DB, key string, dst interface{}) (int64, error) {
	raw, version, err := GetKey(db, key)
	if err != nil {
		return 0, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return version, &models.RecordError{Key: key, Err: err}
	}
	return version, nil
}

// PutJSON encodes v and writes it under key at expectedVersion.
func PutJSON(db *sql.DB, key string, v interface{}, expectedVersion int64) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return PutKey(db, key, string(raw), expectedVersion)
}

// UpdateJSON runs a read-modify-write cycle on the document under key,
// retrying on version conflicts. The mutate callback receives the raw JSON
// ("" when the key is absent) and returns the replacement document.
func UpdateJSON(db *sql.DB, key string, mutate func(raw string) (string, error)) error {
	for attempt := 0; attempt < casRetries; attempt++ {
		raw, version, err := GetKey(db, key)
		if err != nil && err != ErrNotFound {
			return err
		}

		next, err := mutate(raw)
		if err != nil {
			return err
		}

		err = PutKey(db, key, next, version)
		if err == ErrVersionConflict {
			continue
		}
		return err
	}
	return ErrVersionConflict
}
