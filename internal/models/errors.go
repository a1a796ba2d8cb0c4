package models

import (
	"fmt"
	"time"
)

// RecordError reports that the JSON persisted under a key did not decode
// into its record type. Callers distinguish this from "key absent" instead
// of silently treating corrupt data as an empty collection.
type RecordError struct {
	Key string
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("malformed record under %q: %v", e.Key, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// NowISO returns the current UTC time in the ISO-8601 form the original
// client wrote (Date.toISOString with millisecond precision).
func NowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
