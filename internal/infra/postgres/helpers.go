package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// nullString converts a sql.NullString to a plain string.
func nullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullStringValue converts a string to a sql.NullString, treating
// empty as NULL.
func nullStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullTime converts a sql.NullTime to a *time.Time.
func nullTime(nt sql.NullTime) *time.Time {
	if nt.Valid {
		t := nt.Time
		return &t
	}
	return nil
}

// nullTimeValue converts a *time.Time to a sql.NullTime.
func nullTimeValue(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullIntValue converts a *int to a sql.NullInt64.
func nullIntValue(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

// nullInt converts a sql.NullInt64 to a *int.
func nullInt(ni sql.NullInt64) *int {
	if ni.Valid {
		n := int(ni.Int64)
		return &n
	}
	return nil
}

// toJSONB marshals a value for a JSONB column.
func toJSONB(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb: %w", err)
	}
	return data, nil
}

// fromJSONB unmarshals a JSONB column into dst. NULL and empty
// payloads leave dst untouched.
func fromJSONB(data []byte, dst any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal jsonb: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a unique constraint
// violation.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
