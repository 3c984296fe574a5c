// Package store provides the local SQLite persistence layer. All reads and
// writes go through a single Store whose methods serialize access with one
// lock, so callers never hold the lock across network calls.
package store

import (
	"database/sql"
	"sync"
	"time"
)

// Store wraps the database with the access lock shared by the whole process
type Store struct {
	mu sync.Mutex
	db *Database
}

// Open opens (or creates) the local database at path and returns a Store.
// An empty path selects the default XDG location.
func Open(path string) (*Store, error) {
	db, err := InitDatabase(path)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Path returns the filesystem path to the database file
func (s *Store) Path() string {
	return s.db.Path()
}

// Stats returns basic database statistics
func (s *Store) Stats() (DatabaseStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.GetStats()
}

// Now returns the current UTC time formatted for storage
func Now() string {
	return time.Now().UTC().Format(TimeLayout)
}

// nullStr converts an optional string for use as a query parameter
func nullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// strPtr converts a scanned nullable column back to an optional string
func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// nullInt converts an optional row id for use as a query parameter
func nullInt(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

// intPtr converts a scanned nullable column back to an optional row id
func intPtr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	i := ni.Int64
	return &i
}
