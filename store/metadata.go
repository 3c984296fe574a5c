package store

import (
	"database/sql"
	"errors"
)

// Keys used in the sync_metadata table
const (
	MetaLastSyncedAt = "last_synced_at"
	MetaSyncEnabled  = "sync_enabled"
)

// GetMetadata returns the value stored under key, or nil when unset
func (s *Store) GetMetadata(key string) (*string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value string
	err := s.db.QueryRow("SELECT value FROM sync_metadata WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "GetMetadata", Err: err}
	}
	return &value, nil
}

// SetMetadata stores value under key, replacing any previous value
func (s *Store) SetMetadata(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO sync_metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return &StoreError{Op: "SetMetadata", Err: err}
	}
	return nil
}

// LastSyncedAt returns the timestamp of the last successful sync, or nil when
// no sync has completed yet
func (s *Store) LastSyncedAt() (*string, error) {
	return s.GetMetadata(MetaLastSyncedAt)
}

// SetLastSyncedAt records the completion time of a sync pass
func (s *Store) SetLastSyncedAt(ts string) error {
	return s.SetMetadata(MetaLastSyncedAt, ts)
}

// SyncEnabled reports whether the user has turned remote sync on
func (s *Store) SyncEnabled() (bool, error) {
	v, err := s.GetMetadata(MetaSyncEnabled)
	if err != nil {
		return false, err
	}
	return v != nil && *v == "true", nil
}

// SetSyncEnabled turns remote sync on or off
func (s *Store) SetSyncEnabled(enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return s.SetMetadata(MetaSyncEnabled, value)
}

// PendingCount returns how many rows across all synced tables still await a
// push. Tombstones count too.
func (s *Store) PendingCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	err := s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM tasks WHERE sync_status != 'synced') +
			(SELECT COUNT(*) FROM categories WHERE sync_status != 'synced') +
			(SELECT COUNT(*) FROM tags WHERE sync_status != 'synced') +
			(SELECT COUNT(*) FROM task_tags WHERE sync_status != 'synced')
	`).Scan(&count)
	if err != nil {
		return 0, &StoreError{Op: "PendingCount", Err: err}
	}
	return count, nil
}
