package store

import (
	"database/sql"
	"errors"
)

const tagColumns = "id, name, sync_id, created_at, updated_at, sync_status"

func scanTag(row interface{ Scan(...any) error }) (Tag, error) {
	var t Tag
	var syncID, createdAt, updatedAt sql.NullString
	err := row.Scan(&t.ID, &t.Name, &syncID, &createdAt, &updatedAt, &t.SyncStatus)
	if err != nil {
		return t, err
	}
	t.SyncID = strPtr(syncID)
	t.CreatedAt = strPtr(createdAt)
	t.UpdatedAt = strPtr(updatedAt)
	return t, nil
}

// CreateTag inserts a new local tag marked pending for the next push
func (s *Store) CreateTag(name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := Now()
	res, err := s.db.Exec(`
		INSERT INTO tags (name, created_at, updated_at, sync_status)
		VALUES (?, ?, ?, 'pending')
	`, name, now, now)
	if err != nil {
		return 0, &StoreError{Op: "CreateTag", Entity: "tag", Err: err}
	}
	return res.LastInsertId()
}

// GetAllTags returns every tag row, tombstones included
func (s *Store) GetAllTags() ([]Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT " + tagColumns + " FROM tags ORDER BY name")
	if err != nil {
		return nil, &StoreError{Op: "GetAllTags", Entity: "tag", Err: err}
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, &StoreError{Op: "GetAllTags", Entity: "tag", Err: err}
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// GetPendingTags returns tags that still need pushing
func (s *Store) GetPendingTags() ([]Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT " + tagColumns + " FROM tags WHERE sync_status != 'synced' OR sync_id IS NULL ORDER BY id")
	if err != nil {
		return nil, &StoreError{Op: "GetPendingTags", Entity: "tag", Err: err}
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, &StoreError{Op: "GetPendingTags", Entity: "tag", Err: err}
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// GetTagBySyncID returns the tag with the given remote id, or nil
func (s *Store) GetTagBySyncID(syncID string) (*Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow("SELECT "+tagColumns+" FROM tags WHERE sync_id = ?", syncID)
	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "GetTagBySyncID", Entity: "tag", Err: err}
	}
	return &t, nil
}

// GetTagByName returns the tag with the given name, or nil. Used during pull
// to adopt remote ids for tags that already exist locally under the same name.
func (s *Store) GetTagByName(name string) (*Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow("SELECT "+tagColumns+" FROM tags WHERE name = ?", name)
	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "GetTagByName", Entity: "tag", Err: err}
	}
	return &t, nil
}

// AssignTagSyncID stores the remote id on a local row
func (s *Store) AssignTagSyncID(id int64, syncID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE tags SET sync_id = ? WHERE id = ?", syncID, id)
	if err != nil {
		return &StoreError{Op: "AssignTagSyncID", Entity: "tag", Err: err}
	}
	return nil
}

// MarkTagSynced records that the row now matches the remote copy
func (s *Store) MarkTagSynced(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE tags SET sync_status = 'synced' WHERE id = ?", id)
	if err != nil {
		return &StoreError{Op: "MarkTagSynced", Entity: "tag", Err: err}
	}
	return nil
}

// MarkTagDeleted tombstones a tag so the next push removes it remotely
func (s *Store) MarkTagDeleted(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE tags SET sync_status = 'deleted', updated_at = ? WHERE id = ?", Now(), id)
	if err != nil {
		return &StoreError{Op: "MarkTagDeleted", Entity: "tag", Err: err}
	}
	return nil
}

// DeleteTag removes the row permanently
func (s *Store) DeleteTag(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		return &StoreError{Op: "DeleteTag", Entity: "tag", Err: err}
	}
	return nil
}

// InsertTagFromRemote upserts a remote tag keyed by sync id
func (s *Store) InsertTagFromRemote(t Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO tags (name, sync_id, created_at, updated_at, sync_status)
		VALUES (?, ?, ?, ?, 'synced')
		ON CONFLICT(sync_id) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at,
			sync_status = 'synced'
	`, t.Name, nullStr(t.SyncID), nullStr(t.CreatedAt), nullStr(t.UpdatedAt))
	if err != nil {
		return &StoreError{Op: "InsertTagFromRemote", Entity: "tag", Err: err}
	}
	return nil
}

// AdoptTagSyncID attaches a remote id to an existing local tag and marks it
// synced. This happens when a pull finds a remote tag whose name already
// exists locally.
func (s *Store) AdoptTagSyncID(id int64, syncID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE tags SET sync_id = ?, sync_status = 'synced' WHERE id = ?", syncID, id)
	if err != nil {
		return &StoreError{Op: "AdoptTagSyncID", Entity: "tag", Err: err}
	}
	return nil
}

// Task-tag links

const taskTagColumns = "task_id, tag_id, sync_id, created_at, sync_status"

func scanTaskTag(row interface{ Scan(...any) error }) (TaskTag, error) {
	var tt TaskTag
	var syncID, createdAt sql.NullString
	err := row.Scan(&tt.TaskID, &tt.TagID, &syncID, &createdAt, &tt.SyncStatus)
	if err != nil {
		return tt, err
	}
	tt.SyncID = strPtr(syncID)
	tt.CreatedAt = strPtr(createdAt)
	return tt, nil
}

// AddTaskTag links a task to a tag locally, pending push
func (s *Store) AddTaskTag(taskID, tagID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO task_tags (task_id, tag_id, created_at, sync_status)
		VALUES (?, ?, ?, 'pending')
		ON CONFLICT(task_id, tag_id) DO NOTHING
	`, taskID, tagID, Now())
	if err != nil {
		return &StoreError{Op: "AddTaskTag", Entity: "task_tag", Err: err}
	}
	return nil
}

// GetAllTaskTags returns every task-tag link
func (s *Store) GetAllTaskTags() ([]TaskTag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.queryTaskTags("SELECT " + taskTagColumns + " FROM task_tags ORDER BY task_id, tag_id")
}

// GetPendingTaskTags returns links that still need pushing
func (s *Store) GetPendingTaskTags() ([]TaskTag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.queryTaskTags("SELECT " + taskTagColumns + " FROM task_tags WHERE sync_status != 'synced' OR sync_id IS NULL ORDER BY task_id, tag_id")
}

func (s *Store) queryTaskTags(query string, args ...any) ([]TaskTag, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &StoreError{Op: "queryTaskTags", Entity: "task_tag", Err: err}
	}
	defer rows.Close()

	var links []TaskTag
	for rows.Next() {
		tt, err := scanTaskTag(rows)
		if err != nil {
			return nil, &StoreError{Op: "queryTaskTags", Entity: "task_tag", Err: err}
		}
		links = append(links, tt)
	}
	return links, rows.Err()
}

// GetTaskTagBySyncID returns the link with the given remote id, or nil
func (s *Store) GetTaskTagBySyncID(syncID string) (*TaskTag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow("SELECT "+taskTagColumns+" FROM task_tags WHERE sync_id = ?", syncID)
	tt, err := scanTaskTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "GetTaskTagBySyncID", Entity: "task_tag", Err: err}
	}
	return &tt, nil
}

// AssignTaskTagSyncID stores the remote id on a link row
func (s *Store) AssignTaskTagSyncID(taskID, tagID int64, syncID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE task_tags SET sync_id = ? WHERE task_id = ? AND tag_id = ?", syncID, taskID, tagID)
	if err != nil {
		return &StoreError{Op: "AssignTaskTagSyncID", Entity: "task_tag", Err: err}
	}
	return nil
}

// MarkTaskTagSynced records that the link now matches the remote copy
func (s *Store) MarkTaskTagSynced(taskID, tagID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE task_tags SET sync_status = 'synced' WHERE task_id = ? AND tag_id = ?", taskID, tagID)
	if err != nil {
		return &StoreError{Op: "MarkTaskTagSynced", Entity: "task_tag", Err: err}
	}
	return nil
}

// MarkTaskTagDeleted tombstones a link so the next push removes it remotely
func (s *Store) MarkTaskTagDeleted(taskID, tagID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE task_tags SET sync_status = 'deleted' WHERE task_id = ? AND tag_id = ?", taskID, tagID)
	if err != nil {
		return &StoreError{Op: "MarkTaskTagDeleted", Entity: "task_tag", Err: err}
	}
	return nil
}

// DeleteTaskTag removes the link permanently
func (s *Store) DeleteTaskTag(taskID, tagID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM task_tags WHERE task_id = ? AND tag_id = ?", taskID, tagID)
	if err != nil {
		return &StoreError{Op: "DeleteTaskTag", Entity: "task_tag", Err: err}
	}
	return nil
}

// InsertTaskTagFromRemote records a remote link between already-translated
// local rows, keyed by sync id
func (s *Store) InsertTaskTagFromRemote(taskID, tagID int64, syncID string, createdAt *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO task_tags (task_id, tag_id, sync_id, created_at, sync_status)
		VALUES (?, ?, ?, ?, 'synced')
		ON CONFLICT(task_id, tag_id) DO UPDATE SET
			sync_id = excluded.sync_id,
			sync_status = 'synced'
	`, taskID, tagID, syncID, nullStr(createdAt))
	if err != nil {
		return &StoreError{Op: "InsertTaskTagFromRemote", Entity: "task_tag", Err: err}
	}
	return nil
}
