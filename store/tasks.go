package store

import (
	"database/sql"
	"errors"
)

const taskColumns = `id, category_id, text, done, display_order, memo, repeat_type, repeat_detail,
	next_due_at, last_completed_at, track_streak, reminder_at, linked_app,
	sync_id, created_at, updated_at, sync_status`

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var t Task
	var categoryID sql.NullInt64
	var memo, repeatDetail, nextDueAt, lastCompletedAt, reminderAt, linkedApp sql.NullString
	var syncID, createdAt, updatedAt sql.NullString
	err := row.Scan(
		&t.ID, &categoryID, &t.Text, &t.Done, &t.DisplayOrder, &memo, &t.RepeatType, &repeatDetail,
		&nextDueAt, &lastCompletedAt, &t.TrackStreak, &reminderAt, &linkedApp,
		&syncID, &createdAt, &updatedAt, &t.SyncStatus,
	)
	if err != nil {
		return t, err
	}
	t.CategoryID = intPtr(categoryID)
	t.Memo = strPtr(memo)
	t.RepeatDetail = strPtr(repeatDetail)
	t.NextDueAt = strPtr(nextDueAt)
	t.LastCompletedAt = strPtr(lastCompletedAt)
	t.ReminderAt = strPtr(reminderAt)
	t.LinkedApp = strPtr(linkedApp)
	t.SyncID = strPtr(syncID)
	t.CreatedAt = strPtr(createdAt)
	t.UpdatedAt = strPtr(updatedAt)
	return t, nil
}

// CreateTask inserts a new local task marked pending for the next push
func (s *Store) CreateTask(text string, categoryID *int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := Now()
	res, err := s.db.Exec(`
		INSERT INTO tasks (category_id, text, display_order, created_at, updated_at, sync_status)
		VALUES (?, ?, (SELECT COALESCE(MAX(display_order), 0) + 1 FROM tasks), ?, ?, 'pending')
	`, nullInt(categoryID), text, now, now)
	if err != nil {
		return 0, &StoreError{Op: "CreateTask", Entity: "task", Err: err}
	}
	return res.LastInsertId()
}

// GetTask returns a single task by local id
func (s *Store) GetTask(id int64) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "GetTask", Entity: "task", Err: err}
	}
	return &t, nil
}

// GetAllTasks returns every task row, tombstones included
func (s *Store) GetAllTasks() ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.queryTasks("SELECT " + taskColumns + " FROM tasks ORDER BY display_order, id")
}

// GetPendingTasks returns tasks that still need pushing
func (s *Store) GetPendingTasks() ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.queryTasks("SELECT " + taskColumns + " FROM tasks WHERE sync_status != 'synced' OR sync_id IS NULL ORDER BY id")
}

func (s *Store) queryTasks(query string, args ...any) ([]Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &StoreError{Op: "queryTasks", Entity: "task", Err: err}
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, &StoreError{Op: "queryTasks", Entity: "task", Err: err}
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTaskBySyncID returns the task with the given remote id, or nil
func (s *Store) GetTaskBySyncID(syncID string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE sync_id = ?", syncID)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "GetTaskBySyncID", Entity: "task", Err: err}
	}
	return &t, nil
}

// UpdateTaskText edits a task locally, flagging it for the next push
func (s *Store) UpdateTaskText(id int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE tasks SET text = ?, updated_at = ?, sync_status = 'pending' WHERE id = ?", text, Now(), id)
	if err != nil {
		return &StoreError{Op: "UpdateTaskText", Entity: "task", Err: err}
	}
	return nil
}

// SetTaskDone toggles completion locally, flagging the task for the next push
func (s *Store) SetTaskDone(id int64, done bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE tasks SET done = ?, updated_at = ?, sync_status = 'pending' WHERE id = ?", done, Now(), id)
	if err != nil {
		return &StoreError{Op: "SetTaskDone", Entity: "task", Err: err}
	}
	return nil
}

// AssignTaskSyncID stores the remote id on a local row without changing
// its sync status
func (s *Store) AssignTaskSyncID(id int64, syncID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE tasks SET sync_id = ? WHERE id = ?", syncID, id)
	if err != nil {
		return &StoreError{Op: "AssignTaskSyncID", Entity: "task", Err: err}
	}
	return nil
}

// MarkTaskSynced records that the row now matches the remote copy
func (s *Store) MarkTaskSynced(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE tasks SET sync_status = 'synced' WHERE id = ?", id)
	if err != nil {
		return &StoreError{Op: "MarkTaskSynced", Entity: "task", Err: err}
	}
	return nil
}

// MarkTaskDeleted tombstones a task so the next push removes it remotely
func (s *Store) MarkTaskDeleted(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE tasks SET sync_status = 'deleted', updated_at = ? WHERE id = ?", Now(), id)
	if err != nil {
		return &StoreError{Op: "MarkTaskDeleted", Entity: "task", Err: err}
	}
	return nil
}

// DeleteTask removes the row permanently. Completion logs and tag links go
// with it through the cascading foreign keys.
func (s *Store) DeleteTask(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return &StoreError{Op: "DeleteTask", Entity: "task", Err: err}
	}
	return nil
}

// InsertTaskFromRemote upserts a remote task keyed by sync id. The category
// reference must already be translated to a local row id by the caller.
func (s *Store) InsertTaskFromRemote(t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO tasks (category_id, text, done, display_order, memo, repeat_type, repeat_detail,
			next_due_at, last_completed_at, track_streak, reminder_at, linked_app,
			sync_id, created_at, updated_at, sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'synced')
		ON CONFLICT(sync_id) DO UPDATE SET
			category_id = excluded.category_id,
			text = excluded.text,
			done = excluded.done,
			display_order = excluded.display_order,
			memo = excluded.memo,
			repeat_type = excluded.repeat_type,
			repeat_detail = excluded.repeat_detail,
			next_due_at = excluded.next_due_at,
			last_completed_at = excluded.last_completed_at,
			track_streak = excluded.track_streak,
			reminder_at = excluded.reminder_at,
			linked_app = excluded.linked_app,
			updated_at = excluded.updated_at,
			sync_status = 'synced'
	`, nullInt(t.CategoryID), t.Text, t.Done, t.DisplayOrder, nullStr(t.Memo), t.RepeatType, nullStr(t.RepeatDetail),
		nullStr(t.NextDueAt), nullStr(t.LastCompletedAt), t.TrackStreak, nullStr(t.ReminderAt), nullStr(t.LinkedApp),
		nullStr(t.SyncID), nullStr(t.CreatedAt), nullStr(t.UpdatedAt))
	if err != nil {
		return &StoreError{Op: "InsertTaskFromRemote", Entity: "task", Err: err}
	}
	return nil
}

// UpdateTaskFromRemote overwrites a local row with the remote copy, keeping
// the remote updated_at so later comparisons stay consistent
func (s *Store) UpdateTaskFromRemote(id int64, t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		UPDATE tasks
		SET category_id = ?, text = ?, done = ?, display_order = ?, memo = ?,
			repeat_type = ?, repeat_detail = ?, next_due_at = ?, last_completed_at = ?,
			track_streak = ?, reminder_at = ?, linked_app = ?, updated_at = ?, sync_status = 'synced'
		WHERE id = ?
	`, nullInt(t.CategoryID), t.Text, t.Done, t.DisplayOrder, nullStr(t.Memo),
		t.RepeatType, nullStr(t.RepeatDetail), nullStr(t.NextDueAt), nullStr(t.LastCompletedAt),
		t.TrackStreak, nullStr(t.ReminderAt), nullStr(t.LinkedApp), nullStr(t.UpdatedAt), id)
	if err != nil {
		return &StoreError{Op: "UpdateTaskFromRemote", Entity: "task", Err: err}
	}
	return nil
}
