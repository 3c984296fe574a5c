package store

// LogCompletion bumps the completion count for a task on a given day,
// creating the row when it is the first completion that day
func (s *Store) LogCompletion(taskID int64, completedOn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO completion_logs (task_id, completed_on, completed_count)
		VALUES (?, ?, 1)
		ON CONFLICT(task_id, completed_on) DO UPDATE SET
			completed_count = completed_count + 1
	`, taskID, completedOn)
	if err != nil {
		return &StoreError{Op: "LogCompletion", Entity: "completion_log", Err: err}
	}
	return nil
}

// GetAllCompletionLogs returns every completion log row
func (s *Store) GetAllCompletionLogs() ([]CompletionLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT id, task_id, completed_on, completed_count FROM completion_logs ORDER BY completed_on, task_id")
	if err != nil {
		return nil, &StoreError{Op: "GetAllCompletionLogs", Entity: "completion_log", Err: err}
	}
	defer rows.Close()

	var logs []CompletionLog
	for rows.Next() {
		var l CompletionLog
		if err := rows.Scan(&l.ID, &l.TaskID, &l.CompletedOn, &l.CompletedCount); err != nil {
			return nil, &StoreError{Op: "GetAllCompletionLogs", Entity: "completion_log", Err: err}
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// UpsertCompletionLog overwrites the count for a task and day with the remote
// value. Used when applying pulled logs.
func (s *Store) UpsertCompletionLog(taskID int64, completedOn string, count int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO completion_logs (task_id, completed_on, completed_count)
		VALUES (?, ?, ?)
		ON CONFLICT(task_id, completed_on) DO UPDATE SET
			completed_count = excluded.completed_count
	`, taskID, completedOn, count)
	if err != nil {
		return &StoreError{Op: "UpsertCompletionLog", Entity: "completion_log", Err: err}
	}
	return nil
}
