package remote

// Remote table names. The realtime channel reports changes against these.
const (
	TableCategories     = "categories"
	TableTodos          = "todos"
	TableTags           = "tags"
	TableTodoTags       = "todo_tags"
	TableCompletionLogs = "completion_logs"
)

// WatchedTables returns the tables a realtime subscription should cover
func WatchedTables() []string {
	return []string{TableCategories, TableTodos, TableTags, TableTodoTags, TableCompletionLogs}
}

// Category is the remote representation of a task category
type Category struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	DisplayOrder int64   `json:"display_order"`
	CreatedAt    *string `json:"created_at"`
	UpdatedAt    *string `json:"updated_at"`
}

// Todo is the remote representation of a task. CategoryID refers to the
// remote category id, not a local row id.
type Todo struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	CategoryID      *string `json:"category_id"`
	Text            string  `json:"text"`
	Done            bool    `json:"done"`
	DisplayOrder    int64   `json:"display_order"`
	Memo            *string `json:"memo"`
	RepeatType      string  `json:"repeat_type"`
	RepeatDetail    *string `json:"repeat_detail"`
	NextDueAt       *string `json:"next_due_at"`
	LastCompletedAt *string `json:"last_completed_at"`
	TrackStreak     bool    `json:"track_streak"`
	ReminderAt      *string `json:"reminder_at"`
	LinkedApp       *string `json:"linked_app"`
	CreatedAt       *string `json:"created_at"`
	UpdatedAt       *string `json:"updated_at"`
}

// Tag is the remote representation of a tag
type Tag struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Name      string  `json:"name"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

// TodoTag is the remote representation of a task-tag link
type TodoTag struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	TodoID    string  `json:"todo_id"`
	TagID     string  `json:"tag_id"`
	CreatedAt *string `json:"created_at"`
}

// CompletionLog is the remote representation of a daily completion count.
// Its id is derived from the owning todo and the day, so repeated pushes of
// the same log land on the same remote row.
type CompletionLog struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	TodoID         string `json:"todo_id"`
	CompletedOn    string `json:"completed_on"`
	CompletedCount int64  `json:"completed_count"`
}

// CompletionLogID derives the stable remote id for a completion log
func CompletionLogID(todoSyncID, completedOn string) string {
	return todoSyncID + "_" + completedOn
}
