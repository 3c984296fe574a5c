package store

// TimeLayout is the timestamp format stored locally and exchanged with the
// remote: second-resolution ISO-8601 in UTC.
const TimeLayout = "2006-01-02T15:04:05Z"

// DateLayout is the calendar date format used by completion logs.
const DateLayout = "2006-01-02"

// SyncStatus tracks where a row stands relative to the remote copy
type SyncStatus string

const (
	// StatusPending marks rows created or modified locally since the last push
	StatusPending SyncStatus = "pending"
	// StatusSynced marks rows known to match the remote copy
	StatusSynced SyncStatus = "synced"
	// StatusDeleted marks tombstones awaiting remote deletion
	StatusDeleted SyncStatus = "deleted"
)

// Category groups tasks for display
type Category struct {
	ID           int64
	Name         string
	DisplayOrder int64
	SyncID       *string
	CreatedAt    *string
	UpdatedAt    *string
	SyncStatus   SyncStatus
}

// Task is a single to-do item
type Task struct {
	ID              int64
	CategoryID      *int64
	Text            string
	Done            bool
	DisplayOrder    int64
	Memo            *string
	RepeatType      string
	RepeatDetail    *string
	NextDueAt       *string
	LastCompletedAt *string
	TrackStreak     bool
	ReminderAt      *string
	LinkedApp       *string
	SyncID          *string
	CreatedAt       *string
	UpdatedAt       *string
	SyncStatus      SyncStatus
}

// Tag is a user-defined label attachable to tasks
type Tag struct {
	ID         int64
	Name       string
	SyncID     *string
	CreatedAt  *string
	UpdatedAt  *string
	SyncStatus SyncStatus
}

// TaskTag links a task to a tag
type TaskTag struct {
	TaskID     int64
	TagID      int64
	SyncID     *string
	CreatedAt  *string
	SyncStatus SyncStatus
}

// CompletionLog records how many times a task was completed on a given day
type CompletionLog struct {
	ID             int64
	TaskID         int64
	CompletedOn    string
	CompletedCount int64
}
