package store

// Schema version for migration management
const SchemaVersion = 1

// SQL statements for database schema creation

// CategoriesTableSQL creates the categories table
const CategoriesTableSQL = `
CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    display_order INTEGER DEFAULT 0,
    sync_id TEXT UNIQUE,
    created_at TEXT,
    updated_at TEXT,
    sync_status TEXT NOT NULL DEFAULT 'pending'
);
`

// TasksTableSQL creates the main tasks table
const TasksTableSQL = `
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category_id INTEGER,
    text TEXT NOT NULL,
    done INTEGER DEFAULT 0,
    display_order INTEGER DEFAULT 0,
    memo TEXT,
    repeat_type TEXT NOT NULL DEFAULT 'none',
    repeat_detail TEXT,
    next_due_at TEXT,
    last_completed_at TEXT,
    track_streak INTEGER DEFAULT 0,
    reminder_at TEXT,
    linked_app TEXT,
    sync_id TEXT UNIQUE,
    created_at TEXT,
    updated_at TEXT,
    sync_status TEXT NOT NULL DEFAULT 'pending',

    FOREIGN KEY(category_id) REFERENCES categories(id) ON DELETE SET NULL
);
`

// TagsTableSQL creates the tags table
const TagsTableSQL = `
CREATE TABLE IF NOT EXISTS tags (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    sync_id TEXT UNIQUE,
    created_at TEXT,
    updated_at TEXT,
    sync_status TEXT NOT NULL DEFAULT 'pending'
);
`

// TaskTagsTableSQL creates the task-tag link table
const TaskTagsTableSQL = `
CREATE TABLE IF NOT EXISTS task_tags (
    task_id INTEGER NOT NULL,
    tag_id INTEGER NOT NULL,
    sync_id TEXT UNIQUE,
    created_at TEXT,
    sync_status TEXT NOT NULL DEFAULT 'pending',

    PRIMARY KEY(task_id, tag_id),
    FOREIGN KEY(task_id) REFERENCES tasks(id) ON DELETE CASCADE,
    FOREIGN KEY(tag_id) REFERENCES tags(id) ON DELETE CASCADE
);
`

// CompletionLogsTableSQL creates the completion log table, one row per task per day
const CompletionLogsTableSQL = `
CREATE TABLE IF NOT EXISTS completion_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    task_id INTEGER NOT NULL,
    completed_on TEXT NOT NULL,
    completed_count INTEGER NOT NULL DEFAULT 1,

    UNIQUE(task_id, completed_on),
    FOREIGN KEY(task_id) REFERENCES tasks(id) ON DELETE CASCADE
);
`

// SyncMetadataTableSQL creates the key/value table for sync bookkeeping
const SyncMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS sync_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// SchemaVersionTableSQL creates the schema version table for migration tracking
const SchemaVersionTableSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`

// Index creation statements for performance optimization

// TasksIndexesSQL creates indexes on tasks table for common queries
const TasksIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_tasks_category_id ON tasks(category_id);
CREATE INDEX IF NOT EXISTS idx_tasks_sync_status ON tasks(sync_status);
CREATE INDEX IF NOT EXISTS idx_tasks_sync_id ON tasks(sync_id);
`

// CategoriesIndexesSQL creates indexes on categories table
const CategoriesIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_categories_sync_status ON categories(sync_status);
CREATE INDEX IF NOT EXISTS idx_categories_sync_id ON categories(sync_id);
`

// TagsIndexesSQL creates indexes on tags and task_tags tables
const TagsIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_tags_sync_status ON tags(sync_status);
CREATE INDEX IF NOT EXISTS idx_task_tags_sync_status ON task_tags(sync_status);
`

// CompletionLogsIndexesSQL creates indexes on completion_logs table
const CompletionLogsIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_completion_logs_task_id ON completion_logs(task_id);
CREATE INDEX IF NOT EXISTS idx_completion_logs_completed_on ON completion_logs(completed_on);
`

// AllTableSchemas returns all table creation statements in order
func AllTableSchemas() []string {
	return []string{
		SchemaVersionTableSQL,
		CategoriesTableSQL,
		TasksTableSQL,
		TagsTableSQL,
		TaskTagsTableSQL,
		CompletionLogsTableSQL,
		SyncMetadataTableSQL,
	}
}

// AllIndexes returns all index creation statements
func AllIndexes() []string {
	return []string{
		CategoriesIndexesSQL,
		TasksIndexesSQL,
		TagsIndexesSQL,
		CompletionLogsIndexesSQL,
	}
}

// PragmaStatements returns pragma statements to execute on database connection
func PragmaStatements() []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous = NORMAL", // Balance between safety and performance
	}
}
