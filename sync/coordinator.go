// Package sync implements the bidirectional push-then-pull pass between the
// local store and the remote gateway. Local rows use integer ids; the remote
// keys everything by UUID, so each pass builds translation maps in memory and
// never persists them.
package sync

import (
	"context"
	"fmt"
	"log"
	"time"

	"todosync/remote"
	"todosync/store"
)

// Gateway is the remote surface the coordinator pushes to and pulls from
type Gateway interface {
	FetchCategories(ctx context.Context, accessToken string) ([]remote.Category, error)
	FetchTodos(ctx context.Context, accessToken string) ([]remote.Todo, error)
	FetchTags(ctx context.Context, accessToken string) ([]remote.Tag, error)
	FetchTodoTags(ctx context.Context, accessToken string) ([]remote.TodoTag, error)
	FetchCompletionLogs(ctx context.Context, accessToken string) ([]remote.CompletionLog, error)

	UpsertCategory(ctx context.Context, accessToken string, category remote.Category) (*remote.Category, error)
	UpsertTodo(ctx context.Context, accessToken string, todo remote.Todo) (*remote.Todo, error)
	UpsertTag(ctx context.Context, accessToken string, tag remote.Tag) (*remote.Tag, error)
	UpsertTodoTag(ctx context.Context, accessToken string, link remote.TodoTag) (*remote.TodoTag, error)
	UpsertCompletionLog(ctx context.Context, accessToken string, log remote.CompletionLog) (*remote.CompletionLog, error)

	DeleteCategory(ctx context.Context, accessToken, syncID string) error
	DeleteTodo(ctx context.Context, accessToken, syncID string) error
	DeleteTag(ctx context.Context, accessToken, syncID string) error
	DeleteTodoTag(ctx context.Context, accessToken, syncID string) error
}

// Coordinator runs full sync passes against a single user's remote data
type Coordinator struct {
	store   *store.Store
	gateway Gateway
	userID  string
	logger  *log.Logger
}

// NewCoordinator creates a coordinator. The logger may be nil.
func NewCoordinator(s *store.Store, g Gateway, userID string, logger *log.Logger) *Coordinator {
	return &Coordinator{
		store:   s,
		gateway: g,
		userID:  userID,
		logger:  logger,
	}
}

// Result contains statistics about one sync pass
type Result struct {
	Pushed       int
	Pulled       int
	LastSyncedAt string
	Duration     time.Duration
}

// Run performs one full pass: push local changes first, then pull the full
// remote state and reconcile. A failure in either phase aborts the pass;
// entities already pushed stay marked synced, so the next pass resumes where
// this one stopped.
func (c *Coordinator) Run(ctx context.Context, accessToken string) (*Result, error) {
	startTime := time.Now()
	result := &Result{}

	plan, err := c.collect()
	if err != nil {
		return nil, fmt.Errorf("collect phase failed: %w", err)
	}
	c.logf("collected %d categories, %d tasks, %d logs, %d tags, %d links to push",
		len(plan.categories), len(plan.tasks), len(plan.logs), len(plan.tags), len(plan.links))

	pushed, err := c.push(ctx, accessToken, plan)
	result.Pushed = pushed
	if err != nil {
		return result, fmt.Errorf("push phase failed: %w", err)
	}

	pulled, err := c.pull(ctx, accessToken)
	result.Pulled = pulled
	if err != nil {
		return result, fmt.Errorf("pull phase failed: %w", err)
	}

	ts := store.Now()
	if err := c.store.SetLastSyncedAt(ts); err != nil {
		return result, err
	}
	result.LastSyncedAt = ts
	result.Duration = time.Since(startTime)
	c.logf("pass complete: pushed %d, pulled %d in %s", result.Pushed, result.Pulled, result.Duration.Round(time.Millisecond))
	return result, nil
}

func (c *Coordinator) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
