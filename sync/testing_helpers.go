package sync

// This file contains shared test helpers and mocks used across sync tests.
// These are available to all _test.go files in the sync package.

import (
	"context"

	"todosync/remote"
)

// MockGateway implements Gateway for testing, keeping remote state in maps
// keyed by record id and counting every call
type MockGateway struct {
	Categories     map[string]remote.Category
	Todos          map[string]remote.Todo
	Tags           map[string]remote.Tag
	TodoTags       map[string]remote.TodoTag
	CompletionLogs map[string]remote.CompletionLog

	UpsertCalls int
	DeleteCalls int
	FetchCalls  int

	upsertErr error
	fetchErr  error
	deleteErr error
}

// NewMockGateway creates an empty mock gateway
func NewMockGateway() *MockGateway {
	return &MockGateway{
		Categories:     make(map[string]remote.Category),
		Todos:          make(map[string]remote.Todo),
		Tags:           make(map[string]remote.Tag),
		TodoTags:       make(map[string]remote.TodoTag),
		CompletionLogs: make(map[string]remote.CompletionLog),
	}
}

// FailUpserts makes every upsert return err
func (mg *MockGateway) FailUpserts(err error) { mg.upsertErr = err }

// FailFetches makes every fetch return err
func (mg *MockGateway) FailFetches(err error) { mg.fetchErr = err }

// FailDeletes makes every delete return err
func (mg *MockGateway) FailDeletes(err error) { mg.deleteErr = err }

func (mg *MockGateway) FetchCategories(ctx context.Context, accessToken string) ([]remote.Category, error) {
	mg.FetchCalls++
	if mg.fetchErr != nil {
		return nil, mg.fetchErr
	}
	var out []remote.Category
	for _, c := range mg.Categories {
		out = append(out, c)
	}
	return out, nil
}

func (mg *MockGateway) FetchTodos(ctx context.Context, accessToken string) ([]remote.Todo, error) {
	mg.FetchCalls++
	if mg.fetchErr != nil {
		return nil, mg.fetchErr
	}
	var out []remote.Todo
	for _, t := range mg.Todos {
		out = append(out, t)
	}
	return out, nil
}

func (mg *MockGateway) FetchTags(ctx context.Context, accessToken string) ([]remote.Tag, error) {
	mg.FetchCalls++
	if mg.fetchErr != nil {
		return nil, mg.fetchErr
	}
	var out []remote.Tag
	for _, t := range mg.Tags {
		out = append(out, t)
	}
	return out, nil
}

func (mg *MockGateway) FetchTodoTags(ctx context.Context, accessToken string) ([]remote.TodoTag, error) {
	mg.FetchCalls++
	if mg.fetchErr != nil {
		return nil, mg.fetchErr
	}
	var out []remote.TodoTag
	for _, t := range mg.TodoTags {
		out = append(out, t)
	}
	return out, nil
}

func (mg *MockGateway) FetchCompletionLogs(ctx context.Context, accessToken string) ([]remote.CompletionLog, error) {
	mg.FetchCalls++
	if mg.fetchErr != nil {
		return nil, mg.fetchErr
	}
	var out []remote.CompletionLog
	for _, l := range mg.CompletionLogs {
		out = append(out, l)
	}
	return out, nil
}

func (mg *MockGateway) UpsertCategory(ctx context.Context, accessToken string, category remote.Category) (*remote.Category, error) {
	mg.UpsertCalls++
	if mg.upsertErr != nil {
		return nil, mg.upsertErr
	}
	mg.Categories[category.ID] = category
	return &category, nil
}

func (mg *MockGateway) UpsertTodo(ctx context.Context, accessToken string, todo remote.Todo) (*remote.Todo, error) {
	mg.UpsertCalls++
	if mg.upsertErr != nil {
		return nil, mg.upsertErr
	}
	mg.Todos[todo.ID] = todo
	return &todo, nil
}

func (mg *MockGateway) UpsertTag(ctx context.Context, accessToken string, tag remote.Tag) (*remote.Tag, error) {
	mg.UpsertCalls++
	if mg.upsertErr != nil {
		return nil, mg.upsertErr
	}
	mg.Tags[tag.ID] = tag
	return &tag, nil
}

func (mg *MockGateway) UpsertTodoTag(ctx context.Context, accessToken string, link remote.TodoTag) (*remote.TodoTag, error) {
	mg.UpsertCalls++
	if mg.upsertErr != nil {
		return nil, mg.upsertErr
	}
	mg.TodoTags[link.ID] = link
	return &link, nil
}

func (mg *MockGateway) UpsertCompletionLog(ctx context.Context, accessToken string, log remote.CompletionLog) (*remote.CompletionLog, error) {
	mg.UpsertCalls++
	if mg.upsertErr != nil {
		return nil, mg.upsertErr
	}
	mg.CompletionLogs[log.ID] = log
	return &log, nil
}

func (mg *MockGateway) DeleteCategory(ctx context.Context, accessToken, syncID string) error {
	mg.DeleteCalls++
	if mg.deleteErr != nil {
		return mg.deleteErr
	}
	delete(mg.Categories, syncID)
	return nil
}

func (mg *MockGateway) DeleteTodo(ctx context.Context, accessToken, syncID string) error {
	mg.DeleteCalls++
	if mg.deleteErr != nil {
		return mg.deleteErr
	}
	delete(mg.Todos, syncID)
	return nil
}

func (mg *MockGateway) DeleteTag(ctx context.Context, accessToken, syncID string) error {
	mg.DeleteCalls++
	if mg.deleteErr != nil {
		return mg.deleteErr
	}
	delete(mg.Tags, syncID)
	return nil
}

func (mg *MockGateway) DeleteTodoTag(ctx context.Context, accessToken, syncID string) error {
	mg.DeleteCalls++
	if mg.deleteErr != nil {
		return mg.deleteErr
	}
	delete(mg.TodoTags, syncID)
	return nil
}
