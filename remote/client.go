// Package remote implements the HTTP gateway to the hosted Postgres REST
// interface used by sync. All requests carry the project anon key plus the
// caller's access token so row-level security scopes data to the signed-in
// user.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client handles HTTP communication with the remote REST interface
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewClient creates a new remote client for the given project URL and anon key
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// restURL returns the REST endpoint for a table
func (c *Client) restURL(table string) string {
	return fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
}

// doRequest performs an HTTP request with authentication headers
func (c *Client) doRequest(ctx context.Context, method, url, accessToken string, body any, upsert bool) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if upsert {
		// Merge on the primary key and echo the stored row back
		req.Header.Set("Prefer", "resolution=merge-duplicates,return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

// fetchAll retrieves every row of a table visible to the access token
func fetchAll[T any](ctx context.Context, c *Client, accessToken, table, operation string) ([]T, error) {
	resp, err := c.doRequest(ctx, "GET", c.restURL(table)+"?select=*", accessToken, nil, false)
	if err != nil {
		return nil, NewGatewayError(operation, 0, err.Error()).WithTable(table).WithError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewGatewayError(operation, resp.StatusCode, "unexpected status").WithTable(table).WithBody(string(body))
	}

	var records []T
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, NewGatewayError(operation, 0, "failed to decode response").WithTable(table).WithError(err)
	}
	return records, nil
}

// upsertOne inserts or merges a single record and returns the stored row
func upsertOne[T any](ctx context.Context, c *Client, accessToken, table, operation, syncID string, record T) (*T, error) {
	resp, err := c.doRequest(ctx, "POST", c.restURL(table), accessToken, record, true)
	if err != nil {
		return nil, NewGatewayError(operation, 0, err.Error()).WithTable(table).WithSyncID(syncID).WithError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewGatewayError(operation, resp.StatusCode, "unexpected status").WithTable(table).WithSyncID(syncID).WithBody(string(body))
	}

	// return=representation yields an array with the stored row
	var stored []T
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return nil, NewGatewayError(operation, 0, "failed to decode response").WithTable(table).WithSyncID(syncID).WithError(err)
	}
	if len(stored) == 0 {
		return nil, NewGatewayError(operation, 0, "empty representation in response").WithTable(table).WithSyncID(syncID)
	}
	return &stored[len(stored)-1], nil
}

// deleteByID deletes the row with the given id
func (c *Client) deleteByID(ctx context.Context, accessToken, table, operation, syncID string) error {
	url := fmt.Sprintf("%s?id=eq.%s", c.restURL(table), syncID)
	resp, err := c.doRequest(ctx, "DELETE", url, accessToken, nil, false)
	if err != nil {
		return NewGatewayError(operation, 0, err.Error()).WithTable(table).WithSyncID(syncID).WithError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return NewGatewayError(operation, resp.StatusCode, "unexpected status").WithTable(table).WithSyncID(syncID).WithBody(string(body))
	}
	return nil
}

// FetchCategories retrieves all categories for the signed-in user
func (c *Client) FetchCategories(ctx context.Context, accessToken string) ([]Category, error) {
	return fetchAll[Category](ctx, c, accessToken, TableCategories, "FetchCategories")
}

// FetchTodos retrieves all todos for the signed-in user
func (c *Client) FetchTodos(ctx context.Context, accessToken string) ([]Todo, error) {
	return fetchAll[Todo](ctx, c, accessToken, TableTodos, "FetchTodos")
}

// FetchTags retrieves all tags for the signed-in user
func (c *Client) FetchTags(ctx context.Context, accessToken string) ([]Tag, error) {
	return fetchAll[Tag](ctx, c, accessToken, TableTags, "FetchTags")
}

// FetchTodoTags retrieves all task-tag links for the signed-in user
func (c *Client) FetchTodoTags(ctx context.Context, accessToken string) ([]TodoTag, error) {
	return fetchAll[TodoTag](ctx, c, accessToken, TableTodoTags, "FetchTodoTags")
}

// FetchCompletionLogs retrieves all completion logs for the signed-in user
func (c *Client) FetchCompletionLogs(ctx context.Context, accessToken string) ([]CompletionLog, error) {
	return fetchAll[CompletionLog](ctx, c, accessToken, TableCompletionLogs, "FetchCompletionLogs")
}

// UpsertCategory inserts or merges a category
func (c *Client) UpsertCategory(ctx context.Context, accessToken string, category Category) (*Category, error) {
	return upsertOne(ctx, c, accessToken, TableCategories, "UpsertCategory", category.ID, category)
}

// UpsertTodo inserts or merges a todo
func (c *Client) UpsertTodo(ctx context.Context, accessToken string, todo Todo) (*Todo, error) {
	return upsertOne(ctx, c, accessToken, TableTodos, "UpsertTodo", todo.ID, todo)
}

// UpsertTag inserts or merges a tag
func (c *Client) UpsertTag(ctx context.Context, accessToken string, tag Tag) (*Tag, error) {
	return upsertOne(ctx, c, accessToken, TableTags, "UpsertTag", tag.ID, tag)
}

// UpsertTodoTag inserts or merges a task-tag link
func (c *Client) UpsertTodoTag(ctx context.Context, accessToken string, link TodoTag) (*TodoTag, error) {
	return upsertOne(ctx, c, accessToken, TableTodoTags, "UpsertTodoTag", link.ID, link)
}

// UpsertCompletionLog inserts or merges a completion log
func (c *Client) UpsertCompletionLog(ctx context.Context, accessToken string, log CompletionLog) (*CompletionLog, error) {
	return upsertOne(ctx, c, accessToken, TableCompletionLogs, "UpsertCompletionLog", log.ID, log)
}

// DeleteCategory removes a category by remote id
func (c *Client) DeleteCategory(ctx context.Context, accessToken, syncID string) error {
	return c.deleteByID(ctx, accessToken, TableCategories, "DeleteCategory", syncID)
}

// DeleteTodo removes a todo by remote id
func (c *Client) DeleteTodo(ctx context.Context, accessToken, syncID string) error {
	return c.deleteByID(ctx, accessToken, TableTodos, "DeleteTodo", syncID)
}

// DeleteTag removes a tag by remote id
func (c *Client) DeleteTag(ctx context.Context, accessToken, syncID string) error {
	return c.deleteByID(ctx, accessToken, TableTags, "DeleteTag", syncID)
}

// DeleteTodoTag removes a task-tag link by remote id
func (c *Client) DeleteTodoTag(ctx context.Context, accessToken, syncID string) error {
	return c.deleteByID(ctx, accessToken, TableTodoTags, "DeleteTodoTag", syncID)
}
