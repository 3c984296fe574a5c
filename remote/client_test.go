package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchTodosSendsAuthHeaders(t *testing.T) {
	var gotAPIKey, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/rest/v1/todos" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.URL.RawQuery != "select=*" {
			t.Errorf("Unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"t1","user_id":"u1","text":"Buy milk","done":false,"display_order":1,"repeat_type":"none","track_streak":false}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon-key")
	todos, err := client.FetchTodos(context.Background(), "access-token")
	if err != nil {
		t.Fatalf("FetchTodos failed: %v", err)
	}

	if gotAPIKey != "anon-key" {
		t.Errorf("Expected apikey header, got %q", gotAPIKey)
	}
	if gotAuth != "Bearer access-token" {
		t.Errorf("Expected bearer token header, got %q", gotAuth)
	}
	if len(todos) != 1 || todos[0].ID != "t1" {
		t.Errorf("Unexpected todos: %+v", todos)
	}
}

func TestUpsertCategoryRequestsMergeAndRepresentation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if prefer := r.Header.Get("Prefer"); prefer != "resolution=merge-duplicates,return=representation" {
			t.Errorf("Unexpected Prefer header: %q", prefer)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"c1","user_id":"u1","name":"Work","display_order":1,"created_at":"2025-06-01T10:00:00Z","updated_at":"2025-06-01T10:00:00Z"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon-key")
	stored, err := client.UpsertCategory(context.Background(), "token", Category{ID: "c1", UserID: "u1", Name: "Work", DisplayOrder: 1})
	if err != nil {
		t.Fatalf("UpsertCategory failed: %v", err)
	}
	if stored.Name != "Work" {
		t.Errorf("Expected stored row back, got %+v", stored)
	}
	if stored.UpdatedAt == nil {
		t.Error("Expected server timestamps on the stored row")
	}
}

func TestDeleteTodoFiltersByID(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("Expected DELETE, got %s", r.Method)
		}
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon-key")
	if err := client.DeleteTodo(context.Background(), "token", "t1"); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}
	if gotQuery != "id=eq.t1" {
		t.Errorf("Expected id filter, got %q", gotQuery)
	}
}

func TestGatewayErrorClassification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"JWT expired"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon-key")
	_, err := client.FetchCategories(context.Background(), "stale-token")
	if err == nil {
		t.Fatal("Expected error on 401")
	}

	var gerr *GatewayError
	if !errors.As(err, &gerr) {
		t.Fatalf("Expected GatewayError, got %T", err)
	}
	if !gerr.IsUnauthorized() {
		t.Errorf("Expected unauthorized classification, got status %d", gerr.StatusCode)
	}
	if gerr.Table != "categories" {
		t.Errorf("Expected table context on error, got %q", gerr.Table)
	}
}

func TestCompletionLogIDIsDerived(t *testing.T) {
	id := CompletionLogID("todo-1", "2025-06-01")
	if id != "todo-1_2025-06-01" {
		t.Errorf("Unexpected derived id: %s", id)
	}
}
