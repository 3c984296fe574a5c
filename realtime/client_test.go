package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
)

// fakeChannel accepts one websocket connection, confirms the join and plays
// the scripted frames, then holds the socket open until the client leaves
func fakeChannel(t *testing.T, script ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/realtime/v1/websocket" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("apikey") == "" || r.URL.Query().Get("vsn") != "2.0.0" {
			t.Errorf("Missing connection params: %s", r.URL.RawQuery)
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("Accept failed: %v", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Expect phx_join first
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		frame, err := ParseFrame(data)
		if err != nil || frame.Event != EventJoin {
			t.Errorf("Expected phx_join first, got %s (%v)", data, err)
			return
		}

		reply := `["1","1","realtime:public","phx_reply",{"status":"ok","response":{}}]`
		if err := conn.Write(ctx, websocket.MessageText, []byte(reply)); err != nil {
			return
		}
		for _, msg := range script {
			if err := conn.Write(ctx, websocket.MessageText, []byte(msg)); err != nil {
				return
			}
		}

		// Drain until the client leaves or the socket closes
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			if frame, err := ParseFrame(data); err == nil && frame.Event == EventLeave {
				return
			}
		}
	}))
}

func testConfig(serverURL string) Config {
	return Config{
		URL:         serverURL,
		AnonKey:     "anon-key",
		AccessToken: "jwt",
		UserID:      "user-1",
		Tables:      []string{"todos"},
	}
}

func waitForEvent(t *testing.T, events <-chan Event, want EventType) Event {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("Timed out waiting for %s event", want)
		}
	}
}

func TestClientConnectsAndReceivesChanges(t *testing.T) {
	changePayload := map[string]any{
		"ids": []int64{1},
		"data": map[string]any{
			"schema": "public",
			"table":  "todos",
			"type":   "UPDATE",
			"record": map[string]any{"id": "todo-1", "text": "edited"},
		},
	}
	payloadJSON, _ := json.Marshal(changePayload)
	changeFrame := `["1",null,"realtime:public","postgres_changes",` + string(payloadJSON) + `]`

	server := fakeChannel(t, changeFrame)
	defer server.Close()

	client := NewClient()
	events := make(chan Event, 16)
	client.Subscribe(func(ev Event) { events <- ev })

	if err := client.Connect(testConfig(server.URL)); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Disconnect()

	waitForEvent(t, events, EventConnected)
	if !client.IsConnected() {
		t.Error("Expected connected state after join reply")
	}
	status := client.Status()
	if status.ReconnectAttempts != 0 {
		t.Errorf("Expected attempts reset on connect, got %d", status.ReconnectAttempts)
	}

	ev := waitForEvent(t, events, EventChange)
	if ev.Change == nil {
		t.Fatal("Expected change details")
	}
	if ev.Change.Table != "todos" || ev.Change.ChangeType != "UPDATE" || ev.Change.SyncID != "todo-1" {
		t.Errorf("Unexpected change event: %+v", ev.Change)
	}
}

func TestClientIgnoresUnknownEvents(t *testing.T) {
	server := fakeChannel(t,
		`[null,null,"realtime:public","system",{"message":"ok"}]`,
		`[null,null,"realtime:public","presence_state",{}]`,
		`[null,null,"realtime:public","some_future_event",{"x":1}]`,
		`["1",null,"realtime:public","postgres_changes",{"data":{"table":"tags","type":"DELETE","old_record":{"id":"tag-9"}}}]`,
	)
	defer server.Close()

	client := NewClient()
	events := make(chan Event, 16)
	client.Subscribe(func(ev Event) { events <- ev })

	if err := client.Connect(testConfig(server.URL)); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Disconnect()

	// The noise before the change frame must not break the session
	ev := waitForEvent(t, events, EventChange)
	if ev.Change.SyncID != "tag-9" {
		t.Errorf("Expected delete id from old_record, got %q", ev.Change.SyncID)
	}
}

func TestDisconnectSendsLeaveAndStops(t *testing.T) {
	leaveSeen := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		conn.Read(ctx) // join
		conn.Write(ctx, websocket.MessageText, []byte(`["1","1","realtime:public","phx_reply",{"status":"ok","response":{}}]`))
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			if frame, err := ParseFrame(data); err == nil && frame.Event == EventLeave {
				close(leaveSeen)
				return
			}
		}
	}))
	defer server.Close()

	client := NewClient()
	events := make(chan Event, 16)
	client.Subscribe(func(ev Event) { events <- ev })

	if err := client.Connect(testConfig(server.URL)); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	waitForEvent(t, events, EventConnected)

	if err := client.Disconnect(); err != nil {
		t.Fatalf("Disconnect failed: %v", err)
	}

	select {
	case <-leaveSeen:
	case <-time.After(5 * time.Second):
		t.Error("Expected phx_leave on disconnect")
	}
	if client.Status().State != StateDisconnected {
		t.Errorf("Expected disconnected state, got %s", client.Status().State)
	}
}

func TestRefusedJoinEmitsErrorAndKeepsSocket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		conn.Read(ctx) // join
		conn.Write(ctx, websocket.MessageText, []byte(`["1","1","realtime:public","phx_reply",{"status":"error","response":{"reason":"invalid token"}}]`))
		// The socket stays usable after a refusal; prove it by delivering a
		// change on the same connection
		conn.Write(ctx, websocket.MessageText, []byte(`["1",null,"realtime:public","postgres_changes",{"data":{"table":"todos","type":"INSERT","record":{"id":"todo-7"}}}]`))
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	client := NewClient()
	events := make(chan Event, 16)
	client.Subscribe(func(ev Event) { events <- ev })

	if err := client.Connect(testConfig(server.URL)); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Disconnect()

	ev := waitForEvent(t, events, EventError)
	if ev.Message == "" {
		t.Error("Expected refusal details in the error event")
	}

	ev = waitForEvent(t, events, EventChange)
	if ev.Change == nil || ev.Change.SyncID != "todo-7" {
		t.Errorf("Expected change delivered on the refused channel, got %+v", ev.Change)
	}

	status := client.Status()
	if status.ReconnectAttempts != 0 {
		t.Errorf("Refused join must not count as a connection loss, got %d attempts", status.ReconnectAttempts)
	}
	if status.LastError == "" {
		t.Error("Expected last error recorded")
	}
}

func TestConnectTwiceFails(t *testing.T) {
	server := fakeChannel(t)
	defer server.Close()

	client := NewClient()
	if err := client.Connect(testConfig(server.URL)); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Disconnect()

	if err := client.Connect(testConfig(server.URL)); err == nil {
		t.Error("Expected error on second Connect while running")
	}
}

func TestReconnectDelaySequence(t *testing.T) {
	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
		30 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for i, expected := range want {
		attempt := i + 1
		if got := ReconnectDelay(attempt); got != expected {
			t.Errorf("Attempt %d: expected %s, got %s", attempt, expected, got)
		}
	}
}

func TestHeartbeatsSentEveryInterval(t *testing.T) {
	heartbeats := make(chan string, 16)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		conn.Read(ctx) // join
		conn.Write(ctx, websocket.MessageText, []byte(`["1","1","realtime:public","phx_reply",{"status":"ok","response":{}}]`))
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			frame, err := ParseFrame(data)
			if err != nil {
				continue
			}
			if frame.Event == EventHeartbeat && frame.Topic == HeartbeatTopic && frame.Ref != nil {
				heartbeats <- *frame.Ref
			}
		}
	}))
	defer server.Close()

	client := NewClient()
	client.heartbeatInterval = 30 * time.Millisecond

	if err := client.Connect(testConfig(server.URL)); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Disconnect()

	deadline := time.After(5 * time.Second)
	var refs []string
	for len(refs) < 3 {
		select {
		case ref := <-heartbeats:
			refs = append(refs, ref)
		case <-deadline:
			t.Fatalf("Timed out waiting for heartbeats, got %d", len(refs))
		}
	}
	for i := 1; i < len(refs); i++ {
		if refs[i] == refs[i-1] {
			t.Errorf("Expected fresh ref per heartbeat, got %q twice", refs[i])
		}
	}
}

func TestReconnectStopsAtAttemptCeiling(t *testing.T) {
	// A closed server refuses every dial, so each attempt fails immediately
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := NewClient()
	client.baseDelay = time.Millisecond
	events := make(chan Event, 64)
	client.Subscribe(func(ev Event) { events <- ev })

	if err := client.Connect(testConfig(serverURL)); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	errorCount := 0
	deadline := time.After(10 * time.Second)
	for {
		var ev Event
		select {
		case ev = <-events:
		case <-deadline:
			t.Fatalf("Timed out after %d errors", errorCount)
		}
		if ev.Type == EventError {
			errorCount++
		}
		if ev.Type == EventDisconnected {
			if errorCount != MaxReconnectAttempts {
				t.Errorf("Expected %d failed attempts before giving up, got %d", MaxReconnectAttempts, errorCount)
			}
			status := client.Status()
			if status.State != StateDisconnected {
				t.Errorf("Expected terminal disconnected state, got %s", status.State)
			}
			if status.ReconnectAttempts != MaxReconnectAttempts {
				t.Errorf("Expected attempt counter at ceiling, got %d", status.ReconnectAttempts)
			}
			// The loop has ended; Disconnect on a stopped client is a no-op
			if err := client.Disconnect(); err != nil {
				t.Errorf("Disconnect after give-up failed: %v", err)
			}
			return
		}
	}
}

func TestWebsocketURLDerivation(t *testing.T) {
	cfg := Config{URL: "https://proj.example.co", AnonKey: "anon"}
	got, err := cfg.websocketURL()
	if err != nil {
		t.Fatalf("websocketURL failed: %v", err)
	}
	if got != "wss://proj.example.co/realtime/v1/websocket?apikey=anon&vsn=2.0.0" {
		t.Errorf("Unexpected URL: %s", got)
	}

	cfg.URL = "ftp://proj.example.co"
	if _, err := cfg.websocketURL(); err == nil {
		t.Error("Expected error for unsupported scheme")
	}
}
