// Package realtime maintains a websocket subscription to the remote change
// feed. The client joins one channel covering the synced tables, keeps it
// alive with heartbeats, and republishes row-change notifications to local
// listeners. Connection loss triggers reconnection with capped exponential
// backoff until a fixed attempt ceiling.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	// HeartbeatInterval is how often a keepalive is sent on an open socket
	HeartbeatInterval = 25 * time.Second

	// MaxReconnectAttempts is the ceiling after which the client gives up
	MaxReconnectAttempts = 10

	baseReconnectDelay = 1 * time.Second
	maxReconnectDelay  = 30 * time.Second

	dialTimeout = 10 * time.Second

	// Heartbeat refs count upward from here so they never collide with the
	// fixed control refs
	heartbeatRefBase = 10
)

// State is the connection lifecycle state
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
)

// Status is a point-in-time snapshot of the connection
type Status struct {
	State             State
	ReconnectAttempts int
	LastError         string
}

// EventType classifies notifications delivered to listeners
type EventType string

const (
	EventConnected    EventType = "connected"
	EventDisconnected EventType = "disconnected"
	EventReconnecting EventType = "reconnecting"
	EventError        EventType = "error"
	EventChange       EventType = "change"
)

// ChangeEvent describes one remote row change
type ChangeEvent struct {
	Table      string
	ChangeType string // INSERT, UPDATE or DELETE
	SyncID     string
}

// Event is delivered to subscribed listeners
type Event struct {
	Type    EventType
	Message string
	Change  *ChangeEvent
}

// Listener receives events. Listeners are called synchronously from the
// client's event loop and must not block.
type Listener func(Event)

// Config carries everything needed to open a subscription
type Config struct {
	URL         string // project base URL, https scheme
	AnonKey     string
	AccessToken string
	UserID      string
	Tables      []string // remote tables to watch
	Logger      *log.Logger
}

// websocketURL derives the realtime endpoint from the project URL
func (cfg Config) websocketURL() (string, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return "", fmt.Errorf("invalid project URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	u.Path = "/realtime/v1/websocket"
	q := url.Values{}
	q.Set("apikey", cfg.AnonKey)
	q.Set("vsn", "2.0.0")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ReconnectDelay returns the wait before reconnect attempt n (1-based):
// exponential from 1s, capped at 30s
func ReconnectDelay(attempt int) time.Duration {
	return reconnectDelay(baseReconnectDelay, attempt)
}

func reconnectDelay(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxReconnectDelay {
			return maxReconnectDelay
		}
	}
	if delay > maxReconnectDelay {
		return maxReconnectDelay
	}
	return delay
}

// Client manages one realtime subscription
type Client struct {
	mu        sync.RWMutex
	state     State
	attempts  int
	lastErr   string
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	listeners []Listener
	logger    *log.Logger

	// Timing knobs, overridden in tests
	heartbeatInterval time.Duration
	baseDelay         time.Duration
}

// NewClient creates a disconnected client
func NewClient() *Client {
	return &Client{
		state:             StateDisconnected,
		heartbeatInterval: HeartbeatInterval,
		baseDelay:         baseReconnectDelay,
	}
}

// Subscribe registers a listener for connection and change events
func (c *Client) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Status returns a snapshot of the connection state
func (c *Client) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Status{State: c.state, ReconnectAttempts: c.attempts, LastError: c.lastErr}
}

// IsConnected reports whether the channel join has been confirmed
func (c *Client) IsConnected() bool {
	return c.Status().State == StateConnected
}

// Connect starts the connection loop in the background. It returns an error
// when the client is already running or the config is unusable.
func (c *Client) Connect(cfg Config) error {
	wsURL, err := cfg.websocketURL()
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("realtime client already running")
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.running = true
	c.cancel = cancel
	c.done = make(chan struct{})
	c.state = StateConnecting
	c.attempts = 0
	c.lastErr = ""
	c.logger = cfg.Logger
	c.mu.Unlock()

	go c.run(ctx, cfg, wsURL)
	return nil
}

// Disconnect stops the loop and waits for the socket to close. Calling it on
// a stopped client is a no-op.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	cancel()
	<-done
	return nil
}

// run owns the reconnection loop. Each session failure counts as one attempt;
// reaching the ceiling, or a graceful shutdown, ends the loop.
func (c *Client) run(ctx context.Context, cfg Config, wsURL string) {
	defer func() {
		c.mu.Lock()
		c.running = false
		c.state = StateDisconnected
		c.mu.Unlock()
		c.emit(Event{Type: EventDisconnected})
		close(c.doneChan())
	}()

	for {
		c.setState(StateConnecting)
		err := c.session(ctx, cfg, wsURL)
		if ctx.Err() != nil || err == nil {
			return
		}

		c.mu.Lock()
		c.attempts++
		c.lastErr = err.Error()
		attempts := c.attempts
		c.mu.Unlock()
		c.logf("connection lost (attempt %d): %v", attempts, err)
		c.emit(Event{Type: EventError, Message: err.Error()})

		if attempts >= MaxReconnectAttempts {
			c.logf("giving up after %d attempts", attempts)
			return
		}

		c.setState(StateReconnecting)
		delay := reconnectDelay(c.baseDelay, attempts)
		c.emit(Event{Type: EventReconnecting, Message: fmt.Sprintf("retrying in %s", delay)})
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
	}
}

// session runs one socket lifetime: dial, join, heartbeat, read until the
// connection drops or ctx is cancelled. A nil return means graceful shutdown.
func (c *Client) session(ctx context.Context, cfg Config, wsURL string) error {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	conn, _, err := websocket.Dial(dialCtx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}
	defer conn.CloseNow()
	// Change payloads carry whole rows
	conn.SetReadLimit(1 << 20)

	join, err := joinFrame(cfg.UserID, cfg.Tables)
	if err != nil {
		return err
	}
	if err := conn.Write(ctx, websocket.MessageText, join); err != nil {
		return fmt.Errorf("join failed: %w", err)
	}
	token, err := accessTokenFrame(cfg.AccessToken)
	if err != nil {
		return err
	}
	if err := conn.Write(ctx, websocket.MessageText, token); err != nil {
		return fmt.Errorf("access_token failed: %w", err)
	}

	// Reader feeds the select loop; protocol pings are answered inside Read.
	// It deliberately reads with a background context: cancelling a Read
	// context tears the whole connection down, which would race the goodbye
	// frame on shutdown. Closing the connection unblocks the reader instead.
	msgs := make(chan []byte)
	readErrs := make(chan error, 1)
	go func() {
		for {
			_, data, err := conn.Read(context.Background())
			if err != nil {
				readErrs <- err
				return
			}
			select {
			case msgs <- data:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(c.heartbeatInterval)
	defer ticker.Stop()
	heartbeatRef := heartbeatRefBase

	for {
		select {
		case <-ctx.Done():
			// Best-effort goodbye so the server releases the channel now
			// instead of waiting for the heartbeat to lapse
			if leave, err := leaveFrame(); err == nil {
				writeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				_ = conn.Write(writeCtx, websocket.MessageText, leave)
				cancel()
			}
			conn.Close(websocket.StatusNormalClosure, "client disconnect")
			return nil

		case err := <-readErrs:
			return err

		case <-ticker.C:
			heartbeatRef++
			hb, err := heartbeatFrame(strconv.Itoa(heartbeatRef))
			if err != nil {
				return err
			}
			writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = conn.Write(writeCtx, websocket.MessageText, hb)
			cancel()
			if err != nil {
				return fmt.Errorf("heartbeat failed: %w", err)
			}

		case data := <-msgs:
			if err := c.handleFrame(data); err != nil {
				return err
			}
		}
	}
}

// handleFrame dispatches one inbound message. Unknown events are ignored so
// protocol additions don't break the client. A refused join surfaces as an
// error event; the socket stays open, since the server may still accept a
// rejoin after an access_token refresh.
func (c *Client) handleFrame(data []byte) error {
	frame, err := ParseFrame(data)
	if err != nil {
		c.logf("ignoring malformed frame: %v", err)
		return nil
	}

	switch frame.Event {
	case EventReply:
		var reply ReplyPayload
		if err := json.Unmarshal(frame.Payload, &reply); err != nil {
			c.logf("ignoring malformed reply: %v", err)
			return nil
		}
		if frame.Ref != nil && *frame.Ref == joinRef {
			if reply.Status != "ok" {
				msg := fmt.Sprintf("channel join refused: %s", string(reply.Response))
				c.mu.Lock()
				c.lastErr = msg
				c.mu.Unlock()
				c.logf("%s", msg)
				c.emit(Event{Type: EventError, Message: msg})
				return nil
			}
			c.mu.Lock()
			c.state = StateConnected
			c.attempts = 0
			c.lastErr = ""
			c.mu.Unlock()
			c.logf("channel joined")
			c.emit(Event{Type: EventConnected})
		}

	case EventPostgresChanges:
		var payload ChangePayload
		if err := json.Unmarshal(frame.Payload, &payload); err != nil {
			c.logf("ignoring malformed change: %v", err)
			return nil
		}
		change := ChangeEvent{
			Table:      payload.Data.Table,
			ChangeType: payload.Data.Type,
			SyncID:     payload.Data.SyncID(),
		}
		c.emit(Event{Type: EventChange, Change: &change})

	case EventSystem, EventPresenceState, EventPresenceDiff, EventHeartbeat:
		// Keepalive and presence traffic carries nothing we act on
	}
	return nil
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Client) doneChan() chan struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.done
}

func (c *Client) emit(ev Event) {
	c.mu.RLock()
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.RUnlock()
	for _, l := range listeners {
		l(ev)
	}
}

func (c *Client) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
