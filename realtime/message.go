package realtime

import (
	"encoding/json"
	"fmt"
)

// The channel speaks the Phoenix v2 wire format: every message is a JSON
// array of [join_ref, msg_ref, topic, event, payload], where the two refs
// may be null.

// Channel topics
const (
	ChannelTopic   = "realtime:public"
	HeartbeatTopic = "phoenix"
)

// Protocol events
const (
	EventJoin            = "phx_join"
	EventLeave           = "phx_leave"
	EventReply           = "phx_reply"
	EventHeartbeat       = "heartbeat"
	EventAccessToken     = "access_token"
	EventPostgresChanges = "postgres_changes"
	EventSystem          = "system"
	EventPresenceState   = "presence_state"
	EventPresenceDiff    = "presence_diff"
)

// Fixed refs for control messages. Heartbeat refs count upward from a higher
// base so they never collide with these.
const (
	joinRef        = "1"
	accessTokenRef = "2"
	leaveRef       = "999"
)

// Frame is one decoded protocol message
type Frame struct {
	JoinRef *string
	Ref     *string
	Topic   string
	Event   string
	Payload json.RawMessage
}

// MarshalJSON encodes the frame as the positional array the server expects
func (f Frame) MarshalJSON() ([]byte, error) {
	payload := f.Payload
	if payload == nil {
		payload = json.RawMessage("{}")
	}
	return json.Marshal([5]any{f.JoinRef, f.Ref, f.Topic, f.Event, payload})
}

// ParseFrame decodes a positional array into a Frame
func ParseFrame(data []byte) (*Frame, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil, fmt.Errorf("frame is not a JSON array: %w", err)
	}
	if len(parts) != 5 {
		return nil, fmt.Errorf("frame has %d elements, want 5", len(parts))
	}

	frame := &Frame{Payload: parts[4]}
	if err := json.Unmarshal(parts[0], &frame.JoinRef); err != nil {
		return nil, fmt.Errorf("bad join_ref: %w", err)
	}
	if err := json.Unmarshal(parts[1], &frame.Ref); err != nil {
		return nil, fmt.Errorf("bad msg_ref: %w", err)
	}
	if err := json.Unmarshal(parts[2], &frame.Topic); err != nil {
		return nil, fmt.Errorf("bad topic: %w", err)
	}
	if err := json.Unmarshal(parts[3], &frame.Event); err != nil {
		return nil, fmt.Errorf("bad event: %w", err)
	}
	return frame, nil
}

// TableSubscription selects the change feed for one table, scoped to a user
type TableSubscription struct {
	Event  string `json:"event"`
	Schema string `json:"schema"`
	Table  string `json:"table"`
	Filter string `json:"filter"`
}

// JoinConfig is the channel configuration sent with phx_join
type JoinConfig struct {
	Broadcast       broadcastConfig     `json:"broadcast"`
	Presence        presenceConfig      `json:"presence"`
	PostgresChanges []TableSubscription `json:"postgres_changes"`
	Private         bool                `json:"private"`
}

type broadcastConfig struct {
	Self bool `json:"self"`
	Ack  bool `json:"ack"`
}

type presenceConfig struct {
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
}

// JoinPayload is the phx_join payload. It carries only the channel config;
// the JWT follows in a separate access_token message right after the join.
type JoinPayload struct {
	Config JoinConfig `json:"config"`
}

// AccessTokenPayload refreshes the channel's JWT after join
type AccessTokenPayload struct {
	AccessToken string `json:"access_token"`
}

// ReplyPayload is the phx_reply payload
type ReplyPayload struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"`
}

// ChangePayload wraps a postgres_changes notification. The interesting part
// sits one level down in data.
type ChangePayload struct {
	IDs  []int64    `json:"ids"`
	Data ChangeData `json:"data"`
}

// ChangeData describes one row change
type ChangeData struct {
	Schema          string         `json:"schema"`
	Table           string         `json:"table"`
	Type            string         `json:"type"`
	CommitTimestamp string         `json:"commit_timestamp"`
	Record          map[string]any `json:"record"`
	OldRecord       map[string]any `json:"old_record"`
}

// SyncID extracts the changed row's id, falling back to old_record for
// deletions where only the previous row is present
func (d ChangeData) SyncID() string {
	if id, ok := d.Record["id"].(string); ok && id != "" {
		return id
	}
	if id, ok := d.OldRecord["id"].(string); ok {
		return id
	}
	return ""
}

// joinFrame builds the phx_join message subscribing to the given tables,
// filtered to rows owned by userID
func joinFrame(userID string, tables []string) ([]byte, error) {
	subs := make([]TableSubscription, 0, len(tables))
	for _, table := range tables {
		subs = append(subs, TableSubscription{
			Event:  "*",
			Schema: "public",
			Table:  table,
			Filter: fmt.Sprintf("user_id=eq.%s", userID),
		})
	}
	payload, err := json.Marshal(JoinPayload{
		Config: JoinConfig{
			PostgresChanges: subs,
		},
	})
	if err != nil {
		return nil, err
	}
	jr, ref := joinRef, joinRef
	return json.Marshal(Frame{JoinRef: &jr, Ref: &ref, Topic: ChannelTopic, Event: EventJoin, Payload: payload})
}

// accessTokenFrame builds the token refresh message
func accessTokenFrame(accessToken string) ([]byte, error) {
	payload, err := json.Marshal(AccessTokenPayload{AccessToken: accessToken})
	if err != nil {
		return nil, err
	}
	jr, ref := joinRef, accessTokenRef
	return json.Marshal(Frame{JoinRef: &jr, Ref: &ref, Topic: ChannelTopic, Event: EventAccessToken, Payload: payload})
}

// heartbeatFrame builds a keepalive with its own ref
func heartbeatFrame(ref string) ([]byte, error) {
	return json.Marshal(Frame{Ref: &ref, Topic: HeartbeatTopic, Event: EventHeartbeat})
}

// leaveFrame builds the graceful channel departure message
func leaveFrame() ([]byte, error) {
	jr, ref := joinRef, leaveRef
	return json.Marshal(Frame{JoinRef: &jr, Ref: &ref, Topic: ChannelTopic, Event: EventLeave})
}
