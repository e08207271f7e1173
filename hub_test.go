/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestHub(reg *Registry, hostMigration bool) *Hub {
	cfg := &Config{maxPlayers: 4, sendBuffer: 64, hostMigration: hostMigration}
	return NewHub(cfg, NewSessionStore(reg, cfg.maxPlayers))
}

// connect registers a socketless client directly, for tests that drive the
// hub's handlers without running its loop.
func connect(h *Hub) *Client {
	c := newClient(nil, jsonCodec{}, 64)
	h.clients[c] = true
	return c
}

func send(h *Hub, c *Client, event string, data any) {
	h.handle(inbound{client: c, msg: Message{Type: event, Data: data}})
	h.flushEvictions()
}

func joinRoom(t *testing.T, h *Hub, c *Client, game, room string) Message {
	t.Helper()

	send(h, c, EventJoin, map[string]any{"gameType": game, "roomNumber": room})

	msg := next(t, c)
	if msg.Type != EventRole {
		t.Fatalf("Expected %q after join, got %q (%v)", EventRole, msg.Type, msg.Data)
	}

	return msg
}

// next returns the next queued frame for c, decoded.
func next(t *testing.T, c *Client) Message {
	t.Helper()

	select {
	case frame, ok := <-c.send:
		if !ok {
			t.Fatalf("Queue for %s was closed", c.id)
		}
		msg, err := jsonCodec{}.Decode(frame)
		if err != nil {
			t.Fatalf("Failed to decode frame: %v", err)
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("Timed out waiting for a message for %s", c.id)
	}

	return Message{}
}

// nextOf skips frames until one of the given type arrives.
func nextOf(t *testing.T, c *Client, event string) Message {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				t.Fatalf("Queue for %s closed before %q arrived", c.id, event)
			}
			msg, err := jsonCodec{}.Decode(frame)
			if err != nil {
				t.Fatalf("Failed to decode frame: %v", err)
			}
			if msg.Type == event {
				return msg
			}
		case <-deadline:
			t.Fatalf("Timed out waiting for %q for %s", event, c.id)
		}
	}
}

func expectQuiet(t *testing.T, c *Client) {
	t.Helper()

	select {
	case frame, ok := <-c.send:
		if ok {
			t.Fatalf("Expected no message for %s, got %s", c.id, frame)
		}
	default:
	}
}

func drain(c *Client) {
	for {
		select {
		case _, ok := <-c.send:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func dataOf(t *testing.T, msg Message) State {
	t.Helper()

	obj, ok := asObject(msg.Data)
	if !ok {
		t.Fatalf("Expected object payload for %q, got %T", msg.Type, msg.Data)
	}

	return obj
}

func TestJoinAssignsHostThenViewers(t *testing.T) {
	h := newTestHub(defaultRegistry(), false)

	host := connect(h)
	viewer := connect(h)

	role := dataOf(t, joinRoom(t, h, host, "rps", "7"))
	if role.Text("role") != "host" {
		t.Errorf("Expected first joiner to host, got %q", role.Text("role"))
	}
	if role.Text("sessionId") != "rps-7" {
		t.Errorf("Expected session rps-7, got %q", role.Text("sessionId"))
	}
	if role.Text("playerId") != host.id {
		t.Errorf("Expected playerId %s, got %q", host.id, role.Text("playerId"))
	}

	role = dataOf(t, joinRoom(t, h, viewer, "RPS", "7"))
	if role.Text("role") != "viewer" {
		t.Errorf("Expected second joiner to view, got %q", role.Text("role"))
	}

	snapshot := next(t, viewer)
	if snapshot.Type != EventInitialGameState {
		t.Fatalf("Expected %q for viewer, got %q", EventInitialGameState, snapshot.Type)
	}
	if got := dataOf(t, snapshot).Number("round"); got != 1 {
		t.Errorf("Expected round 1 in snapshot, got %v", got)
	}

	count := next(t, host)
	if count.Type != EventPlayerCount || dataOf(t, count).Number("count") != 2 {
		t.Errorf("Expected playerCount 2 for host, got %s %v", count.Type, count.Data)
	}
	expectQuiet(t, viewer)
}

func TestJoinTwiceResendsRole(t *testing.T) {
	h := newTestHub(defaultRegistry(), false)

	c := connect(h)
	joinRoom(t, h, c, "rps", "1")
	joinRoom(t, h, c, "rps", "1")

	s, _ := h.store.Get("rps-1")
	if len(s.members) != 1 {
		t.Errorf("Expected 1 member after a repeated join, got %d", len(s.members))
	}
}

func TestJoinErrors(t *testing.T) {
	tests := []struct {
		name string
		data any
		code string
	}{
		{"unknown game", map[string]any{"gameType": "chess", "roomNumber": "1"}, "unknown_game_type"},
		{"missing room", map[string]any{"gameType": "rps"}, "invalid_session_key"},
		{"not an object", "rps", "invalid_session_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHub(defaultRegistry(), false)
			c := connect(h)

			send(h, c, EventJoin, tt.data)

			msg := next(t, c)
			if msg.Type != EventError {
				t.Fatalf("Expected error event, got %q", msg.Type)
			}
			if code := dataOf(t, msg).Text("code"); code != tt.code {
				t.Errorf("Expected code %q, got %q", tt.code, code)
			}
			if h.store.Len() != 0 {
				t.Errorf("Expected no sessions, got %d", h.store.Len())
			}
		})
	}
}

func TestNumericRoomNumber(t *testing.T) {
	h := newTestHub(defaultRegistry(), false)
	c := connect(h)

	send(h, c, EventJoin, map[string]any{"gameType": "rps", "roomNumber": 1234.0})

	if role := dataOf(t, next(t, c)); role.Text("sessionId") != "rps-1234" {
		t.Errorf("Expected session rps-1234, got %q", role.Text("sessionId"))
	}
}

func TestFifthPlayerGetsNewSession(t *testing.T) {
	h := newTestHub(defaultRegistry(), false)

	for range 4 {
		joinRoom(t, h, connect(h), "platformer", "1")
	}

	fifth := connect(h)
	role := dataOf(t, joinRoom(t, h, fifth, "platformer", "1"))

	if role.Text("sessionId") != "platformer-1-2" {
		t.Errorf("Expected overflow session platformer-1-2, got %q", role.Text("sessionId"))
	}
	if role.Text("role") != "host" {
		t.Errorf("Expected overflow joiner to host, got %q", role.Text("role"))
	}
}

func TestEventBeforeJoin(t *testing.T) {
	h := newTestHub(defaultRegistry(), false)
	c := connect(h)

	send(h, c, "playerChoice", "바위")

	msg := next(t, c)
	if code := dataOf(t, msg).Text("code"); code != "not_in_session" {
		t.Errorf("Expected not_in_session, got %q", code)
	}
}

func TestMalformedFrame(t *testing.T) {
	h := newTestHub(defaultRegistry(), false)
	c := connect(h)

	_, err := jsonCodec{}.Decode([]byte("{nope"))
	h.handle(inbound{client: c, err: err})

	msg := next(t, c)
	if code := dataOf(t, msg).Text("code"); code != "malformed_message" {
		t.Errorf("Expected malformed_message, got %q", code)
	}
	if !h.clients[c] {
		t.Error("Expected client to stay connected after a malformed frame")
	}
}

func TestSlowClientIsEvicted(t *testing.T) {
	h := newTestHub(defaultRegistry(), false)

	host := connect(h)
	joinRoom(t, h, host, "rps", "1")

	slow := newClient(nil, jsonCodec{}, 1)
	h.clients[slow] = true
	send(h, slow, EventJoin, map[string]any{"gameType": "rps", "roomNumber": "1"})

	if h.clients[slow] {
		t.Fatal("Expected client with a full queue to be dropped")
	}

	s, _ := h.store.Get("rps-1")
	if s.isMember(slow) {
		t.Error("Expected evicted client to leave its session")
	}
	if got := dataOf(t, nextOf(t, host, EventPlayerCount)).Number("count"); got != 2 {
		t.Errorf("Expected playerCount 2 on join, got %v", got)
	}
	if got := dataOf(t, nextOf(t, host, EventPlayerCount)).Number("count"); got != 1 {
		t.Errorf("Expected playerCount 1 after eviction, got %v", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newTestHub(defaultRegistry(), false)

	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	c := newClient(nil, jsonCodec{}, 64)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	cancel()

	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		t.Fatal("Hub did not stop")
	}

	if _, ok := <-c.send; ok {
		t.Error("Expected client queue to be closed on shutdown")
	}
	if err := h.Register(newClient(nil, jsonCodec{}, 1)); !errors.Is(err, ErrHubStopped) {
		t.Errorf("Expected ErrHubStopped, got %v", err)
	}
	if err := h.Do(context.Background(), func() {}); !errors.Is(err, ErrHubStopped) {
		t.Errorf("Expected ErrHubStopped from Do, got %v", err)
	}
}
