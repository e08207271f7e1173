/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"
)

const (
	EventJoin             = "join"
	EventLeave            = "leave"
	EventRole             = "role"
	EventSetInitialState  = "setInitialState"
	EventInitialGameState = "initialGameState"
	EventPlayerCount      = "playerCount"
	EventHostChanged      = "hostChanged"
	EventGameOver         = "gameOver"
	EventSessionClosed    = "sessionClosed"
	EventError            = "error"
)

type inbound struct {
	client *Client
	msg    Message
	err    error
}

type tickEvent struct {
	session *Session
	stream  *tickStream
}

// Hub is the reactor. One goroutine runs Run and owns the connection
// registry, the session store and every session reachable from them;
// everything else talks to it over channels.
type Hub struct {
	cfg   *Config
	store *SessionStore

	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	inbound  chan inbound
	ticks    chan tickEvent
	tasks    chan func()

	evicted []*Client
	done    chan struct{}
}

func NewHub(cfg *Config, store *SessionStore) *Hub {
	return &Hub{
		cfg:      cfg,
		store:    store,
		clients:  make(map[*Client]bool),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		inbound:  make(chan inbound),
		ticks:    make(chan tickEvent),
		tasks:    make(chan func()),
		done:     make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	var reap <-chan time.Time
	if h.cfg.sessionTimeout > 0 {
		ticker := time.NewTicker(max(h.cfg.sessionTimeout/2, time.Millisecond))
		defer ticker.Stop()
		reap = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.clients[c] = true

		case c := <-h.unreg:
			h.disconnect(c)

		case in := <-h.inbound:
			h.handle(in)

		case te := <-h.ticks:
			h.runTick(te)

		case fn := <-h.tasks:
			fn()

		case now := <-reap:
			h.reap(now)
		}

		h.flushEvictions()
	}
}

func (h *Hub) Register(c *Client) error {
	select {
	case h.register <- c:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unreg <- c:
	case <-h.done:
	}
}

// Deliver hands a decoded frame, or the error from decoding it, to the
// reactor. It reports false once the hub has stopped.
func (h *Hub) Deliver(c *Client, msg Message, err error) bool {
	select {
	case h.inbound <- inbound{client: c, msg: msg, err: err}:
		return true
	case <-h.done:
		return false
	}
}

// Do runs fn on the reactor goroutine and waits for it to finish.
func (h *Hub) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}

	select {
	case h.tasks <- task:
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) handle(in inbound) {
	c := in.client
	if !h.clients[c] {
		return
	}

	if in.err != nil {
		logf(h.cfg, "RELAY: Rejected frame from %s: %v", c.id, in.err)
		h.sendError(c, in.err)
		return
	}

	switch in.msg.Type {
	case EventJoin:
		h.join(c, in.msg.Data)
	case EventLeave:
		h.onDisconnect(c)
	case EventSetInitialState:
		h.setInitialState(c, in.msg.Data)
	default:
		if c.session == nil {
			h.sendError(c, fmt.Errorf("%w: %q needs a joined session", ErrNotInSession, in.msg.Type))
			return
		}
		h.relay(c.session, c, in.msg.Type, in.msg.Data)
	}
}

func (h *Hub) join(c *Client, data any) {
	if c.session != nil {
		h.sendTo(c, EventRole, roleData(c))
		return
	}

	req, _ := asObject(data)

	s, err := h.store.FindOrCreate(fieldString(req, "gameType"), fieldString(req, "roomNumber"))
	if err != nil {
		logf(h.cfg, "JOIN: Rejected %s: %v", c.id, err)
		h.sendError(c, err)
		return
	}

	role := assignRole(s, c)
	s.touch()

	if role == RoleHost && s.state == nil {
		s.state = s.Game.initialState()
	}
	if s.state != nil && s.Game.OnJoin != nil {
		s.Game.OnJoin(s.state, c.id)
	}

	logf(h.cfg, "JOIN: %s joined %s as %s (%d/%d)", c.id, s.ID, role, len(s.members), h.store.MaxPlayers())

	h.sendTo(c, EventRole, roleData(c))

	if role == RoleHost {
		for _, name := range s.Game.AutoStart {
			if spec, ok := s.Game.tick(name); ok {
				h.startTicking(s, spec)
			}
		}
	} else {
		h.sendTo(c, EventInitialGameState, s.state)
	}

	h.broadcast(s, c, EventPlayerCount, playerCount(s))
}

func (h *Hub) setInitialState(c *Client, data any) {
	s := c.session
	if s == nil {
		h.sendError(c, fmt.Errorf("%w: %q needs a joined session", ErrNotInSession, EventSetInitialState))
		return
	}
	if s.host != c {
		logf(h.cfg, "RELAY: Dropped %s from non-host %s in %s", EventSetInitialState, c.id, s.ID)
		return
	}

	partial, ok := asObject(data)
	if !ok {
		h.sendError(c, fmt.Errorf("%w: initial state must be an object", ErrInvalidState))
		return
	}

	if s.state == nil {
		s.state = s.Game.initialState()
	}
	s.state.Merge(partial)
	s.touch()

	h.broadcast(s, c, EventInitialGameState, s.state)
}

// sendTo queues one event for c.
func (h *Hub) sendTo(c *Client, event string, data any) {
	h.deliver(newEncoder(event, data), c)
}

// broadcast queues one event for every member of s except the given one,
// and reports how many members it was queued for.
func (h *Hub) broadcast(s *Session, except *Client, event string, data any) int {
	enc := newEncoder(event, data)

	n := 0
	for _, m := range s.members {
		if m == except {
			continue
		}
		h.deliver(enc, m)
		n++
	}

	return n
}

func (h *Hub) deliver(enc *encoder, c *Client) {
	frame, err := enc.frame(c.codec)
	if err != nil {
		logf(h.cfg, "RELAY: Unable to encode %s for %s: %v", enc.msg.Type, c.id, err)
		return
	}

	select {
	case c.send <- frame:
	default:
		h.evict(c)
	}
}

func (h *Hub) sendError(c *Client, err error) {
	h.sendTo(c, EventError, map[string]any{
		"code":    errorCode(err),
		"message": err.Error(),
	})
}

// evict marks a client whose queue is full. It is torn down once the
// current handler returns, so handlers never see membership change under
// them.
func (h *Hub) evict(c *Client) {
	if slices.Contains(h.evicted, c) {
		return
	}
	h.evicted = append(h.evicted, c)
}

func (h *Hub) flushEvictions() {
	for len(h.evicted) > 0 {
		c := h.evicted[0]
		h.evicted = h.evicted[1:]

		logf(h.cfg, "LEAVE: Dropping slow connection %s", c.id)
		h.disconnect(c)
	}
}

// drop deregisters c and closes its queue, which makes its write pump
// close the socket.
func (h *Hub) drop(c *Client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) reap(now time.Time) {
	for _, s := range h.store.List() {
		if now.Sub(s.lastActive) > h.cfg.sessionTimeout {
			logf(h.cfg, "REAP: Closing idle session %s", s.ID)
			h.closeSession(s, "idle")
		}
	}
}

func (h *Hub) shutdown() {
	for _, s := range h.store.List() {
		h.closeSession(s, "shutdown")
	}
	for c := range h.clients {
		h.drop(c)
	}
}

// Sessions returns a summary of every live session.
func (h *Hub) Sessions(ctx context.Context) ([]SessionInfo, error) {
	var infos []SessionInfo

	err := h.Do(ctx, func() {
		for _, s := range h.store.List() {
			infos = append(infos, s.info(false))
		}
	})

	return infos, err
}

// Session returns one session, including a copy of its state.
func (h *Hub) Session(ctx context.Context, id string) (SessionInfo, error) {
	var (
		info  SessionInfo
		found bool
	)

	err := h.Do(ctx, func() {
		var s *Session
		if s, found = h.store.Get(id); found {
			info = s.info(true)
		}
	})
	if err != nil {
		return SessionInfo{}, err
	}
	if !found {
		return SessionInfo{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	return info, nil
}

// CloseSession ends a session as if its host had left.
func (h *Hub) CloseSession(ctx context.Context, id string) error {
	found := false

	err := h.Do(ctx, func() {
		var s *Session
		if s, found = h.store.Get(id); found {
			h.closeSession(s, "closed")
			h.flushEvictions()
		}
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	return nil
}

func (h *Hub) Games() []string {
	return h.store.registry.Names()
}

func roleData(c *Client) map[string]any {
	data := map[string]any{
		"role":     string(c.role),
		"playerId": c.id,
	}
	if c.session != nil {
		data["sessionId"] = c.session.ID
	}

	return data
}

func playerCount(s *Session) map[string]any {
	return map[string]any{"count": len(s.members)}
}

// fieldString reads a string field, accepting numbers as well since room
// numbers often arrive unquoted.
func fieldString(obj State, key string) string {
	switch v := obj[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
