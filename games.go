/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"slices"
	"strings"
	"time"
)

type Authority int

const (
	// HostOnly events are dropped unless they come from the session host.
	HostOnly Authority = iota
	// Open events are accepted from any member.
	Open
)

type BroadcastMode int

const (
	// Delta forwards the event payload, or the delta returned by Apply.
	Delta BroadcastMode = iota
	// Full sends the whole session state after Apply.
	Full
)

// EventContext is handed to EventRule.Apply.
type EventContext struct {
	State   State
	Payload any
	Sender  string
	Host    bool
}

// EventRule is the fixed relay policy for one event name.
type EventRule struct {
	Authority Authority
	Broadcast BroadcastMode
	// Emit renames the outgoing event; empty keeps the inbound name.
	Emit string
	// Apply mutates state. A non-nil return value replaces the payload in
	// Delta broadcasts.
	Apply func(ec *EventContext) (any, error)
	// Starts names tick streams to start once the event is accepted.
	Starts []string
}

// TickResult reports what a tick did.
type TickResult struct {
	Event string
	Data  any
	// Done is the stream's completion predicate.
	Done bool
	// Terminal overrides the "gameOver" event sent on completion.
	Terminal string
}

// TickSpec describes one named recurring action owned by a session.
type TickSpec struct {
	Name     string
	Interval time.Duration
	// Jitter adds a random [0, Jitter) delay on top of Interval.
	Jitter   time.Duration
	Step     func(st State) TickResult
	EndsGame bool
}

// Game binds a game type to its state defaults, tick streams and event rules.
type Game struct {
	Name         string
	InitialState func() State
	Ticks        []TickSpec
	// AutoStart names tick streams started when the host is assigned.
	AutoStart []string
	Events    map[string]EventRule
	OnJoin    func(st State, memberID string)
	OnLeave   func(st State, memberID string)
}

func (g *Game) rule(event string) EventRule {
	if r, ok := g.Events[event]; ok {
		return r
	}

	return EventRule{Authority: HostOnly, Broadcast: Delta}
}

func (g *Game) tick(name string) (TickSpec, bool) {
	for _, t := range g.Ticks {
		if t.Name == name {
			return t, true
		}
	}

	return TickSpec{}, false
}

func (g *Game) initialState() State {
	if g.InitialState == nil {
		return State{}
	}

	return g.InitialState()
}

// Registry maps game type names, case-insensitively, to games.
type Registry struct {
	games map[string]*Game
	order []string
}

func NewRegistry(games ...*Game) *Registry {
	r := &Registry{games: make(map[string]*Game, len(games))}
	for _, g := range games {
		r.Register(g)
	}

	return r
}

// Register adds or replaces g.
func (r *Registry) Register(g *Game) {
	key := strings.ToLower(g.Name)
	if _, exists := r.games[key]; !exists {
		r.order = append(r.order, g.Name)
	}
	r.games[key] = g
}

func (r *Registry) Lookup(name string) (*Game, bool) {
	g, ok := r.games[strings.ToLower(strings.TrimSpace(name))]
	return g, ok
}

// Names returns the registered game types in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

func defaultRegistry() *Registry {
	return NewRegistry(
		rpsGame(),
		platformerGame(),
		alienShooterGame(),
		bombGame(),
		mugunghwaGame(),
		snakeGame(),
	)
}
