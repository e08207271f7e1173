/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Role string

const (
	RoleNone   Role = ""
	RoleHost   Role = "host"
	RoleViewer Role = "viewer"
)

// SessionKey groups sessions by game type and room number.
type SessionKey struct {
	GameType   string
	RoomNumber string
}

func newSessionKey(gameType, roomNumber string) (SessionKey, error) {
	k := SessionKey{
		GameType:   strings.TrimSpace(gameType),
		RoomNumber: strings.TrimSpace(roomNumber),
	}
	if k.GameType == "" || k.RoomNumber == "" {
		return SessionKey{}, fmt.Errorf("%w: game type and room number are required", ErrInvalidSessionKey)
	}

	return k, nil
}

// id returns the session id for the n-th concurrent session under k.
func (k SessionKey) id(n int) string {
	if n <= 1 {
		return k.GameType + "-" + k.RoomNumber
	}

	return fmt.Sprintf("%s-%s-%d", k.GameType, k.RoomNumber, n)
}

// Session is one running game instance. It is owned by the hub goroutine
// and never touched from anywhere else.
type Session struct {
	ID   string
	Key  SessionKey
	Game *Game

	members []*Client
	host    *Client
	state   State
	timers  map[string]*tickStream

	createdAt  time.Time
	lastActive time.Time
}

func newSession(id string, key SessionKey, game *Game) *Session {
	now := time.Now()

	return &Session{
		ID:         id,
		Key:        key,
		Game:       game,
		timers:     make(map[string]*tickStream),
		createdAt:  now,
		lastActive: now,
	}
}

func (s *Session) Members() []*Client {
	return slices.Clone(s.members)
}

func (s *Session) Host() *Client {
	return s.host
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) isMember(c *Client) bool {
	return slices.Contains(s.members, c)
}

func (s *Session) removeMember(c *Client) bool {
	i := slices.Index(s.members, c)
	if i < 0 {
		return false
	}
	s.members = slices.Delete(s.members, i, i+1)

	return true
}

// activeTimers returns the names of running tick streams, sorted.
func (s *Session) activeTimers() []string {
	names := make([]string, 0, len(s.timers))
	for name := range s.timers {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

func (s *Session) touch() {
	s.lastActive = time.Now()
}

// SessionInfo is a point-in-time copy of a session, safe to hand outside
// the hub goroutine.
type SessionInfo struct {
	ID         string    `json:"id"`
	GameType   string    `json:"gameType"`
	RoomNumber string    `json:"roomNumber"`
	Host       string    `json:"host,omitempty"`
	Members    []string  `json:"members"`
	Timers     []string  `json:"timers"`
	State      State     `json:"state,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
}

func (s *Session) info(withState bool) SessionInfo {
	info := SessionInfo{
		ID:         s.ID,
		GameType:   s.Key.GameType,
		RoomNumber: s.Key.RoomNumber,
		Members:    make([]string, 0, len(s.members)),
		Timers:     s.activeTimers(),
		CreatedAt:  s.createdAt,
		LastActive: s.lastActive,
	}
	if s.host != nil {
		info.Host = s.host.id
	}
	for _, m := range s.members {
		info.Members = append(info.Members, m.id)
	}
	if withState {
		info.State = s.state.Clone()
	}

	return info
}
