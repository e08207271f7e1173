/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"slices"
)

// SessionStore indexes live sessions by key and by id. Like the sessions it
// holds, it belongs to the hub goroutine.
type SessionStore struct {
	registry   *Registry
	maxPlayers int

	byKey map[SessionKey][]*Session
	byID  map[string]*Session
	order []*Session
}

func NewSessionStore(registry *Registry, maxPlayers int) *SessionStore {
	if maxPlayers < 1 {
		maxPlayers = defaultMaxPlayers
	}

	return &SessionStore{
		registry:   registry,
		maxPlayers: maxPlayers,
		byKey:      make(map[SessionKey][]*Session),
		byID:       make(map[string]*Session),
	}
}

// FindOrCreate returns the oldest session under (gameType, roomNumber) that
// still has room, creating and registering a fresh one if every session for
// the key is full.
func (st *SessionStore) FindOrCreate(gameType, roomNumber string) (*Session, error) {
	key, err := newSessionKey(gameType, roomNumber)
	if err != nil {
		return nil, err
	}

	game, ok := st.registry.Lookup(key.GameType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGameType, key.GameType)
	}
	key.GameType = game.Name

	for _, s := range st.byKey[key] {
		if len(s.members) < st.maxPlayers {
			return s, nil
		}
	}

	n := 1
	for {
		if _, taken := st.byID[key.id(n)]; !taken {
			break
		}
		n++
	}

	s := newSession(key.id(n), key, game)

	st.byKey[key] = append(st.byKey[key], s)
	st.byID[s.ID] = s
	st.order = append(st.order, s)

	return s, nil
}

// Remove deregisters s. Removing a session twice, or a nil session, is a no-op.
func (st *SessionStore) Remove(s *Session) {
	if s == nil || st.byID[s.ID] != s {
		return
	}

	delete(st.byID, s.ID)

	remaining := slices.DeleteFunc(st.byKey[s.Key], func(e *Session) bool { return e == s })
	if len(remaining) == 0 {
		delete(st.byKey, s.Key)
	} else {
		st.byKey[s.Key] = remaining
	}

	st.order = slices.DeleteFunc(st.order, func(e *Session) bool { return e == s })
}

func (st *SessionStore) Get(id string) (*Session, bool) {
	s, ok := st.byID[id]
	return s, ok
}

// List returns live sessions in creation order.
func (st *SessionStore) List() []*Session {
	return slices.Clone(st.order)
}

func (st *SessionStore) Len() int {
	return len(st.byID)
}

func (st *SessionStore) MaxPlayers() int {
	return st.maxPlayers
}
