/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

// disconnect handles a closed socket: the client is deregistered, its queue
// closed, and its session membership torn down.
func (h *Hub) disconnect(c *Client) {
	if !h.clients[c] {
		return
	}

	h.drop(c)
	h.onDisconnect(c)
}

// onDisconnect removes c from its session. Losing the host closes the
// session (or hands it to the oldest viewer when host migration is on);
// losing the last member removes it. Safe on sessions that never got a
// host or state.
func (h *Hub) onDisconnect(c *Client) {
	s := c.session
	if s == nil {
		return
	}

	wasHost := s.host == c

	s.removeMember(c)
	c.session = nil
	c.role = RoleNone

	if s.state != nil && s.Game.OnLeave != nil {
		s.Game.OnLeave(s.state, c.id)
	}
	s.touch()

	logf(h.cfg, "LEAVE: %s left %s (%d remaining)", c.id, s.ID, len(s.members))

	if wasHost {
		s.host = nil

		if h.cfg.hostMigration && len(s.members) > 0 {
			h.migrateHost(s)
			return
		}

		h.closeSession(s, "host_left")
		return
	}

	if len(s.members) == 0 {
		h.stopTicking(s)
		h.store.Remove(s)
		logf(h.cfg, "CLOSE: Session %s is empty", s.ID)
		return
	}

	h.broadcast(s, nil, EventPlayerCount, playerCount(s))
}

// migrateHost promotes the longest-standing member. State and timers carry
// over untouched.
func (h *Hub) migrateHost(s *Session) {
	next := s.members[0]
	s.host = next
	next.role = RoleHost

	logf(h.cfg, "JOIN: %s promoted to host of %s", next.id, s.ID)

	h.sendTo(next, EventRole, roleData(next))
	h.broadcast(s, next, EventHostChanged, map[string]any{"playerId": next.id})
	h.broadcast(s, nil, EventPlayerCount, playerCount(s))
}

// closeSession ends s: members are told why, timers are cancelled, the
// remaining connections are dropped and only then is s forgotten.
func (h *Hub) closeSession(s *Session, reason string) {
	h.broadcast(s, nil, EventSessionClosed, map[string]any{
		"sessionId": s.ID,
		"reason":    reason,
	})

	h.stopTicking(s)

	for _, m := range s.members {
		m.session = nil
		m.role = RoleNone
		h.drop(m)
	}
	s.members = nil
	s.host = nil

	h.store.Remove(s)

	logf(h.cfg, "CLOSE: Session %s closed (%s)", s.ID, reason)
}
