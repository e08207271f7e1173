/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

// relay applies one game event from c to s and forwards the result to the
// other members. It reports whether the event was accepted; rejected
// events leave no trace beyond a verbose log line.
func (h *Hub) relay(s *Session, c *Client, event string, payload any) bool {
	rule := s.Game.rule(event)
	isHost := s.host == c

	if rule.Authority == HostOnly && !isHost {
		logf(h.cfg, "RELAY: Dropped host-only %s from %s in %s", event, c.id, s.ID)
		return false
	}

	if s.state == nil {
		s.state = s.Game.initialState()
	}

	out := payload
	if rule.Apply != nil {
		delta, err := rule.Apply(&EventContext{
			State:   s.state,
			Payload: payload,
			Sender:  c.id,
			Host:    isHost,
		})
		if err != nil {
			logf(h.cfg, "RELAY: Dropped %s from %s in %s: %v", event, c.id, s.ID, err)
			return false
		}
		if delta != nil {
			out = delta
		}
	}

	s.touch()

	for _, name := range rule.Starts {
		if spec, ok := s.Game.tick(name); ok && h.startTicking(s, spec) {
			logf(h.cfg, "TICK: Started %s in %s", name, s.ID)
		}
	}

	if rule.Broadcast == Full {
		out = s.state
	}

	emit := event
	if rule.Emit != "" {
		emit = rule.Emit
	}

	h.broadcast(s, c, emit, out)

	return true
}
