/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"math/rand/v2"
	"time"
)

// tickStream is the handle for one running TickSpec. Its goroutine only
// sleeps and posts; the step itself runs on the reactor.
type tickStream struct {
	spec TickSpec
	stop chan struct{}
}

func (ts *tickStream) next() time.Duration {
	d := ts.spec.Interval
	if ts.spec.Jitter > 0 {
		d += rand.N(ts.spec.Jitter)
	}

	return d
}

func (ts *tickStream) run(s *Session, out chan<- tickEvent) {
	timer := time.NewTimer(ts.next())
	defer timer.Stop()

	for {
		select {
		case <-ts.stop:
			return
		case <-timer.C:
		}

		select {
		case out <- tickEvent{session: s, stream: ts}:
		case <-ts.stop:
			return
		}

		timer.Reset(ts.next())
	}
}

// startTicking starts spec on s unless a stream with the same name is
// already running. It reports whether a new stream was started.
func (h *Hub) startTicking(s *Session, spec TickSpec) bool {
	if spec.Interval <= 0 || spec.Step == nil {
		return false
	}
	if _, running := s.timers[spec.Name]; running {
		return false
	}

	ts := &tickStream{spec: spec, stop: make(chan struct{})}
	s.timers[spec.Name] = ts

	go ts.run(s, h.ticks)

	return true
}

func (h *Hub) stopStream(s *Session, name string) {
	ts, ok := s.timers[name]
	if !ok {
		return
	}

	close(ts.stop)
	delete(s.timers, name)
}

// stopTicking cancels every stream owned by s.
func (h *Hub) stopTicking(s *Session) {
	for name := range s.timers {
		h.stopStream(s, name)
	}
}

// runTick executes one posted tick. A tick whose stream is no longer the
// one registered under its name was cancelled while in flight and is
// discarded, so a torn-down session never sees its timers fire.
func (h *Hub) runTick(te tickEvent) {
	s, ts := te.session, te.stream
	if s.timers[ts.spec.Name] != ts || s.state == nil {
		return
	}

	res := ts.spec.Step(s.state)

	if res.Event != "" {
		h.broadcast(s, nil, res.Event, res.Data)
	}

	if !res.Done {
		return
	}

	s.state["isGameOver"] = true

	terminal := res.Terminal
	if terminal == "" {
		terminal = EventGameOver
	}
	h.broadcast(s, nil, terminal, s.state)

	if ts.spec.EndsGame {
		h.stopTicking(s)
	} else {
		h.stopStream(s, ts.spec.Name)
	}

	logf(h.cfg, "TICK: %s finished in %s", ts.spec.Name, s.ID)
}
