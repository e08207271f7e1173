/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	bombActive   = "active"
	bombDefused  = "defused"
	bombExploded = "exploded"
	bombFuse     = 30
)

var bombWires = []string{"blue", "red"}

func bombGame() *Game {
	return &Game{
		Name: "bomb",
		InitialState: func() State {
			return State{
				"status":     bombActive,
				"defuseWire": bombWires[rand.IntN(len(bombWires))],
				"timeLeft":   float64(bombFuse),
				"isGameOver": false,
			}
		},
		Ticks: []TickSpec{
			{
				Name:     "fuse",
				Interval: time.Second,
				EndsGame: true,
				Step: func(st State) TickResult {
					if st.Text("status") != bombActive {
						return TickResult{Done: true, Terminal: "bombFinished"}
					}
					left := max(st.Number("timeLeft")-1, 0)
					st["timeLeft"] = left
					if left <= 0 {
						st["status"] = bombExploded
						return TickResult{Event: "bombStatusUpdate", Data: bombExploded, Done: true, Terminal: "bombFinished"}
					}
					return TickResult{Event: "updateTimer", Data: left}
				},
			},
		},
		AutoStart: []string{"fuse"},
		Events: map[string]EventRule{
			"wireCut": {
				Authority: HostOnly,
				Broadcast: Delta,
				Emit:      "bombStatusUpdate",
				Apply: func(ec *EventContext) (any, error) {
					if ec.State.Text("status") != bombActive {
						return nil, fmt.Errorf("bomb is already %s", ec.State.Text("status"))
					}
					color, ok := ec.Payload.(string)
					if !ok {
						obj, _ := asObject(ec.Payload)
						color = obj.Text("color")
					}
					if color == "" {
						return nil, fmt.Errorf("missing wire color")
					}
					status := bombExploded
					if color == ec.State.Text("defuseWire") {
						status = bombDefused
					}
					ec.State["status"] = status
					ec.State["cutWire"] = color
					return status, nil
				},
			},
		},
	}
}
