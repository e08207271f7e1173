/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"time"
)

const (
	dollFinish  = 95.0
	dollMessage = "무궁화 꽃이 피었습니다"
)

func dollStep(st State) TickResult {
	looking := !st.Bool("isLooking")
	st["isLooking"] = looking

	data := map[string]any{"isLooking": looking}
	if !looking {
		data["dollMessage"] = dollMessage
	}

	players := st.Object("players")
	active := 0
	for _, p := range players {
		if m, ok := p.(map[string]any); ok && State(m).Bool("active") {
			active++
		}
	}

	return TickResult{Event: "dollState", Data: data, Done: len(players) > 0 && active == 0}
}

// dollMove advances the sender by one step. Moving while the doll is
// looking eliminates the player.
func dollMove(ec *EventContext) (any, error) {
	raw, ok := ec.State.Object("players")[ec.Sender].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("player is not in the game")
	}
	p := State(raw)

	update := map[string]any{"playerId": ec.Sender}

	if !p.Bool("active") {
		update["position"] = p.Number("position")
		update["active"] = false
		return update, nil
	}

	if ec.State.Bool("isLooking") {
		p["active"] = false
		p["dead"] = true
	} else {
		pos := min(p.Number("position")+1, dollFinish)
		p["position"] = pos
		if pos >= dollFinish {
			p["active"] = false
			p["passed"] = true
		}
	}

	update["position"] = p.Number("position")
	update["active"] = p.Bool("active")
	update["passed"] = p.Bool("passed")
	update["dead"] = p.Bool("dead")

	return update, nil
}

func mugunghwaGame() *Game {
	return &Game{
		Name: "mugunghwa",
		InitialState: func() State {
			return State{
				"isLooking":  false,
				"players":    map[string]any{},
				"isGameOver": false,
			}
		},
		Ticks: []TickSpec{
			{
				Name:     "doll",
				Interval: 2 * time.Second,
				Jitter:   2 * time.Second,
				EndsGame: true,
				Step:     dollStep,
			},
		},
		Events: map[string]EventRule{
			"startGame": {
				Authority: HostOnly,
				Broadcast: Delta,
				Starts:    []string{"doll"},
			},
			"move": {
				Authority: Open,
				Broadcast: Delta,
				Emit:      "updatePlayerPosition",
				Apply:     dollMove,
			},
		},
		OnJoin: func(st State, memberID string) {
			st.Object("players")[memberID] = map[string]any{
				"position": 0.0,
				"active":   true,
				"passed":   false,
				"dead":     false,
			}
		},
		OnLeave: func(st State, memberID string) {
			delete(st.Object("players"), memberID)
		},
	}
}
