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
	alienStrongChance  = 0.2
	alienSpecialChance = 0.05
	alienBulletSpeed   = 2.0
	alienShots         = 5
	alienDuration      = 100
)

func alienShooterState() State {
	return State{
		"aliens":            []any{},
		"bullets":           []any{},
		"specialEntities":   []any{},
		"spaceshipPosition": 50.0,
		"timeLeft":          float64(alienDuration),
		"shotsLeft":         float64(alienShots),
		"score":             0.0,
		"isGameOver":        false,
	}
}

func alienSpawn(st State) TickResult {
	id := float64(time.Now().UnixMilli())
	roll := rand.Float64()

	if roll < alienSpecialChance {
		st["specialEntities"] = append(st.List("specialEntities"), map[string]any{
			"id":    id,
			"left":  rand.Float64() * 90,
			"top":   0.0,
			"speed": 0.2,
		})
		return TickResult{Event: "updateSpecialEntities", Data: st["specialEntities"]}
	}

	strong := roll < alienSpecialChance+alienStrongChance
	alien := map[string]any{
		"id":    id,
		"left":  rand.Float64() * 90,
		"top":   0.0,
		"speed": 0.1,
		"type":  "normal",
		"hits":  2.0,
	}
	if strong {
		alien["speed"], alien["type"], alien["hits"] = 0.5, "strong", 3.0
	}
	st["aliens"] = append(st.List("aliens"), alien)

	return TickResult{Event: "updateAliens", Data: st["aliens"]}
}

// alienStep advances every entity and resolves bullet hits.
func alienStep(st State) TickResult {
	bullets := make([]any, 0, len(st.List("bullets")))
	for _, b := range objects(st.List("bullets")) {
		b["top"] = b.Number("top") - alienBulletSpeed
		if b.Number("top") > 0 {
			bullets = append(bullets, map[string]any(b))
		}
	}

	aliens := make([]any, 0, len(st.List("aliens")))
	for _, a := range objects(st.List("aliens")) {
		a["top"] = a.Number("top") + a.Number("speed")
		for i := 0; i < len(bullets); i++ {
			b := State(bullets[i].(map[string]any))
			if overlaps(a.Number("left"), a.Number("top"), 5, 5, b.Number("left"), b.Number("top"), 1, 2) {
				a["hits"] = a.Number("hits") - 1
				bullets = append(bullets[:i], bullets[i+1:]...)
				break
			}
		}
		if a.Number("hits") <= 0 {
			st["score"] = st.Number("score") + 1
			continue
		}
		if a.Number("top") >= 100 {
			st["isGameOver"] = true
			continue
		}
		aliens = append(aliens, map[string]any(a))
	}

	specials := make([]any, 0, len(st.List("specialEntities")))
	for _, e := range objects(st.List("specialEntities")) {
		e["top"] = e.Number("top") + e.Number("speed")
		if e.Number("top") < 100 {
			specials = append(specials, map[string]any(e))
		}
	}

	st["bullets"], st["aliens"], st["specialEntities"] = bullets, aliens, specials

	return TickResult{Event: "updateGameState", Data: st, Done: st.Bool("isGameOver")}
}

func alienShooterGame() *Game {
	return &Game{
		Name:         "alienShooter",
		InitialState: alienShooterState,
		Ticks: []TickSpec{
			{
				Name:     "countdown",
				Interval: time.Second,
				EndsGame: true,
				Step: func(st State) TickResult {
					left := max(st.Number("timeLeft")-1, 0)
					st["timeLeft"] = left
					return TickResult{Event: "updateTimer", Data: left, Done: left <= 0}
				},
			},
			{Name: "spawn", Interval: time.Second, Step: alienSpawn},
			{Name: "step", Interval: 100 * time.Millisecond, EndsGame: true, Step: alienStep},
		},
		AutoStart: []string{"countdown", "spawn", "step"},
		Events: map[string]EventRule{
			"updateGameState": {
				Authority: HostOnly,
				Broadcast: Full,
				Apply: func(ec *EventContext) (any, error) {
					snapshot, ok := asObject(ec.Payload)
					if !ok {
						return nil, fmt.Errorf("game state must be an object")
					}
					ec.State.Merge(snapshot)
					return nil, nil
				},
			},
			"move": {
				Authority: HostOnly,
				Broadcast: Delta,
				Apply: func(ec *EventContext) (any, error) {
					pos, ok := ec.Payload.(float64)
					if !ok {
						return nil, fmt.Errorf("position must be a number")
					}
					ec.State["spaceshipPosition"] = clamp(pos, 0, 100)
					return ec.State["spaceshipPosition"], nil
				},
			},
			"shoot": {
				Authority: HostOnly,
				Broadcast: Delta,
				Emit:      "updateBullets",
				Apply: func(ec *EventContext) (any, error) {
					shots := ec.State.Number("shotsLeft")
					if shots <= 0 {
						return nil, fmt.Errorf("reloading")
					}
					ec.State["shotsLeft"] = shots - 1
					ec.State["bullets"] = append(ec.State.List("bullets"), map[string]any{
						"left": ec.State.Number("spaceshipPosition"),
						"top":  95.0,
					})
					return ec.State["bullets"], nil
				},
			},
			"reload": {
				Authority: HostOnly,
				Broadcast: Delta,
				Apply: func(ec *EventContext) (any, error) {
					ec.State["shotsLeft"] = float64(alienShots)
					return ec.State["shotsLeft"], nil
				},
			},
		},
	}
}
