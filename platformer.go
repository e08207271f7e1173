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
	platformGravity      = 0.2
	platformJump         = 6.0
	platformPlayerSize   = 40.0
	platformWidth        = 1200.0
	platformHeight       = 800.0
	platformKnockback    = 50.0
	platformRocketSpeed  = 2.4
	platformImmuneTicks  = 60
	platformRocketPeriod = 5000 * time.Millisecond
	platformStepPeriod   = time.Second / 60
	platformClockPeriod  = time.Second
)

func rect(x, y, w, h float64) map[string]any {
	return map[string]any{"x": x, "y": y, "width": w, "height": h}
}

func platformerState() State {
	return State{
		"player": map[string]any{
			"x":           0.0,
			"y":           600.0,
			"velY":        0.0,
			"isJumping":   false,
			"direction":   0.0,
			"isWalking":   false,
			"onLadder":    false,
			"isImmune":    false,
			"immuneTicks": 0.0,
		},
		"platforms": []any{
			rect(0, 700, 300, 20), rect(400, 700, 300, 20), rect(800, 700, 300, 20),
			rect(0, 500, 100, 20), rect(150, 500, 70, 20), rect(300, 500, 200, 20),
			rect(400, 500, 100, 20), rect(600, 500, 100, 20), rect(800, 500, 100, 20),
			rect(1000, 500, 100, 20), rect(0, 300, 100, 20), rect(170, 300, 100, 20),
			rect(350, 300, 130, 20), rect(400, 300, 50, 20), rect(600, 300, 100, 20),
			rect(800, 300, 50, 20), rect(900, 280, 50, 20), rect(1000, 250, 100, 20),
		},
		"ladders": []any{
			map[string]any{"x": 1000.0, "y": 500.0, "height": 200.0},
			map[string]any{"x": 0.0, "y": 300.0, "height": 200.0},
		},
		"rockets": []any{},
		"balls": []any{
			map[string]any{"x": 850.0, "y": 150.0, "initialY": 650.0, "velY": -1.5},
			map[string]any{"x": 400.0, "y": 100.0, "initialY": 450.0, "velY": -1.5},
			map[string]any{"x": 400.0, "y": 100.0, "initialY": 250.0, "velY": -1.5},
			map[string]any{"x": 800.0, "y": 100.0, "initialY": 250.0, "velY": -1.0},
		},
		"portal":     rect(1100, 200, 10, 60),
		"timeLeft":   60.0,
		"isGameOver": false,
		"winState":   false,
	}
}

func objects(list []any) []State {
	out := make([]State, 0, len(list))
	for _, v := range list {
		if m, ok := v.(map[string]any); ok {
			out = append(out, State(m))
		}
	}

	return out
}

func overlaps(ax, ay, aw, ah, bx, by, bw, bh float64) bool {
	return ax < bx+bw && ax+aw > bx && ay < by+bh && ay+ah > by
}

// platformerInput applies one key press to the player.
func platformerInput(st State, key string) {
	p := st.Object("player")
	x := p.Number("x")

	switch key {
	case "ArrowLeft":
		p["direction"] = -1.0
		p["isWalking"] = true
		x -= 10
	case "ArrowRight":
		p["direction"] = 1.0
		p["isWalking"] = true
		x += 10
	case " ", "Space":
		if !p.Bool("isJumping") {
			p["velY"] = -platformJump
			p["isJumping"] = true
		}
	case "g":
		y := p.Number("y")
		for _, l := range objects(st.List("ladders")) {
			lx, ly, lh := l.Number("x"), l.Number("y"), l.Number("height")
			if x+platformPlayerSize > lx && x < lx+20 && y+platformPlayerSize > ly && y < ly+lh-20 {
				p["y"] = ly - platformPlayerSize
				p["velY"] = 0.0
				p["isJumping"] = false
				p["onLadder"] = true
			}
		}
	}

	p["x"] = clamp(x, 0, platformWidth-platformPlayerSize)
}

func platformerStep(st State) TickResult {
	p := st.Object("player")

	x, y := p.Number("x"), p.Number("y")
	velY := p.Number("velY") + platformGravity
	prevBottom := y + platformPlayerSize
	y += velY

	if p.Bool("isJumping") {
		x = clamp(x+2*p.Number("direction"), 0, platformWidth-platformPlayerSize)
	}

	onPlatform := false
	if velY >= 0 {
		for _, pl := range objects(st.List("platforms")) {
			top := pl.Number("y")
			if prevBottom <= top && y+platformPlayerSize >= top &&
				x+platformPlayerSize > pl.Number("x") && x < pl.Number("x")+pl.Number("width") {
				y = top - platformPlayerSize
				velY = 0
				onPlatform = true
				break
			}
		}
	}

	p["x"], p["y"], p["velY"] = x, y, velY
	p["isJumping"] = !onPlatform && p.Bool("isJumping")
	p["onLadder"] = false

	rockets := make([]any, 0, len(st.List("rockets")))
	for _, r := range objects(st.List("rockets")) {
		rx := r.Number("x")
		if r.Text("direction") == "left" {
			rx -= platformRocketSpeed
		} else {
			rx += platformRocketSpeed
		}
		if rx <= 0 || rx >= platformWidth {
			continue
		}
		r["x"] = rx
		rockets = append(rockets, map[string]any(r))
	}
	st["rockets"] = rockets

	for _, b := range objects(st.List("balls")) {
		by, vy := b.Number("y")+b.Number("velY"), b.Number("velY")
		if by <= 100 || by >= b.Number("initialY") {
			vy = -vy
		}
		b["y"], b["velY"] = by, vy
	}

	if ticks := p.Number("immuneTicks"); ticks > 0 {
		p["immuneTicks"] = ticks - 1
	} else {
		p["isImmune"] = false
		hit := false
		for _, r := range objects(st.List("rockets")) {
			hit = hit || overlaps(x, y, platformPlayerSize, platformPlayerSize, r.Number("x"), r.Number("y"), 30, 10)
		}
		for _, b := range objects(st.List("balls")) {
			hit = hit || overlaps(x, y, platformPlayerSize, platformPlayerSize, b.Number("x"), b.Number("y"), 50, 50)
		}
		if hit {
			p["x"] = clamp(x-platformKnockback*p.Number("direction"), 0, platformWidth-platformPlayerSize)
			p["isImmune"] = true
			p["immuneTicks"] = float64(platformImmuneTicks)
		}
	}

	portal := st.Object("portal")
	if overlaps(p.Number("x"), y, platformPlayerSize, platformPlayerSize,
		portal.Number("x"), portal.Number("y"), portal.Number("width"), portal.Number("height")) {
		st["winState"] = true
		return TickResult{Event: "gameStateUpdate", Data: st, Done: true}
	}

	if y+platformPlayerSize > platformHeight {
		return TickResult{Event: "gameStateUpdate", Data: st, Done: true}
	}

	return TickResult{Event: "gameStateUpdate", Data: st}
}

func newRocket() map[string]any {
	dir, x := "right", 0.0
	if rand.IntN(2) == 0 {
		dir, x = "left", platformWidth-1
	}

	return map[string]any{
		"x":         x,
		"y":         100 + rand.Float64()*550,
		"direction": dir,
	}
}

func platformerGame() *Game {
	return &Game{
		Name:         "platformer",
		InitialState: platformerState,
		Ticks: []TickSpec{
			{
				Name:     "countdown",
				Interval: platformClockPeriod,
				EndsGame: true,
				Step: func(st State) TickResult {
					left := max(st.Number("timeLeft")-1, 0)
					st["timeLeft"] = left
					return TickResult{Event: "updateTimer", Data: left, Done: left <= 0}
				},
			},
			{
				Name:     "physics",
				Interval: platformStepPeriod,
				EndsGame: true,
				Step:     platformerStep,
			},
			{
				Name:     "rockets",
				Interval: platformRocketPeriod,
				Step: func(st State) TickResult {
					st["rockets"] = append(st.List("rockets"), newRocket())
					return TickResult{Event: "updateRockets", Data: st["rockets"]}
				},
			},
		},
		Events: map[string]EventRule{
			"platformerStart": {
				Authority: HostOnly,
				Broadcast: Delta,
				Starts:    []string{"countdown", "physics", "rockets"},
			},
			"playerInput": {
				Authority: HostOnly,
				Broadcast: Full,
				Emit:      "gameStateUpdate",
				Apply: func(ec *EventContext) (any, error) {
					key, ok := ec.Payload.(string)
					if !ok {
						obj, _ := asObject(ec.Payload)
						key = obj.Text("input")
					}
					if key == "" {
						return nil, fmt.Errorf("missing input")
					}
					platformerInput(ec.State, key)
					return nil, nil
				},
			},
			"spawnRocket": {
				Authority: HostOnly,
				Broadcast: Delta,
				Emit:      "updateRockets",
				Apply: func(ec *EventContext) (any, error) {
					rocket, ok := asObject(ec.Payload)
					if !ok {
						rocket = newRocket()
					}
					ec.State["rockets"] = append(ec.State.List("rockets"), map[string]any(rocket))
					return ec.State["rockets"], nil
				},
			},
		},
	}
}
