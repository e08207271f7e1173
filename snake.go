/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"
)

const (
	snakeGrid        = 45
	snakeTick        = 100 * time.Millisecond
	snakeApples      = 12
	snakeGoldApples  = 3
	snakeAppleScore  = 10
	snakeGoldScore   = 50
	snakeGoldGrowth  = 5
	snakeFoodApple   = "apple"
	snakeFoodGolden  = "golden_apple"
	snakeSeatsPerMap = 4
)

type cell struct{ x, y float64 }

var snakeStarts = [snakeSeatsPerMap]struct{ pos, dir cell }{
	{cell{1, 1}, cell{1, 0}},
	{cell{snakeGrid - 2, 1}, cell{-1, 0}},
	{cell{1, snakeGrid - 2}, cell{1, 0}},
	{cell{snakeGrid - 2, snakeGrid - 2}, cell{-1, 0}},
}

func point(c cell) map[string]any {
	return map[string]any{"x": c.x, "y": c.y}
}

func cellOf(v any) cell {
	m, _ := v.(map[string]any)
	return cell{State(m).Number("x"), State(m).Number("y")}
}

func randomFood(kind string) map[string]any {
	return map[string]any{
		"x":    float64(rand.IntN(snakeGrid)),
		"y":    float64(rand.IntN(snakeGrid)),
		"type": kind,
	}
}

func snakeFoods() []any {
	foods := make([]any, 0, snakeApples+snakeGoldApples)
	for range snakeApples {
		foods = append(foods, randomFood(snakeFoodApple))
	}
	for range snakeGoldApples {
		foods = append(foods, randomFood(snakeFoodGolden))
	}

	return foods
}

// snakeSeat places a new player at the first free corner.
func snakeSeat(st State, memberID string) {
	players := st.Object("players")

	taken := make([]float64, 0, len(players))
	for _, p := range players {
		if m, ok := p.(map[string]any); ok {
			taken = append(taken, State(m).Number("seat"))
		}
	}

	for seat, start := range snakeStarts {
		if slices.Contains(taken, float64(seat)) {
			continue
		}
		players[memberID] = map[string]any{
			"seat":      float64(seat),
			"snake":     []any{point(start.pos)},
			"direction": point(start.dir),
			"alive":     true,
			"score":     0.0,
		}
		return
	}
}

func snakeDirection(ec *EventContext) (any, error) {
	dir, ok := asObject(ec.Payload)
	if !ok {
		return nil, fmt.Errorf("direction must be an object")
	}
	next := cell{dir.Number("x"), dir.Number("y")}
	if (next.x != 0) == (next.y != 0) || next.x < -1 || next.x > 1 || next.y < -1 || next.y > 1 {
		return nil, fmt.Errorf("invalid direction %v", next)
	}

	raw, ok := ec.State.Object("players")[ec.Sender].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("player has no snake")
	}
	p := State(raw)
	if !p.Bool("alive") {
		return nil, fmt.Errorf("player is not alive")
	}

	cur := cellOf(p["direction"])
	if next.x == -cur.x && next.y == -cur.y {
		return nil, fmt.Errorf("cannot reverse")
	}
	p["direction"] = point(next)

	return map[string]any{"playerId": ec.Sender, "direction": point(next)}, nil
}

func snakeStep(st State) TickResult {
	players := st.Object("players")

	snakes := make(map[string]State, len(players))
	ids := make([]string, 0, len(players))
	for id, v := range players {
		if m, ok := v.(map[string]any); ok {
			snakes[id] = State(m)
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	occupied := map[cell]bool{}
	for _, id := range ids {
		for _, seg := range snakes[id].List("snake") {
			occupied[cellOf(seg)] = true
		}
	}

	foods := st.List("foods")

	for _, id := range ids {
		p := snakes[id]
		if !p.Bool("alive") {
			continue
		}

		body := p.List("snake")
		if len(body) == 0 {
			continue
		}
		head, dir := cellOf(body[0]), cellOf(p["direction"])
		next := cell{head.x + dir.x, head.y + dir.y}

		if next.x < 0 || next.x >= snakeGrid || next.y < 0 || next.y >= snakeGrid || occupied[next] {
			p["alive"] = false
			continue
		}

		grow := 0
		for i, f := range foods {
			if cellOf(f) != next {
				continue
			}
			food, _ := asObject(f)
			if food.Text("type") == snakeFoodGolden {
				p["score"] = p.Number("score") + snakeGoldScore
				grow = snakeGoldGrowth
			} else {
				p["score"] = p.Number("score") + snakeAppleScore
				grow = 1
			}
			foods[i] = randomFood(food.Text("type"))
			break
		}

		body = append([]any{point(next)}, body...)
		for ; grow > 1; grow-- {
			body = append(body, body[len(body)-1])
		}
		if grow == 0 {
			tail := cellOf(body[len(body)-1])
			body = body[:len(body)-1]
			delete(occupied, tail)
		}
		occupied[next] = true
		p["snake"] = body
	}
	st["foods"] = foods

	alive := 0
	for _, id := range ids {
		if snakes[id].Bool("alive") {
			alive++
		}
	}

	done := len(ids) > 0 && (alive == 0 || (len(ids) > 1 && alive <= 1))

	return TickResult{Event: "gameState", Data: st, Done: done}
}

func snakeGame() *Game {
	return &Game{
		Name: "snake",
		InitialState: func() State {
			return State{
				"gridSize":   float64(snakeGrid),
				"players":    map[string]any{},
				"foods":      snakeFoods(),
				"isGameOver": false,
			}
		},
		Ticks: []TickSpec{
			{Name: "tick", Interval: snakeTick, EndsGame: true, Step: snakeStep},
		},
		Events: map[string]EventRule{
			"startGame": {
				Authority: HostOnly,
				Broadcast: Delta,
				Starts:    []string{"tick"},
			},
			"direction": {
				Authority: Open,
				Broadcast: Delta,
				Apply:     snakeDirection,
			},
		},
		OnJoin: snakeSeat,
		OnLeave: func(st State, memberID string) {
			delete(st.Object("players"), memberID)
		},
	}
}
