/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"slices"
	"testing"
)

func TestRegistryLookup(t *testing.T) {
	reg := defaultRegistry()

	for _, name := range []string{"rps", "Platformer", " alienshooter ", "BOMB", "mugunghwa", "snake"} {
		if _, ok := reg.Lookup(name); !ok {
			t.Errorf("Expected %q to be registered", name)
		}
	}
	if _, ok := reg.Lookup("chess"); ok {
		t.Error("Expected chess to be unknown")
	}

	names := reg.Names()
	if len(names) != 6 || names[0] != "rps" {
		t.Errorf("Expected six games in registration order, got %v", names)
	}

	reg.Register(&Game{Name: "RPS"})
	if len(reg.Names()) != 6 {
		t.Error("Expected re-registering a name to replace, not append")
	}
}

func TestDefaultRule(t *testing.T) {
	g := rpsGame()

	rule := g.rule("somethingNew")
	if rule.Authority != HostOnly || rule.Broadcast != Delta || rule.Apply != nil {
		t.Errorf("Expected host-only delta relay for unknown events, got %+v", rule)
	}
}

func TestRPSWinner(t *testing.T) {
	tests := []struct {
		player, computer string
		want             int
	}{
		{rock, rock, rpsDraw},
		{rock, scissors, rpsWin},
		{paper, rock, rpsWin},
		{scissors, paper, rpsWin},
		{rock, paper, rpsLoss},
		{paper, scissors, rpsLoss},
		{scissors, rock, rpsLoss},
	}

	for _, tt := range tests {
		if got := rpsWinner(tt.player, tt.computer); got != tt.want {
			t.Errorf("rpsWinner(%s, %s) = %d, want %d", tt.player, tt.computer, got, tt.want)
		}
	}
}

func TestApplyRPSRound(t *testing.T) {
	st := rpsGame().initialState()

	applyRPSRound(st, rock, scissors)
	applyRPSRound(st, rock, paper)
	applyRPSRound(st, rock, rock)

	if st.Number("playerScore") != 1 || st.Number("computerScore") != 1 {
		t.Errorf("Expected 1-1, got %v-%v", st["playerScore"], st["computerScore"])
	}
	if st.Number("round") != 4 {
		t.Errorf("Expected round 4, got %v", st["round"])
	}
	if st.Number("result") != rpsDraw {
		t.Errorf("Expected last result draw, got %v", st["result"])
	}
}

func TestRPSChoice(t *testing.T) {
	if c, err := rpsChoice(paper); err != nil || c != paper {
		t.Errorf("Expected plain string choice, got %q %v", c, err)
	}
	if c, err := rpsChoice(map[string]any{"choice": scissors}); err != nil || c != scissors {
		t.Errorf("Expected object choice, got %q %v", c, err)
	}
	if _, err := rpsChoice("lizard"); err == nil {
		t.Error("Expected unknown choice to fail")
	}
}

func TestBombWireCut(t *testing.T) {
	cut := bombGame().Events["wireCut"].Apply

	t.Run("right wire defuses", func(t *testing.T) {
		st := State{"status": bombActive, "defuseWire": "red"}
		out, err := cut(&EventContext{State: st, Payload: "red", Host: true})
		if err != nil || out != bombDefused || st.Text("status") != bombDefused {
			t.Errorf("Expected defused, got %v %v %v", out, err, st["status"])
		}
	})

	t.Run("wrong wire explodes", func(t *testing.T) {
		st := State{"status": bombActive, "defuseWire": "red"}
		out, err := cut(&EventContext{State: st, Payload: map[string]any{"color": "blue"}, Host: true})
		if err != nil || out != bombExploded {
			t.Errorf("Expected exploded, got %v %v", out, err)
		}
	})

	t.Run("finished bomb refuses", func(t *testing.T) {
		st := State{"status": bombDefused, "defuseWire": "red"}
		if _, err := cut(&EventContext{State: st, Payload: "blue", Host: true}); err == nil {
			t.Error("Expected a second cut to fail")
		}
	})
}

func TestBombFuse(t *testing.T) {
	g := bombGame()
	fuse, _ := g.tick("fuse")

	st := g.initialState()
	if !slices.Contains(bombWires, st.Text("defuseWire")) {
		t.Errorf("Unexpected defuse wire %q", st.Text("defuseWire"))
	}

	st["timeLeft"] = 2.0
	if res := fuse.Step(st); res.Done || res.Event != "updateTimer" || res.Data != 1.0 {
		t.Errorf("Expected timer update to 1, got %+v", res)
	}

	res := fuse.Step(st)
	if !res.Done || res.Terminal != "bombFinished" || st.Text("status") != bombExploded {
		t.Errorf("Expected explosion on zero, got %+v status %v", res, st["status"])
	}

	st = State{"status": bombDefused, "timeLeft": 10.0}
	if res := fuse.Step(st); !res.Done || res.Event != "" {
		t.Errorf("Expected a defused bomb to finish quietly, got %+v", res)
	}
}

func TestSnakeSeatsAndDirection(t *testing.T) {
	st := snakeGame().initialState()

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		snakeSeat(st, id)
	}

	players := st.Object("players")
	if len(players) != snakeSeatsPerMap {
		t.Fatalf("Expected %d seated players, got %d", snakeSeatsPerMap, len(players))
	}

	seats := map[float64]bool{}
	for _, p := range players {
		seats[State(p.(map[string]any)).Number("seat")] = true
	}
	if len(seats) != snakeSeatsPerMap {
		t.Errorf("Expected distinct corners, got %v", seats)
	}

	turn := func(sender string, x, y float64) error {
		_, err := snakeDirection(&EventContext{
			State:   st,
			Payload: map[string]any{"x": x, "y": y},
			Sender:  sender,
		})
		return err
	}

	if err := turn("a", 0, 1); err != nil {
		t.Errorf("Expected a turn to be accepted, got %v", err)
	}
	if err := turn("a", 0, -1); err == nil {
		t.Error("Expected reversing to be refused")
	}
	if err := turn("a", 1, 1); err == nil {
		t.Error("Expected a diagonal to be refused")
	}
	if err := turn("e", 1, 0); err == nil {
		t.Error("Expected an unseated player to be refused")
	}
	if _, ok := players["e"]; ok {
		t.Error("Expected a refused turn not to create a player")
	}
}

func TestSnakeStep(t *testing.T) {
	st := State{
		"players": map[string]any{
			"a": map[string]any{
				"snake":     []any{point(cell{1, 1})},
				"direction": point(cell{1, 0}),
				"alive":     true,
				"score":     0.0,
			},
		},
		"foods": []any{map[string]any{"x": 3.0, "y": 1.0, "type": snakeFoodApple}},
	}
	p := State(st.Object("players")["a"].(map[string]any))

	if res := snakeStep(st); res.Done {
		t.Fatal("Expected a lone live snake to keep going")
	}
	if len(p.List("snake")) != 1 {
		t.Errorf("Expected length 1 after an empty move, got %d", len(p.List("snake")))
	}

	snakeStep(st)
	if p.Number("score") != snakeAppleScore || len(p.List("snake")) != 2 {
		t.Errorf("Expected apple eaten, got score %v length %d", p["score"], len(p.List("snake")))
	}

	p["direction"] = point(cell{0, -1})
	snakeStep(st)
	res := snakeStep(st)
	if !res.Done || p.Bool("alive") {
		t.Errorf("Expected wall collision to end the game, got %+v alive %v", res, p["alive"])
	}
}

func TestDollMove(t *testing.T) {
	g := mugunghwaGame()
	st := g.initialState()
	g.OnJoin(st, "p1")

	move := func() State {
		out, err := dollMove(&EventContext{State: st, Sender: "p1"})
		if err != nil {
			t.Fatalf("move failed: %v", err)
		}
		return State(out.(map[string]any))
	}

	if update := move(); update.Number("position") != 1 || !update.Bool("active") {
		t.Errorf("Expected a step forward, got %v", update)
	}

	st["isLooking"] = true
	if update := move(); !update.Bool("dead") || update.Bool("active") {
		t.Errorf("Expected moving while watched to eliminate, got %v", update)
	}

	step, _ := g.tick("doll")
	if res := step.Step(st); !res.Done {
		t.Error("Expected the game to end once nobody is active")
	}

	if _, err := dollMove(&EventContext{State: st, Sender: "ghost"}); err == nil {
		t.Error("Expected an unknown player to be refused")
	}
}

func TestAlienShootAndReload(t *testing.T) {
	g := alienShooterGame()
	st := g.initialState()
	shoot, reload := g.Events["shoot"].Apply, g.Events["reload"].Apply

	for range alienShots {
		if _, err := shoot(&EventContext{State: st, Host: true}); err != nil {
			t.Fatalf("shoot failed: %v", err)
		}
	}
	if _, err := shoot(&EventContext{State: st, Host: true}); err == nil {
		t.Error("Expected shooting with no shots left to fail")
	}
	if len(st.List("bullets")) != alienShots {
		t.Errorf("Expected %d bullets, got %d", alienShots, len(st.List("bullets")))
	}

	if _, err := reload(&EventContext{State: st, Host: true}); err != nil || st.Number("shotsLeft") != alienShots {
		t.Errorf("Expected reload to refill shots, got %v %v", st["shotsLeft"], err)
	}
}

func TestPlatformerInputClamps(t *testing.T) {
	st := platformerState()

	platformerInput(st, "ArrowLeft")
	if x := st.Object("player").Number("x"); x != 0 {
		t.Errorf("Expected x clamped at 0, got %v", x)
	}

	platformerInput(st, "ArrowRight")
	if x := st.Object("player").Number("x"); x != 10 {
		t.Errorf("Expected x 10, got %v", x)
	}

	platformerInput(st, "Space")
	if p := st.Object("player"); !p.Bool("isJumping") || p.Number("velY") >= 0 {
		t.Errorf("Expected a jump, got %v", p)
	}
}
