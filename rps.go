/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

const (
	rock     = "바위"
	paper    = "보"
	scissors = "가위"
)

var rpsChoices = []string{rock, paper, scissors}

const (
	rpsDraw = 0
	rpsWin  = 1
	rpsLoss = 2
)

// rpsWinner scores player against computer: 1 win, 2 loss, 0 draw.
func rpsWinner(player, computer string) int {
	switch {
	case player == computer:
		return rpsDraw
	case player == rock && computer == scissors,
		player == paper && computer == rock,
		player == scissors && computer == paper:
		return rpsWin
	default:
		return rpsLoss
	}
}

func rpsChoice(payload any) (string, error) {
	choice, ok := payload.(string)
	if !ok {
		obj, _ := asObject(payload)
		choice = obj.Text("choice")
	}
	if !slices.Contains(rpsChoices, choice) {
		return "", fmt.Errorf("unknown choice %q", choice)
	}

	return choice, nil
}

func rpsGame() *Game {
	return &Game{
		Name: "rps",
		InitialState: func() State {
			return State{
				"playerScore":   0.0,
				"computerScore": 0.0,
				"round":         1.0,
			}
		},
		Events: map[string]EventRule{
			"playerChoice": {
				Authority: Open,
				Broadcast: Delta,
				Apply: func(ec *EventContext) (any, error) {
					choice, err := rpsChoice(ec.Payload)
					if err != nil {
						return nil, err
					}
					ec.State["playerChoice"] = choice
					return nil, nil
				},
			},
			"computerChoice": {
				Authority: HostOnly,
				Broadcast: Delta,
				Apply: func(ec *EventContext) (any, error) {
					choice, err := rpsChoice(ec.Payload)
					if err != nil {
						return nil, err
					}
					ec.State["computerChoice"] = choice
					return nil, nil
				},
			},
			"result": {
				Authority: HostOnly,
				Broadcast: Delta,
				Apply: func(ec *EventContext) (any, error) {
					ec.State["result"] = ec.Payload
					return nil, nil
				},
			},
			"score": {
				Authority: HostOnly,
				Broadcast: Full,
				Apply: func(ec *EventContext) (any, error) {
					obj, ok := asObject(ec.Payload)
					if !ok {
						return nil, fmt.Errorf("score must be an object")
					}
					for _, k := range []string{"playerScore", "computerScore"} {
						if v, ok := obj[k].(float64); ok {
							ec.State[k] = v
						}
					}
					ec.State["round"] = ec.State.Number("round") + 1
					return nil, nil
				},
			},
			"play": {
				Authority: HostOnly,
				Broadcast: Full,
				Emit:      "rpsResult",
				Apply: func(ec *EventContext) (any, error) {
					choice, err := rpsChoice(ec.Payload)
					if err != nil {
						return nil, err
					}
					computer := rpsChoices[rand.IntN(len(rpsChoices))]
					applyRPSRound(ec.State, choice, computer)
					return nil, nil
				},
			},
		},
	}
}

func applyRPSRound(st State, player, computer string) {
	outcome := rpsWinner(player, computer)

	st["playerChoice"] = player
	st["computerChoice"] = computer
	st["result"] = float64(outcome)

	switch outcome {
	case rpsWin:
		st["playerScore"] = st.Number("playerScore") + 1
	case rpsLoss:
		st["computerScore"] = st.Number("computerScore") + 1
	}
	st["round"] = st.Number("round") + 1
}
