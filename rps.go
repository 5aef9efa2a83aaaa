/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"strings"
)

var rpsChoices = map[string]bool{
	"rock":     true,
	"paper":    true,
	"scissors": true,
}

type rpsSnapshot struct {
	Choices map[string]string `json:"choices"`
	Round   int               `json:"round"`
}

type rpsChoice struct {
	Choice string `json:"choice"`
}

type rpsResult struct {
	P1     string `json:"p1"`
	P2     string `json:"p2"`
	Winner string `json:"winner"`
	Round  int    `json:"round"`
}

// RockPaperScissors plays an endless series of rounds. Each rpsResult is
// the terminal event of its round and is counted once.
type RockPaperScissors struct {
	match
	round       int
	choice      string
	opponentIn  bool
	scoredRound int
	last        *rpsResult
}

func newRockPaperScissors(role string, send Sender, stats StatsRecorder) Reducer {
	r := &RockPaperScissors{match: newMatch(GameRPS, role, send, stats)}
	r.reset()

	return r
}

func (r *RockPaperScissors) reset() {
	r.round = 1
	r.choice = ""
	r.opponentIn = false
	r.scoredRound = 0
	r.last = nil
	r.rearm()
}

func (r *RockPaperScissors) ResultType() string { return msgRPSResult }

func (r *RockPaperScissors) ApplySnapshot(env Envelope) error {
	var s rpsSnapshot
	if err := env.Decode(&s); err != nil {
		return err
	}

	if s.Round > 0 {
		r.round = s.Round
		r.scoredRound = max(r.scoredRound, s.Round-1)
	}
	r.choice = s.Choices[r.role]
	r.opponentIn = s.Choices[opponent(r.role)] != ""
	r.sync(true)

	return nil
}

func (r *RockPaperScissors) ApplyMove(env Envelope) error {
	var res rpsResult
	if err := env.Decode(&res); err != nil {
		return err
	}
	if res.Round <= r.scoredRound {
		return nil
	}

	r.scoredRound = res.Round
	r.last = &res
	r.finish(res.Winner)

	r.round = res.Round + 1
	r.choice = ""
	r.opponentIn = false
	r.rearm()

	return nil
}

func (r *RockPaperScissors) AttemptMove(input string) error {
	if err := r.ready(); err != nil {
		return err
	}

	choice := strings.ToLower(strings.TrimSpace(input))
	if !rpsChoices[choice] {
		return rejectf(ErrInvalidInput, "choose rock, paper or scissors")
	}
	if r.choice != "" {
		return reject(ErrAlreadyChosen)
	}

	if err := r.transmit(msgRPSChoice, rpsChoice{Choice: choice}); err != nil {
		return err
	}
	r.choice = choice

	return nil
}

func (r *RockPaperScissors) Restart() {
	r.reset()
}

func (r *RockPaperScissors) View() GameView {
	mine := r.choice
	if mine == "" {
		mine = "waiting"
	}
	theirs := "waiting"
	if r.opponentIn {
		theirs = "ready"
	}

	board := []string{
		fmt.Sprintf("Round %d", r.round),
		fmt.Sprintf("You (%s): %s", r.role, mine),
		fmt.Sprintf("Opponent: %s", theirs),
	}

	var notes []string
	if r.last != nil {
		notes = append(notes, fmt.Sprintf("Round %d: P1 %s, P2 %s, winner %s",
			r.last.Round, r.last.P1, r.last.P2, r.last.Winner))
	}

	v := r.view("", board, notes...)
	if r.last != nil {
		v.Winner = r.last.Winner
		v.Outcome = r.lastOutcome().String()
	}

	return v
}

func (r *RockPaperScissors) lastOutcome() Outcome {
	switch r.last.Winner {
	case winnerDraw, "":
		return OutcomeDraw
	case r.role:
		return OutcomeWin
	}
	return OutcomeLose
}
