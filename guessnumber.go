/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const (
	guessMin        = 1
	guessMax        = 100
	defaultMaxGuess = 10
)

type guessSnapshot struct {
	Guesses    map[string][]int `json:"guesses"`
	MaxGuesses int              `json:"maxGuesses"`
	GameActive bool             `json:"gameActive"`
	Winner     string           `json:"winner"`
}

type numberGuess struct {
	Number int `json:"number"`
}

type guessResult struct {
	Player     string `json:"player"`
	Username   string `json:"username"`
	Guess      int    `json:"guess"`
	Result     string `json:"result"`
	Target     int    `json:"target"`
	GameActive bool   `json:"gameActive"`
	Winner     string `json:"winner"`
}

// GuessNumber is a race: both players guess freely until one hits the
// target or runs out of guesses.
type GuessNumber struct {
	match
	guesses    map[string][]int
	maxGuesses int
	hints      []string
	target     int
}

func newGuessNumber(role string, send Sender, stats StatsRecorder) Reducer {
	g := &GuessNumber{match: newMatch(GameGuessNumber, role, send, stats)}
	g.reset()

	return g
}

func (g *GuessNumber) reset() {
	g.guesses = map[string][]int{}
	g.maxGuesses = defaultMaxGuess
	g.hints = nil
	g.target = 0
	g.rearm()
}

func (g *GuessNumber) ResultType() string { return msgNumberGuessResult }

func (g *GuessNumber) ApplySnapshot(env Envelope) error {
	var s guessSnapshot
	if err := env.Decode(&s); err != nil {
		return err
	}

	g.guesses = s.Guesses
	if g.guesses == nil {
		g.guesses = map[string][]int{}
	}
	if s.MaxGuesses > 0 {
		g.maxGuesses = s.MaxGuesses
	}
	g.sync(s.GameActive)

	return nil
}

func (g *GuessNumber) ApplyMove(env Envelope) error {
	var res guessResult
	if err := env.Decode(&res); err != nil {
		return err
	}
	if g.ended {
		return nil
	}

	g.guesses[res.Player] = append(g.guesses[res.Player], res.Guess)
	if res.Player == g.role {
		g.hints = append(g.hints, fmt.Sprintf("%d: %s", res.Guess, res.Result))
	}

	if !res.GameActive {
		g.target = res.Target
		g.finish(res.Winner)
	}

	return nil
}

// Guesses returns the guesses made by role so far.
func (g *GuessNumber) Guesses(role string) []int {
	return slices.Clone(g.guesses[role])
}

func (g *GuessNumber) AttemptMove(input string) error {
	if err := g.ready(); err != nil {
		return err
	}

	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < guessMin || n > guessMax {
		return rejectf(ErrInvalidInput, "guess a number from %d to %d", guessMin, guessMax)
	}

	mine := g.guesses[g.role]
	if slices.Contains(mine, n) {
		return rejectf(ErrAlreadyUsed, "%d", n)
	}
	if len(mine) >= g.maxGuesses {
		return reject(ErrNoGuessesLeft)
	}

	return g.transmit(msgNumberGuess, numberGuess{Number: n})
}

func (g *GuessNumber) Restart() {
	g.reset()
}

func (g *GuessNumber) View() GameView {
	mine := g.guesses[g.role]
	theirs := g.guesses[opponent(g.role)]

	board := []string{
		fmt.Sprintf("Your guesses (%d/%d): %s", len(mine), g.maxGuesses, joinInts(mine)),
		fmt.Sprintf("Opponent guesses (%d/%d): %s", len(theirs), g.maxGuesses, joinInts(theirs)),
	}
	if g.target > 0 {
		board = append(board, fmt.Sprintf("The number was %d", g.target))
	}

	return g.view("", board, g.hints...)
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}
