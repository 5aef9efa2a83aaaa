/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"sort"
)

type GameType string

const (
	GameTicTacToe   GameType = "tictactoe"
	GameRPS         GameType = "rps"
	GameConnect4    GameType = "connect4"
	GameGuessNumber GameType = "guessnumber"
	GameWordGuess   GameType = "wordguess"
	GameDots        GameType = "dots"
)

var gameTitles = map[GameType]string{
	GameTicTacToe:   "Tic Tac Toe",
	GameRPS:         "Rock Paper Scissors",
	GameConnect4:    "Connect 4",
	GameGuessNumber: "Number Guessing",
	GameWordGuess:   "Word Guessing",
	GameDots:        "Dots & Boxes",
}

type gameInfo struct {
	description string
	usage       string
	build       func(role string, send Sender, stats StatsRecorder) Reducer
}

var games = map[GameType]gameInfo{
	GameTicTacToe: {
		description: "The classic 3x3 grid game. Get three in a row to win!",
		usage:       "a cell number from 0 to 8",
		build:       newTicTacToe,
	},
	GameRPS: {
		description: "Rock crushes scissors, scissors cuts paper, paper covers rock!",
		usage:       "rock, paper or scissors",
		build:       newRockPaperScissors,
	},
	GameConnect4: {
		description: "Drop pieces and connect four in a row in any direction.",
		usage:       "a column number from 0 to 6",
		build:       newConnect4,
	},
	GameGuessNumber: {
		description: "Race to guess the secret number between 1-100.",
		usage:       "a number from 1 to 100",
		build:       newGuessNumber,
	},
	GameWordGuess: {
		description: "Take turns guessing letters to reveal the hidden word.",
		usage:       "a single letter",
		build:       newWordGuess,
	},
	GameDots: {
		description: "Draw lines between dots. Complete a box to score and go again.",
		usage:       "h|v <row> <col>",
		build:       newDots,
	},
}

func (g GameType) Title() string {
	if title, ok := gameTitles[g]; ok {
		return title
	}
	return string(g)
}

func gameTypes() []GameType {
	list := make([]GameType, 0, len(games))
	for g := range games {
		list = append(list, g)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })

	return list
}

func newReducer(g GameType, role string, send Sender, stats StatsRecorder) (Reducer, error) {
	info, ok := games[g]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, g)
	}
	return info.build(role, send, stats), nil
}

// Reducer owns the local state of one game. Only server messages move it
// forward; AttemptMove either rejects locally or sends a request.
type Reducer interface {
	Game() GameType
	Role() string
	SetRole(role string)
	// ResultType is the server message carrying one incremental move.
	ResultType() string
	ApplySnapshot(env Envelope) error
	ApplyMove(env Envelope) error
	AttemptMove(input string) error
	ApplyTerminalResult(env Envelope) (Outcome, error)
	Restart()
	Deactivate()
	View() GameView
}

type GameView struct {
	Game        GameType       `json:"game"`
	Title       string         `json:"title"`
	Role        string         `json:"role"`
	Active      bool           `json:"active"`
	CurrentTurn string         `json:"currentTurn,omitempty"`
	Outcome     string         `json:"outcome,omitempty"`
	Winner      string         `json:"winner,omitempty"`
	Scoreboard  map[string]int `json:"scoreboard"`
	Board       []string       `json:"board"`
	Notes       []string       `json:"notes,omitempty"`
}

const (
	winnerDraw   = "draw"
	winnerNobody = "nobody"
)

var opponents = map[string]string{
	"X":      "O",
	"O":      "X",
	"Red":    "Yellow",
	"Yellow": "Red",
	"P1":     "P2",
	"P2":     "P1",
}

func opponent(role string) string {
	return opponents[role]
}

type gameEnd struct {
	Winner         string `json:"winner"`
	WinnerUsername string `json:"winnerUsername"`
}

// match carries what every game shares: who we are, whether input is
// accepted, and the exactly-once bookkeeping around a finished round.
type match struct {
	game       GameType
	role       string
	send       Sender
	stats      StatsRecorder
	active     bool
	ended      bool
	outcome    Outcome
	winner     string
	scoreboard map[string]int
}

func newMatch(g GameType, role string, send Sender, stats StatsRecorder) match {
	return match{
		game:       g,
		role:       role,
		send:       send,
		stats:      stats,
		active:     true,
		scoreboard: map[string]int{},
	}
}

func (m *match) Game() GameType { return m.game }

func (m *match) Role() string { return m.role }

func (m *match) SetRole(role string) { m.role = role }

func (m *match) Deactivate() { m.active = false }

// ready rejects input while no round is in progress.
func (m *match) ready() error {
	if !m.active || m.ended {
		return reject(ErrGameInactive)
	}
	return nil
}

func (m *match) myTurn(turn string) error {
	if turn != m.role {
		return reject(ErrNotYourTurn)
	}
	return nil
}

func (m *match) transmit(msgType string, payload any) error {
	env, err := newEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	if err := m.send.Send(env); err != nil {
		return fmt.Errorf("send %s: %w", msgType, err)
	}
	return nil
}

// sync follows the server's gameActive flag. An active snapshot after a
// finished round means a restart happened while we were away.
func (m *match) sync(active bool) {
	m.active = active
	if active {
		m.rearm()
	}
}

func (m *match) rearm() {
	m.active = true
	m.ended = false
	m.outcome = OutcomeNone
	m.winner = ""
}

// finish applies a terminal result once. Later calls for the same round
// return false and change nothing.
func (m *match) finish(winner string) (Outcome, bool) {
	if m.ended {
		return m.outcome, false
	}

	switch winner {
	case "", winnerDraw:
		winner = winnerDraw
		m.outcome = OutcomeDraw
	case m.role:
		m.outcome = OutcomeWin
	default:
		m.outcome = OutcomeLose
	}

	m.ended = true
	m.active = false
	m.winner = winner
	m.scoreboard[winner]++

	if m.stats != nil {
		if err := m.stats.Record(m.outcome); err != nil {
			logf("STATS: Failed to record %s: %v", m.outcome, err)
		}
	}

	return m.outcome, true
}

func (m *match) ApplyTerminalResult(env Envelope) (Outcome, error) {
	var res gameEnd
	if err := env.Decode(&res); err != nil {
		return OutcomeNone, err
	}
	outcome, _ := m.finish(res.Winner)

	return outcome, nil
}

func (m *match) view(turn string, board []string, notes ...string) GameView {
	scores := make(map[string]int, len(m.scoreboard))
	for k, v := range m.scoreboard {
		scores[k] = v
	}

	return GameView{
		Game:        m.game,
		Title:       m.game.Title(),
		Role:        m.role,
		Active:      m.active && !m.ended,
		CurrentTurn: turn,
		Outcome:     m.outcome.String(),
		Winner:      m.winner,
		Scoreboard:  scores,
		Board:       board,
		Notes:       notes,
	}
}
