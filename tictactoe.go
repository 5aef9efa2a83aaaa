/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"strconv"
	"strings"
)

type tttSnapshot struct {
	Board       [9]string `json:"board"`
	CurrentTurn string    `json:"currentTurn"`
	GameActive  bool      `json:"gameActive"`
}

type tttMove struct {
	Index    int    `json:"index"`
	Player   string `json:"player,omitempty"`
	Username string `json:"username,omitempty"`
}

type TicTacToe struct {
	match
	board [9]string
	turn  string
}

func newTicTacToe(role string, send Sender, stats StatsRecorder) Reducer {
	t := &TicTacToe{match: newMatch(GameTicTacToe, role, send, stats)}
	t.reset()

	return t
}

func (t *TicTacToe) reset() {
	t.board = [9]string{}
	t.turn = "X"
	t.rearm()
}

func (t *TicTacToe) ResultType() string { return msgMove }

func (t *TicTacToe) ApplySnapshot(env Envelope) error {
	var s tttSnapshot
	if err := env.Decode(&s); err != nil {
		return err
	}

	t.board = s.Board
	t.turn = s.CurrentTurn
	t.sync(s.GameActive)

	return nil
}

func (t *TicTacToe) ApplyMove(env Envelope) error {
	var mv tttMove
	if err := env.Decode(&mv); err != nil {
		return err
	}
	if mv.Index < 0 || mv.Index >= len(t.board) {
		return fmt.Errorf("%w: cell %d out of range", ErrMalformedFrame, mv.Index)
	}
	if t.ended {
		return nil
	}

	t.board[mv.Index] = mv.Player
	t.turn = opponent(mv.Player)

	return nil
}

func (t *TicTacToe) AttemptMove(input string) error {
	if err := t.ready(); err != nil {
		return err
	}
	if err := t.myTurn(t.turn); err != nil {
		return err
	}

	idx, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || idx < 0 || idx >= len(t.board) {
		return rejectf(ErrInvalidInput, "pick a cell from 0 to 8")
	}
	if t.board[idx] != "" {
		return reject(ErrPositionTaken)
	}

	return t.transmit(msgMove, tttMove{Index: idx})
}

func (t *TicTacToe) Restart() {
	t.reset()
}

func (t *TicTacToe) View() GameView {
	cell := func(i int) string {
		if t.board[i] == "" {
			return strconv.Itoa(i)
		}
		return t.board[i]
	}

	var rows []string
	for r := 0; r < 3; r++ {
		if r > 0 {
			rows = append(rows, "---+---+---")
		}
		rows = append(rows, fmt.Sprintf(" %s | %s | %s ", cell(r*3), cell(r*3+1), cell(r*3+2)))
	}

	return t.view(t.turn, rows)
}
