/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	c4Rows = 6
	c4Cols = 7
)

type c4Snapshot struct {
	Board       [c4Rows][c4Cols]string `json:"board"`
	CurrentTurn string                 `json:"currentTurn"`
	GameActive  bool                   `json:"gameActive"`
}

type c4Drop struct {
	Column int `json:"column"`
}

type c4Move struct {
	Row      int    `json:"row"`
	Column   int    `json:"column"`
	Player   string `json:"player"`
	Username string `json:"username"`
}

type Connect4 struct {
	match
	board [c4Rows][c4Cols]string
	turn  string
}

func newConnect4(role string, send Sender, stats StatsRecorder) Reducer {
	c := &Connect4{match: newMatch(GameConnect4, role, send, stats)}
	c.reset()

	return c
}

func (c *Connect4) reset() {
	c.board = [c4Rows][c4Cols]string{}
	c.turn = "Red"
	c.rearm()
}

func (c *Connect4) ResultType() string { return msgConnect4Move }

func (c *Connect4) ApplySnapshot(env Envelope) error {
	var s c4Snapshot
	if err := env.Decode(&s); err != nil {
		return err
	}

	c.board = s.Board
	c.turn = s.CurrentTurn
	c.sync(s.GameActive)

	return nil
}

func (c *Connect4) ApplyMove(env Envelope) error {
	var mv c4Move
	if err := env.Decode(&mv); err != nil {
		return err
	}
	if mv.Row < 0 || mv.Row >= c4Rows || mv.Column < 0 || mv.Column >= c4Cols {
		return fmt.Errorf("%w: cell %d,%d out of range", ErrMalformedFrame, mv.Row, mv.Column)
	}
	if c.ended {
		return nil
	}

	c.board[mv.Row][mv.Column] = mv.Player
	c.turn = opponent(mv.Player)

	return nil
}

func (c *Connect4) AttemptMove(input string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := c.myTurn(c.turn); err != nil {
		return err
	}

	col, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || col < 0 || col >= c4Cols {
		return rejectf(ErrInvalidInput, "pick a column from 0 to 6")
	}
	if c.board[0][col] != "" {
		return reject(ErrColumnFull)
	}

	return c.transmit(msgConnect4Move, c4Drop{Column: col})
}

func (c *Connect4) Restart() {
	c.reset()
}

func (c *Connect4) View() GameView {
	rows := make([]string, 0, c4Rows+1)
	for r := 0; r < c4Rows; r++ {
		var b strings.Builder
		b.WriteString("|")
		for col := 0; col < c4Cols; col++ {
			switch c.board[r][col] {
			case "Red":
				b.WriteString("R")
			case "Yellow":
				b.WriteString("Y")
			default:
				b.WriteString(".")
			}
			b.WriteString("|")
		}
		rows = append(rows, b.String())
	}
	rows = append(rows, " 0 1 2 3 4 5 6 ")

	return c.view(c.turn, rows)
}
