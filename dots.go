/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"strconv"
	"strings"
)

// dotsSize is the number of boxes per side; the grid has dotsSize+1 dots
// per side.
const dotsSize = 3

type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

type Edge struct {
	Orientation Orientation
	Row         int
	Col         int
}

func (e Edge) valid() bool {
	switch e.Orientation {
	case Horizontal:
		return e.Row >= 0 && e.Row <= dotsSize && e.Col >= 0 && e.Col < dotsSize
	case Vertical:
		return e.Row >= 0 && e.Row < dotsSize && e.Col >= 0 && e.Col <= dotsSize
	}
	return false
}

func (e Edge) String() string {
	return fmt.Sprintf("%s %d,%d", e.Orientation, e.Row, e.Col)
}

type dotsLine struct {
	Type   Orientation `json:"type"`
	Row    int         `json:"row"`
	Col    int         `json:"col"`
	Player string      `json:"player,omitempty"`
}

func (l dotsLine) edge() Edge {
	return Edge{Orientation: l.Type, Row: l.Row, Col: l.Col}
}

type dotsMove struct {
	dotsLine
	CurrentTurn string `json:"currentTurn,omitempty"`
}

type dotsSnapshot struct {
	Lines       []dotsLine                 `json:"lines"`
	Boxes       [dotsSize][dotsSize]string `json:"boxes"`
	Scores      map[string]int             `json:"scores"`
	CurrentTurn string                     `json:"currentTurn"`
	GameActive  bool                       `json:"gameActive"`
}

// Dots derives box ownership locally: a box belongs to whoever drew the
// edge that closed it, and closing a box keeps the turn.
type Dots struct {
	match
	lines  []dotsLine
	edges  map[Edge]bool
	boxes  [dotsSize][dotsSize]string
	scores map[string]int
	turn   string
}

func newDots(role string, send Sender, stats StatsRecorder) Reducer {
	d := &Dots{match: newMatch(GameDots, role, send, stats)}
	d.reset()

	return d
}

func (d *Dots) reset() {
	d.lines = nil
	d.edges = map[Edge]bool{}
	d.boxes = [dotsSize][dotsSize]string{}
	d.scores = map[string]int{"P1": 0, "P2": 0}
	d.turn = "P1"
	d.rearm()
}

func (d *Dots) ResultType() string { return msgDotsMove }

// ApplySnapshot adopts the server's boxes and scores as given.
func (d *Dots) ApplySnapshot(env Envelope) error {
	var s dotsSnapshot
	if err := env.Decode(&s); err != nil {
		return err
	}

	d.lines = nil
	d.edges = map[Edge]bool{}
	for _, l := range s.Lines {
		if !l.edge().valid() || d.edges[l.edge()] {
			continue
		}
		d.edges[l.edge()] = true
		d.lines = append(d.lines, l)
	}

	d.boxes = s.Boxes
	d.scores = map[string]int{"P1": 0, "P2": 0}
	for k, v := range s.Scores {
		d.scores[k] = v
	}
	d.turn = s.CurrentTurn
	d.sync(s.GameActive)

	return nil
}

func (d *Dots) ApplyMove(env Envelope) error {
	var mv dotsMove
	if err := env.Decode(&mv); err != nil {
		return err
	}
	if !mv.edge().valid() {
		return fmt.Errorf("%w: edge %s out of range", ErrMalformedFrame, mv.edge())
	}
	if d.ended || d.edges[mv.edge()] {
		return nil
	}

	d.edges[mv.edge()] = true
	d.lines = append(d.lines, mv.dotsLine)
	claimed := d.claimBoxes(d.turn)

	switch {
	case mv.CurrentTurn != "":
		d.turn = mv.CurrentTurn
	case claimed == 0:
		d.turn = opponent(d.turn)
	}

	return nil
}

// claimBoxes gives every closed, unowned box to owner and returns how many
// it claimed. Running it again without new edges claims nothing.
func (d *Dots) claimBoxes(owner string) int {
	claimed := 0
	for r := 0; r < dotsSize; r++ {
		for c := 0; c < dotsSize; c++ {
			if d.boxes[r][c] != "" || !d.closed(r, c) {
				continue
			}
			d.boxes[r][c] = owner
			d.scores[owner]++
			claimed++
		}
	}
	return claimed
}

func (d *Dots) closed(r, c int) bool {
	return d.edges[Edge{Horizontal, r, c}] &&
		d.edges[Edge{Horizontal, r + 1, c}] &&
		d.edges[Edge{Vertical, r, c}] &&
		d.edges[Edge{Vertical, r, c + 1}]
}

func (d *Dots) Owner(r, c int) string {
	return d.boxes[r][c]
}

func (d *Dots) Score(role string) int {
	return d.scores[role]
}

func parseEdge(input string) (Edge, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) != 3 {
		return Edge{}, rejectf(ErrInvalidInput, "draw a line with h|v <row> <col>")
	}

	var e Edge
	switch fields[0] {
	case "h", "horizontal":
		e.Orientation = Horizontal
	case "v", "vertical":
		e.Orientation = Vertical
	default:
		return Edge{}, rejectf(ErrInvalidInput, "orientation must be h or v")
	}

	var err error
	if e.Row, err = strconv.Atoi(fields[1]); err != nil {
		return Edge{}, rejectf(ErrInvalidInput, "row must be a number")
	}
	if e.Col, err = strconv.Atoi(fields[2]); err != nil {
		return Edge{}, rejectf(ErrInvalidInput, "column must be a number")
	}
	if !e.valid() {
		return Edge{}, rejectf(ErrInvalidInput, "no such line: %s", e)
	}

	return e, nil
}

func (d *Dots) AttemptMove(input string) error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.myTurn(d.turn); err != nil {
		return err
	}

	e, err := parseEdge(input)
	if err != nil {
		return err
	}
	if d.edges[e] {
		return reject(ErrPositionTaken)
	}

	return d.transmit(msgDotsMove, dotsLine{Type: e.Orientation, Row: e.Row, Col: e.Col})
}

func (d *Dots) Restart() {
	d.reset()
}

func (d *Dots) View() GameView {
	rows := make([]string, 0, 2*dotsSize+2)
	for r := 0; r <= dotsSize; r++ {
		var b strings.Builder
		for c := 0; c <= dotsSize; c++ {
			b.WriteString("o")
			if c < dotsSize {
				if d.edges[Edge{Horizontal, r, c}] {
					b.WriteString("---")
				} else {
					b.WriteString("   ")
				}
			}
		}
		rows = append(rows, b.String())

		if r == dotsSize {
			break
		}

		b.Reset()
		for c := 0; c <= dotsSize; c++ {
			if d.edges[Edge{Vertical, r, c}] {
				b.WriteString("|")
			} else {
				b.WriteString(" ")
			}
			if c < dotsSize {
				b.WriteString(fmt.Sprintf("%-3s", d.boxes[r][c]))
			}
		}
		rows = append(rows, b.String())
	}
	rows = append(rows, fmt.Sprintf("P1 %d - %d P2", d.scores["P1"], d.scores["P2"]))

	return d.view(d.turn, rows)
}
