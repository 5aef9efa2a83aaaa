/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// terminal writes status lines as they happen and redraws the board
// whenever it changes. It is only called from the app loop.
type terminal struct {
	w    io.Writer
	last string
}

func newTerminal(w io.Writer) *terminal {
	return &terminal{w: w}
}

func (t *terminal) Status(msg string) {
	fmt.Fprintf(t.w, "%s | %s\n", time.Now().Format(time.TimeOnly), msg)
}

func (t *terminal) Update(v View) {
	text := renderView(v)
	if text == t.last {
		return
	}
	t.last = text

	fmt.Fprint(t.w, text)
}

func renderView(v View) string {
	var b strings.Builder

	switch v.Location {
	case LocationMenu:
		name := v.DisplayName
		if name == "" {
			name = "(no name)"
		}
		fmt.Fprintf(&b, "\n== Menu == %s | played %d, won %d, lost %d, drawn %d\n",
			name, v.Stats.Played, v.Stats.Won, v.Stats.Lost, v.Stats.Drawn)
	case LocationLobby:
		fmt.Fprintf(&b, "\n== Lobby %s == %s\n", v.Session.RoomCode, v.Session.GameType.Title())
		if v.Room != nil {
			renderMembers(&b, v.Room.Members)
		}
	case LocationGame:
		if v.Room == nil || v.Room.Game == nil {
			break
		}
		renderGame(&b, v.Session, v.Room.Game)
	}

	return b.String()
}

func renderMembers(b *strings.Builder, members []Member) {
	sorted := append([]Member(nil), members...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Role < sorted[j].Role })

	for _, m := range sorted {
		host := ""
		if m.IsHost {
			host = " (Host)"
		}
		fmt.Fprintf(b, "  %s: %s%s\n", m.Role, m.Username, host)
	}
}

func renderGame(b *strings.Builder, sess Session, g *GameView) {
	fmt.Fprintf(b, "\n== %s == room %s, you are %s\n", g.Title, sess.RoomCode, g.Role)

	for _, line := range g.Board {
		fmt.Fprintf(b, "  %s\n", line)
	}
	for _, note := range g.Notes {
		fmt.Fprintf(b, "  %s\n", note)
	}

	switch {
	case g.Outcome != "" && !g.Active:
		fmt.Fprintf(b, "Result: %s (winner %s)\n", g.Outcome, g.Winner)
	case !g.Active:
		b.WriteString("Waiting for the game to resume\n")
	case g.CurrentTurn == "":
		fmt.Fprintf(b, "Your move: %s\n", games[g.Game].usage)
	case g.CurrentTurn == g.Role:
		fmt.Fprintf(b, "Your turn: %s\n", games[g.Game].usage)
	default:
		fmt.Fprintf(b, "Waiting for %s\n", g.CurrentTurn)
	}

	if len(g.Scoreboard) > 0 {
		keys := make([]string, 0, len(g.Scoreboard))
		for k := range g.Scoreboard {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s %d", k, g.Scoreboard[k])
		}
		fmt.Fprintf(b, "Score: %s\n", strings.Join(parts, ", "))
	}
}
