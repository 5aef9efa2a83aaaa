/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bufio"
	"context"
	"io"
	"strings"
)

func parseCommand(line string) (string, string) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")

	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

// readInput feeds lines from r to submit until r runs dry, then asks the
// app to quit.
func readInput(ctx context.Context, r io.Reader, submit func(string)) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		submit(line)
	}

	submit("quit")

	return sc.Err()
}

func helpText(loc Location) string {
	var b strings.Builder

	switch loc {
	case LocationMenu:
		b.WriteString("name <name>    set your display name\n")
		b.WriteString("games          list the available games\n")
		b.WriteString("create <game>  create a room for a game\n")
		b.WriteString("join <code>    join a room by its code\n")
		b.WriteString("stats          show your results\n")
	case LocationLobby:
		b.WriteString("say <message>  chat with the room\n")
		b.WriteString("qr             show the room code as a QR code\n")
		b.WriteString("menu           leave the room\n")
	case LocationGame:
		b.WriteString("<move>         play a move, see the board for the format\n")
		b.WriteString("say <message>  chat with the room\n")
		b.WriteString("restart        start a new game (host only)\n")
		b.WriteString("menu           leave the game\n")
	}
	b.WriteString("quit           exit")

	return b.String()
}
