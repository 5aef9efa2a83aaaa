/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"strings"
)

// Menu is the entry page: pick a display name, then create or join a room.
type Menu struct {
	profile  *Profile
	sessions *SessionStore
	nav      Navigator
	out      Presenter
}

func NewMenu(profile *Profile, sessions *SessionStore, nav Navigator, out Presenter) *Menu {
	return &Menu{
		profile:  profile,
		sessions: sessions,
		nav:      nav,
		out:      out,
	}
}

// Enter forgets any previous room.
func (m *Menu) Enter() {
	if err := m.sessions.Clear(); err != nil {
		logf("MENU: Failed to clear session: %v", err)
	}

	if name := m.profile.DisplayName(); name != "" {
		m.out.Status(fmt.Sprintf("Welcome back, %s! Type 'games' to see what you can play.", name))
	} else {
		m.out.Status("Choose a display name with: name <your name>")
	}
}

func (m *Menu) HandleInput(cmd, arg string) error {
	switch cmd {
	case "name":
		return m.setName(arg)
	case "create":
		return m.create(arg)
	case "join":
		return m.join(arg)
	case "games":
		m.listGames()
	case "stats":
		m.showStats()
	default:
		return rejectf(ErrInvalidInput, "unknown command %q, try help", cmd)
	}

	return nil
}

func (m *Menu) setName(name string) error {
	name = strings.TrimSpace(name)
	if err := m.profile.SetDisplayName(name); err != nil {
		return err
	}
	m.out.Status(fmt.Sprintf("Playing as %s", name))

	return nil
}

func (m *Menu) requireName() (string, error) {
	name := m.profile.DisplayName()
	if name == "" {
		return "", rejectf(ErrInvalidInput, "choose a display name first: name <your name>")
	}
	return name, nil
}

func (m *Menu) create(game string) error {
	name, err := m.requireName()
	if err != nil {
		return err
	}

	game = strings.ToLower(strings.TrimSpace(game))
	if err := validateGameType(game); err != nil {
		return reject(err)
	}

	sess := Session{
		GameType:    GameType(game),
		IsHost:      true,
		DisplayName: name,
	}
	if err := m.sessions.Save(sess); err != nil {
		return err
	}

	m.out.Status(fmt.Sprintf("Creating a %s room...", sess.GameType.Title()))
	m.nav.Navigate(LocationLobby, 0)

	return nil
}

func (m *Menu) join(code string) error {
	name, err := m.requireName()
	if err != nil {
		return err
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validateRoomCode(code); err != nil {
		return err
	}

	sess := Session{
		RoomCode:    code,
		DisplayName: name,
	}
	if err := m.sessions.Save(sess); err != nil {
		return err
	}

	m.out.Status(fmt.Sprintf("Joining room %s...", code))
	m.nav.Navigate(LocationLobby, 0)

	return nil
}

func (m *Menu) listGames() {
	for _, g := range gameTypes() {
		info := games[g]
		m.out.Status(fmt.Sprintf("%-12s %s: %s (play with %s)", g, g.Title(), info.description, info.usage))
	}
}

func (m *Menu) showStats() {
	t := m.profile.Tally()
	m.out.Status(fmt.Sprintf("Played %d, won %d, lost %d, drawn %d", t.Played, t.Won, t.Lost, t.Drawn))
}
