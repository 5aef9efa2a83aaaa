/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Location int

const (
	LocationMenu Location = iota
	LocationLobby
	LocationGame
)

func (l Location) String() string {
	switch l {
	case LocationMenu:
		return "menu"
	case LocationLobby:
		return "lobby"
	case LocationGame:
		return "game"
	}
	return "unknown"
}

func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// View is the whole client state as shown to the player.
type View struct {
	Location    Location  `json:"location"`
	DisplayName string    `json:"displayName"`
	Session     Session   `json:"session"`
	Stats       Tally     `json:"stats"`
	Room        *RoomView `json:"room,omitempty"`
}

type Presenter interface {
	Status(msg string)
	Update(v View)
}

type presenters []Presenter

func (p presenters) Status(msg string) {
	for _, out := range p {
		out.Status(msg)
	}
}

func (p presenters) Update(v View) {
	for _, out := range p {
		out.Update(v)
	}
}

type loopEvent interface {
	isLoopEvent()
}

type connEvent struct {
	gen int
	ev  ConnEvent
}

type inputEvent struct {
	line string
}

type navEvent struct {
	gen int
	to  Location
}

func (connEvent) isLoopEvent()  {}
func (inputEvent) isLoopEvent() {}
func (navEvent) isLoopEvent()   {}

var errQuit = errors.New("quit requested")

// App runs every page on a single goroutine. Connections, timers and the
// input reader only post events; everything they touch is owned by Run.
// Each page entry bumps gen so late events from a previous page are
// dropped.
type App struct {
	cfg      *Config
	profile  *Profile
	sessions *SessionStore
	out      Presenter
	dial     DialFunc

	events chan loopEvent
	done   chan struct{}

	ctx  context.Context
	gen  int
	loc  Location
	menu *Menu
	room *Room
	conn *Connection
}

func NewApp(cfg *Config, profile *Profile, sessions *SessionStore, out Presenter, dial DialFunc) *App {
	return &App{
		cfg:      cfg,
		profile:  profile,
		sessions: sessions,
		out:      out,
		dial:     dial,
		events:   make(chan loopEvent, 64),
		done:     make(chan struct{}),
	}
}

// Input queues one line typed by the player.
func (a *App) Input(line string) {
	a.post(inputEvent{line: line})
}

// Navigate moves to another page after the delay, unless the player has
// already left the current one by then.
func (a *App) Navigate(to Location, after time.Duration) {
	gen := a.gen
	time.AfterFunc(after, func() {
		a.post(navEvent{gen: gen, to: to})
	})
}

func (a *App) post(ev loopEvent) {
	select {
	case a.events <- ev:
	case <-a.done:
	}
}

func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx
	defer close(a.done)
	defer a.leave()

	a.enter(a.resumeLocation())
	a.publish()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-a.events:
			if quit := a.handle(ev); quit {
				return errQuit
			}
			a.publish()
		}
	}
}

// resumeLocation picks up an interrupted session where it left off.
func (a *App) resumeLocation() Location {
	sess := a.sessions.Load()

	switch {
	case sess.Complete() && sess.GameType != "":
		return LocationGame
	case sess.RoomCode != "" && sess.DisplayName != "":
		return LocationLobby
	}
	return LocationMenu
}

func (a *App) handle(ev loopEvent) bool {
	switch ev := ev.(type) {
	case connEvent:
		if ev.gen != a.gen || a.room == nil {
			return false
		}
		a.room.HandleConn(ev.ev)
	case navEvent:
		if ev.gen != a.gen {
			logf("NAV: Dropping stale navigation to %s", ev.to)

			return false
		}
		a.goTo(ev.to)
	case inputEvent:
		return a.handleInput(ev.line)
	}

	return false
}

func (a *App) handleInput(line string) bool {
	cmd, arg := parseCommand(line)

	var err error
	switch cmd {
	case "":
		return false
	case "quit", "exit":
		return true
	case "help":
		a.out.Status(helpText(a.loc))
	case "menu":
		if a.loc != LocationMenu {
			a.goTo(LocationMenu)
		}
	default:
		switch {
		case a.menu != nil:
			err = a.menu.HandleInput(cmd, arg)
		case a.room != nil:
			err = a.room.HandleInput(cmd, arg, line)
		default:
			err = reject(ErrNotInGame)
		}
	}

	switch {
	case err == nil:
	case isRejected(err):
		a.out.Status("Rejected: " + err.Error())
	default:
		a.out.Status("Error: " + err.Error())
	}

	return false
}

func (a *App) goTo(to Location) {
	a.leave()
	a.enter(to)
}

func (a *App) enter(to Location) {
	a.gen++
	a.loc = to
	logf("NAV: Entering %s", to)

	switch to {
	case LocationMenu:
		a.menu = NewMenu(a.profile, a.sessions, a, a.out)
		a.menu.Enter()
	case LocationLobby:
		a.startRoom(LocationLobby, a.sessions.Load())
	case LocationGame:
		sess := a.sessions.Load()
		if !sess.Complete() {
			a.out.Status("Error: Game session not found")
			a.Navigate(LocationMenu, a.cfg.redirectDelay)

			return
		}
		if err := a.startRoom(LocationGame, sess); err != nil {
			a.out.Status("Error: " + err.Error())
			a.Navigate(LocationMenu, a.cfg.redirectDelay)
		}
	}
}

func (a *App) startRoom(mode Location, sess Session) error {
	gen := a.gen
	conn := NewConnection(a.cfg, a.dial, func(ev ConnEvent) {
		a.post(connEvent{gen: gen, ev: ev})
	})

	var reducer Reducer
	if mode == LocationGame {
		r, err := newReducer(sess.GameType, sess.Role, conn, a.profile)
		if err != nil {
			return err
		}
		reducer = r
	}

	a.room = NewRoom(a.cfg, mode, sess, a.sessions, conn, a, a.out, reducer)
	a.conn = conn
	conn.Start(a.ctx)

	a.out.Status(fmt.Sprintf("Connecting to %s...", a.cfg.endpoint()))

	return nil
}

func (a *App) leave() {
	if a.conn != nil {
		a.conn.Close()
		a.conn = nil
	}
	a.room = nil
	a.menu = nil
}

func (a *App) publish() {
	v := View{
		Location:    a.loc,
		DisplayName: a.profile.DisplayName(),
		Session:     a.sessions.Load(),
		Stats:       a.profile.Tally(),
	}
	if a.room != nil {
		rv := a.room.View()
		v.Room = &rv
		v.Session = a.room.Session()
	}

	a.out.Update(v)
}
