/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type RoomState int

const (
	RoomConnecting RoomState = iota
	RoomAwaitingConfirmation
	RoomInLobby
	RoomInGame
)

func (s RoomState) String() string {
	switch s {
	case RoomConnecting:
		return "connecting"
	case RoomAwaitingConfirmation:
		return "awaiting-confirmation"
	case RoomInLobby:
		return "in-lobby"
	case RoomInGame:
		return "in-game"
	}
	return "unknown"
}

type Member struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	IsHost   bool   `json:"isHost"`
}

type lobbyUpdate struct {
	Code     string   `json:"code"`
	Players  []Member `json:"players"`
	GameType string   `json:"gameType"`
	IsHost   bool     `json:"isHost"`
	Username string   `json:"username"`
}

type playerLeft struct {
	Player   string `json:"player"`
	Username string `json:"username"`
	IsHost   bool   `json:"isHost"`
}

type joinRequest struct {
	Code     string `json:"code"`
	Username string `json:"username"`
}

type stateRequest struct {
	Code string `json:"code"`
}

type Navigator interface {
	Navigate(to Location, after time.Duration)
}

// Room drives one page's conversation with the server: getting into a
// room, following the lobby, and handing game traffic to the reducer.
type Room struct {
	mode     Location
	state    RoomState
	session  Session
	sessions *SessionStore
	send     Sender
	nav      Navigator
	out      Presenter
	reducer  Reducer
	members  []Member
	chat     Chat
	redirect time.Duration
	settle   time.Duration
}

type RoomView struct {
	State   string     `json:"state"`
	Members []Member   `json:"members"`
	Chat    []ChatLine `json:"chat"`
	Game    *GameView  `json:"game,omitempty"`
}

func NewRoom(cfg *Config, mode Location, sess Session, sessions *SessionStore, send Sender, nav Navigator, out Presenter, reducer Reducer) *Room {
	return &Room{
		mode:     mode,
		session:  sess,
		sessions: sessions,
		send:     send,
		nav:      nav,
		out:      out,
		reducer:  reducer,
		redirect: cfg.redirectDelay,
		settle:   cfg.settleDelay,
	}
}

var roomHandlers = map[string]func(*Room, Envelope) error{
	msgRoomCreated: (*Room).onConfirmed,
	msgRoomJoined:  (*Room).onConfirmed,
	msgLobbyUpdate: (*Room).onLobbyUpdate,
	msgStartGame:   (*Room).onStartGame,
	msgGameState:   (*Room).onGameState,
	msgGameEnd:     (*Room).onGameEnd,
	msgRestart:     (*Room).onRestart,
	msgPlayerLeft:  (*Room).onPlayerLeft,
	msgHostLeft:    (*Room).onHostLeft,
	msgError:       (*Room).onError,
	msgChatMessage: (*Room).onChat,
}

func (r *Room) State() RoomState { return r.state }

func (r *Room) Session() Session { return r.session }

func (r *Room) HandleConn(ev ConnEvent) {
	switch ev.Kind {
	case ConnOpened:
		r.onOpen()
	case ConnReconnecting:
		r.state = RoomConnecting
		r.out.Status(fmt.Sprintf("Connection lost. Reconnecting... (%d/%d)", ev.Attempt, ev.Max))
	case ConnLost:
		r.state = RoomConnecting
		if r.reducer != nil {
			r.reducer.Deactivate()
		}
		r.out.Status("Connection lost. Please return to the menu.")
	case ConnClosed:
		r.state = RoomConnecting
		r.out.Status("Disconnected from server")
	case ConnMessage:
		r.handleMessage(ev.Message)
	}
}

func (r *Room) handleMessage(env Envelope) {
	handler, ok := roomHandlers[env.Type]
	if !ok && r.reducer != nil && env.Type == r.reducer.ResultType() {
		handler, ok = (*Room).onMove, true
	}
	if !ok {
		logf("ROOM: Ignoring %s message", env.Type)

		return
	}

	if err := handler(r, env); err != nil {
		log.Warn().Err(err).Str("type", env.Type).Msg("dropped message")
	}
}

func (r *Room) onOpen() {
	r.state = RoomConnecting

	var (
		env Envelope
		err error
	)
	switch {
	case r.mode == LocationLobby && r.session.IsHost && r.session.RoomCode == "":
		env = Envelope{
			Type:     msgCreate,
			GameType: string(r.session.GameType),
			Username: r.session.DisplayName,
		}
		r.out.Status("Connected. Creating room...")
	case r.session.RoomCode != "":
		env, err = newEnvelope(msgJoin, joinRequest{Code: r.session.RoomCode, Username: r.session.DisplayName})
		env.Username = r.session.DisplayName
		r.out.Status(fmt.Sprintf("Connected. Joining room %s...", r.session.RoomCode))
	default:
		r.out.Status("Error: No game code provided")

		return
	}

	if err == nil {
		err = r.send.Send(env)
	}
	if err != nil {
		r.out.Status(fmt.Sprintf("Error: %v", err))

		return
	}

	r.state = RoomAwaitingConfirmation
}

func (r *Room) onConfirmed(env Envelope) error {
	var c roomConfirmation
	if err := env.Decode(&c); err != nil {
		return err
	}
	if err := validatePayload(&c); err != nil {
		return err
	}

	r.session.RoomCode = c.Code
	r.session.Role = c.Role
	r.session.IsHost = c.IsHost
	r.session.GameType = GameType(c.GameType)
	r.persist()

	if r.reducer != nil {
		r.reducer.SetRole(c.Role)
	}

	if r.mode == LocationGame {
		r.state = RoomInGame
		r.out.Status(fmt.Sprintf("Joined %s as %s", r.session.GameType.Title(), c.Role))

		return r.requestState()
	}

	r.state = RoomInLobby

	host := ""
	if c.IsHost {
		host = " (Host)"
	}
	r.out.Status(fmt.Sprintf("Welcome %s! You are %s%s in room %s", r.session.DisplayName, c.Role, host, c.Code))

	return nil
}

func (r *Room) onLobbyUpdate(env Envelope) error {
	var u lobbyUpdate
	if err := env.Decode(&u); err != nil {
		return err
	}

	r.members = u.Players
	if r.mode != LocationLobby {
		// An opponent rejoined mid-game; the snapshot resumes play.
		if r.inGame() && len(r.members) >= 2 {
			return r.requestState()
		}
		return nil
	}

	if len(r.members) < 2 {
		r.out.Status("Waiting for another player to join...")
	} else {
		r.out.Status("Room ready! Game will start automatically...")
	}

	return nil
}

func (r *Room) onStartGame(env Envelope) error {
	if r.mode != LocationLobby {
		return nil
	}

	var s startGame
	if err := env.Decode(&s); err != nil {
		return err
	}
	if err := validatePayload(&s); err != nil {
		r.out.Status("Error: Unknown game type")

		return err
	}

	r.session.GameType = GameType(s.GameType)
	r.session.IsHost = s.IsHost
	if s.Code != "" {
		r.session.RoomCode = s.Code
	}
	if err := r.sessions.Save(r.session); err != nil {
		r.out.Status("Error: could not save the session")

		return err
	}

	r.state = RoomInGame
	r.out.Status(fmt.Sprintf("Starting %s...", r.session.GameType.Title()))
	r.nav.Navigate(LocationGame, r.settle)

	return nil
}

func (r *Room) inGame() bool {
	return r.mode == LocationGame && r.state == RoomInGame && r.reducer != nil
}

func (r *Room) onGameState(env Envelope) error {
	if !r.inGame() {
		return nil
	}
	return r.reducer.ApplySnapshot(env)
}

func (r *Room) onMove(env Envelope) error {
	if !r.inGame() {
		return nil
	}
	return r.reducer.ApplyMove(env)
}

func (r *Room) onGameEnd(env Envelope) error {
	if !r.inGame() {
		return nil
	}

	outcome, err := r.reducer.ApplyTerminalResult(env)
	if err != nil {
		return err
	}

	switch outcome {
	case OutcomeWin:
		r.out.Status("You won!")
	case OutcomeLose:
		r.out.Status("You lost!")
	case OutcomeDraw:
		r.out.Status("It's a draw!")
	}

	return nil
}

func (r *Room) onRestart(Envelope) error {
	if !r.inGame() {
		return nil
	}

	r.reducer.Restart()
	r.out.Status("Game restarted")

	return r.requestState()
}

func (r *Room) onPlayerLeft(env Envelope) error {
	var p playerLeft
	if err := env.Decode(&p); err != nil {
		return err
	}

	kept := r.members[:0]
	for _, m := range r.members {
		if m.Role != p.Player {
			kept = append(kept, m)
		}
	}
	r.members = kept

	if r.reducer != nil {
		r.reducer.Deactivate()
	}
	r.out.Status(fmt.Sprintf("%s left the game", p.Username))

	return nil
}

func (r *Room) onHostLeft(env Envelope) error {
	if r.reducer != nil {
		r.reducer.Deactivate()
	}

	msg := env.Payload
	if msg == "" {
		msg = "Host left the game"
	}
	r.out.Status(msg + " - returning to menu")
	r.nav.Navigate(LocationMenu, r.redirect)

	return nil
}

func (r *Room) onError(env Envelope) error {
	r.out.Status("Error: " + env.Payload)

	if roomNotFound(env.Payload) {
		r.session.RoomCode = ""
		r.session.Role = ""
		if err := r.sessions.ForgetRoom(); err != nil {
			logf("ROOM: Failed to forget room: %v", err)
		}
		r.nav.Navigate(LocationMenu, r.redirect)
	}

	return nil
}

func roomNotFound(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "room") && strings.Contains(msg, "not found")
}

func (r *Room) onChat(env Envelope) error {
	var l ChatLine
	if err := env.Decode(&l); err != nil {
		return err
	}

	r.chat.Append(l)
	r.out.Status(fmt.Sprintf("<%s> %s", l.Username, l.Message))

	return nil
}

func (r *Room) requestState() error {
	env, err := newEnvelope(msgGetGameState, stateRequest{Code: r.session.RoomCode})
	if err != nil {
		return err
	}
	return r.send.Send(env)
}

func (r *Room) persist() {
	if err := r.sessions.Save(r.session); err != nil {
		log.Warn().Err(err).Msg("could not save session")
	}
}

// HandleInput takes one line typed on a room page.
func (r *Room) HandleInput(cmd, arg, line string) error {
	switch cmd {
	case "say":
		env, err := newChatEnvelope(arg)
		if err != nil {
			return err
		}
		return r.send.Send(env)
	case "restart":
		return r.requestRestart()
	case "qr":
		if r.session.RoomCode == "" {
			return reject(ErrNotInGame)
		}
		text, err := roomQRText(r.session.RoomCode)
		if err != nil {
			return err
		}
		r.out.Status("Scan to get the room code " + r.session.RoomCode + "\n" + text)

		return nil
	}

	if !r.inGame() {
		return reject(ErrNotInGame)
	}

	return r.reducer.AttemptMove(line)
}

func (r *Room) requestRestart() error {
	if !r.inGame() {
		return reject(ErrNotInGame)
	}
	if !r.session.IsHost {
		return reject(ErrNotHost)
	}

	env, err := newEnvelope(msgRestart, nil)
	if err != nil {
		return err
	}
	return r.send.Send(env)
}

func (r *Room) View() RoomView {
	v := RoomView{
		State:   r.state.String(),
		Members: append([]Member(nil), r.members...),
		Chat:    r.chat.Lines(),
	}
	if r.reducer != nil {
		g := r.reducer.View()
		v.Game = &g
	}
	return v
}
