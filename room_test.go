package main

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomHarness struct {
	room     *Room
	send     *fakeSender
	nav      *fakeNav
	out      *recorder
	sessions *SessionStore
	stats    *fakeStats
}

func newRoomHarness(t *testing.T, mode Location, sess Session) *roomHarness {
	t.Helper()

	h := &roomHarness{
		send:     &fakeSender{},
		nav:      &fakeNav{},
		out:      &recorder{},
		sessions: NewSessionStore(memStore(t, afero.NewMemMapFs(), "sessions/tab.json")),
		stats:    &fakeStats{},
	}
	require.NoError(t, h.sessions.Save(sess))

	var reducer Reducer
	if mode == LocationGame {
		var err error
		reducer, err = newReducer(sess.GameType, sess.Role, h.send, h.stats)
		require.NoError(t, err)
	}

	h.room = NewRoom(testConfig(), mode, sess, h.sessions, h.send, h.nav, h.out, reducer)

	return h
}

func (h *roomHarness) deliver(env Envelope) {
	h.room.HandleConn(ConnEvent{Kind: ConnMessage, Message: env})
}

func (h *roomHarness) open() {
	h.room.HandleConn(ConnEvent{Kind: ConnOpened})
}

func confirmation(t *testing.T, msgType, code, role, game string, host bool) Envelope {
	t.Helper()
	return mustEnvelope(t, msgType, roomConfirmation{Code: code, Role: role, GameType: game, IsHost: host, Username: "sam"})
}

func TestLobbyCreatorSendsCreate(t *testing.T) {
	h := newRoomHarness(t, LocationLobby, Session{IsHost: true, DisplayName: "sam", GameType: GameDots})

	h.open()

	env := h.send.last(t)
	assert.Equal(t, msgCreate, env.Type)
	assert.Equal(t, "dots", env.GameType)
	assert.Equal(t, "sam", env.Username)
	assert.Equal(t, RoomAwaitingConfirmation, h.room.State())

	h.deliver(confirmation(t, msgRoomCreated, "K7QX2M", "P1", "dots", true))

	assert.Equal(t, RoomInLobby, h.room.State())
	saved := h.sessions.Load()
	assert.Equal(t, "K7QX2M", saved.RoomCode)
	assert.Equal(t, "P1", saved.Role)
	assert.True(t, saved.IsHost)
}

func TestLobbyJoinerSendsJoin(t *testing.T) {
	h := newRoomHarness(t, LocationLobby, Session{RoomCode: "K7QX2M", DisplayName: "amy"})

	h.open()

	env := h.send.last(t)
	assert.Equal(t, msgJoin, env.Type)
	assert.Equal(t, "amy", env.Username)
	assert.JSONEq(t, `{"code":"K7QX2M","username":"amy"}`, env.Payload)
}

func TestLobbyWithoutCodeReportsError(t *testing.T) {
	h := newRoomHarness(t, LocationLobby, Session{DisplayName: "amy"})

	h.open()

	assert.Empty(t, h.send.sent)
	assert.Equal(t, "Error: No game code provided", h.out.lastStatus())
	assert.Equal(t, RoomConnecting, h.room.State())
}

func TestLobbyRejectsInvalidConfirmation(t *testing.T) {
	h := newRoomHarness(t, LocationLobby, Session{RoomCode: "K7QX2M", DisplayName: "amy"})
	h.open()

	h.deliver(confirmation(t, msgRoomJoined, "K7QX2M", "P2", "chess", false))

	assert.Equal(t, RoomAwaitingConfirmation, h.room.State())
	assert.Empty(t, h.sessions.Load().Role)
}

func TestLobbyStartGamePersistsThenNavigates(t *testing.T) {
	h := newRoomHarness(t, LocationLobby, Session{RoomCode: "K7QX2M", DisplayName: "amy"})
	h.open()
	h.deliver(confirmation(t, msgRoomJoined, "K7QX2M", "P2", "rps", false))

	h.deliver(mustEnvelope(t, msgLobbyUpdate, lobbyUpdate{
		Code:    "K7QX2M",
		Players: []Member{{Username: "sam", Role: "P1", IsHost: true}, {Username: "amy", Role: "P2"}},
	}))
	assert.Len(t, h.room.View().Members, 2)
	assert.Equal(t, "Room ready! Game will start automatically...", h.out.lastStatus())

	h.deliver(mustEnvelope(t, msgStartGame, startGame{Code: "K7QX2M", GameType: "rps", IsHost: false}))

	require.Len(t, h.nav.calls, 1)
	assert.Equal(t, navCall{to: LocationGame, after: testConfig().settleDelay}, h.nav.calls[0])

	saved := h.sessions.Load()
	assert.Equal(t, GameRPS, saved.GameType)
	assert.True(t, saved.Complete())
}

func TestLobbyStartGameWithUnknownType(t *testing.T) {
	h := newRoomHarness(t, LocationLobby, Session{RoomCode: "K7QX2M", DisplayName: "amy"})

	h.deliver(rawEnvelope(msgStartGame, `{"code":"K7QX2M","gameType":"chess"}`))

	assert.Empty(t, h.nav.calls)
	assert.Contains(t, h.out.statuses, "Error: Unknown game type")
}

func TestStaleRoomCodeReturnsToMenu(t *testing.T) {
	sess := Session{RoomCode: "ZZZZZZ", Role: "X", DisplayName: "sam", GameType: GameTicTacToe}
	h := newRoomHarness(t, LocationGame, sess)

	h.open()
	assert.Equal(t, msgJoin, h.send.last(t).Type)

	h.deliver(rawEnvelope(msgError, "Room ZZZZZZ not found. The room may have been closed or expired."))

	saved := h.sessions.Load()
	assert.Empty(t, saved.RoomCode)
	assert.Empty(t, saved.Role)
	assert.Equal(t, "sam", saved.DisplayName)

	require.Len(t, h.nav.calls, 1)
	assert.Equal(t, navCall{to: LocationMenu, after: testConfig().redirectDelay}, h.nav.calls[0])
}

func TestOtherErrorsStayPut(t *testing.T) {
	h := newRoomHarness(t, LocationLobby, Session{RoomCode: "K7QX2M", DisplayName: "amy"})

	h.deliver(rawEnvelope(msgError, "Room is full"))

	assert.Empty(t, h.nav.calls)
	assert.Equal(t, "K7QX2M", h.sessions.Load().RoomCode)
	assert.Equal(t, "Error: Room is full", h.out.lastStatus())
}

func TestHostLeftReturnsToMenu(t *testing.T) {
	h := newRoomHarness(t, LocationGame, Session{RoomCode: "K7QX2M", Role: "O", DisplayName: "amy", GameType: GameTicTacToe})

	h.deliver(rawEnvelope(msgHostLeft, "Host sam has left the game"))

	require.Len(t, h.nav.calls, 1)
	assert.Equal(t, LocationMenu, h.nav.calls[0].to)
	assert.False(t, h.room.View().Game.Active)
}

func TestGameRoomRequestsStateAfterJoin(t *testing.T) {
	h := newRoomHarness(t, LocationGame, Session{RoomCode: "K7QX2M", Role: "X", IsHost: true, DisplayName: "sam", GameType: GameTicTacToe})

	h.open()
	h.deliver(mustEnvelope(t, msgGameState, tttSnapshot{Board: [9]string{0: "O"}, CurrentTurn: "X", GameActive: true}))
	assert.Equal(t, " 0 | 1 | 2 ", h.room.View().Game.Board[0], "snapshot before confirmation must be ignored")

	h.deliver(confirmation(t, msgRoomJoined, "K7QX2M", "X", "tictactoe", true))

	assert.Equal(t, RoomInGame, h.room.State())
	assert.Equal(t, msgGetGameState, h.send.last(t).Type)
	assert.JSONEq(t, `{"code":"K7QX2M"}`, h.send.last(t).Payload)

	h.deliver(mustEnvelope(t, msgGameState, tttSnapshot{Board: [9]string{0: "O"}, CurrentTurn: "X", GameActive: true}))
	assert.Equal(t, " O | 1 | 2 ", h.room.View().Game.Board[0])

	require.NoError(t, h.room.HandleInput("4", "", "4"))
	assert.Equal(t, msgMove, h.send.last(t).Type)

	h.deliver(mustEnvelope(t, msgMove, tttMove{Index: 4, Player: "X"}))
	assert.Equal(t, "O", h.room.View().Game.CurrentTurn)

	h.deliver(mustEnvelope(t, msgGameEnd, gameEnd{Winner: "X"}))
	h.deliver(mustEnvelope(t, msgGameEnd, gameEnd{Winner: "X"}))
	assert.Equal(t, []Outcome{OutcomeWin}, h.stats.outcomes)
	assert.Equal(t, "You won!", h.out.lastStatus())

	require.NoError(t, h.room.HandleInput("restart", "", "restart"))
	assert.Equal(t, msgRestart, h.send.last(t).Type)
	assert.Equal(t, "", h.send.last(t).Payload)

	h.deliver(rawEnvelope(msgRestart, ""))
	assert.True(t, h.room.View().Game.Active)
	assert.Equal(t, msgGetGameState, h.send.last(t).Type)
}

func TestRestartIsHostOnly(t *testing.T) {
	h := newRoomHarness(t, LocationGame, Session{RoomCode: "K7QX2M", Role: "O", DisplayName: "amy", GameType: GameTicTacToe})
	h.open()
	h.deliver(confirmation(t, msgRoomJoined, "K7QX2M", "O", "tictactoe", false))
	sent := len(h.send.sent)

	err := h.room.HandleInput("restart", "", "restart")
	assert.ErrorIs(t, err, ErrNotHost)
	assert.Len(t, h.send.sent, sent)
}

func TestMovesBeforeGameAreRejected(t *testing.T) {
	h := newRoomHarness(t, LocationLobby, Session{RoomCode: "K7QX2M", DisplayName: "amy"})

	assert.ErrorIs(t, h.room.HandleInput("4", "", "4"), ErrNotInGame)
}

func TestPlayerLeftDeactivatesGame(t *testing.T) {
	h := newRoomHarness(t, LocationGame, Session{RoomCode: "K7QX2M", Role: "X", DisplayName: "sam", GameType: GameTicTacToe})
	h.open()
	h.deliver(confirmation(t, msgRoomJoined, "K7QX2M", "X", "tictactoe", true))

	h.deliver(mustEnvelope(t, msgPlayerLeft, playerLeft{Player: "O", Username: "amy"}))

	assert.Equal(t, "amy left the game", h.out.lastStatus())
	assert.ErrorIs(t, h.room.HandleInput("0", "", "0"), ErrGameInactive)
}

func TestOpponentRejoinResumesGame(t *testing.T) {
	h := newRoomHarness(t, LocationGame, Session{RoomCode: "K7QX2M", Role: "X", DisplayName: "sam", GameType: GameTicTacToe})
	h.open()
	h.deliver(confirmation(t, msgRoomJoined, "K7QX2M", "X", "tictactoe", true))
	h.deliver(mustEnvelope(t, msgGameState, tttSnapshot{CurrentTurn: "X", GameActive: true}))

	h.deliver(mustEnvelope(t, msgPlayerLeft, playerLeft{Player: "O", Username: "amy"}))
	require.ErrorIs(t, h.room.HandleInput("0", "", "0"), ErrGameInactive)

	sent := len(h.send.sent)
	h.deliver(mustEnvelope(t, msgLobbyUpdate, lobbyUpdate{
		Code:    "K7QX2M",
		Players: []Member{{Username: "sam", Role: "X", IsHost: true}, {Username: "amy", Role: "O"}},
	}))
	require.Len(t, h.send.sent, sent+1)
	assert.Equal(t, msgGetGameState, h.send.last(t).Type)

	h.deliver(mustEnvelope(t, msgGameState, tttSnapshot{CurrentTurn: "X", GameActive: true}))

	require.NoError(t, h.room.HandleInput("0", "", "0"))
	assert.Equal(t, msgMove, h.send.last(t).Type)
	assert.JSONEq(t, `{"index":0}`, h.send.last(t).Payload)
}

func TestLobbyUpdateWithOnePlayerInGameSendsNothing(t *testing.T) {
	h := newRoomHarness(t, LocationGame, Session{RoomCode: "K7QX2M", Role: "X", DisplayName: "sam", GameType: GameTicTacToe})
	h.open()
	h.deliver(confirmation(t, msgRoomJoined, "K7QX2M", "X", "tictactoe", true))
	sent := len(h.send.sent)

	h.deliver(mustEnvelope(t, msgLobbyUpdate, lobbyUpdate{
		Code:    "K7QX2M",
		Players: []Member{{Username: "sam", Role: "X", IsHost: true}},
	}))

	assert.Len(t, h.send.sent, sent)
}

func TestChatIsBounded(t *testing.T) {
	h := newRoomHarness(t, LocationLobby, Session{RoomCode: "K7QX2M", DisplayName: "amy"})

	for i := 0; i < chatLimit+10; i++ {
		h.deliver(mustEnvelope(t, msgChatMessage, ChatLine{Username: "sam", Message: fmt.Sprintf("hi %d", i), Role: "P1"}))
	}

	lines := h.room.View().Chat
	require.Len(t, lines, chatLimit)
	assert.Equal(t, "hi 10", lines[0].Message)
	assert.Equal(t, fmt.Sprintf("hi %d", chatLimit+9), lines[chatLimit-1].Message)

	require.NoError(t, h.room.HandleInput("say", "good game", "say good game"))
	assert.Equal(t, msgChat, h.send.last(t).Type)
	assert.JSONEq(t, `{"message":"good game"}`, h.send.last(t).Payload)

	assert.True(t, isRejected(h.room.HandleInput("say", "", "say")))
}

func TestReconnectStatus(t *testing.T) {
	h := newRoomHarness(t, LocationLobby, Session{RoomCode: "K7QX2M", DisplayName: "amy"})

	h.room.HandleConn(ConnEvent{Kind: ConnReconnecting, Attempt: 2, Max: 5})
	assert.Equal(t, "Connection lost. Reconnecting... (2/5)", h.out.lastStatus())

	h.open()
	assert.Equal(t, msgJoin, h.send.last(t).Type)
}
