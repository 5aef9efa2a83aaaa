/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

const (
	keyGameCode   = "game_code"
	keyPlayerRole = "player_role"
	keyIsHost     = "is_host"
	keyUsername   = "username"
	keyGameType   = "game_type"
)

// Session is what one client instance remembers about the room it is in.
// It survives moving between the lobby and the game.
type Session struct {
	RoomCode    string   `json:"roomCode,omitempty"`
	Role        string   `json:"role,omitempty"`
	IsHost      bool     `json:"isHost"`
	DisplayName string   `json:"displayName,omitempty"`
	GameType    GameType `json:"gameType,omitempty"`
}

// Complete reports whether a game can be joined with this session.
func (s Session) Complete() bool {
	return s.RoomCode != "" && s.Role != "" && s.DisplayName != ""
}

type SessionStore struct {
	store *Store
}

func NewSessionStore(store *Store) *SessionStore {
	return &SessionStore{store: store}
}

func (s *SessionStore) Load() Session {
	return Session{
		RoomCode:    s.store.String(keyGameCode),
		Role:        s.store.String(keyPlayerRole),
		IsHost:      s.store.Bool(keyIsHost),
		DisplayName: s.store.String(keyUsername),
		GameType:    GameType(s.store.String(keyGameType)),
	}
}

func (s *SessionStore) Save(sess Session) error {
	return s.store.Set(map[string]any{
		keyGameCode:   sess.RoomCode,
		keyPlayerRole: sess.Role,
		keyIsHost:     sess.IsHost,
		keyUsername:   sess.DisplayName,
		keyGameType:   string(sess.GameType),
	})
}

func (s *SessionStore) Clear() error {
	return s.Save(Session{})
}

// ForgetRoom drops the room code and role but keeps the display name.
func (s *SessionStore) ForgetRoom() error {
	return s.store.Set(map[string]any{
		keyGameCode:   "",
		keyPlayerRole: "",
	})
}
