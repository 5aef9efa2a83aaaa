/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"fmt"
)

// Envelope is the outer frame exchanged with the game server. Payload
// carries a JSON document encoded as a string, except for the plain
// text types listed in plainPayloads.
type Envelope struct {
	Type     string `json:"type"`
	Payload  string `json:"payload"`
	GameType string `json:"gameType,omitempty"`
	Code     string `json:"code,omitempty"`
	Username string `json:"username,omitempty"`
}

const (
	msgCreate       = "create"
	msgJoin         = "join"
	msgGetGameState = "getGameState"
	msgRestart      = "restart"
	msgChat         = "chat"

	msgRoomCreated = "roomCreated"
	msgRoomJoined  = "roomJoined"
	msgLobbyUpdate = "lobbyUpdate"
	msgStartGame   = "startGame"
	msgGameState   = "gameState"
	msgGameEnd     = "gameEnd"
	msgPlayerLeft  = "playerLeft"
	msgHostLeft    = "hostLeft"
	msgError       = "error"
	msgChatMessage = "chatMessage"

	msgMove              = "move"
	msgRPSChoice         = "rpsChoice"
	msgRPSResult         = "rpsResult"
	msgConnect4Move      = "connect4Move"
	msgNumberGuess       = "numberGuess"
	msgNumberGuessResult = "numberGuessResult"
	msgLetterGuess       = "letterGuess"
	msgLetterGuessResult = "letterGuessResult"
	msgDotsMove          = "dotsMove"
)

var plainPayloads = map[string]bool{
	msgError:    true,
	msgHostLeft: true,
}

func newEnvelope(msgType string, payload any) (Envelope, error) {
	env := Envelope{Type: msgType}
	if payload == nil {
		return env, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return env, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	env.Payload = string(data)

	return env, nil
}

// Decode unmarshals the nested payload into v.
func (e Envelope) Decode(v any) error {
	if e.Payload == "" {
		return fmt.Errorf("%w: %s has an empty payload", ErrMalformedFrame, e.Type)
	}
	if err := json.Unmarshal([]byte(e.Payload), v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedFrame, e.Type, err)
	}
	return nil
}

// parseFrame decodes a raw frame and checks that any nested payload is
// well-formed JSON, so handlers never see a half-valid envelope.
func parseFrame(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if env.Type == "" {
		return env, fmt.Errorf("%w: missing type", ErrMalformedFrame)
	}
	if env.Payload != "" && !plainPayloads[env.Type] && !json.Valid([]byte(env.Payload)) {
		return env, fmt.Errorf("%w: %s payload is not valid JSON", ErrMalformedFrame, env.Type)
	}
	return env, nil
}
