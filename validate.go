/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const gameTypeRule = "required,oneof=tictactoe rps connect4 guessnumber wordguess dots"

// roomConfirmation is the payload of both roomCreated and roomJoined.
type roomConfirmation struct {
	Code     string `json:"code" validate:"required,alphanum,max=12"`
	Role     string `json:"role" validate:"required,oneof=X O Red Yellow P1 P2"`
	GameType string `json:"gameType" validate:"required,oneof=tictactoe rps connect4 guessnumber wordguess dots"`
	IsHost   bool   `json:"isHost"`
	Username string `json:"username"`
}

// startGame is sent to both players once the room is full.
type startGame struct {
	Code     string `json:"code" validate:"required"`
	GameType string `json:"gameType" validate:"required,oneof=tictactoe rps connect4 guessnumber wordguess dots"`
	IsHost   bool   `json:"isHost"`
	Username string `json:"username"`
}

func validateDisplayName(name string) error {
	if err := validate.Var(name, "required,min=2,max=20"); err != nil {
		return rejectf(ErrInvalidInput, "display name must be 2-20 characters")
	}
	return nil
}

func validateRoomCode(code string) error {
	if err := validate.Var(code, "required,alphanum,max=12"); err != nil {
		return rejectf(ErrInvalidInput, "room code %q is not valid", code)
	}
	return nil
}

func validateGameType(g string) error {
	if err := validate.Var(g, gameTypeRule); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownGame, g)
	}
	return nil
}

func validateChatMessage(msg string) error {
	if err := validate.Var(msg, "required,max=500"); err != nil {
		return rejectf(ErrInvalidInput, "chat messages must be 1-500 characters")
	}
	return nil
}

func validateTabID(tab string) error {
	return validate.Var(tab, "required,max=64,excludesall=/\\.")
}

// validatePayload checks a decoded payload and flattens validator output
// into a single readable error.
func validatePayload(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}

	problems := make([]string, 0, len(fields))
	for _, f := range fields {
		problems = append(problems, fmt.Sprintf("%s failed %s", f.Field(), f.Tag()))
	}

	return fmt.Errorf("%w: %s", ErrMalformedFrame, strings.Join(problems, ", "))
}
