/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const logDate string = `2006-01-02T15:04:05.000-07:00`

var (
	ErrAlreadyChosen  = errors.New("you already made a choice this round")
	ErrAlreadyUsed    = errors.New("already guessed")
	ErrColumnFull     = errors.New("column is full")
	ErrGameInactive   = errors.New("game is not active")
	ErrInvalidInput   = errors.New("invalid input")
	ErrMalformedFrame = errors.New("malformed frame")
	ErrNoGuessesLeft  = errors.New("no guesses left")
	ErrNotConnected   = errors.New("not connected")
	ErrNotHost        = errors.New("only the host can restart the game")
	ErrNotInGame      = errors.New("not in a game yet")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrPositionTaken  = errors.New("position already taken")
	ErrSendBufferFull = errors.New("send buffer full")
	ErrUnknownGame    = errors.New("unknown game type")
)

// RejectedError is returned for input refused locally. Nothing was sent.
type RejectedError struct {
	Reason error
}

func (e *RejectedError) Error() string {
	return e.Reason.Error()
}

func (e *RejectedError) Unwrap() error {
	return e.Reason
}

func reject(reason error) error {
	return &RejectedError{Reason: reason}
}

func rejectf(reason error, format string, args ...any) error {
	return &RejectedError{Reason: fmt.Errorf("%w: "+format, append([]any{reason}, args...)...)}
}

func isRejected(err error) bool {
	var r *RejectedError
	return errors.As(err, &r)
}

func setupLogging(w io.Writer, verbose bool) {
	zerolog.TimeFieldFormat = logDate

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: logDate}).
		With().
		Timestamp().
		Logger()
}

func logf(format string, args ...any) {
	log.Debug().Msgf(format, args...)
}
