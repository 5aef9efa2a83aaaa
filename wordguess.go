/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"slices"
	"strings"
)

const (
	wordBlank       = "_"
	defaultMaxWrong = 6
)

type wordSnapshot struct {
	GuessedWord     []string `json:"guessedWord"`
	GuessedLetters  []string `json:"guessedLetters"`
	WrongGuesses    int      `json:"wrongGuesses"`
	MaxWrongGuesses int      `json:"maxWrongGuesses"`
	GameActive      bool     `json:"gameActive"`
	CurrentTurn     string   `json:"currentTurn"`
}

type letterGuess struct {
	Letter string `json:"letter"`
}

type letterResult struct {
	Letter         string   `json:"letter"`
	Found          bool     `json:"found"`
	GuessedWord    []string `json:"guessedWord"`
	GuessedLetters []string `json:"guessedLetters"`
	WrongGuesses   int      `json:"wrongGuesses"`
	GameActive     bool     `json:"gameActive"`
	CurrentTurn    string   `json:"currentTurn"`
	Word           string   `json:"word"`
}

// WordGuess is a shared hangman board. Players alternate letters; whoever
// reveals the last letter wins, and a full gallows loses for both.
type WordGuess struct {
	match
	word     []string
	letters  []string
	wrong    int
	maxWrong int
	turn     string
	answer   string
}

func newWordGuess(role string, send Sender, stats StatsRecorder) Reducer {
	w := &WordGuess{match: newMatch(GameWordGuess, role, send, stats)}
	w.reset()

	return w
}

func (w *WordGuess) reset() {
	w.word = nil
	w.letters = nil
	w.wrong = 0
	w.maxWrong = defaultMaxWrong
	w.turn = "P1"
	w.answer = ""
	w.rearm()
}

func (w *WordGuess) ResultType() string { return msgLetterGuessResult }

func (w *WordGuess) ApplySnapshot(env Envelope) error {
	var s wordSnapshot
	if err := env.Decode(&s); err != nil {
		return err
	}

	w.word = s.GuessedWord
	w.letters = s.GuessedLetters
	w.wrong = s.WrongGuesses
	if s.MaxWrongGuesses > 0 {
		w.maxWrong = s.MaxWrongGuesses
	}
	w.turn = s.CurrentTurn
	w.sync(s.GameActive)

	return nil
}

func (w *WordGuess) ApplyMove(env Envelope) error {
	var res letterResult
	if err := env.Decode(&res); err != nil {
		return err
	}
	if w.ended {
		return nil
	}

	guesser := w.turn

	w.word = res.GuessedWord
	w.letters = res.GuessedLetters
	w.wrong = res.WrongGuesses
	if res.CurrentTurn != "" {
		w.turn = res.CurrentTurn
	} else if res.GameActive {
		w.turn = opponent(guesser)
	}

	if !res.GameActive {
		w.answer = res.Word
		if w.solved() {
			w.finish(guesser)
		} else {
			w.finish(winnerNobody)
		}
	}

	return nil
}

func (w *WordGuess) solved() bool {
	return len(w.word) > 0 && !slices.Contains(w.word, wordBlank)
}

func (w *WordGuess) AttemptMove(input string) error {
	if err := w.ready(); err != nil {
		return err
	}
	if err := w.myTurn(w.turn); err != nil {
		return err
	}

	letter := strings.ToUpper(strings.TrimSpace(input))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return rejectf(ErrInvalidInput, "guess a single letter")
	}
	if slices.Contains(w.letters, letter) {
		return rejectf(ErrAlreadyUsed, "%s", letter)
	}

	return w.transmit(msgLetterGuess, letterGuess{Letter: letter})
}

func (w *WordGuess) Restart() {
	w.reset()
}

func (w *WordGuess) View() GameView {
	word := strings.Join(w.word, " ")
	if word == "" {
		word = "(waiting for the word)"
	}

	board := []string{
		word,
		fmt.Sprintf("Guessed: %s", strings.Join(w.letters, " ")),
		fmt.Sprintf("Wrong guesses: %d/%d", w.wrong, w.maxWrong),
	}
	if w.answer != "" {
		board = append(board, fmt.Sprintf("The word was %s", w.answer))
	}

	return w.view(w.turn, board)
}
