package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicTacToeAttemptMove(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		setup  func(*testing.T, Reducer)
		input  string
		reason error
	}{
		{name: "valid move", role: "X", input: "4"},
		{name: "not your turn", role: "O", input: "4", reason: ErrNotYourTurn},
		{name: "out of range", role: "X", input: "9", reason: ErrInvalidInput},
		{name: "not a number", role: "X", input: "middle", reason: ErrInvalidInput},
		{
			name: "occupied",
			role: "X",
			setup: func(t *testing.T, r Reducer) {
				require.NoError(t, r.ApplySnapshot(mustEnvelope(t, msgGameState, tttSnapshot{
					Board:       [9]string{4: "O"},
					CurrentTurn: "X",
					GameActive:  true,
				})))
			},
			input:  "4",
			reason: ErrPositionTaken,
		},
		{
			name: "inactive",
			role: "X",
			setup: func(t *testing.T, r Reducer) {
				r.Deactivate()
			},
			input:  "0",
			reason: ErrGameInactive,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			send := &fakeSender{}
			r := newTicTacToe(tc.role, send, &fakeStats{})
			if tc.setup != nil {
				tc.setup(t, r)
			}

			err := r.AttemptMove(tc.input)
			if tc.reason == nil {
				require.NoError(t, err)
				require.Len(t, send.sent, 1)
				assert.Equal(t, msgMove, send.sent[0].Type)
				assert.JSONEq(t, `{"index":4}`, send.sent[0].Payload)

				return
			}

			assert.True(t, isRejected(err))
			assert.ErrorIs(t, err, tc.reason)
			assert.Empty(t, send.sent)
		})
	}
}

func TestTicTacToeMoveDoesNotApplyLocally(t *testing.T) {
	r := newTicTacToe("X", &fakeSender{}, &fakeStats{})

	require.NoError(t, r.AttemptMove("0"))

	assert.Equal(t, "X", r.View().CurrentTurn)
	assert.Equal(t, " 0 | 1 | 2 ", r.View().Board[0])
}

func TestTicTacToeSnapshotMatchesIncrementalMoves(t *testing.T) {
	moves := []tttMove{
		{Index: 4, Player: "X"},
		{Index: 0, Player: "O"},
		{Index: 8, Player: "X"},
	}

	incremental := newTicTacToe("O", &fakeSender{}, &fakeStats{})
	for _, mv := range moves {
		require.NoError(t, incremental.ApplyMove(mustEnvelope(t, msgMove, mv)))
	}

	snapshot := newTicTacToe("O", &fakeSender{}, &fakeStats{})
	require.NoError(t, snapshot.ApplySnapshot(mustEnvelope(t, msgGameState, tttSnapshot{
		Board:       [9]string{0: "O", 4: "X", 8: "X"},
		CurrentTurn: "O",
		GameActive:  true,
	})))

	assert.Equal(t, snapshot.View(), incremental.View())
}

func TestTicTacToeGameEndCountsOnce(t *testing.T) {
	stats := &fakeStats{}
	r := newTicTacToe("X", &fakeSender{}, stats)

	end := mustEnvelope(t, msgGameEnd, gameEnd{Winner: "X", WinnerUsername: "sam"})

	outcome, err := r.ApplyTerminalResult(end)
	require.NoError(t, err)
	assert.Equal(t, OutcomeWin, outcome)

	_, err = r.ApplyTerminalResult(end)
	require.NoError(t, err)

	assert.Equal(t, []Outcome{OutcomeWin}, stats.outcomes)
	assert.Equal(t, 1, r.View().Scoreboard["X"])
	assert.False(t, r.View().Active)
	assert.ErrorIs(t, r.AttemptMove("1"), ErrGameInactive)

	r.Restart()
	require.NoError(t, r.AttemptMove("1"))

	_, err = r.ApplyTerminalResult(rawEnvelope(msgGameEnd, `{"winner":"draw"}`))
	require.NoError(t, err)
	assert.Equal(t, []Outcome{OutcomeWin, OutcomeDraw}, stats.outcomes)
	assert.Equal(t, 1, r.View().Scoreboard["draw"])
}

func TestTicTacToeRejectsOutOfRangeMove(t *testing.T) {
	r := newTicTacToe("X", &fakeSender{}, &fakeStats{})

	err := r.ApplyMove(rawEnvelope(msgMove, `{"index":12,"player":"X"}`))
	assert.ErrorIs(t, err, ErrMalformedFrame)
}
