package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrame(t *testing.T) {
	tests := []struct {
		name    string
		frame   string
		wantErr bool
	}{
		{"nested payload", `{"type":"move","payload":"{\"index\":4,\"player\":\"X\"}"}`, false},
		{"plain error", `{"type":"error","payload":"Room ABC not found."}`, false},
		{"plain host left", `{"type":"hostLeft","payload":"Host Sam has left the game"}`, false},
		{"empty payload", `{"type":"restart","payload":""}`, false},
		{"broken nested payload", `{"type":"move","payload":"{index:4"}`, true},
		{"missing type", `{"payload":"{}"}`, true},
		{"not json", `hello`, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseFrame([]byte(tc.frame))
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMalformedFrame)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewEnvelopeNestsPayload(t *testing.T) {
	env := mustEnvelope(t, msgJoin, joinRequest{Code: "ABC234", Username: "sam"})

	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"join","payload":"{\"code\":\"ABC234\",\"username\":\"sam\"}"}`, string(data))

	var req joinRequest
	require.NoError(t, env.Decode(&req))
	assert.Equal(t, "ABC234", req.Code)
}

func TestNewEnvelopeWithoutPayload(t *testing.T) {
	env := mustEnvelope(t, msgRestart, nil)
	assert.Equal(t, "", env.Payload)

	var v struct{}
	assert.ErrorIs(t, env.Decode(&v), ErrMalformedFrame)
}
