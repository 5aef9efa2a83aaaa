package main

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []Envelope
	err  error
}

func (f *fakeSender) Send(env Envelope) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, env)
	return nil
}

func (f *fakeSender) last(t *testing.T) Envelope {
	t.Helper()
	require.NotEmpty(t, f.sent, "nothing was sent")
	return f.sent[len(f.sent)-1]
}

type navCall struct {
	to    Location
	after time.Duration
}

type fakeNav struct {
	calls []navCall
}

func (f *fakeNav) Navigate(to Location, after time.Duration) {
	f.calls = append(f.calls, navCall{to: to, after: after})
}

type recorder struct {
	mu       sync.Mutex
	statuses []string
	views    []View
}

func (r *recorder) Status(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, msg)
}

func (r *recorder) Update(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, v)
}

func (r *recorder) lastView() (View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.views) == 0 {
		return View{}, false
	}
	return r.views[len(r.views)-1], true
}

func (r *recorder) lastStatus() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statuses) == 0 {
		return ""
	}
	return r.statuses[len(r.statuses)-1]
}

type fakeStats struct {
	outcomes []Outcome
}

func (f *fakeStats) Record(o Outcome) error {
	f.outcomes = append(f.outcomes, o)
	return nil
}

func memStore(t *testing.T, fs afero.Fs, name string) *Store {
	t.Helper()
	s, err := OpenStore(fs, filepath.Join("/state", name))
	require.NoError(t, err)
	return s
}

func mustEnvelope(t *testing.T, msgType string, payload any) Envelope {
	t.Helper()
	env, err := newEnvelope(msgType, payload)
	require.NoError(t, err)
	return env
}

func rawEnvelope(msgType, payload string) Envelope {
	return Envelope{Type: msgType, Payload: payload}
}

func testConfig() *Config {
	return &Config{
		host:           "localhost",
		port:           8080,
		maxReconnects:  5,
		reconnectDelay: time.Millisecond,
		redirectDelay:  3 * time.Second,
		settleDelay:    100 * time.Millisecond,
		stateDir:       "/state",
		tab:            "test",
	}
}
