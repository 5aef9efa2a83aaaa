/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	dialTimeout  = 10 * time.Second
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	maxFrameSize = 64 << 10
	sendBuffer   = 16
)

type ConnEventKind int

const (
	ConnOpened ConnEventKind = iota
	ConnReconnecting
	ConnClosed
	ConnLost
	ConnMessage
)

func (k ConnEventKind) String() string {
	switch k {
	case ConnOpened:
		return "opened"
	case ConnReconnecting:
		return "reconnecting"
	case ConnClosed:
		return "closed"
	case ConnLost:
		return "lost"
	case ConnMessage:
		return "message"
	}
	return "unknown"
}

// ConnEvent is everything a Connection reports to its owner. Attempt and
// Max are set for ConnReconnecting and ConnLost, Message for ConnMessage.
type ConnEvent struct {
	Kind    ConnEventKind
	Attempt int
	Max     int
	Message Envelope
	Err     error
}

type Sender interface {
	Send(Envelope) error
}

type DialFunc func(ctx context.Context, url string) (*websocket.Conn, error)

func dialWebsocket(ctx context.Context, url string) (*websocket.Conn, error) {
	d := websocket.Dialer{HandshakeTimeout: dialTimeout}

	conn, resp, err := d.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	return conn, err
}

// Connection keeps one websocket to the game server open, redialing with
// a linearly growing delay after abnormal closures. It never retries once
// Close has been called or the peer closed normally.
type Connection struct {
	url         string
	dial        DialFunc
	dispatch    func(ConnEvent)
	baseDelay   time.Duration
	maxAttempts int

	mu       sync.Mutex
	send     chan Envelope
	attempts int

	cancel context.CancelFunc
	done   chan struct{}
}

func NewConnection(cfg *Config, dial DialFunc, dispatch func(ConnEvent)) *Connection {
	if dial == nil {
		dial = dialWebsocket
	}

	return &Connection{
		url:         cfg.endpoint(),
		dial:        dial,
		dispatch:    dispatch,
		baseDelay:   cfg.reconnectDelay,
		maxAttempts: cfg.maxReconnects,
	}
}

func (c *Connection) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})

	go c.run(ctx)
}

// Close tears the socket down without triggering a reconnect.
func (c *Connection) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Done is closed once the connection has stopped for good.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

func (c *Connection) Send(env Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.send == nil {
		return ErrNotConnected
	}

	select {
	case c.send <- env:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *Connection) run(ctx context.Context) {
	defer close(c.done)

	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return
		}

		if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
			logf("CONN: Server closed %s", c.url)
			c.dispatch(ConnEvent{Kind: ConnClosed, Err: err})

			return
		}

		attempt, ok := c.nextAttempt()
		if !ok {
			logf("CONN: Giving up on %s after %d attempts: %v", c.url, c.maxAttempts, err)
			c.dispatch(ConnEvent{Kind: ConnLost, Attempt: attempt, Max: c.maxAttempts, Err: err})

			return
		}

		delay := time.Duration(attempt) * c.baseDelay
		logf("CONN: %v, reconnecting to %s in %s (%d/%d)", err, c.url, delay, attempt, c.maxAttempts)
		c.dispatch(ConnEvent{Kind: ConnReconnecting, Attempt: attempt, Max: c.maxAttempts, Err: err})

		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()

			return
		}
	}
}

func (c *Connection) nextAttempt() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attempts >= c.maxAttempts {
		return c.attempts, false
	}
	c.attempts++

	return c.attempts, true
}

// session dials once and pumps frames until the socket goes away.
func (c *Connection) session(ctx context.Context) error {
	conn, err := c.dial(ctx, c.url)
	if err != nil {
		return err
	}

	send := make(chan Envelope, sendBuffer)

	c.mu.Lock()
	c.send = send
	c.attempts = 0
	c.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		_ = conn.Close()
	})
	defer stop()

	logf("CONN: Connected to %s", c.url)

	go c.writePump(conn, send)
	c.dispatch(ConnEvent{Kind: ConnOpened})

	err = c.readPump(conn)

	c.mu.Lock()
	c.send = nil
	close(send)
	c.mu.Unlock()

	_ = conn.Close()

	return err
}

func (c *Connection) readPump(conn *websocket.Conn) error {
	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		env, err := parseFrame(data)
		if err != nil {
			logf("DROP: %v", err)

			continue
		}

		c.dispatch(ConnEvent{Kind: ConnMessage, Message: env})
	}
}

func (c *Connection) writePump(conn *websocket.Conn, send <-chan Envelope) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case env, ok := <-send:
			if !ok {
				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(env); err != nil {
				logf("CONN: Write failed: %v", err)
				_ = conn.Close()

				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				_ = conn.Close()

				return
			}
		}
	}
}
