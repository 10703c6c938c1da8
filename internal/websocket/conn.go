package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	fixitnow_errors "fixitnow-chat/pkg/errors"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Conn is the capability a registered user holds: a live duplex channel the
// relay can push frames into. Keeping it this small keeps the registry and
// relay independent of the transport.
type Conn interface {
	Send(payload []byte) error
	Close() error
	IsOpen() bool
}

// wsConn adapts a gorilla connection to Conn. Writes are serialized with a
// mutex because gorilla allows at most one concurrent writer.
type wsConn struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	closed atomic.Bool
}

func newWSConn(conn *websocket.Conn) *wsConn {
	return &wsConn{conn: conn}
}

func (c *wsConn) Send(payload []byte) error {
	if c.closed.Load() {
		return fixitnow_errors.ErrConnClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.closed.Store(true)
		return err
	}
	return nil
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *wsConn) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
	return c.conn.Close()
}

func (c *wsConn) IsOpen() bool {
	return !c.closed.Load()
}
