package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
)

// mockConn records everything sent through it so tests can assert on frames
// without a network in the way.
type mockConn struct {
	mu       sync.Mutex
	frames   [][]byte
	open     bool
	failSend bool
}

func newMockConn() *mockConn {
	return &mockConn{open: true}
}

func (c *mockConn) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return errors.New("connection closed")
	}
	if c.failSend {
		return errors.New("write failed")
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	c.frames = append(c.frames, buf)
	return nil
}

func (c *mockConn) Close() error {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
	return nil
}

func (c *mockConn) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *mockConn) frameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

// lastFrame decodes the most recent frame into out.
func (c *mockConn) lastFrame(t *testing.T, out any) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.frames) == 0 {
		t.Fatal("no frames received")
	}
	if err := json.Unmarshal(c.frames[len(c.frames)-1], out); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
}
