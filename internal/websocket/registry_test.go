package websocket

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn := newMockConn()

	req.Nil(registry.Register("u1", conn))

	got, ok := registry.Lookup("u1")
	req.True(ok)
	req.Same(conn, got.(*mockConn))
	req.True(registry.IsOnline("u1"))
	req.Equal(1, registry.Count())

	_, ok = registry.Lookup("u2")
	req.False(ok)
	req.False(registry.IsOnline("u2"))
}

func TestRegistry_RegisterSupersedes(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	first := newMockConn()
	second := newMockConn()

	req.Nil(registry.Register("u1", first))
	prev := registry.Register("u1", second)
	req.Same(first, prev.(*mockConn))

	// The registry swaps the mapping but leaves the old connection open.
	req.True(first.IsOpen())

	got, ok := registry.Lookup("u1")
	req.True(ok)
	req.Same(second, got.(*mockConn))
	req.Equal(1, registry.Count())
}

func TestRegistry_IsOnlineRequiresOpenConn(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn := newMockConn()

	registry.Register("u1", conn)
	req.True(registry.IsOnline("u1"))

	_ = conn.Close()
	req.False(registry.IsOnline("u1"))
}

func TestRegistry_RemoveByConn(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn := newMockConn()
	registry.Register("u1", conn)

	userID, ok := registry.RemoveByConn(conn)
	req.True(ok)
	req.Equal("u1", userID)
	req.Equal(0, registry.Count())

	_, ok = registry.RemoveByConn(conn)
	req.False(ok)
}

func TestRegistry_RemoveByConn_StaleConnKeepsNewerSession(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	stale := newMockConn()
	current := newMockConn()

	registry.Register("u1", stale)
	registry.Register("u1", current)

	// The stale connection closing out of order must not evict the newer
	// mapping.
	_, ok := registry.RemoveByConn(stale)
	req.False(ok)

	got, stillThere := registry.Lookup("u1")
	req.True(stillThere)
	req.Same(current, got.(*mockConn))
}

func TestRegistry_Shutdown(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	a := newMockConn()
	b := newMockConn()
	registry.Register("u1", a)
	registry.Register("u2", b)

	registry.Shutdown()

	req.Equal(0, registry.Count())
	req.False(a.IsOpen())
	req.False(b.IsOpen())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", n%10)
			conn := newMockConn()
			registry.Register(userID, conn)
			registry.Lookup(userID)
			registry.IsOnline(userID)
			registry.RemoveByConn(conn)
		}(i)
	}
	wg.Wait()
}
