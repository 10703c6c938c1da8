package websocket

import "sync"

// Registry maps a user id to its single live connection. At most one entry
// per user: registering again supersedes the previous mapping. All methods
// are safe for unbounded concurrent callers and never block on I/O.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Conn)}
}

// Register inserts or replaces the mapping for userID and returns the
// superseded connection, if any. The registry itself never closes the old
// connection; the caller decides its fate.
func (r *Registry) Register(userID string, conn Conn) Conn {
	if userID == "" || conn == nil {
		return nil
	}
	r.mu.Lock()
	prev := r.conns[userID]
	r.conns[userID] = conn
	r.mu.Unlock()
	return prev
}

func (r *Registry) Lookup(userID string) (Conn, bool) {
	r.mu.RLock()
	conn, ok := r.conns[userID]
	r.mu.RUnlock()
	return conn, ok
}

func (r *Registry) IsOnline(userID string) bool {
	conn, ok := r.Lookup(userID)
	return ok && conn.IsOpen()
}

// RemoveByConn removes the entry whose value is exactly conn and returns the
// user id it was registered under. Matching on the connection rather than the
// user id means a stale connection closing late cannot evict a newer session.
func (r *Registry) RemoveByConn(conn Conn) (string, bool) {
	if conn == nil {
		return "", false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, c := range r.conns {
		if c == conn {
			delete(r.conns, userID)
			return userID, true
		}
	}
	return "", false
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Shutdown closes every registered connection and empties the registry.
// Called once during server teardown.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	conns := make([]Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	r.conns = make(map[string]Conn)
	r.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
}
