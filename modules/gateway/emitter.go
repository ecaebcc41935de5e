package gateway

import (
	"log/slog"
	"sync"

	"github.com/example/chat-relay/modules/router"
)

// frame is the JSON envelope for every outbound event.
type frame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// eventWriter is the slice of a WebSocket connection the table needs.
// *websocket.Conn satisfies it.
type eventWriter interface {
	WriteJSON(v any) error
}

// conn is one live connection. Broadcasts may write to it from another
// connection's handler goroutine, so writes are serialized.
type conn struct {
	id string
	w  eventWriter
	mu sync.Mutex
}

func (c *conn) writeEvent(evt router.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.WriteJSON(frame{Event: evt.Kind, Payload: evt.Payload})
}

// ConnTable tracks every live connection and implements router.Emitter.
// Delivery is fire-and-forget: a failed write is logged and the connection
// is left for its own read loop to tear down.
type ConnTable struct {
	mu     sync.RWMutex
	conns  map[string]*conn
	logger *slog.Logger
}

// NewConnTable creates an empty connection table.
func NewConnTable() *ConnTable {
	return &ConnTable{
		conns:  make(map[string]*conn),
		logger: slog.Default(),
	}
}

// Add registers a connection under connID.
func (t *ConnTable) Add(connID string, w eventWriter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.conns[connID] = &conn{id: connID, w: w}
}

// Remove drops the connection for connID. Removing an unknown connection
// is a no-op.
func (t *ConnTable) Remove(connID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.conns, connID)
}

// Len returns the number of live connections.
func (t *ConnTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.conns)
}

// ToConnection delivers an event to a single connection.
func (t *ConnTable) ToConnection(connID string, evt router.Event) {
	t.mu.RLock()
	c := t.conns[connID]
	t.mu.RUnlock()

	if c == nil {
		return
	}
	t.send(c, evt)
}

// ToConnections delivers an event to each listed connection.
func (t *ConnTable) ToConnections(connIDs []string, evt router.Event) {
	t.mu.RLock()
	targets := make([]*conn, 0, len(connIDs))
	for _, id := range connIDs {
		if c, ok := t.conns[id]; ok {
			targets = append(targets, c)
		}
	}
	t.mu.RUnlock()

	for _, c := range targets {
		t.send(c, evt)
	}
}

// ToAll delivers an event to every live connection.
func (t *ConnTable) ToAll(evt router.Event) {
	t.mu.RLock()
	targets := make([]*conn, 0, len(t.conns))
	for _, c := range t.conns {
		targets = append(targets, c)
	}
	t.mu.RUnlock()

	for _, c := range targets {
		t.send(c, evt)
	}
}

func (t *ConnTable) send(c *conn, evt router.Event) {
	if err := c.writeEvent(evt); err != nil {
		t.logger.Error("failed to send event", "connID", c.id, "event", evt.Kind, "error", err)
	}
}
