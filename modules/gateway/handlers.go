package gateway

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/chat-relay/domain/relay"
	"github.com/example/chat-relay/modules/registry"
	"github.com/example/chat-relay/modules/router"
)

// clientEvent is the JSON envelope for every inbound event.
type clientEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Handlers contains the WebSocket and HTTP handlers of the gateway.
type Handlers struct {
	router *router.Router
	store  *registry.Store
	table  *ConnTable
	logger *slog.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(rt *router.Router, store *registry.Store, table *ConnTable) *Handlers {
	return &Handlers{
		router: rt,
		store:  store,
		table:  table,
		logger: slog.Default(),
	}
}

// HandleWebSocket runs the per-connection event loop. The connection is
// assigned an opaque ID at connect time; a read error of any kind is the
// disconnect signal and always routes through the router, which is a no-op
// when the client never entered a room.
func (h *Handlers) HandleWebSocket(c *websocket.Conn) {
	connID := uuid.New().String()

	h.table.Add(connID, c)
	defer func() {
		h.router.Disconnect(connID)
		h.table.Remove(connID)
		_ = c.Close()
	}()

	h.router.Connect(connID)

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Error("websocket read error", "connID", connID, "error", err)
			}
			return
		}

		var evt clientEvent
		if err := json.Unmarshal(raw, &evt); err != nil {
			h.sendError(connID, "invalid message format")
			continue
		}

		h.dispatch(connID, evt)
	}
}

// dispatch routes one inbound event to the router. Well-formed events with
// unmet preconditions are dropped inside the router; malformed payloads and
// unknown kinds get an error event back.
func (h *Handlers) dispatch(connID string, evt clientEvent) {
	switch evt.Event {
	case relay.EventEnterRoom:
		var req relay.EnterRoom
		if err := json.Unmarshal(evt.Payload, &req); err != nil {
			h.sendError(connID, "invalid enterRoom payload")
			return
		}
		h.router.EnterRoom(connID, req)

	case relay.EventMessage:
		var req relay.ChatText
		if err := json.Unmarshal(evt.Payload, &req); err != nil {
			h.sendError(connID, "invalid message payload")
			return
		}
		h.router.Message(connID, req)

	case relay.EventActivity:
		var name string
		if err := json.Unmarshal(evt.Payload, &name); err != nil {
			h.sendError(connID, "invalid activity payload")
			return
		}
		h.router.Activity(connID, name)

	default:
		h.sendError(connID, "unknown event: "+evt.Event)
	}
}

func (h *Handlers) sendError(connID string, text string) {
	h.table.ToConnection(connID, router.Event{
		Kind:    relay.EventError,
		Payload: text,
	})
}

// REST handlers

// ListRooms handles GET /api/v1/rooms.
func (h *Handlers) ListRooms(c *fiber.Ctx) error {
	rooms := h.store.ActiveRooms()
	return c.JSON(fiber.Map{
		"rooms": rooms,
		"total": len(rooms),
	})
}

// ListRoomUsers handles GET /api/v1/rooms/:room/users.
func (h *Handlers) ListRoomUsers(c *fiber.Ctx) error {
	room := c.Params("room")

	users := h.store.MembersOf(room)
	if len(users) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "room not found",
		})
	}

	return c.JSON(fiber.Map{
		"room":  room,
		"users": users,
	})
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "healthy",
		"service":     "chat-relay",
		"connections": h.table.Len(),
	})
}
