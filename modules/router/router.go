// Package router translates inbound client events into registry mutations
// and outbound broadcasts. It owns no transport: delivery goes through the
// Emitter abstraction, scoped to a single connection, a set of connections,
// or every connection.
package router

import (
	"log/slog"
	"time"

	"github.com/example/chat-relay/domain/relay"
	"github.com/example/chat-relay/modules/registry"
)

// AdminName is the display name attached to system notices.
const AdminName = "Admin"

// Event is an outbound event kind plus its payload.
type Event struct {
	Kind    string
	Payload any
}

// Emitter delivers outbound events. Delivery is best-effort and must not
// block the caller on any recipient.
type Emitter interface {
	// ToConnection delivers to a single connection.
	ToConnection(connID string, evt Event)
	// ToConnections delivers to each listed connection.
	ToConnections(connIDs []string, evt Event)
	// ToAll delivers to every live connection, in or out of a room.
	ToAll(evt Event)
}

// Router drives registry mutation and broadcast scoping for the five
// inbound event kinds: connect, enterRoom, message, activity, disconnect.
type Router struct {
	store   *registry.Store
	emitter Emitter
	now     func() time.Time
	logger  *slog.Logger
}

// New creates a Router over the given session store and emitter.
func New(store *registry.Store, emitter Emitter) *Router {
	return &Router{
		store:   store,
		emitter: emitter,
		now:     time.Now,
		logger:  slog.Default(),
	}
}

// Connect greets a freshly connected client. The connection has no session
// yet; only the sender sees the welcome.
func (r *Router) Connect(connID string) {
	r.emitter.ToConnection(connID, Event{
		Kind:    relay.EventMessage,
		Payload: BuildEnvelope(AdminName, "Welcome to the chat!", r.now()),
	})
	r.logger.Info("client connected", "connID", connID)
}

// EnterRoom registers (or re-registers) the sender under the given name and
// room. Any prior room is left first: its members see the leave notice and
// refreshed roster strictly before any join event for the new room, so an
// observer never sees a user in two rooms at once.
func (r *Router) EnterRoom(connID string, req relay.EnterRoom) {
	prev, hadPrev := r.store.Get(connID)

	session := r.store.Activate(connID, req.Name, req.Room)

	if hadPrev {
		prevMembers := connIDs(r.store.MembersOf(prev.Room), connID)
		r.emitter.ToConnections(prevMembers, Event{
			Kind:    relay.EventMessage,
			Payload: BuildEnvelope(AdminName, prev.Name+" has left the room", r.now()),
		})
		r.emitter.ToConnections(prevMembers, Event{
			Kind:    relay.EventUserList,
			Payload: relay.UserList{Users: r.store.MembersOf(prev.Room)},
		})
	}

	members := r.store.MembersOf(session.Room)

	r.emitter.ToConnection(connID, Event{
		Kind:    relay.EventMessage,
		Payload: BuildEnvelope(AdminName, "You have joined the "+session.Room+" chat room", r.now()),
	})
	r.emitter.ToConnections(connIDs(members, connID), Event{
		Kind:    relay.EventMessage,
		Payload: BuildEnvelope(AdminName, session.Name+" has joined the room", r.now()),
	})
	r.emitter.ToConnections(connIDs(members, ""), Event{
		Kind:    relay.EventUserList,
		Payload: relay.UserList{Users: members},
	})
	r.emitter.ToAll(Event{
		Kind:    relay.EventRoomList,
		Payload: relay.RoomList{Rooms: r.store.ActiveRooms()},
	})

	r.logger.Info("client entered room", "connID", connID, "name", session.Name, "room", session.Room)
}

// Message relays a chat message to every member of the sender's room,
// sender included. A message from a connection with no session carries no
// room target and is silently dropped.
func (r *Router) Message(connID string, req relay.ChatText) {
	session, ok := r.store.Get(connID)
	if !ok {
		r.logger.Debug("dropping message from roomless connection", "connID", connID)
		return
	}

	r.emitter.ToConnections(connIDs(r.store.MembersOf(session.Room), ""), Event{
		Kind:    relay.EventMessage,
		Payload: BuildEnvelope(req.Name, req.Text, r.now()),
	})
}

// Activity relays a typing-activity notice to the sender's room, excluding
// the sender. Roomless senders are silently dropped.
func (r *Router) Activity(connID string, name string) {
	session, ok := r.store.Get(connID)
	if !ok {
		r.logger.Debug("dropping activity from roomless connection", "connID", connID)
		return
	}

	r.emitter.ToConnections(connIDs(r.store.MembersOf(session.Room), connID), Event{
		Kind:    relay.EventActivity,
		Payload: name,
	})
}

// Disconnect removes the sender's session and notifies its former room.
// A disconnect without a registered session emits nothing, so cleanup is
// idempotent.
func (r *Router) Disconnect(connID string) {
	session, ok := r.store.Get(connID)
	if !ok {
		return
	}

	r.store.Remove(connID)

	remaining := connIDs(r.store.MembersOf(session.Room), "")
	r.emitter.ToConnections(remaining, Event{
		Kind:    relay.EventMessage,
		Payload: BuildEnvelope(AdminName, session.Name+" has left the room", r.now()),
	})
	r.emitter.ToConnections(remaining, Event{
		Kind:    relay.EventUserList,
		Payload: relay.UserList{Users: r.store.MembersOf(session.Room)},
	})
	r.emitter.ToAll(Event{
		Kind:    relay.EventRoomList,
		Payload: relay.RoomList{Rooms: r.store.ActiveRooms()},
	})

	r.logger.Info("client disconnected", "connID", connID, "name", session.Name, "room", session.Room)
}

// connIDs extracts connection IDs from sessions, skipping except when
// non-empty.
func connIDs(sessions []relay.Session, except string) []string {
	ids := make([]string, 0, len(sessions))
	for _, session := range sessions {
		if except != "" && session.ID == except {
			continue
		}
		ids = append(ids, session.ID)
	}
	return ids
}
