package registry

import (
	"sort"
	"sync"

	"github.com/example/chat-relay/domain/relay"
)

// Store holds the authoritative mapping from connection ID to session.
// Room membership is never stored; it is derived from the sessions on
// demand, so a room exists exactly as long as it has members.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]relay.Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]relay.Session),
	}
}

// Activate upserts the session for connID with the given name and room,
// replacing any prior entry for the same connection. Name and room contents
// are not validated; empty and colliding names are permitted.
func (s *Store) Activate(connID, name, room string) relay.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := relay.Session{
		ID:   connID,
		Name: name,
		Room: room,
	}
	s.sessions[connID] = session
	return session
}

// Remove deletes the session for connID. Removing an unknown connection is
// a no-op.
func (s *Store) Remove(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, connID)
}

// Get returns the session for connID, if one exists.
func (s *Store) Get(connID string) (relay.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[connID]
	return session, ok
}

// MembersOf returns all sessions currently in room, sorted by display name
// then connection ID so rosters are deterministic across recipients.
func (s *Store) MembersOf(room string) []relay.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]relay.Session, 0)
	for _, session := range s.sessions {
		if session.Room == room {
			members = append(members, session)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Name != members[j].Name {
			return members[i].Name < members[j].Name
		}
		return members[i].ID < members[j].ID
	})
	return members
}

// ActiveRooms returns the distinct rooms referenced by current sessions,
// sorted. A room with no members never appears.
func (s *Store) ActiveRooms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	rooms := make([]string, 0)
	for _, session := range s.sessions {
		if !seen[session.Room] {
			seen[session.Room] = true
			rooms = append(rooms, session.Room)
		}
	}
	sort.Strings(rooms)
	return rooms
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
