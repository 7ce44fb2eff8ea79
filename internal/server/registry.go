// Package server implements room membership tracking for the Signald relay
// via the Registry type.
package server

import (
	"log"
	"sync"
)

// DefaultRoom is the room a connection lands in when it does not name one.
// The substitution happens once, in the HTTP handler, before the registry
// ever sees the room name.
const DefaultRoom = "default"

// Registry is the process-wide mapping from room name to the set of live
// connections currently joined to that room. It owns membership bookkeeping
// only; it never reads or writes connection transports. All methods are safe
// for unbounded concurrent use from independent relay loops.
//
// A Registry is constructed explicitly and handed to every handler so tests
// can build isolated instances.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// NewRegistry creates an empty Registry ready for use.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// Join adds client to the member set of room, creating the room if it does
// not exist yet. Joining the same room twice with the same client is a no-op.
func (reg *Registry) Join(room string, client *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	members, ok := reg.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		reg.rooms[room] = members
		roomsActive.Inc()
	}
	members[client] = struct{}{}
}

// Leave removes client from room's member set. It is a no-op if the room or
// the membership does not exist, so it is safe to call for a connection whose
// Join was never observed, and safe to call more than once. The room is
// deleted when its last member leaves.
func (reg *Registry) Leave(room string, client *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	members, ok := reg.rooms[room]
	if !ok {
		return
	}
	if _, ok := members[client]; !ok {
		return
	}

	delete(members, client)
	if len(members) == 0 {
		delete(reg.rooms, room)
		roomsActive.Dec()
	}
}

// Snapshot returns a copy of room's current member set for the caller to
// iterate while broadcasting. It returns an empty slice for an unknown room.
// A snapshot taken concurrently with a Join or Leave on the same room may
// reflect either state, but never a partial one.
func (reg *Registry) Snapshot(room string) []*Client {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	members := reg.rooms[room]
	snapshot := make([]*Client, 0, len(members))
	for client := range members {
		snapshot = append(snapshot, client)
	}
	return snapshot
}

// MemberCount returns the number of connections currently joined to room.
func (reg *Registry) MemberCount(room string) int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms[room])
}

// RoomCount returns the number of rooms with at least one member.
func (reg *Registry) RoomCount() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// Drain closes the transport of every connection in every room. Each relay
// loop observes its own read error and leaves its room through the normal
// path, so Drain does not mutate membership itself.
func (reg *Registry) Drain() {
	reg.mu.RLock()
	var clients []*Client
	for _, members := range reg.rooms {
		for client := range members {
			clients = append(clients, client)
		}
	}
	reg.mu.RUnlock()

	for _, client := range clients {
		if client.conn == nil {
			continue
		}
		if err := client.conn.Close(); err != nil && !isExpectedCloseError(err) {
			log.Printf("Error closing connection %s during drain: %v", client.id, err)
		}
	}

	if len(clients) > 0 {
		log.Printf("Closed %d connections during drain", len(clients))
	}
}
