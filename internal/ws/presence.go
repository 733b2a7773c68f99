package ws

import "sync"

// Room identifies where a connection currently lives.
type Room string

const (
	RoomNone  Room = ""
	RoomLobby Room = "lobby"
)

// SessionRoom is the room for one session's participants.
func SessionRoom(sessionID string) Room {
	return Room("session:" + sessionID)
}

type presenceEntry struct {
	accountID int64
	room      Room
}

// Registry maps live connections to their account and current room. The hub
// is the only writer; entries exist strictly between connect and disconnect.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*presenceEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*presenceEntry)}
}

func (r *Registry) Connect(connID string, accountID int64) {
	r.mu.Lock()
	r.entries[connID] = &presenceEntry{accountID: accountID}
	r.mu.Unlock()
}

func (r *Registry) Disconnect(connID string) {
	r.mu.Lock()
	delete(r.entries, connID)
	r.mu.Unlock()
}

func (r *Registry) SetRoom(connID string, room Room) {
	r.mu.Lock()
	if e, ok := r.entries[connID]; ok {
		e.room = room
	}
	r.mu.Unlock()
}

// Room returns the connection's current room, RoomNone when unknown.
func (r *Registry) Room(connID string) Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[connID]; ok {
		return e.room
	}
	return RoomNone
}

// ListRoom returns the connection ids currently in room.
func (r *Registry) ListRoom(room Room) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var res []string
	for id, e := range r.entries {
		if e.room == room {
			res = append(res, id)
		}
	}
	return res
}

// AccountsInRoom returns the distinct account ids present in room.
func (r *Registry) AccountsInRoom(room Room) []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int64]struct{})
	var res []int64
	for _, e := range r.entries {
		if e.room != room {
			continue
		}
		if _, ok := seen[e.accountID]; ok {
			continue
		}
		seen[e.accountID] = struct{}{}
		res = append(res, e.accountID)
	}
	return res
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
