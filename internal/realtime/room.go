package realtime

import "sync"

// Rooms is the registry of broadcast groups on this instance. A room is a
// view over session membership keyed by channel name ("board:<id>" or
// "user:<id>"): it appears when the first session joins and vanishes when
// the last one leaves.
type Rooms struct {
	mu    sync.RWMutex
	rooms map[string]map[*Session]struct{}
}

func NewRooms() *Rooms {
	return &Rooms{rooms: make(map[string]map[*Session]struct{})}
}

func (r *Rooms) Join(key string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[key]
	if !ok {
		room = make(map[*Session]struct{})
		r.rooms[key] = room
	}
	room[s] = struct{}{}
}

func (r *Rooms) Leave(key string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[key]
	if !ok {
		return
	}
	delete(room, s)
	if len(room) == 0 {
		delete(r.rooms, key)
	}
}

// Broadcast enqueues the payload to every member of the room. A member
// whose outbound queue is full is skipped; a slow or dead connection never
// affects other recipients.
func (r *Rooms) Broadcast(key string, payload []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for s := range r.rooms[key] {
		s.enqueue(payload)
	}
}

// Count returns the number of sessions in the room.
func (r *Rooms) Count(key string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[key])
}
