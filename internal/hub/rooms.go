package hub

// roomRegistry maps a room id to the set of clients subscribed to it.
// Membership is keyed by connection identity, not user identity: a user
// with two live connections occupies a room twice. Owned by the hub
// goroutine; no locking.
type roomRegistry struct {
	rooms map[int64]map[*Client]struct{}
}

func newRoomRegistry() *roomRegistry {
	return &roomRegistry{rooms: make(map[int64]map[*Client]struct{})}
}

// join is idempotent and creates the room on first use.
func (r *roomRegistry) join(roomID int64, c *Client) {
	room, ok := r.rooms[roomID]
	if !ok {
		room = make(map[*Client]struct{})
		r.rooms[roomID] = room
	}
	room[c] = struct{}{}
}

// leave is a no-op for unknown rooms or absent clients. Empty rooms are
// dropped so the registry does not leak finished negotiations.
func (r *roomRegistry) leave(roomID int64, c *Client) {
	room, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(r.rooms, roomID)
	}
}

func (r *roomRegistry) members(roomID int64) map[*Client]struct{} {
	return r.rooms[roomID]
}

func (r *roomRegistry) contains(roomID int64, c *Client) bool {
	_, ok := r.rooms[roomID][c]
	return ok
}

// purge removes the client from every room. Linear in the number of
// rooms, which is fine for one hub per process.
func (r *roomRegistry) purge(c *Client) {
	for roomID, room := range r.rooms {
		delete(room, c)
		if len(room) == 0 {
			delete(r.rooms, roomID)
		}
	}
}

func (r *roomRegistry) len() int {
	return len(r.rooms)
}
