package hub

// sessionRegistry maps a user id to its single live client handle.
// Owned by the hub goroutine; no locking.
type sessionRegistry struct {
	byUser map[int64]*Client
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{byUser: make(map[int64]*Client)}
}

// register stores the client as the user's current session, returning the
// previous handle if one was present. A reconnect silently wins; the
// replaced handle stays in whatever rooms it joined until its own
// disconnect is processed.
func (r *sessionRegistry) register(userID int64, c *Client) (prev *Client) {
	prev = r.byUser[userID]
	r.byUser[userID] = c
	return prev
}

func (r *sessionRegistry) unregister(userID int64) *Client {
	c := r.byUser[userID]
	delete(r.byUser, userID)
	return c
}

func (r *sessionRegistry) lookup(userID int64) *Client {
	return r.byUser[userID]
}

func (r *sessionRegistry) len() int {
	return len(r.byUser)
}

func (r *sessionRegistry) each(fn func(*Client)) {
	for _, c := range r.byUser {
		fn(c)
	}
}
