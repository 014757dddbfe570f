package hub

import "sync"

// Client is the hub-side handle for one live connection: the identity it
// authenticated as plus a buffered outbound frame channel. The connection
// handler owns the socket; the hub only ever writes frames into the
// channel and never blocks on a slow consumer.
type Client struct {
	userID      int64
	fullName    string
	companyName string

	frames    chan string
	closed    bool
	closeOnce sync.Once
}

func NewClient(userID int64, fullName, companyName string, buffer int) *Client {
	return &Client{
		userID:      userID,
		fullName:    fullName,
		companyName: companyName,
		frames:      make(chan string, buffer),
	}
}

func (c *Client) UserID() int64 {
	return c.userID
}

func (c *Client) FullName() string {
	return c.fullName
}

func (c *Client) CompanyName() string {
	return c.companyName
}

// Frames is the outbound side read by the connection's write pump. The
// channel is closed by the hub when the client is disconnected.
func (c *Client) Frames() <-chan string {
	return c.frames
}

// deliver enqueues a frame without blocking. Returns false when the
// client buffer is full or the client is already closed; the frame is
// dropped in both cases. Called only from the hub goroutine.
func (c *Client) deliver(frame string) bool {
	if c.closed {
		return false
	}
	select {
	case c.frames <- frame:
		return true
	default:
		return false
	}
}

// close shuts the frame channel, ending the write pump. Called only from
// the hub goroutine; idempotent for redundant disconnects.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.closed = true
		close(c.frames)
	})
}
