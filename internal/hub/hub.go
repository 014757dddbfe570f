// Package hub implements the realtime coordinator: a single goroutine
// that owns the session and room registries and serializes every
// mutation and dispatch through one bounded command queue.
package hub

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/sourcefab/rfq-hub-go/internal/errors"
)

// ChatMessage is one room broadcast in flight. It is never persisted.
type ChatMessage struct {
	RoomID            int64
	SenderUserID      int64
	SenderFullName    string
	SenderCompanyName string
	Text              string
}

type Hub struct {
	commands chan command

	// Owned exclusively by the Run goroutine.
	sessions *sessionRegistry
	rooms    *roomRegistry

	done chan struct{}
}

func New(queueSize int) *Hub {
	return &Hub{
		commands: make(chan command, queueSize),
		sessions: newSessionRegistry(),
		rooms:    newRoomRegistry(),
		done:     make(chan struct{}),
	}
}

// Run drains the command queue until ctx is cancelled. Commands are
// processed one at a time in FIFO order; this is the only goroutine that
// touches the registries.
func (h *Hub) Run(ctx context.Context) {
	log.Info().Msg("hub started")
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case cmd := <-h.commands:
			cmd.apply(h)
		}
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	h.sessions.each(func(c *Client) {
		c.close()
	})
	log.Info().Int("sessions", h.sessions.len()).Msg("hub stopped")
}

// Done is closed once the hub has stopped accepting commands.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// enqueue blocks while the queue is full, applying backpressure to the
// caller, and gives up when the caller's context is cancelled or the hub
// has shut down.
func (h *Hub) enqueue(ctx context.Context, cmd command) error {
	select {
	case <-h.done:
		return apperrors.HubClosed()
	default:
	}

	select {
	case h.commands <- cmd:
		return nil
	case <-h.done:
		return apperrors.HubClosed()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Connect registers c as its user's live session. A previous session for
// the same user is silently replaced.
func (h *Hub) Connect(ctx context.Context, c *Client) error {
	return h.enqueue(ctx, connectCmd{client: c})
}

// Disconnect removes c from its user's session (only if c is still the
// registered handle) and from every room. Redundant disconnects are
// no-ops.
func (h *Hub) Disconnect(ctx context.Context, c *Client) error {
	return h.enqueue(ctx, disconnectCmd{client: c})
}

func (h *Hub) JoinRoom(ctx context.Context, roomID int64, c *Client) error {
	return h.enqueue(ctx, joinRoomCmd{roomID: roomID, client: c})
}

func (h *Hub) LeaveRoom(ctx context.Context, roomID int64, c *Client) error {
	return h.enqueue(ctx, leaveRoomCmd{roomID: roomID, client: c})
}

// Chat fans a message out to every member of the room, the sender
// included when it is a member. Echo is intentional: clients render their
// own messages from the broadcast.
func (h *Hub) Chat(ctx context.Context, msg ChatMessage) error {
	return h.enqueue(ctx, chatCmd{msg: msg})
}

// SendToUser pushes content to the recipient's live connection as a
// notification frame. Best-effort: an offline recipient is a delivery
// outcome, not an error. Durability belongs to the storage layer.
func (h *Hub) SendToUser(ctx context.Context, recipientUserID int64, content string) error {
	return h.enqueue(ctx, directCmd{recipientUserID: recipientUserID, content: content})
}

// RelaySignal forwards an opaque signaling payload to the recipient if
// online; otherwise the payload is dropped and logged. No retry, no
// queueing.
func (h *Hub) RelaySignal(ctx context.Context, senderUserID, recipientUserID int64, payload string) error {
	return h.enqueue(ctx, signalCmd{senderUserID: senderUserID, recipientUserID: recipientUserID, payload: payload})
}

// CallRequest routes a call invitation to the callee. When the callee is
// offline the caller gets an unavailable echo instead of silence.
func (h *Hub) CallRequest(ctx context.Context, senderUserID int64, senderName string, recipientUserID, roomID int64) error {
	return h.enqueue(ctx, callRequestCmd{
		senderUserID:    senderUserID,
		senderName:      senderName,
		recipientUserID: recipientUserID,
		roomID:          roomID,
	})
}

// CallAccepted tells the original caller the callee picked up.
func (h *Hub) CallAccepted(ctx context.Context, originalSenderID, recipientID int64) error {
	return h.enqueue(ctx, callAcceptedCmd{originalSenderID: originalSenderID, recipientID: recipientID})
}
