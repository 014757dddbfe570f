package hub

import "github.com/rs/zerolog/log"

// command is one unit of work on the hub's queue. apply runs on the hub
// goroutine and must not block.
type command interface {
	apply(h *Hub)
}

type connectCmd struct {
	client *Client
}

func (cmd connectCmd) apply(h *Hub) {
	prev := h.sessions.register(cmd.client.userID, cmd.client)
	if prev != nil {
		// Last connect wins. The replaced handle is not closed here; its
		// own disconnect cleans its room memberships.
		log.Info().Int64("userId", cmd.client.userID).Msg("session replaced by newer connection")
	}
	log.Info().Int64("userId", cmd.client.userID).Int("sessions", h.sessions.len()).Msg("user connected")
}

type disconnectCmd struct {
	client *Client
}

func (cmd disconnectCmd) apply(h *Hub) {
	// Only drop the session entry if this handle still owns it; a stale
	// disconnect must not evict a newer connection of the same user.
	if h.sessions.lookup(cmd.client.userID) == cmd.client {
		h.sessions.unregister(cmd.client.userID)
	}
	h.rooms.purge(cmd.client)
	cmd.client.close()
	log.Info().Int64("userId", cmd.client.userID).Int("sessions", h.sessions.len()).Msg("user disconnected")
}

type joinRoomCmd struct {
	roomID int64
	client *Client
}

func (cmd joinRoomCmd) apply(h *Hub) {
	h.rooms.join(cmd.roomID, cmd.client)
	log.Info().Int64("roomId", cmd.roomID).Int64("userId", cmd.client.userID).Msg("joined room")
}

type leaveRoomCmd struct {
	roomID int64
	client *Client
}

func (cmd leaveRoomCmd) apply(h *Hub) {
	h.rooms.leave(cmd.roomID, cmd.client)
	log.Info().Int64("roomId", cmd.roomID).Int64("userId", cmd.client.userID).Msg("left room")
}

type chatCmd struct {
	msg ChatMessage
}

func (cmd chatCmd) apply(h *Hub) {
	frame := ChatFrame(cmd.msg.SenderFullName, cmd.msg.SenderCompanyName, cmd.msg.Text)
	for member := range h.rooms.members(cmd.msg.RoomID) {
		if !member.deliver(frame) {
			log.Warn().
				Int64("roomId", cmd.msg.RoomID).
				Int64("userId", member.userID).
				Msg("client frame buffer full, dropping chat frame")
		}
	}
}

type directCmd struct {
	recipientUserID int64
	content         string
}

func (cmd directCmd) apply(h *Hub) {
	recipient := h.sessions.lookup(cmd.recipientUserID)
	if recipient == nil {
		log.Debug().Int64("userId", cmd.recipientUserID).Msg("recipient offline, notification not pushed")
		return
	}
	if recipient.deliver(NotificationFrame(cmd.content)) {
		log.Info().Int64("userId", cmd.recipientUserID).Msg("pushed notification to online user")
	}
}

type signalCmd struct {
	senderUserID    int64
	recipientUserID int64
	payload         string
}

func (cmd signalCmd) apply(h *Hub) {
	recipient := h.sessions.lookup(cmd.recipientUserID)
	if recipient == nil {
		log.Warn().
			Int64("senderId", cmd.senderUserID).
			Int64("recipientId", cmd.recipientUserID).
			Msg("cannot relay signal, recipient offline")
		return
	}
	recipient.deliver(SignalFrame(cmd.senderUserID, cmd.payload))
	log.Debug().
		Int64("senderId", cmd.senderUserID).
		Int64("recipientId", cmd.recipientUserID).
		Msg("relayed signal")
}

type callRequestCmd struct {
	senderUserID    int64
	senderName      string
	recipientUserID int64
	roomID          int64
}

func (cmd callRequestCmd) apply(h *Hub) {
	recipient := h.sessions.lookup(cmd.recipientUserID)
	if recipient != nil {
		recipient.deliver(CallRequestFrame(cmd.senderUserID, cmd.senderName, cmd.roomID))
		return
	}
	log.Info().
		Int64("senderId", cmd.senderUserID).
		Int64("recipientId", cmd.recipientUserID).
		Msg("call request to offline user")
	if caller := h.sessions.lookup(cmd.senderUserID); caller != nil {
		caller.deliver(CallUnavailableFrame(cmd.recipientUserID))
	}
}

type callAcceptedCmd struct {
	originalSenderID int64
	recipientID      int64
}

func (cmd callAcceptedCmd) apply(h *Hub) {
	caller := h.sessions.lookup(cmd.originalSenderID)
	if caller == nil {
		log.Info().Int64("callerId", cmd.originalSenderID).Msg("call accepted but caller went offline")
		return
	}
	caller.deliver(CallAcceptedFrame(cmd.recipientID))
}
