package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/sourcefab/rfq-hub-go/internal/config"
	"github.com/sourcefab/rfq-hub-go/internal/hub"
	"github.com/sourcefab/rfq-hub-go/internal/model"
)

// How long a hub enqueue may block after the socket is already gone.
const disconnectTimeout = 5 * time.Second

// conn ties one websocket to its hub client handle: the read pump turns
// inbound frames into hub commands, the write pump drains hub-pushed
// frames back to the socket.
type conn struct {
	sock   *websocket.Conn
	hub    *hub.Hub
	client *hub.Client
	user   *model.User

	disconnectOnce sync.Once
}

func newConn(sock *websocket.Conn, h *hub.Hub, user *model.User) *conn {
	return &conn{
		sock:   sock,
		hub:    h,
		client: hub.NewClient(user.ID, user.FullName, user.CompanyName, config.ClientFrameBuffer),
		user:   user,
	}
}

// serve registers the connection and runs both pumps. It returns when
// the socket dies on either side; the hub sees exactly one Disconnect
// regardless of which pump failed first.
func (c *conn) serve(ctx context.Context) {
	if err := c.hub.Connect(ctx, c.client); err != nil {
		log.Error().Err(err).Int64("userId", c.user.ID).Msg("hub rejected connect")
		c.sock.Close()
		return
	}

	go c.writePump()
	c.readPump(ctx)
}

func (c *conn) disconnect() {
	c.disconnectOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		if err := c.hub.Disconnect(ctx, c.client); err != nil {
			log.Error().Err(err).Int64("userId", c.user.ID).Msg("failed to enqueue disconnect")
		}
	})
}

func (c *conn) readPump(ctx context.Context) {
	defer func() {
		c.disconnect()
		c.sock.Close()
	}()

	c.sock.SetReadLimit(config.WSMaxMessageSize)
	c.sock.SetReadDeadline(time.Now().Add(config.WSPongWait))
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(config.WSPongWait))
	})

	for {
		_, raw, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Int64("userId", c.user.ID).Msg("websocket read error")
			}
			return
		}

		frame, err := parseInbound(string(raw))
		if err != nil {
			// A bad frame is dropped; the connection stays up.
			log.Debug().Err(err).Int64("userId", c.user.ID).Msg("dropping malformed frame")
			continue
		}

		if err := c.dispatch(ctx, frame); err != nil {
			log.Error().Err(err).Int64("userId", c.user.ID).Str("verb", frame.verb).Msg("failed to enqueue command")
			return
		}
	}
}

// dispatch maps a parsed inbound frame onto the hub command it names.
// Identity fields always come from the authenticated user, never from
// the frame.
func (c *conn) dispatch(ctx context.Context, frame *inboundFrame) error {
	switch frame.verb {
	case verbJoin:
		return c.hub.JoinRoom(ctx, frame.roomID, c.client)
	case verbLeave:
		return c.hub.LeaveRoom(ctx, frame.roomID, c.client)
	case verbChat:
		return c.hub.Chat(ctx, hub.ChatMessage{
			RoomID:            frame.roomID,
			SenderUserID:      c.user.ID,
			SenderFullName:    c.user.FullName,
			SenderCompanyName: c.user.CompanyName,
			Text:              frame.text,
		})
	case verbSignal:
		return c.hub.RelaySignal(ctx, c.user.ID, frame.recipientUserID, frame.payload)
	case verbCall:
		return c.hub.CallRequest(ctx, c.user.ID, c.user.FullName, frame.recipientUserID, frame.roomID)
	case verbAccept:
		return c.hub.CallAccepted(ctx, frame.originalSenderID, c.user.ID)
	default:
		return nil
	}
}

func (c *conn) writePump() {
	ticker := time.NewTicker(config.WSPingPeriod)
	defer func() {
		ticker.Stop()
		c.disconnect()
		c.sock.Close()
	}()

	for {
		select {
		case frame, ok := <-c.client.Frames():
			c.sock.SetWriteDeadline(time.Now().Add(config.WSWriteWait))
			if !ok {
				// Hub closed this client.
				c.sock.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.sock.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				log.Debug().Err(err).Int64("userId", c.user.ID).Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			c.sock.SetWriteDeadline(time.Now().Add(config.WSWriteWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
