package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sourcefab/rfq-hub-go/internal/errors"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := New(64)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func newTestClient(userID int64, name, company string) *Client {
	return NewClient(userID, name, company, 16)
}

// barrierCmd lets tests wait until every previously enqueued command has
// been applied, and run assertions on the hub goroutine itself.
type barrierCmd struct {
	fn func(h *Hub)
	ch chan struct{}
}

func (cmd barrierCmd) apply(h *Hub) {
	if cmd.fn != nil {
		cmd.fn(h)
	}
	close(cmd.ch)
}

func flush(t *testing.T, h *Hub) {
	t.Helper()
	inspect(t, h, nil)
}

func inspect(t *testing.T, h *Hub, fn func(h *Hub)) {
	t.Helper()
	ch := make(chan struct{})
	require.NoError(t, h.enqueue(context.Background(), barrierCmd{fn: fn, ch: ch}))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("hub did not drain its queue")
	}
}

func recvFrame(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case frame, ok := <-c.Frames():
		require.True(t, ok, "frame channel closed")
		return frame
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return ""
	}
}

func assertNoFrame(t *testing.T, h *Hub, c *Client) {
	t.Helper()
	flush(t, h)
	select {
	case frame := <-c.Frames():
		t.Fatalf("unexpected frame: %q", frame)
	default:
	}
}

func TestChatBroadcast(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to all room members including the sender", func(t *testing.T) {
		h := startHub(t)
		alice := newTestClient(3, "Alice", "Acme Co")
		bob := newTestClient(5, "Bob", "Bolt Ltd")
		carol := newTestClient(9, "Carol", "Crank GmbH")

		require.NoError(t, h.Connect(ctx, alice))
		require.NoError(t, h.Connect(ctx, bob))
		require.NoError(t, h.Connect(ctx, carol))
		require.NoError(t, h.JoinRoom(ctx, 42, alice))
		require.NoError(t, h.JoinRoom(ctx, 42, bob))

		require.NoError(t, h.Chat(ctx, ChatMessage{
			RoomID:            42,
			SenderUserID:      3,
			SenderFullName:    "Alice",
			SenderCompanyName: "Acme Co",
			Text:              "ready to ship",
		}))

		want := "chat|Alice (Acme Co): ready to ship"
		assert.Equal(t, want, recvFrame(t, alice))
		assert.Equal(t, want, recvFrame(t, bob))
		assertNoFrame(t, h, carol)
	})

	t.Run("chat to an empty room is a no-op", func(t *testing.T) {
		h := startHub(t)
		require.NoError(t, h.Chat(ctx, ChatMessage{RoomID: 7, Text: "anyone?"}))
		flush(t, h)
	})

	t.Run("member stops receiving after leaving", func(t *testing.T) {
		h := startHub(t)
		c := newTestClient(3, "Alice", "Acme Co")
		require.NoError(t, h.Connect(ctx, c))
		require.NoError(t, h.JoinRoom(ctx, 42, c))
		require.NoError(t, h.LeaveRoom(ctx, 42, c))
		require.NoError(t, h.Chat(ctx, ChatMessage{RoomID: 42, Text: "gone"}))
		assertNoFrame(t, h, c)
	})
}

func TestDirectMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("online recipient gets exactly one notification frame", func(t *testing.T) {
		h := startHub(t)
		c := newTestClient(7, "Dana", "Drill Inc")
		require.NoError(t, h.Connect(ctx, c))

		require.NoError(t, h.SendToUser(ctx, 7, `{"id":1,"message":"Quote accepted"}`))

		assert.Equal(t, `notification|{"id":1,"message":"Quote accepted"}`, recvFrame(t, c))
		assertNoFrame(t, h, c)
	})

	t.Run("offline recipient is dropped without error", func(t *testing.T) {
		h := startHub(t)
		require.NoError(t, h.SendToUser(ctx, 404, "lost"))
		flush(t, h)
	})
}

func TestSignalRelay(t *testing.T) {
	ctx := context.Background()

	t.Run("payload bytes pass through untouched", func(t *testing.T) {
		h := startHub(t)
		recipient := newTestClient(5, "Bob", "Bolt Ltd")
		require.NoError(t, h.Connect(ctx, recipient))

		payload := `{"sdp":"v=0|o=-|s=-","candidate":"a|b|c"}`
		require.NoError(t, h.RelaySignal(ctx, 3, 5, payload))

		assert.Equal(t, "rtc-signal|3|"+payload, recvFrame(t, recipient))
	})

	t.Run("offline recipient is a silent drop", func(t *testing.T) {
		h := startHub(t)
		require.NoError(t, h.RelaySignal(ctx, 3, 404, "offer"))
		flush(t, h)
	})
}

func TestCallSignaling(t *testing.T) {
	ctx := context.Background()

	t.Run("call request reaches the callee", func(t *testing.T) {
		h := startHub(t)
		callee := newTestClient(5, "Bob", "Bolt Ltd")
		require.NoError(t, h.Connect(ctx, callee))

		require.NoError(t, h.CallRequest(ctx, 3, "Alice", 5, 42))

		assert.Equal(t, "rtc-call-request|3|Alice|42", recvFrame(t, callee))
	})

	t.Run("offline callee echoes unavailable to the caller", func(t *testing.T) {
		h := startHub(t)
		caller := newTestClient(3, "Alice", "Acme Co")
		require.NoError(t, h.Connect(ctx, caller))

		require.NoError(t, h.CallRequest(ctx, 3, "Alice", 404, 42))

		assert.Equal(t, "rtc-call-unavailable|404", recvFrame(t, caller))
	})

	t.Run("accept routes back to the original caller", func(t *testing.T) {
		h := startHub(t)
		caller := newTestClient(3, "Alice", "Acme Co")
		require.NoError(t, h.Connect(ctx, caller))

		require.NoError(t, h.CallAccepted(ctx, 3, 5))

		assert.Equal(t, "rtc-call-accepted|5", recvFrame(t, caller))
	})

	t.Run("accept for an offline caller is dropped", func(t *testing.T) {
		h := startHub(t)
		require.NoError(t, h.CallAccepted(ctx, 404, 5))
		flush(t, h)
	})
}

func TestDisconnect(t *testing.T) {
	ctx := context.Background()

	t.Run("purges the client from every room", func(t *testing.T) {
		h := startHub(t)
		c := newTestClient(3, "Alice", "Acme Co")
		require.NoError(t, h.Connect(ctx, c))
		for _, roomID := range []int64{1, 2, 3} {
			require.NoError(t, h.JoinRoom(ctx, roomID, c))
		}

		require.NoError(t, h.Disconnect(ctx, c))

		inspect(t, h, func(h *Hub) {
			assert.Equal(t, 0, h.rooms.len())
			assert.Nil(t, h.sessions.lookup(3))
		})
	})

	t.Run("closes the client frame channel", func(t *testing.T) {
		h := startHub(t)
		c := newTestClient(3, "Alice", "Acme Co")
		require.NoError(t, h.Connect(ctx, c))
		require.NoError(t, h.Disconnect(ctx, c))
		flush(t, h)

		_, ok := <-c.Frames()
		assert.False(t, ok)
	})

	t.Run("is idempotent", func(t *testing.T) {
		h := startHub(t)
		c := newTestClient(3, "Alice", "Acme Co")
		require.NoError(t, h.Connect(ctx, c))
		require.NoError(t, h.Disconnect(ctx, c))
		require.NoError(t, h.Disconnect(ctx, c))
		flush(t, h)
	})
}

func TestLastConnectWins(t *testing.T) {
	ctx := context.Background()

	t.Run("direct messages reach only the newest connection", func(t *testing.T) {
		h := startHub(t)
		first := newTestClient(3, "Alice", "Acme Co")
		second := newTestClient(3, "Alice", "Acme Co")

		require.NoError(t, h.Connect(ctx, first))
		require.NoError(t, h.Connect(ctx, second))
		require.NoError(t, h.SendToUser(ctx, 3, "hello"))

		assert.Equal(t, "notification|hello", recvFrame(t, second))
		assertNoFrame(t, h, first)
	})

	t.Run("stale disconnect does not evict the newer session", func(t *testing.T) {
		h := startHub(t)
		first := newTestClient(3, "Alice", "Acme Co")
		second := newTestClient(3, "Alice", "Acme Co")

		require.NoError(t, h.Connect(ctx, first))
		require.NoError(t, h.JoinRoom(ctx, 42, first))
		require.NoError(t, h.Connect(ctx, second))
		require.NoError(t, h.Disconnect(ctx, first))

		inspect(t, h, func(h *Hub) {
			assert.Same(t, second, h.sessions.lookup(3))
			assert.False(t, h.rooms.contains(42, first))
		})

		require.NoError(t, h.SendToUser(ctx, 3, "still here"))
		assert.Equal(t, "notification|still here", recvFrame(t, second))
	})
}

func TestSlowConsumer(t *testing.T) {
	ctx := context.Background()

	t.Run("full client buffer drops frames instead of stalling the hub", func(t *testing.T) {
		h := startHub(t)
		slow := NewClient(3, "Alice", "Acme Co", 1)
		require.NoError(t, h.Connect(ctx, slow))
		require.NoError(t, h.JoinRoom(ctx, 42, slow))

		require.NoError(t, h.Chat(ctx, ChatMessage{RoomID: 42, SenderFullName: "Bob", SenderCompanyName: "Bolt Ltd", Text: "one"}))
		require.NoError(t, h.Chat(ctx, ChatMessage{RoomID: 42, SenderFullName: "Bob", SenderCompanyName: "Bolt Ltd", Text: "two"}))
		flush(t, h)

		assert.Equal(t, "chat|Bob (Bolt Ltd): one", recvFrame(t, slow))
		assertNoFrame(t, h, slow)
	})
}

func TestShutdown(t *testing.T) {
	t.Run("rejects commands and closes clients after stop", func(t *testing.T) {
		h := New(8)
		ctx, cancel := context.WithCancel(context.Background())
		go h.Run(ctx)

		c := newTestClient(3, "Alice", "Acme Co")
		require.NoError(t, h.Connect(context.Background(), c))
		flush(t, h)

		cancel()
		select {
		case <-h.Done():
		case <-time.After(time.Second):
			t.Fatal("hub did not stop")
		}

		err := h.Connect(context.Background(), newTestClient(5, "Bob", "Bolt Ltd"))
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeHubClosed, apperrors.GetCode(err))

		_, ok := <-c.Frames()
		assert.False(t, ok)
	})
}
