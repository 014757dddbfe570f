package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomRegistry(t *testing.T) {
	t.Run("join creates the room and is idempotent", func(t *testing.T) {
		r := newRoomRegistry()
		c := newTestClient(3, "Alice", "Acme Co")

		r.join(42, c)
		r.join(42, c)

		assert.True(t, r.contains(42, c))
		assert.Len(t, r.members(42), 1)
	})

	t.Run("same user on two connections occupies the room twice", func(t *testing.T) {
		r := newRoomRegistry()
		first := newTestClient(3, "Alice", "Acme Co")
		second := newTestClient(3, "Alice", "Acme Co")

		r.join(42, first)
		r.join(42, second)

		assert.Len(t, r.members(42), 2)
	})

	t.Run("leave drops empty rooms", func(t *testing.T) {
		r := newRoomRegistry()
		c := newTestClient(3, "Alice", "Acme Co")
		r.join(42, c)

		r.leave(42, c)

		assert.False(t, r.contains(42, c))
		assert.Equal(t, 0, r.len())
	})

	t.Run("leave is a no-op for unknown rooms and absent clients", func(t *testing.T) {
		r := newRoomRegistry()
		c := newTestClient(3, "Alice", "Acme Co")
		other := newTestClient(5, "Bob", "Bolt Ltd")
		r.join(42, c)

		r.leave(7, c)
		r.leave(42, other)

		assert.True(t, r.contains(42, c))
	})

	t.Run("purge removes the client from every room", func(t *testing.T) {
		r := newRoomRegistry()
		c := newTestClient(3, "Alice", "Acme Co")
		other := newTestClient(5, "Bob", "Bolt Ltd")
		r.join(1, c)
		r.join(2, c)
		r.join(2, other)

		r.purge(c)

		assert.Equal(t, 1, r.len())
		assert.False(t, r.contains(2, c))
		assert.True(t, r.contains(2, other))
	})
}
