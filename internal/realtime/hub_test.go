package realtime

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famcare/chat-service/internal/domain/entity"
)

func testHub(t *testing.T) *Hub {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewHub(nil, logger, HubOptions{})
}

func hubClient(h *Hub, userID string) *Client {
	return newClient(h, nil, userID, 16)
}

func drainEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case payload := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(payload, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event queued")
		return Event{}
	}
}

func decodePresence(t *testing.T, ev Event) []string {
	t.Helper()
	require.Equal(t, EventPresenceUpdate, ev.Name)
	raw, err := json.Marshal(ev.Data)
	require.NoError(t, err)
	var ids []string
	require.NoError(t, json.Unmarshal(raw, &ids))
	return ids
}

func TestHub_ConnectBroadcastsFullOnlineSet(t *testing.T) {
	h := testHub(t)
	alice := hubClient(h, "alice")
	bob := hubClient(h, "bob")

	h.Connect(alice)
	require.Equal(t, []string{"alice"}, decodePresence(t, drainEvent(t, alice)))

	h.Connect(bob)
	require.Equal(t, []string{"alice", "bob"}, decodePresence(t, drainEvent(t, alice)))
	require.Equal(t, []string{"alice", "bob"}, decodePresence(t, drainEvent(t, bob)))
}

func TestHub_DisconnectBroadcastsRemainder(t *testing.T) {
	h := testHub(t)
	alice := hubClient(h, "alice")
	bob := hubClient(h, "bob")
	h.Connect(alice)
	h.Connect(bob)
	drainEvent(t, alice)
	drainEvent(t, alice)
	drainEvent(t, bob)

	h.Disconnect(bob)
	require.Equal(t, []string{"alice"}, decodePresence(t, drainEvent(t, alice)))
	_, ok := h.Registry().Get("bob")
	assert.False(t, ok)
}

func TestHub_ReconnectRetiresOldConnection(t *testing.T) {
	h := testHub(t)
	first := hubClient(h, "alice")
	second := hubClient(h, "alice")

	h.Connect(first)
	h.Connect(second)

	select {
	case <-first.done:
	default:
		t.Fatal("replaced connection was not closed")
	}

	// The stale connection's late disconnect must leave the new one registered.
	h.Disconnect(first)
	got, ok := h.Registry().Get("alice")
	require.True(t, ok)
	require.Same(t, second, got)
}

func TestHub_PushMessageToConnectedReceiver(t *testing.T) {
	h := testHub(t)
	bob := hubClient(h, "bob")
	h.Connect(bob)
	drainEvent(t, bob)

	m := &entity.Message{ID: "m1", SenderID: "alice", ReceiverID: "bob", Text: "hi"}
	require.True(t, h.PushMessage(m))

	ev := drainEvent(t, bob)
	require.Equal(t, EventNewMessage, ev.Name)
	raw, err := json.Marshal(ev.Data)
	require.NoError(t, err)
	var got entity.Message
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "m1", got.ID)
	assert.Equal(t, "hi", got.Text)
}

func TestHub_PushMessageAbsentReceiverIsNoop(t *testing.T) {
	h := testHub(t)
	m := &entity.Message{ID: "m1", SenderID: "alice", ReceiverID: "ghost", Text: "hi"}
	assert.False(t, h.PushMessage(m))
}

func TestHub_PushMessageFullBufferDrops(t *testing.T) {
	h := testHub(t)
	bob := newClient(h, nil, "bob", 1)
	h.registry.Put("bob", bob)
	require.True(t, bob.enqueue([]byte("x")))

	m := &entity.Message{ID: "m1", SenderID: "alice", ReceiverID: "bob", Text: "hi"}
	assert.False(t, h.PushMessage(m))
}
