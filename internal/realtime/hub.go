// Package realtime owns the presence registry and the websocket gateway.
// The hub is the single mutator of the registry; REST handlers only ask it
// to push, and the push path is fire-and-forget by contract: an absent or
// slow recipient is a designed no-op, never an error. Durability comes from
// the message store, which clients re-fetch on open.
package realtime

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/famcare/chat-service/internal/domain/entity"
	"github.com/famcare/chat-service/internal/domain/repository"
)

const mirrorWriteTimeout = 3 * time.Second

// Hub drives connection lifecycle, presence broadcasts and message push.
type Hub struct {
	registry *Registry
	users    repository.UserRepository
	logger   *logrus.Logger

	writeWait  time.Duration
	pongWait   time.Duration
	sendBuffer int

	upgrader websocket.Upgrader
}

type HubOptions struct {
	WriteWait  time.Duration
	PongWait   time.Duration
	SendBuffer int
	// CheckOrigin mirrors the CORS allowlist for the upgrade request.
	CheckOrigin func(r *http.Request) bool
}

func NewHub(users repository.UserRepository, logger *logrus.Logger, opts HubOptions) *Hub {
	if opts.WriteWait <= 0 {
		opts.WriteWait = 10 * time.Second
	}
	if opts.PongWait <= 0 {
		opts.PongWait = 60 * time.Second
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 64
	}
	h := &Hub{
		registry:   NewRegistry(),
		users:      users,
		logger:     logger,
		writeWait:  opts.WriteWait,
		pongWait:   opts.PongWait,
		sendBuffer: opts.SendBuffer,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     opts.CheckOrigin,
	}
	return h
}

// Registry exposes read access for surfaces that need the live online set.
func (h *Hub) Registry() *Registry { return h.registry }

// ServeWS upgrades an authenticated request and runs the connection until
// the transport closes. The identity comes from the verified session, never
// from the request itself.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := newClient(h, conn, userID, h.sendBuffer)
	h.Connect(c)
	go c.writePump()
	go c.readPump()
	return nil
}

// Connect records the client in the registry, retires any previous
// connection for the same identity, mirrors the online flag and rebroadcasts
// the full online set.
func (h *Hub) Connect(c *Client) {
	if old := h.registry.Put(c.UserID, c); old != nil {
		old.close()
	}
	h.logger.WithFields(logrus.Fields{"user_id": c.UserID, "online": h.registry.Len()}).Debug("client connected")
	h.setOnlineMirror(c.UserID, true)
	h.broadcastPresence()
}

// Disconnect removes the client if it is still the current connection for
// its identity, mirrors the offline flag and rebroadcasts. A replaced
// connection disconnecting late changes nothing.
func (h *Hub) Disconnect(c *Client) {
	c.close()
	if !h.registry.Remove(c.UserID, c) {
		return
	}
	h.logger.WithFields(logrus.Fields{"user_id": c.UserID, "online": h.registry.Len()}).Debug("client disconnected")
	h.setOnlineMirror(c.UserID, false)
	h.broadcastPresence()
}

// PushMessage delivers a stored message to the receiver's live connection if
// one exists right now. Absent receiver: no-op. The caller must have
// persisted the message first, so the pull path always has it.
func (h *Hub) PushMessage(m *entity.Message) bool {
	c, ok := h.registry.Get(m.ReceiverID)
	if !ok {
		return false
	}
	payload, err := Event{Name: EventNewMessage, Data: m}.encode()
	if err != nil {
		h.logger.WithError(err).Warn("encode message event")
		return false
	}
	delivered := c.enqueue(payload)
	if !delivered {
		h.logger.WithField("user_id", m.ReceiverID).Debug("push skipped, send buffer full")
	}
	return delivered
}

// broadcastPresence sends the full current online-identity set to every
// connected client. Receivers treat the payload as a replacement, so
// out-of-order broadcasts still converge.
func (h *Hub) broadcastPresence() {
	payload, err := Event{Name: EventPresenceUpdate, Data: h.registry.Online()}.encode()
	if err != nil {
		h.logger.WithError(err).Warn("encode presence event")
		return
	}
	for _, c := range h.registry.Clients() {
		c.enqueue(payload)
	}
}

// setOnlineMirror updates the persisted is_online flag. The mirror is
// display-only and eventually correct; failures are logged and ignored.
func (h *Hub) setOnlineMirror(userID string, online bool) {
	if h.users == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), mirrorWriteTimeout)
	defer cancel()
	if err := h.users.SetOnline(ctx, userID, online); err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Warn("update online mirror")
	}
}
