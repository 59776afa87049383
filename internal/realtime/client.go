package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one websocket connection bound to one authenticated user.
// All writes to the socket go through the send channel and the write pump,
// so the hub never blocks on a slow peer.
type Client struct {
	UserID string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(hub *Hub, conn *websocket.Conn, userID string, sendBuffer int) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Client{
		UserID: userID,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// enqueue hands a frame to the write pump. Push delivery is best-effort:
// when the buffer is full the frame is dropped and the caller learns nothing
// beyond the boolean.
func (c *Client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// close makes enqueue fail fast and wakes the write pump.
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// writePump drains the send channel onto the socket and keeps the
// connection alive with pings. One writer per connection.
func (c *Client) writePump() {
	pingPeriod := (c.hub.pongWait * 9) / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes inbound frames until the transport closes, then drives
// the disconnect through the hub. Clients do not send application events
// upstream on this channel; reads exist for close and pong handling.
func (c *Client) readPump() {
	defer c.hub.Disconnect(c)
	c.conn.SetReadLimit(maxInboundFrame)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

const maxInboundFrame = 512
