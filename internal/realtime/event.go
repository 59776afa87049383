package realtime

import "encoding/json"

// Channel event names. These two are the whole realtime contract:
// presence updates carry the full online-identity set (never a delta), and
// message pushes carry the stored message payload.
const (
	EventPresenceUpdate = "presence:update"
	EventNewMessage     = "message:new"
)

// Event is the wire frame sent to connected clients.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

func (e Event) encode() ([]byte, error) {
	return json.Marshal(e)
}
