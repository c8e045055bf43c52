package wordguess

import (
	"encoding/json"

	"github.com/gorilla/websocket"
)

// sendBuffer is the per-connection outbound queue depth. A recipient that
// falls further behind than this starts losing broadcasts rather than
// stalling the room.
const sendBuffer = 16

// Client is one relay-side connection. The registry never writes to the
// socket directly; everything goes through the buffered send channel so a
// slow recipient cannot block a broadcast.
type Client struct {
	conn     *websocket.Conn
	send     chan outbound
	playerID string
	roomCode string
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan outbound, sendBuffer),
	}
}

// enqueue hands a message to the write pump without blocking. Messages to
// a full or closed queue are dropped; delivery is best effort.
func (c *Client) enqueue(msg outbound) {
	select {
	case c.send <- msg:
	default:
	}
}

// readPump drives a connection's lifetime. The first accepted frame must
// be JOIN_ROOM; after that only GAME_ACTION frames are honored. Malformed
// frames are logged and skipped with the connection left open. A read
// error is the disconnect signal: it is what removes the player from its
// room.
func (c *Client) readPump(reg *Registry) {
	defer func() {
		if c.playerID != "" {
			reg.leaveConn(c.roomCode, c.playerID, c)
		}
		close(c.send)
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			reg.logf("RELAY: Dropping malformed envelope: %v", err)
			continue
		}

		switch env.Type {
		case MsgJoinRoom:
			if c.playerID != "" {
				continue // already joined
			}
			var join JoinRoomPayload
			if err := json.Unmarshal(env.Payload, &join); err != nil {
				reg.logf("RELAY: Dropping malformed join: %v", err)
				continue
			}
			if join.RoomID == "" || join.Player.ID == "" {
				continue
			}
			c.playerID = join.Player.ID
			c.roomCode = join.RoomID
			reg.Join(join.RoomID, join.Player, c)

		case MsgGameAction:
			if c.playerID == "" {
				continue // must join first
			}
			var action GameAction
			if err := json.Unmarshal(env.Payload, &action); err != nil {
				reg.logf("RELAY: Dropping malformed game action: %v", err)
				continue
			}
			reg.Forward(c.roomCode, c.playerID, action)

		default:
			// ignore unknown types
		}
	}
}

// writePump serializes all outbound traffic for one connection. Each
// recipient sees messages in the order the registry issued them to this
// connection.
func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
