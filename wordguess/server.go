package wordguess

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler returns the relay's websocket endpoint. Each connection joins
// a room with its first frame and is relayed until it drops; the drop is
// what removes it from membership.
func Handler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			reg.logf("RELAY: Upgrade error: %v", err)
			return
		}

		client := newClient(conn)

		go client.writePump()
		client.readPump(reg)
	}
}
