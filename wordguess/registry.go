package wordguess

import (
	"strings"
	"sync"
)

// member pairs a player's public identity with its live connection.
// Insertion order is preserved so host promotion is deterministic.
type member struct {
	player Player
	client *Client
}

// room is one game session. It exists only while it has members.
type room struct {
	code    string
	members []*member
	hostID  string
}

func (rm *room) find(playerID string) (*member, int) {
	for i, m := range rm.members {
		if m.player.ID == playerID {
			return m, i
		}
	}
	return nil, -1
}

func (rm *room) players() []Player {
	out := make([]Player, 0, len(rm.members))
	for _, m := range rm.members {
		out = append(out, m.player)
	}
	return out
}

// Registry is the relay-side table of rooms. It owns membership and host
// assignment and nothing else; game semantics never reach it. All methods
// are safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*room

	logf func(format string, args ...any)
}

// NewRegistry returns an empty registry. logf may be nil.
func NewRegistry(logf func(format string, args ...any)) *Registry {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Registry{
		rooms: make(map[string]*room),
		logf:  logf,
	}
}

// normalizeCode folds room codes so "abc" and "ABC" name the same room.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// JoinResult is what the joiner learns about the room it entered.
type JoinResult struct {
	IsHost  bool
	Players []Player
}

// Join adds a player to a room, creating the room (with this player as
// host) if the code is unseen. A join with an id already present in the
// room is a reconnect: the name and connection handle are updated in
// place rather than duplicating membership, and the merged identity is
// re-announced so peers pick up a changed name or avatar. The joiner is
// acknowledged directly with ROOM_JOINED and everyone else is told
// PLAYER_JOINED.
func (reg *Registry) Join(roomCode string, player Player, client *Client) JoinResult {
	code := normalizeCode(roomCode)

	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm, ok := reg.rooms[code]
	if !ok {
		rm = &room{code: code, hostID: player.ID}
		reg.rooms[code] = rm
		reg.logf("ROOMS: Created room %s", code)
	}

	announced := player
	if existing, _ := rm.find(player.ID); existing != nil {
		existing.player.Name = player.Name
		if player.AvatarColor != "" {
			existing.player.AvatarColor = player.AvatarColor
		}
		existing.client = client
		announced = existing.player
	} else {
		rm.members = append(rm.members, &member{player: player, client: client})
		reg.logf("ROOMS: Player %q joined %s (%d members)", player.Name, code, len(rm.members))
	}

	result := JoinResult{
		IsHost:  rm.hostID == player.ID,
		Players: rm.players(),
	}

	reg.deliverLocked(rm, MsgPlayerJoined, announced, player.ID)
	client.enqueue(outbound{Type: MsgRoomJoined, Payload: RoomJoinedPayload{
		IsHost:  result.IsHost,
		Players: result.Players,
	}})

	return result
}

// Leave removes a player from a room. The last member leaving deletes the
// room. If the departing player was host, the longest-standing remaining
// member is promoted and told so directly; the rest of the room only sees
// PLAYER_LEFT. Unknown rooms and unknown players are silent no-ops.
func (reg *Registry) Leave(roomCode, playerID string) {
	reg.leave(roomCode, playerID, nil)
}

// leaveConn is the transport's disconnect path. It only removes the
// player if conn is still the member's live connection, so a stale
// connection dying after a reconnect cannot evict the fresh one.
func (reg *Registry) leaveConn(roomCode, playerID string, conn *Client) {
	reg.leave(roomCode, playerID, conn)
}

func (reg *Registry) leave(roomCode, playerID string, conn *Client) {
	code := normalizeCode(roomCode)

	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm, ok := reg.rooms[code]
	if !ok {
		return
	}

	m, idx := rm.find(playerID)
	if m == nil {
		return
	}
	if conn != nil && m.client != conn {
		return
	}
	rm.members = append(rm.members[:idx], rm.members[idx+1:]...)
	reg.logf("ROOMS: Player %q left %s (%d members)", m.player.Name, code, len(rm.members))

	if len(rm.members) == 0 {
		delete(reg.rooms, code)
		reg.logf("ROOMS: Deleted empty room %s", code)
		return
	}

	reg.deliverLocked(rm, MsgPlayerLeft, PlayerLeftPayload{ID: playerID}, "")

	if rm.hostID == playerID {
		next := rm.members[0]
		rm.hostID = next.player.ID
		next.client.enqueue(outbound{Type: MsgBecameHost, Payload: struct{}{}})
		reg.logf("ROOMS: Promoted %q to host of %s", next.player.Name, code)
	}
}

// Forward relays a GAME_ACTION to every member of the room except the
// sender. The relay does not look inside the action. Unknown rooms drop
// the message.
func (reg *Registry) Forward(roomCode, senderID string, action GameAction) {
	code := normalizeCode(roomCode)

	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm, ok := reg.rooms[code]
	if !ok {
		return
	}
	reg.deliverLocked(rm, MsgGameAction, action, senderID)
}

// deliverLocked fans a message out to every member except excludeID.
// Delivery is fire and forget: a dead or backed-up connection is skipped
// without touching membership. Removal is driven solely by the
// transport's own disconnect signal.
func (reg *Registry) deliverLocked(rm *room, msgType string, payload any, excludeID string) {
	msg := outbound{Type: msgType, Payload: payload}
	for _, m := range rm.members {
		if m.player.ID == excludeID {
			continue
		}
		m.client.enqueue(msg)
	}
}

// HostID reports the current host of a room, or "" if the room does not
// exist.
func (reg *Registry) HostID(roomCode string) string {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm, ok := reg.rooms[normalizeCode(roomCode)]
	if !ok {
		return ""
	}
	return rm.hostID
}

// RoomExists reports whether a room is currently live.
func (reg *Registry) RoomExists(roomCode string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	_, ok := reg.rooms[normalizeCode(roomCode)]
	return ok
}

// Members returns the sanitized member list of a room (no transport
// handles), or nil for an unknown room.
func (reg *Registry) Members(roomCode string) []Player {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm, ok := reg.rooms[normalizeCode(roomCode)]
	if !ok {
		return nil
	}
	return rm.players()
}
