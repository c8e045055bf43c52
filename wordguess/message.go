// Package wordguess implements a multiplayer word-guessing game.
//
// One member of each room (the host) runs the authoritative round clock,
// letter/hint reveals and scoring; the relay only tracks membership and
// forwards game actions between members. Every other member folds the
// host's broadcasts into a local view.
package wordguess

import (
	"encoding/json"
	"time"
)

// Message types on the wire. Every frame is a {type, payload} envelope.
const (
	MsgJoinRoom     = "JOIN_ROOM"     // client → relay
	MsgRoomJoined   = "ROOM_JOINED"   // relay → joiner
	MsgPlayerJoined = "PLAYER_JOINED" // relay → room (excluding joiner)
	MsgPlayerLeft   = "PLAYER_LEFT"   // relay → room
	MsgBecameHost   = "BECAME_HOST"   // relay → new host only
	MsgGameAction   = "GAME_ACTION"   // forwarded opaquely by the relay
)

// GameAction sub-types. The relay never inspects these.
const (
	ActionSyncState  = "SYNC_STATE"
	ActionSyncTime   = "SYNC_TIME"
	ActionHintUpdate = "SYNC_HINT_UPDATE"
	ActionScored     = "PLAYER_SCORED"
	ActionChat       = "CHAT"
)

// Game statuses owned by the host machine.
const (
	StatusLobby     = "LOBBY"
	StatusPlaying   = "PLAYING"
	StatusRoundOver = "ROUND_OVER"
	StatusGameOver  = "GAME_OVER"
)

// ChatEntry kinds.
const (
	ChatKindChat    = "chat"
	ChatKindSystem  = "system"
	ChatKindCorrect = "guess_correct"
	ChatKindWrong   = "guess_wrong"
)

// SystemPlayerID marks ChatEntries not originating from any player.
const SystemPlayerID = "system"

// Envelope is the inbound frame shape; the payload stays raw until the
// type is known.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// outbound is the frame shape written to connections.
type outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Player is the public identity of a room member. IDs are assigned
// client-side at join time and are opaque to the relay.
type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Score       int    `json:"score"`
	AvatarColor string `json:"avatarColor,omitempty"`
}

// JoinRoomPayload is sent by a client as its first frame.
type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
	Player Player `json:"player"`
}

// RoomJoinedPayload acknowledges a join directly to the joiner.
type RoomJoinedPayload struct {
	IsHost  bool     `json:"isHost"`
	Players []Player `json:"players"`
}

// PlayerLeftPayload announces a departure to the remaining members.
type PlayerLeftPayload struct {
	ID string `json:"id"`
}

// GameAction wraps the host/client messages the relay forwards without
// interpretation.
type GameAction struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// SyncState is a full or partial snapshot of the host's round state.
// Nil fields were not present in the broadcast and must leave the
// receiver's current value untouched.
type SyncState struct {
	Status            *string   `json:"status,omitempty"`
	CurrentWord       *string   `json:"currentWord,omitempty"`
	Hints             *[]string `json:"hints,omitempty"`
	TimeLeft          *int      `json:"timeLeft,omitempty"`
	Round             *int      `json:"round,omitempty"`
	RevealedIndices   *[]int    `json:"revealedIndices,omitempty"`
	RevealedHintCount *int      `json:"revealedHintCount,omitempty"`
	MaxRounds         *int      `json:"maxRounds,omitempty"`
}

// SyncTime carries the once-per-second countdown value.
type SyncTime struct {
	TimeLeft int `json:"timeLeft"`
}

// HintUpdate carries a paired letter/hint reveal, distinct from the
// countdown so clients can animate it separately.
type HintUpdate struct {
	RevealedIndices   []int `json:"revealedIndices"`
	RevealedHintCount int   `json:"revealedHintCount"`
}

// PlayerScored credits a correct guess. Score is the player's new total.
type PlayerScored struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
	Points     int    `json:"points"`
}

// ChatEntry is one append-only chat/guess log line, deduplicated by ID.
type ChatEntry struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName,omitempty"`
	Text       string    `json:"text"`
	Kind       string    `json:"kind"`
	Timestamp  time.Time `json:"timestamp"`
}

// encodeAction marshals a sub-message into a GameAction frame.
func encodeAction(actionType string, data any) (GameAction, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return GameAction{}, err
	}
	return GameAction{Type: actionType, Data: raw}, nil
}
