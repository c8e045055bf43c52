package wordguess

import (
	"encoding/json"
	"sync"
)

// View is a renderable copy of a participant's reconciled state.
type View struct {
	IsHost            bool
	Players           []Player
	Status            string
	CurrentWord       string
	Hints             []string
	TimeLeft          int
	Round             int
	MaxRounds         int
	RevealedIndices   []int
	RevealedHintCount int
	Chat              []ChatEntry
	RoundWinners      []PlayerScored
}

// ViewState folds the relay's broadcast stream into local view state.
// It never self-advances authoritative fields: the countdown, reveal
// set and status only move when an incoming event says so.
type ViewState struct {
	mu   sync.Mutex
	view View

	chatSeen map[string]bool
	logf     func(format string, args ...any)
}

// NewViewState returns an empty lobby view. logf may be nil.
func NewViewState(logf func(format string, args ...any)) *ViewState {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &ViewState{
		view:     View{Status: StatusLobby},
		chatSeen: make(map[string]bool),
		logf:     logf,
	}
}

// Snapshot returns a copy safe to render from.
func (v *ViewState) Snapshot() View {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := v.view
	out.Players = append([]Player(nil), v.view.Players...)
	out.Hints = append([]string(nil), v.view.Hints...)
	out.RevealedIndices = append([]int(nil), v.view.RevealedIndices...)
	out.Chat = append([]ChatEntry(nil), v.view.Chat...)
	out.RoundWinners = append([]PlayerScored(nil), v.view.RoundWinners...)
	return out
}

// ApplyEnvelope dispatches one relay frame. Malformed payloads are logged
// and ignored.
func (v *ViewState) ApplyEnvelope(env Envelope) {
	switch env.Type {
	case MsgRoomJoined:
		var p RoomJoinedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			v.logf("VIEW: Bad ROOM_JOINED: %v", err)
			return
		}
		v.applyRoomJoined(p)

	case MsgPlayerJoined:
		var p Player
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			v.logf("VIEW: Bad PLAYER_JOINED: %v", err)
			return
		}
		v.applyPlayerJoined(p)

	case MsgPlayerLeft:
		var p PlayerLeftPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			v.logf("VIEW: Bad PLAYER_LEFT: %v", err)
			return
		}
		v.applyPlayerLeft(p.ID)

	case MsgBecameHost:
		v.applyBecameHost()

	case MsgGameAction:
		var a GameAction
		if err := json.Unmarshal(env.Payload, &a); err != nil {
			v.logf("VIEW: Bad GAME_ACTION: %v", err)
			return
		}
		v.ApplyAction(a)
	}
}

func (v *ViewState) applyRoomJoined(p RoomJoinedPayload) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.view.IsHost = p.IsHost
	v.view.Players = append([]Player(nil), p.Players...)
}

func (v *ViewState) applyPlayerJoined(p Player) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i := range v.view.Players {
		if v.view.Players[i].ID == p.ID {
			v.view.Players[i] = p
			return
		}
	}
	v.view.Players = append(v.view.Players, p)
}

func (v *ViewState) applyPlayerLeft(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	players := v.view.Players[:0]
	for _, p := range v.view.Players {
		if p.ID != id {
			players = append(players, p)
		}
	}
	v.view.Players = players
}

// applyBecameHost flips local authority without any round-trip
// reconfirmation from the relay.
func (v *ViewState) applyBecameHost() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.view.IsHost = true
}

// ApplyAction folds one authoritative game event into the view.
func (v *ViewState) ApplyAction(action GameAction) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch action.Type {
	case ActionSyncState:
		var s SyncState
		if err := json.Unmarshal(action.Data, &s); err != nil {
			v.logf("VIEW: Bad SYNC_STATE: %v", err)
			return
		}
		v.applySyncStateLocked(s)

	case ActionSyncTime:
		var t SyncTime
		if err := json.Unmarshal(action.Data, &t); err != nil {
			v.logf("VIEW: Bad SYNC_TIME: %v", err)
			return
		}
		v.view.TimeLeft = t.TimeLeft

	case ActionHintUpdate:
		var h HintUpdate
		if err := json.Unmarshal(action.Data, &h); err != nil {
			v.logf("VIEW: Bad SYNC_HINT_UPDATE: %v", err)
			return
		}
		v.view.RevealedIndices = append([]int(nil), h.RevealedIndices...)
		v.view.RevealedHintCount = h.RevealedHintCount

	case ActionScored:
		var s PlayerScored
		if err := json.Unmarshal(action.Data, &s); err != nil {
			v.logf("VIEW: Bad PLAYER_SCORED: %v", err)
			return
		}
		v.applyScoredLocked(s)

	case ActionChat:
		var e ChatEntry
		if err := json.Unmarshal(action.Data, &e); err != nil {
			v.logf("VIEW: Bad CHAT: %v", err)
			return
		}
		v.applyChatLocked(e)
	}
}

// applySyncStateLocked overwrites only the fields the snapshot carries;
// a bare status change leaves everything else alone. A snapshot carrying
// a round index is a round start: it finalizes and clears the previous
// round's winners.
func (v *ViewState) applySyncStateLocked(s SyncState) {
	if s.Round != nil {
		v.view.Round = *s.Round
		v.view.RoundWinners = v.view.RoundWinners[:0]
	}
	if s.Status != nil {
		v.view.Status = *s.Status
	}
	if s.CurrentWord != nil {
		v.view.CurrentWord = *s.CurrentWord
	}
	if s.Hints != nil {
		v.view.Hints = append([]string(nil), *s.Hints...)
	}
	if s.TimeLeft != nil {
		v.view.TimeLeft = *s.TimeLeft
	}
	if s.RevealedIndices != nil {
		v.view.RevealedIndices = append([]int(nil), *s.RevealedIndices...)
	}
	if s.RevealedHintCount != nil {
		v.view.RevealedHintCount = *s.RevealedHintCount
	}
	if s.MaxRounds != nil {
		v.view.MaxRounds = *s.MaxRounds
	}
}

// applyScoredLocked updates the player's running total and accumulates
// the round winner. Scoring events are idempotent per (player, round):
// a duplicate is ignored.
func (v *ViewState) applyScoredLocked(s PlayerScored) {
	for _, w := range v.view.RoundWinners {
		if w.PlayerID == s.PlayerID {
			return
		}
	}
	v.view.RoundWinners = append(v.view.RoundWinners, s)

	for i := range v.view.Players {
		if v.view.Players[i].ID == s.PlayerID {
			v.view.Players[i].Score = s.Score
			return
		}
	}
}

// applyChatLocked appends to the chat log, deduplicated by id.
func (v *ViewState) applyChatLocked(e ChatEntry) {
	if e.ID == "" || v.chatSeen[e.ID] {
		return
	}
	v.chatSeen[e.ID] = true
	v.view.Chat = append(v.view.Chat, e)
}
