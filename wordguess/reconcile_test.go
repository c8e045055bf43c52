package wordguess

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAction(t *testing.T, actionType string, data any) GameAction {
	t.Helper()

	action, err := encodeAction(actionType, data)
	require.NoError(t, err)
	return action
}

func mustEnvelope(t *testing.T, msgType string, payload any) Envelope {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return Envelope{Type: msgType, Payload: raw}
}

func fullSnapshot(t *testing.T, word string, round int) GameAction {
	t.Helper()

	status := StatusPlaying
	timeLeft := 60
	revealed := []int{}
	hintCount := 1
	maxRounds := 5
	return mustAction(t, ActionSyncState, SyncState{
		Status:            &status,
		CurrentWord:       &word,
		TimeLeft:          &timeLeft,
		Round:             &round,
		RevealedIndices:   &revealed,
		RevealedHintCount: &hintCount,
		MaxRounds:         &maxRounds,
	})
}

func TestPartialSnapshotLeavesOtherFieldsUntouched(t *testing.T) {
	v := NewViewState(nil)
	v.ApplyAction(fullSnapshot(t, "CACTUS", 1))

	// A bare status change must not clobber the word, clock or reveals.
	status := StatusRoundOver
	v.ApplyAction(mustAction(t, ActionSyncState, SyncState{Status: &status}))

	view := v.Snapshot()
	assert.Equal(t, StatusRoundOver, view.Status)
	assert.Equal(t, "CACTUS", view.CurrentWord)
	assert.Equal(t, 60, view.TimeLeft)
	assert.Equal(t, 1, view.Round)
	assert.Equal(t, 5, view.MaxRounds)
}

func TestTimeAndHintEventsApply(t *testing.T) {
	v := NewViewState(nil)
	v.ApplyAction(fullSnapshot(t, "CACTUS", 1))

	v.ApplyAction(mustAction(t, ActionSyncTime, SyncTime{TimeLeft: 45}))
	v.ApplyAction(mustAction(t, ActionHintUpdate, HintUpdate{
		RevealedIndices:   []int{2},
		RevealedHintCount: 2,
	}))

	view := v.Snapshot()
	assert.Equal(t, 45, view.TimeLeft)
	assert.Equal(t, []int{2}, view.RevealedIndices)
	assert.Equal(t, 2, view.RevealedHintCount)
}

func TestChatApplicationIsIdempotent(t *testing.T) {
	v := NewViewState(nil)

	entry := ChatEntry{ID: "c1", PlayerID: "p1", PlayerName: "Ada", Text: "hello", Kind: ChatKindChat, Timestamp: time.Now()}
	v.ApplyAction(mustAction(t, ActionChat, entry))
	v.ApplyAction(mustAction(t, ActionChat, entry))

	require.Len(t, v.Snapshot().Chat, 1, "duplicate chat ids collapse to one occurrence")
	assert.Equal(t, "hello", v.Snapshot().Chat[0].Text)
}

func TestRoundWinnersAccumulateAndResetOnRoundStart(t *testing.T) {
	v := NewViewState(nil)
	v.ApplyEnvelope(mustEnvelope(t, MsgRoomJoined, RoomJoinedPayload{Players: []Player{
		{ID: "p1", Name: "Ada"},
		{ID: "p2", Name: "Bob"},
	}}))
	v.ApplyAction(fullSnapshot(t, "CACTUS", 1))

	v.ApplyAction(mustAction(t, ActionScored, PlayerScored{PlayerID: "p1", PlayerName: "Ada", Score: 250, Points: 250}))

	status := StatusRoundOver
	v.ApplyAction(mustAction(t, ActionSyncState, SyncState{Status: &status}))

	// The grace window: a scoring event after ROUND_OVER still counts.
	v.ApplyAction(mustAction(t, ActionScored, PlayerScored{PlayerID: "p2", PlayerName: "Bob", Score: 100, Points: 100}))

	view := v.Snapshot()
	require.Len(t, view.RoundWinners, 2)
	assert.Equal(t, 250, view.Players[0].Score)
	assert.Equal(t, 100, view.Players[1].Score)

	// The next round-start snapshot clears the winners.
	v.ApplyAction(fullSnapshot(t, "VOLCANO", 2))
	assert.Empty(t, v.Snapshot().RoundWinners)
}

func TestDuplicateScoringEventIsIgnored(t *testing.T) {
	v := NewViewState(nil)
	v.ApplyAction(fullSnapshot(t, "CACTUS", 1))

	scored := PlayerScored{PlayerID: "p1", PlayerName: "Ada", Score: 250, Points: 250}
	v.ApplyAction(mustAction(t, ActionScored, scored))
	v.ApplyAction(mustAction(t, ActionScored, scored))

	assert.Len(t, v.Snapshot().RoundWinners, 1)
}

func TestMembershipFollowsRelayEvents(t *testing.T) {
	v := NewViewState(nil)

	v.ApplyEnvelope(mustEnvelope(t, MsgRoomJoined, RoomJoinedPayload{
		IsHost:  false,
		Players: []Player{{ID: "p1", Name: "Ada"}},
	}))
	v.ApplyEnvelope(mustEnvelope(t, MsgPlayerJoined, Player{ID: "p2", Name: "Bob"}))
	v.ApplyEnvelope(mustEnvelope(t, MsgPlayerLeft, PlayerLeftPayload{ID: "p1"}))

	view := v.Snapshot()
	require.Len(t, view.Players, 1)
	assert.Equal(t, "p2", view.Players[0].ID)
}

func TestBecameHostFlipsAuthorityWithoutRoundTrip(t *testing.T) {
	v := NewViewState(nil)
	v.ApplyEnvelope(mustEnvelope(t, MsgRoomJoined, RoomJoinedPayload{IsHost: false}))
	require.False(t, v.Snapshot().IsHost)

	v.ApplyEnvelope(mustEnvelope(t, MsgBecameHost, struct{}{}))
	assert.True(t, v.Snapshot().IsHost)
}

func TestMalformedPayloadsAreDropped(t *testing.T) {
	v := NewViewState(nil)
	v.ApplyAction(fullSnapshot(t, "CACTUS", 1))

	v.ApplyAction(GameAction{Type: ActionSyncTime, Data: json.RawMessage(`{"timeLeft":"not a number"}`)})
	v.ApplyEnvelope(Envelope{Type: MsgPlayerJoined, Payload: json.RawMessage(`[`)})

	view := v.Snapshot()
	assert.Equal(t, 60, view.TimeLeft, "a malformed event changes nothing")
	assert.Empty(t, view.Players)
}
