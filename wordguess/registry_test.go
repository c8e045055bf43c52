package wordguess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain empties a test client's outbound queue.
func drain(c *Client) []outbound {
	var out []outbound
	for {
		select {
		case msg := <-c.send:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func msgTypes(msgs []outbound) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Type)
	}
	return out
}

func TestJoinCreatesRoomWithJoinerAsHost(t *testing.T) {
	reg := NewRegistry(nil)
	c1 := newClient(nil)

	result := reg.Join("abc", Player{ID: "p1", Name: "Ada"}, c1)

	assert.True(t, result.IsHost, "room founder should be host")
	require.Len(t, result.Players, 1)
	assert.Equal(t, "p1", result.Players[0].ID)
	assert.Equal(t, "p1", reg.HostID("ABC"), "room codes are case-normalized")
}

func TestJoinAcknowledgesJoinerAndNotifiesRoom(t *testing.T) {
	reg := NewRegistry(nil)
	c1 := newClient(nil)
	c2 := newClient(nil)

	reg.Join("ABC", Player{ID: "p1", Name: "Ada"}, c1)
	drain(c1)

	result := reg.Join("ABC", Player{ID: "p2", Name: "Bob"}, c2)

	assert.False(t, result.IsHost)
	assert.Equal(t, []string{"p1", "p2"}, playerIDs(result.Players), "members listed in join order")

	// Existing members see PLAYER_JOINED; the joiner does not get its
	// own announcement echoed back.
	assert.Equal(t, []string{MsgPlayerJoined}, msgTypes(drain(c1)))
	assert.Equal(t, []string{MsgRoomJoined}, msgTypes(drain(c2)))
}

func TestRejoinUpdatesInPlace(t *testing.T) {
	reg := NewRegistry(nil)
	c1 := newClient(nil)
	c1b := newClient(nil)

	reg.Join("ABC", Player{ID: "p1", Name: "Ada"}, c1)
	reg.Join("ABC", Player{ID: "p1", Name: "Ada II"}, c1b)

	players := reg.Members("ABC")
	require.Len(t, players, 1, "reconnect must not duplicate membership")
	assert.Equal(t, "Ada II", players[0].Name)
	assert.Equal(t, "p1", reg.HostID("ABC"), "reconnecting host keeps the role")
}

func TestReconnectReannouncesUpdatedIdentity(t *testing.T) {
	reg := NewRegistry(nil)
	c1 := newClient(nil)
	c2 := newClient(nil)

	reg.Join("ABC", Player{ID: "p1", Name: "Ada", AvatarColor: "#111"}, c1)
	reg.Join("ABC", Player{ID: "p2", Name: "Bob"}, c2)
	drain(c2)

	c1b := newClient(nil)
	reg.Join("ABC", Player{ID: "p1", Name: "Ada II"}, c1b)

	msgs := drain(c2)
	require.Equal(t, []string{MsgPlayerJoined}, msgTypes(msgs))
	announced := msgs[0].Payload.(Player)
	assert.Equal(t, "Ada II", announced.Name, "peers hear the updated name")
	assert.Equal(t, "#111", announced.AvatarColor, "an absent avatar keeps the stored one")
}

func TestStaleConnectionCannotEvictReconnectedPlayer(t *testing.T) {
	reg := NewRegistry(nil)
	c1 := newClient(nil)
	c1b := newClient(nil)

	reg.Join("ABC", Player{ID: "p1", Name: "Ada"}, c1)
	reg.Join("ABC", Player{ID: "p1", Name: "Ada"}, c1b)

	reg.leaveConn("ABC", "p1", c1)

	assert.True(t, reg.RoomExists("ABC"), "stale connection's death must not remove the fresh membership")
	assert.Len(t, reg.Members("ABC"), 1)
}

func TestHostUniquenessAcrossJoinsAndLeaves(t *testing.T) {
	reg := NewRegistry(nil)

	ids := []string{"p1", "p2", "p3", "p4"}
	for _, id := range ids {
		reg.Join("ABC", Player{ID: id}, newClient(nil))
	}

	for _, leaving := range []string{"p2", "p1", "p4"} {
		reg.Leave("ABC", leaving)

		players := reg.Members("ABC")
		host := reg.HostID("ABC")
		count := 0
		for _, p := range players {
			if p.ID == host {
				count++
			}
		}
		assert.Equal(t, 1, count, "non-empty room must have exactly one host, held by a member")
	}
}

func TestHostMigrationIsDeterministic(t *testing.T) {
	reg := NewRegistry(nil)
	c1 := newClient(nil)
	c2 := newClient(nil)
	c3 := newClient(nil)

	reg.Join("ABC", Player{ID: "p1"}, c1)
	reg.Join("ABC", Player{ID: "p2"}, c2)
	reg.Join("ABC", Player{ID: "p3"}, c3)
	drain(c2)
	drain(c3)

	reg.Leave("ABC", "p1")

	assert.Equal(t, "p2", reg.HostID("ABC"), "longest-standing member is promoted")

	// The new host hears PLAYER_LEFT first, then its promotion; nobody
	// else is told who the new host is.
	assert.Equal(t, []string{MsgPlayerLeft, MsgBecameHost}, msgTypes(drain(c2)))
	assert.Equal(t, []string{MsgPlayerLeft}, msgTypes(drain(c3)))
}

func TestRoomTeardownOnLastLeave(t *testing.T) {
	reg := NewRegistry(nil)

	reg.Join("ABC", Player{ID: "p1"}, newClient(nil))
	reg.Leave("ABC", "p1")

	assert.False(t, reg.RoomExists("ABC"))

	// Late references to the dead room are silent no-ops.
	reg.Leave("ABC", "p1")
	reg.Forward("ABC", "p1", GameAction{Type: ActionChat})
	assert.Empty(t, reg.HostID("ABC"))
}

func TestForwardExcludesSender(t *testing.T) {
	reg := NewRegistry(nil)
	c1 := newClient(nil)
	c2 := newClient(nil)
	c3 := newClient(nil)

	reg.Join("ABC", Player{ID: "p1"}, c1)
	reg.Join("ABC", Player{ID: "p2"}, c2)
	reg.Join("ABC", Player{ID: "p3"}, c3)
	drain(c1)
	drain(c2)
	drain(c3)

	action, err := encodeAction(ActionChat, ChatEntry{ID: "m1", PlayerID: "p2", Text: "hi", Kind: ChatKindChat})
	require.NoError(t, err)
	reg.Forward("abc", "p2", action)

	assert.Equal(t, []string{MsgGameAction}, msgTypes(drain(c1)))
	assert.Empty(t, drain(c2), "sender must not hear its own action")
	assert.Equal(t, []string{MsgGameAction}, msgTypes(drain(c3)))
}

func TestBroadcastSkipsBackedUpConnection(t *testing.T) {
	reg := NewRegistry(nil)
	c1 := newClient(nil)
	slow := newClient(nil)

	reg.Join("ABC", Player{ID: "p1"}, c1)
	reg.Join("ABC", Player{ID: "p2"}, slow)

	// Fill the slow member's queue.
	for i := 0; i < sendBuffer; i++ {
		slow.enqueue(outbound{Type: ActionChat})
	}

	action, err := encodeAction(ActionSyncTime, SyncTime{TimeLeft: 10})
	require.NoError(t, err)
	reg.Forward("ABC", "", action)

	// Delivery is best effort: the backed-up member lost the message
	// but keeps its membership.
	assert.Len(t, reg.Members("ABC"), 2)
	require.Len(t, drain(slow), sendBuffer)
}

func TestScenarioJoinThenHostDisconnect(t *testing.T) {
	reg := NewRegistry(nil)
	c1 := newClient(nil)
	c2 := newClient(nil)

	reg.Join("ABC", Player{ID: "p1", Name: "Ada"}, c1)
	drain(c1)

	reg.Join("ABC", Player{ID: "p2", Name: "Bob"}, c2)

	p2Msgs := drain(c2)
	require.Equal(t, []string{MsgRoomJoined}, msgTypes(p2Msgs))

	joined, ok := p2Msgs[0].Payload.(RoomJoinedPayload)
	require.True(t, ok)
	assert.False(t, joined.IsHost)
	assert.Equal(t, []string{"p1", "p2"}, playerIDs(joined.Players))

	p1Msgs := drain(c1)
	require.Equal(t, []string{MsgPlayerJoined}, msgTypes(p1Msgs))
	assert.Equal(t, "p2", p1Msgs[0].Payload.(Player).ID)

	reg.Leave("ABC", "p1")

	p2Msgs = drain(c2)
	require.Equal(t, []string{MsgPlayerLeft, MsgBecameHost}, msgTypes(p2Msgs))
	assert.Equal(t, "p1", p2Msgs[0].Payload.(PlayerLeftPayload).ID)
	assert.Equal(t, "p2", reg.HostID("ABC"))
}

func playerIDs(players []Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.ID)
	}
	return out
}
