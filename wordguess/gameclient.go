package wordguess

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// GameClient is a programmatic participant: it joins a room over the
// relay, folds broadcasts into a ViewState, and owns a Machine whenever
// the registry elects it host. Host authority is a role any participant
// can take on, not a separate process type.
type GameClient struct {
	conn *websocket.Conn
	view *ViewState
	self Player
	room string

	cfg    MachineConfig
	source RoundSource
	logf   func(format string, args ...any)

	mu      sync.Mutex
	machine *Machine

	writeMu sync.Mutex
	done    chan struct{}
}

// ClientOptions configures a GameClient.
type ClientOptions struct {
	Machine MachineConfig // host-role tuning, used if this client is elected
	Source  RoundSource   // word source, defaults to the built-in catalog
	Logf    func(format string, args ...any)
}

// Dial connects to a relay websocket endpoint and joins a room. The
// player's id is assigned here, client-side, if the caller left it empty.
// Failure to establish the connection is the one error surfaced to the
// joining user.
func Dial(ctx context.Context, wsURL, roomCode string, self Player, opts ClientOptions) (*GameClient, error) {
	if self.ID == "" {
		self.ID = uuid.NewString()
	}
	if opts.Source == nil {
		opts.Source = NewAPISource("", opts.Logf)
	}
	if opts.Logf == nil {
		opts.Logf = func(string, ...any) {}
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}

	gc := &GameClient{
		conn:   conn,
		view:   NewViewState(opts.Logf),
		self:   self,
		room:   normalizeCode(roomCode),
		cfg:    opts.Machine,
		source: opts.Source,
		logf:   opts.Logf,
		done:   make(chan struct{}),
	}

	if err := gc.write(outbound{Type: MsgJoinRoom, Payload: JoinRoomPayload{
		RoomID: gc.room,
		Player: self,
	}}); err != nil {
		_ = conn.Close()
		return nil, err
	}

	go gc.readLoop()

	return gc, nil
}

// Self returns this participant's identity.
func (gc *GameClient) Self() Player { return gc.self }

// View returns a renderable copy of the reconciled state.
func (gc *GameClient) View() View { return gc.view.Snapshot() }

// IsHost reports whether this participant currently holds host authority.
func (gc *GameClient) IsHost() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.machine != nil
}

// Done is closed when the connection ends.
func (gc *GameClient) Done() <-chan struct{} { return gc.done }

// Close stops any host authority this client holds and drops the
// connection.
func (gc *GameClient) Close() error {
	gc.mu.Lock()
	if gc.machine != nil {
		gc.machine.Stop()
		gc.machine = nil
	}
	gc.mu.Unlock()

	return gc.conn.Close()
}

// Chat sends a chat line to the room. Guesses are ordinary chat: the
// host judges them against the current word. The entry is applied to the
// local view immediately and, when this client is the host, judged
// locally as well, so the host's own guess never round-trips.
func (gc *GameClient) Chat(text string) error {
	entry := ChatEntry{
		ID:         uuid.NewString(),
		PlayerID:   gc.self.ID,
		PlayerName: gc.self.Name,
		Text:       text,
		Kind:       ChatKindChat,
		Timestamp:  time.Now(),
	}

	action, err := encodeAction(ActionChat, entry)
	if err != nil {
		return err
	}

	gc.view.ApplyAction(action)

	if err := gc.write(outbound{Type: MsgGameAction, Payload: action}); err != nil {
		return err
	}

	gc.mu.Lock()
	machine := gc.machine
	gc.mu.Unlock()
	if machine != nil {
		machine.HandleChat(entry)
	}

	return nil
}

// Guess is Chat under a name matching the user intent.
func (gc *GameClient) Guess(word string) error { return gc.Chat(word) }

// StartGame begins a game. Only the host can start one; for anyone else
// this is a no-op.
func (gc *GameClient) StartGame(ctx context.Context) {
	gc.mu.Lock()
	machine := gc.machine
	gc.mu.Unlock()

	if machine != nil {
		machine.StartGame(ctx)
	}
}

// ResetToLobby re-arms a finished game. Host only.
func (gc *GameClient) ResetToLobby() {
	gc.mu.Lock()
	machine := gc.machine
	gc.mu.Unlock()

	if machine != nil {
		machine.ResetToLobby()
	}
}

// becomeHost takes on the host role. A participant promoted mid-game has
// no copy of the in-flight round's remaining words, so its machine starts
// from the lobby; promoted (as opposed to founding) hosts broadcast that
// reset so every view leaves the dead round, then announce that a new
// game must be started.
func (gc *GameClient) becomeHost(promoted bool) {
	gc.mu.Lock()
	if gc.machine != nil {
		gc.mu.Unlock()
		return
	}
	machine := NewMachine(gc.cfg, gc.source, BroadcastFunc(gc.broadcast), gc.logf)
	gc.machine = machine
	gc.mu.Unlock()

	gc.logf("CLIENT: %q is now host of %s", gc.self.Name, gc.room)

	if promoted {
		status := StatusLobby
		round := 0
		timeLeft := 0
		gc.broadcast(mustEncodeAction(ActionSyncState, SyncState{
			Status:   &status,
			Round:    &round,
			TimeLeft: &timeLeft,
		}))
		gc.broadcast(mustEncodeAction(ActionChat, ChatEntry{
			ID:        uuid.NewString(),
			PlayerID:  SystemPlayerID,
			Text:      gc.self.Name + " is the new host. Start a new game to continue playing.",
			Kind:      ChatKindSystem,
			Timestamp: time.Now(),
		}))
	}
}

// broadcast is the machine's outlet: every authoritative event goes to
// the relay and is folded into the host's own view directly.
func (gc *GameClient) broadcast(action GameAction) {
	gc.view.ApplyAction(action)
	if err := gc.write(outbound{Type: MsgGameAction, Payload: action}); err != nil {
		// Fire and forget: the host's clock keeps advancing whether or
		// not the relay heard this.
		gc.logf("CLIENT: Broadcast failed: %v", err)
	}
}

func (gc *GameClient) write(msg outbound) error {
	gc.writeMu.Lock()
	defer gc.writeMu.Unlock()
	return gc.conn.WriteJSON(msg)
}

func (gc *GameClient) readLoop() {
	defer func() {
		gc.mu.Lock()
		if gc.machine != nil {
			gc.machine.Stop()
			gc.machine = nil
		}
		gc.mu.Unlock()
		_ = gc.conn.Close()
		close(gc.done)
	}()

	for {
		_, raw, err := gc.conn.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			gc.logf("CLIENT: Dropping malformed frame: %v", err)
			continue
		}

		gc.view.ApplyEnvelope(env)

		switch env.Type {
		case MsgRoomJoined:
			var p RoomJoinedPayload
			if err := json.Unmarshal(env.Payload, &p); err == nil && p.IsHost {
				gc.becomeHost(false)
			}

		case MsgBecameHost:
			gc.becomeHost(true)

		case MsgGameAction:
			var action GameAction
			if err := json.Unmarshal(env.Payload, &action); err != nil {
				continue
			}
			if action.Type != ActionChat {
				continue
			}
			gc.mu.Lock()
			machine := gc.machine
			gc.mu.Unlock()
			if machine == nil {
				continue
			}
			var entry ChatEntry
			if err := json.Unmarshal(action.Data, &entry); err != nil {
				continue
			}
			machine.HandleChat(entry)
		}
	}
}

func mustEncodeAction(actionType string, data any) GameAction {
	action, err := encodeAction(actionType, data)
	if err != nil {
		panic(err)
	}
	return action
}
