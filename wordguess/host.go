package wordguess

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MachineConfig tunes the host authority machine. Zero values take the
// defaults below.
type MachineConfig struct {
	RoundTime    int           // seconds per round
	Rounds       int           // words fetched per game
	HintInterval int           // seconds between hint reveal steps
	Multiplier   int           // points per second remaining
	Bonus        int           // flat points for any correct guess
	TimeoutDelay time.Duration // pause before advancing after a timeout
	GuessedDelay time.Duration // pause before advancing after a correct guess
	TickInterval time.Duration // one game second; tests shrink this
}

func (c MachineConfig) withDefaults() MachineConfig {
	if c.RoundTime == 0 {
		c.RoundTime = 60
	}
	if c.Rounds == 0 {
		c.Rounds = 5
	}
	if c.HintInterval == 0 {
		c.HintInterval = 15
	}
	if c.Multiplier == 0 {
		c.Multiplier = 15
	}
	if c.Bonus == 0 {
		c.Bonus = 100
	}
	if c.TimeoutDelay == 0 {
		c.TimeoutDelay = 4 * time.Second
	}
	if c.GuessedDelay == 0 {
		c.GuessedDelay = 3 * time.Second
	}
	if c.TickInterval == 0 {
		c.TickInterval = time.Second
	}
	return c
}

// Broadcaster receives every authoritative event the machine emits, in
// order. Implementations send to the relay and usually also apply the
// event to the host's own local view, with no network round trip.
type Broadcaster interface {
	Broadcast(action GameAction)
}

// BroadcastFunc adapts a function to the Broadcaster interface.
type BroadcastFunc func(action GameAction)

func (f BroadcastFunc) Broadcast(action GameAction) { f(action) }

// Machine is the host-side round authority: the single writer of game
// status, countdown, reveal schedule and scoring for one room. Any
// participant promoted to host owns one. All event emission happens
// under the machine's lock, so the broadcast stream is totally ordered.
//
// The timer loop is a method reading the machine's own fields at fire
// time; nothing is captured in closures that could go stale.
type Machine struct {
	mu     sync.Mutex
	cfg    MachineConfig
	source RoundSource
	out    Broadcaster
	logf   func(format string, args ...any)
	rng    *rand.Rand

	status    string
	rounds    []WordRound
	round     int // 1-based, 0 in the lobby
	timeLeft  int
	revealed  []int
	hintCount int
	winners   map[string]bool
	scores    map[string]int

	tickStop chan struct{}
	advance  *time.Timer
	stopped  bool
}

// NewMachine builds a lobby-state machine. source and out are required;
// logf may be nil.
func NewMachine(cfg MachineConfig, source RoundSource, out Broadcaster, logf func(format string, args ...any)) *Machine {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Machine{
		cfg:     cfg.withDefaults(),
		source:  source,
		out:     out,
		logf:    logf,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		status:  StatusLobby,
		winners: make(map[string]bool),
		scores:  make(map[string]int),
	}
}

// StartGame fetches the game's words and begins round one. It is a no-op
// outside the lobby.
func (m *Machine) StartGame(ctx context.Context) {
	m.mu.Lock()
	if m.stopped || m.status != StatusLobby {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	// Content fetch happens outside the lock; the source never fails,
	// it degrades to the built-in catalog.
	rounds := m.source.FetchRounds(ctx, m.cfg.Rounds)
	if len(rounds) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped || m.status != StatusLobby {
		return
	}

	m.rounds = rounds
	m.round = 1
	m.scores = make(map[string]int)
	m.logf("GAME: Starting %d-round game", len(rounds))
	m.startRoundLocked()
}

// startRoundLocked resets the per-round state, emits the full round-start
// snapshot, and arms the countdown. The snapshot is self-contained: a
// client needs no earlier round's messages to render from it.
func (m *Machine) startRoundLocked() {
	m.status = StatusPlaying
	m.timeLeft = m.cfg.RoundTime
	m.revealed = []int{}
	m.hintCount = 1
	m.winners = make(map[string]bool)

	cur := m.rounds[m.round-1]
	status := m.status
	word := cur.Word
	hints := append([]string(nil), cur.Hints...)
	timeLeft := m.timeLeft
	round := m.round
	revealed := append([]int(nil), m.revealed...)
	hintCount := m.hintCount
	maxRounds := len(m.rounds)

	m.emitLocked(ActionSyncState, SyncState{
		Status:            &status,
		CurrentWord:       &word,
		Hints:             &hints,
		TimeLeft:          &timeLeft,
		Round:             &round,
		RevealedIndices:   &revealed,
		RevealedHintCount: &hintCount,
		MaxRounds:         &maxRounds,
	})

	m.stopTimerLocked()
	stop := make(chan struct{})
	m.tickStop = stop
	go m.runTimer(stop)
}

// runTimer fires tick once per game second until the round's countdown is
// cancelled. It holds no game state of its own.
func (m *Machine) runTimer(stop chan struct{}) {
	ticker := time.NewTicker(m.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

// tick advances the countdown by one second. At fixed intervals it also
// performs the hint reveal step, emitted before the decremented time so
// clients can animate reveals independently of the countdown. Reaching
// zero ends the round by timeout.
func (m *Machine) tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusPlaying {
		return
	}

	m.timeLeft--
	if m.timeLeft < 0 {
		m.timeLeft = 0
	}

	if m.timeLeft > 0 && m.timeLeft%m.cfg.HintInterval == 0 {
		m.revealHintLocked()
	}

	m.emitLocked(ActionSyncTime, SyncTime{TimeLeft: m.timeLeft})

	if m.timeLeft == 0 {
		m.endRoundLocked(nil)
	}
}

// revealHintLocked reveals one random unrevealed non-space letter and
// advances the visible hint count, capped at the hint list length. Both
// updates travel together as a single event.
func (m *Machine) revealHintLocked() {
	cur := m.rounds[m.round-1]

	taken := make(map[int]bool, len(m.revealed))
	for _, i := range m.revealed {
		taken[i] = true
	}

	var candidates []int
	for i, r := range cur.Word {
		if r != ' ' && !taken[i] {
			candidates = append(candidates, i)
		}
	}

	if len(candidates) > 0 {
		m.revealed = append(m.revealed, candidates[m.rng.Intn(len(candidates))])
		sort.Ints(m.revealed)
	}

	if m.hintCount < len(cur.Hints) {
		m.hintCount++
	}

	m.emitLocked(ActionHintUpdate, HintUpdate{
		RevealedIndices:   append([]int(nil), m.revealed...),
		RevealedHintCount: m.hintCount,
	})
}

// HandleChat is fed every CHAT entry the host observes, its own included.
// Plain chatter passes through untouched; a correct guess scores the
// sender and ends the round. Correct guesses arriving during the short
// round-over pause are still credited, so near-simultaneous guessers are
// not dropped.
func (m *Machine) HandleChat(entry ChatEntry) {
	if entry.Kind != ChatKindChat {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || m.round == 0 {
		return
	}

	inGrace := m.status == StatusRoundOver && m.advance != nil
	if m.status != StatusPlaying && !inGrace {
		return
	}

	cur := m.rounds[m.round-1]
	if !strings.EqualFold(strings.TrimSpace(entry.Text), cur.Word) {
		return
	}
	if m.winners[entry.PlayerID] {
		return
	}

	points := m.timeLeft*m.cfg.Multiplier + m.cfg.Bonus
	m.winners[entry.PlayerID] = true
	m.scores[entry.PlayerID] += points

	m.emitLocked(ActionScored, PlayerScored{
		PlayerID:   entry.PlayerID,
		PlayerName: entry.PlayerName,
		Score:      m.scores[entry.PlayerID],
		Points:     points,
	})
	m.systemChatLocked(ChatKindCorrect, fmt.Sprintf("%s guessed the word!", entry.PlayerName))
	m.logf("GAME: %q scored %d points in round %d", entry.PlayerName, points, m.round)

	if m.status == StatusPlaying {
		m.endRoundLocked(&entry)
	}
}

// endRoundLocked leaves PLAYING, cancels the countdown, and schedules
// round advancement. winner is nil on a timeout.
func (m *Machine) endRoundLocked(winner *ChatEntry) {
	m.stopTimerLocked()
	m.status = StatusRoundOver

	status := m.status
	m.emitLocked(ActionSyncState, SyncState{Status: &status})

	delay := m.cfg.GuessedDelay
	if winner == nil {
		delay = m.cfg.TimeoutDelay
		m.systemChatLocked(ChatKindSystem, fmt.Sprintf("Time's up! The word was %s.", m.rounds[m.round-1].Word))
	}

	m.advance = time.AfterFunc(delay, m.advanceRound)
}

// advanceRound moves to the next round, or to GAME_OVER after the last
// one.
func (m *Machine) advanceRound() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || m.status != StatusRoundOver {
		return
	}
	m.advance = nil

	if m.round >= len(m.rounds) {
		m.status = StatusGameOver
		status := m.status
		m.emitLocked(ActionSyncState, SyncState{Status: &status})
		m.systemChatLocked(ChatKindSystem, "Game over!")
		m.logf("GAME: Finished after %d rounds", m.round)
		return
	}

	m.round++
	m.startRoundLocked()
}

// ResetToLobby re-arms a finished machine for a new game. It is only
// valid from GAME_OVER.
func (m *Machine) ResetToLobby() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || m.status != StatusGameOver {
		return
	}

	m.status = StatusLobby
	m.rounds = nil
	m.round = 0

	status := m.status
	round := m.round
	m.emitLocked(ActionSyncState, SyncState{Status: &status, Round: &round})
}

// Stop permanently silences the machine: the countdown and any pending
// advancement are cancelled synchronously and nothing is emitted again.
// Used on host demotion or disconnect, where a still-ticking timer would
// broadcast against superseded state.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopped = true
	m.stopTimerLocked()
	if m.advance != nil {
		m.advance.Stop()
		m.advance = nil
	}
}

func (m *Machine) stopTimerLocked() {
	if m.tickStop != nil {
		close(m.tickStop)
		m.tickStop = nil
	}
}

// systemChatLocked emits a host-authored ChatEntry.
func (m *Machine) systemChatLocked(kind, text string) {
	m.emitLocked(ActionChat, ChatEntry{
		ID:        uuid.NewString(),
		PlayerID:  SystemPlayerID,
		Text:      text,
		Kind:      kind,
		Timestamp: time.Now(),
	})
}

func (m *Machine) emitLocked(actionType string, data any) {
	if m.stopped {
		return
	}
	action, err := encodeAction(actionType, data)
	if err != nil {
		m.logf("GAME: Dropping unencodable %s: %v", actionType, err)
		return
	}
	m.out.Broadcast(action)
}

// Status reports the machine's current game status.
func (m *Machine) Status() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Round reports the current 1-based round index (0 in the lobby).
func (m *Machine) Round() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.round
}

// TimeLeft reports the seconds remaining in the current round.
func (m *Machine) TimeLeft() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timeLeft
}

// Winners lists the players credited with a correct guess this round.
func (m *Machine) Winners() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.winners))
	for id := range m.winners {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Score reports a player's running total for this game.
func (m *Machine) Score(playerID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scores[playerID]
}
