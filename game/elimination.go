package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"cantina/events"
)

// Elimination game state-machine guard failures. All leave the game state
// untouched.
var (
	ErrGameExists       = errors.New("a game already exists in this channel")
	ErrNoGame           = errors.New("no game in this channel")
	ErrGameNotOpen      = errors.New("game is not accepting players")
	ErrGameNotRunning   = errors.New("game is not running")
	ErrAlreadyJoined    = errors.New("already joined")
	ErrNotJoined        = errors.New("not in the player list")
	ErrNotEnoughPlayers = errors.New("at least 2 players are required")
	ErrNotAParticipant  = errors.New("not a live participant")
	ErrNotYourTurn      = errors.New("not your turn")
)

// EliminationState is the lifecycle phase of an elimination game.
type EliminationState string

const (
	// StateOpen accepts joins and leaves.
	StateOpen EliminationState = "open"
	// StateRunning resolves turns; the player list only shrinks.
	StateRunning EliminationState = "running"
	// StateFinished is terminal; the game has left the registry.
	StateFinished EliminationState = "finished"
)

const chamberCount = 6

// EliminationGame is a per-channel turn-based elimination game: players join
// while the game is open, then take turns pulling the trigger on a
// six-chamber cylinder with a single marked chamber until one player remains.
// The engine performs no I/O; callers render the returned snapshots and
// results, and the bus carries the timer-driven transitions.
type EliminationGame struct {
	mu sync.Mutex

	channelID string
	initiator string
	state     EliminationState
	players   []string

	turn     int
	chamber  int // current chamber pointer, 0..5
	loaded   int // index of the marked chamber for this cylinder
	rng      *rand.Rand
	timeout  time.Duration
	timer    *time.Timer
	deadline time.Time

	// generation increments on every turn transition; an expired timer that
	// finds a different generation is stale and must do nothing.
	generation uint64

	winnerDeclared bool

	manager *EliminationManager
}

// EliminationSnapshot is the public state of a game, safe to render.
type EliminationSnapshot struct {
	ChannelID string
	Initiator string
	State     EliminationState
	Players   []string
	Turn      string    // current turn holder, empty unless running
	Deadline  time.Time // when the current turn times out
}

// TurnResult reports one resolved trigger pull.
type TurnResult struct {
	Shooter    string
	Hit        bool
	Reloaded   bool // a fresh cylinder was loaded after an elimination
	Finished   bool
	Winner     string // set when Finished and one player remained
	Next       string // next turn holder while the game continues
	Remaining  []string
	ChamberPos int // chamber pointer after the pull, for flavor text
}

// EliminationManager owns the channel-keyed game registry. Create and removal
// are atomic under the manager mutex: a second create for the same channel
// observes the first game and fails. The manager mutex is never held while a
// game mutex is taken.
type EliminationManager struct {
	mu    sync.Mutex
	games map[string]*EliminationGame

	publisher events.Publisher
	timeout   time.Duration
	newRand   func() *rand.Rand
}

// EliminationOption configures a manager.
type EliminationOption func(*EliminationManager)

// WithTurnTimeout overrides the per-turn countdown.
func WithTurnTimeout(d time.Duration) EliminationOption {
	return func(m *EliminationManager) { m.timeout = d }
}

// WithRandSource injects the random source factory, one source per game.
// Tests use seeded sources to make cylinder loads and first-turn picks
// deterministic.
func WithRandSource(newRand func() *rand.Rand) EliminationOption {
	return func(m *EliminationManager) { m.newRand = newRand }
}

// NewEliminationManager creates an empty registry publishing engine events to
// publisher.
func NewEliminationManager(publisher events.Publisher, opts ...EliminationOption) *EliminationManager {
	m := &EliminationManager{
		games:     make(map[string]*EliminationGame),
		publisher: publisher,
		timeout:   60 * time.Second,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create registers a new open game for the channel.
func (m *EliminationManager) Create(channelID, initiator string) (*EliminationSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.games[channelID]; exists {
		return nil, ErrGameExists
	}
	g := &EliminationGame{
		channelID: channelID,
		initiator: initiator,
		state:     StateOpen,
		rng:       m.newRand(),
		timeout:   m.timeout,
		manager:   m,
	}
	m.games[channelID] = g
	snap := g.snapshotLocked()
	return &snap, nil
}

// Get returns the channel's game, or ErrNoGame.
func (m *EliminationManager) Get(channelID string) (*EliminationGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[channelID]
	if !ok {
		return nil, ErrNoGame
	}
	return g, nil
}

// Join adds a player to the channel's open game.
func (m *EliminationManager) Join(channelID, userID string) (*EliminationSnapshot, error) {
	g, err := m.Get(channelID)
	if err != nil {
		return nil, err
	}
	return g.Join(userID)
}

// Leave removes a player from the channel's open game.
func (m *EliminationManager) Leave(channelID, userID string) (*EliminationSnapshot, error) {
	g, err := m.Get(channelID)
	if err != nil {
		return nil, err
	}
	return g.Leave(userID)
}

// Start transitions the channel's game to running.
func (m *EliminationManager) Start(channelID string) (*EliminationSnapshot, error) {
	g, err := m.Get(channelID)
	if err != nil {
		return nil, err
	}
	return g.Start()
}

// PullTrigger resolves the acting user's turn in the channel's game.
func (m *EliminationManager) PullTrigger(channelID, userID string) (*TurnResult, error) {
	g, err := m.Get(channelID)
	if err != nil {
		return nil, err
	}
	return g.PullTrigger(userID)
}

// Cancel tears down the channel's game without declaring a winner.
func (m *EliminationManager) Cancel(channelID string) error {
	g, err := m.Get(channelID)
	if err != nil {
		return err
	}
	return g.Cancel()
}

// remove drops the game from the registry. Safe to call twice; only the
// entry that still maps to g is deleted, so a channel slot reused by a new
// game is never clobbered by the old game's teardown.
func (m *EliminationManager) remove(g *EliminationGame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.games[g.channelID]; ok && current == g {
		delete(m.games, g.channelID)
	}
}

// Snapshot returns the game's public state.
func (g *EliminationGame) Snapshot() EliminationSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *EliminationGame) snapshotLocked() EliminationSnapshot {
	snap := EliminationSnapshot{
		ChannelID: g.channelID,
		Initiator: g.initiator,
		State:     g.state,
		Players:   append([]string(nil), g.players...),
		Deadline:  g.deadline,
	}
	if g.state == StateRunning && len(g.players) > 0 {
		snap.Turn = g.players[g.turn]
	}
	return snap
}

// Join appends the user to the player list, join order preserved.
func (g *EliminationGame) Join(userID string) (*EliminationSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateOpen {
		return nil, ErrGameNotOpen
	}
	for _, p := range g.players {
		if p == userID {
			return nil, ErrAlreadyJoined
		}
	}
	g.players = append(g.players, userID)
	snap := g.snapshotLocked()
	return &snap, nil
}

// Leave removes the user while the game is still open.
func (g *EliminationGame) Leave(userID string) (*EliminationSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateOpen {
		return nil, ErrGameNotOpen
	}
	for i, p := range g.players {
		if p == userID {
			g.players = append(g.players[:i], g.players[i+1:]...)
			snap := g.snapshotLocked()
			return &snap, nil
		}
	}
	return nil, ErrNotJoined
}

// Start transitions Open -> Running with at least two players, picks a random
// first turn holder, loads the cylinder and starts the turn countdown.
func (g *EliminationGame) Start() (*EliminationSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateOpen {
		return nil, ErrGameNotOpen
	}
	if len(g.players) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	g.state = StateRunning
	g.turn = g.rng.Intn(len(g.players))
	g.loadCylinderLocked()
	g.armTimerLocked()

	snap := g.snapshotLocked()
	return &snap, nil
}

// loadCylinderLocked loads a fresh cylinder: one marked chamber at a uniform
// position, chamber pointer reset to 0.
func (g *EliminationGame) loadCylinderLocked() {
	g.loaded = g.rng.Intn(chamberCount)
	g.chamber = 0
}

// PullTrigger resolves one turn. The outcome is fully determined by the
// chamber pointer and the loaded chamber; randomness only enters through
// reloads.
func (g *EliminationGame) PullTrigger(userID string) (*TurnResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateRunning {
		return nil, ErrGameNotRunning
	}
	alive := false
	for _, p := range g.players {
		if p == userID {
			alive = true
			break
		}
	}
	if !alive {
		return nil, ErrNotAParticipant
	}
	if g.players[g.turn] != userID {
		return nil, ErrNotYourTurn
	}

	result := &TurnResult{Shooter: userID, Hit: g.chamber == g.loaded}

	if !result.Hit {
		// Click: rotate the cylinder, pass the turn.
		g.chamber = (g.chamber + 1) % chamberCount
		g.turn = (g.turn + 1) % len(g.players)
		g.advanceLocked()
		result.Next = g.players[g.turn]
		result.Remaining = append([]string(nil), g.players...)
		result.ChamberPos = g.chamber
		return result, nil
	}

	// Elimination.
	g.players = append(g.players[:g.turn], g.players[g.turn+1:]...)

	if len(g.players) <= 1 {
		result.Finished = true
		if len(g.players) == 1 && !g.winnerDeclared {
			g.winnerDeclared = true
			result.Winner = g.players[0]
		}
		result.Remaining = append([]string(nil), g.players...)
		g.finishLocked(result.Winner, false)
		return result, nil
	}

	// The player who sat after the eliminated one inherits the same index.
	g.turn = g.turn % len(g.players)
	g.loadCylinderLocked()
	g.advanceLocked()
	result.Reloaded = true
	result.Next = g.players[g.turn]
	result.Remaining = append([]string(nil), g.players...)
	return result, nil
}

// Cancel tears the game down in any non-finished state, no winner declared.
func (g *EliminationGame) Cancel() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateFinished {
		return ErrGameNotRunning
	}
	g.finishLocked("", true)
	return nil
}

// advanceLocked marks a turn transition: stale timers die, a new countdown
// starts.
func (g *EliminationGame) advanceLocked() {
	g.generation++
	g.armTimerLocked()
}

func (g *EliminationGame) armTimerLocked() {
	if g.timer != nil {
		g.timer.Stop()
	}
	if g.timeout <= 0 {
		return
	}
	gen := g.generation
	g.deadline = time.Now().Add(g.timeout)
	g.timer = time.AfterFunc(g.timeout, func() {
		g.onTurnTimeout(gen)
	})
}

// onTurnTimeout skips the current turn if, and only if, the game is still
// running and no transition happened since the timer was armed.
func (g *EliminationGame) onTurnTimeout(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateRunning || g.generation != gen || len(g.players) == 0 {
		return
	}

	skipped := g.players[g.turn]
	g.turn = (g.turn + 1) % len(g.players)
	g.advanceLocked()

	if g.manager != nil && g.manager.publisher != nil {
		g.manager.publisher.Publish(events.EliminationTurnSkipEvent{
			ChannelID: g.channelID,
			Skipped:   skipped,
			Next:      g.players[g.turn],
			Deadline:  g.deadline,
		})
	}
}

// finishLocked moves to the terminal state, cancels the countdown and drops
// the game from the registry.
func (g *EliminationGame) finishLocked(winner string, cancelled bool) {
	g.state = StateFinished
	g.generation++
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	if g.manager != nil {
		g.manager.remove(g)
		if g.manager.publisher != nil {
			g.manager.publisher.Publish(events.EliminationGameClosedEvent{
				ChannelID: g.channelID,
				Winner:    winner,
				Cancelled: cancelled,
			})
		}
	}
}
