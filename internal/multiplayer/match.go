package multiplayer

import (
	"sync"
	"time"

	"github.com/nikniq/nq-candyrush/internal/core"
)

// OnlineGame is a game the match loop can drive for two players.
type OnlineGame interface {
	Reset(cfg core.RuntimeConfig)
	// StepMulti advances one tick with both players' actions.
	StepMulti(in core.MultiInputFrame) core.StepResult
	Snapshot() GameSnapshot
	IsGameOver() bool
	// Winner is PlayerNone while running or on a draw.
	Winner() PlayerID
	Scores() (p1, p2 int)
}

// MatchResult is the outcome of a finished match.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID
	Score1  int
	Score2  int
	Ticks   uint64
}

type playerInput struct {
	player PlayerID
	input  core.InputFrame
}

// OnlineMatch is the authoritative loop of one match. Inputs arrive on a
// buffered channel and are merged per tick; after every tick a snapshot is
// broadcast to both sessions.
type OnlineMatch struct {
	id       MatchID
	code     string
	gameID   string
	game     OnlineGame
	sessions [2]SessionHandle
	tickRate int

	mu      sync.Mutex
	pending [2]core.InputFrame
	inputs  chan playerInput

	tick        uint64
	disconnects chan SessionID
	done        chan struct{}
	doneOnce    sync.Once
}

// NewOnlineMatch creates a match; call Run to start it.
func NewOnlineMatch(id MatchID, code, gameID string, game OnlineGame, p1, p2 SessionHandle, tickRate int) *OnlineMatch {
	return &OnlineMatch{
		id:          id,
		code:        code,
		gameID:      gameID,
		game:        game,
		sessions:    [2]SessionHandle{p1, p2},
		tickRate:    max(1, tickRate),
		pending:     [2]core.InputFrame{core.NewInputFrame(), core.NewInputFrame()},
		inputs:      make(chan playerInput, 64),
		disconnects: make(chan SessionID, 2),
		done:        make(chan struct{}),
	}
}

// ID returns the match id.
func (m *OnlineMatch) ID() MatchID { return m.id }

// Code returns the lobby code the match was created from.
func (m *OnlineMatch) Code() string { return m.code }

// GameID returns the id of the game being played.
func (m *OnlineMatch) GameID() string { return m.gameID }

// Session returns the session seated as player.
func (m *OnlineMatch) Session(player PlayerID) SessionHandle {
	if player == Player2 {
		return m.sessions[1]
	}
	return m.sessions[0]
}

// SendInput queues input for the next tick. Drops it when the queue is full.
func (m *OnlineMatch) SendInput(player PlayerID, input core.InputFrame) {
	select {
	case m.inputs <- playerInput{player: player, input: input}:
	default:
	}
}

// PlayerDisconnected ends the match in favour of the other player.
func (m *OnlineMatch) PlayerDisconnected(id SessionID) {
	select {
	case m.disconnects <- id:
	default:
	}
}

// Stop ends the loop without a result.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() { close(m.done) })
}

// Run blocks until the match ends, then calls onComplete (unless stopped).
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(m.tickRate))
	defer ticker.Stop()

	go m.watchSessions()

	finish := func(r MatchResult) {
		if onComplete != nil {
			onComplete(r)
		}
	}

	for {
		select {
		case <-ticker.C:
			if result, over := m.step(); over {
				finish(result)
				return
			}
		case id := <-m.disconnects:
			finish(m.forfeit(id))
			return
		case <-m.done:
			return
		}
	}
}

// step runs one tick and reports whether the game ended.
func (m *OnlineMatch) step() (MatchResult, bool) {
	m.collectInputs()

	m.mu.Lock()
	frame := core.NewMultiInputFrame()
	for i, player := range []PlayerID{Player1, Player2} {
		frame.SetPlayer(player, m.pending[i].Clone())
		m.pending[i].Clear()
	}
	m.mu.Unlock()

	m.game.StepMulti(frame)
	m.tick++

	evt := SnapshotEvent{MatchID: m.id, Tick: m.tick, Snapshot: m.game.Snapshot()}
	for _, s := range m.sessions {
		s.Send(evt)
	}

	if !m.game.IsGameOver() {
		return MatchResult{}, false
	}
	return m.result(MatchEndReasonCompleted, m.game.Winner()), true
}

func (m *OnlineMatch) collectInputs() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		select {
		case in := <-m.inputs:
			seat := 0
			if in.player == Player2 {
				seat = 1
			}
			m.pending[seat].Merge(in.input)
		default:
			return
		}
	}
}

func (m *OnlineMatch) forfeit(id SessionID) MatchResult {
	winner := Player1
	if id == m.sessions[0].ID() {
		winner = Player2
	}
	return m.result(MatchEndReasonDisconnect, winner)
}

func (m *OnlineMatch) result(reason MatchEndReason, winner PlayerID) MatchResult {
	s1, s2 := m.game.Scores()
	return MatchResult{
		MatchID: m.id,
		Reason:  reason,
		Winner:  winner,
		Score1:  s1,
		Score2:  s2,
		Ticks:   m.tick,
	}
}

func (m *OnlineMatch) watchSessions() {
	var gone SessionID
	select {
	case <-m.sessions[0].Done():
		gone = m.sessions[0].ID()
	case <-m.sessions[1].Done():
		gone = m.sessions[1].ID()
	case <-m.done:
		return
	}
	m.PlayerDisconnected(gone)
}
