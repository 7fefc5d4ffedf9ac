package candy

import (
	"fmt"

	"github.com/nikniq/nq-candyrush/internal/config"
	"github.com/nikniq/nq-candyrush/internal/core"
	"github.com/nikniq/nq-candyrush/internal/match3"
	"github.com/nikniq/nq-candyrush/internal/multiplayer"
)

// VersusID is the game id of online matches.
const VersusID = "candy_versus"

// Versus is a timed two-player race: both players get the same starting
// board and refill sequence, and the higher score when time runs out wins.
// A player whose board deadlocks stops scoring.
type Versus struct {
	cfg      config.CandyConfig
	boards   [2]*board
	tick     uint64
	duration uint64
	err      error

	gameOver bool
	winner   core.PlayerID
}

var _ multiplayer.OnlineGame = (*Versus)(nil)

// NewVersus creates a versus game with the given configuration.
func NewVersus(cfg config.CandyConfig) *Versus {
	return &Versus{cfg: cfg}
}

// VersusFactory creates and resets versus games for the match coordinator.
func VersusFactory(gameID string, rc core.RuntimeConfig) (multiplayer.OnlineGame, error) {
	if gameID != VersusID {
		return nil, fmt.Errorf("candy: %q is not an online game", gameID)
	}
	v := NewVersus(activeConfig)
	v.Reset(rc)
	if v.err != nil {
		return nil, v.err
	}
	return v, nil
}

// Reset rolls both boards from the same seed.
func (v *Versus) Reset(rc core.RuntimeConfig) {
	tickRate := rc.TickRate
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}
	v.tick = 0
	v.duration = uint64(v.cfg.Versus.DurationSeconds * tickRate) //nolint:gosec // validated positive
	v.gameOver = false
	v.winner = core.PlayerNone
	v.err = nil

	ec, err := v.cfg.Engine(rc.Seed)
	if err != nil {
		v.err = err
		return
	}
	pace := pacingFor(v.cfg, tickRate)
	for i := range v.boards {
		b, err := newBoard(ec, nil, pace, nil)
		if err != nil {
			v.err = err
			return
		}
		v.boards[i] = b
	}
}

// StepMulti advances both boards by one tick.
func (v *Versus) StepMulti(in core.MultiInputFrame) core.StepResult {
	if v.gameOver || v.err != nil {
		return core.StepResult{State: v.state()}
	}
	v.tick++

	var cues []string
	for i, b := range v.boards {
		if !b.engine.GameOver() {
			b.handle(in.Player(core.PlayerID(i + 1)))
			b.update()
		}
		cues = append(cues, b.drainCues()...)
	}

	if v.tick >= v.duration || (v.boards[0].engine.GameOver() && v.boards[1].engine.GameOver()) {
		v.finish()
	}
	return core.StepResult{State: v.state(), Cues: cues}
}

// finish completes resolutions in flight so every clear counts.
func (v *Versus) finish() {
	for _, b := range v.boards {
		b.settle()
	}
	v.gameOver = true
	p1, p2 := v.Scores()
	switch {
	case p1 > p2:
		v.winner = core.Player1
	case p2 > p1:
		v.winner = core.Player2
	default:
		v.winner = core.PlayerNone
	}
}

func (v *Versus) state() core.GameState {
	p1, _ := v.Scores()
	return core.GameState{Score: p1, GameOver: v.gameOver}
}

// IsGameOver reports whether the match is decided.
func (v *Versus) IsGameOver() bool {
	return v.gameOver
}

// Winner returns the winning side, PlayerNone on a draw or while running.
func (v *Versus) Winner() core.PlayerID {
	return v.winner
}

// Scores returns both players' scores.
func (v *Versus) Scores() (p1, p2 int) {
	if v.boards[0] == nil || v.boards[1] == nil {
		return 0, 0
	}
	return v.boards[0].engine.Score(), v.boards[1].engine.Score()
}

// VersusBoard is one player's half of a versus snapshot.
type VersusBoard struct {
	Cells    []uint8
	Marks    []uint8
	Cursor   int
	Score    int
	Chain    int
	Finished bool
}

// VersusSnapshot is broadcast to both players after every tick.
type VersusSnapshot struct {
	Tick      uint64
	TicksLeft uint64
	Width     int
	Players   [2]VersusBoard
	GameOver  bool
	Winner    int // 0 = none or draw, 1 = Player1, 2 = Player2
}

// IsGameSnapshot implements multiplayer.GameSnapshot.
func (VersusSnapshot) IsGameSnapshot() {}

// Snapshot returns the state both clients render.
func (v *Versus) Snapshot() multiplayer.GameSnapshot {
	snap := VersusSnapshot{
		Tick:     v.tick,
		GameOver: v.gameOver,
		Winner:   int(v.winner),
	}
	if v.tick < v.duration {
		snap.TicksLeft = v.duration - v.tick
	}
	for i, b := range v.boards {
		if b == nil {
			continue
		}
		snap.Width = b.engine.Width()
		cells, marks := b.view()
		vb := VersusBoard{
			Cells:    make([]uint8, len(cells)),
			Marks:    make([]uint8, len(marks)),
			Cursor:   b.cursor,
			Score:    b.engine.Score(),
			Chain:    b.engine.Chain(),
			Finished: b.engine.GameOver(),
		}
		for j := range cells {
			vb.Cells[j] = uint8(cells[j])
			vb.Marks[j] = uint8(marks[j])
		}
		snap.Players[i] = vb
	}
	return snap
}

// RenderVersus draws a versus snapshot from the point of view of side:
// the local board on the left, the opponent's on the right.
func RenderVersus(dst *core.Screen, snap VersusSnapshot, side core.PlayerID, tickRate int) {
	dst.Clear()
	if snap.Width == 0 {
		dst.DrawTextCentered(dst.Height()/2, "Waiting for boards...")
		return
	}

	me, them := 0, 1
	if side == core.Player2 {
		me, them = 1, 0
	}

	bw, bh := BoardSize(snap.Width)
	gap := 4
	left := (dst.Width() - 2*bw - gap) / 2
	top := hudHeight + 1

	dst.DrawStyledCentered(0, "CANDY RUSH VERSUS", core.Style{Fg: core.ColorPink, Bold: true})
	if tickRate > 0 {
		secs := (snap.TicksLeft + uint64(tickRate) - 1) / uint64(tickRate) //nolint:gosec // tick rate is positive
		dst.DrawTextCentered(1, fmt.Sprintf("Time: %d:%02d", secs/60, secs%60))
	}

	for n, idx := range []int{me, them} {
		p := snap.Players[idx]
		x := left + n*(bw+gap)
		label := "You"
		cursor := p.Cursor
		if n == 1 {
			label = "Opponent"
			cursor = -1
		}
		dst.DrawText(x, 2, fmt.Sprintf("%s: %d", label, p.Score))
		if p.Finished {
			dst.DrawStyled(x, top+bh, "No moves left", core.Style{Fg: core.ColorGray})
		}

		cells := make([]match3.Symbol, len(p.Cells))
		marks := make([]cellMark, len(p.Marks))
		for j := range p.Cells {
			cells[j] = match3.Symbol(p.Cells[j])
			marks[j] = cellMark(p.Marks[j])
		}
		drawBoard(dst, x, top, snap.Width, cells, marks, cursor, snap.Tick)
	}

	if snap.GameOver {
		result := "DRAW"
		switch {
		case snap.Winner == int(side):
			result = "YOU WIN!"
		case snap.Winner != 0:
			result = "YOU LOSE"
		}
		drawOverlay(dst, dst.Width()/2, top+bh/2, result, "Press B for menu")
	}
}
