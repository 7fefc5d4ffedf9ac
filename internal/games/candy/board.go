package candy

import (
	"github.com/nikniq/nq-candyrush/internal/config"
	"github.com/nikniq/nq-candyrush/internal/core"
	"github.com/nikniq/nq-candyrush/internal/match3"
)

// pacing holds stage durations in ticks.
type pacing struct {
	clear   int
	cascade int
	reject  int
	passive int
	hint    int
}

func pacingFor(cfg config.CandyConfig, tickRate int) pacing {
	return pacing{
		clear:   config.Ticks(cfg.Pacing.ClearMS, tickRate),
		cascade: config.Ticks(cfg.Pacing.CascadeMS, tickRate),
		reject:  config.Ticks(cfg.Pacing.RejectMS, tickRate),
		passive: max(1, config.Ticks(cfg.Pacing.PassiveMS, tickRate)),
		hint:    config.Ticks(1500, tickRate),
	}
}

// noSelection marks that no tile is selected.
const noSelection = -1

// board is one player's view of an engine: cursor, selection and the
// timers that pace a resolution sequence on screen.
type board struct {
	engine *match3.Engine
	pace   pacing

	cursor   int
	selected int

	wait        int // ticks until the next resolution stage
	reject      match3.Pair
	rejectTicks int
	hint        match3.Pair
	hintTicks   int
	idleTicks   int

	cues []match3.Cue
	last match3.Step
}

// newBoard creates an engine for cfg. A nil grid rolls a random board.
// lc may be nil.
func newBoard(cfg match3.Config, grid *match3.Grid, pace pacing, lc match3.Lifecycle) (*board, error) {
	b := &board{pace: pace, selected: noSelection}
	obs := match3.Observers{
		Renderer:  match3.RendererFunc(b.onStep),
		Cues:      match3.CueFunc(b.onCue),
		Lifecycle: lc,
	}

	var err error
	if grid != nil {
		b.engine, err = match3.NewWithGrid(cfg, grid, obs)
	} else {
		b.engine, err = match3.New(cfg, obs)
	}
	if err != nil {
		return nil, err
	}
	b.cursor = b.engine.Width()*(b.engine.Width()/2) + b.engine.Width()/2
	return b, nil
}

func (b *board) onStep(s match3.Step) { b.last = s }

func (b *board) onCue(c match3.Cue) { b.cues = append(b.cues, c) }

// restart rolls a fresh board of the same geometry.
func (b *board) restart() error {
	cfg := b.engine.Config()
	if err := b.engine.Restart(cfg.Width, cfg.Symbols); err != nil {
		return err
	}
	b.selected = noSelection
	b.wait, b.rejectTicks, b.hintTicks, b.idleTicks = 0, 0, 0, 0
	return nil
}

// handle applies cursor movement, selection and hint requests.
func (b *board) handle(in core.InputFrame) {
	w := b.engine.Width()
	row, col := b.cursor/w, b.cursor%w
	switch {
	case in.Has(core.ActionUp):
		row--
	case in.Has(core.ActionDown):
		row++
	case in.Has(core.ActionLeft):
		col--
	case in.Has(core.ActionRight):
		col++
	}
	b.cursor = core.Clamp(row, 0, w-1)*w + core.Clamp(col, 0, w-1)

	if in.Has(core.ActionHint) {
		if p, ok := b.engine.Hint(); ok {
			b.hint = p
			b.hintTicks = b.pace.hint
		}
	}
	if in.Has(core.ActionSelect) {
		b.selectTile(b.cursor)
	}
}

// selectTile implements the two-step swap gesture: the first tile is
// remembered, an orthogonal neighbour attempts the swap, any other tile
// moves the selection and the same tile clears it.
func (b *board) selectTile(i int) {
	if b.engine.Busy() || b.engine.GameOver() || b.rejectTicks > 0 {
		return
	}
	switch {
	case b.selected == noSelection:
		b.selected = i
		return
	case b.selected == i:
		b.selected = noSelection
		return
	case !match3.IsAdjacent(b.engine.Width(), b.selected, i):
		b.selected = i
		return
	}

	a := b.selected
	b.selected = noSelection
	out, err := b.engine.BeginSwap(a, i)
	if err != nil {
		return
	}
	switch out {
	case match3.OutcomeAccepted:
		b.hintTicks = 0
		b.wait = b.pace.clear
		b.idleTicks = 0
	case match3.OutcomeNoMatch:
		b.reject = match3.Pair{A: a, B: i}
		b.rejectTicks = max(1, b.pace.reject)
	}
}

// update advances timers and the staged engine by one tick.
// It reports whether the engine settled during this tick.
func (b *board) update() bool {
	if b.hintTicks > 0 {
		b.hintTicks--
	}
	if b.rejectTicks > 0 {
		b.rejectTicks--
		return false
	}
	if !b.engine.Busy() {
		if b.engine.GameOver() {
			return false
		}
		b.idleTicks++
		if b.idleTicks >= b.pace.passive {
			b.idleTicks = 0
			if b.engine.BeginPending() {
				b.wait = b.pace.clear
			}
		}
		return false
	}

	if b.wait > 0 {
		b.wait--
		if b.wait > 0 {
			return false
		}
	}
	for b.engine.Busy() {
		switch b.engine.Phase() {
		case match3.PhaseClearing:
			b.engine.Advance()
			b.engine.Advance()
			b.wait = b.pace.cascade
		case match3.PhaseCascadeCheck:
			if b.engine.Advance() == match3.PhaseClearing {
				b.wait = b.pace.clear
			}
		default:
			b.engine.Advance()
		}
		if b.wait > 0 && b.engine.Busy() {
			return false
		}
	}
	b.idleTicks = 0
	return true
}

// settle finishes any resolution in flight without pacing.
func (b *board) settle() {
	b.rejectTicks = 0
	b.wait = 0
	b.engine.Settle()
}

// drainCues returns and forgets the cues raised since the last call.
func (b *board) drainCues() []string {
	if len(b.cues) == 0 {
		return nil
	}
	out := make([]string, len(b.cues))
	for i, c := range b.cues {
		out[i] = c.String()
	}
	b.cues = b.cues[:0]
	return out
}

// cellMark says how a cell should be highlighted.
type cellMark uint8

const (
	markNone cellMark = iota
	markMatched
	markSelected
	markHint
	markRejected
)

// view returns the displayed board: a rejected swap is shown swapped
// until its timer runs out.
func (b *board) view() ([]match3.Symbol, []cellMark) {
	g := b.engine.Grid()
	marks := make([]cellMark, g.Size())

	if b.rejectTicks > 0 {
		g.Swap(b.reject.A, b.reject.B)
		marks[b.reject.A] = markRejected
		marks[b.reject.B] = markRejected
	}
	if b.hintTicks > 0 {
		marks[b.hint.A] = markHint
		marks[b.hint.B] = markHint
	}
	if b.selected != noSelection {
		marks[b.selected] = markSelected
	}
	if b.engine.Phase() == match3.PhaseClearing {
		for _, i := range b.engine.PendingSet() {
			marks[i] = markMatched
		}
	}
	return g.Cells(), marks
}
