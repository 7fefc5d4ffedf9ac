package match3

import (
	"fmt"
	"math/rand"
)

// Phase is the resolution stage of the engine.
type Phase uint8

const (
	// PhaseIdle accepts swaps.
	PhaseIdle Phase = iota
	// PhaseAwaitingMatchCheck is held only while a swap is being evaluated.
	PhaseAwaitingMatchCheck
	// PhaseClearing has pending groups waiting to be cleared.
	PhaseClearing
	// PhaseCollapsing has empty cells waiting for gravity and refill.
	PhaseCollapsing
	// PhaseCascadeCheck re-runs detection after a refill.
	PhaseCascadeCheck
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingMatchCheck:
		return "awaiting_match_check"
	case PhaseClearing:
		return "clearing"
	case PhaseCollapsing:
		return "collapsing"
	case PhaseCascadeCheck:
		return "cascade_check"
	}
	return "unknown"
}

// Outcome is the result of a swap attempt.
type Outcome uint8

const (
	// OutcomeAccepted means the swap produced a match and resolution started.
	OutcomeAccepted Outcome = iota
	// OutcomeNoMatch means the swap was legal but produced no match; it was reverted.
	OutcomeNoMatch
	// OutcomeIllegal means the cells are not neighbours; nothing changed.
	OutcomeIllegal
	// OutcomeBusy means a resolution sequence is in flight; nothing changed.
	OutcomeBusy
	// OutcomeGameOver means the board is deadlocked; nothing changed.
	OutcomeGameOver
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeIllegal:
		return "illegal"
	case OutcomeBusy:
		return "busy"
	case OutcomeGameOver:
		return "game_over"
	}
	return "unknown"
}

// Config holds engine parameters.
type Config struct {
	Width         int
	Symbols       int
	PointsPerTile int
	Policy        Policy
	// CascadeBonus multiplies the points of the n-th clear in a chain by n.
	CascadeBonus bool
	Seed         int64
	// Source overrides the seeded random refill source.
	Source SymbolSource
}

// DefaultConfig returns an 8×8 board with six symbols and 10 points per tile.
func DefaultConfig() Config {
	return Config{
		Width:         8,
		Symbols:       6,
		PointsPerTile: 10,
		Policy:        PolicyMaximalRuns,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Width < MinRun {
		return fmt.Errorf("%w: width %d below %d", ErrInvalidConfig, c.Width, MinRun)
	}
	// A single symbol makes every refill a match and resolution never ends.
	if c.Symbols < 2 || c.Symbols > MaxSymbols {
		return fmt.Errorf("%w: symbols %d out of range 2..%d", ErrInvalidConfig, c.Symbols, MaxSymbols)
	}
	if c.PointsPerTile < 0 {
		return fmt.Errorf("%w: negative points per tile", ErrInvalidConfig)
	}
	if c.Policy != PolicyMaximalRuns && c.Policy != PolicyWindows {
		return fmt.Errorf("%w: unknown policy %d", ErrInvalidConfig, c.Policy)
	}
	return nil
}

// Stats are per-run counters.
type Stats struct {
	Moves        int
	TilesCleared int
	Clears       int
	LongestChain int
}

// maxRollAttempts bounds board generation on Restart.
const maxRollAttempts = 1000

// Engine owns the board and drives swap resolution.
//
// A resolution sequence is staged: BeginSwap evaluates the swap and, on a
// match, leaves the engine busy in PhaseClearing; each Advance performs one
// stage (clear, collapse, cascade check) so a front end can pace them on
// timers. AttemptSwap and ResolvePending run the whole sequence at once.
// While busy every new swap is refused.
//
// Engine is not safe for concurrent use.
type Engine struct {
	cfg      Config
	grid     *Grid
	alphabet Alphabet
	rng      *rand.Rand
	source   SymbolSource
	custom   bool
	obs      Observers

	phase    Phase
	pending  []Group
	chain    int
	score    int
	gameOver bool
	stats    Stats
}

// New creates an engine with a freshly rolled board: no matches and at
// least one available move.
func New(cfg Config, obs Observers) (*Engine, error) {
	e, err := newEngine(cfg, obs)
	if err != nil {
		return nil, err
	}
	if err := e.roll(); err != nil {
		return nil, err
	}
	e.emit(StepRestarted, func(*Step) {})
	return e, nil
}

// NewWithGrid creates an engine over a prepared board (fixtures, level
// layouts). The grid is copied. It may contain matches, which stay pending
// until ResolvePending. A settled board without moves is game over at once.
func NewWithGrid(cfg Config, g *Grid, obs Observers) (*Engine, error) {
	cfg.Width = g.Width()
	e, err := newEngine(cfg, obs)
	if err != nil {
		return nil, err
	}
	for i, s := range g.cells {
		if !e.alphabet.Contains(s) {
			return nil, fmt.Errorf("%w: cell %d holds %q", ErrInvalidSymbol, i, s.Rune())
		}
	}
	e.grid = g.Clone()
	e.emit(StepRestarted, func(*Step) {})
	if !HasMatch(e.grid) {
		e.checkDeadlock()
	}
	return e, nil
}

func newEngine(cfg Config, obs Observers) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	alphabet, err := NewAlphabet(cfg.Symbols)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:      cfg,
		alphabet: alphabet,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		obs:      obs,
	}
	if cfg.Source != nil {
		e.source = cfg.Source
		e.custom = true
	} else {
		e.source = NewRandSourceFrom(e.rng, alphabet)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Width returns the board width.
func (e *Engine) Width() int { return e.grid.Width() }

// Alphabet returns the symbols in play.
func (e *Engine) Alphabet() Alphabet { return e.alphabet }

// Grid returns a copy of the board.
func (e *Engine) Grid() *Grid { return e.grid.Clone() }

// Cell returns the symbol at index i, or Empty for an out-of-range index.
func (e *Engine) Cell(i int) Symbol {
	if !e.grid.InRange(i) {
		return Empty
	}
	return e.grid.cells[i]
}

// Score returns the running score.
func (e *Engine) Score() int { return e.score }

// Phase returns the current resolution stage.
func (e *Engine) Phase() Phase { return e.phase }

// Busy reports whether a resolution sequence is in flight.
func (e *Engine) Busy() bool { return e.phase != PhaseIdle }

// GameOver reports whether the board deadlocked. Cleared only by Restart.
func (e *Engine) GameOver() bool { return e.gameOver }

// Chain returns the number of clears in the current (or last) sequence.
func (e *Engine) Chain() int { return e.chain }

// Stats returns the run counters.
func (e *Engine) Stats() Stats { return e.stats }

// Pending returns the groups waiting to be cleared, for flash rendering.
func (e *Engine) Pending() []Group {
	out := make([]Group, len(e.pending))
	copy(out, e.pending)
	return out
}

// PendingSet returns the clear set of the pending groups.
func (e *Engine) PendingSet() []int {
	return ClearSet(e.pending)
}

// AttemptSwap evaluates a swap and, when it is accepted, runs the whole
// resolution sequence before returning. Indices outside the board are a
// caller error.
func (e *Engine) AttemptSwap(a, b int) (Outcome, error) {
	out, err := e.BeginSwap(a, b)
	if err != nil || out != OutcomeAccepted {
		return out, err
	}
	e.Settle()
	return out, nil
}

// BeginSwap evaluates a swap. On a match the engine becomes busy with the
// matched groups pending; the caller drives the rest with Advance.
// Every other outcome leaves the board byte-for-byte unchanged.
func (e *Engine) BeginSwap(a, b int) (Outcome, error) {
	if err := e.checkIndex(a); err != nil {
		return OutcomeIllegal, err
	}
	if err := e.checkIndex(b); err != nil {
		return OutcomeIllegal, err
	}
	if e.gameOver {
		return OutcomeGameOver, nil
	}
	if e.Busy() {
		return OutcomeBusy, nil
	}
	if !e.grid.IsAdjacent(a, b) {
		return OutcomeIllegal, nil
	}

	e.phase = PhaseAwaitingMatchCheck
	e.grid.Swap(a, b)
	groups := FindMatches(e.grid, e.cfg.Policy)
	if len(groups) == 0 {
		e.grid.Swap(a, b)
		e.phase = PhaseIdle
		e.obs.cue(CueSwapRejected)
		return OutcomeNoMatch, nil
	}

	e.stats.Moves++
	e.chain = 0
	e.pending = groups
	e.phase = PhaseClearing
	e.emit(StepSwapped, func(s *Step) {
		s.Swapped = Pair{A: a, B: b}
		s.Groups = e.Pending()
		s.Cleared = ClearSet(groups)
	})
	e.obs.cue(CueSwapAccepted)
	return OutcomeAccepted, nil
}

// Advance performs one resolution stage and returns the new phase.
// It is a no-op when idle.
func (e *Engine) Advance() Phase {
	switch e.phase {
	case PhaseClearing:
		e.clearPending()
		e.phase = PhaseCollapsing
	case PhaseCollapsing:
		res := Collapse(e.grid, e.source)
		e.phase = PhaseCascadeCheck
		e.emit(StepCollapsed, func(s *Step) {
			s.Falls = res.Falls
			s.Refilled = res.Refilled
		})
	case PhaseCascadeCheck:
		groups := FindMatches(e.grid, e.cfg.Policy)
		if len(groups) > 0 {
			e.pending = groups
			e.phase = PhaseClearing
			return e.phase
		}
		e.pending = nil
		e.phase = PhaseIdle
		e.emit(StepSettled, func(*Step) {})
		e.checkDeadlock()
	}
	return e.phase
}

// Settle advances until the engine is idle.
func (e *Engine) Settle() {
	for e.Busy() {
		e.Advance()
	}
}

// ResolvePending runs a full resolution sequence if the board currently
// holds a match (after a programmatic edit or a prepared layout).
// It reports whether anything was resolved.
func (e *Engine) ResolvePending() bool {
	if !e.BeginPending() {
		return false
	}
	e.Settle()
	return true
}

// BeginPending is the staged form of ResolvePending.
func (e *Engine) BeginPending() bool {
	if e.Busy() {
		return false
	}
	groups := FindMatches(e.grid, e.cfg.Policy)
	if len(groups) == 0 {
		return false
	}
	e.chain = 0
	e.pending = groups
	e.phase = PhaseClearing
	return true
}

// SetCell writes a symbol outside of play. The board is not resolved;
// call ResolvePending afterwards.
func (e *Engine) SetCell(i int, s Symbol) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	if e.Busy() {
		return ErrBusy
	}
	if !e.alphabet.Contains(s) {
		return fmt.Errorf("%w: %d", ErrInvalidSymbol, s)
	}
	e.grid.cells[i] = s
	return nil
}

// Hint returns a swap that would produce a match.
func (e *Engine) Hint() (Pair, bool) {
	if e.Busy() || e.gameOver {
		return Pair{}, false
	}
	return FindMove(e.grid)
}

// Restart rolls a new board of the given width and alphabet size, resets
// score, stats and game over, and emits the restart cue. An in-flight
// resolution is abandoned.
func (e *Engine) Restart(width, symbols int) error {
	cfg := e.cfg
	cfg.Width = width
	cfg.Symbols = symbols
	if err := cfg.Validate(); err != nil {
		return err
	}
	alphabet, err := NewAlphabet(symbols)
	if err != nil {
		return err
	}

	e.cfg = cfg
	e.alphabet = alphabet
	if !e.custom {
		e.source = NewRandSourceFrom(e.rng, alphabet)
	}
	if err := e.roll(); err != nil {
		return err
	}
	e.obs.cue(CueRestart)
	e.emit(StepRestarted, func(*Step) {})
	return nil
}

// roll replaces the board with a random one that has no match and at
// least one available move, and resets run state.
func (e *Engine) roll() error {
	e.phase = PhaseIdle
	e.pending = nil
	e.chain = 0
	e.score = 0
	e.gameOver = false
	e.stats = Stats{}

	g := NewGrid(e.cfg.Width)
	for range maxRollAttempts {
		fillWithoutRuns(g, e.alphabet, e.rng)
		if !HasMatch(g) && HasAvailableMove(g) {
			e.grid = g
			return nil
		}
	}
	return fmt.Errorf("%w: no playable %dx%d board with %d symbols", ErrInvalidConfig, e.cfg.Width, e.cfg.Width, e.alphabet.Size())
}

// fillWithoutRuns fills g row by row, avoiding symbols that would complete
// a run with the two cells to the left or above when the alphabet allows it.
func fillWithoutRuns(g *Grid, alphabet Alphabet, rng *rand.Rand) {
	w := g.width
	candidates := make([]Symbol, 0, alphabet.Size())
	for i := range g.cells {
		row, col := i/w, i%w
		candidates = candidates[:0]
		for _, s := range alphabet.symbols {
			if col >= 2 && g.cells[i-1] == s && g.cells[i-2] == s {
				continue
			}
			if row >= 2 && g.cells[i-w] == s && g.cells[i-2*w] == s {
				continue
			}
			candidates = append(candidates, s)
		}
		if len(candidates) == 0 {
			g.cells[i] = alphabet.symbols[rng.Intn(alphabet.Size())]
			continue
		}
		g.cells[i] = candidates[rng.Intn(len(candidates))]
	}
}

func (e *Engine) clearPending() {
	set := ClearSet(e.pending)
	groups := e.pending
	e.pending = nil
	for _, i := range set {
		e.grid.cells[i] = Empty
	}

	e.chain++
	points := len(set) * e.cfg.PointsPerTile
	if e.cfg.CascadeBonus {
		points *= e.chain
	}
	e.score += points
	e.stats.TilesCleared += len(set)
	e.stats.Clears++
	if e.chain > e.stats.LongestChain {
		e.stats.LongestChain = e.chain
	}

	e.emit(StepCleared, func(s *Step) {
		s.Groups = groups
		s.Cleared = set
		s.Points = points
	})
	e.obs.cue(CueMatchCleared)
}

func (e *Engine) checkDeadlock() {
	if e.gameOver || HasAvailableMove(e.grid) {
		return
	}
	e.gameOver = true
	e.obs.cue(CueGameOver)
	e.obs.gameOver(e.score)
}

func (e *Engine) checkIndex(i int) error {
	if !e.grid.InRange(i) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, e.grid.Size())
	}
	return nil
}

func (e *Engine) emit(kind StepKind, fill func(*Step)) {
	if e.obs.Renderer == nil {
		return
	}
	s := Step{
		Kind:  kind,
		Cells: e.grid.Cells(),
		Width: e.grid.Width(),
		Score: e.score,
		Chain: e.chain,
	}
	fill(&s)
	e.obs.step(s)
}
