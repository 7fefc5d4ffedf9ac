// Package candy adapts the match3 engine to the arcade platform: a cursor
// driven board with paced resolution, a level campaign, an endless mode
// and a two-player versus game for online matches.
package candy

import (
	"fmt"

	"github.com/nikniq/nq-candyrush/internal/config"
	"github.com/nikniq/nq-candyrush/internal/core"
	"github.com/nikniq/nq-candyrush/internal/games/candy/levels"
	"github.com/nikniq/nq-candyrush/internal/match3"
	"github.com/nikniq/nq-candyrush/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

// Cue names raised by the game itself, next to the engine cues.
const (
	CueLevelCleared = "level_cleared"
	CueOutOfMoves   = "out_of_moves"
)

// levelClearSeconds is how long the level cleared banner stays up.
const levelClearSeconds = 2

// Package-level settings chosen in menus before a game is created.
var (
	activeConfig = config.DefaultCandyConfig()
	activeLevels []levels.Level
)

// SetConfig sets the configuration used by games reset afterwards.
func SetConfig(cfg config.CandyConfig) {
	activeConfig = cfg
}

// ActiveConfig returns the configuration new games use.
func ActiveConfig() config.CandyConfig {
	return activeConfig
}

// SetLevels replaces the campaign level list. Nil restores the builtin pack.
func SetLevels(list []levels.Level) {
	activeLevels = list
}

// CampaignLevels returns the levels the campaign plays.
func CampaignLevels() []levels.Level {
	if activeLevels != nil {
		return activeLevels
	}
	list, err := levels.Builtin().LoadAll()
	if err != nil {
		return nil
	}
	return list
}

// Game implements the single-player candy game.
type Game struct {
	mode Mode
	cfg  config.CandyConfig
	seed int64

	// Per-game overrides set by Configure.
	custom *config.CandyConfig
	start  string

	tick uint64

	board      *board
	levels     []levels.Level
	levelIndex int
	err        error

	// Totals of the levels already cleared.
	banked      int
	bankedMoves int
	bestChain   int

	screenW  int
	screenH  int
	tickRate int

	paused          bool
	tooSmall        bool
	levelCleared    bool
	levelClearTicks int
	won             bool
	outOfMoves      bool

	message      string
	messageTicks int
	cues         []string
}

// New creates a campaign game.
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewEndless creates an endless game.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

// Configure overrides the package settings for this game. A nil cfg keeps
// the active config. start is the id of the first campaign level.
func (g *Game) Configure(cfg *config.CandyConfig, start string) {
	g.custom = cfg
	g.start = start
}

func init() {
	registry.Register("candy", func() registry.Game {
		return New()
	})
	registry.Register("candy_endless", func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "candy_endless"
	}
	return "candy"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Candy Rush (Endless)"
	}
	return "Candy Rush"
}

// Reset starts a new run.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.cfg = activeConfig
	if g.custom != nil {
		g.cfg = *g.custom
	}
	g.seed = rc.Seed
	g.tick = 0
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.tickRate = rc.TickRate
	if g.tickRate <= 0 {
		g.tickRate = core.DefaultConfig().TickRate
	}
	g.banked, g.bankedMoves, g.bestChain = 0, 0, 0
	g.paused = false
	g.levelCleared = false
	g.levelClearTicks = 0
	g.won = false
	g.message, g.messageTicks = "", 0
	g.cues = nil

	g.levelIndex = 0
	g.levels = nil
	if g.mode == ModeCampaign {
		g.levels = CampaignLevels()
		for i, lvl := range g.levels {
			if lvl.ID == g.start {
				g.levelIndex = i
			}
		}
	}

	g.loadLevel()
}

// level returns the level being played, nil in endless mode.
func (g *Game) level() *levels.Level {
	if g.mode != ModeCampaign || g.levelIndex >= len(g.levels) {
		return nil
	}
	return &g.levels[g.levelIndex]
}

// loadLevel builds the board for the current level.
func (g *Game) loadLevel() {
	g.outOfMoves = false
	g.err = nil

	ec, err := g.cfg.Engine(g.seed + int64(g.levelIndex))
	if err != nil {
		g.err = err
		return
	}

	var grid *match3.Grid
	if g.mode == ModeCampaign {
		lvl := g.level()
		if lvl == nil {
			g.err = fmt.Errorf("candy: no campaign levels")
			return
		}
		ec.Width = lvl.Width
		ec.Symbols = lvl.Symbols
		if lvl.HasBoard() {
			if grid, err = lvl.Grid(); err != nil {
				g.err = err
				return
			}
		}
	}

	lc := match3.GameOverFunc(func(int) {
		g.say("No moves left!")
	})
	b, err := newBoard(ec, grid, pacingFor(g.cfg, g.tickRate), lc)
	if err != nil {
		g.err = err
		return
	}
	g.board = b
	g.checkScreenSize()
}

// Resize adapts to a new terminal size without restarting the run.
func (g *Game) Resize(width, height int) {
	g.screenW, g.screenH = width, height
	if g.board != nil {
		g.checkScreenSize()
	}
}

func (g *Game) checkScreenSize() {
	w := g.board.engine.Width()
	minW := max(w*cellWidth+2, 36)
	minH := w + 2 + hudHeight + 3
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	if g.messageTicks > 0 {
		g.messageTicks--
	}

	if g.err != nil || g.tooSmall {
		return g.result()
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return g.result()
	}

	if in.Has(core.ActionRestart) && g.finished() {
		g.restart()
		return g.result()
	}

	if g.levelCleared {
		g.levelClearTicks++
		if g.levelClearTicks >= levelClearSeconds*g.tickRate {
			g.advanceLevel()
		}
		return g.result()
	}

	if g.finished() {
		return g.result()
	}

	g.board.handle(in)
	if g.board.update() {
		g.onSettled()
	}
	return g.result()
}

// result collects this tick's cues into a step result.
func (g *Game) result() core.StepResult {
	if g.board != nil {
		for _, c := range g.board.drainCues() {
			g.noteCue(c)
			g.cues = append(g.cues, c)
		}
	}
	cues := g.cues
	g.cues = nil
	return core.StepResult{State: g.State(), Cues: cues}
}

// DrainCues returns cues raised outside of Step, e.g. by Reset.
func (g *Game) DrainCues() []string {
	if g.board == nil {
		return nil
	}
	cues := append(g.cues, g.board.drainCues()...)
	g.cues = nil
	return cues
}

func (g *Game) noteCue(c string) {
	switch c {
	case match3.CueSwapRejected.String():
		g.say("No match")
	case match3.CueMatchCleared.String():
		if chain := g.board.engine.Chain(); chain >= 2 {
			g.say(fmt.Sprintf("Sweet! x%d", chain))
		}
	}
}

func (g *Game) say(msg string) {
	g.message = msg
	g.messageTicks = 2 * g.tickRate
}

// onSettled checks the level goals once a resolution sequence is over.
func (g *Game) onSettled() {
	e := g.board.engine
	g.bestChain = max(g.bestChain, e.Stats().LongestChain)

	lvl := g.level()
	if lvl == nil {
		return
	}
	if e.Score() >= lvl.Target {
		g.levelCleared = true
		g.levelClearTicks = 0
		g.cues = append(g.cues, CueLevelCleared)
		return
	}
	if e.GameOver() {
		return
	}
	if lvl.Moves > 0 && e.Stats().Moves >= lvl.Moves {
		g.outOfMoves = true
		g.cues = append(g.cues, CueOutOfMoves)
		g.say("Out of moves!")
	}
}

// advanceLevel banks the level score and loads the next level.
func (g *Game) advanceLevel() {
	g.levelCleared = false
	g.levelClearTicks = 0

	e := g.board.engine
	g.banked += e.Score()
	g.bankedMoves += e.Stats().Moves

	if g.levelIndex >= len(g.levels)-1 {
		g.won = true
		return
	}
	g.levelIndex++
	g.loadLevel()
}

// restart replays the current level, or rolls a new endless board.
func (g *Game) restart() {
	g.message, g.messageTicks = "", 0
	if g.mode == ModeEndless {
		if err := g.board.restart(); err != nil {
			g.err = err
		}
		return
	}
	if g.won {
		g.won = false
		g.banked, g.bankedMoves = 0, 0
		g.levelIndex = 0
	}
	g.loadLevel()
}

// finished reports whether the run accepts no more moves.
func (g *Game) finished() bool {
	if g.levelCleared {
		return false
	}
	return g.won || g.outOfMoves || g.board.engine.GameOver()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.board == nil {
		return core.GameState{GameOver: true}
	}
	e := g.board.engine
	st := core.GameState{
		Score:     g.banked + e.Score(),
		GameOver:  g.finished(),
		Paused:    g.paused || g.tooSmall || g.levelCleared,
		Won:       g.won || g.levelCleared,
		Moves:     g.bankedMoves + e.Stats().Moves,
		BestChain: max(g.bestChain, e.Stats().LongestChain),
	}
	if lvl := g.level(); lvl != nil {
		st.Level = lvl.ID
	}
	return st
}

// Engine exposes the running engine.
func (g *Game) Engine() *match3.Engine {
	if g.board == nil {
		return nil
	}
	return g.board.engine
}

// Err returns the error that prevented the board from loading.
func (g *Game) Err() error {
	return g.err
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | Space/Enter: Select | H: Hint | P: Pause | R: Restart | Q: Quit"
}
