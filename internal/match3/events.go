package match3

import "github.com/charmbracelet/log"

// StepKind identifies the resolution stage a Step reports.
type StepKind uint8

const (
	StepRestarted StepKind = iota
	StepSwapped
	StepCleared
	StepCollapsed
	StepSettled
)

func (k StepKind) String() string {
	switch k {
	case StepRestarted:
		return "restarted"
	case StepSwapped:
		return "swapped"
	case StepCleared:
		return "cleared"
	case StepCollapsed:
		return "collapsed"
	case StepSettled:
		return "settled"
	}
	return "unknown"
}

// Step is handed to the Renderer after every visible change of the board.
// Cells is a private copy and may be retained.
type Step struct {
	Kind     StepKind
	Cells    []Symbol
	Width    int
	Score    int
	Chain    int
	Swapped  Pair
	Groups   []Group
	Cleared  []int
	Points   int
	Falls    []Fall
	Refilled []int
}

// Cue is a named audio/visual event.
type Cue uint8

const (
	CueSwapAccepted Cue = iota
	CueSwapRejected
	CueMatchCleared
	CueGameOver
	CueRestart
)

func (c Cue) String() string {
	switch c {
	case CueSwapAccepted:
		return "swap_accepted"
	case CueSwapRejected:
		return "swap_rejected"
	case CueMatchCleared:
		return "match_cleared"
	case CueGameOver:
		return "game_over"
	case CueRestart:
		return "restart"
	}
	return "unknown"
}

// Renderer receives the board after every resolution stage.
type Renderer interface {
	OnStep(Step)
}

// CuePlayer plays fire-and-forget cues.
type CuePlayer interface {
	OnCue(Cue)
}

// Lifecycle is told when the board deadlocks.
type Lifecycle interface {
	OnGameOver(score int)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Step)

func (f RendererFunc) OnStep(s Step) { f(s) }

// CueFunc adapts a function to CuePlayer.
type CueFunc func(Cue)

func (f CueFunc) OnCue(c Cue) { f(c) }

// GameOverFunc adapts a function to Lifecycle.
type GameOverFunc func(score int)

func (f GameOverFunc) OnGameOver(score int) { f(score) }

// Observers bundles the engine's collaborators. Nil members are no-ops.
type Observers struct {
	Renderer  Renderer
	Cues      CuePlayer
	Lifecycle Lifecycle
}

// notify runs a collaborator callback. A panicking collaborator is logged
// and otherwise ignored so it cannot corrupt engine state.
func notify(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("match3: collaborator panicked", "callback", what, "panic", r)
		}
	}()
	fn()
}

func (o Observers) step(s Step) {
	if o.Renderer == nil {
		return
	}
	notify("render", func() { o.Renderer.OnStep(s) })
}

func (o Observers) cue(c Cue) {
	if o.Cues == nil {
		return
	}
	notify("cue "+c.String(), func() { o.Cues.OnCue(c) })
}

func (o Observers) gameOver(score int) {
	if o.Lifecycle == nil {
		return
	}
	notify("game over", func() { o.Lifecycle.OnGameOver(score) })
}
