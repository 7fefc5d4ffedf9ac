package candy

// StateType is the coarse state reported in a snapshot.
type StateType string

const (
	StatePlaying      StateType = "playing"
	StateResolving    StateType = "resolving"
	StateLevelCleared StateType = "level_cleared"
	StateOutOfMoves   StateType = "out_of_moves"
	StateGameOver     StateType = "game_over"
	StateWin          StateType = "win"
	StatePausedSmall  StateType = "paused_small_window"
)

// Snapshot captures the game state for determinism tests and replay.
type Snapshot struct {
	Tick      uint64
	Mode      string // "campaign" or "endless"
	Level     string // level id, empty in endless mode
	Target    int
	MovesLeft int // -1 when unlimited
	Score     int
	Board     []string
	Cursor    int
	Selected  int // -1 when nothing is selected
	Phase     string
	State     StateType
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:      g.tick,
		Mode:      string(g.mode),
		MovesLeft: -1,
		Score:     g.State().Score,
	}
	if g.board == nil {
		snap.State = StateGameOver
		return snap
	}

	e := g.board.engine
	snap.Board = e.Grid().Rows()
	snap.Cursor = g.board.cursor
	snap.Selected = g.board.selected
	snap.Phase = e.Phase().String()
	if lvl := g.level(); lvl != nil {
		snap.Level = lvl.ID
		snap.Target = lvl.Target
		if lvl.Moves > 0 {
			snap.MovesLeft = max(0, lvl.Moves-e.Stats().Moves)
		}
	}

	switch {
	case g.tooSmall:
		snap.State = StatePausedSmall
	case g.won:
		snap.State = StateWin
	case g.levelCleared:
		snap.State = StateLevelCleared
	case g.outOfMoves:
		snap.State = StateOutOfMoves
	case e.GameOver():
		snap.State = StateGameOver
	case e.Busy():
		snap.State = StateResolving
	default:
		snap.State = StatePlaying
	}
	return snap
}
