package candy

import (
	"slices"
	"strings"
	"testing"

	"github.com/nikniq/nq-candyrush/internal/core"
	"github.com/nikniq/nq-candyrush/internal/games/candy/levels"
	"github.com/nikniq/nq-candyrush/internal/match3"
	"github.com/nikniq/nq-candyrush/internal/registry"
)

// swapBoard has exactly one interesting swap: 10 <-> 14 completes AAA on
// the bottom row. Swapping 0 <-> 1 matches nothing.
var swapBoard = []string{
	"BCDB",
	"CDBC",
	"DBAC",
	"AADB",
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 42}
}

func newCampaign(t *testing.T, list ...levels.Level) *Game {
	t.Helper()
	SetLevels(list)
	t.Cleanup(func() { SetLevels(nil) })

	g := New()
	g.Reset(testConfig())
	if err := g.Err(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	return g
}

// press steps one tick with the given actions held and returns the cues.
func press(g *Game, actions ...core.Action) []string {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in).Cues
}

// idle steps until the engine settles and returns all cues seen.
func idle(t *testing.T, g *Game) []string {
	t.Helper()
	var cues []string
	for range 600 {
		cues = append(cues, press(g)...)
		if !g.Engine().Busy() && g.board.rejectTicks == 0 && g.board.wait == 0 {
			return cues
		}
	}
	t.Fatal("engine did not settle")
	return nil
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"candy", "candy_endless"} {
		if !registry.Exists(id) {
			t.Errorf("%s not registered", id)
		}
	}
	g, err := registry.Create("candy_endless")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if g.Title() != "Candy Rush (Endless)" {
		t.Errorf("unexpected title %q", g.Title())
	}
}

func TestEndlessResetRollsPlayableBoard(t *testing.T) {
	g := NewEndless()
	g.Reset(testConfig())

	snap := g.Snapshot()
	if snap.State != StatePlaying {
		t.Fatalf("state = %s, want playing", snap.State)
	}
	if len(snap.Board) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(snap.Board))
	}
	grid := g.Engine().Grid()
	if match3.HasMatch(grid) {
		t.Error("fresh board must not contain a match")
	}
	if !match3.HasAvailableMove(grid) {
		t.Error("fresh board must have a move")
	}
}

func TestSwapResolvesWithPacing(t *testing.T) {
	g := newCampaign(t, levels.Level{ID: "t", Name: "T", Width: 4, Symbols: 4, Target: 100000, Board: swapBoard})

	if g.board.cursor != 10 {
		t.Fatalf("cursor starts at %d, want 10", g.board.cursor)
	}
	press(g, core.ActionSelect)
	press(g, core.ActionDown)
	cues := press(g, core.ActionSelect)

	if !slices.Contains(cues, "swap_accepted") {
		t.Fatalf("cues = %v, want swap_accepted", cues)
	}
	if !g.Engine().Busy() {
		t.Fatal("engine should be busy while the clear is shown")
	}
	if g.Snapshot().State != StateResolving {
		t.Errorf("state = %s, want resolving", g.Snapshot().State)
	}
	if got := g.Engine().PendingSet(); !slices.Equal(got, []int{12, 13, 14}) {
		t.Errorf("pending = %v, want [12 13 14]", got)
	}

	// The clear is held on screen for at least one tick.
	press(g)
	if g.Engine().Score() != 0 {
		t.Error("score must not change before the clear delay elapsed")
	}

	cues = idle(t, g)
	if !slices.Contains(cues, "match_cleared") {
		t.Errorf("cues = %v, want match_cleared", cues)
	}
	if g.State().Score < 30 {
		t.Errorf("score = %d, want at least 30", g.State().Score)
	}
	if g.State().Moves != 1 {
		t.Errorf("moves = %d, want 1", g.State().Moves)
	}
}

func TestRejectedSwapIsShownThenReverted(t *testing.T) {
	g := newCampaign(t, levels.Level{ID: "t", Name: "T", Width: 4, Symbols: 4, Target: 100000, Board: swapBoard})
	before := g.Engine().Grid()

	press(g, core.ActionUp)
	press(g, core.ActionUp)
	press(g, core.ActionLeft)
	press(g, core.ActionLeft)
	press(g, core.ActionSelect)
	press(g, core.ActionRight)
	cues := press(g, core.ActionSelect)

	if !slices.Contains(cues, "swap_rejected") {
		t.Fatalf("cues = %v, want swap_rejected", cues)
	}
	if !g.Engine().Grid().Equal(before) {
		t.Fatal("rejected swap changed the board")
	}

	cells, marks := g.board.view()
	if cells[0] != before.Get(1) || cells[1] != before.Get(0) {
		t.Error("rejected swap should be displayed swapped")
	}
	if marks[0] != markRejected || marks[1] != markRejected {
		t.Error("rejected cells should be marked")
	}

	idle(t, g)
	cells, _ = g.board.view()
	if !slices.Equal(cells, before.Cells()) {
		t.Error("display should revert after the reject delay")
	}
	if g.State().Moves != 0 {
		t.Errorf("rejected swap counted as a move")
	}
}

func TestSelectionGesture(t *testing.T) {
	g := newCampaign(t, levels.Level{ID: "t", Name: "T", Width: 4, Symbols: 4, Target: 100000, Board: swapBoard})

	press(g, core.ActionSelect)
	if g.board.selected != 10 {
		t.Fatalf("selected = %d, want 10", g.board.selected)
	}
	press(g, core.ActionSelect)
	if g.board.selected != noSelection {
		t.Fatal("selecting the same tile should deselect")
	}

	press(g, core.ActionSelect)
	press(g, core.ActionUp)
	press(g, core.ActionUp)
	press(g, core.ActionSelect)
	if g.board.selected != 2 {
		t.Fatalf("selecting a distant tile should move the selection, got %d", g.board.selected)
	}
	if g.Engine().Stats().Moves != 0 {
		t.Error("no swap should have been attempted")
	}
}

func TestCursorClampsToBoard(t *testing.T) {
	g := newCampaign(t, levels.Level{ID: "t", Name: "T", Width: 4, Symbols: 4, Target: 100000, Board: swapBoard})
	for range 10 {
		press(g, core.ActionRight)
	}
	for range 10 {
		press(g, core.ActionDown)
	}
	if g.board.cursor != 15 {
		t.Errorf("cursor = %d, want 15", g.board.cursor)
	}
}

func TestHintHighlightsLegalSwap(t *testing.T) {
	g := newCampaign(t, levels.Level{ID: "t", Name: "T", Width: 4, Symbols: 4, Target: 100000, Board: swapBoard})
	press(g, core.ActionHint)

	_, marks := g.board.view()
	var hinted []int
	for i, m := range marks {
		if m == markHint {
			hinted = append(hinted, i)
		}
	}
	if len(hinted) != 2 {
		t.Fatalf("expected two hinted cells, got %v", hinted)
	}
	grid := g.Engine().Grid()
	grid.Swap(hinted[0], hinted[1])
	if !match3.HasMatch(grid) {
		t.Errorf("hinted swap %v does not match", hinted)
	}
}

func TestLevelClearedAdvances(t *testing.T) {
	g := newCampaign(t,
		levels.Level{ID: "a", Name: "First", Width: 4, Symbols: 4, Target: 10, Board: swapBoard},
		levels.Level{ID: "b", Name: "Second", Width: 6, Symbols: 4, Target: 100000},
	)

	press(g, core.ActionSelect)
	press(g, core.ActionDown)
	press(g, core.ActionSelect)
	cues := idle(t, g)
	if !slices.Contains(cues, CueLevelCleared) {
		t.Fatalf("cues = %v, want %s", cues, CueLevelCleared)
	}
	st := g.State()
	if !st.Won || st.GameOver {
		t.Fatalf("state = %+v, want won and not over", st)
	}
	score := st.Score

	for range levelClearSeconds * 30 {
		press(g)
	}
	if g.State().Level != "b" {
		t.Fatalf("level = %q, want b", g.State().Level)
	}
	if g.Engine().Width() != 6 {
		t.Errorf("width = %d, want 6", g.Engine().Width())
	}
	if g.State().Score != score {
		t.Errorf("banked score = %d, want %d", g.State().Score, score)
	}
}

func TestMoveLimitEndsRun(t *testing.T) {
	g := newCampaign(t, levels.Level{ID: "t", Name: "T", Width: 4, Symbols: 4, Target: 100000, Moves: 1, Board: swapBoard})

	press(g, core.ActionSelect)
	press(g, core.ActionDown)
	press(g, core.ActionSelect)
	idle(t, g)

	if !g.State().GameOver {
		t.Fatal("run should be over after the last move")
	}
	snap := g.Snapshot()
	if snap.State != StateOutOfMoves && snap.State != StateGameOver {
		t.Errorf("state = %s", snap.State)
	}
	if snap.MovesLeft != 0 {
		t.Errorf("moves left = %d, want 0", snap.MovesLeft)
	}

	cues := press(g, core.ActionRestart)
	if g.State().GameOver {
		t.Fatalf("restart should replay the level, cues %v", cues)
	}
	if g.State().Score != 0 {
		t.Errorf("score after retry = %d", g.State().Score)
	}
}

func TestPendingBoardResolvesWithoutInput(t *testing.T) {
	g := New()
	g.Configure(nil, "03-candy-cascade")
	g.Reset(testConfig())
	if g.State().Level != "03-candy-cascade" {
		t.Fatalf("level = %q", g.State().Level)
	}

	var cues []string
	for range 300 {
		cues = append(cues, press(g)...)
	}
	if !slices.Contains(cues, "match_cleared") {
		t.Fatalf("cues = %v, want match_cleared", cues)
	}
	if g.State().Score == 0 {
		t.Error("pending match should have scored")
	}
	if match3.HasMatch(g.Engine().Grid()) && !g.Engine().Busy() {
		t.Error("idle board still holds a match")
	}
}

func TestEndlessRestartAfterDeadlock(t *testing.T) {
	g := NewEndless()
	g.Reset(testConfig())

	deadlocked := match3.MustParseGrid("ABCD", "CDAB", "ABCD", "CDAB")
	ec := g.Engine().Config()
	ec.Symbols = 4
	over := false
	b, err := newBoard(ec, deadlocked, pacingFor(g.cfg, 30), match3.GameOverFunc(func(int) { over = true }))
	if err != nil {
		t.Fatalf("newBoard() failed: %v", err)
	}
	g.board = b

	if !over || !g.State().GameOver {
		t.Fatal("deadlocked board should be game over")
	}
	if !slices.Contains(g.DrainCues(), "game_over") {
		t.Error("expected game_over cue")
	}

	cues := press(g, core.ActionRestart)
	if !slices.Contains(cues, "restart") {
		t.Errorf("cues = %v, want restart", cues)
	}
	if g.State().GameOver {
		t.Error("restart should clear game over")
	}
	if g.Engine().Width() != 4 {
		t.Errorf("restart should keep width 4, got %d", g.Engine().Width())
	}
}

func TestPauseFreezesBoard(t *testing.T) {
	g := newCampaign(t, levels.Level{ID: "t", Name: "T", Width: 4, Symbols: 4, Target: 100000, Board: swapBoard})
	press(g, core.ActionPause)
	press(g, core.ActionSelect)
	if g.board.selected != noSelection {
		t.Error("input should be ignored while paused")
	}
	if !g.State().Paused {
		t.Error("state should report paused")
	}
	press(g, core.ActionPause)
	press(g, core.ActionSelect)
	if g.board.selected != 10 {
		t.Error("input should work after unpausing")
	}
}

func TestTooSmallScreen(t *testing.T) {
	g := NewEndless()
	rc := testConfig()
	rc.ScreenW, rc.ScreenH = 20, 8
	g.Reset(rc)

	if g.Snapshot().State != StatePausedSmall {
		t.Errorf("state = %s, want paused_small_window", g.Snapshot().State)
	}
	screen := core.NewScreen(20, 8)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("expected resize hint")
	}
}

func TestRenderShowsHUDAndBoard(t *testing.T) {
	g := newCampaign(t, levels.Level{ID: "t", Name: "Tiny", Width: 4, Symbols: 4, Target: 500, Moves: 9, Board: swapBoard})
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	out := screen.String()
	for _, want := range []string{"CANDY RUSH", "Score: 0", "Goal: 500", "Moves: 9", "Level 1/1: Tiny"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
	if !strings.ContainsRune(out, '[') || !strings.ContainsRune(out, Glyph(1)) {
		t.Error("render should show the cursor and candies")
	}
}

func TestDeterministicReplay(t *testing.T) {
	run := func() Snapshot {
		g := NewEndless()
		g.Reset(testConfig())
		actions := []core.Action{core.ActionHint, core.ActionSelect, core.ActionRight, core.ActionSelect, core.ActionDown, core.ActionSelect, core.ActionUp, core.ActionSelect}
		for _, a := range actions {
			press(g, a)
			for range 20 {
				press(g)
			}
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if !slices.Equal(a.Board, b.Board) || a.Score != b.Score || a.Tick != b.Tick {
		t.Errorf("same seed and input diverged:\n%v\n%v", a, b)
	}
}
