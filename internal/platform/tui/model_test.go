package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikniq/nq-candyrush/internal/config"
	"github.com/nikniq/nq-candyrush/internal/core"
	"github.com/nikniq/nq-candyrush/internal/games/candy"
)

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: 30, Seed: 3}
}

func update[M tea.Model](t *testing.T, m M, msg tea.Msg) M {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(M)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func TestModelPauseAndBack(t *testing.T) {
	m := NewModel(candy.NewEndless(), nil, testRuntime(), Options{})
	m.Init()

	m = update(t, m, TickMsg{})
	if m.State().Paused {
		t.Fatal("new game should be running")
	}

	m = update(t, m, runeKey("b"))
	if m.BackToMenu() {
		t.Fatal("back must be ignored while playing")
	}

	m = update(t, m, runeKey("p"))
	m = update(t, m, TickMsg{})
	if !m.State().Paused {
		t.Fatal("p should pause")
	}

	m = update(t, m, runeKey("b"))
	if !m.BackToMenu() {
		t.Error("back while paused should return to the menu")
	}
	if m.IsQuitting() {
		t.Error("back is not quit")
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(candy.NewEndless(), nil, testRuntime(), Options{})
	m.Init()

	next, cmd := m.Update(runeKey("q"))
	if !next.(Model).IsQuitting() || cmd == nil {
		t.Error("q should quit the program")
	}
	if next.(Model).View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestModelViewShowsBoard(t *testing.T) {
	m := NewModel(candy.NewEndless(), nil, testRuntime(), Options{})
	m.Init()
	m = update(t, m, TickMsg{})

	if view := m.View(); !strings.Contains(view, "Score:") {
		t.Errorf("view lacks the HUD:\n%s", view)
	}
}

func TestCandyModeSelector(t *testing.T) {
	m := NewCandyModeModel(80, 24, candy.CampaignLevels(), config.DifficultyNormal)

	for range 3 {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if !strings.Contains(m.View(), "< hard >") {
		t.Fatalf("difficulty did not change:\n%s", m.View())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	sel := m.Selected()
	if sel == nil {
		t.Fatal("expected a selection")
	}
	if sel.GameID != "candy_endless" || sel.Preset != config.DifficultyHard {
		t.Errorf("selection = %+v", *sel)
	}

	game, err := sel.NewGame(config.DefaultCandyConfig())
	if err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}
	game.Reset(testRuntime())
	g := game.(*candy.Game)
	if got := g.Engine().Config().Symbols; got != config.SymbolsForPreset(config.DifficultyHard) {
		t.Errorf("symbols = %d, want the hard preset", got)
	}
}

func TestCandyModeSelectLevel(t *testing.T) {
	list := candy.CampaignLevels()
	m := NewCandyModeModel(80, 24, list, config.DifficultyNormal)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.View(), "SELECT LEVEL") {
		t.Fatal("level list should open")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	sel := m.Selected()
	if sel == nil || sel.GameID != "candy" || sel.Level != list[1].ID {
		t.Fatalf("selection = %+v", sel)
	}

	game, err := sel.NewGame(config.DefaultCandyConfig())
	if err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}
	game.Reset(testRuntime())
	if got := game.State().Level; got != list[1].ID {
		t.Errorf("started on %q, want %q", got, list[1].ID)
	}
}

func TestCandyModeBack(t *testing.T) {
	m := NewCandyModeModel(80, 24, nil, config.DifficultyNormal)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.WantsBack() || m.Selected() != nil {
		t.Error("esc should go back without a selection")
	}
}
