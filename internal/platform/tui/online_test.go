package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikniq/nq-candyrush/internal/config"
	"github.com/nikniq/nq-candyrush/internal/core"
	"github.com/nikniq/nq-candyrush/internal/games/candy"
	"github.com/nikniq/nq-candyrush/internal/multiplayer"
)

func TestLobbyJoinCodeEntry(t *testing.T) {
	m := NewOnlineLobbyModel("s1", nil, 80, 24)

	m = update(t, m, runeKey("j"))
	if m.State() != OnlineStateJoinEnterCode {
		t.Fatalf("state = %v, want code entry", m.State())
	}
	for _, k := range []string{"a", "b", "-", "1"} {
		m = update(t, m, runeKey(k))
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = update(t, m, runeKey("7"))

	if !strings.Contains(m.View(), "[ AB7_") {
		t.Errorf("code entry view:\n%s", m.View())
	}

	// Incomplete codes are not sent.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.State() != OnlineStateJoinEnterCode {
		t.Error("a short code must not connect")
	}
}

func TestLobbyEvents(t *testing.T) {
	m := NewOnlineLobbyModel("s1", nil, 80, 24)

	m = update(t, m, multiplayer.LobbyCreatedEvent{Code: "QWERTY", GameID: candy.VersusID})
	if m.State() != OnlineStateHostWaiting || m.LobbyCode() != "QWERTY" {
		t.Fatalf("state = %v, code = %q", m.State(), m.LobbyCode())
	}
	if !strings.Contains(m.View(), "QWERTY") {
		t.Error("host view should show the code")
	}

	m = update(t, m, multiplayer.MatchStartedEvent{MatchID: "m1", Side: core.Player1, Code: "QWERTY"})
	if m.State() != OnlineStateInMatch || m.MatchID() != "m1" || m.Side() != core.Player1 {
		t.Errorf("match not started: %+v", m)
	}
}

func TestLobbyClosedReturnsToChoice(t *testing.T) {
	m := NewOnlineLobbyModel("s1", nil, 80, 24)
	m = update(t, m, multiplayer.LobbyCreatedEvent{Code: "ABCDEF"})
	m = update(t, m, multiplayer.MatchEndedEvent{Reason: multiplayer.MatchEndReasonCancelled})

	if m.State() != OnlineStateChooseMode {
		t.Errorf("state = %v", m.State())
	}
	if !strings.Contains(m.View(), "Lobby closed") {
		t.Errorf("view:\n%s", m.View())
	}
}

func TestVersusModelRendersSnapshots(t *testing.T) {
	cfg := config.DefaultCandyConfig()
	v := candy.NewVersus(cfg)
	v.Reset(testRuntime())
	v.StepMulti(core.NewMultiInputFrame())

	m := NewVersusModel("m1", core.Player2, "s2", nil, testRuntime(), nil)
	if !strings.Contains(m.View(), "Waiting") {
		t.Error("view before the first snapshot should wait")
	}

	m = update(t, m, multiplayer.SnapshotEvent{MatchID: "other", Snapshot: v.Snapshot()})
	if !strings.Contains(m.View(), "Waiting") {
		t.Error("snapshots of other matches must be ignored")
	}

	m = update(t, m, multiplayer.SnapshotEvent{MatchID: "m1", Tick: 1, Snapshot: v.Snapshot()})
	if view := m.View(); !strings.Contains(view, "VERSUS") || !strings.Contains(view, "Opponent") {
		t.Errorf("view:\n%s", view)
	}

	m = update(t, m, multiplayer.MatchEndedEvent{MatchID: "m1", Winner: core.Player2, Score2: 30})
	if !m.Ended() {
		t.Fatal("match should be over")
	}
	if !strings.Contains(m.View(), "YOU WIN") {
		t.Errorf("view:\n%s", m.View())
	}

	m = update(t, m, runeKey("b"))
	if !m.BackToMenu() {
		t.Error("b after the match should go back")
	}
}
