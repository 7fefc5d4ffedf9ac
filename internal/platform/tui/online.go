package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikniq/nq-candyrush/internal/core"
	"github.com/nikniq/nq-candyrush/internal/games/candy"
	"github.com/nikniq/nq-candyrush/internal/multiplayer"
)

// joinCodeLen is the length of lobby join codes.
const joinCodeLen = 6

// OnlineState is a step of the lobby flow.
type OnlineState int

const (
	OnlineStateChooseMode OnlineState = iota
	OnlineStateHostWaiting
	OnlineStateJoinEnterCode
	OnlineStateJoinWaiting
	OnlineStateInMatch
)

// waitForEvent reads the next coordinator event for a session.
// Exactly one read should be outstanding per session.
func waitForEvent(events <-chan multiplayer.SessionEvent) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return nil
		}
		return evt
	}
}

// OnlineLobbyModel hosts or joins a versus lobby. It does not read events
// itself; its parent feeds them through Update.
type OnlineLobbyModel struct {
	state       OnlineState
	width       int
	height      int
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator

	lobbyCode     string
	joinCodeInput string
	lobbyError    string
	notice        string

	matchID multiplayer.MatchID
	side    core.PlayerID

	backToMenu bool
	quitting   bool
}

// NewOnlineLobbyModel creates the lobby flow for a session.
func NewOnlineLobbyModel(sessionID multiplayer.SessionID, coordinator *multiplayer.Coordinator, width, height int) OnlineLobbyModel {
	return OnlineLobbyModel{
		width:       width,
		height:      height,
		sessionID:   sessionID,
		coordinator: coordinator,
	}
}

// Init implements tea.Model.
func (m OnlineLobbyModel) Init() tea.Cmd {
	return nil
}

// Update handles keys and coordinator events.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.lobbyError = ""
		m.state = OnlineStateHostWaiting
	case multiplayer.LobbyJoinedEvent:
		m.side = msg.Side
		m.notice = "Opponent found!"
	case multiplayer.LobbyErrorEvent:
		m.lobbyError = msg.Message
		if m.state == OnlineStateJoinWaiting {
			m.state = OnlineStateJoinEnterCode
		}
	case multiplayer.LobbyPlayerLeftEvent:
		m.notice = "Opponent left, waiting again..."
	case multiplayer.MatchStartedEvent:
		m.matchID = msg.MatchID
		m.side = msg.Side
		m.state = OnlineStateInMatch
	case multiplayer.MatchEndedEvent:
		// The lobby was closed before play began.
		if m.state != OnlineStateInMatch {
			m.state = OnlineStateChooseMode
			m.lobbyError = "Lobby closed (" + msg.Reason.String() + ")"
		}
	}
	return m, nil
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		switch msg.String() {
		case "h", "H", "1":
			m.coordinator.Send(multiplayer.CreateLobbyMsg{SessionID: m.sessionID, GameID: candy.VersusID})
		case "j", "J", "2":
			m.state = OnlineStateJoinEnterCode
			m.joinCodeInput = ""
			m.lobbyError = ""
		case "esc", "b":
			m.backToMenu = true
		case "q":
			m.quitting = true
			return m, tea.Quit
		}

	case OnlineStateHostWaiting:
		switch msg.String() {
		case "esc", "b":
			m.leave()
			m.backToMenu = true
		case "q":
			m.leave()
			m.quitting = true
			return m, tea.Quit
		}

	case OnlineStateJoinEnterCode:
		m.handleCodeKey(msg.String())

	case OnlineStateJoinWaiting:
		if k := msg.String(); k == "esc" || k == "b" {
			m.leave()
			m.state = OnlineStateJoinEnterCode
		}
	}
	return m, nil
}

func (m *OnlineLobbyModel) handleCodeKey(k string) {
	switch k {
	case "esc":
		m.state = OnlineStateChooseMode
	case "enter":
		if len(m.joinCodeInput) == joinCodeLen {
			m.state = OnlineStateJoinWaiting
			m.lobbyError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{SessionID: m.sessionID, Code: m.joinCodeInput})
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		if len(k) != 1 || len(m.joinCodeInput) >= joinCodeLen {
			return
		}
		c := strings.ToUpper(k)[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			m.joinCodeInput += string(c)
		}
	}
}

// leave closes or leaves the current lobby, if any.
func (m *OnlineLobbyModel) leave() {
	code := m.lobbyCode
	if m.state == OnlineStateJoinWaiting {
		code = m.joinCodeInput
	}
	if code == "" || m.state == OnlineStateChooseMode {
		return
	}
	m.coordinator.Send(multiplayer.LeaveLobbyMsg{SessionID: m.sessionID, Code: code})
}

// View renders the current step.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	var lines []string
	switch m.state {
	case OnlineStateChooseMode:
		lines = []string{
			titleStyle.Render("CANDY RUSH VERSUS"), "",
			"Race an opponent on the same board.", "",
			"[H] Host a game",
			"[J] Join a game",
		}
		lines = append(lines, m.errorLines()...)
		lines = append(lines, "", dimStyle.Render("Esc: Back  |  Q: Quit"))
	case OnlineStateHostWaiting:
		lines = []string{
			titleStyle.Render("HOSTING GAME"), "",
			"Share this code with your opponent:", "",
			selectedStyle.Render(fmt.Sprintf("[ %s ]", m.lobbyCode)), "",
			"Waiting for player to join...",
		}
		if m.notice != "" {
			lines = append(lines, m.notice)
		}
		lines = append(lines, "", dimStyle.Render("Esc: Cancel  |  Q: Quit"))
	case OnlineStateJoinEnterCode:
		code := m.joinCodeInput
		if len(code) < joinCodeLen {
			code += "_" + strings.Repeat(" ", joinCodeLen-1-len(code))
		}
		lines = []string{
			titleStyle.Render("JOIN GAME"), "",
			"Enter the game code:", "",
			fmt.Sprintf("[ %s ]", code),
		}
		lines = append(lines, m.errorLines()...)
		lines = append(lines, "", dimStyle.Render("Enter: Connect  |  Esc: Back"))
	case OnlineStateJoinWaiting:
		lines = []string{
			titleStyle.Render("CONNECTING"), "",
			"Joining game: " + m.joinCodeInput, "",
			"Please wait...", "",
			dimStyle.Render("Esc: Cancel"),
		}
	case OnlineStateInMatch:
		lines = []string{titleStyle.Render("MATCH STARTING"), "", "You are " + m.side.String(), "", "Get ready!"}
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, line := range lines {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m OnlineLobbyModel) errorLines() []string {
	if m.lobbyError == "" {
		return nil
	}
	return []string{"", "Error: " + m.lobbyError}
}

// State returns the current step.
func (m OnlineLobbyModel) State() OnlineState {
	return m.state
}

// BackToMenu reports whether the user went back to the menu.
func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting reports whether the user quit.
func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// MatchID returns the started match, if any.
func (m OnlineLobbyModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Side returns the player slot of this session.
func (m OnlineLobbyModel) Side() core.PlayerID {
	return m.side
}

// LobbyCode returns the hosted lobby code.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}

// VersusModel plays a running match: keys go to the coordinator and the
// screen is redrawn from the match snapshots.
type VersusModel struct {
	matchID     multiplayer.MatchID
	side        core.PlayerID
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator
	tickRate    int
	screen      *core.Screen
	keyMapper   *KeyMapper
	cues        *CueSink

	snap  *candy.VersusSnapshot
	ended *multiplayer.MatchEndedEvent

	backToMenu bool
	quitting   bool
}

// NewVersusModel creates the view of a started match.
func NewVersusModel(
	matchID multiplayer.MatchID,
	side core.PlayerID,
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	cfg core.RuntimeConfig,
	cues *CueSink,
) VersusModel {
	return VersusModel{
		matchID:     matchID,
		side:        side,
		sessionID:   sessionID,
		coordinator: coordinator,
		tickRate:    cfg.TickRate,
		screen:      core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		keyMapper:   NewKeyMapper(),
		cues:        cues,
	}
}

// Init implements tea.Model.
func (m VersusModel) Init() tea.Cmd {
	return nil
}

// Update handles keys and match events.
func (m VersusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
	case multiplayer.SnapshotEvent:
		if msg.MatchID != m.matchID {
			return m, nil
		}
		if snap, ok := msg.Snapshot.(candy.VersusSnapshot); ok {
			m.snap = &snap
		}
	case multiplayer.MatchEndedEvent:
		if msg.MatchID == m.matchID {
			m.ended = &msg
			m.cues.Play([]string{"game_over"})
		}
	}
	return m, nil
}

func (m VersusModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	frame := core.NewInputFrame()
	if m.keyMapper.MapKeyToFrame(msg, &frame) {
		m.forfeit()
		m.quitting = true
		return m, tea.Quit
	}

	if frame.Has(core.ActionBack) {
		m.forfeit()
		m.backToMenu = true
		return m, nil
	}

	if m.ended == nil && !frame.Empty() {
		m.coordinator.Send(multiplayer.PlayerInputMsg{
			MatchID: m.matchID,
			Player:  m.side,
			Input:   frame,
		})
	}
	return m, nil
}

// forfeit leaves a match that is still running.
func (m *VersusModel) forfeit() {
	if m.ended != nil {
		return
	}
	m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
}

// View renders the latest snapshot.
func (m VersusModel) View() string {
	if m.quitting {
		return ""
	}
	m.screen.Clear()
	if m.snap == nil {
		m.screen.DrawTextCentered(m.screen.Height()/2, "Waiting for the first frame...")
		return RenderScreen(m.screen)
	}

	snap := *m.snap
	if m.ended != nil {
		snap.GameOver = true
		snap.Winner = int(m.ended.Winner)
	}
	candy.RenderVersus(m.screen, snap, m.side, m.tickRate)
	if m.ended != nil && m.ended.Reason != multiplayer.MatchEndReasonCompleted {
		m.screen.DrawTextCentered(m.screen.Height()-1, "Match ended: "+m.ended.Reason.String())
	}
	return RenderScreen(m.screen)
}

// Ended reports whether the match is over.
func (m VersusModel) Ended() bool {
	return m.ended != nil
}

// BackToMenu reports whether the user went back to the menu.
func (m VersusModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting reports whether the user quit.
func (m VersusModel) IsQuitting() bool {
	return m.quitting
}
