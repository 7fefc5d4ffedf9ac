package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikniq/nq-candyrush/internal/games/candy"
	"github.com/nikniq/nq-candyrush/internal/storage"
)

const (
	minWidthForSidebar = 84
	sidebarWidth       = 18
	maxScores          = 100
)

// scoreTab is one page of the scoreboard.
type scoreTab struct {
	title  string
	gameID string // empty for the versus history
}

var scoreTabs = []scoreTab{
	{title: "Campaign", gameID: "candy"},
	{title: "Endless", gameID: "candy_endless"},
	{title: "Versus"},
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp implements help.KeyMap.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.PrevTab, k.Back}
}

// FullHelp implements help.KeyMap.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns the default bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		NextTab: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/right", "next board")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab/left", "prev board")),
		Back:    key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows the stored runs and versus results.
type ScoreboardModel struct {
	tab         int
	store       *storage.Store
	rows        []table.Row
	stats       string
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewScoreboardModel creates the scoreboard.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:       store,
		keys:        DefaultScoreboardKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.load()
	return m
}

func (m *ScoreboardModel) columns() []table.Column {
	if scoreTabs[m.tab].gameID == "" {
		return []table.Column{
			{Title: "You", Width: 8},
			{Title: "Score", Width: 14},
			{Title: "End", Width: 11},
			{Title: "Time", Width: 6},
			{Title: "Date", Width: 13},
		}
	}
	return []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Score", Width: 8},
		{Title: "Level", Width: 18},
		{Title: "Moves", Width: 6},
		{Title: "Chain", Width: 6},
		{Title: "Date", Width: 13},
	}
}

func (m *ScoreboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load reads the rows of the current tab.
func (m *ScoreboardModel) load() {
	m.rows, m.stats = nil, ""
	if m.store != nil {
		if id := scoreTabs[m.tab].gameID; id != "" {
			m.loadRuns(id)
		} else {
			m.loadMatches()
		}
	}
	m.table = m.createTable()
	m.table.SetRows(m.rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) loadRuns(gameID string) {
	runs, err := m.store.TopScores(gameID, maxScores)
	if err != nil {
		return
	}
	names := levelNames()
	for i, r := range runs {
		level := "-"
		if r.Level != "" {
			level = r.Level
			if name, ok := names[r.Level]; ok {
				level = name
			}
		}
		m.rows = append(m.rows, table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", r.Score),
			level,
			fmt.Sprintf("%d", r.Moves),
			fmt.Sprintf("x%d", r.BestChain),
			r.CreatedAt.Format("Jan 02 15:04"),
		})
	}

	if st, err := m.store.GetGameStats(gameID); err == nil && st != nil && st.GamesCount > 0 {
		m.stats = fmt.Sprintf("%d games  |  best %d  |  avg %.0f  |  longest chain x%d",
			st.GamesCount, st.HighScore, st.AvgScore, st.BestChain)
	}
}

func (m *ScoreboardModel) loadMatches() {
	matches, err := m.store.RecentOnlineMatches(maxScores)
	if err != nil {
		return
	}
	for _, r := range matches {
		winner := "draw"
		switch {
		case r.WinnerSession == "":
		case r.WinnerSession == r.Player1Session:
			winner = "P1 won"
		default:
			winner = "P2 won"
		}
		m.rows = append(m.rows, table.Row{
			winner,
			fmt.Sprintf("%d - %d", r.Score1, r.Score2),
			r.EndReason,
			fmt.Sprintf("%d:%02d", r.Duration/60, r.Duration%60),
			r.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	if len(matches) > 0 {
		m.stats = fmt.Sprintf("%d recent matches", len(matches))
	}
}

// levelNames maps campaign level ids to display names.
func levelNames() map[string]string {
	names := make(map[string]string)
	for _, lvl := range candy.CampaignLevels() {
		names[lvl.ID] = lvl.Name
	}
	return names
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % len(scoreTabs)
			m.load()
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.tab = (m.tab + len(scoreTabs) - 1) % len(scoreTabs)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.help.Width = msg.Width
		m.load()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	title := "HIGH SCORES - " + scoreTabs[m.tab].title
	b.WriteString(centerText(selectedStyle.Render(title), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	if m.stats != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.stats, m.width))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

func (m ScoreboardModel) renderWideLayout() string {
	var side strings.Builder
	side.WriteString("Boards\n")
	side.WriteString(strings.Repeat("-", sidebarWidth-4))
	side.WriteString("\n")
	for i, tab := range scoreTabs {
		if i == m.tab {
			side.WriteString(selectedStyle.Render("> " + tab.title))
		} else {
			side.WriteString("  " + tab.title)
		}
		side.WriteString("\n")
	}

	sidebar := boxStyle.Width(sidebarWidth).Render(side.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", boxStyle.Render(m.renderTableContent()))
}

func (m ScoreboardModel) renderNarrowLayout() string {
	activeTab := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(scoreTabs))
	for i, tab := range scoreTabs {
		if i == m.tab {
			tabs[i] = activeTab.Render(tab.title)
		} else {
			tabs[i] = dimStyle.Render(" " + tab.title + " ")
		}
	}

	var b strings.Builder
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(boxStyle.Render(m.renderTableContent()), m.width))
	return b.String()
}

func (m ScoreboardModel) renderTableContent() string {
	if len(m.rows) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		if scoreTabs[m.tab].gameID == "" {
			return empty.Render("No versus matches yet.")
		}
		return empty.Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

// IsGoingBack reports whether the user went back to the menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the user quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard in the local terminal.
// It reports whether the user wants the menu back.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
