package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikniq/nq-candyrush/internal/config"
	"github.com/nikniq/nq-candyrush/internal/core"
	"github.com/nikniq/nq-candyrush/internal/games/candy"
	"github.com/nikniq/nq-candyrush/internal/games/candy/levels"
	"github.com/nikniq/nq-candyrush/internal/registry"
)

// Mode selector rows.
const (
	rowCampaign = iota
	rowEndless
	rowSelectLevel
	rowDifficulty
	rowCount
)

// CandySelection holds what the user picked in the mode selector.
type CandySelection struct {
	GameID string
	// Level is the campaign level id to start from, empty for the first.
	Level  string
	Preset config.DifficultyPreset
}

// CandyModeModel lets users choose a mode, a start level and a difficulty.
type CandyModeModel struct {
	levels        []levels.Level
	cursor        int
	levelCursor   int
	inLevelSelect bool
	preset        int
	width         int
	height        int
	keyMapper     *KeyMapper
	selection     *CandySelection
	quitting      bool
	back          bool
}

// NewCandyModeModel creates the mode selector for the given campaign.
func NewCandyModeModel(width, height int, campaign []levels.Level, preset config.DifficultyPreset) CandyModeModel {
	return CandyModeModel{
		levels:    campaign,
		preset:    max(0, slices.Index(config.Presets, preset)),
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init implements tea.Model.
func (m CandyModeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m CandyModeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action := m.keyMapper.MapKeyToMenuAction(msg)
		if action == MenuActionQuit {
			m.quitting = true
			return m, tea.Quit
		}
		if m.inLevelSelect {
			return m.handleLevelKey(action)
		}
		return m.handleModeKey(action)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m CandyModeModel) handleModeKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < rowCount-1 {
			m.cursor++
		}
	case MenuActionLeft:
		if m.cursor == rowDifficulty {
			m.preset = (m.preset + len(config.Presets) - 1) % len(config.Presets)
		}
	case MenuActionRight:
		if m.cursor == rowDifficulty {
			m.preset = (m.preset + 1) % len(config.Presets)
		}
	case MenuActionSelect:
		switch m.cursor {
		case rowCampaign:
			return m.choose("candy", "")
		case rowEndless:
			return m.choose("candy_endless", "")
		case rowSelectLevel:
			if len(m.levels) > 0 {
				m.inLevelSelect = true
				m.levelCursor = 0
			}
		case rowDifficulty:
			m.preset = (m.preset + 1) % len(config.Presets)
		}
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}
	return m, nil
}

func (m CandyModeModel) handleLevelKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionUp:
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case MenuActionDown:
		if m.levelCursor < len(m.levels)-1 {
			m.levelCursor++
		}
	case MenuActionSelect:
		return m.choose("candy", m.levels[m.levelCursor].ID)
	case MenuActionBack:
		m.inLevelSelect = false
	}
	return m, nil
}

func (m CandyModeModel) choose(gameID, level string) (tea.Model, tea.Cmd) {
	m.selection = &CandySelection{
		GameID: gameID,
		Level:  level,
		Preset: config.Presets[m.preset],
	}
	return m, tea.Quit
}

// View renders the selector.
func (m CandyModeModel) View() string {
	if m.quitting {
		return ""
	}
	if m.inLevelSelect {
		return m.viewLevels()
	}

	rows := []string{
		fmt.Sprintf("Campaign (%d levels)", len(m.levels)),
		"Endless",
		"Select Level...",
		fmt.Sprintf("Difficulty: < %s >", config.Presets[m.preset]),
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("CANDY RUSH"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select game mode:", m.width))
	b.WriteString("\n\n")
	for i, row := range rows {
		line := "  " + row
		if i == m.cursor {
			line = selectedStyle.Render("> " + row)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render("Enter: Select  |  Left/Right: Difficulty  |  Esc: Back"), m.width))
	return b.String()
}

func (m CandyModeModel) viewLevels() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("SELECT LEVEL"), m.width))
	b.WriteString("\n\n")
	for i, lvl := range m.levels {
		moves := "unlimited"
		if lvl.Moves > 0 {
			moves = fmt.Sprintf("%d moves", lvl.Moves)
		}
		row := fmt.Sprintf("%2d. %s (Goal: %d, %s)", i+1, lvl.Name, lvl.Target, moves)
		line := "  " + row
		if i == m.levelCursor {
			line = selectedStyle.Render("> " + row)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render("Enter: Select  |  Esc: Back  |  Q: Quit"), m.width))
	return b.String()
}

// Selected returns the selection, or nil while choosing.
func (m CandyModeModel) Selected() *CandySelection {
	return m.selection
}

// IsQuitting reports whether the user quit.
func (m CandyModeModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack reports whether the user went back to the main menu.
func (m CandyModeModel) WantsBack() bool {
	return m.back
}

// NewGame creates the selected game with the preset applied on top of base.
func (s CandySelection) NewGame(base config.CandyConfig) (registry.Game, error) {
	game, err := registry.Create(s.GameID)
	if err != nil {
		return nil, err
	}
	if g, ok := game.(*candy.Game); ok {
		cfg := base
		config.ApplyPreset(&cfg, s.Preset)
		g.Configure(&cfg, s.Level)
	}
	return game, nil
}

// RunCandyModeSelector runs the selector in the local terminal.
// A nil selection means the user went back or quit.
func RunCandyModeSelector(cfg core.RuntimeConfig) (*CandySelection, bool, error) {
	model := NewCandyModeModel(cfg.ScreenW, cfg.ScreenH, candy.CampaignLevels(), candy.ActiveConfig().Difficulty)
	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return nil, false, err
	}
	m, ok := final.(CandyModeModel)
	if !ok {
		return nil, true, nil
	}
	return m.Selected(), m.IsQuitting(), nil
}
