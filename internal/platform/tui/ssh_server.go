package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/nikniq/nq-candyrush/internal/config"
	"github.com/nikniq/nq-candyrush/internal/core"
	"github.com/nikniq/nq-candyrush/internal/games/candy"
	"github.com/nikniq/nq-candyrush/internal/multiplayer"
	"github.com/nikniq/nq-candyrush/internal/storage"
)

// SSHServerConfig configures the SSH server.
type SSHServerConfig struct {
	// Address is host:port to listen on.
	Address string
	// HostKeyPath defaults to ~/.candyrush/host_key.
	HostKeyPath string
	IdleTimeout time.Duration
	TickRate    int
	// Muted disables the terminal bell for every session.
	Muted bool
	// Candy is the base game configuration for all sessions.
	Candy  config.CandyConfig
	Logger *log.Logger
}

// DefaultSSHServerConfig returns the default server settings.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		TickRate:    30,
		Candy:       config.DefaultCandyConfig(),
	}
}

// SSHServer serves the game over SSH and hosts online versus matches.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	logger      *log.Logger
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
}

// NewSSHServer creates the server. store may be nil.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "candyrush-ssh",
		})
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultSSHServerConfig().TickRate
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".candyrush", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	sessions := multiplayer.NewSessionRegistry()
	coordCfg := multiplayer.DefaultCoordinatorConfig()
	coordCfg.TickRate = cfg.TickRate
	coordCfg.Logger = logger.WithPrefix("coordinator")
	coordinator := multiplayer.NewCoordinator(coordCfg, candy.VersusFactory, sessions)
	if store != nil {
		coordinator.SetResultSaver(store)
	}

	srv := &SSHServer{
		config:      cfg,
		store:       store,
		logger:      logger,
		sessions:    sessions,
		coordinator: coordinator,
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	srv.server = server
	return srv, nil
}

// teaHandler creates the program of one SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
	}

	ch := multiplayer.NewChannelSession(multiplayer.NewSessionID(), 0)
	s.sessions.Register(ch)
	go func() {
		<-sess.Context().Done()
		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: ch.ID()})
		s.sessions.Unregister(ch.ID())
		ch.Close()
	}()

	logger := s.logger.With("user", sess.User(), "session", ch.ID().Short())
	model := NewSessionModel(SessionOptions{
		Store:       s.store,
		Config:      cfg,
		Candy:       s.config.Candy,
		Session:     ch,
		Coordinator: s.coordinator,
		Cues:        NewCueSink(sess, s.config.Muted, logger),
		Logger:      logger,
	})
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started", "user", sess.User(), "remote", sess.RemoteAddr().String())
		next(sess)
		s.logger.Info("session ended", "user", sess.User(), "remote", sess.RemoteAddr().String())
	}
}

// ListenAndServe serves until SIGINT or SIGTERM, then shuts down.
func (s *SSHServer) ListenAndServe() error {
	s.coordinator.Start()
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-done:
		s.logger.Info("shutting down...")
		return s.Shutdown()
	case err := <-errc:
		s.coordinator.Stop()
		return fmt.Errorf("ssh server: %w", err)
	}
}

// Shutdown stops the server and the coordinator.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.coordinator.Stop()
	return err
}

// Addr returns the listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionScreen is the screen a session is on.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenModes
	screenGame
	screenScores
	screenLobby
	screenVersus
)

// SessionOptions are the collaborators of a SessionModel.
type SessionOptions struct {
	Store       *storage.Store
	Config      core.RuntimeConfig
	Candy       config.CandyConfig
	Session     *multiplayer.ChannelSession
	Coordinator *multiplayer.Coordinator
	Cues        *CueSink
	Logger      *log.Logger
}

// SessionModel is the top-level model of an SSH session:
// menu, mode selector, game, scoreboard and the online flow.
type SessionModel struct {
	opts     SessionOptions
	config   core.RuntimeConfig
	screen   sessionScreen
	menu     MenuModel
	modes    CandyModeModel
	game     Model
	scores   ScoreboardModel
	lobby    OnlineLobbyModel
	versus   VersusModel
	quitting bool
}

// NewSessionModel creates a session starting at the main menu.
func NewSessionModel(opts SessionOptions) SessionModel {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return SessionModel{
		opts:   opts,
		config: opts.Config,
		menu:   NewMenuModel(opts.Store, opts.Config, opts.Coordinator != nil),
	}
}

func (m SessionModel) events() <-chan multiplayer.SessionEvent {
	if m.opts.Session == nil {
		return nil
	}
	return m.opts.Session.Events()
}

// Init starts the event pump of the session.
func (m SessionModel) Init() tea.Cmd {
	return waitForEvent(m.events())
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if evt, ok := msg.(multiplayer.SessionEvent); ok {
		next, cmd := m.handleEvent(evt)
		return next, tea.Batch(cmd, waitForEvent(next.events()))
	}

	switch m.screen {
	case screenModes:
		return m.updateModes(msg)
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	case screenLobby:
		return m.updateLobby(msg)
	case screenVersus:
		return m.updateVersus(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) handleEvent(evt multiplayer.SessionEvent) (SessionModel, tea.Cmd) {
	switch m.screen {
	case screenLobby:
		next, _ := m.lobby.Update(evt)
		m.lobby = next.(OnlineLobbyModel)
		if m.lobby.State() == OnlineStateInMatch {
			m.opts.Logger.Info("match started", "match", m.lobby.MatchID().Short(), "side", m.lobby.Side())
			m.versus = NewVersusModel(m.lobby.MatchID(), m.lobby.Side(), m.opts.Session.ID(),
				m.opts.Coordinator, m.config, m.opts.Cues)
			m.screen = screenVersus
		}
	case screenVersus:
		next, _ := m.versus.Update(evt)
		m.versus = next.(VersusModel)
	}
	return m, nil
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.opts.Store, m.config, m.opts.Coordinator != nil)
	return m, nil
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	if m.menu.IsQuitting() {
		return m.quit()
	}
	item := m.menu.Selected()
	if item == nil {
		return m, cmd
	}

	switch item.Kind {
	case MenuItemGame:
		m.modes = NewCandyModeModel(m.config.ScreenW, m.config.ScreenH, candy.CampaignLevels(), m.opts.Candy.Difficulty)
		m.screen = screenModes
	case MenuItemOnline:
		m.lobby = NewOnlineLobbyModel(m.opts.Session.ID(), m.opts.Coordinator, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenLobby
	case MenuItemScores:
		m.scores = NewScoreboardModel(m.opts.Store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenScores
	}
	return m, nil
}

func (m SessionModel) updateModes(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.modes.Update(msg)
	m.modes = next.(CandyModeModel)

	switch {
	case m.modes.IsQuitting():
		return m.quit()
	case m.modes.WantsBack():
		return m.toMenu()
	}
	sel := m.modes.Selected()
	if sel == nil {
		return m, cmd
	}

	game, err := sel.NewGame(m.opts.Candy)
	if err != nil {
		m.opts.Logger.Error("cannot create game", "game", sel.GameID, "err", err)
		return m.toMenu()
	}
	cfg := m.config
	cfg.Seed = time.Now().UnixNano()
	m.game = NewModel(game, m.opts.Store, cfg, Options{Cues: m.opts.Cues, Logger: m.opts.Logger})
	m.screen = screenGame
	return m, m.game.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	m.game = next.(Model)

	switch {
	case m.game.IsQuitting():
		return m.quit()
	case m.game.BackToMenu():
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	m.scores = next.(ScoreboardModel)

	switch {
	case m.scores.IsQuitting():
		return m.quit()
	case m.scores.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.lobby.Update(msg)
	m.lobby = next.(OnlineLobbyModel)

	switch {
	case m.lobby.IsQuitting():
		return m.quit()
	case m.lobby.BackToMenu():
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateVersus(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.versus.Update(msg)
	m.versus = next.(VersusModel)

	switch {
	case m.versus.IsQuitting():
		return m.quit()
	case m.versus.BackToMenu():
		return m.toMenu()
	}
	return m, cmd
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenModes:
		return m.modes.View()
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	case screenLobby:
		return m.lobby.View()
	case screenVersus:
		return m.versus.View()
	}
	return m.menu.View()
}
