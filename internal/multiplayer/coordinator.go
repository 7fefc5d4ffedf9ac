package multiplayer

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nikniq/nq-candyrush/internal/core"
)

// Lobby is a join code waiting for its second player.
type Lobby struct {
	Code      string
	GameID    string
	Host      SessionHandle
	Joiner    SessionHandle
	CreatedAt time.Time
}

// CoordinatorConfig tunes the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // an unjoined lobby expires after this
	TickRate      int           // match ticks per second
	CleanupPeriod time.Duration
	Logger        *log.Logger // nil uses the default logger
}

// DefaultCoordinatorConfig returns 2 minute lobbies and 30 ticks per second.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		TickRate:      30,
		CleanupPeriod: 30 * time.Second,
	}
}

// GameFactory creates the game for a new match.
type GameFactory func(gameID string, cfg core.RuntimeConfig) (OnlineGame, error)

// MatchResultSaver persists finished matches.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData is the persisted form of a MatchResult.
type MatchResultData struct {
	MatchID        string
	GameID         string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	WinnerSession  string
	EndReason      string
	DurationSecs   int
}

// Coordinator owns lobbies and running matches. Messages are processed on
// a single goroutine started by Start.
type Coordinator struct {
	cfg      CoordinatorConfig
	factory  GameFactory
	sessions *SessionRegistry
	saver    MatchResultSaver
	logger   *log.Logger

	mu           sync.RWMutex
	lobbies      map[string]*Lobby
	matches      map[MatchID]*OnlineMatch
	sessionLobby map[SessionID]string
	sessionMatch map[SessionID]MatchID

	msgs     chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewCoordinator creates a coordinator.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default().WithPrefix("coordinator")
	}
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = 30 * time.Second
	}
	return &Coordinator{
		cfg:          cfg,
		factory:      factory,
		sessions:     sessions,
		logger:       logger,
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgs:         make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets where finished matches are stored.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.saver = saver
}

// Start launches message processing and lobby cleanup.
func (c *Coordinator) Start() {
	c.wg.Add(2)
	go c.loop()
	go c.cleanupLoop()
}

// Stop halts the coordinator and every running match.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.mu.RLock()
		for _, m := range c.matches {
			m.Stop()
		}
		c.mu.RUnlock()
	})
	c.wg.Wait()
}

// Send queues a message. It blocks only while the queue is full.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgs <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) loop() {
	defer c.wg.Done()
	for {
		select {
		case msg := <-c.msgs:
			c.handle(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handle(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.createLobby(m)
	case JoinLobbyMsg:
		c.joinLobby(m)
	case LeaveLobbyMsg:
		c.leaveLobby(m.SessionID, strings.ToUpper(m.Code))
	case LeaveMatchMsg:
		c.leaveMatch(m)
	case PlayerInputMsg:
		c.forwardInput(m)
	case SessionDisconnectedMsg:
		c.disconnect(m.SessionID)
	}
}

func (c *Coordinator) createLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby or match"})
		return
	}

	code := c.uniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		GameID:    msg.GameID,
		Host:      session,
		CreatedAt: time.Now(),
	}
	c.sessionLobby[msg.SessionID] = code
	c.logger.Info("lobby created", "code", code, "game", msg.GameID, "host", msg.SessionID.Short())

	session.Send(LobbyCreatedEvent{Code: code, GameID: msg.GameID})
}

func (c *Coordinator) joinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby or match"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, ok := c.lobbies[code]
	switch {
	case !ok:
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	case lobby.Joiner != nil:
		session.Send(LobbyErrorEvent{Message: "Lobby is full"})
		return
	case lobby.Host.ID() == msg.SessionID:
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}

	lobby.Joiner = session
	lobby.Host.Send(LobbyJoinedEvent{Code: code, Side: Player1, OpponentID: msg.SessionID})
	session.Send(LobbyJoinedEvent{Code: code, Side: Player2, OpponentID: lobby.Host.ID()})

	c.startMatch(lobby)
}

// busy reports whether a session already sits in a lobby or match.
// Caller holds c.mu.
func (c *Coordinator) busy(id SessionID) bool {
	_, inLobby := c.sessionLobby[id]
	_, inMatch := c.sessionMatch[id]
	return inLobby || inMatch
}

// startMatch turns a full lobby into a running match. Caller holds c.mu.
func (c *Coordinator) startMatch(lobby *Lobby) {
	host, joiner := lobby.Host, lobby.Joiner
	delete(c.lobbies, lobby.Code)
	delete(c.sessionLobby, host.ID())

	game, err := c.factory(lobby.GameID, core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: c.cfg.TickRate,
		Seed:     time.Now().UnixNano(),
	})
	if err != nil {
		c.logger.Error("cannot create match game", "game", lobby.GameID, "err", err)
		for _, s := range []SessionHandle{host, joiner} {
			s.Send(LobbyErrorEvent{Message: "Failed to create game"})
		}
		return
	}

	id := NewMatchID()
	match := NewOnlineMatch(id, lobby.Code, lobby.GameID, game, host, joiner, c.cfg.TickRate)
	c.matches[id] = match
	c.sessionMatch[host.ID()] = id
	c.sessionMatch[joiner.ID()] = id

	host.Send(MatchStartedEvent{MatchID: id, Side: Player1, Code: lobby.Code})
	joiner.Send(MatchStartedEvent{MatchID: id, Side: Player2, Code: lobby.Code})
	c.logger.Info("match started", "match", id.Short(), "game", lobby.GameID,
		"p1", host.ID().Short(), "p2", joiner.ID().Short())

	go match.Run(func(r MatchResult) { c.matchEnded(r) })
}

func (c *Coordinator) matchEnded(r MatchResult) {
	c.mu.Lock()
	match, ok := c.matches[r.MatchID]
	if ok {
		delete(c.matches, r.MatchID)
		delete(c.sessionMatch, match.Session(Player1).ID())
		delete(c.sessionMatch, match.Session(Player2).ID())
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	c.logger.Info("match ended", "match", r.MatchID.Short(), "reason", r.Reason,
		"winner", r.Winner, "score1", r.Score1, "score2", r.Score2)

	if c.saver != nil {
		if err := c.saver.SaveMatchResult(c.resultData(match, r)); err != nil {
			c.logger.Error("cannot save match result", "match", r.MatchID.Short(), "err", err)
		}
	}

	evt := MatchEndedEvent{
		MatchID: r.MatchID,
		Reason:  r.Reason,
		Winner:  r.Winner,
		Score1:  r.Score1,
		Score2:  r.Score2,
	}
	match.Session(Player1).Send(evt)
	match.Session(Player2).Send(evt)
}

func (c *Coordinator) resultData(match *OnlineMatch, r MatchResult) MatchResultData {
	winner := ""
	if r.Winner == Player1 || r.Winner == Player2 {
		winner = string(match.Session(r.Winner).ID())
	}
	return MatchResultData{
		MatchID:        string(r.MatchID),
		GameID:         match.GameID(),
		Player1Session: string(match.Session(Player1).ID()),
		Player2Session: string(match.Session(Player2).ID()),
		Score1:         r.Score1,
		Score2:         r.Score2,
		WinnerSession:  winner,
		EndReason:      r.Reason.String(),
		DurationSecs:   int(r.Ticks / uint64(max(1, c.cfg.TickRate))),
	}
}

func (c *Coordinator) leaveLobby(id SessionID, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, ok := c.lobbies[code]
	if !ok {
		return
	}
	if lobby.Host.ID() == id {
		c.closeLobby(lobby)
		return
	}
	if lobby.Joiner != nil && lobby.Joiner.ID() == id {
		lobby.Joiner = nil
		delete(c.sessionLobby, id)
		lobby.Host.Send(LobbyPlayerLeftEvent{Code: code})
	}
}

// closeLobby removes a lobby whose host left. Caller holds c.mu.
func (c *Coordinator) closeLobby(lobby *Lobby) {
	if lobby.Joiner != nil {
		lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
		delete(c.sessionLobby, lobby.Joiner.ID())
	}
	delete(c.sessionLobby, lobby.Host.ID())
	delete(c.lobbies, lobby.Code)
	c.logger.Debug("lobby closed", "code", lobby.Code)
}

func (c *Coordinator) leaveMatch(msg LeaveMatchMsg) {
	c.mu.RLock()
	match, ok := c.matches[msg.MatchID]
	c.mu.RUnlock()
	if ok {
		match.PlayerDisconnected(msg.SessionID)
	}
}

func (c *Coordinator) forwardInput(msg PlayerInputMsg) {
	c.mu.RLock()
	match, ok := c.matches[msg.MatchID]
	c.mu.RUnlock()
	if ok {
		match.SendInput(msg.Player, msg.Input)
	}
}

func (c *Coordinator) disconnect(id SessionID) {
	c.mu.Lock()
	code, inLobby := c.sessionLobby[id]
	matchID, inMatch := c.sessionMatch[id]
	match := c.matches[matchID]
	c.mu.Unlock()

	if inLobby {
		c.leaveLobby(id, code)
	}
	if inMatch && match != nil {
		match.PlayerDisconnected(id)
	}
}

func (c *Coordinator) cleanupLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.cfg.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.expireLobbies(time.Now())
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) expireLobbies(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		if lobby.Joiner == nil && now.Sub(lobby.CreatedAt) > c.cfg.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
			c.logger.Debug("lobby expired", "code", code)
		}
	}
}

// codeAlphabet leaves out characters that are easy to misread (0/O, 1/I).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// uniqueCode returns an unused join code. Caller holds c.mu.
func (c *Coordinator) uniqueCode() string {
	for {
		code := newJoinCode()
		if _, taken := c.lobbies[code]; !taken {
			return code
		}
	}
}

func newJoinCode() string {
	var sb strings.Builder
	limit := big.NewInt(int64(len(codeAlphabet)))
	for range 6 {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}
	return sb.String()
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of running matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
