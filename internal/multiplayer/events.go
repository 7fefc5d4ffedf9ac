package multiplayer

import "github.com/nikniq/nq-candyrush/internal/core"

// SessionEvent is sent from the coordinator or a match to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent tells the host the join code of its new lobby.
type LobbyCreatedEvent struct {
	Code   string
	GameID string
}

// LobbyErrorEvent reports a failed lobby operation.
type LobbyErrorEvent struct {
	Message string
}

// LobbyJoinedEvent is sent to both sessions when a lobby fills up.
type LobbyJoinedEvent struct {
	Code       string
	Side       PlayerID
	OpponentID SessionID
}

// LobbyPlayerLeftEvent tells the host that the joiner left.
type LobbyPlayerLeftEvent struct {
	Code string
}

// MatchStartedEvent is sent to both sessions when play begins.
type MatchStartedEvent struct {
	MatchID MatchID
	Side    PlayerID
	Code    string
}

// MatchEndedEvent is sent when a match or lobby ends.
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID // PlayerNone on a draw
	Score1  int
	Score2  int
}

// SnapshotEvent carries the authoritative state after a tick.
type SnapshotEvent struct {
	MatchID  MatchID
	Tick     uint64
	Snapshot GameSnapshot
}

func (LobbyCreatedEvent) sessionEvent()    {}
func (LobbyErrorEvent) sessionEvent()      {}
func (LobbyJoinedEvent) sessionEvent()     {}
func (LobbyPlayerLeftEvent) sessionEvent() {}
func (MatchStartedEvent) sessionEvent()    {}
func (MatchEndedEvent) sessionEvent()      {}
func (SnapshotEvent) sessionEvent()        {}

// GameSnapshot is game-specific render state.
type GameSnapshot interface {
	IsGameSnapshot()
}

// MatchEndReason says why a match ended.
type MatchEndReason int

const (
	MatchEndReasonCompleted MatchEndReason = iota
	MatchEndReasonDisconnect
	MatchEndReasonCancelled
	MatchEndReasonHostLeft
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "completed"
	case MatchEndReasonDisconnect:
		return "disconnect"
	case MatchEndReasonCancelled:
		return "cancelled"
	case MatchEndReasonHostLeft:
		return "host_left"
	}
	return "unknown"
}

// CoordinatorMessage is sent from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg asks for a new lobby hosting GameID.
type CreateLobbyMsg struct {
	SessionID SessionID
	GameID    string
}

// JoinLobbyMsg asks to join the lobby with Code.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

// LeaveLobbyMsg leaves (or, for the host, closes) a lobby.
type LeaveLobbyMsg struct {
	SessionID SessionID
	Code      string
}

// LeaveMatchMsg forfeits an active match.
type LeaveMatchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

// PlayerInputMsg forwards the actions of one player to a match.
type PlayerInputMsg struct {
	MatchID MatchID
	Player  PlayerID
	Input   core.InputFrame
}

// SessionDisconnectedMsg reports a closed session.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (CreateLobbyMsg) coordinatorMessage()         {}
func (JoinLobbyMsg) coordinatorMessage()           {}
func (LeaveLobbyMsg) coordinatorMessage()          {}
func (LeaveMatchMsg) coordinatorMessage()          {}
func (PlayerInputMsg) coordinatorMessage()         {}
func (SessionDisconnectedMsg) coordinatorMessage() {}
