// Package multiplayer runs two-player matches between sessions: a lobby
// coordinator pairs sessions by join code and an authoritative match loop
// steps the shared game at a fixed tick rate.
// It knows nothing about SSH or Bubble Tea; sessions are reached through
// SessionHandle.
package multiplayer

import (
	"github.com/google/uuid"

	"github.com/nikniq/nq-candyrush/internal/core"
)

// PlayerID is the seat of a session in a match.
type PlayerID = core.PlayerID

const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID identifies one connected player session.
type SessionID string

// MatchID identifies one match.
type MatchID string

// NewSessionID returns a random session id.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// NewMatchID returns a random match id.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// Short returns the first 8 characters of the id for display.
func (id SessionID) Short() string {
	return shorten(string(id))
}

// Short returns the first 8 characters of the id for display.
func (id MatchID) Short() string {
	return shorten(string(id))
}

func shorten(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
