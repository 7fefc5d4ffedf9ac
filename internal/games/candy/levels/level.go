// Package levels loads Candy Rush campaign levels from YAML files.
package levels

import (
	"errors"
	"fmt"

	"github.com/nikniq/nq-candyrush/internal/match3"
)

// ErrInvalidLevel is wrapped by every level validation failure.
var ErrInvalidLevel = errors.New("levels: invalid level")

// Level is one campaign stage.
type Level struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Width   int      `yaml:"width"`
	Symbols int      `yaml:"symbols"`
	Target  int      `yaml:"target"` // score that clears the level
	Moves   int      `yaml:"moves"`  // accepted swaps allowed, 0 = unlimited
	Board   []string `yaml:"board,omitempty"`

	FilePath string `yaml:"-"`
}

// Validate checks the level definition, including a literal board.
func (l Level) Validate() error {
	switch {
	case l.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidLevel)
	case l.Width < match3.MinRun:
		return fmt.Errorf("%w: %s: width %d", ErrInvalidLevel, l.ID, l.Width)
	case l.Symbols < 2 || l.Symbols > match3.MaxSymbols:
		return fmt.Errorf("%w: %s: symbols %d", ErrInvalidLevel, l.ID, l.Symbols)
	case l.Target <= 0:
		return fmt.Errorf("%w: %s: target must be positive", ErrInvalidLevel, l.ID)
	case l.Moves < 0:
		return fmt.Errorf("%w: %s: negative moves", ErrInvalidLevel, l.ID)
	}
	if len(l.Board) > 0 {
		if _, err := l.Grid(); err != nil {
			return err
		}
	}
	return nil
}

// HasBoard reports whether the level starts from a fixed layout.
func (l Level) HasBoard() bool {
	return len(l.Board) > 0
}

// Grid parses the literal board.
func (l Level) Grid() (*match3.Grid, error) {
	g, err := match3.ParseGrid(l.Board...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidLevel, l.ID, err)
	}
	if g.Width() != l.Width {
		return nil, fmt.Errorf("%w: %s: board is %dx%d, width is %d", ErrInvalidLevel, l.ID, g.Width(), g.Width(), l.Width)
	}
	for i := range g.Size() {
		if s := g.Get(i); s == match3.Empty || int(s) > l.Symbols {
			return nil, fmt.Errorf("%w: %s: cell %d holds %q outside %d symbols", ErrInvalidLevel, l.ID, i, s.Rune(), l.Symbols)
		}
	}
	return g, nil
}
