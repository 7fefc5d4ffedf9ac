package tui

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"
)

// audibleCues ring the terminal bell; the rest are only logged.
var audibleCues = []string{"swap_rejected", "game_over", "level_cleared", "out_of_moves"}

// CueSink plays game cues by writing BEL to the terminal.
type CueSink struct {
	out    io.Writer
	muted  bool
	logger *log.Logger
}

// NewCueSink creates a sink writing to out. A nil logger disables cue logging.
func NewCueSink(out io.Writer, muted bool, logger *log.Logger) *CueSink {
	return &CueSink{out: out, muted: muted, logger: logger}
}

// Play handles the cues of one tick. The bell rings at most once per tick.
func (c *CueSink) Play(cues []string) {
	if c == nil || len(cues) == 0 {
		return
	}
	if c.logger != nil {
		c.logger.Debug("cues", "cues", cues)
	}
	if c.muted || c.out == nil {
		return
	}
	for _, cue := range cues {
		if slices.Contains(audibleCues, cue) {
			//nolint:errcheck // the bell is best effort
			io.WriteString(c.out, "\a")
			return
		}
	}
}
