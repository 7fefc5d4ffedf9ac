package candy

import (
	"fmt"

	"github.com/nikniq/nq-candyrush/internal/config"
	"github.com/nikniq/nq-candyrush/internal/core"
	"github.com/nikniq/nq-candyrush/internal/match3"
)

const (
	cellWidth = 3 // glyph plus cursor brackets
	hudHeight = 3
)

var symbolColors = []core.Color{
	core.ColorRed,
	core.ColorYellow,
	core.ColorGreen,
	core.ColorBlue,
	core.ColorMagenta,
	core.ColorOrange,
	core.ColorCyan,
	core.ColorPink,
}

// Glyph returns the candy drawn for a symbol. Symbols past the glyph set
// fall back to their letter.
func Glyph(s match3.Symbol) rune {
	if s == match3.Empty {
		return ' '
	}
	if i := int(s) - 1; i < len(config.SymbolGlyphs) {
		return []rune(config.SymbolGlyphs[i])[0]
	}
	return s.Rune()
}

// SymbolColor returns the color of a symbol.
func SymbolColor(s match3.Symbol) core.Color {
	if s == match3.Empty {
		return core.ColorDefault
	}
	return symbolColors[(int(s)-1)%len(symbolColors)]
}

// BoardSize returns the on-screen size of a board of the given width,
// border included.
func BoardSize(width int) (w, h int) {
	return width*cellWidth + 2, width + 2
}

// drawBoard draws a board with its border at (x, y).
// cursor < 0 hides the cursor.
func drawBoard(dst *core.Screen, x, y, width int, cells []match3.Symbol, marks []cellMark, cursor int, tick uint64) {
	bw, bh := BoardSize(width)
	dst.DrawBox(core.NewRect(x, y, bw, bh), core.Style{Fg: core.ColorGray})

	flash := tick/4%2 == 0
	for i, s := range cells {
		cx := x + 1 + (i%width)*cellWidth
		cy := y + 1 + i/width

		st := core.Style{Fg: SymbolColor(s)}
		glyph := Glyph(s)
		var mark cellMark
		if marks != nil {
			mark = marks[i]
		}
		switch mark {
		case markMatched:
			st = core.Style{Fg: core.ColorWhite, Bold: true}
			if flash {
				glyph = '✦'
			}
		case markSelected:
			st.Bg = core.ColorDarkGray
			st.Bold = true
		case markHint:
			if flash {
				st.Bg = core.ColorGray
			}
		case markRejected:
			st.Fg = core.ColorGray
		}

		if st.Bg != core.ColorDefault {
			dst.FillRect(core.NewRect(cx, cy, cellWidth, 1), ' ', core.Style{Bg: st.Bg})
		}
		dst.SetStyled(cx+1, cy, glyph, st)

		if i == cursor {
			cs := core.Style{Fg: core.ColorWhite, Bg: st.Bg, Bold: true}
			dst.SetStyled(cx, cy, '[', cs)
			dst.SetStyled(cx+2, cy, ']', cs)
		}
	}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.err != nil {
		dst.DrawTextCentered(g.screenH/2, "Cannot start game")
		dst.DrawTextCentered(g.screenH/2+1, g.err.Error())
		return
	}
	if g.tooSmall {
		dst.DrawTextCentered(g.screenH/2, "Window too small")
		dst.DrawTextCentered(g.screenH/2+1, "Please resize terminal")
		return
	}

	width := g.board.engine.Width()
	bw, bh := BoardSize(width)
	bx := (g.screenW - bw) / 2
	by := hudHeight + 1

	g.renderHUD(dst, bx, bw)

	cells, marks := g.board.view()
	drawBoard(dst, bx, by, width, cells, marks, g.board.cursor, g.tick)

	if g.messageTicks > 0 && g.message != "" {
		dst.DrawStyledCentered(by+bh, g.message, core.Style{Fg: core.ColorYellow, Bold: true})
	}

	g.renderOverlays(dst, bx+bw/2, by+bh/2)
}

func (g *Game) renderHUD(dst *core.Screen, boardX, boardW int) {
	title := "CANDY RUSH"
	dst.DrawStyled(boardX+(boardW-len(title))/2, 0, title, core.Style{Fg: core.ColorPink, Bold: true})

	st := g.State()
	status := fmt.Sprintf("Score: %d", st.Score)
	if lvl := g.level(); lvl != nil {
		status += fmt.Sprintf("   Goal: %d", lvl.Target)
		if lvl.Moves > 0 {
			status += fmt.Sprintf("   Moves: %d", max(0, lvl.Moves-g.board.engine.Stats().Moves))
		}
		dst.DrawTextCentered(2, fmt.Sprintf("Level %d/%d: %s", g.levelIndex+1, len(g.levels), lvl.Name))
	} else {
		status += fmt.Sprintf("   Best chain: %d", st.BestChain)
		dst.DrawTextCentered(2, "Endless")
	}
	dst.DrawTextCentered(1, status)
}

func (g *Game) renderOverlays(dst *core.Screen, centerX, centerY int) {
	switch {
	case g.paused:
		drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
	case g.levelCleared:
		lvl := g.level()
		if g.levelIndex >= len(g.levels)-1 {
			drawOverlay(dst, centerX, centerY, lvl.Name+" cleared!", "Final level complete!")
		} else {
			drawOverlay(dst, centerX, centerY, lvl.Name+" cleared!", fmt.Sprintf("Next: %s", g.levels[g.levelIndex+1].Name))
		}
	case g.won:
		drawOverlay(dst, centerX, centerY, "CAMPAIGN COMPLETE!", fmt.Sprintf("Score: %d", g.State().Score), "Press R to play again")
	case g.outOfMoves:
		drawOverlay(dst, centerX, centerY, "OUT OF MOVES", fmt.Sprintf("Score: %d", g.State().Score), "Press R to retry")
	case g.board.engine.GameOver():
		drawOverlay(dst, centerX, centerY, "NO MOVES LEFT", fmt.Sprintf("Score: %d", g.State().Score), "Press R to restart")
	}
}

// drawOverlay draws a boxed message centered on (centerX, centerY).
func drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}

	box := core.NewRect(centerX, centerY, 0, 0).CenterIn(maxLen+4, len(lines)+2)
	dst.FillRect(box, ' ', core.Style{})
	dst.DrawBox(box, core.Style{Fg: core.ColorWhite})
	for i, line := range lines {
		dst.DrawStyled(centerX-len([]rune(line))/2, box.Y+1+i, line, core.Style{Bold: i == 0})
	}
}
