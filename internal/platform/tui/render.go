package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikniq/nq-candyrush/internal/core"
)

// styleFor converts a cell style to lipgloss.
func styleFor(st core.Style) lipgloss.Style {
	ls := lipgloss.NewStyle()
	if code := st.Fg.ANSI(); code != "" {
		ls = ls.Foreground(lipgloss.Color(code))
	}
	if code := st.Bg.ANSI(); code != "" {
		ls = ls.Background(lipgloss.Color(code))
	}
	if st.Bold {
		ls = ls.Bold(true)
	}
	return ls
}

// RenderScreen converts a screen buffer to a styled string.
// Adjacent cells with the same style are rendered as one run.
func RenderScreen(s *core.Screen) string {
	styles := make(map[core.Style]lipgloss.Style)
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			first := s.GetCell(x, y)
			st := core.Style{Fg: first.Fg, Bg: first.Bg, Bold: first.Bold}

			var run strings.Builder
			for x < s.Width() {
				c := s.GetCell(x, y)
				if c.Fg != st.Fg || c.Bg != st.Bg || c.Bold != st.Bold {
					break
				}
				run.WriteRune(c.Rune)
				x++
			}

			if st == (core.Style{}) {
				sb.WriteString(run.String())
				continue
			}
			ls, ok := styles[st]
			if !ok {
				ls = styleFor(st)
				styles[st] = ls
			}
			sb.WriteString(ls.Render(run.String()))
		}
	}
	return sb.String()
}

// centerText centers text within width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}
