package core

// Color is a terminal color for a screen cell, expressed as an ANSI
// 256-color code so both local and SSH renderers agree.
type Color uint8

// Palette. ColorDefault leaves the terminal color unchanged.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorPink
	ColorPurple
	ColorLime
	ColorGray
	ColorDarkGray
)

var ansiCodes = map[Color]string{
	ColorRed:      "196",
	ColorGreen:    "40",
	ColorYellow:   "226",
	ColorBlue:     "33",
	ColorMagenta:  "201",
	ColorCyan:     "51",
	ColorWhite:    "255",
	ColorOrange:   "208",
	ColorPink:     "213",
	ColorPurple:   "93",
	ColorLime:     "154",
	ColorGray:     "245",
	ColorDarkGray: "238",
}

// ANSI returns the 256-color code, or "" for ColorDefault.
func (c Color) ANSI() string {
	return ansiCodes[c]
}
