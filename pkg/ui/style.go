package ui

import (
	"strconv"
	"strings"
)

// Color is one of the 8 basic ANSI colors, or Default.
type Color int

// Values for Color.
const (
	Default Color = iota
	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

var colorNames = [...]string{
	"default", "black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return "color(" + strconv.Itoa(int(c)) + ")"
	}
	return colorNames[c]
}

// ParseColor parses a color name. It returns false if the name is unknown.
func ParseColor(s string) (Color, bool) {
	for i, name := range colorNames {
		if s == name {
			return Color(i), true
		}
	}
	return Default, false
}

func (c Color) fgSGR() string { return strconv.Itoa(30 + int(c) - 1) }

// Style specifies how a string shall be displayed.
type Style struct {
	Fg   Color
	Bold bool
	Dim  bool
}

// SGR returns SGR sequence for the style.
func (s Style) SGR() string {
	var sgr []string
	if s.Bold {
		sgr = append(sgr, "1")
	}
	if s.Dim {
		sgr = append(sgr, "2")
	}
	if s.Fg != Default {
		sgr = append(sgr, s.Fg.fgSGR())
	}
	return strings.Join(sgr, ";")
}

// Render wraps text in the SGR sequences of the style. Text is returned
// unchanged if the style is empty.
func (s Style) Render(text string) string {
	sgr := s.SGR()
	if sgr == "" {
		return text
	}
	return "\033[" + sgr + "m" + text + "\033[m"
}
