// Package ui contains the key and style types shared by the terminal reader
// and the event display.
package ui

import (
	"fmt"
	"strings"
)

// Key represents a single keyboard input, typically assembled from an escape
// sequence. Non-negative runes are characters; negative runes are named keys
// (see the constants below).
type Key struct {
	Rune rune
	Mod  Mod
}

// K constructs a new Key.
func K(r rune, mods ...Mod) Key {
	var mod Mod
	for _, m := range mods {
		mod |= m
	}
	return Key{r, mod}
}

// Named reports whether the key is a named key rather than a character.
func (k Key) Named() bool { return k.Rune < 0 }

// Mod represents a modifier key.
type Mod byte

// Values for Mod.
const (
	// Shift is the shift modifier. It is only applied to special keys (e.g.
	// Shift-F1). For instance 'A' and '@' which are typically entered with the
	// shift key pressed, are not considered to be shift-modified.
	Shift Mod = 1 << iota
	// Alt is the alt modifier, traditionally known as the meta modifier.
	Alt
	Ctrl
)

// String returns the modifier set joined with " | ", or "None" when empty.
func (m Mod) String() string {
	if m == 0 {
		return "None"
	}
	var names []string
	if m&Shift != 0 {
		names = append(names, "Shift")
	}
	if m&Alt != 0 {
		names = append(names, "Alt")
	}
	if m&Ctrl != 0 {
		names = append(names, "Control")
	}
	return strings.Join(names, " | ")
}

// Special negative runes to represent named keys, used in the Rune field of
// the Key struct.
const (
	F1 rune = -iota - 1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12

	Up
	Down
	Right
	Left

	Home
	Insert
	Delete
	End
	PageUp
	PageDown

	Enter
	Tab
	BackTab
	Backspace
	Esc
	Null

	lastNamed
)

var namedKeyNames = [...]string{
	"(Invalid)",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12",
	"Up", "Down", "Right", "Left",
	"Home", "Insert", "Delete", "End", "PageUp", "PageDown",
	"Enter", "Tab", "BackTab", "Backspace", "Esc", "Null",
}

// FunctionKey returns the named rune for function key Fn, n being 1 to 12.
func FunctionKey(n int) (rune, bool) {
	if n < 1 || n > 12 {
		return 0, false
	}
	return F1 - rune(n-1), true
}

// FunctionKeyNumber returns n if r is function key Fn.
func FunctionKeyNumber(r rune) (int, bool) {
	if r > F1 || r < F12 {
		return 0, false
	}
	return int(F1-r) + 1, true
}

// NamedKeyName returns the name of a named key rune.
func NamedKeyName(r rune) string {
	i := int(-r)
	if r >= 0 || r <= lastNamed || i >= len(namedKeyNames) {
		return fmt.Sprintf("(bad named key %d)", i)
	}
	return namedKeyNames[i]
}

// Display returns how the key itself is shown, without modifiers: named keys
// by name and characters quoted, like 'a'.
func (k Key) Display() string {
	if k.Named() {
		return NamedKeyName(k.Rune)
	}
	return fmt.Sprintf("'%c'", k.Rune)
}

// Code returns the key code name, like Char('a'), Up or F(5).
func (k Key) Code() string {
	if !k.Named() {
		return fmt.Sprintf("Char(%q)", k.Rune)
	}
	if n, ok := FunctionKeyNumber(k.Rune); ok {
		return fmt.Sprintf("F(%d)", n)
	}
	return NamedKeyName(k.Rune)
}

func (k Key) String() string {
	var sb strings.Builder
	if k.Mod&Ctrl != 0 {
		sb.WriteString("Ctrl-")
	}
	if k.Mod&Alt != 0 {
		sb.WriteString("Alt-")
	}
	if k.Mod&Shift != 0 {
		sb.WriteString("Shift-")
	}
	if k.Named() {
		sb.WriteString(NamedKeyName(k.Rune))
	} else {
		sb.WriteRune(k.Rune)
	}
	return sb.String()
}
