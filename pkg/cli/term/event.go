package term

import (
	"fmt"

	"github.com/termevents/termevents/pkg/ui"
)

// Event represents an event that can be read from the terminal.
type Event interface {
	isEvent()
}

// KeyEvent represents a key press.
type KeyEvent ui.Key

// K constructs a new KeyEvent.
func K(r rune, mods ...ui.Mod) KeyEvent {
	return KeyEvent(ui.K(r, mods...))
}

// MouseEvent represents a mouse event reported in SGR mode.
type MouseEvent struct {
	Pressed bool
	// Coordinates of the terminal cell, 1-based.
	X, Y int
	// Number of the button, taken from the low 3 bits of the button code.
	Button int
	Mod    ui.Mod
}

// PasteSetting indicates the start or finish of pasted text.
type PasteSetting bool

// Unrecognized holds the raw bytes of a sequence that could not be decoded.
type Unrecognized string

func (KeyEvent) isEvent()     {}
func (MouseEvent) isEvent()   {}
func (PasteSetting) isEvent() {}
func (Unrecognized) isEvent() {}

func (e MouseEvent) String() string {
	action := "press"
	if !e.Pressed {
		action = "release"
	}
	return fmt.Sprintf("mouse %s button %d at (%d, %d) mod %v",
		action, e.Button, e.X, e.Y, e.Mod)
}

func (e PasteSetting) String() string {
	if e {
		return "paste start"
	}
	return "paste end"
}
