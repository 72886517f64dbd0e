package term

import (
	"os"
	"strings"
	"sync"
)

// SetupOptions chooses the reporting modes enabled by Setup.
type SetupOptions struct {
	// BracketedPaste enables bracketed paste, so that pasted text is wrapped
	// in PasteSetting events.
	BracketedPaste bool
	// Mouse enables mouse reporting with SGR extended coordinates.
	Mouse bool
	// HideCursor hides the cursor for the duration of the session.
	HideCursor bool
	// AltScreen switches to the alternate screen.
	AltScreen bool
}

// Control sequences written by Setup and its restore function.
const (
	enableBracketedPaste  = "\033[?2004h"
	disableBracketedPaste = "\033[?2004l"
	enableMouse           = "\033[?1000h\033[?1006h"
	disableMouse          = "\033[?1006l\033[?1000l"
	hideCursor            = "\033[?25l"
	showCursor            = "\033[?25h"
	enterAltScreen        = "\033[?1049h"
	leaveAltScreen        = "\033[?1049l"
)

// Setup sets up the terminal so that it is suitable for the Reader to use: it
// puts it into raw mode and writes the control sequences that enable the
// requested reporting modes to out. It returns a function that restores the
// original terminal config; the function may be called any number of times,
// but only does its work once.
func Setup(in, out *os.File, opts SetupOptions) (func() error, error) {
	restore, err := setup(in, out, opts)
	if err != nil {
		return nil, err
	}
	var once sync.Once
	var restoreErr error
	return func() error {
		once.Do(func() { restoreErr = restore() })
		return restoreErr
	}, nil
}

func (opts SetupOptions) enableSeq() string {
	var sb strings.Builder
	if opts.AltScreen {
		sb.WriteString(enterAltScreen)
	}
	if opts.HideCursor {
		sb.WriteString(hideCursor)
	}
	if opts.BracketedPaste {
		sb.WriteString(enableBracketedPaste)
	}
	if opts.Mouse {
		sb.WriteString(enableMouse)
	}
	return sb.String()
}

// The inverse of enableSeq, in reverse order.
func (opts SetupOptions) disableSeq() string {
	var sb strings.Builder
	if opts.Mouse {
		sb.WriteString(disableMouse)
	}
	if opts.BracketedPaste {
		sb.WriteString(disableBracketedPaste)
	}
	if opts.HideCursor {
		sb.WriteString(showCursor)
	}
	if opts.AltScreen {
		sb.WriteString(leaveAltScreen)
	}
	return sb.String()
}
