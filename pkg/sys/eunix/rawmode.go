//go:build unix

package eunix

import (
	"golang.org/x/term"
)

// MakeRaw puts the terminal referenced by fd into raw mode and returns a
// function that restores the previous mode.
func MakeRaw(fd int) (restore func() error, err error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() error { return term.Restore(fd, state) }, nil
}
