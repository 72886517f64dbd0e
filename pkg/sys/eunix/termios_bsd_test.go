//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package eunix

import (
	"testing"

	"golang.org/x/sys/unix"
)

func getTermios(t *testing.T, fd int) *unix.Termios {
	t.Helper()
	tios, err := unix.IoctlGetTermios(fd, unix.TIOCGETA)
	if err != nil {
		t.Fatal("get termios:", err)
	}
	return tios
}
