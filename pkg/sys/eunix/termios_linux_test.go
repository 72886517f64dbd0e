//go:build linux

package eunix

import (
	"testing"

	"golang.org/x/sys/unix"
)

func getTermios(t *testing.T, fd int) *unix.Termios {
	t.Helper()
	tios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		t.Fatal("get termios:", err)
	}
	return tios
}
