//go:build unix

package sys

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/termevents/termevents/pkg/sys/eunix"
)

func winSize(file *os.File) (row, col int) {
	fd, err := eunix.Fd(file)
	if err != nil {
		return -1, -1
	}
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return -1, -1
	}

	// Serial consoles may report a zero size.
	if ws.Col == 0 {
		ws.Col = 80
	}
	if ws.Row == 0 {
		ws.Row = 24
	}

	return int(ws.Row), int(ws.Col)
}
