//go:build unix

package sys

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// NotifyResize returns a channel that receives a value whenever the size of
// the controlling terminal changes, and a function that stops the
// notification.
func NotifyResize() (<-chan os.Signal, func()) {
	// A resize that is not handled yet makes further ones redundant.
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGWINCH)
	return ch, func() { signal.Stop(ch) }
}
