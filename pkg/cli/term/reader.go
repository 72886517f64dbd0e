package term

import (
	"errors"
	"os"
	"time"

	"github.com/termevents/termevents/pkg/logutil"
)

var logger = logutil.GetLogger("[cli/term] ")

// Reader reads events from the terminal.
type Reader interface {
	// ReadSpan reads the raw bytes of a single event. It waits up to timeout
	// for one to become available; a negative timeout means waiting forever,
	// and a zero timeout checks once. It returns ErrTimeout if nothing is
	// available in time, and io.EOF after the last span of the stream.
	ReadSpan(timeout time.Duration) ([]byte, error)
	// ReadEvent is like ReadSpan, but decodes the span into an event.
	ReadEvent(timeout time.Duration) (Event, []byte, error)
	// Close releases resources associated with the Reader. Any outstanding
	// ReadSpan or ReadEvent call will be aborted, returning ErrStopped.
	Close()
}

// ErrStopped is returned by Reader when Close is called during a ReadSpan or
// ReadEvent method.
var ErrStopped = errors.New("stopped")

// ErrTimeout is returned by Reader when no event is available before the
// timeout.
var ErrTimeout = errors.New("timed out")

// NewReader creates a new Reader on the given terminal file. A partial escape
// sequence is flushed after flushTimeout without new bytes; a non-positive
// value means DefaultFlushTimeout.
func NewReader(f *os.File, flushTimeout time.Duration) (Reader, error) {
	return newReader(f, flushTimeout)
}

// IsReadErrorRecoverable returns whether an error returned by Reader is
// recoverable.
func IsReadErrorRecoverable(err error) bool {
	return err == ErrStopped || err == ErrTimeout
}
