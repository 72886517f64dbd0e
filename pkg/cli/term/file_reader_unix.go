//go:build unix

package term

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/lestrrat-go/pdebug"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/termevents/termevents/pkg/sys/eunix"
)

// Overridden in tests.
var waitForRead = eunix.WaitForRead

// A helper for reading from a file.
type fileReader interface {
	// Wait waits up to timeout, a negative value meaning forever, for the file
	// to become readable. It returns false if the timeout elapsed first, and
	// ErrStopped if Stop was called.
	Wait(timeout time.Duration) (bool, error)
	// Read reads the bytes that are available without blocking. It returns
	// io.EOF at the end of the stream.
	Read(p []byte) (int, error)
	// Stop stops any outstanding Wait call. It blocks until the call returns.
	Stop() error
	// Close releases new resources allocated for the fileReader and restores
	// the blocking mode of the file. It does not close the underlying file.
	Close()
}

// newFileReader puts file into nonblocking mode, so that a read after a
// spurious wakeup returns nothing instead of blocking.
func newFileReader(file *os.File) (fileReader, error) {
	wasNonblock, err := eunix.SetNonblock(file, true)
	if err != nil {
		return nil, errors.Wrap(err, "set nonblocking mode")
	}
	rStop, wStop, err := os.Pipe()
	if err != nil {
		eunix.SetNonblock(file, wasNonblock)
		return nil, errors.Wrap(err, "create stop pipe")
	}
	return &bReader{file: file, wasNonblock: wasNonblock, rStop: rStop, wStop: wStop}, nil
}

type bReader struct {
	file        *os.File
	wasNonblock bool
	rStop       *os.File
	wStop       *os.File
	// A mutex that is held when Wait is in process.
	mutex sync.Mutex
}

func (r *bReader) Wait(timeout time.Duration) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		ready, err := waitForRead(timeout, r.file, r.rStop)
		if err != nil {
			if err == unix.EINTR {
				// Retry with what is left of the timeout, not the original.
				if !deadline.IsZero() {
					timeout = max(time.Until(deadline), 0)
				}
				logger.Printf("wait on %s interrupted, retrying with timeout %v",
					r.file.Name(), timeout)
				continue
			}
			logger.Printf("wait on %s with timeout %v failed: %v",
				r.file.Name(), timeout, err)
			return false, errors.Wrap(err, "wait for input")
		}
		if ready[1] {
			var b [1]byte
			r.rStop.Read(b[:])
			return false, ErrStopped
		}
		if pdebug.Enabled {
			pdebug.Printf("wait(%v) on %s -> %v", timeout, r.file.Name(), ready[0])
		}
		return ready[0], nil
	}
}

func (r *bReader) Read(p []byte) (int, error) {
	n, err := eunix.ReadAvailable(r.file, p)
	if err != nil && err != io.EOF {
		logger.Printf("read on %s failed: %v", r.file.Name(), err)
		return n, errors.Wrap(err, "read input")
	}
	return n, err
}

func (r *bReader) Stop() error {
	_, err := r.wStop.Write([]byte{'q'})
	r.mutex.Lock()
	//lint:ignore SA2001 We only lock the mutex to make sure that
	// Wait has exited, so we unlock it immediately.
	r.mutex.Unlock()
	return err
}

func (r *bReader) Close() {
	r.rStop.Close()
	r.wStop.Close()
	if _, err := eunix.SetNonblock(r.file, r.wasNonblock); err != nil {
		logger.Printf("cannot restore blocking mode of %s: %v", r.file.Name(), err)
	}
}
