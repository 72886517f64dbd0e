//go:build unix

package eunix

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ReadAvailable reads the bytes that are available on the file without
// waiting for more. Interrupted reads are retried. It returns 0 and a nil
// error when a read would block, and io.EOF at end of stream.
func ReadAvailable(file *os.File, p []byte) (int, error) {
	rc, err := file.SyscallConn()
	if err != nil {
		return 0, err
	}
	var n int
	var readErr error
	// Returning true from the callback means the runtime poller never waits
	// on our behalf; a would-block read is reported as it is.
	err = rc.Read(func(fd uintptr) bool {
		for {
			n, readErr = unix.Read(int(fd), p)
			if readErr != unix.EINTR {
				return true
			}
		}
	})
	switch {
	case err != nil:
		return 0, err
	case readErr == unix.EAGAIN || readErr == unix.EWOULDBLOCK:
		return 0, nil
	case readErr != nil:
		return 0, readErr
	case n == 0 && len(p) > 0:
		return 0, io.EOF
	}
	return n, nil
}

// SetNonblock sets or clears the O_NONBLOCK flag of the file and returns the
// previous setting.
func SetNonblock(file *os.File, nonblock bool) (old bool, err error) {
	rc, err := file.SyscallConn()
	if err != nil {
		return false, err
	}
	ctlErr := rc.Control(func(fd uintptr) {
		var flags int
		flags, err = unix.FcntlInt(fd, unix.F_GETFL, 0)
		if err != nil {
			return
		}
		old = flags&unix.O_NONBLOCK != 0
		err = unix.SetNonblock(int(fd), nonblock)
	})
	if ctlErr != nil {
		return false, ctlErr
	}
	return old, err
}

// Fd returns the descriptor of the file. Unlike (*os.File).Fd, it does not
// put the descriptor into blocking mode.
func Fd(file *os.File) (int, error) {
	rc, err := file.SyscallConn()
	if err != nil {
		return -1, err
	}
	fd := -1
	err = rc.Control(func(p uintptr) { fd = int(p) })
	return fd, err
}
