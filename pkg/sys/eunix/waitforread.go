//go:build unix

// Package eunix provides extra Unix-specific system utilities.
package eunix

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// WaitForRead blocks until any of the given files is ready to be read or
// timeout. A negative timeout means no timeout. It returns a boolean array
// indicating which files are ready to be read and any possible error.
//
// An interrupted wait is reported as unix.EINTR; callers decide whether to
// retry and with what remaining timeout.
func WaitForRead(timeout time.Duration, files ...*os.File) (ready []bool, err error) {
	fds := make([]unix.PollFd, len(files))
	for i, file := range files {
		fd, err := Fd(file)
		if err != nil {
			return make([]bool, len(files)), err
		}
		fds[i] = unix.PollFd{Fd: int32(fd), Events: unix.POLLIN}
	}
	_, err = unix.Poll(fds, pollTimeout(timeout))
	ready = make([]bool, len(files))
	if err != nil {
		return ready, err
	}
	for i := range fds {
		// A hung-up or errored descriptor is reported as readable so that the
		// following read surfaces EOF or the error.
		ready[i] = fds[i].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0
	}
	return ready, nil
}

// Converts a timeout to milliseconds for poll(2), rounding up so that a short
// positive timeout does not degrade into a busy loop.
func pollTimeout(timeout time.Duration) int {
	if timeout < 0 {
		return -1
	}
	ms := (timeout + time.Millisecond - 1) / time.Millisecond
	if ms > 1<<31-1 {
		return 1<<31 - 1
	}
	return int(ms)
}
