package sys

import "runtime"

const stackBufSizeInit = 8192

// Stack returns the stack trace of the calling goroutine.
func Stack() string {
	buf := make([]byte, stackBufSizeInit)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			return string(buf[:n])
		}
		buf = make([]byte, len(buf)*2)
	}
}
