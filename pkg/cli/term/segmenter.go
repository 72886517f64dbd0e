package term

import (
	"time"
)

// DefaultFlushTimeout is how long a partial escape sequence may stay pending
// without new bytes before it is flushed as-is. Terminal emulators send the
// bytes of one sequence back to back, so this only has to cover scheduling
// and slow links.
const DefaultFlushTimeout = 35 * time.Millisecond

// Maximum length of a CSI sequence. Longer sequences without a final byte are
// cut off at this length and emitted as one span.
const maxCSILen = 64

const esc = 0x1b

// Segmenter splits a stream of bytes into spans, each holding the bytes of
// exactly one event. Bytes are submitted in arbitrary chunks; complete spans
// are queued in arrival order and taken with Next.
//
// A Segmenter is not safe for concurrent use.
type Segmenter struct {
	flushTimeout time.Duration
	now          func() time.Time

	pending    []byte
	lastAppend time.Time
	ready      [][]byte
}

// NewSegmenter creates a Segmenter that flushes a partial escape sequence
// after flushTimeout has passed without new bytes. A non-positive
// flushTimeout means DefaultFlushTimeout.
func NewSegmenter(flushTimeout time.Duration) *Segmenter {
	if flushTimeout <= 0 {
		flushTimeout = DefaultFlushTimeout
	}
	return &Segmenter{flushTimeout: flushTimeout, now: time.Now}
}

// FlushTimeout returns the flush timeout of the Segmenter.
func (s *Segmenter) FlushTimeout() time.Duration { return s.flushTimeout }

// Submit appends one byte and extracts any spans it completes.
func (s *Segmenter) Submit(b byte) {
	s.pending = append(s.pending, b)
	s.lastAppend = s.now()
	s.extract()
}

// SubmitBytes appends bytes and extracts any spans they complete.
func (s *Segmenter) SubmitBytes(p []byte) {
	if len(p) == 0 {
		return
	}
	// Extraction only ever looks at the head of the buffer, so extracting once
	// after appending everything yields the same spans as byte-by-byte
	// submission.
	s.pending = append(s.pending, p...)
	s.lastAppend = s.now()
	s.extract()
}

// Next removes and returns the oldest complete span.
func (s *Segmenter) Next() ([]byte, bool) {
	if len(s.ready) == 0 {
		return nil, false
	}
	span := s.ready[0]
	s.ready[0] = nil
	s.ready = s.ready[1:]
	return span, true
}

// Ready returns the number of complete spans waiting to be taken.
func (s *Segmenter) Ready() int { return len(s.ready) }

// Pending returns the number of bytes not yet segmented.
func (s *Segmenter) Pending() int { return len(s.pending) }

// LastAppend returns when bytes were last submitted. It is the zero time if
// nothing is pending.
func (s *Segmenter) LastAppend() time.Time {
	if len(s.pending) == 0 {
		return time.Time{}
	}
	return s.lastAppend
}

// Timeout returns how long a caller that is willing to wait for requested
// (negative meaning forever) should actually wait for more bytes. It is 0 if
// a span is ready, and never later than the flush deadline of a pending
// escape sequence.
func (s *Segmenter) Timeout(requested time.Duration) time.Duration {
	if len(s.ready) > 0 {
		return 0
	}
	if !s.flushable() {
		return requested
	}
	remaining := s.flushTimeout - s.now().Sub(s.lastAppend)
	if remaining < 0 {
		remaining = 0
	}
	if requested < 0 || remaining < requested {
		return remaining
	}
	return requested
}

// FlushExpired flushes the pending bytes as one span if they form a partial
// escape sequence whose flush timeout has elapsed. It returns whether a span
// was flushed.
func (s *Segmenter) FlushExpired() bool {
	if !s.flushable() || s.now().Sub(s.lastAppend) < s.flushTimeout {
		return false
	}
	s.Flush()
	return true
}

// Flush unconditionally queues all pending bytes as one span. It is used at
// the end of the stream.
func (s *Segmenter) Flush() {
	if len(s.pending) == 0 {
		return
	}
	s.ready = append(s.ready, s.pending)
	s.pending = nil
}

// Standalone reports whether span is a complete span on its own. Bytes that
// follow a standalone span always start a new span, while a span that is not
// standalone was cut off by a flush, and bytes that follow it before the flush
// timeout join it.
func Standalone(span []byte) bool {
	return len(span) > 0 && spanLen(span) == len(span)
}

// Only partial escape sequences are subject to the flush timeout; a partial
// UTF-8 sequence always waits, since its continuation bytes are mandatory.
func (s *Segmenter) flushable() bool {
	return len(s.pending) > 0 && s.pending[0] == esc
}

func (s *Segmenter) extract() {
	for len(s.pending) > 0 {
		n := spanLen(s.pending)
		if n == 0 {
			return
		}
		span := make([]byte, n)
		copy(span, s.pending)
		s.pending = s.pending[n:]
		s.ready = append(s.ready, span)
	}
	s.pending = nil
}

// spanLen returns the length of the complete span at the head of buf, or 0 if
// more bytes are needed to decide.
func spanLen(buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	first := buf[0]
	if first != esc {
		if w := utf8Width(first); len(buf) >= w {
			return w
		}
		return 0
	}
	if len(buf) < 2 {
		// Lone ESC: either the Escape key or the start of a sequence.
		return 0
	}
	switch buf[1] {
	case '[':
		return csiLen(buf)
	case 'O':
		if len(buf) >= 3 {
			return 3
		}
		return 0
	default:
		if w := utf8Width(buf[1]); len(buf) >= 1+w {
			return 1 + w
		}
		return 0
	}
}

// csiLen returns the length of the CSI sequence at the head of buf, which
// starts with ESC [.
func csiLen(buf []byte) int {
	for i := 2; i < len(buf) && i < maxCSILen; i++ {
		if isCSIFinal(buf[i]) {
			return i + 1
		}
	}
	if len(buf) >= maxCSILen {
		return maxCSILen
	}
	return 0
}

func isCSIFinal(b byte) bool { return 0x40 <= b && b <= 0x7e }

// utf8Width returns the width of the UTF-8 sequence starting with the lead
// byte b. Bytes that cannot start a multi-byte sequence have width 1.
func utf8Width(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b>>5 == 0b110:
		return 2
	case b>>4 == 0b1110:
		return 3
	case b>>3 == 0b11110:
		return 4
	default:
		return 1
	}
}
