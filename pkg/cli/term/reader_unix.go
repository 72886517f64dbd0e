//go:build unix

package term

import (
	"io"
	"os"
	"time"

	"github.com/lestrrat-go/pdebug"
)

// Size of the buffer for a single read. Input arrives in small bursts; a
// paste larger than this is simply read in several rounds.
const readBufSize = 4096

// reader reads bytes from a file, segments them into spans and decodes them
// into events.
type reader struct {
	fr  fileReader
	seg *Segmenter
	buf []byte
	eof bool
}

func newReader(f *os.File, flushTimeout time.Duration) (*reader, error) {
	fr, err := newFileReader(f)
	if err != nil {
		return nil, err
	}
	return &reader{fr, NewSegmenter(flushTimeout), make([]byte, readBufSize), false}, nil
}

func (rd *reader) ReadEvent(timeout time.Duration) (Event, []byte, error) {
	span, err := rd.ReadSpan(timeout)
	if err != nil {
		return nil, nil, err
	}
	return Decode(span), span, nil
}

func (rd *reader) ReadSpan(timeout time.Duration) ([]byte, error) {
	if pdebug.Enabled {
		g := pdebug.Marker("reader.ReadSpan(%v)", timeout)
		defer g.End()
	}
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		if span, ok := rd.seg.Next(); ok {
			return span, nil
		}
		if rd.seg.FlushExpired() {
			continue
		}
		if rd.eof {
			return nil, io.EOF
		}

		remaining := timeout
		if !deadline.IsZero() {
			remaining = max(time.Until(deadline), 0)
		}
		ready, err := rd.fr.Wait(rd.seg.Timeout(remaining))
		if err != nil {
			return nil, err
		}
		if ready {
			n, err := rd.fr.Read(rd.buf)
			if err == io.EOF {
				// Whatever is pending can no longer be completed.
				rd.eof = true
				rd.seg.Flush()
				continue
			}
			if err != nil {
				logger.Printf("fatal read error with %d bytes pending since %v: %v",
					rd.seg.Pending(), rd.seg.LastAppend(), err)
				return nil, err
			}
			rd.seg.SubmitBytes(rd.buf[:n])
			continue
		}
		if rd.seg.FlushExpired() {
			continue
		}
		if timeout == 0 || (!deadline.IsZero() && !time.Now().Before(deadline)) {
			return nil, ErrTimeout
		}
	}
}

func (rd *reader) Close() {
	rd.fr.Stop()
	rd.fr.Close()
}
