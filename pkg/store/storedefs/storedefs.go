// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// does not need to depend on the concrete implementation.
package storedefs

import (
	"errors"
	"time"
)

// ErrNoSession is the error returned when a session with the given sequence
// number does not exist.
var ErrNoSession = errors.New("no such session")

// Store is an interface satisfied by the storage service.
type Store interface {
	NextSessionSeq() (int, error)
	AddSession(s Session) (int, error)
	DelSession(seq int) error
	Session(seq int) (Session, error)
	Sessions() ([]Session, error)

	AddInput(session int, in Input) error
	Inputs(session int) ([]Input, error)
}

// Session is a recorded capture session.
type Session struct {
	Seq     int
	Started time.Time
	// Value of $TERM when the session was recorded.
	Term  string
	Label string
	// Number of recorded inputs. It is filled in by queries and ignored by
	// AddSession.
	Inputs int
}

// Input is a chunk of raw bytes read during a session.
type Input struct {
	// Time since the start of the session.
	Offset time.Duration
	Bytes  []byte
}
