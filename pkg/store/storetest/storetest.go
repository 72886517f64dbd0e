// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/termevents/termevents/pkg/store/storedefs"
)

var started = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// TestSessions tests the session functionality of a Store.
func TestSessions(t *testing.T, store storedefs.Store) {
	seq, err := store.NextSessionSeq()
	require.NoError(t, err)
	require.Equal(t, 1, seq)

	s1, err := store.AddSession(storedefs.Session{
		Started: started, Term: "xterm-256color", Label: "arrows"})
	require.NoError(t, err)
	require.Equal(t, 1, s1)
	s2, err := store.AddSession(storedefs.Session{Started: started.Add(time.Hour)})
	require.NoError(t, err)
	require.Equal(t, 2, s2)

	seq, err = store.NextSessionSeq()
	require.NoError(t, err)
	require.Equal(t, 3, seq)

	session, err := store.Session(s1)
	require.NoError(t, err)
	require.Equal(t, s1, session.Seq)
	require.True(t, started.Equal(session.Started))
	require.Equal(t, "xterm-256color", session.Term)
	require.Equal(t, "arrows", session.Label)
	require.Equal(t, 0, session.Inputs)

	_, err = store.Session(100)
	require.Equal(t, storedefs.ErrNoSession, err)

	sessions, err := store.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, s1, sessions[0].Seq)
	require.Equal(t, s2, sessions[1].Seq)

	require.NoError(t, store.DelSession(s1))
	_, err = store.Session(s1)
	require.Equal(t, storedefs.ErrNoSession, err)
	require.Equal(t, storedefs.ErrNoSession, store.DelSession(s1))

	// Sequence numbers are not reused.
	seq, err = store.NextSessionSeq()
	require.NoError(t, err)
	require.Equal(t, 3, seq)
}

// TestInputs tests the input functionality of a Store.
func TestInputs(t *testing.T, store storedefs.Store) {
	s, err := store.AddSession(storedefs.Session{Started: started})
	require.NoError(t, err)

	inputs := []storedefs.Input{
		{Offset: 0, Bytes: []byte("a")},
		{Offset: 120 * time.Millisecond, Bytes: []byte("\x1b[A")},
		{Offset: time.Second, Bytes: []byte("\x1b")},
		{Offset: time.Second + 2*time.Millisecond, Bytes: []byte("é")},
	}
	for _, in := range inputs {
		require.NoError(t, store.AddInput(s, in))
	}

	got, err := store.Inputs(s)
	require.NoError(t, err)
	require.Equal(t, inputs, got)

	session, err := store.Session(s)
	require.NoError(t, err)
	require.Equal(t, len(inputs), session.Inputs)

	require.Equal(t, storedefs.ErrNoSession, store.AddInput(s+1, inputs[0]))
	_, err = store.Inputs(s + 1)
	require.Equal(t, storedefs.ErrNoSession, err)

	require.NoError(t, store.DelSession(s))
	_, err = store.Inputs(s)
	require.Equal(t, storedefs.ErrNoSession, err)
}
