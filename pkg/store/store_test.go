package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/termevents/termevents/pkg/store/storedefs"
)

func TestNewStore_Reopen(t *testing.T) {
	dbname := filepath.Join(t.TempDir(), "captures.db")

	st, err := NewStore(dbname)
	require.NoError(t, err)
	seq, err := st.AddSession(storedefs.Session{Started: time.Unix(100, 0), Label: "x"})
	require.NoError(t, err)
	require.NoError(t, st.AddInput(seq, storedefs.Input{Bytes: []byte("q")}))
	require.NoError(t, st.Close())

	st, err = NewStore(dbname)
	require.NoError(t, err)
	defer st.Close()
	sessions, err := st.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "x", sessions[0].Label)
	require.Equal(t, 1, sessions[0].Inputs)
}

func TestNewStore_BadPath(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "no", "such", "dir", "db"))
	require.Error(t, err)
}

func TestMarshalSeq(t *testing.T) {
	for _, seq := range []uint64{0, 1, 255, 1 << 40} {
		require.Equal(t, seq, unmarshalSeq(marshalSeq(seq)))
	}
	// Keys sort in numeric order.
	require.Less(t, string(marshalSeq(2)), string(marshalSeq(10)))
}

func TestUnmarshalSession_TooShort(t *testing.T) {
	_, err := unmarshalSession(1, []byte{1, 2})
	require.Error(t, err)
}
