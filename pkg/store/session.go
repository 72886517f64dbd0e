package store

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	. "github.com/termevents/termevents/pkg/store/storedefs"
)

func init() {
	initDB["initialize session tables"] = func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketSession)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(bucketInput))
		return err
	}
}

// A session is stored as the start time in Unix nanoseconds, followed by
// $TERM and the label separated by a NUL byte.
func marshalSession(s Session) []byte {
	b := make([]byte, 8, 8+len(s.Term)+1+len(s.Label))
	binary.BigEndian.PutUint64(b, uint64(s.Started.UnixNano()))
	b = append(b, s.Term...)
	b = append(b, 0)
	return append(b, s.Label...)
}

func unmarshalSession(seq uint64, v []byte) (Session, error) {
	if len(v) < 9 {
		return Session{}, errors.Errorf("session %d: record too short", seq)
	}
	term, label, _ := bytes.Cut(v[8:], []byte{0})
	return Session{
		Seq:     int(seq),
		Started: time.Unix(0, int64(binary.BigEndian.Uint64(v))),
		Term:    string(term),
		Label:   string(label),
	}, nil
}

// An input is stored as the offset in nanoseconds followed by the raw bytes.
func marshalInput(in Input) []byte {
	b := make([]byte, 8, 8+len(in.Bytes))
	binary.BigEndian.PutUint64(b, uint64(in.Offset))
	return append(b, in.Bytes...)
}

func unmarshalInput(v []byte) Input {
	return Input{
		Offset: time.Duration(binary.BigEndian.Uint64(v)),
		Bytes:  append([]byte(nil), v[8:]...),
	}
}

// NextSessionSeq returns the next sequence number of sessions.
func (s *dbStore) NextSessionSeq() (int, error) {
	var seq uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSession))
		seq = b.Sequence() + 1
		return nil
	})
	return int(seq), err
}

// AddSession adds a new session and returns its sequence number.
func (s *dbStore) AddSession(session Session) (int, error) {
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSession))
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		if err := b.Put(marshalSeq(seq), marshalSession(session)); err != nil {
			return err
		}
		_, err = tx.Bucket([]byte(bucketInput)).CreateBucket(marshalSeq(seq))
		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "add session")
	}
	logger.Printf("added session %d", seq)
	return int(seq), nil
}

// DelSession deletes a session and all its inputs.
func (s *dbStore) DelSession(seq int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		key := marshalSeq(uint64(seq))
		b := tx.Bucket([]byte(bucketSession))
		if b.Get(key) == nil {
			return ErrNoSession
		}
		if err := b.Delete(key); err != nil {
			return err
		}
		err := tx.Bucket([]byte(bucketInput)).DeleteBucket(key)
		if err == bolt.ErrBucketNotFound {
			return nil
		}
		return err
	})
}

// Session queries the session with the given sequence number.
func (s *dbStore) Session(seq int) (Session, error) {
	var session Session
	err := s.db.View(func(tx *bolt.Tx) error {
		key := marshalSeq(uint64(seq))
		v := tx.Bucket([]byte(bucketSession)).Get(key)
		if v == nil {
			return ErrNoSession
		}
		var err error
		session, err = unmarshalSession(uint64(seq), v)
		session.Inputs = countInputs(tx, key)
		return err
	})
	return session, err
}

// Sessions returns all sessions in the order they were added.
func (s *dbStore) Sessions() ([]Session, error) {
	var sessions []Session
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSession)).ForEach(func(k, v []byte) error {
			session, err := unmarshalSession(unmarshalSeq(k), v)
			if err != nil {
				return err
			}
			session.Inputs = countInputs(tx, k)
			sessions = append(sessions, session)
			return nil
		})
	})
	return sessions, err
}

func countInputs(tx *bolt.Tx, key []byte) int {
	b := tx.Bucket([]byte(bucketInput)).Bucket(key)
	if b == nil {
		return 0
	}
	return b.Stats().KeyN
}

// AddInput appends an input to a session.
func (s *dbStore) AddInput(session int, in Input) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketInput)).Bucket(marshalSeq(uint64(session)))
		if b == nil {
			return ErrNoSession
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), marshalInput(in))
	})
}

// Inputs returns all inputs of a session in the order they were added.
func (s *dbStore) Inputs(session int) ([]Input, error) {
	var inputs []Input
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketInput)).Bucket(marshalSeq(uint64(session)))
		if b == nil {
			return ErrNoSession
		}
		return b.ForEach(func(k, v []byte) error {
			if len(v) < 8 {
				return errors.Errorf("session %d input %d: record too short",
					session, unmarshalSeq(k))
			}
			inputs = append(inputs, unmarshalInput(v))
			return nil
		})
	})
	return inputs, err
}
