// Package testutil contains common test utilities.
package testutil

import (
	"os"
	"path/filepath"
)

// Cleanuper wraps the Cleanup method. It is a subset of [testing.TB], thus
// satisfied by [*testing.T] and [*testing.B].
type Cleanuper interface {
	Cleanup(func())
}

// Fataler wraps the Helper and Fatal methods. It is a subset of
// [testing.TB].
type Fataler interface {
	Helper()
	Fatal(args ...any)
}

// TB is the subset of [testing.TB] used by helpers that both clean up and
// fail.
type TB interface {
	Cleanuper
	Fataler
}

// Pipe creates a pipe with os.Pipe and closes both ends when the test
// finishes.
func Pipe(t TB) (r, w *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	return r, w
}

// TempDir creates a temporary directory, with symlinks in its path resolved,
// and removes it when the test finishes.
func TempDir(t TB) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "termeventstest")
	if err != nil {
		t.Fatal(err)
	}
	dir, err = filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}
