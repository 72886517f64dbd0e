//go:build unix

package sys

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"github.com/termevents/termevents/pkg/testutil"
)

func TestIsATTY(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	if !IsATTY(tty.Fd()) {
		t.Errorf("IsATTY(pty slave) = false, want true")
	}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()
	if IsATTY(r.Fd()) {
		t.Errorf("IsATTY(pipe) = true, want false")
	}
}

func TestWinSize(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: 30, Cols: 100}); err != nil {
		t.Skip("cannot set pty size:", err)
	}
	row, col := WinSize(tty)
	if row != 30 || col != 100 {
		t.Errorf("WinSize -> (%d, %d), want (30, 100)", row, col)
	}
}

func TestNotifyResize(t *testing.T) {
	ch, stop := NotifyResize()
	defer stop()

	if err := unix.Kill(os.Getpid(), unix.SIGWINCH); err != nil {
		t.Fatal(err)
	}
	select {
	case sig := <-ch:
		if sig != unix.SIGWINCH {
			t.Errorf("got signal %v, want SIGWINCH", sig)
		}
	case <-time.After(testutil.Scaled(time.Second)):
		t.Errorf("SIGWINCH not received")
	}
}

func TestStack(t *testing.T) {
	if stack := Stack(); !strings.Contains(stack, "TestStack") {
		t.Errorf("stack does not contain the calling function:\n%s", stack)
	}
}
