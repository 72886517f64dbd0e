//go:build unix

package term

import (
	"io"
	"os"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/termevents/termevents/pkg/sys/eunix"
	"github.com/termevents/termevents/pkg/testutil"
)

func TestFileReader_WaitAndRead(t *testing.T) {
	r, w := setupFileReader(t)

	content := []byte("0123456789")
	w.Write(content)

	ready, err := r.Wait(-1)
	if !ready || err != nil {
		t.Fatalf("Wait -> %v, %v, want true, nil", ready, err)
	}
	buf := make([]byte, 64)
	n, err := r.Read(buf)
	if err != nil {
		t.Errorf("got err %v, want nil", err)
	}
	if string(buf[:n]) != string(content) {
		t.Errorf("got %q, want %q", buf[:n], content)
	}
}

func TestFileReader_EOF(t *testing.T) {
	r, w := setupFileReader(t)

	w.Close()
	ready, err := r.Wait(-1)
	if !ready || err != nil {
		t.Fatalf("Wait -> %v, %v, want true, nil", ready, err)
	}
	_, err = r.Read(make([]byte, 4))
	if err != io.EOF {
		t.Errorf("got err %v, want %v", err, io.EOF)
	}
}

func TestFileReader_Timeout(t *testing.T) {
	r, _ := setupFileReader(t)

	ready, err := r.Wait(testutil.Scaled(time.Millisecond))
	if ready || err != nil {
		t.Errorf("Wait -> %v, %v, want false, nil", ready, err)
	}
}

func TestFileReader_Stop(t *testing.T) {
	r, _ := setupFileReader(t)

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Wait(-1)
		errCh <- err
	}()
	r.Stop()

	if err := <-errCh; err != ErrStopped {
		t.Errorf("got err %v, want %v", err, ErrStopped)
	}
}

func TestFileReader_ReadDoesNotBlock(t *testing.T) {
	var p [2]int
	if err := unix.Pipe(p[:]); err != nil {
		t.Fatal(err)
	}
	// A descriptor in blocking mode, like a terminal inherited as stdin.
	pr := os.NewFile(uintptr(p[0]), "r")
	pw := os.NewFile(uintptr(p[1]), "w")
	defer pr.Close()
	defer pw.Close()

	r, err := newFileReader(pr)
	if err != nil {
		t.Fatal(err)
	}
	// Reading with nothing available, as after a spurious wakeup.
	n, err := r.Read(make([]byte, 4))
	if n != 0 || err != nil {
		t.Errorf("Read on empty pipe -> %d, %v, want 0, nil", n, err)
	}

	r.Close()
	if nonblock, _ := eunix.SetNonblock(pr, false); nonblock {
		t.Errorf("Close did not restore blocking mode")
	}
}

func TestFileReader_RetriesInterruptedWaitWithRemainingTimeout(t *testing.T) {
	r, _ := setupFileReader(t)
	pause := testutil.Scaled(20 * time.Millisecond)
	var timeouts []time.Duration
	testutil.Set(t, &waitForRead, func(timeout time.Duration, files ...*os.File) ([]bool, error) {
		timeouts = append(timeouts, timeout)
		if len(timeouts) == 1 {
			time.Sleep(pause)
			return make([]bool, len(files)), unix.EINTR
		}
		return make([]bool, len(files)), nil
	})

	timeout := testutil.Scaled(200 * time.Millisecond)
	ready, err := r.Wait(timeout)
	if ready || err != nil {
		t.Errorf("Wait -> %v, %v, want false, nil", ready, err)
	}
	if len(timeouts) != 2 {
		t.Fatalf("got %d waits, want 2", len(timeouts))
	}
	if timeouts[0] != timeout {
		t.Errorf("first wait got timeout %v, want %v", timeouts[0], timeout)
	}
	if timeouts[1] <= 0 || timeouts[1] > timeout-pause {
		t.Errorf("retried wait got timeout %v, want at most %v", timeouts[1], timeout-pause)
	}
}

func TestFileReader_RetriesInterruptedWaitForever(t *testing.T) {
	r, _ := setupFileReader(t)
	var timeouts []time.Duration
	testutil.Set(t, &waitForRead, func(timeout time.Duration, files ...*os.File) ([]bool, error) {
		timeouts = append(timeouts, timeout)
		ready := make([]bool, len(files))
		if len(timeouts) == 1 {
			return ready, unix.EINTR
		}
		ready[0] = true
		return ready, nil
	})

	if ready, err := r.Wait(-1); !ready || err != nil {
		t.Errorf("Wait -> %v, %v, want true, nil", ready, err)
	}
	if len(timeouts) != 2 || timeouts[0] != -1 || timeouts[1] != -1 {
		t.Errorf("got timeouts %v, want [-1 -1]", timeouts)
	}
}

func setupFileReader(t *testing.T) (fileReader, *os.File) {
	pr, pw := testutil.Pipe(t)
	r, err := newFileReader(pr)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(r.Close)
	return r, pw
}
