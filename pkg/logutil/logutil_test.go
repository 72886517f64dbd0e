package logutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/termevents/termevents/pkg/testutil"
)

func TestGetLogger_DiscardsByDefault(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })
	logger := GetLogger("[test] ")
	// Must not panic or write anywhere visible.
	logger.Println("nothing")
}

func TestSetOutput(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })
	logger := GetLogger("[test] ")
	var buf bytes.Buffer
	SetOutput(&buf)

	logger.Println("hello")
	if s := buf.String(); !strings.Contains(s, "[test] ") || !strings.Contains(s, "hello") {
		t.Errorf("got log %q", s)
	}
}

func TestSetOutputFile(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })
	dir := testutil.TempDir(t)
	fname := filepath.Join(dir, "log")
	logger := GetLogger("[file] ")

	if err := SetOutputFile(fname); err != nil {
		t.Fatal(err)
	}
	logger.Println("to file")
	SetOutput(io.Discard)

	content, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "to file") {
		t.Errorf("got file content %q", content)
	}
}

func TestSetOutputDir(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })
	dir := filepath.Join(testutil.TempDir(t), "logs")

	fname, err := SetOutputDir(dir, "termevents.log")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, DailyName("termevents.log", time.Now()))
	if fname != want {
		t.Errorf("got %q, want %q", fname, want)
	}
	if _, err := os.Stat(fname); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestSetOutputDir_RollsOverAtMidnight(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })
	dir := testutil.TempDir(t)
	day := time.Date(2024, 3, 9, 23, 59, 0, 0, time.Local)
	testutil.Set(t, &now, func() time.Time { return day })
	logger := GetLogger("[roll] ")

	if _, err := SetOutputDir(dir, "x.log"); err != nil {
		t.Fatal(err)
	}
	logger.Println("before midnight")
	day = day.Add(2 * time.Minute)
	logger.Println("after midnight")
	SetOutput(io.Discard)

	for name, want := range map[string]string{
		"x.log.2024-03-09": "before midnight",
		"x.log.2024-03-10": "after midnight",
	} {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("cannot read %s: %v", name, err)
			continue
		}
		if lines := strings.Count(string(content), "\n"); lines != 1 || !strings.Contains(string(content), want) {
			t.Errorf("%s has content %q, want one line with %q", name, content, want)
		}
	}
}

func TestDailyName(t *testing.T) {
	tm := time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)
	if got := DailyName("x.log", tm); got != "x.log.2024-03-09" {
		t.Errorf("got %q", got)
	}
}

func TestLogDir(t *testing.T) {
	testutil.Setenv(t, LogDirEnv, "/custom/logs")
	if got := LogDir(); got != "/custom/logs" {
		t.Errorf("with %s set, got %q", LogDirEnv, got)
	}

	testutil.Setenv(t, LogDirEnv, "")
	home := testutil.TempDir(t)
	testutil.Setenv(t, "HOME", home)
	if got, want := LogDir(), filepath.Join(home, ".termevents", "logs"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
