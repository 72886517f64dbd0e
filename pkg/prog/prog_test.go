package prog_test

import (
	"os"
	"testing"
	"time"

	. "github.com/termevents/termevents/pkg/prog"
	"github.com/termevents/termevents/pkg/prog/progtest"
)

var (
	Test           = progtest.Test
	ThatTermevents = progtest.ThatTermevents
)

func TestCommonFlagHandling(t *testing.T) {
	Test(t, testProgram{},
		ThatTermevents("--bad-flag").
			ExitsWith(2).
			WritesStderrContaining("unknown flag `bad-flag'"),
		ThatTermevents("-t").
			ExitsWith(2).
			WritesStderrContaining("expected argument"),

		ThatTermevents("-h").
			WritesStdoutContaining("Usage:\n  termevents [OPTIONS]"),
		ThatTermevents("--help").
			WritesStdoutContaining("--flush-timeout=DURATION"),
	)
}

func TestFlagValues(t *testing.T) {
	p := &recordingProgram{}
	Test(t, p,
		ThatTermevents("-t", "2.5", "-m", "3", "--flush-timeout", "50ms",
			"--no-mouse", "--record", "--label", "demo", "rest").DoesNothing(),
	)
	f := p.flags
	if f.Timeout != 2.5 || f.MaxInputs != 3 || f.FlushTimeout != 50*time.Millisecond {
		t.Errorf("got timeout %v, max inputs %v, flush timeout %v",
			f.Timeout, f.MaxInputs, f.FlushTimeout)
	}
	if !f.NoMouse || f.NoPaste || !f.Record || f.Label != "demo" {
		t.Errorf("got switches %+v", f)
	}
	if len(p.args) != 1 || p.args[0] != "rest" {
		t.Errorf("got args %q, want [rest]", p.args)
	}
	for _, name := range []string{"timeout", "max-inputs", "no-mouse", "label"} {
		if !f.IsSet(name) {
			t.Errorf("IsSet(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"no-paste", "inline", "db"} {
		if f.IsSet(name) {
			t.Errorf("IsSet(%q) = true, want false", name)
		}
	}
}

func TestNoSuitableSubprogram(t *testing.T) {
	Test(t, testProgram{notSuitable: true},
		ThatTermevents().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{writeOut: "program 2"}),
		ThatTermevents().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{notSuitable: true}),
		ThatTermevents().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestBadUsageError(t *testing.T) {
	Test(t,
		testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatTermevents().ExitsWith(2).WritesStderrContaining("lorem ipsum\n"),
	)
}

func TestExitError(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(3)},
		ThatTermevents().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(0)},
		ThatTermevents().ExitsWith(0),
	)
}

func TestLogFlag(t *testing.T) {
	logPath := t.TempDir() + "/log"
	Test(t, testProgram{},
		ThatTermevents("--log", logPath).DoesNothing(),
	)
	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

type testProgram struct {
	notSuitable bool
	writeOut    string
	returnErr   error
}

func (p testProgram) Run(fds [3]*os.File, f *Flags, args []string) error {
	if p.notSuitable {
		return ErrNotSuitable
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}

type recordingProgram struct {
	flags *Flags
	args  []string
}

func (p *recordingProgram) Run(fds [3]*os.File, f *Flags, args []string) error {
	p.flags = f
	p.args = args
	return nil
}
