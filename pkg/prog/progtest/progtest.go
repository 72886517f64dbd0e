// Package progtest contains utilities for testing [prog.Program] instances.
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/termevents/termevents/pkg/prog"
	"github.com/termevents/termevents/pkg/testutil"
)

// Case is a test case for Test.
type Case struct {
	args []string
	// Stdin of the program; empty means an empty pipe.
	stdin string

	want result
}

type result struct {
	exitStatus int
	stdout     output
	stderr     output
}

type output struct {
	content     string
	partial     bool
	dontCompare bool
}

// ThatTermevents returns a new Case with the specified CLI arguments.
//
// The new Case expects the program run to exit with 0, and write nothing to
// stdout or stderr.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "termevents --bad-flag" exits with 2
// reads like:
//
//	ThatTermevents("--bad-flag").ExitsWith(2)
func ThatTermevents(args ...string) Case {
	return Case{args: append([]string{"termevents"}, args...)}
}

// WithStdin returns an altered Case that feeds the given text on stdin.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark tests that otherwise don't
// have any expectations.
func (c Case) DoesNothing() Case { return c }

// ExitsWith returns an altered Case that requires the program run to return
// with the given exit status.
func (c Case) ExitsWith(code int) Case {
	c.want.exitStatus = code
	return c
}

// WritesStdout returns an altered Case that requires the program run to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.stdout = output{content: s}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program run
// to write output to stdout that contains the given text as a substring.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.stdout = output{content: s, partial: true}
	return c
}

// IgnoresStdout returns an altered Case that does not check stdout.
func (c Case) IgnoresStdout() Case {
	c.want.stdout = output{dontCompare: true}
	return c
}

// WritesStderr returns an altered Case that requires the program run to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.stderr = output{content: s}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program run
// to write output to stderr that contains the given text as a substring.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.stderr = output{content: s, partial: true}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			r := run(t, p, c.args, c.stdin)
			if r.exitStatus != c.want.exitStatus {
				t.Errorf("got exit status %v, want %v", r.exitStatus, c.want.exitStatus)
			}
			if !matchOutput(r.stdout, c.want.stdout) {
				t.Errorf("got stdout %q, want %s", r.stdout.content, c.want.stdout)
			}
			if !matchOutput(r.stderr, c.want.stderr) {
				t.Errorf("got stderr %q, want %s", r.stderr.content, c.want.stderr)
			}
		})
	}
}

// Run runs a Program with the given arguments and stdin. It returns the
// program's exit status and output.
func Run(t *testing.T, p prog.Program, stdin string, args ...string) (exit int, stdout, stderr string) {
	r := run(t, p, append([]string{"termevents"}, args...), stdin)
	return r.exitStatus, r.stdout.content, r.stderr.content
}

func run(t *testing.T, p prog.Program, args []string, stdin string) result {
	r0, w0 := testutil.Pipe(t)
	r1, w1 := testutil.Pipe(t)
	r2, w2 := testutil.Pipe(t)

	go func() {
		w0.WriteString(stdin)
		w0.Close()
	}()
	// Drain the outputs concurrently so that a program writing more than a
	// pipe can buffer does not block.
	stdout := captureOutput(r1)
	stderr := captureOutput(r2)

	exitStatus := prog.Run([3]*os.File{r0, w1, w2}, args, p)
	w1.Close()
	w2.Close()
	return result{exitStatus, output{content: <-stdout}, output{content: <-stderr}}
}

func captureOutput(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		b, _ := io.ReadAll(r)
		ch <- string(b)
	}()
	return ch
}

func matchOutput(got, want output) bool {
	if want.dontCompare {
		return true
	}
	if want.partial {
		return strings.Contains(got.content, want.content)
	}
	return got.content == want.content
}

func (o output) String() string {
	if o.partial {
		return "text containing " + strings.TrimPrefix(o.content, "\n")
	}
	return o.content
}
