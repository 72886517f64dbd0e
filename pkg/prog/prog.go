// Package prog provides the entry point to termevents. It parses command-line
// flags and runs the first suitable subprogram: printing the version, listing
// or replaying recorded sessions, or capturing input from the terminal.
package prog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	flags "github.com/jessevdk/go-flags"

	"github.com/termevents/termevents/pkg/logutil"
)

// Flags keeps command-line flags.
type Flags struct {
	Timeout      float64       `short:"t" long:"timeout" value-name:"SECONDS" description:"Seconds to capture before exiting (default 30)"`
	MaxInputs    int           `short:"m" long:"max-inputs" value-name:"N" description:"Number of inputs to capture before exiting (default 10)"`
	FlushTimeout time.Duration `long:"flush-timeout" value-name:"DURATION" description:"How long a partial escape sequence waits for more bytes (default 35ms)"`

	NoMouse      bool `long:"no-mouse" description:"Do not enable mouse reporting"`
	NoPaste      bool `long:"no-paste" description:"Do not enable bracketed paste"`
	Inline       bool `long:"inline" description:"Draw in the main screen instead of the alternate screen"`
	InlineHeight int  `long:"inline-height" value-name:"ROWS" description:"Number of rows used in inline mode"`

	RC  string `long:"rc" value-name:"FILE" description:"Path to the config file"`
	Log string `long:"log" value-name:"FILE" description:"A file to write debug log to, instead of the daily log file"`

	Record bool   `long:"record" description:"Record the raw input to the capture store"`
	Label  string `long:"label" description:"Label of the recorded session"`
	DB     string `long:"db" value-name:"FILE" description:"Path to the capture store"`

	Replay       int  `long:"replay" value-name:"SESSION" description:"Replay a recorded session instead of reading the terminal"`
	Fast         bool `long:"fast" description:"Replay without the recorded gaps between inputs"`
	ListSessions bool `long:"list-sessions" description:"List recorded sessions"`

	Version bool `long:"version" description:"Show version and quit"`
	Help    bool `short:"h" long:"help" description:"Show usage help and quit"`

	set map[string]bool
}

// IsSet returns whether the flag with the given long name was given on the
// command line.
func (f *Flags) IsSet(long string) bool { return f.set[long] }

func newParser(f *Flags) *flags.Parser {
	// Errors and usage are printed explicitly.
	p := flags.NewParser(f, flags.PassDoubleDash)
	p.Name = "termevents"
	p.Usage = "[OPTIONS]"
	return p
}

func collectSet(g *flags.Group, set map[string]bool) {
	for _, opt := range g.Options() {
		if opt.IsSet() {
			set[opt.LongName] = true
		}
	}
	for _, sub := range g.Groups() {
		collectSet(sub, set)
	}
}

// Run parses command-line flags and runs the first applicable subprogram. It
// returns the exit status of the program.
func Run(fds [3]*os.File, args []string, p Program) int {
	f := &Flags{}
	parser := newParser(f)
	rest, err := parser.ParseArgs(args[1:])
	if err != nil {
		fmt.Fprintln(fds[2], err)
		parser.WriteHelp(fds[2])
		return 2
	}
	f.set = map[string]bool{}
	collectSet(parser.Command.Group, f.set)

	if f.Log != "" {
		if err := logutil.SetOutputFile(f.Log); err != nil {
			fmt.Fprintln(fds[2], err)
		}
	}

	if f.Help {
		parser.WriteHelp(fds[1])
		return 0
	}

	err = p.Run(fds, f, rest)
	if err == nil {
		return 0
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(fds[2], msg)
	}
	var badUsage badUsageError
	var exit exitError
	switch {
	case errors.As(err, &badUsage):
		parser.WriteHelp(fds[2])
	case errors.As(err, &exit):
		return exit.exit
	}
	return 2
}

// Composite returns a Program that tries each of the given programs,
// terminating at the first one that doesn't return NotSuitable().
func Composite(programs ...Program) Program {
	return compositeProgram(programs)
}

type compositeProgram []Program

func (cp compositeProgram) Run(fds [3]*os.File, f *Flags, args []string) error {
	for _, p := range cp {
		err := p.Run(fds, f, args)
		if err != ErrNotSuitable {
			return err
		}
	}
	// If we have reached here, all subprograms have returned ErrNotSuitable
	return ErrNotSuitable
}

// ErrNotSuitable is a special error that may be returned by Program.Run, to
// signify that this Program should not be run. It is useful when a Program is
// used in Composite.
var ErrNotSuitable = errors.New("internal error: no suitable subprogram")

// BadUsage returns a special error that may be returned by Program.Run. It
// causes the main function to print out a message, the usage information and
// exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by Program.Run. It causes
// the main function to exit with the given code without printing any error
// messages. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }

// Program represents a subprogram.
type Program interface {
	// Run runs the subprogram.
	Run(fds [3]*os.File, f *Flags, args []string) error
}

// Usage writes the usage help to w.
func Usage(w io.Writer) {
	newParser(&Flags{}).WriteHelp(w)
}
