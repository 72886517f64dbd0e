// Package cli implements the capture loop that reads events from a terminal
// and shows them in an event table.
package cli

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/termevents/termevents/pkg/cli/term"
	"github.com/termevents/termevents/pkg/config"
	"github.com/termevents/termevents/pkg/logutil"
	"github.com/termevents/termevents/pkg/store/storedefs"
	"github.com/termevents/termevents/pkg/sys"
	"github.com/termevents/termevents/pkg/ui"
)

var logger = logutil.GetLogger("[cli] ")

// App reads events from In until one of the budgets in Config is exhausted,
// writing a row of Table for each.
type App struct {
	Config config.Config
	// In is the input stream. Out is the terminal that setup sequences are
	// written to; it is only used when Raw is set.
	In, Out *os.File
	// Raw sets up the terminal for the duration of Run. It should only be
	// set when In is a terminal.
	Raw   bool
	Table *EventTable

	// Store, if not nil, receives the raw spans of the session.
	Store storedefs.Store
	// Label of the recorded session.
	Label string
}

// Result summarizes a finished Run.
type Result struct {
	// Number of events read.
	Inputs int
	// Time from the start of the loop to its end.
	Elapsed time.Duration
	// Whether the loop ended because of Ctrl-C.
	Interrupted bool
	// Sequence number of the recorded session, or 0 when not recording.
	Session int
}

// Run runs the capture loop. It returns when the time budget or the input
// budget is exhausted, Ctrl-C is read and Config.ExitOnInterrupt is set, or
// the input ends. Budgets that are zero are unlimited.
func (a *App) Run() (res Result, err error) {
	cfg := a.Config
	if a.Raw {
		restore, setupErr := term.Setup(a.In, a.Out, cfg.SetupOptions())
		if setupErr != nil {
			return res, setupErr
		}
		defer func() {
			restoreErr := restore()
			if r := recover(); r != nil {
				logger.Printf("panic: %v\n%s", r, sys.Stack())
				panic(r)
			}
			if err == nil && restoreErr != nil {
				err = restoreErr
			}
		}()
	}

	reader, err := term.NewReader(a.In, cfg.FlushTimeout.D())
	if err != nil {
		return res, err
	}
	defer reader.Close()

	start := time.Now()
	if a.Store != nil {
		res.Session, err = a.Store.AddSession(storedefs.Session{
			Started: start, Term: os.Getenv("TERM"), Label: a.Label})
		if err != nil {
			return res, errors.Wrap(err, "create session")
		}
		logger.Printf("recording session %d", res.Session)
	}
	if a.Raw && cfg.Inline {
		if err := a.Table.Reserve(cfg.InlineHeight); err != nil {
			return res, err
		}
	}
	if err := a.Table.Header(); err != nil {
		return res, err
	}
	defer func() {
		res.Elapsed = time.Since(start)
		a.Table.Finish()
		logger.Printf("session ended after %d inputs in %v, interrupted: %v",
			res.Inputs, res.Elapsed, res.Interrupted)
	}()

	timeout := cfg.Timeout.D()
	budgetLeft := func() bool {
		if cfg.MaxInputs > 0 && res.Inputs >= cfg.MaxInputs {
			return false
		}
		return timeout <= 0 || time.Since(start) < timeout
	}
	var resized <-chan os.Signal
	if a.Raw {
		ch, stop := sys.NotifyResize()
		defer stop()
		resized = ch
	}
	for budgetLeft() {
		select {
		case <-resized:
			if _, width := sys.WinSize(a.Out); width > 0 {
				a.Table.Width = width
			}
		default:
		}
		elapsed := time.Since(start)
		a.Table.Status(res.Inputs, cfg.MaxInputs, elapsed, timeout)
		wait := cfg.DrawTimeout.D()
		if timeout > 0 {
			wait = max(min(wait, timeout-elapsed), 0)
		}

		span, err := reader.ReadSpan(wait)
		// Drain the spans that are already available before redrawing the
		// status line.
		for err == nil {
			if err := a.handle(span, start, &res); err != nil {
				return res, err
			}
			if res.Interrupted || !budgetLeft() {
				return res, nil
			}
			span, err = reader.ReadSpan(0)
		}
		switch {
		case err == term.ErrTimeout:
		case err == io.EOF:
			return res, nil
		default:
			logger.Printf("read failed after %d inputs: %v", res.Inputs, err)
			return res, err
		}
	}
	return res, nil
}

func (a *App) handle(span []byte, start time.Time, res *Result) error {
	in, err := a.Table.Row(span)
	if err != nil {
		return errors.Wrap(err, "write event")
	}
	res.Inputs++
	if a.Store != nil {
		err := a.Store.AddInput(res.Session,
			storedefs.Input{Offset: time.Since(start), Bytes: span})
		if err != nil {
			return errors.Wrap(err, "record input")
		}
	}
	if a.Config.ExitOnInterrupt && in.Event == term.KeyEvent(ui.K('c', ui.Ctrl)) {
		res.Interrupted = true
	}
	return nil
}
