package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/termevents/termevents/pkg/cli/term"
	"github.com/termevents/termevents/pkg/config"
	"github.com/termevents/termevents/pkg/logutil"
	"github.com/termevents/termevents/pkg/prog"
	"github.com/termevents/termevents/pkg/store"
	"github.com/termevents/termevents/pkg/store/storedefs"
	"github.com/termevents/termevents/pkg/sys"
)

// Program is the capture subprogram. It reads events from stdin, setting up
// the terminal if stdin is one, and shows them on stdout.
type Program struct{}

func (Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if len(args) > 0 {
		return prog.BadUsage("arguments are not allowed")
	}
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	setupLogs(cfg, f)

	tty := sys.IsATTY(fds[0].Fd())
	_, width := sys.WinSize(fds[1])
	app := &App{
		Config: cfg,
		In:     fds[0],
		Out:    fds[1],
		Raw:    tty,
		Table: &EventTable{
			Out:   fds[1],
			Color: sys.IsATTY(fds[1].Fd()),
			Live:  tty,
			Width: width,
		},
		Label: f.Label,
	}
	if cfg.Record {
		st, err := openStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
		app.Store = st
	}

	res, err := app.Run()
	if err != nil {
		return err
	}
	fmt.Fprintf(fds[2], "%d inputs in %.1fs\n", res.Inputs, res.Elapsed.Seconds())
	if res.Session != 0 {
		fmt.Fprintf(fds[2], "recorded as session %d\n", res.Session)
	}
	return nil
}

// StoreProgram lists and replays recorded sessions. It is only suitable when
// --list-sessions or --replay is given.
type StoreProgram struct{}

func (StoreProgram) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if !f.ListSessions && !f.IsSet("replay") {
		return prog.ErrNotSuitable
	}
	if len(args) > 0 {
		return prog.BadUsage("arguments are not allowed")
	}
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	setupLogs(cfg, f)

	st, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if f.ListSessions {
		return listSessions(fds, st)
	}
	return replay(fds, cfg, st, f.Replay, f.Fast)
}

func openStore(path string) (store.DBStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "create store directory")
	}
	return store.NewStore(path)
}

func listSessions(fds [3]*os.File, st storedefs.Store) error {
	sessions, err := st.Sessions()
	if err != nil {
		return err
	}
	for _, s := range sessions {
		fmt.Fprintf(fds[1], "%d\t%s\t%s\t%d inputs\t%s\n",
			s.Seq, s.Started.Format(time.DateTime), s.Term, s.Inputs, s.Label)
	}
	return nil
}

// Replays a recorded session by writing its inputs into a pipe, so that they
// are segmented and decoded the same way as live input.
func replay(fds [3]*os.File, cfg config.Config, st storedefs.Store, seq int, fast bool) error {
	session, err := st.Session(seq)
	if err != nil {
		return errors.Wrapf(err, "session %d", seq)
	}
	inputs, err := st.Inputs(seq)
	if err != nil {
		return err
	}
	r, w, err := os.Pipe()
	if err != nil {
		return errors.Wrap(err, "create replay pipe")
	}
	defer r.Close()
	flushGap := 2 * cfg.FlushTimeout.D()
	if flushGap <= 0 {
		flushGap = 2 * term.DefaultFlushTimeout
	}
	go func() {
		defer w.Close()
		start := time.Now()
		// A span that was cut off by a flush must be flushed again before the
		// next span is written, or the two are joined.
		var notBefore time.Time
		for _, in := range inputs {
			due := notBefore
			if !fast && start.Add(in.Offset).After(due) {
				due = start.Add(in.Offset)
			}
			time.Sleep(time.Until(due))
			if _, err := w.Write(in.Bytes); err != nil {
				logger.Printf("replay of session %d stopped: %v", seq, err)
				return
			}
			notBefore = time.Time{}
			if !term.Standalone(in.Bytes) {
				notBefore = time.Now().Add(flushGap)
			}
		}
	}()

	// The recording already ended within its budgets.
	cfg.Timeout = 0
	cfg.MaxInputs = 0
	cfg.ExitOnInterrupt = false
	app := &App{
		Config: cfg,
		In:     r,
		Table:  &EventTable{Out: fds[1], Color: sys.IsATTY(fds[1].Fd())},
	}
	fmt.Fprintf(fds[1], "Session %d (%s, %s) %s\n",
		session.Seq, session.Term, session.Started.Format(time.DateTime), session.Label)
	res, err := app.Run()
	if err != nil {
		return err
	}
	fmt.Fprintf(fds[2], "%d inputs replayed\n", res.Inputs)
	return nil
}

// Builds the config from the defaults, the config file and the flags, in
// increasing precedence.
func loadConfig(f *prog.Flags) (config.Config, error) {
	cfg := config.Default()
	rc := f.RC
	if rc == "" {
		// A missing config file is not an error.
		rc, _ = config.LocateRcfile(config.DefaultConfigLocator)
	}
	if rc != "" {
		if err := cfg.ReadFilename(rc); err != nil {
			return cfg, err
		}
	}

	if f.IsSet("timeout") {
		cfg.Timeout = config.Duration(f.Timeout * float64(time.Second))
	}
	if f.IsSet("max-inputs") {
		cfg.MaxInputs = f.MaxInputs
	}
	if f.IsSet("flush-timeout") {
		cfg.FlushTimeout = config.Duration(f.FlushTimeout)
	}
	if f.NoMouse {
		cfg.CaptureMouse = false
	}
	if f.NoPaste {
		cfg.BracketedPaste = false
	}
	if f.Inline {
		cfg.Inline = true
	}
	if f.IsSet("inline-height") {
		cfg.InlineHeight = f.InlineHeight
	}
	if f.Record {
		cfg.Record = true
	}
	if f.DB != "" {
		cfg.DBPath = f.DB
	}

	if err := cfg.Validate(); err != nil {
		return cfg, prog.BadUsage(err.Error())
	}
	return cfg, nil
}

// Sets up disk logging, unless --log was given, which has been handled by
// prog.Run.
func setupLogs(cfg config.Config, f *prog.Flags) {
	if f.Log != "" || !cfg.DiskLogs {
		return
	}
	dir := cfg.LogDir
	if dir == "" {
		dir = logutil.LogDir()
	}
	if _, err := logutil.SetOutputDir(dir, cfg.AppName); err != nil {
		// Logs are not essential.
		logger.Printf("cannot set up logs in %s: %v", dir, err)
	}
}
