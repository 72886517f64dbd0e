// Package logutil provides logging utilities.
package logutil

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// LogDirEnv names the environment variable that overrides the log directory.
const LogDirEnv = "TERMEVENTS_LOG_DIR"

var (
	mutex   sync.Mutex
	out     io.Writer = io.Discard
	current io.Closer
	loggers []*log.Logger
	// Overridden in tests.
	now = time.Now
)

// GetLogger gets a logger with a prefix. Output is discarded until one of the
// SetOutput functions is called.
func GetLogger(prefix string) *log.Logger {
	mutex.Lock()
	defer mutex.Unlock()
	logger := log.New(out, prefix, log.LstdFlags|log.Lmicroseconds)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers obtained with GetLogger to the
// new io.Writer. If the old output was a file opened by SetOutputFile or
// SetOutputDir, it is closed.
func SetOutput(newout io.Writer) {
	mutex.Lock()
	defer mutex.Unlock()
	setOutput(newout, nil)
}

func setOutput(newout io.Writer, file io.Closer) {
	if current != nil {
		current.Close()
	}
	current = file
	out = newout
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

// SetOutputFile redirects the output of all loggers obtained with GetLogger to
// the named file, which is opened for appending. If the old output was a file
// opened by SetOutputFile, it is closed. An empty name discards the output.
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(err, "open log file")
	}
	mutex.Lock()
	defer mutex.Unlock()
	setOutput(file, file)
	return nil
}

// SetOutputDir creates dir if needed and redirects output to a file in it named
// after base and the current date, like base.2006-01-02. When the date changes,
// output moves on to the file of the new date. It returns the path of the
// current file.
func SetOutputDir(dir, base string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "create log directory")
	}
	w := &dailyWriter{dir: dir, base: base}
	if err := w.openFor(now()); err != nil {
		return "", err
	}
	mutex.Lock()
	defer mutex.Unlock()
	setOutput(w, w)
	return w.name, nil
}

// Appends to the file of the day of each write.
type dailyWriter struct {
	dir, base string

	mutex sync.Mutex
	name  string
	file  *os.File
}

func (w *dailyWriter) Write(p []byte) (int, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err := w.openFor(now()); err != nil {
		return 0, err
	}
	return w.file.Write(p)
}

// Opens the file for the day of t unless it is already open. The caller must
// hold the mutex, or own w exclusively.
func (w *dailyWriter) openFor(t time.Time) error {
	name := filepath.Join(w.dir, DailyName(w.base, t))
	if name == w.name {
		return nil
	}
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(err, "open log file")
	}
	if w.file != nil {
		w.file.Close()
	}
	w.name, w.file = name, file
	return nil
}

func (w *dailyWriter) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file, w.name = nil, ""
	return err
}

// DailyName returns the name of the log file of base for the day of t.
func DailyName(base string, t time.Time) string {
	return base + "." + t.Format("2006-01-02")
}

// LogDir returns the directory for log files: $TERMEVENTS_LOG_DIR if set,
// otherwise ~/.termevents/logs, otherwise a directory under the system
// temporary directory.
func LogDir() string {
	if dir := os.Getenv(LogDirEnv); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".termevents", "logs")
	}
	return filepath.Join(os.TempDir(), "termevents")
}
