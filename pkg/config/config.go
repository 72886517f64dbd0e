// Package config holds the configuration of a capture session, read from
// defaults, a YAML file and command-line flags, in increasing precedence.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/termevents/termevents/pkg/cli/term"
)

// Config configures a capture session. The zero value is not useful; start
// from Default.
type Config struct {
	// AppName is used in the title and in the names of log files.
	AppName string `yaml:"app_name"`

	CaptureMouse   bool `yaml:"capture_mouse"`
	BracketedPaste bool `yaml:"bracketed_paste"`
	HideCursor     bool `yaml:"hide_cursor"`
	// Inline keeps the table in the main screen, using InlineHeight rows,
	// instead of switching to the alternate screen.
	Inline       bool `yaml:"inline"`
	InlineHeight int  `yaml:"inline_height"`

	DiskLogs bool `yaml:"disk_logs"`
	// LogDir overrides the log directory; see logutil.LogDir.
	LogDir string `yaml:"log_dir"`

	// FlushTimeout is how long a partial escape sequence may wait for more
	// bytes before it is flushed as-is.
	FlushTimeout Duration `yaml:"flush_timeout"`
	// DrawTimeout is how long to wait for input before refreshing the status
	// line.
	DrawTimeout Duration `yaml:"draw_timeout"`
	// Timeout is the wall-clock budget of the session. Zero means unlimited.
	Timeout Duration `yaml:"timeout"`
	// MaxInputs is the number of events after which the session ends. Zero
	// means unlimited.
	MaxInputs int `yaml:"max_inputs"`
	// ExitOnInterrupt ends the session when Ctrl-C is read.
	ExitOnInterrupt bool `yaml:"exit_on_interrupt"`

	// Record saves the raw input of the session to the capture store at
	// DBPath.
	Record bool   `yaml:"record"`
	DBPath string `yaml:"db_path"`
}

// Default values.
const (
	DefaultAppName      = "termevents"
	DefaultDrawTimeout  = 100 * time.Millisecond
	DefaultTimeout      = 30 * time.Second
	DefaultMaxInputs    = 10
	DefaultInlineHeight = 12
)

// Default returns the default configuration.
func Default() Config {
	return Config{
		AppName:         DefaultAppName,
		CaptureMouse:    true,
		BracketedPaste:  true,
		HideCursor:      true,
		InlineHeight:    DefaultInlineHeight,
		DiskLogs:        true,
		FlushTimeout:    Duration(term.DefaultFlushTimeout),
		DrawTimeout:     Duration(DefaultDrawTimeout),
		Timeout:         Duration(DefaultTimeout),
		MaxInputs:       DefaultMaxInputs,
		ExitOnInterrupt: true,
		DBPath:          DefaultDBPath(),
	}
}

// DefaultDBPath returns the default path of the capture store,
// ~/.termevents/captures.db.
func DefaultDBPath() string {
	home, err := homedirFunc()
	if err != nil {
		return filepath.Join(os.TempDir(), "termevents", "captures.db")
	}
	return filepath.Join(home, ".termevents", "captures.db")
}

// ReadFilename reads the YAML config file at filename over c. Fields absent
// from the file keep their values.
func (c *Config) ReadFilename(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to open file %s", filename)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		if err == io.EOF {
			// Empty file.
			return nil
		}
		return errors.Wrapf(err, "failed to decode YAML in %s", filename)
	}
	return nil
}

// Validate checks that the values of c are usable.
func (c *Config) Validate() error {
	switch {
	case c.FlushTimeout <= 0:
		return errors.Errorf("flush timeout must be positive, got %v", c.FlushTimeout)
	case c.DrawTimeout <= 0:
		return errors.Errorf("draw timeout must be positive, got %v", c.DrawTimeout)
	case c.Timeout < 0:
		return errors.Errorf("timeout must not be negative, got %v", c.Timeout)
	case c.MaxInputs < 0:
		return errors.Errorf("max inputs must not be negative, got %d", c.MaxInputs)
	case c.Inline && c.InlineHeight <= 0:
		return errors.Errorf("inline mode needs a positive height, got %d", c.InlineHeight)
	case c.Record && c.DBPath == "":
		return errors.New("recording needs a database path")
	}
	return nil
}

// SetupOptions returns the terminal modes the session needs.
func (c *Config) SetupOptions() term.SetupOptions {
	return term.SetupOptions{
		BracketedPaste: c.BracketedPaste,
		Mouse:          c.CaptureMouse,
		HideCursor:     c.HideCursor,
		AltScreen:      !c.Inline,
	}
}

// Duration is a time.Duration written in YAML as a string like "35ms".
type Duration time.Duration

// D returns d as a time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Locator locates a config file in a given directory.
type Locator interface {
	Locate(string) (string, error)
}

// LocatorFunc is a function that implements Locator.
type LocatorFunc func(string) (string, error)

// Locate calls the underlying function.
func (f LocatorFunc) Locate(dir string) (string, error) {
	return f(dir)
}

var configFilenames = []string{"config.yaml", "config.yml"}

// DefaultConfigLocator searches for a config file with one of the known
// filenames (config.yaml, config.yml) in the given directory.
var DefaultConfigLocator = LocatorFunc(func(dir string) (string, error) {
	for _, basename := range configFilenames {
		file := filepath.Join(dir, basename)
		if _, err := os.Stat(file); err == nil {
			return file, nil
		}
	}
	return "", errors.Errorf("config file not found in %s", dir)
})

var homedirFunc = os.UserHomeDir

// LocateRcfile attempts to find the config file in various locations.
func LocateRcfile(locater Locator) (string, error) {
	// Try in this order:
	//	  $XDG_CONFIG_HOME/termevents/config.{yaml,yml}
	//	  $XDG_CONFIG_DIR/termevents/config.{yaml,yml} (for each XDG_CONFIG_DIR
	//	  listed in $XDG_CONFIG_DIRS)
	//	  ~/.termevents/config.{yaml,yml}

	home, uErr := homedirFunc()

	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		if file, err := locater.Locate(filepath.Join(dir, "termevents")); err == nil {
			return file, nil
		}
	} else if uErr == nil {
		if file, err := locater.Locate(filepath.Join(home, ".config", "termevents")); err == nil {
			return file, nil
		}
	}

	if dirs := os.Getenv("XDG_CONFIG_DIRS"); dirs != "" {
		for _, dir := range strings.Split(dirs, string(filepath.ListSeparator)) {
			if file, err := locater.Locate(filepath.Join(dir, "termevents")); err == nil {
				return file, nil
			}
		}
	}

	if uErr == nil {
		if file, err := locater.Locate(filepath.Join(home, ".termevents")); err == nil {
			return file, nil
		}
	}

	return "", errors.New("config file not found")
}
