package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/termevents/termevents/pkg/cli/term"
	"github.com/termevents/termevents/pkg/testutil"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.Equal(t, term.DefaultFlushTimeout, c.FlushTimeout.D())
	require.Equal(t, 100*time.Millisecond, c.DrawTimeout.D())
	require.Equal(t, 30*time.Second, c.Timeout.D())
	require.Equal(t, 10, c.MaxInputs)
	require.True(t, c.CaptureMouse)
	require.True(t, c.BracketedPaste)
	require.True(t, c.ExitOnInterrupt)
	require.False(t, c.Record)
	require.NoError(t, c.Validate())
}

func TestReadFilename(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	txt := `
capture_mouse: false
flush_timeout: 50ms
timeout: 1m
max_inputs: 3
inline: true
inline_height: 8
`
	require.NoError(t, os.WriteFile(file, []byte(txt), 0o644))

	c := Default()
	require.NoError(t, c.ReadFilename(file))
	require.False(t, c.CaptureMouse)
	require.Equal(t, 50*time.Millisecond, c.FlushTimeout.D())
	require.Equal(t, time.Minute, c.Timeout.D())
	require.Equal(t, 3, c.MaxInputs)
	require.True(t, c.Inline)
	require.Equal(t, 8, c.InlineHeight)
	// Untouched fields keep their defaults.
	require.True(t, c.BracketedPaste)
	require.Equal(t, DefaultDrawTimeout, c.DrawTimeout.D())
}

func TestReadFilename_Empty(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	c := Default()
	require.NoError(t, c.ReadFilename(file))
	require.Equal(t, Default(), c)
}

func TestReadFilename_Errors(t *testing.T) {
	dir := t.TempDir()
	for name, txt := range map[string]string{
		"bad duration":  "flush_timeout: soon\n",
		"unknown field": "colour: red\n",
		"bad syntax":    "timeout: [\n",
	} {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".yaml")
			require.NoError(t, os.WriteFile(file, []byte(txt), 0o644))
			c := Default()
			require.Error(t, c.ReadFilename(file))
		})
	}

	c := Default()
	require.Error(t, c.ReadFilename(filepath.Join(dir, "missing.yaml")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero flush timeout", func(c *Config) { c.FlushTimeout = 0 }},
		{"zero draw timeout", func(c *Config) { c.DrawTimeout = 0 }},
		{"negative timeout", func(c *Config) { c.Timeout = Duration(-time.Second) }},
		{"negative max inputs", func(c *Config) { c.MaxInputs = -1 }},
		{"inline without height", func(c *Config) { c.Inline, c.InlineHeight = true, 0 }},
		{"record without db", func(c *Config) { c.Record, c.DBPath = true, "" }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := Default()
			test.mutate(&c)
			require.Error(t, c.Validate())
		})
	}
}

func TestSetupOptions(t *testing.T) {
	c := Default()
	require.Equal(t, term.SetupOptions{
		BracketedPaste: true, Mouse: true, HideCursor: true, AltScreen: true,
	}, c.SetupOptions())

	c.Inline = true
	c.CaptureMouse = false
	require.Equal(t, term.SetupOptions{
		BracketedPaste: true, HideCursor: true,
	}, c.SetupOptions())
}

func TestLocateRcfile(t *testing.T) {
	dir := t.TempDir()
	testutil.Set(t, &homedirFunc, func() (string, error) { return dir, nil })

	expected := []string{
		filepath.Join(dir, "termevents"),
		filepath.Join(dir, "1", "termevents"),
		filepath.Join(dir, "2", "termevents"),
		filepath.Join(dir, ".termevents"),
	}

	i := 0
	locater := LocatorFunc(func(dir string) (string, error) {
		require.True(t, i <= len(expected)-1, "Got %d directories, only have %d", i+1, len(expected))
		require.Equal(t, expected[i], dir)
		i++
		return "", errors.New("not found")
	})

	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", strings.Join(
		[]string{filepath.Join(dir, "1"), filepath.Join(dir, "2")},
		string(filepath.ListSeparator)))

	_, err := LocateRcfile(locater)
	require.Error(t, err)
	require.Equal(t, len(expected), i)

	expected[0] = filepath.Join(dir, ".config", "termevents")
	t.Setenv("XDG_CONFIG_HOME", "")
	i = 0
	_, err = LocateRcfile(locater)
	require.Error(t, err)
}

func TestLocateRcfile_DefaultLocator(t *testing.T) {
	dir := t.TempDir()
	confDir := filepath.Join(dir, ".termevents")
	require.NoError(t, os.MkdirAll(confDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "config.yml"), []byte("{}"), 0o644))

	testutil.Set(t, &homedirFunc, func() (string, error) { return dir, nil })
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_DIRS", "")

	file, err := LocateRcfile(DefaultConfigLocator)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(confDir, "config.yml"), file)
}

func TestDefaultDBPath(t *testing.T) {
	testutil.Set(t, &homedirFunc, func() (string, error) { return "/home/u", nil })
	require.Equal(t, filepath.Join("/home/u", ".termevents", "captures.db"), DefaultDBPath())
}
