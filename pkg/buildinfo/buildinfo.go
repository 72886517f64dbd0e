// Package buildinfo contains build information.
//
// Build information should be set during compilation by passing
// -ldflags "-X github.com/termevents/termevents/pkg/buildinfo.VersionSuffix=value"
// to "go build".
package buildinfo

import (
	"fmt"
	"os"
	"runtime"

	"github.com/termevents/termevents/pkg/prog"
)

// Version identifies the version of termevents. On development commits, it
// identifies the next release.
const Version = "v0.2.0"

// VersionSuffix is appended to Version in the output of "termevents
// --version" to build the full version string.
var VersionSuffix = "-dev.unknown"

// Program is the buildinfo subprogram.
var Program prog.Program = program{}

type program struct{}

func (program) Run(fds [3]*os.File, f *prog.Flags, _ []string) error {
	if !f.Version {
		return prog.ErrNotSuitable
	}
	fmt.Fprintf(fds[1], "termevents %s%s (%s)\n", Version, VersionSuffix, runtime.Version())
	return nil
}
