package buildinfo

import (
	"runtime"
	"testing"

	. "github.com/termevents/termevents/pkg/prog/progtest"
)

func TestProgram(t *testing.T) {
	Test(t, Program,
		ThatTermevents("--version").WritesStdout(
			"termevents "+Version+VersionSuffix+" ("+runtime.Version()+")\n"),
		ThatTermevents().ExitsWith(2).WritesStderr("internal error: no suitable subprogram\n"),
	)
}
