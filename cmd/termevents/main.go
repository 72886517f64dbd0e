// Termevents shows the events a terminal sends for each key press, mouse
// action and paste, together with the raw bytes they are decoded from. Raw
// input can be recorded and replayed later.
package main

import (
	"os"

	"github.com/termevents/termevents/pkg/buildinfo"
	"github.com/termevents/termevents/pkg/cli"
	"github.com/termevents/termevents/pkg/prog"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(buildinfo.Program, cli.StoreProgram{}, cli.Program{})))
}
