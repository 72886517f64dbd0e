//go:build unix

package term

import (
	"os"

	"github.com/pkg/errors"

	"github.com/termevents/termevents/pkg/sys/eunix"
)

func setup(in, out *os.File, opts SetupOptions) (func() error, error) {
	// On Unix, use input file for changing termios. All fds pointing to the
	// same terminal are equivalent.
	fd := int(in.Fd())
	restoreTermios, err := eunix.MakeRaw(fd)
	if err != nil {
		return nil, errors.Wrap(err, "can't set up terminal attribute")
	}

	if seq := opts.enableSeq(); seq != "" {
		if _, err := out.WriteString(seq); err != nil {
			restoreTermios()
			return nil, errors.Wrap(err, "can't enable reporting modes")
		}
	}
	logger.Printf("terminal set up on fd %d with %+v", fd, opts)

	restore := func() error {
		var errVT error
		if seq := opts.disableSeq(); seq != "" {
			_, errVT = out.WriteString(seq)
		}
		errTermios := restoreTermios()
		logger.Printf("terminal on fd %d restored", fd)
		if errVT != nil {
			return errors.Wrap(errVT, "can't disable reporting modes")
		}
		return errors.Wrap(errTermios, "can't restore terminal attribute")
	}
	return restore, nil
}
