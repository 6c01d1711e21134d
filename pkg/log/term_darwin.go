package log

import (
	"os"

	"golang.org/x/sys/unix"
)

// isTerminal reports whether the file is attached to a terminal.
func isTerminal(f *os.File) bool {
	_, err := unix.IoctlGetTermios(int(f.Fd()), unix.TIOCGETA)
	return err == nil
}
