//go:build !linux && !darwin

package log

import "os"

// isTerminal reports whether the file is attached to a terminal.
// No termios on this platform; assume a non-interactive destination.
func isTerminal(f *os.File) bool {
	return false
}
