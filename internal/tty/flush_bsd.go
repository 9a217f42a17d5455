//go:build darwin || freebsd || netbsd || openbsd

package tty

import "golang.org/x/sys/unix"

// flushInput drops pending typeahead. A zero argument flushes both queues,
// which is harmless before the first frame is drawn.
func flushInput(fd int) {
	_ = unix.IoctlSetPointerInt(fd, unix.TIOCFLUSH, 0)
}
