//go:build linux

package tty

import "golang.org/x/sys/unix"

// flushInput drops bytes typed before the game took over the terminal.
func flushInput(fd int) {
	_ = unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH)
}
