//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package tty

func flushInput(int) {}
