//go:build darwin || freebsd || netbsd || openbsd
// +build darwin freebsd netbsd openbsd

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

func stderrIsTerminal() bool {
	_, err := unix.IoctlGetTermios(int(os.Stderr.Fd()), unix.TIOCGETA)
	return err == nil
}
