//go:build !linux && !darwin && !netbsd && !solaris && !openbsd && !freebsd && !js && !wasm
// +build !linux,!darwin,!netbsd,!solaris,!openbsd,!freebsd,!js,!wasm

package main

import "os"

var supportsGetOwnership = false

func getOwnership(info os.FileInfo) (int, int, bool) {
	return 0, 0, false
}

func stderrIsTerminal() bool {
	return false
}
