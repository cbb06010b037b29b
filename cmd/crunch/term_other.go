//go:build solaris || js || wasm
// +build solaris js wasm

package main

func stderrIsTerminal() bool {
	return false
}
