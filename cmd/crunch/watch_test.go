package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tdewolff/test"
)

func TestWatcherPaths(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	test.Error(t, os.Mkdir(sub, 0777))
	a := filepath.Join(dir, "a.js")
	test.Error(t, os.WriteFile(a, []byte("x=1"), 0644))

	w, err := NewWatcher(true)
	test.Error(t, err)
	defer w.Close()

	test.Error(t, w.AddPath(sub+string(os.PathSeparator)))
	test.Error(t, w.AddPath(a))
	test.That(t, w.dirs[sub])
	test.That(t, w.dirs[dir])

	test.That(t, w.watches(a))
	test.That(t, w.watches(filepath.Join(sub, "b.js")))
	test.That(t, !w.watches(filepath.Join(dir, "c.js")))
}

func TestWatcherIgnoreNext(t *testing.T) {
	w, err := NewWatcher(false)
	test.Error(t, err)
	defer w.Close()

	w.IgnoreNext("")
	w.IgnoreNext("out/a.js")
	test.That(t, w.ignored(filepath.Clean("out/a.js")))
	test.That(t, !w.ignored(filepath.Clean("out/a.js")))
	test.That(t, !w.ignored(""))
}
