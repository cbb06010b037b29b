package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/tdewolff/crunch"
	"github.com/tdewolff/crunch/config"
	"github.com/tdewolff/test"
)

func TestMain(m *testing.M) {
	Error = log.New(io.Discard, "", 0)
	Warning = log.New(io.Discard, "", 0)
	Info = log.New(io.Discard, "", 0)
	os.Exit(m.Run())
}

func TestCreateTasks(t *testing.T) {
	fsys := fstest.MapFS{
		"a.js":        {},
		"dir/b.js":    {},
		"dir/c.css":   {},
		"dir/.d.js":   {},
		"dir/e.mjs":   {},
		"dir/.f/g.js": {},
	}

	tests := []struct {
		input, output string
		tasks         map[string]string
	}{
		// root file
		{"a.js", "", map[string]string{"a.js": ""}},
		{"a.js", ".", map[string]string{"a.js": "a.js"}},
		{"a.js", "./", map[string]string{"a.js": "a.js"}},
		{"a.js", "out", map[string]string{"a.js": "out"}},
		{"a.js", "out/", map[string]string{"a.js": "out/a.js"}},

		// nested file
		{"dir/b.js", "", map[string]string{"dir/b.js": ""}},
		{"dir/b.js", ".", map[string]string{"dir/b.js": "b.js"}},
		{"dir/b.js", "out/", map[string]string{"dir/b.js": "out/b.js"}},
		{"dir/c.css", "out/", map[string]string{"dir/c.css": "out/c.css"}},

		// directory
		{"dir", ".", map[string]string{"dir/b.js": "dir/b.js", "dir/e.mjs": "dir/e.mjs"}},
		{"dir", "out/", map[string]string{"dir/b.js": "out/dir/b.js", "dir/e.mjs": "out/dir/e.mjs"}},
		{"dir/", "out/", map[string]string{"dir/b.js": "out/b.js", "dir/e.mjs": "out/e.mjs"}},
	}

	recursive = true
	defer func() {
		recursive = false
	}()
	for _, tt := range tests {
		t.Run(tt.input+" => "+tt.output, func(t *testing.T) {
			tasks, _, err := createTasks(fsys, []string{tt.input}, tt.output)
			test.Error(t, err)
			if len(tasks) != len(tt.tasks) {
				test.Fail(t, fmt.Sprintf("expected %v, got %v", tt.tasks, tasks))
			}
			for _, task := range tasks {
				test.That(t, !task.sync, "unexpected sync of", task.srcs[0])
				if dst, ok := tt.tasks[task.srcs[0]]; !ok || dst != task.dst {
					test.Fail(t, fmt.Sprintf("unexpected %s => %s", task.srcs[0], task.dst))
				}
			}
		})
	}
}

func TestCreateTasksSync(t *testing.T) {
	fsys := fstest.MapFS{
		"dir/b.js":  {},
		"dir/c.css": {},
	}

	recursive, sync = true, true
	defer func() {
		recursive, sync = false, false
	}()
	tasks, _, err := createTasks(fsys, []string{"dir/"}, "out/")
	test.Error(t, err)
	test.T(t, len(tasks), 2)
	for _, task := range tasks {
		test.T(t, task.sync, task.srcs[0] == "dir/c.css", task.srcs[0])
	}
}

func TestFileMatches(t *testing.T) {
	var tests = []struct {
		filename string
		expected bool
	}{
		{"a.js", true},
		{"a.mjs", true},
		{"a.CJS", true},
		{"a.css", false},
		{"js", false},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			test.T(t, fileMatches(tt.filename), tt.expected)
		})
	}
}

func TestCompilePattern(t *testing.T) {
	var tests = []struct {
		pattern  string
		filename string
		expected bool
	}{
		{"*.js", "a.js", true},
		{"*.js", "dir/a.js", false},
		{"**.js", "dir/a.js", true},
		{"a?.js", "ab.js", true},
		{"~^a+\\.js$", "aaa.js", true},
		{"~^a+\\.js$", "b.js", false},
		{"\\~a.js", "~a.js", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.filename, func(t *testing.T) {
			re, err := compilePattern(tt.pattern)
			test.Error(t, err)
			test.T(t, re.MatchString(filepath.FromSlash(tt.filename)), tt.expected)
		})
	}
}

func TestOptions(t *testing.T) {
	var tests = []struct {
		opts     Options
		expected string
	}{
		{Options{}, "rename=all -combine-literals -strip-debug"},
		{Options{Rename: "none", KeepFunctionNames: true}, "rename=none keep-fnames -rename -combine-literals -strip-debug"},
		{Options{KeepNames: []string{"jQuery"}, CombineLiterals: true, StripDebug: true}, "rename=all keep=jQuery"},
		{Options{NoFold: true}, "rename=all -eval-numeric -eval-string -eval-logical -combine-literals -strip-debug -constant-conditions"},
		{Options{NoPeephole: true, Disallow: []string{"rename"}}, "rename=all -combine-var -move-var-into-for -return-var -if-return -remove-default -remove-empty -if-call -flatten-blocks -combine-expr -rename -combine-literals -strip-debug"},
		{Options{Fatal: []string{"undeclared-variable"}}, "rename=all fatal=undeclared-variable -combine-literals -strip-debug"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			s, err := tt.opts.Settings()
			test.Error(t, err)
			test.String(t, s.String(), tt.expected)
		})
	}
}

func TestOptionsErrors(t *testing.T) {
	var tests = []struct {
		opts Options
		err  string
	}{
		{Options{Rename: "some"}, `unknown rename mode "some"`},
		{Options{Disallow: []string{"everything"}}, `unknown modification "everything"`},
		{Options{Fatal: []string{"warning"}}, `unknown diagnostic code "warning"`},
	}
	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			_, err := tt.opts.Settings()
			test.That(t, err != nil)
			test.String(t, err.Error(), tt.err)
		})
	}
}

func TestBundleReader(t *testing.T) {
	files := map[string]string{
		"a.js": "x = 1",
		"b.js": "",
		"c.js": "y = 2",
	}
	open := func(filename string) (io.ReadCloser, error) {
		if s, ok := files[filename]; ok {
			return io.NopCloser(strings.NewReader(s)), nil
		}
		return nil, os.ErrNotExist
	}

	r, err := newBundleReader([]string{"a.js", "b.js", "c.js"}, open, bundleSeparator)
	test.Error(t, err)
	b, err := io.ReadAll(r)
	test.Error(t, err)
	test.String(t, string(b), "x = 1;\n;\ny = 2")
	test.Error(t, r.Close())

	r, err = newBundleReader([]string{"a.js", "d.js"}, open, bundleSeparator)
	test.Error(t, err)
	_, err = io.ReadAll(r)
	test.T(t, err, os.ErrNotExist)

	_, err = newBundleReader([]string{"d.js"}, open, bundleSeparator)
	test.T(t, err, os.ErrNotExist)
}

func TestCrunchBytes(t *testing.T) {
	settings = crunch.DefaultSettings()
	defer func() {
		settings = nil
	}()

	b, err := crunchBytes("in.js", []byte("x = 1 + 2"))
	test.Error(t, err)
	test.String(t, string(b), "x=3")

	settings.Fatal = []string{"undeclared-variable"}
	_, err = crunchBytes("in.js", []byte("var x = y"))
	test.That(t, err != nil)
	test.String(t, err.Error(), "aborted after resolve: y is not declared")

	_, err = crunchBytes("in.js", []byte("x = ("))
	test.That(t, err != nil)
}

func TestCrunchBytesLog(t *testing.T) {
	settings = crunch.DefaultSettings()
	warnings := &bytes.Buffer{}
	Warning = log.New(warnings, "", 0)
	defer func() {
		settings = nil
		Warning = log.New(io.Discard, "", 0)
	}()

	_, err := crunchBytes("in.js", []byte("var x;\nx = y"))
	test.Error(t, err)
	test.String(t, warnings.String(), "in.js:2:5: y is not declared (undeclared-variable)\n")
}

func TestCache(t *testing.T) {
	var err error
	cache, err = OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	test.Error(t, err)
	settings = crunch.DefaultSettings()
	defer func() {
		test.Error(t, cache.Close())
		cache = nil
		settings = nil
	}()

	src := []byte("x = 1 + 2")
	key := cacheKey(src, settings)
	_, ok := cache.Get(key)
	test.That(t, !ok)

	b, err := crunchBytes("in.js", src)
	test.Error(t, err)
	test.String(t, string(b), "x=3")

	cached, ok := cache.Get(key)
	test.That(t, ok)
	test.String(t, string(cached), "x=3")

	// stored results are returned without crunching
	test.Error(t, cache.Put(key, []byte("x=4")))
	b, err = crunchBytes("in.js", src)
	test.Error(t, err)
	test.String(t, string(b), "x=4")

	// other settings use another key
	other := crunch.DefaultSettings()
	other.Allow(config.EvaluateNumericExpressions, false)
	test.That(t, !bytes.Equal(cacheKey(src, other), key))
}

func TestCacheReadError(t *testing.T) {
	c, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	test.Error(t, err)
	test.Error(t, c.Put([]byte("key"), []byte("x=3")))

	warnings := &bytes.Buffer{}
	Warning = log.New(warnings, "", 0)
	defer func() {
		Warning = log.New(io.Discard, "", 0)
	}()

	// reading from a closed database fails and is reported as a miss
	test.Error(t, c.Close())
	_, ok := c.Get([]byte("key"))
	test.That(t, !ok)
	test.String(t, warnings.String(), "cache read: database not open\n")
}

func TestNilCache(t *testing.T) {
	var c *Cache
	_, ok := c.Get([]byte("key"))
	test.That(t, !ok)
	test.Error(t, c.Put([]byte("key"), []byte("value")))
	test.Error(t, c.Close())
}

func TestCrunchTask(t *testing.T) {
	settings = crunch.DefaultSettings()
	quiet = true
	defer func() {
		settings = nil
		quiet = false
	}()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.js")
	b := filepath.Join(dir, "b.js")
	test.Error(t, os.WriteFile(a, []byte("function f(foo){ return foo * 2 * 3 }"), 0644))
	test.Error(t, os.WriteFile(b, []byte("x = 'a' + 'b'"), 0644))

	dst := filepath.Join(dir, "out", "bundle.js")
	test.That(t, crunchTask(Task{dir, []string{a, b}, dst, false}))
	out, err := os.ReadFile(dst)
	test.Error(t, err)
	test.String(t, string(out), `function f(a){return a*6}x="ab"`)

	// overwrite in place
	test.That(t, crunchTask(Task{dir, []string{b}, b, false}))
	out, err = os.ReadFile(b)
	test.Error(t, err)
	test.String(t, string(out), `x="ab"`)
	_, err = os.Stat(b + ".bak")
	test.That(t, os.IsNotExist(err))
}

func TestPrefix(t *testing.T) {
	test.String(t, prefix("ERROR", colorRed, false), "ERROR: ")
	test.String(t, prefix("ERROR", colorRed, true), "\033[31mERROR\033[0m: ")
}
