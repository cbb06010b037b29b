package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/djherbis/atime"
	humanize "github.com/dustin/go-humanize"
	"github.com/matryer/try"
	"github.com/tdewolff/argp"
	"github.com/tdewolff/crunch"
	"github.com/tdewolff/crunch/parser"
	"github.com/tdewolff/crunch/printer"
	"github.com/xyproto/env/v2"
)

// Version is the current crunch version.
var Version = "built from source"

var extensions = map[string]bool{
	"cjs": true,
	"js":  true,
	"jsm": true,
	"mjs": true,
}

var (
	hidden             bool
	matches            []string
	matchesRegexp      []*regexp.Regexp
	filters            []string
	filtersRegexp      []*regexp.Regexp
	recursive          bool
	quiet              bool
	verbose            int
	version            bool
	watch              bool
	sync               bool
	bundle             bool
	preserve           []string
	preserveMode       bool
	preserveOwnership  bool
	preserveTimestamps bool
	preserveLinks      bool

	ctx      = context.Background()
	settings *crunch.Settings
	cache    *Cache
)

type Matches struct {
	matches *[]string
}

func (scanner Matches) Scan(s []string) (int, error) {
	n := 0
	for _, item := range s {
		if strings.HasPrefix(item, "-") {
			break
		}
		*scanner.matches = append(*scanner.matches, item)
		n++
	}
	return n, nil
}

func (typenamer Matches) TypeName() string {
	return "[]string"
}

// Filters scans path patterns and prefixes them with + for inclusion or - for exclusion.
type Filters struct {
	filters *[]string
	include bool
}

func (scanner Filters) Scan(s []string) (int, error) {
	prefix := "-"
	if scanner.include {
		prefix = "+"
	}
	n := 0
	for _, item := range s {
		if strings.HasPrefix(item, "-") {
			break
		}
		*scanner.filters = append(*scanner.filters, prefix+item)
		n++
	}
	return n, nil
}

func (typenamer Filters) TypeName() string {
	return "[]string"
}

// Task is a crunch task.
type Task struct {
	root string
	srcs []string
	dst  string
	sync bool
}

// NewTask returns a new Task.
func NewTask(root, input, output string, sync bool) (Task, error) {
	if len(output) != 0 && (output == "." || output[len(output)-1] == os.PathSeparator) {
		rel, err := filepath.Rel(root, input)
		if err != nil {
			return Task{}, err
		}
		output = filepath.Join(output, rel)
	}
	return Task{root, []string{input}, output, sync}, nil
}

// Loggers.
var (
	Error   *log.Logger
	Warning *log.Logger
	Info    *log.Logger
)

func main() {
	// os.Exit doesn't execute pending defer calls, this is fixed by encapsulating run()
	os.Exit(run())
}

func run() int {
	var inputs []string
	var output string
	var cacheFilename string
	opts := Options{}

	defaultPreserve := []string{"mode", "timestamps"}
	if supportsGetOwnership {
		defaultPreserve = []string{"mode", "ownership", "timestamps"}
	}

	f := argp.New("crunch")
	f.AddRest(&inputs, "inputs", "Input files or directories, leave blank to use stdin")
	f.AddOpt(&output, "o", "output", nil, "Output file or directory, leave blank to use stdout")
	f.AddOpt(Matches{&matches}, "", "match", nil, "Filename matching pattern, only matching filenames are processed")
	f.AddOpt(Filters{&filters, true}, "", "include", nil, "Path inclusion pattern, includes paths previously excluded")
	f.AddOpt(Filters{&filters, false}, "", "exclude", nil, "Path exclusion pattern, excludes paths from being processed")
	f.AddOpt(&recursive, "r", "recursive", false, "Recursively crunch directories")
	f.AddOpt(&hidden, "a", "all", false, "Crunch all files, including hidden files and files in hidden directories")
	f.AddOpt(&quiet, "q", "quiet", false, "Quiet mode to suppress all output")
	f.AddOpt(argp.Count{I: &verbose}, "v", "verbose", nil, "Verbose mode, set twice for more verbosity")
	f.AddOpt(&watch, "w", "watch", false, "Watch files and crunch upon changes")
	f.AddOpt(&sync, "s", "sync", false, "Copy all files to destination directory and crunch JavaScript files")
	f.AddOpt(&preserve, "p", "preserve", defaultPreserve, "Preserve options (mode, ownership, timestamps, links, all)")
	f.AddOpt(&bundle, "b", "bundle", false, "Bundle files by concatenation into a single file")
	f.AddOpt(&version, "", "version", false, "Version")

	f.AddOpt(&opts.Rename, "", "rename", env.Str("CRUNCH_RENAME", "all"), "Rename locals (all, localization, none)")
	f.AddOpt(&opts.KeepFunctionNames, "", "keep-fnames", env.Bool("CRUNCH_KEEP_FNAMES"), "Preserve names of function declarations and named function expressions")
	f.AddOpt(&opts.KeepNames, "", "keep-names", nil, "Local names that are never renamed")
	f.AddOpt(&opts.NoFold, "", "no-fold", false, "Do not evaluate constant expressions")
	f.AddOpt(&opts.NoPeephole, "", "no-peephole", false, "Do not simplify statements")
	f.AddOpt(&opts.CombineLiterals, "", "combine-literals", false, "Combine duplicate string literals into a local variable")
	f.AddOpt(&opts.StripDebug, "", "strip-debug", false, "Remove debugger statements")
	f.AddOpt(&opts.Disallow, "", "disallow", nil, "Disallow modifications by name (eg. if-return, flatten-blocks)")
	f.AddOpt(&opts.Fatal, "", "fatal", nil, "Diagnostic codes that abort crunching a file (eg. undeclared-variable)")
	f.AddOpt(&cacheFilename, "", "cache", env.Str("CRUNCH_CACHE"), "Cache file storing results of previous runs")
	f.Parse()

	if version {
		if !quiet {
			fmt.Printf("crunch %s\n", Version)
		}
		return 0
	}

	if len(inputs) == 1 && inputs[0] == "-" {
		inputs = inputs[:0] // stdin
	} else if output == "-" {
		output = "" // stdout
	}
	useStdin := len(inputs) == 0

	Error = log.New(io.Discard, "", 0)
	Warning = log.New(io.Discard, "", 0)
	Info = log.New(io.Discard, "", 0)
	if !quiet {
		color := stderrIsTerminal()
		Error = log.New(os.Stderr, prefix("ERROR", colorRed, color), 0)
		if 0 < verbose {
			Warning = log.New(os.Stderr, prefix("WARNING", colorYellow, color), 0)
		}
		if 1 < verbose {
			Info = log.New(os.Stderr, prefix("INFO", colorBlue, color), 0)
		}
	}

	var err error
	if settings, err = opts.Settings(); err != nil {
		Error.Println(err)
		return 1
	}
	Info.Println("settings:", settings)

	// compile matches and regexps
	if 0 < len(matches) {
		matchesRegexp = make([]*regexp.Regexp, len(matches))
		for i, pattern := range matches {
			if matchesRegexp[i], err = compilePattern(pattern); err != nil {
				Error.Println(err)
				return 1
			}
		}
	}
	if 0 < len(filters) {
		filtersRegexp = make([]*regexp.Regexp, len(filters))
		for i, pattern := range filters {
			if filtersRegexp[i], err = compilePattern(pattern[1:]); err != nil {
				Error.Println(err)
				return 1
			}
		}
	}

	if (useStdin || output == "") && (watch || sync) {
		if watch {
			Error.Println("--watch doesn't work with stdin and stdout, specify input and output")
		}
		if sync {
			Error.Println("--sync doesn't work with stdin and stdout, specify input and output")
		}
		return 1
	} else if useStdin && (bundle || recursive) {
		if bundle {
			Error.Println("--bundle doesn't work with stdin, specify input")
		}
		if recursive {
			Error.Println("--recursive doesn't work with stdin, specify input")
		}
		return 1
	} else if output == "" && recursive && !bundle {
		Error.Println("--recursive doesn't work with stdout, specify output or use --bundle")
		return 1
	}
	if f.IsSet("preserve") {
		if bundle {
			Error.Println("--preserve cannot be used together with --bundle")
			return 1
		} else if useStdin || output == "" {
			Error.Println("--preserve cannot be used together with stdin or stdout")
			return 1
		}
	}
	for _, option := range preserve {
		switch option {
		case "all":
			preserveMode = true
			preserveOwnership = true
			preserveTimestamps = true
			preserveLinks = true
		case "mode":
			preserveMode = true
		case "ownership":
			preserveOwnership = true
		case "timestamps":
			preserveTimestamps = true
		case "links":
			preserveLinks = true
		default:
			Error.Println("unknown preserve option", option)
			return 1
		}
	}
	if preserveOwnership && !supportsGetOwnership {
		Warning.Println(fmt.Errorf("preserve ownership not supported on platform"))
	}

	if cacheFilename != "" {
		if cache, err = OpenCache(cacheFilename); err != nil {
			Error.Println(err)
			return 1
		}
		defer cache.Close()
		Info.Println("use cache", cacheFilename)
	}

	////////////////

	for i, input := range inputs {
		if input == "-" {
			Error.Println("cannot mix files and stdin as input")
			return 1
		}
		inputs[i] = filepath.Clean(input)
		if input[len(input)-1] == os.PathSeparator {
			inputs[i] += string(os.PathSeparator)
		}
	}

	// set output file or directory, empty means stdout
	dirDst := false
	if output != "" {
		dirDst = IsDir(output)
		if !dirDst {
			if 1 < len(inputs) && !bundle {
				Error.Printf("stat %v: no such file or directory\n", output)
				return 1
			} else if len(inputs) == 1 {
				if info, err := os.Lstat(inputs[0]); err == nil && !bundle && info.Mode().IsDir() && info.Mode()&os.ModeSymlink == 0 {
					dirDst = true
				}
			}
		}
		if dirDst && bundle {
			Error.Println("--bundle requires destination to be stdout or a file")
			return 1
		}

		output = filepath.Clean(output)
		if dirDst {
			output += string(os.PathSeparator)
		}
	} else if 1 < len(inputs) {
		Error.Println("must specify --bundle for multiple input files with stdout destination")
		return 1
	}
	if output == "" {
		Info.Println("crunch to stdout")
	} else if !dirDst {
		Info.Println("crunch to output file", output)
	} else if output == "."+string(os.PathSeparator) {
		Info.Println("crunch to current working directory")
	} else {
		Info.Println("crunch to output directory", output)
	}
	if useStdin {
		Info.Println("crunch from stdin")
	}

	var tasks []Task
	var roots []string
	if useStdin {
		task, err := NewTask("", "", output, false)
		if err != nil {
			Error.Println(err)
			return 1
		}
		tasks = append(tasks, task)
		roots = append(roots, "")
	} else {
		fsys := NewFS()
		tasks, roots, err = createTasks(fsys, inputs, output)
		if err != nil {
			Error.Println(err)
			return 1
		}
	}

	// concatenate
	if 1 < len(tasks) && bundle {
		// Task.sync == false because dirDst == false
		for _, task := range tasks[1:] {
			tasks[0].srcs = append(tasks[0].srcs, task.srcs[0])
		}
		tasks = tasks[:1]
	}

	// make output directory
	if dirDst {
		if err := os.MkdirAll(output, 0777); err != nil {
			Error.Println(err)
			return 1
		}
	}

	////////////////

	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	fails := 0
	start := time.Now()
	if !watch && (len(tasks) == 1 || 0 < verbose) {
		for _, task := range tasks {
			if ok := crunchTask(task); !ok {
				fails++
			}
		}
	} else {
		numWorkers := runtime.NumCPU()
		if 0 < verbose {
			numWorkers = 1
		} else if numWorkers < 4 {
			numWorkers = 4
		}

		chanTasks := make(chan Task, 20)
		chanFails := make(chan int, numWorkers)
		for n := 0; n < numWorkers; n++ {
			go crunchWorker(chanTasks, chanFails)
		}

		if !watch {
			for _, task := range tasks {
				chanTasks <- task
			}
		} else {
			watcher, err := NewWatcher(recursive)
			if err != nil {
				Error.Println(err)
				return 1
			}
			defer watcher.Close()
			changes := watcher.Run()

			for _, filename := range inputs {
				if err := watcher.AddPath(filename); err != nil {
					Error.Println(err)
					return 1
				}
			}

			for _, task := range tasks {
				watcher.IgnoreNext(task.dst)
				chanTasks <- task
			}

			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)
			for changes != nil {
				select {
				case <-c:
					cancel()
					watcher.Close()
				case file, ok := <-changes:
					if !ok {
						changes = nil
						break
					}
					file = filepath.Clean(file)

					// find longest common path among roots
					root := ""
					for _, path := range roots {
						pathRel, err1 := filepath.Rel(path, file)
						rootRel, err2 := filepath.Rel(root, file)
						if err2 != nil || err1 == nil && len(pathRel) < len(rootRel) {
							root = path
						}
					}

					task, err := NewTask(root, file, output, !fileMatches(file))
					if err != nil {
						Error.Println(err)
						return 1
					}
					watcher.IgnoreNext(task.dst) // skip change on output
					chanTasks <- task
				}
			}
		}

		close(chanTasks)
		for n := 0; n < numWorkers; n++ {
			fails += <-chanFails
		}
	}

	if !watch {
		Info.Println("finished in", time.Since(start))
	}
	if 0 < fails {
		return 1
	}
	return 0
}

func crunchWorker(chanTasks <-chan Task, chanFails chan<- int) {
	fails := 0
	for task := range chanTasks {
		if ok := crunchTask(task); !ok {
			fails++
		}
	}
	chanFails <- fails
}

// compilePattern returns a regular expression for a glob pattern, or for a regular expression when prefixed by ~
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if len(pattern) == 0 || pattern[0] != '~' {
		if strings.HasPrefix(pattern, `\~`) {
			pattern = pattern[1:]
		}
		pattern = regexp.QuoteMeta(pattern)
		pattern = strings.ReplaceAll(pattern, `\*\*`, `.*`)
		pattern = strings.ReplaceAll(pattern, `\*`, fmt.Sprintf(`[^%c]*`, filepath.Separator))
		pattern = strings.ReplaceAll(pattern, `\?`, fmt.Sprintf(`[^%c]?`, filepath.Separator))
		pattern = "^" + pattern + "$"
	} else {
		pattern = pattern[1:]
	}
	return regexp.Compile(pattern)
}

func fileFilter(filename string) bool {
	if 0 < len(matches) {
		match := false
		base := filepath.Base(filename)
		for _, re := range matchesRegexp {
			if re.MatchString(base) {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	match := true
	for i, re := range filtersRegexp {
		if re.MatchString(filename) {
			match = filters[i][0] == '+'
		}
	}
	return match
}

// fileMatches returns true for JavaScript files that pass the filters.
func fileMatches(filename string) bool {
	if !fileFilter(filename) {
		return false
	}
	ext := filepath.Ext(filename)
	if 0 < len(ext) {
		ext = ext[1:]
	}
	return extensions[strings.ToLower(ext)]
}

func createTasks(fsys fs.FS, inputs []string, output string) ([]Task, []string, error) {
	tasks := []Task{}
	roots := []string{}
	for _, input := range inputs {
		root := filepath.Clean(filepath.Dir(input))
		input = filepath.Clean(input)

		var err error
		var info os.FileInfo
		if !preserveLinks {
			// follow and dereference symlinks
			info, err = fs.Stat(fsys, input)
		} else {
			info, err = os.Lstat(input)
		}
		if err != nil {
			return nil, nil, err
		}

		if preserveLinks && info.Mode()&os.ModeSymlink != 0 {
			// copy symlink as is
			if !sync {
				Warning.Println("--sync not specified, omitting symbolic link", input)
				continue
			}
			task, err := NewTask(root, input, output, true)
			if err != nil {
				return nil, nil, err
			}
			tasks = append(tasks, task)
		} else if info.Mode().IsRegular() {
			// explicit inputs are crunched regardless of their extension
			valid := fileFilter(input)
			if valid || sync {
				task, err := NewTask(root, input, output, !valid)
				if err != nil {
					return nil, nil, err
				}
				tasks = append(tasks, task)
			}
		} else if info.Mode().IsDir() {
			if !recursive {
				Warning.Println("--recursive not specified, omitting directory", input)
				continue
			}

			var walkFn func(string, fs.DirEntry, error) error
			walkFn = func(input string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				} else if d.Name() == "." || d.Name() == ".." {
					return nil
				} else if d.Name() == "" || !hidden && d.Name()[0] == '.' {
					if d.IsDir() {
						return fs.SkipDir
					}
					return nil
				}

				if !preserveLinks && d.Type()&os.ModeSymlink != 0 {
					// follow and dereference symlinks
					info, err := fs.Stat(fsys, input)
					if err != nil {
						return err
					}
					if info.IsDir() {
						return fs.WalkDir(fsys, input, walkFn)
					}
					d = fs.FileInfoToDirEntry(info)
				}

				if preserveLinks && d.Type()&os.ModeSymlink != 0 {
					// copy symlink as is
					if !sync {
						Warning.Println("--sync not specified, omitting symbolic link", input)
						return nil
					}
					task, err := NewTask(root, input, output, true)
					if err != nil {
						return err
					}
					tasks = append(tasks, task)
				} else if d.Type().IsRegular() {
					valid := fileMatches(input)
					if valid || sync {
						task, err := NewTask(root, input, output, !valid)
						if err != nil {
							return err
						}
						tasks = append(tasks, task)
					}
				}
				return nil
			}
			if err := fs.WalkDir(fsys, input, walkFn); err != nil {
				return nil, nil, err
			}
			roots = append(roots, root)
		} else {
			return nil, nil, fmt.Errorf("not a file or directory %s", input)
		}
	}
	return tasks, roots, nil
}

// crunchTask optimizes the sources of a task into its destination, or copies them when synchronizing.
func crunchTask(t Task) bool {
	// synchronizing files that are not crunched but just copied to the same directory, no action needed
	if t.sync {
		if t.srcs[0] == t.dst {
			return true
		} else if info, err := os.Lstat(t.srcs[0]); preserveLinks && err == nil && info.Mode()&os.ModeSymlink != 0 {
			src, err := os.Readlink(t.srcs[0])
			if err != nil {
				Error.Println(err)
				return false
			}
			if err := createSymlink(src, t.dst); err != nil {
				Error.Println(err)
				return false
			}
			return true
		}
	}

	srcName := strings.Join(t.srcs, " + ")
	if len(t.srcs) > 1 {
		srcName = "(" + srcName + ")"
	}
	if srcName == "" {
		srcName = "stdin"
	}
	dstName := t.dst
	if dstName == "" {
		dstName = "stdout"
	} else {
		// rename original when overwriting
		for i := range t.srcs {
			if sameFile, _ := SameFile(t.srcs[i], t.dst); sameFile {
				t.srcs[i] += ".bak"
				err := try.Do(func(attempt int) (bool, error) {
					ferr := os.Rename(t.dst, t.srcs[i])
					return attempt < 5, ferr
				})
				if err != nil {
					Error.Println(err)
					return false
				}
				break
			}
		}
	}

	var err error
	var fr io.ReadCloser
	if len(t.srcs) == 1 {
		fr, err = openInputFile(t.srcs[0])
	} else {
		fr, err = openInputFiles(t.srcs)
	}
	if err != nil {
		Error.Println(err)
		return false
	}

	fw, err := openOutputFile(t.dst)
	if err != nil {
		Error.Println(err)
		fr.Close()
		return false
	}

	// synchronize file
	if t.sync {
		_, err = io.Copy(fw, fr)
		fr.Close()
		fw.Close()
		if err != nil {
			Error.Println(err)
			return false
		}
		preserveAttributes(t.srcs[0], t.root, t.dst)
		Info.Println("copy", srcName, "to", dstName)
		return true
	}

	b, err := io.ReadAll(fr)
	fr.Close()
	if err != nil {
		fw.Close()
		Error.Println("cannot crunch "+srcName+":", err)
		return false
	}

	success := true
	startTime := time.Now()
	w, err := crunchBytes(srcName, b)
	if err != nil {
		w = b // copy original
		Error.Println("cannot crunch "+srcName+":", err)
		success = false
	}

	rLen, wLen := len(b), len(w)
	_, err = fw.Write(w)
	fw.Close()

	if !quiet {
		dur := time.Since(startTime)
		speed := "Inf MB"
		if 0 < dur {
			speed = humanize.Bytes(uint64(float64(rLen) / dur.Seconds()))
		}
		ratio := 1.0
		if 0 < rLen {
			ratio = float64(wLen) / float64(rLen)
		}

		stats := fmt.Sprintf("(%9v, %6v, %6v, %5.1f%%, %6v/s)", dur, humanize.Bytes(uint64(rLen)), humanize.Bytes(uint64(wLen)), ratio*100, speed)
		if srcName != dstName {
			fmt.Fprintln(os.Stderr, stats, "-", srcName, "to", dstName)
		} else {
			fmt.Fprintln(os.Stderr, stats, "-", srcName)
		}
	}

	// remove original that was renamed, when overwriting files
	for i := range t.srcs {
		if t.srcs[i] == t.dst+".bak" {
			if err == nil {
				if err = os.Remove(t.srcs[i]); err != nil {
					Error.Println(err)
					return false
				}
			} else {
				if err = os.Remove(t.dst); err != nil {
					Error.Println(err)
					return false
				} else if err = os.Rename(t.srcs[i], t.dst); err != nil {
					Error.Println(err)
					return false
				}
			}
			t.srcs[i] = t.dst
			break
		}
	}
	preserveAttributes(t.srcs[0], t.root, t.dst)
	return success
}

// crunchBytes returns the optimized program in src, consulting the cache first. Diagnostics are logged with positions relative to name.
func crunchBytes(name string, src []byte) ([]byte, error) {
	key := cacheKey(src, settings)
	if b, ok := cache.Get(key); ok {
		Info.Println("cache hit for", name)
		return b, nil
	}

	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	reporter := &crunch.LogReporter{
		Filename: name,
		Src:      src,
		Warning:  Warning,
		Error:    Error,
	}
	stats, err := crunch.Optimize(ctx, prog, settings, reporter)
	if err != nil {
		var fatal *crunch.FatalError
		if errors.As(err, &fatal) {
			return nil, fmt.Errorf("aborted after %s: %s", fatal.Stage, fatal.Diagnostic.Message)
		}
		return nil, err
	}
	Info.Printf("%s: renamed %s locals, combined %s literals", name, humanize.Comma(int64(stats.Renamed)), humanize.Comma(int64(stats.Literals)))

	w := &bytes.Buffer{}
	w.Grow(len(src))
	if err := printer.Print(w, prog); err != nil {
		return nil, err
	}
	if err := cache.Put(key, w.Bytes()); err != nil {
		Warning.Println(err)
	}
	return w.Bytes(), nil
}

func preserveAttributes(src, root, dst string) {
	if src == "" || dst == "" {
		return
	}

	// make sure we only set attributes on directories and files inside the root destination
	var err error
	src, err = filepath.Rel(root, src)
	if err != nil {
		// should never occur
		Error.Printf("src is not part of root path: src=%s root=%s", src, root)
		return
	}

Next:
	srcInfo, err := os.Stat(filepath.Join(root, src))
	if err != nil {
		Warning.Println(err)
		return
	}

	if preserveMode {
		err = os.Chmod(dst, srcInfo.Mode().Perm())
		if err != nil {
			Warning.Println(err)
		}
	}
	if preserveOwnership {
		if uid, gid, ok := getOwnership(srcInfo); ok {
			err = os.Chown(dst, uid, gid)
			if err != nil {
				Warning.Println(err)
			}
		}
	}
	if preserveTimestamps {
		err = os.Chtimes(dst, atime.Get(srcInfo), srcInfo.ModTime())
		if err != nil {
			Warning.Println(err)
		}
	}

	src = filepath.Dir(src)
	dst = filepath.Dir(dst)
	if src != "." {
		// go up to but excluding the root path
		goto Next
	}
}
