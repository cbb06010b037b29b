package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matryer/try"
)

// bundleSeparator is written between bundled sources so that a missing trailing semicolon does not join two statements.
var bundleSeparator = []byte(";\n")

// IsDir returns true if the passed string looks like it specifies a directory, false otherwise.
func IsDir(dir string) bool {
	if 0 < len(dir) && dir[len(dir)-1] == os.PathSeparator {
		return true
	}
	info, err := os.Lstat(dir)
	return err == nil && info.Mode().IsDir() && info.Mode()&os.ModeSymlink == 0
}

// SameFile returns true if the two file paths specify the same path.
// While Linux is case-preserving case-sensitive (and therefore a string comparison will work),
// Windows is case-preserving case-insensitive; we use os.SameFile() to work cross-platform.
func SameFile(filename1 string, filename2 string) (bool, error) {
	fi1, err := os.Stat(filename1)
	if err != nil {
		return false, err
	}

	fi2, err := os.Stat(filename2)
	if err != nil {
		return false, err
	}
	return os.SameFile(fi1, fi2), nil
}

func openInputFile(input string) (io.ReadCloser, error) {
	if input == "" {
		return os.Stdin, nil
	}

	var r *os.File
	err := try.Do(func(attempt int) (bool, error) {
		var ferr error
		r, ferr = os.Open(input)
		return attempt < 5, ferr
	})
	if err != nil {
		return nil, fmt.Errorf("open input file %q: %w", input, err)
	}
	return r, nil
}

func openInputFiles(filenames []string) (*bundleReader, error) {
	return newBundleReader(filenames, openInputFile, bundleSeparator)
}

func openOutputFile(output string) (*os.File, error) {
	if output == "" {
		return os.Stdout, nil
	}

	dir := filepath.Dir(output)
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, fmt.Errorf("creating directory %q: %w", dir, err)
	}

	var w *os.File
	err := try.Do(func(attempt int) (bool, error) {
		var ferr error
		w, ferr = os.OpenFile(output, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0666)
		return attempt < 5, ferr
	})
	if err != nil {
		return nil, fmt.Errorf("open output file %q: %w", output, err)
	}
	return w, nil
}

func createSymlink(input, output string) error {
	if _, err := os.Lstat(output); err == nil {
		if err = os.Remove(output); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(output), 0777); err != nil {
		return err
	}
	return os.Symlink(input, output)
}

// bundleReader reads files one after the other with a separator in between. Files are opened only once the previous one is exhausted.
type bundleReader struct {
	filenames []string
	open      func(string) (io.ReadCloser, error)
	sep       []byte

	cur     io.ReadCloser
	pending []byte // unread part of the separator
}

func newBundleReader(filenames []string, open func(string) (io.ReadCloser, error), sep []byte) (*bundleReader, error) {
	r := &bundleReader{filenames: filenames, open: open, sep: sep}
	if err := r.next(); err != nil {
		return nil, err
	}
	r.pending = nil
	return r, nil
}

// next closes the current file and opens the following one, queueing the separator.
func (r *bundleReader) next() error {
	if r.cur != nil {
		if err := r.cur.Close(); err != nil {
			return err
		}
		r.cur = nil
	}
	if len(r.filenames) == 0 {
		return nil
	}

	cur, err := r.open(r.filenames[0])
	if err != nil {
		return err
	}
	r.cur = cur
	r.filenames = r.filenames[1:]
	r.pending = r.sep
	return nil
}

func (r *bundleReader) Read(p []byte) (int, error) {
	for {
		if 0 < len(r.pending) {
			n := copy(p, r.pending)
			r.pending = r.pending[n:]
			return n, nil
		} else if r.cur == nil {
			return 0, io.EOF
		}

		n, err := r.cur.Read(p)
		if err == io.EOF {
			if err := r.next(); err != nil {
				return n, err
			} else if n == 0 {
				continue
			}
			return n, nil
		}
		return n, err
	}
}

func (r *bundleReader) Close() error {
	if r.cur != nil {
		return r.cur.Close()
	}
	return nil
}
