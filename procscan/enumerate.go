// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package procscan

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
)

// readDirBatch bounds how many directory entries are held in memory at once.
const readDirBatch = 256

// Enumerator lists process ids under a process root. The listing is consumed
// once; an Enumerator cannot be restarted.
type Enumerator struct {
	root  *os.Root
	dir   *os.File
	batch []os.DirEntry
	done  bool
	err   error
}

// Enumerate opens root for listing. It fails with ErrFilesystemUnavailable if
// root cannot be opened as a directory. The caller must Close the Enumerator.
func Enumerate(root string) (*Enumerator, error) {
	r, err := os.OpenRoot(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFilesystemUnavailable, err)
	}

	dir, err := r.Open(".")
	if err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("%w: %w", ErrFilesystemUnavailable, err)
	}

	return &Enumerator{root: r, dir: dir}, nil
}

// Root returns the opened process root. Per-process directories are opened
// relative to it so that a symlinked entry cannot escape the root.
func (e *Enumerator) Root() *os.Root {
	return e.root
}

// Next returns the next entry whose name starts with an ASCII digit.
// It returns false when the listing is exhausted or failed; check Err.
func (e *Enumerator) Next() (string, bool) {
	for {
		for len(e.batch) > 0 {
			name := e.batch[0].Name()
			e.batch = e.batch[1:]
			if isProcessEntry(name) {
				return name, true
			}
		}
		if e.done {
			return "", false
		}

		entries, err := e.dir.ReadDir(readDirBatch)
		e.batch = entries
		if err != nil {
			e.done = true
			if !errors.Is(err, io.EOF) {
				e.err = fmt.Errorf("%w: listing %s: %w", ErrFilesystemUnavailable, e.root.Name(), err)
			}
		}
	}
}

// All returns the remaining process ids as a sequence.
func (e *Enumerator) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			pid, ok := e.Next()
			if !ok || !yield(pid) {
				return
			}
		}
	}
}

// Err returns the error that stopped the listing early, if any.
func (e *Enumerator) Err() error {
	return e.err
}

// Close releases the directory handles.
func (e *Enumerator) Close() error {
	return errors.Join(e.dir.Close(), e.root.Close())
}

// isProcessEntry reports whether a root entry names a process. Only the first
// character is checked.
func isProcessEntry(name string) bool {
	return name != "" && name[0] >= '0' && name[0] <= '9'
}
