// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package procscan

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jongio/psnap/logutil"
	"github.com/jongio/psnap/owner"
)

// Options configures a Scanner.
type Options struct {
	// Root is the process pseudo-filesystem. Defaults to DefaultRoot.
	Root string
	// Resolver maps owner uids to names. Nil resolves every owner to owner.Unknown.
	Resolver owner.Resolver
	// Strict aborts the scan on the first unreadable process instead of skipping it.
	Strict bool
	// Workers is the number of processes read concurrently. Values below 2 scan sequentially.
	Workers int
	// IsRunning, when set, is consulted for unreadable processes to log
	// permission failures louder than exit races. Only meaningful for the host's own procfs.
	IsRunning func(pid int) bool
}

// Scanner reads every process under a process root.
type Scanner struct {
	opts Options
	log  *logutil.ComponentLogger

	// beforeRead runs between listing a pid and opening its directory.
	beforeRead func(pid string)
}

// NewScanner creates a Scanner. Create it after logging is configured.
func NewScanner(opts Options) *Scanner {
	if opts.Root == "" {
		opts.Root = DefaultRoot
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Scanner{
		opts: opts,
		log:  logutil.NewLogger("procscan").WithFields("root", opts.Root),
	}
}

// result is the outcome of reading one process.
type result struct {
	pid    string
	record ProcessRecord
	issues []error
	err    error
}

// Scan lists the root and calls emit once per readable process, in listing
// order. Listing order is whatever the filesystem returns.
//
// Sequential scans emit as they go. Parallel scans read everything first and
// emit afterwards, so emit is never called concurrently.
//
// Scan returns ErrFilesystemUnavailable if the root cannot be opened or listed,
// ErrProcessUnreadable in strict mode, and any error returned by emit. Stats
// reflect the work done up to that point.
func (s *Scanner) Scan(ctx context.Context, emit func(ProcessRecord) error) (Stats, error) {
	start := time.Now()

	enum, err := Enumerate(s.opts.Root)
	if err != nil {
		return Stats{}, err
	}
	defer func() {
		if closeErr := enum.Close(); closeErr != nil {
			s.log.Debug("closing process root", "error", closeErr)
		}
	}()

	var stats Stats
	if s.opts.Workers > 1 {
		err = s.scanParallel(ctx, enum, &stats, emit)
	} else {
		err = s.scanSequential(ctx, enum, &stats, emit)
	}
	stats.Duration = time.Since(start)
	return stats, err
}

func (s *Scanner) scanSequential(ctx context.Context, enum *Enumerator, stats *Stats, emit func(ProcessRecord) error) error {
	for pid := range enum.All() {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Discovered++

		res := s.readProcess(enum.Root(), pid)
		if err := s.deliver(stats, res, emit); err != nil {
			return err
		}
	}
	return enum.Err()
}

func (s *Scanner) scanParallel(ctx context.Context, enum *Enumerator, stats *Stats, emit func(ProcessRecord) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	var results []*result
	for pid := range enum.All() {
		if gctx.Err() != nil {
			break
		}
		stats.Discovered++

		res := &result{pid: pid}
		results = append(results, res)
		g.Go(func() error {
			*res = s.readProcess(enum.Root(), pid)
			if s.opts.Strict && res.err != nil && !errors.Is(res.err, errVanished) {
				return res.err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := enum.Err(); err != nil {
		return err
	}

	for _, res := range results {
		if err := s.deliver(stats, *res, emit); err != nil {
			return err
		}
	}
	return nil
}

// deliver accounts for one result and emits its record if it has one.
func (s *Scanner) deliver(stats *Stats, res result, emit func(ProcessRecord) error) error {
	stats.MalformedLines += len(res.issues)
	for _, issue := range res.issues {
		s.log.Debug("malformed status line", "pid", res.pid, "error", issue)
	}

	switch {
	case res.err == nil:
		stats.Reported++
		return emit(res.record)
	case errors.Is(res.err, errVanished):
		stats.Vanished++
		s.log.Debug("skipping process", "pid", res.pid, "reason", "vanished")
		return nil
	default:
		stats.Unreadable++
		if s.opts.Strict {
			return res.err
		}
		s.logUnreadable(res.pid, res.err)
		return nil
	}
}

func (s *Scanner) logUnreadable(pid string, err error) {
	if s.opts.IsRunning != nil {
		if n, convErr := strconv.Atoi(pid); convErr == nil && s.opts.IsRunning(n) {
			s.log.Warn("process is running but unreadable", "pid", pid, "error", err)
			return
		}
	}
	s.log.Debug("skipping process", "pid", pid, "reason", "unreadable", "error", err)
}

// readProcess reads the cmdline and status of one listed process. Handles
// opened here are released before it returns.
func (s *Scanner) readProcess(root *os.Root, pid string) result {
	if s.beforeRead != nil {
		s.beforeRead(pid)
	}

	dir, err := root.OpenRoot(pid)
	if err != nil {
		return result{pid: pid, err: errVanished}
	}
	defer func() { _ = dir.Close() }()

	argName, args, err := ReadCmdline(dir)
	if err != nil {
		return result{pid: pid, err: err}
	}

	st, issues, err := ReadStatus(dir)
	if err != nil {
		return result{pid: pid, err: err}
	}

	return result{
		pid:    pid,
		record: Reconcile(pid, st, argName, args, s.opts.Resolver),
		issues: issues,
	}
}
