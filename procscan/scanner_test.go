// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package procscan

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jongio/psnap/logutil"
	"github.com/jongio/psnap/owner"
	"github.com/jongio/psnap/testutil"
)

func itoa(i int) string { return strconv.Itoa(i) }

var testUsers = owner.Table{0: "root", 1000: "alice"}

func fixtureTree(t *testing.T) string {
	t.Helper()
	return testutil.WriteProcTree(t,
		testutil.Proc{
			PID:     "1",
			Status:  testutil.StatusText("systemd", "1", "0", "S (sleeping)", "0"),
			Cmdline: testutil.Cmdline("/sbin/init", "splash"),
		},
		testutil.Proc{
			PID:    "2",
			Status: testutil.StatusText("kthreadd", "2", "0", "S (sleeping)", "0"),
		},
		testutil.Proc{
			PID:     "42",
			Status:  testutil.StatusText("foo", "42", "1", "R (running)", "1000"),
			Cmdline: testutil.Cmdline("/usr/bin/foo", "-x", "--bar"),
		},
		testutil.Proc{
			PID:     "77",
			Status:  testutil.StatusText("sandboxed", "77", "42", "S (sleeping)", "231072"),
			Cmdline: testutil.Cmdline("/opt/sandboxed", "--title", "two words"),
		},
	)
}

var fixtureRecords = []ProcessRecord{
	{PID: "1", PPID: "0", State: "S", Owner: "root", Name: "systemd", Args: "splash"},
	{PID: "2", PPID: "0", State: "S", Owner: "root", Name: "kthreadd", Args: ""},
	{PID: "42", PPID: "1", State: "R", Owner: "alice", Name: "foo", Args: "-x --bar"},
	{PID: "77", PPID: "42", State: "S", Owner: owner.Unknown, Name: "sandboxed", Args: "--title two words"},
}

func collect(t *testing.T, s *Scanner) ([]ProcessRecord, Stats, error) {
	t.Helper()
	var records []ProcessRecord
	stats, err := s.Scan(context.Background(), func(rec ProcessRecord) error {
		records = append(records, rec)
		return nil
	})
	return records, stats, err
}

func TestScanReportsEveryProcess(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run("workers="+itoa(workers), func(t *testing.T) {
			s := NewScanner(Options{Root: fixtureTree(t), Resolver: testUsers, Workers: workers})

			records, stats, err := collect(t, s)

			require.NoError(t, err)
			assert.ElementsMatch(t, fixtureRecords, records)
			assert.Equal(t, 4, stats.Discovered)
			assert.Equal(t, 4, stats.Reported)
			assert.Zero(t, stats.Skipped())
			assert.Zero(t, stats.MalformedLines)
		})
	}
}

func TestScanIsIdempotent(t *testing.T) {
	root := fixtureTree(t)

	first, _, err := collect(t, NewScanner(Options{Root: root, Resolver: testUsers}))
	require.NoError(t, err)
	second, _, err := collect(t, NewScanner(Options{Root: root, Resolver: testUsers, Workers: 3}))
	require.NoError(t, err)

	assert.ElementsMatch(t, first, second)
}

func TestScanSkipsProcessThatVanished(t *testing.T) {
	root := fixtureTree(t)
	s := NewScanner(Options{Root: root, Resolver: testUsers})
	s.beforeRead = func(pid string) {
		if pid == "42" {
			require.NoError(t, os.RemoveAll(filepath.Join(root, pid)))
		}
	}

	records, stats, err := collect(t, s)

	require.NoError(t, err)
	assert.Len(t, records, 3)
	for _, rec := range records {
		assert.NotEqual(t, "42", rec.PID)
	}
	assert.Equal(t, 1, stats.Vanished)
	assert.Equal(t, 3, stats.Reported)
}

func TestScanSkipsUnreadableProcess(t *testing.T) {
	root := testutil.WriteProcTree(t,
		testutil.Proc{PID: "10", Status: testutil.StatusText("a", "10", "1", "S", "0"), Cmdline: testutil.Cmdline("a")},
		testutil.Proc{PID: "11", NoStatus: true, Cmdline: testutil.Cmdline("b")},
		testutil.Proc{PID: "12", Status: testutil.StatusText("c", "12", "1", "S", "0"), NoCmdline: true},
	)

	records, stats, err := collect(t, NewScanner(Options{Root: root, Resolver: testUsers}))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "10", records[0].PID)
	assert.Equal(t, 2, stats.Unreadable)
}

func TestScanStrictAbortsOnUnreadable(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run("workers="+itoa(workers), func(t *testing.T) {
			root := testutil.WriteProcTree(t,
				testutil.Proc{PID: "11", NoStatus: true, Cmdline: testutil.Cmdline("b")},
			)

			_, _, err := collect(t, NewScanner(Options{Root: root, Strict: true, Workers: workers}))

			assert.ErrorIs(t, err, ErrProcessUnreadable)
		})
	}
}

func TestScanStrictToleratesVanished(t *testing.T) {
	root := fixtureTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "5"), []byte("not a directory"), 0o600))

	records, stats, err := collect(t, NewScanner(Options{Root: root, Resolver: testUsers, Strict: true}))

	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, 1, stats.Vanished)
}

func TestScanRootUnavailable(t *testing.T) {
	s := NewScanner(Options{Root: filepath.Join(t.TempDir(), "missing")})

	records, _, err := collect(t, s)

	assert.ErrorIs(t, err, ErrFilesystemUnavailable)
	assert.Empty(t, records)
}

func TestScanCountsMalformedLines(t *testing.T) {
	root := testutil.WriteProcTree(t, testutil.Proc{
		PID:     "9",
		Status:  "Name:\tbad\nPid:\t9\nUid:\tnope\n",
		Cmdline: testutil.Cmdline("bad"),
	})

	records, stats, err := collect(t, NewScanner(Options{Root: root, Resolver: testUsers}))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, owner.Unknown, records[0].Owner)
	assert.Empty(t, records[0].PPID)
	assert.Equal(t, 1, stats.MalformedLines)
}

func TestScanEmptyRoot(t *testing.T) {
	records, stats, err := collect(t, NewScanner(Options{Root: testutil.WriteProcTree(t)}))

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, stats.Discovered)
}

func TestScanEmitErrorStops(t *testing.T) {
	boom := errors.New("write failed")
	calls := 0
	s := NewScanner(Options{Root: fixtureTree(t), Resolver: testUsers})

	_, err := s.Scan(context.Background(), func(ProcessRecord) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestScanHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(Options{Root: fixtureTree(t)}).Scan(ctx, func(ProcessRecord) error { return nil })

	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanWarnsForLiveUnreadableProcess(t *testing.T) {
	var buf bytes.Buffer
	logutil.SetupLoggerWithWriter(&buf, false, false)
	t.Cleanup(func() { logutil.SetupLogger(false, false) })

	root := testutil.WriteProcTree(t, testutil.Proc{PID: "11", NoStatus: true, Cmdline: testutil.Cmdline("b")})
	s := NewScanner(Options{
		Root:      root,
		IsRunning: func(pid int) bool { return pid == 11 },
	})

	_, stats, err := collect(t, s)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Unreadable)
	assert.Contains(t, buf.String(), "process is running but unreadable")
	assert.Contains(t, buf.String(), "component=procscan")
}

func TestNewScannerDefaults(t *testing.T) {
	s := NewScanner(Options{})
	assert.Equal(t, DefaultRoot, s.opts.Root)
	assert.Equal(t, 1, s.opts.Workers)
}
