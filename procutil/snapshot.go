// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package procutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/jongio/psnap/logutil"
	"github.com/jongio/psnap/owner"
	"github.com/jongio/psnap/procscan"
)

// handle is the subset of *process.Process a snapshot reads.
type handle interface {
	PID() int32
	NameWithContext(ctx context.Context) (string, error)
	PpidWithContext(ctx context.Context) (int32, error)
	StatusWithContext(ctx context.Context) ([]string, error)
	UidsWithContext(ctx context.Context) ([]uint32, error)
	CmdlineSliceWithContext(ctx context.Context) ([]string, error)
}

type gopsProcess struct {
	*process.Process
}

func (p gopsProcess) PID() int32 { return p.Pid }

func listProcesses(ctx context.Context) ([]handle, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	handles := make([]handle, 0, len(procs))
	for _, p := range procs {
		handles = append(handles, gopsProcess{p})
	}
	return handles, nil
}

// stateLetters maps gopsutil status names back to procfs state letters.
var stateLetters = map[string]string{
	process.Running: "R",
	process.Sleep:   "S",
	process.Blocked: "D",
	process.Idle:    "I",
	process.Stop:    "T",
	process.Zombie:  "Z",
	process.Wait:    "W",
	process.Lock:    "L",
}

// Snapshot lists every visible process through gopsutil and reconciles each
// into a ProcessRecord. Processes that exit during the snapshot are counted as
// vanished; processes whose name cannot be read are counted as unreadable.
// Neither aborts the snapshot.
func Snapshot(ctx context.Context, r owner.Resolver) ([]procscan.ProcessRecord, procscan.Stats, error) {
	return snapshot(ctx, listProcesses, r)
}

func snapshot(ctx context.Context, list func(context.Context) ([]handle, error), r owner.Resolver) ([]procscan.ProcessRecord, procscan.Stats, error) {
	log := logutil.NewLogger("procutil")
	start := time.Now()
	var stats procscan.Stats

	procs, err := list(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("%w: listing processes: %w", procscan.ErrFilesystemUnavailable, err)
	}
	stats.Discovered = len(procs)

	records := make([]procscan.ProcessRecord, 0, len(procs))
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(start)
			return records, stats, err
		}

		rec, err := read(ctx, p, r)
		switch {
		case err == nil:
			records = append(records, rec)
			stats.Reported++
		case isVanished(err):
			stats.Vanished++
			log.Debug("process exited during snapshot", "pid", p.PID())
		default:
			stats.Unreadable++
			log.Warn("skipping unreadable process", "pid", p.PID(), "error", err)
		}
	}

	stats.Duration = time.Since(start)
	return records, stats, nil
}

func read(ctx context.Context, p handle, r owner.Resolver) (procscan.ProcessRecord, error) {
	pid := strconv.Itoa(int(p.PID()))

	name, err := p.NameWithContext(ctx)
	if err != nil {
		return procscan.ProcessRecord{}, err
	}

	st := procscan.StatusFields{Name: name, PID: pid}
	if ppid, err := p.PpidWithContext(ctx); err == nil {
		st.PPID = strconv.Itoa(int(ppid))
	}
	if states, err := p.StatusWithContext(ctx); err == nil && len(states) > 0 {
		st.State = stateLetter(states[0])
	}
	if uids, err := p.UidsWithContext(ctx); err == nil && len(uids) > 0 {
		st.UID = int(uids[0])
		st.HasUID = true
	}

	// Kernel threads have no command line
	argv, _ := p.CmdlineSliceWithContext(ctx)
	argName, args := procscan.ParseArgv(argv)

	return procscan.Reconcile(pid, st, argName, args, r), nil
}

func stateLetter(status string) string {
	if letter, ok := stateLetters[status]; ok {
		return letter
	}
	return ""
}

func isVanished(err error) bool {
	return errors.Is(err, process.ErrorProcessNotRunning) || errors.Is(err, os.ErrNotExist)
}
