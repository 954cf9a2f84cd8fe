// Package procutil reads process state through github.com/shirou/gopsutil.
//
// psnap normally scans a procfs mount directly (see package procscan). This
// package covers the cases where that is not enough:
//
//   - IsProcessRunning tells a permission failure apart from a process that
//     exited while it was being read.
//   - Snapshot produces the same records as a procfs scan using gopsutil's
//     platform backends, for hosts without a procfs.
//
// gopsutil reads /proc on Linux and uses sysctl or native APIs elsewhere.
// WithProcRoot points its Linux backend at another mount, such as a host
// procfs bind-mounted into a container.
//
// # Example Usage
//
//	resolver, _ := owner.NewSystem(owner.DefaultCacheSize)
//	records, stats, err := procutil.Snapshot(ctx, resolver)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d processes, %d skipped\n", len(records), stats.Skipped())
package procutil
