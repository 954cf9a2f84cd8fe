// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package procscan takes a point-in-time snapshot of the processes exposed by
// a procfs-style pseudo-filesystem.
//
// For every numeric entry under the root it reads two files:
//
//   - cmdline: the NUL-delimited argument vector, split into a short
//     executable name and a display string of the remaining arguments
//   - status: "Key:\tValue" lines, of which Name, Pid, PPid, State and Uid
//     are used
//
// The two are merged into a ProcessRecord by Reconcile, with the owner uid
// resolved through an owner.Resolver.
//
// The directory tree changes underneath the scan. A process can exit between
// being listed and being read, so each process is read independently and a
// failure skips that process only. The only fatal condition is a root that
// cannot be opened (ErrFilesystemUnavailable), plus ErrProcessUnreadable when
// Options.Strict is set.
//
// # Example Usage
//
//	resolver, _ := owner.NewSystem(owner.DefaultCacheSize)
//	scanner := procscan.NewScanner(procscan.Options{Resolver: resolver})
//	stats, err := scanner.Scan(ctx, func(rec procscan.ProcessRecord) error {
//	    fmt.Println(rec.PID, rec.Name, rec.Args)
//	    return nil
//	})
package procscan
