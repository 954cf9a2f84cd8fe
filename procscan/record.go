// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package procscan

import "time"

// DefaultRoot is the conventional procfs mount point.
const DefaultRoot = "/proc"

// ProcessRecord is one row of the snapshot. PID is never empty; every other
// field may be empty.
type ProcessRecord struct {
	PID   string `json:"pid"`
	PPID  string `json:"ppid"`
	State string `json:"state"`
	Owner string `json:"owner"`
	Name  string `json:"name"`
	Args  string `json:"args"`
}

// StatusFields holds the values extracted from a status record.
// UID is only meaningful when HasUID is set.
type StatusFields struct {
	Name   string
	PID    string
	PPID   string
	State  string
	UID    int
	HasUID bool
}

// Stats summarizes a scan.
type Stats struct {
	Discovered     int           // numeric entries listed under the root
	Reported       int           // records handed to the emit callback
	Vanished       int           // entries that could not be opened as a directory
	Unreadable     int           // processes whose status or cmdline could not be read
	MalformedLines int           // recognized status lines with unparsable values
	Duration       time.Duration // wall time of the scan
}

// Skipped returns the number of discovered processes that produced no record.
func (s Stats) Skipped() int {
	return s.Vanished + s.Unreadable
}
