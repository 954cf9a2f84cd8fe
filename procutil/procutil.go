// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package procutil

import (
	"context"
	"math"

	"github.com/shirou/gopsutil/v4/common"
	"github.com/shirou/gopsutil/v4/process"
)

// IsProcessRunning checks if a process with the given PID is running.
// Any lookup error is reported as not running.
func IsProcessRunning(pid int) bool {
	if pid <= 0 || pid > math.MaxInt32 {
		return false
	}

	exists, err := process.PidExistsWithContext(context.Background(), int32(pid))
	if err != nil {
		return false
	}
	return exists
}

// WithProcRoot returns a context that makes gopsutil read processes from
// root instead of /proc. It only affects Linux.
func WithProcRoot(ctx context.Context, root string) context.Context {
	return context.WithValue(ctx, common.EnvKey, common.EnvMap{common.HostProcEnvKey: root})
}
