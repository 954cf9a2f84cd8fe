// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package procscan

import (
	"strings"

	"github.com/jongio/psnap/owner"
)

// Reconcile merges the status fields and the cmdline-derived name and args of
// the process listed as pid into a ProcessRecord.
//
// The name starts as argName. The status Name replaces it unless argName
// already begins with it: the kernel truncates the status name to 15 bytes,
// so a longer argv name that agrees with it is kept. An empty status Name
// never replaces argName.
//
// If the status record carried no Pid, pid is used so the record is never
// anonymous. A missing uid resolves to owner.Unknown.
func Reconcile(pid string, st StatusFields, argName, args string, resolver owner.Resolver) ProcessRecord {
	rec := ProcessRecord{
		PID:   st.PID,
		PPID:  st.PPID,
		State: st.State,
		Owner: owner.Unknown,
		Name:  argName,
		Args:  args,
	}

	if rec.PID == "" {
		rec.PID = pid
	}
	if st.Name != "" && !strings.HasPrefix(argName, st.Name) {
		rec.Name = st.Name
	}
	if st.HasUID && resolver != nil {
		rec.Owner = resolver.Resolve(st.UID)
	}

	return rec
}
