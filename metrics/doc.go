// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package metrics exports scan statistics in the Prometheus text format.
//
// psnap is a one-shot command, so instead of serving /metrics it writes a
// textfile that node_exporter's textfile collector can pick up:
//
//	rec := metrics.NewRecorder()
//	rec.Observe(stats)
//	if err := rec.WriteTextfile("/var/lib/node_exporter/psnap.prom"); err != nil {
//	    return err
//	}
package metrics
