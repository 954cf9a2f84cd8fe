// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jongio/psnap/procscan"
)

var sampleStats = procscan.Stats{
	Discovered:     10,
	Reported:       7,
	Vanished:       2,
	Unreadable:     1,
	MalformedLines: 3,
	Duration:       1500 * time.Millisecond,
}

func TestObserve(t *testing.T) {
	rec := NewRecorder()
	rec.Observe(sampleStats)

	assert.Equal(t, 10.0, testutil.ToFloat64(rec.discovered))
	assert.Equal(t, 7.0, testutil.ToFloat64(rec.reported))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.skipped.WithLabelValues("vanished")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.skipped.WithLabelValues("unreadable")))
	assert.Equal(t, 3.0, testutil.ToFloat64(rec.malformedLines))
	assert.Equal(t, 1.5, testutil.ToFloat64(rec.duration))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.success))
	assert.Greater(t, testutil.ToFloat64(rec.lastRun), 0.0)
}

func TestObserveFailure(t *testing.T) {
	rec := NewRecorder()
	rec.ObserveFailure(procscan.Stats{Discovered: 4, Reported: 1, Unreadable: 1})

	assert.Equal(t, 0.0, testutil.ToFloat64(rec.success))
	assert.Equal(t, 4.0, testutil.ToFloat64(rec.discovered))
}

func TestRecordersAreIndependent(t *testing.T) {
	first := NewRecorder()
	second := NewRecorder()
	first.Observe(sampleStats)

	assert.Equal(t, 0.0, testutil.ToFloat64(second.discovered))
	assert.NotSame(t, first.Registry(), second.Registry())
}

func TestWriteTextfile(t *testing.T) {
	rec := NewRecorder()
	rec.Observe(sampleStats)

	path := filepath.Join(t.TempDir(), "psnap.prom")
	require.NoError(t, rec.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "psnap_processes_discovered 10\n")
	assert.Contains(t, text, "psnap_processes_reported 7\n")
	assert.Contains(t, text, `psnap_processes_skipped{reason="vanished"} 2`)
	assert.Contains(t, text, "psnap_scan_success 1\n")
	assert.True(t, strings.Contains(text, "# HELP psnap_scan_duration_seconds"))
}

func TestWriteTextfileBadDirectory(t *testing.T) {
	rec := NewRecorder()
	err := rec.WriteTextfile(filepath.Join(t.TempDir(), "missing", "psnap.prom"))
	assert.Error(t, err)
}
