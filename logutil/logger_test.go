// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package logutil

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerCreatesWithComponent(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerWithWriter(&buf, false, false)

	logger := NewLogger("procscan")
	if logger.Component() != "procscan" {
		t.Errorf("expected component 'procscan', got %q", logger.Component())
	}

	logger.Info("hello")
	if !strings.Contains(buf.String(), "component=procscan") {
		t.Errorf("expected output to contain component=procscan, got: %s", buf.String())
	}
}

func TestWithFieldsAddsArbitraryFields(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerWithWriter(&buf, false, false)

	logger := NewLogger("comp").WithFields("pid", "42", "source", "procfs")
	logger.Warn("test")

	output := buf.String()
	for _, want := range []string{"component=comp", "pid=42", "source=procfs"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output, got: %s", want, output)
		}
	}
	if logger.Component() != "comp" {
		t.Errorf("expected component preserved after WithFields, got %q", logger.Component())
	}
}

func TestComponentLogLevels(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(*ComponentLogger, string, ...any)
		level   string
	}{
		{"debug", (*ComponentLogger).Debug, "DEBUG"},
		{"info", (*ComponentLogger).Info, "INFO"},
		{"warn", (*ComponentLogger).Warn, "WARN"},
		{"error", (*ComponentLogger).Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetupLoggerWithWriter(&buf, true, false)

			tt.logFunc(NewLogger("lvl-test"), "level test msg", "k", "v")

			output := buf.String()
			if !strings.Contains(output, tt.level) {
				t.Errorf("expected level %s in output, got: %s", tt.level, output)
			}
			if !strings.Contains(output, "level test msg") {
				t.Errorf("expected message in output, got: %s", output)
			}
		})
	}
}

func TestComponentLoggerStructured(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerWithWriter(&buf, true, true)

	NewLogger("json-test").Info("structured msg", "count", 42)

	output := buf.String()
	for _, want := range []string{`"component":"json-test"`, `"msg":"structured msg"`, `"count":42`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in JSON output, got: %s", want, output)
		}
	}
}
