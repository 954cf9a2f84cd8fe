// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package logutil provides structured logging for psnap on top of slog.
//
// Logs always go to stderr so that the process table on stdout stays
// machine-readable.
//
// # Basic Usage
//
//	// Initialize logging (typically in main.go)
//	logutil.SetupLogger(debug, structured)
//
//	// Package-level helpers
//	logutil.Debug("config loaded", "source", cfg.Source)
//
//	// Component-scoped logger
//	log := logutil.NewLogger("procscan")
//	log.Debug("skipping process", "pid", pid, "reason", "vanished")
//
// # Debug Mode
//
// Debug logging can be enabled in two ways:
//   - Pass debug=true to SetupLogger
//   - Set PSNAP_DEBUG=true
//
// # Structured Logging
//
// When structured=true is passed to SetupLogger, logs are output as JSON:
//
//	{"time":"2024-01-15T10:30:00Z","level":"DEBUG","msg":"skipping process","component":"procscan","pid":"4242"}
//
// Otherwise, logs use the slog text format:
//
//	time=2024-01-15T10:30:00Z level=DEBUG msg="skipping process" component=procscan pid=4242
package logutil
