// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Command psnap prints a one-shot snapshot of the running processes.
//
// It takes no arguments. Settings come from PSNAP_* environment variables
// and the optional YAML file named by PSNAP_CONFIG.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jongio/psnap/cliout"
	"github.com/jongio/psnap/config"
	"github.com/jongio/psnap/logutil"
	"github.com/jongio/psnap/metrics"
	"github.com/jongio/psnap/owner"
	"github.com/jongio/psnap/procscan"
	"github.com/jongio/psnap/procutil"
	"github.com/jongio/psnap/version"
)

// ErrUsage is returned when psnap is invoked with arguments.
var ErrUsage = errors.New("no arguments accepted, usage: psnap")

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, environ(os.Environ()))
	stop()
	os.Exit(code)
}

// run executes psnap and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, env map[string]string) int {
	cliout.SetMessageWriter(stderr)

	// A nil slice would make cobra fall back to os.Args
	if args == nil {
		args = []string{}
	}

	cmd := newRootCommand(stdout, stderr, env)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrUsage):
		cliout.Error("%v", err)
		return exitUsage
	default:
		cliout.Error("%v", err)
		return exitFailure
	}
}

func newRootCommand(stdout, stderr io.Writer, env map[string]string) *cobra.Command {
	return &cobra.Command{
		Use:   "psnap",
		Short: "Print a snapshot of running processes",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: unexpected argument %q", ErrUsage, args[0])
			}
			return nil
		},
		// Every token, --help included, goes to Args.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Config loading may log, so honor the env switches until the file is read
			logutil.SetupLoggerWithWriter(stderr, env["PSNAP_DEBUG"] == "true", env["PSNAP_LOG_JSON"] == "true")
			cfg, err := config.Load(env)
			if err != nil {
				return err
			}
			logutil.SetupLoggerWithWriter(stderr, cfg.Debug, cfg.LogJSON)
			return snapshot(cmd.Context(), cfg, stdout)
		},
	}
}

func snapshot(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	info := version.New("psnap")
	logutil.Debug("starting snapshot", append(info.LogAttrs(), "root", cfg.ProcRoot, "source", cfg.Source)...)

	resolver, err := owner.NewSystem(cfg.OwnerCacheSize)
	if err != nil {
		return err
	}

	format, err := cliout.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	opts := cliout.ReportOptions{Version: info.Version}
	if !cfg.Wide {
		opts.Width = cliout.TerminalWidth(stdout)
	}

	report := cliout.NewReportWriter(stdout, format, opts)
	if err := report.WriteHeader(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	var stats procscan.Stats
	switch cfg.Source {
	case config.SourceGopsutil:
		stats, err = scanGopsutil(ctx, cfg, resolver, report.WriteRow)
	default:
		stats, err = scanProcfs(ctx, cfg, resolver, report.WriteRow)
	}

	logutil.Debug("snapshot finished",
		"discovered", stats.Discovered,
		"reported", stats.Reported,
		"vanished", stats.Vanished,
		"unreadable", stats.Unreadable,
		"malformed_lines", stats.MalformedLines,
		"duration", stats.Duration,
	)

	if cfg.MetricsFile != "" {
		rec := metrics.NewRecorder()
		if err != nil {
			rec.ObserveFailure(stats)
		} else {
			rec.Observe(stats)
		}
		if mErr := rec.WriteTextfile(cfg.MetricsFile); mErr != nil {
			err = errors.Join(err, mErr)
		}
	}
	if err != nil {
		return err
	}

	if err := report.Close(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if stats.Unreadable > 0 {
		cliout.Warning("%d unreadable processes skipped (set PSNAP_DEBUG=true for details)", stats.Unreadable)
	}
	return nil
}

func scanProcfs(ctx context.Context, cfg *config.Config, resolver owner.Resolver, emit func(procscan.ProcessRecord) error) (procscan.Stats, error) {
	opts := procscan.Options{
		Root:     cfg.ProcRoot,
		Resolver: resolver,
		Strict:   cfg.Strict,
		Workers:  cfg.Workers,
	}
	// Liveness checks only make sense against the host's own processes
	if isHostProc(cfg.ProcRoot) {
		opts.IsRunning = procutil.IsProcessRunning
	}
	return procscan.NewScanner(opts).Scan(ctx, emit)
}

func scanGopsutil(ctx context.Context, cfg *config.Config, resolver owner.Resolver, emit func(procscan.ProcessRecord) error) (procscan.Stats, error) {
	if !isHostProc(cfg.ProcRoot) {
		ctx = procutil.WithProcRoot(ctx, cfg.ProcRoot)
	}
	records, stats, err := procutil.Snapshot(ctx, resolver)
	if err != nil {
		return stats, err
	}
	for _, rec := range records {
		if err := emit(rec); err != nil {
			return stats, fmt.Errorf("writing report: %w", err)
		}
	}
	return stats, nil
}

func isHostProc(root string) bool {
	return filepath.Clean(root) == procscan.DefaultRoot
}

// environ converts KEY=value pairs into a map. Later duplicates win.
func environ(pairs []string) map[string]string {
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		if key, value, ok := strings.Cut(pair, "="); ok && key != "" {
			env[key] = value
		}
	}
	return env
}
