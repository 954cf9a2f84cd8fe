// Package cliout formats psnap's output.
//
// # Output Formats
//
// The package supports two output formats:
//   - default: a fixed-width, left-justified table
//   - json: a single JSON document for scripting
//
// Parse a configured format name with ParseFormat:
//
//	format, err := cliout.ParseFormat(cfg.Format)
//	if err != nil {
//	    return err
//	}
//
// # Reports
//
// A ReportWriter emits a header and then one row per process, in the order
// rows are written:
//
//	rw := cliout.NewReportWriter(os.Stdout, format, cliout.ReportOptions{})
//	_ = rw.WriteHeader()
//	_ = rw.WriteRow(rec)
//	_ = rw.Close()
//
// The table columns are pid, ppid, state, owner, name and args. Only the args
// column is truncated, and only when ReportOptions.Width is set (psnap sets it
// to the terminal width when stdout is a terminal).
//
// JSON reports are buffered and written by Close:
//
//	{"version": "1.0.0", "count": 1, "processes": [{"pid": "1", ...}]}
//
// # Messages
//
// Error and Warning print one-line messages to stderr, with color and a
// Unicode symbol when stderr is a terminal that supports them.
package cliout
