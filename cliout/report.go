package cliout

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/jongio/psnap/procscan"
)

// Column widths of the table format. Longer values push the following
// columns right but stay separated by at least one space.
const (
	widthPID   = 7
	widthPPID  = 7
	widthState = 5
	widthOwner = 12
	widthName  = 20
)

// minArgsWidth is the narrowest the args column is truncated to, so a cut
// row never looks like one without arguments.
const minArgsWidth = 8

const ellipsis = "…"

// header holds the column captions in output order.
var header = procscan.ProcessRecord{
	PID:   "Pid",
	PPID:  "PPid",
	State: "State",
	Owner: "Owner",
	Name:  "Name",
	Args:  "Args",
}

// ReportOptions tunes a ReportWriter.
type ReportOptions struct {
	// Width truncates the args column so table lines fit. Zero disables truncation.
	Width int
	// Version is recorded in JSON documents.
	Version string
}

// ReportWriter writes a process table in one of the supported formats.
type ReportWriter struct {
	w      io.Writer
	format Format
	opts   ReportOptions
	rows   []procscan.ProcessRecord
}

// jsonReport is the document written for FormatJSON.
type jsonReport struct {
	Version   string                   `json:"version,omitempty"`
	Count     int                      `json:"count"`
	Processes []procscan.ProcessRecord `json:"processes"`
}

// NewReportWriter creates a ReportWriter writing to w.
func NewReportWriter(w io.Writer, format Format, opts ReportOptions) *ReportWriter {
	return &ReportWriter{
		w:      w,
		format: format,
		opts:   opts,
		rows:   []procscan.ProcessRecord{},
	}
}

// WriteHeader writes the column captions. It is a no-op for JSON.
func (rw *ReportWriter) WriteHeader() error {
	if rw.format == FormatJSON {
		return nil
	}
	return rw.writeLine(header)
}

// WriteRow writes one process. JSON rows are buffered until Close.
func (rw *ReportWriter) WriteRow(rec procscan.ProcessRecord) error {
	if rw.format == FormatJSON {
		rw.rows = append(rw.rows, rec)
		return nil
	}
	return rw.writeLine(rec)
}

// Close flushes buffered output. It does not close the underlying writer.
func (rw *ReportWriter) Close() error {
	if rw.format != FormatJSON {
		return nil
	}
	enc := json.NewEncoder(rw.w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		Version:   rw.opts.Version,
		Count:     len(rw.rows),
		Processes: rw.rows,
	})
}

func (rw *ReportWriter) writeLine(rec procscan.ProcessRecord) error {
	prefix := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s ",
		widthPID, rec.PID,
		widthPPID, rec.PPID,
		widthState, rec.State,
		widthOwner, rec.Owner,
		widthName, rec.Name,
	)
	args := rec.Args
	if rw.opts.Width > 0 {
		args = truncate(args, rw.opts.Width-utf8.RuneCountInString(prefix))
	}
	_, err := fmt.Fprintln(rw.w, strings.TrimRight(prefix+args, " "))
	return err
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
// At least minArgsWidth runes are kept even when n is smaller.
func truncate(s string, n int) string {
	n = max(n, minArgsWidth)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + ellipsis
}
