package cliout

import (
	"fmt"
	"io"
	"os"
	"runtime"
)

// Format represents the output format.
type Format string

const (
	// FormatDefault is the fixed-width table format.
	FormatDefault Format = "default"
	// FormatJSON is JSON format.
	FormatJSON Format = "json"
)

// ANSI color codes for messages
const (
	Reset        = "\033[0m"
	BrightRed    = "\033[91m"
	BrightYellow = "\033[93m"
)

// Unicode symbols and their ASCII fallbacks
const (
	SymbolCross   = "✗"
	SymbolWarning = "⚠"
	ASCIICross    = "[-]"
	ASCIIWarning  = "[!]"
)

// ParseFormat validates a format name. The empty string selects FormatDefault.
func ParseFormat(format string) (Format, error) {
	switch format {
	case "default", "table", "":
		return FormatDefault, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (valid options: default, json)", format)
	}
}

// messages is where Error and Warning write.
var messages io.Writer = os.Stderr

// SetMessageWriter redirects Error and Warning output.
func SetMessageWriter(w io.Writer) {
	messages = w
}

// supportsUnicode detects if the terminal supports Unicode symbols
var supportsUnicode = detectUnicodeSupport()

// detectUnicodeSupport checks if the terminal can display Unicode properly
func detectUnicodeSupport() bool {
	if runtime.GOOS != "windows" {
		return true
	}

	// Windows Terminal, VS Code, ConEmu and PowerShell render Unicode; the
	// legacy console does not.
	if os.Getenv("WT_SESSION") != "" || os.Getenv("TERM_PROGRAM") == "vscode" || os.Getenv("ConEmuPID") != "" {
		return true
	}
	if os.Getenv("PSModulePath") != "" || os.Getenv("POWERSHELL_DISTRIBUTION_CHANNEL") != "" {
		return true
	}
	return os.Getenv("TERM") != ""
}

// getIcon returns the appropriate icon based on Unicode support
func getIcon(unicode, ascii string) string {
	if supportsUnicode {
		return unicode
	}
	return ascii
}

// colorize wraps text in color when messages go to a terminal.
func colorize(color, text string) string {
	if os.Getenv("NO_COLOR") != "" || !IsTerminal(messages) {
		return text
	}
	return color + text + Reset
}

// Error prints an error message with a red cross
func Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(messages, "%s %s\n", colorize(BrightRed, getIcon(SymbolCross, ASCIICross)), msg)
}

// Warning prints a warning message with a yellow triangle
func Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(messages, "%s  %s\n", colorize(BrightYellow, getIcon(SymbolWarning, ASCIIWarning)), msg)
}
