// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package procscan

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// SplitCmdline splits a raw cmdline into its NUL-delimited tokens. A single
// trailing NUL terminates the last token and does not start a new one.
// Spaces inside a token are preserved.
func SplitCmdline(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	data = bytes.TrimSuffix(data, []byte{0})
	return strings.Split(string(data), "\x00")
}

// ParseCmdline returns the short executable name and the display arguments of
// a raw cmdline. An empty cmdline (kernel threads, zombies) yields two empty
// strings.
func ParseCmdline(data []byte) (name, args string) {
	return ParseArgv(SplitCmdline(data))
}

// ParseArgv derives the short name from the first word of argv[0] (its last
// '/'-separated component). Whatever follows that word in argv[0], such as a
// title rewritten by setproctitle, leads the arguments; the remaining argv
// entries follow, joined with single spaces and otherwise untouched.
func ParseArgv(argv []string) (name, args string) {
	if len(argv) == 0 {
		return "", ""
	}
	program, rest := firstWord(argv[0])
	args = strings.Join(append([]string{rest}, argv[1:]...), " ")
	return shortName(program), strings.TrimSpace(args)
}

// firstWord splits s after its first whitespace-delimited word.
func firstWord(s string) (word, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

func shortName(program string) string {
	parts := strings.FieldsFunc(program, func(r rune) bool { return r == '/' })
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(parts[len(parts)-1])
}

// ReadCmdline reads and parses the cmdline file of an opened process directory.
func ReadCmdline(dir *os.Root) (name, args string, err error) {
	data, err := dir.ReadFile("cmdline")
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrProcessUnreadable, err)
	}
	name, args = ParseCmdline(data)
	return name, args, nil
}
