// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package procscan

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseStatus extracts Name, Pid, PPid, State and Uid from status text.
//
// Keys match exactly and case-sensitively; other lines are ignored. Each value
// is the first whitespace-delimited token after the colon, and for Uid that
// token is the real uid. A recognized key whose value is missing or not
// parsable is reported in issues (wrapping ErrMalformedStatusLine) and leaves
// the field unset; scanning continues with the next line.
func ParseStatus(data []byte) (StatusFields, []error) {
	var (
		st     StatusFields
		issues []error
	)

	for line := range strings.Lines(string(data)) {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		var field *string
		switch key {
		case "Name":
			field = &st.Name
		case "Pid":
			field = &st.PID
		case "PPid":
			field = &st.PPID
		case "State":
			field = &st.State
		case "Uid":
			uid, err := parseUID(value)
			if err != nil {
				st.UID, st.HasUID = 0, false
				issues = append(issues, err)
				continue
			}
			st.UID, st.HasUID = uid, true
			continue
		default:
			continue
		}

		token := firstToken(value)
		if token == "" {
			issues = append(issues, fmt.Errorf("%w: %s has no value", ErrMalformedStatusLine, key))
		}
		*field = token
	}

	return st, issues
}

func parseUID(value string) (int, error) {
	token := firstToken(value)
	uid, err := strconv.ParseUint(token, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: Uid %q: %w", ErrMalformedStatusLine, token, err)
	}
	return int(uid), nil
}

func firstToken(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ReadStatus reads and parses the status file of an opened process directory.
func ReadStatus(dir *os.Root) (StatusFields, []error, error) {
	data, err := dir.ReadFile("status")
	if err != nil {
		return StatusFields{}, nil, fmt.Errorf("%w: %w", ErrProcessUnreadable, err)
	}
	st, issues := ParseStatus(data)
	return st, issues, nil
}
