// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package procscan

import "errors"

var (
	// ErrFilesystemUnavailable indicates the process root cannot be opened or listed.
	ErrFilesystemUnavailable = errors.New("process filesystem unavailable")
	// ErrProcessUnreadable indicates a listed process's status or cmdline could not be read.
	ErrProcessUnreadable = errors.New("process unreadable")
	// ErrMalformedStatusLine indicates a recognized status key with an unparsable value.
	ErrMalformedStatusLine = errors.New("malformed status line")

	// errVanished marks an entry that could not be opened as a process
	// directory. It is never returned to callers.
	errVanished = errors.New("process directory vanished")
)
