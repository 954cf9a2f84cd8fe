// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package security validates user-supplied file paths before psnap reads or
// writes them.
//
// psnap takes its configuration file path and metrics output path from the
// environment. ValidatePath rejects parent directory references, including
// ones introduced by symbolic links. ValidateFilePermissions flags
// world-writable configuration files, since anyone able to edit the file
// could point the scan at another root or the metrics at another file.
package security
