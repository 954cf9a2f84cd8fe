// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package config loads psnap settings.
//
// psnap takes no command-line arguments. Settings are layered from least to
// most priority:
//
//  1. Default values (see Default)
//  2. A YAML file named by PSNAP_CONFIG
//  3. PSNAP_* environment variables
//
// Example file:
//
//	proc_root: /proc
//	format: json
//	workers: 8
//	metrics_file: /var/lib/node_exporter/psnap.prom
package config
