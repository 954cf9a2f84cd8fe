// Package testutil provides test helpers for psnap.
//
// This package includes helpers for:
//   - Synthesizing a process pseudo-filesystem (WriteProcTree, StatusText, Cmdline)
//   - Capturing stdout during test execution (CaptureOutput)
//
// All functions use t.Helper() for proper test line reporting.
//
// Example usage:
//
//	func TestScan(t *testing.T) {
//	    root := testutil.WriteProcTree(t,
//	        testutil.Proc{
//	            PID:     "42",
//	            Status:  testutil.StatusText("foo", "42", "1", "S", "1000"),
//	            Cmdline: testutil.Cmdline("/usr/bin/foo", "-x"),
//	        },
//	    )
//	    // root now holds 42/status and 42/cmdline
//	}
package testutil
