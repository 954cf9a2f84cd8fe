package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Proc describes one synthetic process directory.
type Proc struct {
	PID     string // directory name under the root
	Status  string // contents of the status file
	Cmdline []byte // contents of the cmdline file

	NoStatus  bool // omit the status file
	NoCmdline bool // omit the cmdline file
}

// StatusText builds a status record in the kernel's "Key:\tValue" layout.
// Empty arguments omit the corresponding line. uid is repeated four times the
// way the kernel reports real, effective, saved and filesystem ids.
func StatusText(name, pid, ppid, state, uid string) string {
	var b strings.Builder
	line := func(key, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s:\t%s\n", key, value)
		}
	}

	line("Name", name)
	b.WriteString("Umask:\t0022\n")
	line("State", state)
	line("Tgid", pid)
	line("Pid", pid)
	line("PPid", ppid)
	b.WriteString("TracerPid:\t0\n")
	if uid != "" {
		line("Uid", strings.Join([]string{uid, uid, uid, uid}, "\t"))
		line("Gid", strings.Join([]string{uid, uid, uid, uid}, "\t"))
	}
	b.WriteString("VmRSS:\t    1024 kB\n")
	return b.String()
}

// Cmdline builds a NUL-terminated argument vector.
func Cmdline(argv ...string) []byte {
	if len(argv) == 0 {
		return nil
	}
	return []byte(strings.Join(argv, "\x00") + "\x00")
}

// WriteProcTree creates a process root under t.TempDir() containing the given
// processes plus a few non-process entries, and returns its path.
func WriteProcTree(t *testing.T, procs ...Proc) string {
	t.Helper()

	root := t.TempDir()
	for _, p := range procs {
		dir := filepath.Join(root, p.PID)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("Failed to create process dir %s: %v", dir, err)
		}
		if !p.NoStatus {
			writeFile(t, filepath.Join(dir, "status"), []byte(p.Status))
		}
		if !p.NoCmdline {
			writeFile(t, filepath.Join(dir, "cmdline"), p.Cmdline)
		}
	}

	// Entries a real procfs has next to the process directories.
	writeFile(t, filepath.Join(root, "uptime"), []byte("12345.67 54321.00\n"))
	writeFile(t, filepath.Join(root, "meminfo"), []byte("MemTotal:       16384 kB\n"))
	if err := os.MkdirAll(filepath.Join(root, "sys", "kernel"), 0o750); err != nil {
		t.Fatalf("Failed to create sys dir: %v", err)
	}

	return root
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// CaptureOutput captures stdout during function execution.
// It redirects os.Stdout to a pipe, executes the function, and returns the captured output.
// The original stdout is always restored, even if the function returns an error.
func CaptureOutput(t *testing.T, fn func() error) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	// Buffered so the reader never blocks after the test gives up on it
	outCh := make(chan string, 1)
	go func() {
		var output strings.Builder
		buf := make([]byte, 1024)
		for {
			n, readErr := r.Read(buf)
			if n > 0 {
				output.Write(buf[:n])
			}
			if readErr != nil {
				break
			}
		}
		outCh <- output.String()
	}()

	fnErr := fn()

	if err := w.Close(); err != nil {
		t.Logf("Failed to close pipe writer: %v", err)
	}
	os.Stdout = origStdout

	output := <-outCh
	if fnErr != nil {
		t.Logf("Command error: %v", fnErr)
	}
	return output
}
