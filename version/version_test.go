package version

import "testing"

func TestNew_Defaults(t *testing.T) {
	info := New("psnap")
	if info.Version != "0.0.0-dev" {
		t.Errorf("expected Version '0.0.0-dev', got %q", info.Version)
	}
	if info.BuildDate != "unknown" {
		t.Errorf("expected BuildDate 'unknown', got %q", info.BuildDate)
	}
	if info.GitCommit != "unknown" {
		t.Errorf("expected GitCommit 'unknown', got %q", info.GitCommit)
	}
	if info.Name != "psnap" {
		t.Errorf("expected Name 'psnap', got %q", info.Name)
	}
}

func TestNew_UsesLinkerValues(t *testing.T) {
	old := Version
	Version = "1.4.0"
	t.Cleanup(func() { Version = old })

	if got := New("psnap").Version; got != "1.4.0" {
		t.Errorf("expected Version '1.4.0', got %q", got)
	}
}

func TestInfo_String(t *testing.T) {
	info := &Info{
		Version:   "1.2.3",
		BuildDate: "2024-01-01",
		GitCommit: "abc123",
		Name:      "psnap",
	}
	got := info.String()
	expected := "psnap version 1.2.3 (commit: abc123, built: 2024-01-01)"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestInfo_LogAttrs(t *testing.T) {
	info := &Info{Version: "1.2.3", GitCommit: "abc123", BuildDate: "today"}
	attrs := info.LogAttrs()
	if len(attrs) != 6 {
		t.Fatalf("expected 6 values, got %d", len(attrs))
	}
	if attrs[0] != "version" || attrs[1] != "1.2.3" {
		t.Errorf("unexpected attrs %v", attrs)
	}
}
