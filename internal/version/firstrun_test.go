package version

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFirstRun(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if !IsFirstRun() {
		t.Fatal("fresh home should be a first run")
	}

	var buf bytes.Buffer
	PrintFirstRunNotice(&buf)
	if !strings.Contains(buf.String(), "sales-edge setup") {
		t.Errorf("notice = %q", buf.String())
	}
	if IsFirstRun() {
		t.Error("notice should mark the CLI initialized")
	}
}

func TestFirstRunConfigPresent(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := os.WriteFile(filepath.Join(home, ".sales-edge.yaml"), []byte("api_url: x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if IsFirstRun() {
		t.Error("an existing config file means setup already ran")
	}
}
