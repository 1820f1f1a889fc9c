// Package version tracks first-run state for the CLI.
package version

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/calance/sales-edge/internal/config"
	"github.com/calance/sales-edge/internal/tui"
)

const markerName = ".initialized"

// IsFirstRun reports whether neither a home config file nor the first-run
// marker exists.
func IsFirstRun() bool {
	if _, err := os.Stat(config.HomePath()); err == nil {
		return false
	}
	if _, err := os.Stat(markerPath()); err == nil {
		return false
	}
	return true
}

// MarkInitialized creates the first-run marker. Failures are ignored; the
// notice is shown again next time.
func MarkInitialized() {
	p := markerPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return
	}
	_ = os.WriteFile(p, []byte{}, 0644)
}

func markerPath() string {
	return filepath.Join(config.Default().Storage.Dir, markerName)
}

// PrintFirstRunNotice prints a welcome message and marks the CLI initialized.
func PrintFirstRunNotice(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s Welcome to Calance Sales Edge!\n", tui.TitleStyle.Render("*"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Quick start:")
	fmt.Fprintf(w, "    1. Run %s to pick your default industry and storage\n", tui.ValueStyle.Render("sales-edge setup"))
	fmt.Fprintf(w, "    2. Check the generation service: %s\n", tui.ValueStyle.Render("sales-edge doctor"))
	fmt.Fprintf(w, "    3. Start drafting: %s\n", tui.ValueStyle.Render("sales-edge session case-study"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", tui.HelpStyle.Render("Run 'sales-edge --help' for all commands"))
	fmt.Fprintln(w)

	MarkInitialized()
}
