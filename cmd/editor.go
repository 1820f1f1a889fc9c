package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/calance/sales-edge/internal/core"
	"github.com/calance/sales-edge/internal/workflow"
)

// editDraft opens the session's draft as JSON in $EDITOR and stores the
// result. An emptied file cancels.
func editDraft(s *workflow.Session) error {
	var current any
	if d, ok := s.CaseStudyDraft(); ok {
		current = d
	} else if d, ok := s.PresentationDraft(); ok {
		current = d
	}
	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	tmpFile, err := os.CreateTemp("", "sales-edge-draft-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	tmpFile.Close()

	if err := openEditor(tmpFile.Name()); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}

	edited, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return fmt.Errorf("failed to read edited file: %w", err)
	}
	if len(bytes.TrimSpace(edited)) == 0 {
		return fmt.Errorf("edit cancelled")
	}

	if _, ok := s.CaseStudyDraft(); ok {
		var d core.Draft
		if err := json.Unmarshal(edited, &d); err != nil {
			return fmt.Errorf("edited draft is not valid JSON: %w", err)
		}
		if d.InputMode == "" {
			d.InputMode = core.InputStructured
		}
		return s.ReplaceCaseStudyDraft(d)
	}
	var d core.PresentationDraft
	if err := json.Unmarshal(edited, &d); err != nil {
		return fmt.Errorf("edited draft is not valid JSON: %w", err)
	}
	return s.ReplacePresentationDraft(d)
}

func openEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found - set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
