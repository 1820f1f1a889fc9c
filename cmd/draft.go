package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/calance/sales-edge/internal/core"
	"github.com/calance/sales-edge/internal/workflow"
)

// DraftCmd edits the stored draft of a module between invocations.
var DraftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Show or edit the saved draft of a module",
	Long: `Drafts are saved after every edit and survive restarts.

Field paths:
  clientName, industry, challenge, solution, subtitle, technology,
  timeline, roi, rawNotes, inputMode (structured/freeform)
  metrics[+].label    append a metric and set its label
  metrics[0].before   set a field of an existing metric
  benefits[+], benefits[1]
  title, objective, audience, duration, keyPoints[+]   (presentation)`,
}

var draftShowCmd = &cobra.Command{
	Use:   "show <module>",
	Short: "Print the draft and its validation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDraft(cmd, args[0], func(_ context.Context, s *workflow.Session) error {
			printDraft(os.Stdout, s)
			return nil
		})
	},
}

var draftSetCmd = &cobra.Command{
	Use:   "set <module> <field> <value...>",
	Short: "Set one field of the draft",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDraft(cmd, args[0], func(_ context.Context, s *workflow.Session) error {
			v, err := s.Update(args[1], joinArgs(args[2:]))
			if err != nil {
				return userError(err)
			}
			printSuccess(os.Stdout, fmt.Sprintf("%s updated", args[1]))
			printValidation(os.Stdout, v)
			return nil
		})
	},
}

var draftRemoveCmd = &cobra.Command{
	Use:   "remove <module> <list> <index>",
	Short: "Remove a row from metrics, benefits or keyPoints",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("index must be a number: %s", args[2])
		}
		return withDraft(cmd, args[0], func(_ context.Context, s *workflow.Session) error {
			v, err := s.RemoveItem(args[1], i)
			if err != nil {
				return userError(err)
			}
			printSuccess(os.Stdout, fmt.Sprintf("%s[%d] removed", args[1], i))
			printValidation(os.Stdout, v)
			return nil
		})
	},
}

var draftValidateCmd = &cobra.Command{
	Use:   "validate <module>",
	Short: "Check whether the draft can be generated",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDraft(cmd, args[0], func(_ context.Context, s *workflow.Session) error {
			v := s.Validation()
			printValidation(os.Stdout, v)
			if !v.CanSubmit {
				return fmt.Errorf("draft has %d problem(s)", len(v.Errors))
			}
			return nil
		})
	},
}

var draftEditCmd = &cobra.Command{
	Use:   "edit <module>",
	Short: "Edit the draft as JSON in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDraft(cmd, args[0], func(_ context.Context, s *workflow.Session) error {
			if err := editDraft(s); err != nil {
				return err
			}
			printDraft(os.Stdout, s)
			return nil
		})
	},
}

var draftResetCmd = &cobra.Command{
	Use:   "reset <module>",
	Short: "Clear the draft and its saved copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDraft(cmd, args[0], func(_ context.Context, s *workflow.Session) error {
			if err := s.Reset(); err != nil {
				return err
			}
			printSuccess(os.Stdout, "Draft cleared")
			return nil
		})
	},
}

func init() {
	DraftCmd.AddCommand(draftShowCmd, draftSetCmd, draftRemoveCmd, draftEditCmd, draftValidateCmd, draftResetCmd)
}

func withDraft(cmd *cobra.Command, module string, fn func(ctx context.Context, s *workflow.Session) error) error {
	m, err := core.ParseModule(module)
	if err != nil {
		return userError(err)
	}
	return withApp(cmd, func(ctx context.Context, a *app) error {
		s, err := a.session(m)
		if err != nil {
			return err
		}
		return fn(ctx, s)
	})
}
