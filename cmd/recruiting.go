package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/calance/sales-edge/internal/core"
	"github.com/calance/sales-edge/internal/tui"
)

var (
	recruitingInput string
	recruitingCopy  bool
)

// writeClipboard is swapped in tests; CI machines have no clipboard.
var writeClipboard = clipboard.WriteAll

// RecruitingCmd runs the stateless recruiting tools.
var RecruitingCmd = &cobra.Command{
	Use:     "recruiting",
	Aliases: []string{"recruit"},
	Short:   "Recruiting assistant tools",
}

var recruitingToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the recruiting tools",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printTools(os.Stdout)
	},
}

var recruitingRunCmd = &cobra.Command{
	Use:   "run <tool> [text...]",
	Short: "Run a recruiting tool on text or a file",
	Example: `  sales-edge recruiting run jd-enhancer --input jd.txt
  sales-edge recruiting run boolean-search "senior Go engineer, Austin"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := joinArgs(args[1:])
		if recruitingInput != "" {
			var err error
			if input, err = readInput(recruitingInput); err != nil {
				return err
			}
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			content, err := runRecruiting(ctx, a, os.Stdout, args[0], input)
			if err != nil || !recruitingCopy {
				return err
			}
			return copyResult(os.Stdout, content)
		})
	},
}

func init() {
	recruitingRunCmd.Flags().StringVarP(&recruitingInput, "input", "i", "", "Input file ('-' for stdin)")
	recruitingRunCmd.Flags().BoolVarP(&recruitingCopy, "copy", "c", false, "Copy the result to the clipboard")
	RecruitingCmd.AddCommand(recruitingToolsCmd, recruitingRunCmd)
}

// runRecruiting runs one tool, prints the result and returns its content.
func runRecruiting(ctx context.Context, a *app, w io.Writer, toolID, input string) (string, error) {
	if _, err := a.ws.Switch(core.ModuleRecruiting); err != nil {
		return "", err
	}
	var res *core.RecruitingResult
	label := "Running " + toolID
	if t, err := core.LookupTool(toolID); err == nil {
		label = "Running " + t.Name
	}
	err := tui.RunWithSpinner(ctx, label, func(ctx context.Context) error {
		var err error
		res, err = a.ws.Recruit(ctx, toolID, input)
		return err
	})
	if err != nil {
		return "", userError(err)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, res.Content)
	return res.Content, nil
}

func copyResult(w io.Writer, content string) error {
	if content == "" {
		return fmt.Errorf("nothing to copy yet: run a tool first")
	}
	if err := writeClipboard(content); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	printSuccess(w, "Copied to clipboard")
	return nil
}
