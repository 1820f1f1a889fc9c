package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calance/sales-edge/cmd"
	"github.com/calance/sales-edge/internal/tui"
	"github.com/calance/sales-edge/internal/version"
)

var appVersion = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "sales-edge",
		Short:   "Generate case studies, presentations and recruiting content",
		Version: appVersion,
		PersistentPreRun: func(c *cobra.Command, args []string) {
			if c.Name() != "setup" && version.IsFirstRun() {
				version.PrintFirstRunNotice(os.Stderr)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddGlobalFlags(rootCmd)
	rootCmd.AddCommand(
		cmd.SessionCmd,
		cmd.DraftCmd,
		cmd.CaseStudyCmd,
		cmd.PresentationCmd,
		cmd.RecruitingCmd,
		cmd.TemplatesCmd,
		cmd.DoctorCmd,
		cmd.SetupCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
