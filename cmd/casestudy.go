package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calance/sales-edge/internal/core"
	"github.com/calance/sales-edge/internal/export"
	"github.com/calance/sales-edge/internal/tui"
	"github.com/calance/sales-edge/internal/workflow"
)

var (
	notesFile     string
	notesClient   string
	notesIndustry string
	exportKinds   []string
)

// CaseStudyCmd groups the case study commands.
var CaseStudyCmd = &cobra.Command{
	Use:     "case-study",
	Aliases: []string{"cs"},
	Short:   "Generate branded case studies",
}

var caseStudyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a case study from the saved draft or from notes",
	Long: `Generate a case study.

Without --notes the saved structured draft is used (see 'sales-edge draft').
With --notes the file is sent as freeform notes. The draft is cleared after
a successful generation.`,
	Args: cobra.NoArgs,
	RunE: runCaseStudyGenerate,
}

func init() {
	caseStudyGenerateCmd.Flags().StringVar(&notesFile, "notes", "", "Freeform notes file ('-' for stdin)")
	caseStudyGenerateCmd.Flags().StringVar(&notesClient, "client", "", "Client name (with --notes)")
	caseStudyGenerateCmd.Flags().StringVar(&notesIndustry, "industry", "", "Industry (with --notes)")
	caseStudyGenerateCmd.Flags().StringSliceVarP(&exportKinds, "export", "e", nil, "Export after generating (image/markdown/html/json)")
	CaseStudyCmd.AddCommand(caseStudyGenerateCmd)
}

func runCaseStudyGenerate(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		s, err := a.session(core.ModuleCaseStudy)
		if err != nil {
			return err
		}

		if notesFile != "" {
			notes, err := readInput(notesFile)
			if err != nil {
				return err
			}
			fields := [][2]string{{"inputMode", string(core.InputFreeform)}, {"rawNotes", notes}}
			if notesClient != "" {
				fields = append(fields, [2]string{"clientName", notesClient})
			}
			if notesIndustry != "" {
				fields = append(fields, [2]string{"industry", notesIndustry})
			}
			for _, f := range fields {
				if _, err := s.Update(f[0], f[1]); err != nil {
					return userError(err)
				}
			}
		}

		if v := s.Validation(); !v.CanSubmit {
			printValidation(os.Stdout, v)
			return fmt.Errorf("draft is not ready to generate")
		}

		if err := submit(ctx, s, "Generating case study"); err != nil {
			return err
		}
		printDocument(os.Stdout, s.Preview())
		return runExports(ctx, s, exportKinds)
	})
}

// submit runs Session.Submit behind the spinner.
func submit(ctx context.Context, s *workflow.Session, label string) error {
	err := tui.RunWithSpinner(ctx, label, func(ctx context.Context) error {
		_, err := s.Submit(ctx)
		return err
	})
	return userError(err)
}

// runExports writes each requested export through the sink.
func runExports(ctx context.Context, s *workflow.Session, kinds []string) error {
	for _, k := range kinds {
		out, err := exportOne(ctx, s, k)
		if err != nil {
			return err
		}
		printSuccess(os.Stdout, "Exported "+out.Location)
	}
	return nil
}

func exportOne(ctx context.Context, s *workflow.Session, kind string) (workflow.Exported, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))

	var run func(ctx context.Context) (workflow.Exported, error)
	switch kind {
	case "image", "png", "infographic":
		kind = "image"
		run = s.ExportImage
	default:
		format, err := export.ParseFormat(kind)
		if err != nil {
			return workflow.Exported{}, err
		}
		kind = string(format)
		run = func(ctx context.Context) (workflow.Exported, error) {
			return s.ExportDocument(ctx, format)
		}
	}

	var out workflow.Exported
	err := tui.RunWithSpinner(ctx, "Exporting "+kind, func(ctx context.Context) error {
		var err error
		out, err = run(ctx)
		return err
	})
	return out, userError(err)
}
