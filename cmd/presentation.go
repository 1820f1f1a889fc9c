package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calance/sales-edge/internal/core"
	"github.com/calance/sales-edge/internal/tui"
)

var (
	viewDeck    bool
	deckExports []string
)

// PresentationCmd groups the presentation commands.
var PresentationCmd = &cobra.Command{
	Use:     "presentation",
	Aliases: []string{"deck"},
	Short:   "Generate slide decks",
}

var presentationGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a presentation from the saved draft",
	Long: `Generate a presentation from the saved draft (see 'sales-edge draft').

The draft needs a title, objective, audience and at least three key points.
Use 'sales-edge session presentation' to refine individual slides.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			s, err := a.session(core.ModulePresentation)
			if err != nil {
				return err
			}
			if v := s.Validation(); !v.CanSubmit {
				printValidation(os.Stdout, v)
				return fmt.Errorf("draft is not ready to generate")
			}
			if err := submit(ctx, s, "Generating presentation"); err != nil {
				return err
			}

			if viewDeck {
				if err := tui.RunSlideViewer(s); err != nil {
					return fmt.Errorf("slide viewer failed: %w", err)
				}
			} else {
				p := s.Artifact().(*core.Presentation)
				fmt.Printf("%s  %d slides\n", tui.TitleStyle.Render(p.Title), len(p.Slides))
				printDocument(os.Stdout, s.Preview())
			}
			return runExports(ctx, s, deckExports)
		})
	},
}

func init() {
	presentationGenerateCmd.Flags().BoolVar(&viewDeck, "view", false, "Open the slide navigator after generating")
	presentationGenerateCmd.Flags().StringSliceVarP(&deckExports, "export", "e", nil, "Export after generating (html/markdown/json)")
	PresentationCmd.AddCommand(presentationGenerateCmd)
}
