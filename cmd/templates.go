package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/calance/sales-edge/internal/templates"
	"github.com/calance/sales-edge/internal/tui"
)

// TemplatesCmd lists the industry templates and their prompt hints.
var TemplatesCmd = &cobra.Command{
	Use:   "templates [industry]",
	Short: "List industries and their case study hints",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		set := templates.Load(cfg.Templates.Dir, nil)
		if set.Empty() {
			fmt.Println(tui.WarningStyle.Render("No templates found in " + cfg.Templates.Dir))
			return nil
		}

		if len(args) == 1 {
			tpl, ok := set.Template(args[0])
			if !ok {
				return fmt.Errorf("no template for industry %q", args[0])
			}
			printTemplate(tpl)
			return nil
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"ID", "Industry", "Enabled", "Description"})
		for _, ind := range set.Industries {
			desc := ""
			if tpl, ok := set.Template(ind.ID); ok {
				desc = tpl.Description
			}
			tw.AppendRow(table.Row{ind.ID, strings.TrimSpace(ind.Icon + " " + ind.Name), ind.Enabled, desc})
		}
		tw.Render()
		return nil
	},
}

func printTemplate(tpl templates.IndustryTemplate) {
	fmt.Println(tui.TitleStyle.Render(strings.TrimSpace(tpl.Icon + " " + tpl.Industry)))
	if tpl.Description != "" {
		fmt.Println(tui.SubtitleStyle.Render(tpl.Description))
	}
	hints := tpl.Prompts.Structured
	for _, sec := range []struct {
		name  string
		items []string
	}{
		{"Common challenges", hints.CommonChallenges},
		{"Typical metrics", hints.TypicalMetrics},
		{"Key benefits", hints.KeyBenefits},
	} {
		if len(sec.items) == 0 {
			continue
		}
		fmt.Println()
		fmt.Println(tui.SectionStyle.Render(sec.name))
		for _, it := range sec.items {
			fmt.Printf("  • %s\n", it)
		}
	}
}
