package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/calance/sales-edge/internal/config"
	"github.com/calance/sales-edge/internal/templates"
	"github.com/calance/sales-edge/internal/tui"
)

var resetConfig bool

// SetupCmd represents the setup command.
var SetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	Long: `Configure sales-edge with an interactive wizard.

The wizard asks for:
- Default industry: preselected on new case study drafts
- Draft storage: JSON files or a single SQLite database

Configuration is saved to ~/.sales-edge.yaml`,
	RunE: runSetup,
}

func init() {
	SetupCmd.Flags().BoolVar(&resetConfig, "reset", false, "Reset configuration to defaults")
}

// fallbackIndustries is offered when no templates are installed.
var fallbackIndustries = []choice{
	{ID: "technology", Name: "Technology", Desc: "Software and IT services"},
	{ID: "healthcare", Name: "Healthcare", Desc: "Providers, payers and life sciences"},
	{ID: "financial-services", Name: "Financial Services", Desc: "Banking, insurance and fintech"},
	{ID: "manufacturing", Name: "Manufacturing", Desc: "Industrial and discrete manufacturing"},
	{ID: "retail", Name: "Retail & E-commerce", Desc: "Stores and online commerce"},
}

var storageChoices = []choice{
	{ID: "file", Name: "Files", Desc: "One JSON file per draft"},
	{ID: "sqlite", Name: "SQLite", Desc: "All drafts in one database file"},
}

func runSetup(cmd *cobra.Command, args []string) error {
	configPath := config.HomePath()

	if resetConfig {
		if err := os.Remove(configPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove config: %w", err)
		}
		fmt.Println(tui.SuccessStyle.Render("✓") + " Configuration reset to defaults")
		fmt.Printf("  Removed: %s\n", configPath)
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	industries := industryChoices(templates.Load(cfg.Templates.Dir, nil))

	p := tea.NewProgram(newSetupModel(industries, storageChoices))
	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	finalModel := m.(setupModel)
	if finalModel.cancelled {
		fmt.Println("Setup cancelled")
		return nil
	}

	saved, err := readHomeConfig(configPath)
	if err != nil {
		return err
	}
	saved.DefaultIndustry = finalModel.selected[0]
	saved.Storage.Backend = finalModel.selected[1]

	if err := saveConfig(configPath, saved); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println(tui.SuccessStyle.Render("✓") + " Configuration saved to " + configPath)
	fmt.Println()
	fmt.Printf("  Default industry: %s\n", tui.ValueStyle.Render(saved.DefaultIndustry))
	fmt.Printf("  Draft storage:    %s\n", tui.ValueStyle.Render(saved.Storage.Backend))
	return nil
}

func industryChoices(set templates.Set) []choice {
	enabled := set.Enabled()
	if len(enabled) == 0 {
		return fallbackIndustries
	}
	out := make([]choice, 0, len(enabled))
	for _, ind := range enabled {
		c := choice{ID: ind.ID, Name: ind.Name}
		if tpl, ok := set.Template(ind.ID); ok {
			c.Desc = tpl.Description
		}
		out = append(out, c)
	}
	return out
}

// readHomeConfig returns the existing home config so unrelated keys survive.
func readHomeConfig(path string) (config.Config, error) {
	var cfg config.Config
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

func saveConfig(path string, cfg config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Bubble Tea model for the setup wizard

type choice struct {
	ID   string
	Name string
	Desc string
}

func (c choice) Title() string       { return c.Name }
func (c choice) FilterValue() string { return c.Name }
func (c choice) Description() string { return c.Desc }

type setupModel struct {
	step      int // 0=industry, 1=storage
	lists     []list.Model
	selected  []string
	cancelled bool
}

var setupSteps = []string{"Industry", "Storage"}

func newSetupModel(groups ...[]choice) setupModel {
	titles := []string{
		"Select Default Industry",
		"Select Draft Storage",
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(tui.ColorOrange).BorderForeground(tui.ColorOrange)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(tui.ColorMuted).BorderForeground(tui.ColorOrange)

	lists := make([]list.Model, len(groups))
	for i, g := range groups {
		items := make([]list.Item, len(g))
		for j, c := range g {
			items[j] = c
		}
		l := list.New(items, delegate, 60, 14)
		l.Title = titles[i]
		l.SetShowStatusBar(false)
		l.SetFilteringEnabled(false)
		l.Styles.Title = tui.BrandStyle
		lists[i] = l
	}

	return setupModel{
		lists:    lists,
		selected: make([]string, len(groups)),
	}
}

func (m setupModel) Init() tea.Cmd {
	return nil
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		for i := range m.lists {
			m.lists[i].SetWidth(msg.Width)
			m.lists[i].SetHeight(msg.Height - 4)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if item, ok := m.lists[m.step].SelectedItem().(choice); ok {
				m.selected[m.step] = item.ID
			}
			m.step++
			if m.step >= len(m.lists) {
				return m, tea.Quit
			}
			return m, nil

		case "left", "h":
			if m.step > 0 {
				m.step--
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.lists[m.step], cmd = m.lists[m.step].Update(msg)
	return m, cmd
}

func (m setupModel) View() string {
	if m.cancelled || m.step >= len(m.lists) {
		return ""
	}

	progress := "\n  "
	for i, s := range setupSteps {
		switch {
		case i == m.step:
			progress += tui.SelectedStyle.Render(fmt.Sprintf("[%s]", s))
		case i < m.step:
			progress += tui.SuccessStyle.Render(fmt.Sprintf("✓ %s", s))
		default:
			progress += tui.UnselectedStyle.Render(fmt.Sprintf("○ %s", s))
		}
		if i < len(setupSteps)-1 {
			progress += " → "
		}
	}
	progress += "\n\n"

	help := tui.HelpStyle.Render("\n  ↑/↓: navigate • enter: select • ←: back • q: quit")
	return progress + m.lists[m.step].View() + help
}
