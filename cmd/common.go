package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/calance/sales-edge/internal/client"
	"github.com/calance/sales-edge/internal/config"
	"github.com/calance/sales-edge/internal/core"
	"github.com/calance/sales-edge/internal/export"
	"github.com/calance/sales-edge/internal/formstate"
	"github.com/calance/sales-edge/internal/logger"
	"github.com/calance/sales-edge/internal/preview"
	"github.com/calance/sales-edge/internal/templates"
	"github.com/calance/sales-edge/internal/tui"
	"github.com/calance/sales-edge/internal/workflow"
)

var (
	configFile string // --config
	logLevel   string // --log-level
	apiURL     string // --api-url
)

// AddGlobalFlags registers the flags shared by every command.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./"+config.FileName+" or ~/"+config.FileName+")")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug/info/warn/error)")
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "Generation service base URL")
}

// app is everything a command needs, built from the loaded config.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	store     formstate.Store
	client    *client.Client
	renderer  preview.Renderer
	templates templates.Set
	ws        *workflow.Workspace
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("api-url") {
		cfg.APIURL = apiURL
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return buildApp(cfg, logger.Init(cfg.Log.Level, cfg.Log.Format))
}

func buildApp(cfg *config.Config, log *slog.Logger) (*app, error) {
	store, err := formstate.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open draft storage: %w", err)
	}
	sink, err := export.NewSink(cfg.Export)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to set up export: %w", err)
	}

	c := client.New(client.Config{BaseURL: cfg.APIURL, Timeout: cfg.Timeout, Logger: log})
	renderer := preview.New(cfg.Brand.Name)
	tpl := templates.Load(cfg.Templates.Dir, log)

	ws := workflow.NewWorkspace(workflow.Deps{
		Store:           store,
		Keys:            cfg.Storage.Keys,
		DefaultIndustry: cfg.DefaultIndustry,
		Generator:       c,
		Exporter:        export.NewHandler(c, renderer, export.WithLogger(log)),
		Sink:            sink,
		Preview:         renderer,
		Templates:       tpl,
		Logger:          log,
	})

	return &app{
		cfg:       cfg,
		log:       log,
		store:     store,
		client:    c,
		renderer:  renderer,
		templates: tpl,
		ws:        ws,
	}, nil
}

func (a *app) Close() error { return a.store.Close() }

// withApp builds the app, runs fn and releases the store.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(logger.WithContext(ctx, a.log), a)
}

// session switches the workspace to a draft module.
func (a *app) session(m core.Module) (*workflow.Session, error) {
	if m == core.ModuleRecruiting {
		return nil, fmt.Errorf("recruiting has no draft; use 'sales-edge recruiting'")
	}
	return a.ws.Switch(m)
}

// userError turns any failure into the message shown to the user.
func userError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, workflow.ErrBusy) {
		return err
	}
	var ce *core.Error
	var ve *core.ValidationError
	if errors.As(err, &ce) || errors.As(err, &ve) {
		return errors.New(core.UserMessage(err))
	}
	return err
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, tui.ErrorStyle.Render("✗ "+userError(err).Error()))
}

func printSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, tui.SuccessStyle.Render("✓")+" "+msg)
}

func printValidation(w io.Writer, v core.Validation) {
	if v.CanSubmit {
		printSuccess(w, "Ready to generate")
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Field", "Problem"})
	for _, e := range v.Errors {
		tw.AppendRow(table.Row{e.Field, e.Message})
	}
	tw.Render()
}

func printCaseStudyDraft(w io.Writer, d core.Draft) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Field", "Value"})
	tw.AppendRow(table.Row{"inputMode", d.InputMode})
	if d.InputMode == core.InputFreeform {
		tw.AppendRow(table.Row{"rawNotes", text.Snip(d.RawNotes, 60, "…")})
	}
	tw.AppendRow(table.Row{"clientName", d.ClientName})
	tw.AppendRow(table.Row{"industry", d.Industry})
	if d.InputMode == core.InputStructured {
		for _, f := range []struct{ name, value string }{
			{"challenge", d.Challenge},
			{"solution", d.Solution},
			{"subtitle", d.Subtitle},
			{"technology", d.Technology},
			{"timeline", d.Timeline},
			{"roi", d.ROI},
		} {
			tw.AppendRow(table.Row{f.name, text.Snip(f.value, 60, "…")})
		}
		for i, m := range d.Metrics {
			v := fmt.Sprintf("%s: %s → %s", m.Label, m.Before, m.After)
			if m.Improvement != "" {
				v += " (" + m.Improvement + ")"
			}
			tw.AppendRow(table.Row{fmt.Sprintf("metrics[%d]", i), v})
		}
		for i, b := range d.Benefits {
			tw.AppendRow(table.Row{fmt.Sprintf("benefits[%d]", i), b})
		}
	}
	tw.Render()
}

func printPresentationDraft(w io.Writer, d core.PresentationDraft) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Field", "Value"})
	tw.AppendRow(table.Row{"title", d.Title})
	tw.AppendRow(table.Row{"objective", text.Snip(d.Objective, 60, "…")})
	tw.AppendRow(table.Row{"audience", d.Audience})
	tw.AppendRow(table.Row{"duration", d.Duration})
	for i, kp := range d.KeyPoints {
		tw.AppendRow(table.Row{fmt.Sprintf("keyPoints[%d]", i), kp})
	}
	tw.Render()
}

func printDraft(w io.Writer, s *workflow.Session) {
	if d, ok := s.CaseStudyDraft(); ok {
		printCaseStudyDraft(w, d)
	} else if d, ok := s.PresentationDraft(); ok {
		printPresentationDraft(w, d)
	}
	printValidation(w, s.Validation())
}

func printHistory(w io.Writer, entries []core.VersionEntry, active int) {
	if len(entries) == 0 {
		fmt.Fprintln(w, tui.HelpStyle.Render("No versions yet."))
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "", "Kind", "Generated", "Slide", "Feedback"})
	for i, e := range entries {
		marker := ""
		if i == active {
			marker = "●"
		}
		slide := ""
		if e.SlideIndex != nil {
			slide = fmt.Sprintf("%d", *e.SlideIndex+1)
		}
		tw.AppendRow(table.Row{i, marker, e.Kind, e.Timestamp.Format("15:04:05"), slide, text.Snip(e.Feedback, 40, "…")})
	}
	tw.Render()
}

func printTools(w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Name", "Description"})
	for _, t := range core.RecruitingTools {
		tw.AppendRow(table.Row{t.ID, t.Name, t.Description})
	}
	tw.Render()
}

func printDocument(w io.Writer, doc preview.Document) {
	fmt.Fprintln(w, tui.RenderDocument(doc, tui.DefaultWidth))
}

// readInput reads a file argument, with "-" meaning stdin.
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func joinArgs(args []string) string { return strings.TrimSpace(strings.Join(args, " ")) }
