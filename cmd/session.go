package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calance/sales-edge/internal/core"
	"github.com/calance/sales-edge/internal/tui"
	"github.com/calance/sales-edge/internal/workflow"
)

// SessionCmd runs the interactive workspace.
var SessionCmd = &cobra.Command{
	Use:   "session [module]",
	Short: "Interactive draft, generate, refine and export loop",
	Long: `Start an interactive session.

Modules: case-study, presentation, recruiting. Type 'help' inside the
session for the list of commands. Drafts are saved as you type; versions
and previews last until you switch module or quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			r := newREPL(a, os.Stdin, os.Stdout)
			if len(args) == 1 {
				r.exec(ctx, "module "+args[0])
			}
			return r.run(ctx)
		})
	},
}

const sessionHelp = `Commands:
  module <case-study|presentation|recruiting>   switch module (clears versions)
  show                          print the draft and what is missing
  set <field> <value>           set a field, e.g. set metrics[0].after 10m
  add metric <label>|<before>|<after>[|<improvement>]
  add benefit <text>            add keypoint <text>
  remove <metrics|benefits|keyPoints> <index>
  mode <structured|freeform>    case study input mode
  edit                          edit the draft in $EDITOR
  reset                         clear the draft
  submit                        generate from the draft
  preview                       print the current preview
  refine <feedback>             regenerate the case study with feedback
  slide <n> | next | prev       choose a slide
  feedback <text>               regenerate the selected slide
  view                          open the slide navigator
  history                       list versions (● = shown)
  restore <n>                   show version n
  export <image|html|markdown|json>
  tools | tool <id> | run <text>   recruiting tools (run with no text reads until a '.' line)
  copy                          copy the last recruiting result to the clipboard
  help | quit`

type repl struct {
	app  *app
	in   *bufio.Reader
	out  io.Writer
	tool string // selected recruiting tool
	last string // last recruiting result
}

func newREPL(a *app, in io.Reader, out io.Writer) *repl {
	return &repl{app: a, in: bufio.NewReader(in), out: out}
}

func (r *repl) prompt() string {
	m := r.app.ws.Module()
	if m == "" {
		return "sales-edge> "
	}
	if s := r.app.ws.Session(); s != nil {
		return fmt.Sprintf("%s [%s]> ", m, s.State())
	}
	if r.tool != "" {
		return fmt.Sprintf("%s [%s]> ", m, r.tool)
	}
	return string(m) + "> "
}

func (r *repl) run(ctx context.Context) error {
	fmt.Fprintln(r.out, tui.BrandStyle.Render(r.app.cfg.Brand.Name)+" "+tui.SubtitleStyle.Render(r.app.cfg.Brand.Tagline))
	fmt.Fprintln(r.out, tui.HelpStyle.Render("Type 'help' for commands."))
	for {
		fmt.Fprint(r.out, r.prompt())
		line, err := r.in.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			if r.exec(ctx, line) {
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// exec runs one command line and reports whether the loop should end.
// Errors are printed; none of them end the session.
func (r *repl) exec(ctx context.Context, line string) bool {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	var err error
	switch strings.ToLower(verb) {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(r.out, sessionHelp)
	case "module":
		err = r.switchModule(rest)
	case "tools":
		printTools(r.out)
	case "tool":
		err = r.selectTool(rest)
	case "run":
		err = r.runTool(ctx, rest)
	case "copy":
		err = copyResult(r.out, r.last)
	default:
		s := r.app.ws.Session()
		if s == nil {
			err = fmt.Errorf("choose a draft module first: module case-study | module presentation")
			break
		}
		err = r.execSession(ctx, s, strings.ToLower(verb), rest)
	}
	if err != nil {
		printError(r.out, err)
	}
	return false
}

func (r *repl) execSession(ctx context.Context, s *workflow.Session, verb, rest string) error {
	switch verb {
	case "show":
		printDraft(r.out, s)
	case "set":
		field, value, _ := strings.Cut(rest, " ")
		if field == "" {
			return fmt.Errorf("usage: set <field> <value>")
		}
		return r.update(s, [2]string{field, strings.TrimSpace(value)})
	case "mode":
		return r.update(s, [2]string{"inputMode", rest})
	case "add":
		return r.add(s, rest)
	case "remove":
		parts := strings.Fields(rest)
		if len(parts) != 2 {
			return fmt.Errorf("usage: remove <list> <index>")
		}
		i, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("index must be a number: %s", parts[1])
		}
		v, err := s.RemoveItem(parts[0], i)
		if err != nil {
			return err
		}
		printValidation(r.out, v)
	case "edit":
		if err := editDraft(s); err != nil {
			return err
		}
		printDraft(r.out, s)
	case "reset":
		if err := s.Reset(); err != nil {
			return err
		}
		printSuccess(r.out, "Draft cleared")
	case "submit", "generate":
		if v := s.Validation(); !v.CanSubmit {
			printValidation(r.out, v)
			return nil
		}
		if err := submit(ctx, s, "Generating "+string(s.Module())); err != nil {
			return err
		}
		printDocument(r.out, s.Preview())
	case "preview":
		printDocument(r.out, s.Preview())
	case "refine":
		if s.Module() == core.ModulePresentation {
			return r.refineSlide(ctx, s, rest)
		}
		err := tui.RunWithSpinner(ctx, "Refining case study", func(ctx context.Context) error {
			_, err := s.Refine(ctx, rest)
			return err
		})
		if err != nil {
			return userError(err)
		}
		printDocument(r.out, s.Preview())
	case "feedback":
		return r.refineSlide(ctx, s, rest)
	case "slide":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("usage: slide <number>")
		}
		s.SelectSlide(n - 1)
		printDocument(r.out, s.Preview())
	case "next":
		s.NextSlide()
		printDocument(r.out, s.Preview())
	case "prev":
		s.PrevSlide()
		printDocument(r.out, s.Preview())
	case "view":
		if _, ok := s.Artifact().(*core.Presentation); !ok {
			return fmt.Errorf("generate a presentation first")
		}
		return tui.RunSlideViewer(s)
	case "history":
		printHistory(r.out, s.History(), s.ActiveVersion())
	case "restore":
		i, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("usage: restore <number>")
		}
		if _, err := s.Restore(i); err != nil {
			return userError(err)
		}
		printDocument(r.out, s.Preview())
	case "export":
		out, err := exportOne(ctx, s, rest)
		if err != nil {
			return err
		}
		printSuccess(r.out, "Exported "+out.Location)
	default:
		return fmt.Errorf("unknown command %q (type 'help')", verb)
	}
	return nil
}

func (r *repl) update(s *workflow.Session, fields ...[2]string) error {
	var v core.Validation
	for _, f := range fields {
		var err error
		if v, err = s.Update(f[0], f[1]); err != nil {
			return userError(err)
		}
	}
	if !v.CanSubmit {
		fmt.Fprintln(r.out, tui.HelpStyle.Render(fmt.Sprintf("%d field(s) still needed", len(v.Errors))))
	} else {
		printSuccess(r.out, "Ready to generate")
	}
	return nil
}

func (r *repl) add(s *workflow.Session, rest string) error {
	kind, value, _ := strings.Cut(rest, " ")
	value = strings.TrimSpace(value)
	switch strings.ToLower(kind) {
	case "metric":
		parts := strings.Split(value, "|")
		if len(parts) < 3 || len(parts) > 4 {
			return fmt.Errorf("usage: add metric <label>|<before>|<after>[|<improvement>]")
		}
		d, _ := s.CaseStudyDraft()
		idx := strconv.Itoa(len(d.Metrics))
		fields := [][2]string{
			{"metrics[+].label", strings.TrimSpace(parts[0])},
			{"metrics[" + idx + "].before", strings.TrimSpace(parts[1])},
			{"metrics[" + idx + "].after", strings.TrimSpace(parts[2])},
		}
		if len(parts) == 4 {
			fields = append(fields, [2]string{"metrics[" + idx + "].improvement", strings.TrimSpace(parts[3])})
		}
		return r.update(s, fields...)
	case "benefit":
		return r.update(s, [2]string{"benefits[+]", value})
	case "keypoint", "point":
		return r.update(s, [2]string{"keyPoints[+]", value})
	}
	return fmt.Errorf("usage: add metric|benefit|keypoint <value>")
}

// refineSlide sends feedback for the selected slide, or for slide N when
// the text starts with a number.
func (r *repl) refineSlide(ctx context.Context, s *workflow.Session, rest string) error {
	idx := s.Slide()
	if first, tail, ok := strings.Cut(rest, " "); ok {
		if n, err := strconv.Atoi(first); err == nil {
			idx, rest = n-1, strings.TrimSpace(tail)
		}
	}
	err := tui.RunWithSpinner(ctx, fmt.Sprintf("Refining slide %d", idx+1), func(ctx context.Context) error {
		_, err := s.RefineSlide(ctx, idx, rest)
		return err
	})
	if err != nil {
		return userError(err)
	}
	printDocument(r.out, s.Preview())
	return nil
}

func (r *repl) switchModule(name string) error {
	m, err := core.ParseModule(name)
	if err != nil {
		return userError(err)
	}
	s, err := r.app.ws.Switch(m)
	if err != nil {
		return err
	}
	r.tool = ""
	if s == nil {
		fmt.Fprintln(r.out, tui.TitleStyle.Render("Recruiting tools"))
		printTools(r.out)
		return nil
	}
	fmt.Fprintln(r.out, tui.TitleStyle.Render("Module: "+string(m)))
	if s.State() == workflow.StateDrafting {
		fmt.Fprintln(r.out, tui.HelpStyle.Render("Restored your saved draft."))
		printDraft(r.out, s)
	}
	return nil
}

func (r *repl) selectTool(id string) error {
	t, err := core.LookupTool(id)
	if err != nil {
		return fmt.Errorf("unknown recruiting tool %q (type 'tools')", id)
	}
	if r.app.ws.Module() != core.ModuleRecruiting {
		if err := r.switchModule(string(core.ModuleRecruiting)); err != nil {
			return err
		}
	}
	r.tool = t.ID
	fmt.Fprintln(r.out, tui.TitleStyle.Render(t.Name)+" "+tui.HelpStyle.Render(t.Description))
	return nil
}

func (r *repl) runTool(ctx context.Context, input string) error {
	if r.tool == "" {
		return fmt.Errorf("choose a tool first: tool <id>")
	}
	if input == "" {
		fmt.Fprintln(r.out, tui.HelpStyle.Render("Paste input, then a line with a single '.'"))
		var b strings.Builder
		for {
			line, err := r.in.ReadString('\n')
			if strings.TrimSpace(line) == "." {
				break
			}
			b.WriteString(line)
			if err != nil {
				break
			}
		}
		input = b.String()
	}
	content, err := runRecruiting(ctx, r.app, r.out, r.tool, input)
	if err != nil {
		return err
	}
	r.last = content
	return nil
}
