// Package workflow runs the draft → generate → preview → refine → export
// cycle for one module at a time.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/calance/sales-edge/internal/core"
	"github.com/calance/sales-edge/internal/export"
	"github.com/calance/sales-edge/internal/formstate"
	"github.com/calance/sales-edge/internal/preview"
)

// State is a step of the per-module workflow.
type State string

const (
	StateEmpty      State = "empty"
	StateDrafting   State = "drafting"
	StateSubmitting State = "submitting"
	StatePreviewing State = "previewing"
	StateRefining   State = "refining"
	StateExporting  State = "exporting"
	StateRestoring  State = "restoring"
)

// ErrBusy is returned when a call is already outstanding for the session.
var ErrBusy = errors.New("a request is already in progress")

// Generator is the generation service.
type Generator interface {
	GenerateCaseStudy(ctx context.Context, d core.Draft) (*core.CaseStudy, error)
	RefineCaseStudy(ctx context.Context, cs *core.CaseStudy, feedback string) (*core.CaseStudy, error)
	GeneratePresentation(ctx context.Context, d core.PresentationDraft) (*core.Presentation, error)
	RefineSlide(ctx context.Context, p *core.Presentation, slideIndex int, feedback string) (*core.Presentation, error)
	GenerateRecruiting(ctx context.Context, tool core.RecruitingTool, input string) (*core.RecruitingResult, error)
}

// Exporter builds export files.
type Exporter interface {
	ExportImage(ctx context.Context, a core.Artifact) (export.File, error)
	ExportDocument(ctx context.Context, a core.Artifact, format export.Format) (export.File, error)
}

// Exported is a file that was written to the sink.
type Exported struct {
	File     export.File
	Location string
}

// Session is the workflow of one module. Case study and presentation
// sessions never share state.
type Session struct {
	module   core.Module
	caseForm *formstate.Holder[core.Draft]
	presForm *formstate.Holder[core.PresentationDraft]
	gen      Generator
	exp      Exporter
	sink     export.Sink
	render   preview.Renderer
	log      *slog.Logger

	mu       sync.Mutex
	state    State
	busy     bool
	artifact core.Artifact
	active   int // history index of the displayed artifact
	slide    int
	history  *core.History

	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)
}

func newSession(m core.Module, d *Deps) (*Session, error) {
	key, err := d.Keys.Key(m)
	if err != nil {
		return nil, err
	}
	s := &Session{
		module:  m,
		gen:     d.Generator,
		exp:     d.Exporter,
		sink:    d.Sink,
		render:  d.Preview,
		log:     d.Logger.With("module", string(m)),
		state:   StateEmpty,
		history: core.NewHistory(),
	}

	restored := false
	switch m {
	case core.ModuleCaseStudy:
		s.caseForm = formstate.NewCaseStudyHolder(d.Store, key, d.DefaultIndustry, d.Logger)
		restored = !s.caseForm.Restore().IsZero()
	case core.ModulePresentation:
		s.presForm = formstate.NewPresentationHolder(d.Store, key, d.Logger)
		restored = !s.presForm.Restore().IsZero()
	}
	if restored {
		s.state = StateDrafting
	}
	return s, nil
}

func (s *Session) Module() core.Module { return s.module }

// State returns the current workflow state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether a call is outstanding.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Artifact returns the displayed artifact, or nil.
func (s *Session) Artifact() core.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifact
}

// History returns the version stack, most recent first.
func (s *Session) History() []core.VersionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Entries()
}

// ActiveVersion is the history index of the displayed artifact.
func (s *Session) ActiveVersion() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// CaseStudyDraft returns the case study draft being edited.
func (s *Session) CaseStudyDraft() (core.Draft, bool) {
	if s.caseForm == nil {
		return core.Draft{}, false
	}
	return s.caseForm.Draft(), true
}

// PresentationDraft returns the presentation draft being edited.
func (s *Session) PresentationDraft() (core.PresentationDraft, bool) {
	if s.presForm == nil {
		return core.PresentationDraft{}, false
	}
	return s.presForm.Draft(), true
}

// Validation checks the draft being edited.
func (s *Session) Validation() core.Validation {
	if s.caseForm != nil {
		return s.caseForm.Validation()
	}
	return s.presForm.Validation()
}

// Update sets one draft field and persists the draft.
func (s *Session) Update(path, value string) (core.Validation, error) {
	var err error
	if s.caseForm != nil {
		_, err = s.caseForm.Update(path, value)
	} else {
		_, err = s.presForm.Update(path, value)
	}
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		return s.Validation(), err
	}
	s.markDrafting()
	return s.Validation(), err
}

// RemoveItem drops row i from a draft list field ("metrics", "benefits"
// or "keyPoints").
func (s *Session) RemoveItem(field string, i int) (core.Validation, error) {
	var err error
	switch {
	case s.caseForm != nil && field == "metrics":
		_, err = s.caseForm.Apply(func(d core.Draft) (core.Draft, error) { return d.RemoveMetric(i) })
	case s.caseForm != nil && field == "benefits":
		_, err = s.caseForm.Apply(func(d core.Draft) (core.Draft, error) { return d.RemoveBenefit(i) })
	case s.presForm != nil && field == "keyPoints":
		_, err = s.presForm.Apply(func(d core.PresentationDraft) (core.PresentationDraft, error) { return d.RemoveKeyPoint(i) })
	default:
		return s.Validation(), &core.ValidationError{Field: field, Message: "not a removable list"}
	}
	if err == nil {
		s.markDrafting()
	}
	return s.Validation(), err
}

// ReplaceCaseStudyDraft swaps in a complete case study draft.
func (s *Session) ReplaceCaseStudyDraft(d core.Draft) error {
	if s.caseForm == nil {
		return fmt.Errorf("%s session has no case study draft", s.module)
	}
	if err := s.caseForm.Replace(d); err != nil {
		return err
	}
	s.markDrafting()
	return nil
}

// ReplacePresentationDraft swaps in a complete presentation draft.
func (s *Session) ReplacePresentationDraft(d core.PresentationDraft) error {
	if s.presForm == nil {
		return fmt.Errorf("%s session has no presentation draft", s.module)
	}
	if err := s.presForm.Replace(d); err != nil {
		return err
	}
	s.markDrafting()
	return nil
}

// Reset clears the draft and its stored copy. The displayed artifact stays.
func (s *Session) Reset() error {
	var err error
	if s.caseForm != nil {
		err = s.caseForm.Reset()
	} else {
		err = s.presForm.Reset()
	}
	s.mu.Lock()
	if s.state == StateDrafting {
		s.setState(StateEmpty)
	}
	s.mu.Unlock()
	return err
}

func (s *Session) markDrafting() {
	s.mu.Lock()
	if s.state == StateEmpty {
		s.setState(StateDrafting)
	}
	s.mu.Unlock()
}

// Submit validates the draft and generates a new artifact. On success the
// draft is cleared; on failure the prior draft and artifact are untouched.
func (s *Session) Submit(ctx context.Context) (core.Artifact, error) {
	if v := s.Validation(); !v.CanSubmit {
		return nil, v.Err()
	}

	prev, err := s.begin(StateSubmitting)
	if err != nil {
		return nil, err
	}

	var a core.Artifact
	if s.caseForm != nil {
		var cs *core.CaseStudy
		cs, err = s.gen.GenerateCaseStudy(ctx, s.caseForm.Draft())
		a = cs
	} else {
		var p *core.Presentation
		p, err = s.gen.GeneratePresentation(ctx, s.presForm.Draft())
		a = p
	}
	if err != nil {
		s.fail(prev, "generation failed", err)
		return nil, err
	}

	s.succeed(a, core.VersionInitial, core.VersionMeta{}, 0)

	var resetErr error
	if s.caseForm != nil {
		resetErr = s.caseForm.Reset()
	} else {
		resetErr = s.presForm.Reset()
	}
	if resetErr != nil {
		s.log.Warn("generated, but the stored draft could not be cleared", "error", resetErr)
	}
	return a, nil
}

// Refine regenerates the displayed case study using reviewer feedback.
func (s *Session) Refine(ctx context.Context, feedback string) (core.Artifact, error) {
	cs, ok := s.Artifact().(*core.CaseStudy)
	if !ok || cs == nil {
		return nil, &core.ValidationError{Field: "artifact", Message: "Generate a case study before refining it"}
	}
	if isBlank(feedback) {
		return nil, &core.ValidationError{Field: "feedback", Message: "Feedback is required"}
	}

	prev, err := s.beginRefine()
	if err != nil {
		return nil, err
	}
	next, err := s.gen.RefineCaseStudy(ctx, cs, feedback)
	if err != nil {
		s.fail(prev, "refinement failed", err)
		return nil, err
	}
	s.succeed(next, core.VersionRefinement, core.VersionMeta{Feedback: feedback}, 0)
	return next, nil
}

// RefineSlide regenerates one slide of the displayed presentation.
func (s *Session) RefineSlide(ctx context.Context, slideIndex int, feedback string) (core.Artifact, error) {
	p, ok := s.Artifact().(*core.Presentation)
	if !ok || p == nil {
		return nil, &core.ValidationError{Field: "artifact", Message: "Generate a presentation before refining it"}
	}
	if slideIndex < 0 || slideIndex >= len(p.Slides) {
		return nil, &core.ValidationError{
			Field:   "slideIndex",
			Message: fmt.Sprintf("slide %d does not exist (deck has %d)", slideIndex+1, len(p.Slides)),
		}
	}
	if isBlank(feedback) {
		return nil, &core.ValidationError{Field: "feedback", Message: "Feedback is required"}
	}

	prev, err := s.beginRefine()
	if err != nil {
		return nil, err
	}
	next, err := s.gen.RefineSlide(ctx, p, slideIndex, feedback)
	if err != nil {
		s.fail(prev, "slide refinement failed", err)
		return nil, err
	}
	idx := slideIndex
	s.succeed(next, core.VersionRefinement, core.VersionMeta{Feedback: feedback, SlideIndex: &idx}, slideIndex)
	return next, nil
}

// Restore displays version i. Restoring the displayed version is a no-op.
// The displayed version is ActiveVersion, which is index 0 only until an
// older version is restored; Restore(0) then brings the newest one back.
func (s *Session) Restore(i int) (core.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return nil, ErrBusy
	}
	a, err := s.history.Restore(i)
	if err != nil {
		return nil, err
	}
	if i == s.active {
		return s.artifact, nil
	}

	s.setState(StateRestoring)
	s.artifact = a
	s.active = i
	s.slide = 0
	s.setState(StatePreviewing)
	return a, nil
}

// Preview renders the displayed artifact (or the placeholder).
func (s *Session) Preview() preview.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render.Render(s.artifact, s.slide)
}

// Slide returns the selected slide index.
func (s *Session) Slide() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slide
}

// SelectSlide moves to slide i, clamped into the deck.
func (s *Session) SelectSlide(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	if p, ok := s.artifact.(*core.Presentation); ok && p != nil {
		count = len(p.Slides)
	}
	s.slide = preview.ClampSlide(i, count)
	return s.slide
}

func (s *Session) NextSlide() int { return s.SelectSlide(s.Slide() + 1) }
func (s *Session) PrevSlide() int { return s.SelectSlide(s.Slide() - 1) }

// ExportImage writes the infographic through the sink.
func (s *Session) ExportImage(ctx context.Context) (Exported, error) {
	return s.export(ctx, func(a core.Artifact) (export.File, error) {
		return s.exp.ExportImage(ctx, a)
	})
}

// ExportDocument writes the artifact in the given format through the sink.
func (s *Session) ExportDocument(ctx context.Context, format export.Format) (Exported, error) {
	return s.export(ctx, func(a core.Artifact) (export.File, error) {
		return s.exp.ExportDocument(ctx, a, format)
	})
}

func (s *Session) export(ctx context.Context, build func(core.Artifact) (export.File, error)) (Exported, error) {
	a := s.Artifact()
	if a == nil {
		return Exported{}, &core.Error{Kind: core.KindNoArtifact, Op: "export"}
	}

	prev, err := s.begin(StateExporting)
	if err != nil {
		return Exported{}, err
	}
	defer s.end(prev)

	f, err := build(a)
	if err != nil {
		s.log.Warn("export failed", "error", err)
		return Exported{}, err
	}
	loc, err := s.sink.Put(ctx, f)
	if err != nil {
		s.log.Warn("export write failed", "file", f.Name, "error", err)
		return Exported{}, &core.Error{Kind: core.KindExportFailed, Op: "export", Message: err.Error(), Err: err}
	}
	s.log.Info("exported", "file", f.Name, "location", loc)
	return Exported{File: f, Location: loc}, nil
}

// begin claims the session for one call.
func (s *Session) begin(next State) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return s.state, ErrBusy
	}
	s.busy = true
	prev := s.state
	s.setState(next)
	return prev, nil
}

// beginRefine passes through Refining on the way to Submitting.
func (s *Session) beginRefine() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return s.state, ErrBusy
	}
	s.busy = true
	prev := s.state
	s.setState(StateRefining)
	s.setState(StateSubmitting)
	return prev, nil
}

func (s *Session) end(prev State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.setState(prev)
}

func (s *Session) fail(prev State, msg string, err error) {
	s.log.Warn(msg, "error", err)
	s.end(prev)
}

func (s *Session) succeed(a core.Artifact, kind core.VersionKind, meta core.VersionMeta, slide int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifact = a
	s.history.Push(a, kind, meta)
	s.active = 0
	s.slide = slide
	s.busy = false
	s.setState(StatePreviewing)
	s.log.Info("artifact generated", "kind", kind, "title", a.Heading())
}

// setState must be called with mu held.
func (s *Session) setState(next State) {
	if s.state == next {
		return
	}
	prev := s.state
	s.state = next
	s.log.Debug("state change", "from", prev, "to", next)
	if s.OnTransition != nil {
		s.OnTransition(prev, next)
	}
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
