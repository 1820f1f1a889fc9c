package workflow

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/calance/sales-edge/internal/config"
	"github.com/calance/sales-edge/internal/core"
	"github.com/calance/sales-edge/internal/export"
	"github.com/calance/sales-edge/internal/formstate"
	"github.com/calance/sales-edge/internal/logger"
	"github.com/calance/sales-edge/internal/preview"
	"github.com/calance/sales-edge/internal/templates"
)

// Deps are the collaborators shared by every session.
type Deps struct {
	Store           formstate.Store
	Keys            config.StorageKeys
	DefaultIndustry string
	Generator       Generator
	Exporter        Exporter
	Sink            export.Sink
	Preview         preview.Renderer
	Templates       templates.Set
	Logger          *slog.Logger
}

// Workspace owns the active module. Switching modules discards the
// previous session's artifact and history; drafts survive in the store.
type Workspace struct {
	deps Deps

	mu      sync.Mutex
	module  core.Module
	session *Session
	busy    bool
}

// NewWorkspace starts with no module selected.
func NewWorkspace(deps Deps) *Workspace {
	deps.Logger = logger.Or(deps.Logger)
	if deps.DefaultIndustry == "" {
		deps.DefaultIndustry = core.DefaultIndustry
	}
	return &Workspace{deps: deps}
}

// Module returns the active module, or "" when none is selected.
func (w *Workspace) Module() core.Module {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.module
}

// Session returns the active draft session. Recruiting has none.
func (w *Workspace) Session() *Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session
}

// Templates returns the loaded industry templates.
func (w *Workspace) Templates() templates.Set { return w.deps.Templates }

// Switch activates module m with a fresh session. Selecting the active
// module again keeps the current session.
func (w *Workspace) Switch(m core.Module) (*Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if m == w.module && (w.session != nil || m == core.ModuleRecruiting) {
		return w.session, nil
	}
	if w.session != nil && w.session.Busy() {
		return nil, ErrBusy
	}

	var s *Session
	if m != core.ModuleRecruiting {
		var err error
		s, err = newSession(m, &w.deps)
		if err != nil {
			return nil, err
		}
	}
	w.deps.Logger.Debug("module switched", "from", string(w.module), "to", string(m))
	w.module = m
	w.session = s
	return s, nil
}

// Recruit runs one recruiting tool. The result is not kept.
func (w *Workspace) Recruit(ctx context.Context, toolID, input string) (*core.RecruitingResult, error) {
	tool, err := core.LookupTool(toolID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input) == "" {
		return nil, &core.ValidationError{Field: "input", Message: "Input is required"}
	}

	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	w.busy = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.busy = false
		w.mu.Unlock()
	}()

	res, err := w.deps.Generator.GenerateRecruiting(ctx, tool, input)
	if err != nil {
		w.deps.Logger.Warn("recruiting tool failed", "tool", tool.ID, "error", err)
		return nil, err
	}
	return res, nil
}
