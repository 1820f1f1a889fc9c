package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calance/sales-edge/internal/config"
	"github.com/calance/sales-edge/internal/core"
	"github.com/calance/sales-edge/internal/logger"
)

// fakeBackend answers the generation endpoints with canned artifacts.
type fakeBackend struct {
	mu     sync.Mutex
	calls  map[string]int
	last   map[string]map[string]any
	failed string // when set, every call fails with this message
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var body map[string]any
	data, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(data, &body)
	b.calls[r.URL.Path]++
	b.last[r.URL.Path] = body

	w.Header().Set("Content-Type", "application/json")
	if b.failed != "" {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"error": b.failed})
		return
	}

	var reply any
	switch r.URL.Path {
	case core.EndpointCaseStudy:
		title := "Acme cuts build time"
		if _, ok := body["feedback"]; ok {
			title += " (refined)"
		}
		reply = map[string]any{
			"title":       title,
			"client_name": "Acme",
			"challenge":   "Slow builds",
			"solution":    "Adopted CI",
			"infographic": "data:image/png;base64,cG5n",
		}
	case core.EndpointPresentation, core.EndpointPresentationRefine:
		last := "Hiring"
		if fb, ok := body["feedback"].(string); ok {
			last = "Hiring (" + fb + ")"
		}
		reply = map[string]any{
			"title": "Q3 Review",
			"slides": []map[string]any{
				{"type": "title", "title": "Q3 Review"},
				{"type": "content", "title": "Revenue", "content": []string{"Up 12%"}},
				{"type": "content", "title": last, "content": []string{"Four new hires"}},
			},
		}
	case core.EndpointRecruiting:
		reply = map[string]any{"content": "(golang OR go) AND senior"}
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": reply})
}

type harness struct {
	backend   *fakeBackend
	app       *app
	exportDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := &fakeBackend{calls: map[string]int{}, last: map[string]map[string]any{}}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.APIURL = srv.URL
	cfg.Storage.Dir = t.TempDir()
	cfg.Export.Dir = t.TempDir()
	cfg.Templates.Dir = filepath.Join("..", "data", "templates")

	a, err := buildApp(&cfg, logger.InitWriter(io.Discard, "error", "text"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return &harness{backend: b, app: a, exportDir: cfg.Export.Dir}
}

func (h *harness) run(t *testing.T, script ...string) string {
	t.Helper()
	var out bytes.Buffer
	r := newREPL(h.app, strings.NewReader(strings.Join(script, "\n")+"\n"), &out)
	require.NoError(t, r.run(context.Background()))
	return out.String()
}

func TestSessionCaseStudy(t *testing.T) {
	h := newHarness(t)
	out := h.run(t,
		"module case-study",
		"set clientName Acme",
		"set challenge slow builds",
		"set solution adopted CI",
		"add metric Build time|2h|10m|92% faster",
		"submit",
		"refine more numbers",
		"history",
		"restore 1",
		"export image",
		"export markdown",
		"quit",
	)

	assert.Contains(t, out, "Ready to generate")
	assert.Contains(t, out, "Acme cuts build time (refined)")
	assert.Contains(t, out, "refinement")
	assert.Equal(t, 2, h.backend.calls[core.EndpointCaseStudy])
	assert.Equal(t, "more numbers", h.backend.last[core.EndpointCaseStudy]["feedback"])

	png, err := filepath.Glob(filepath.Join(h.exportDir, "acme-infographic.png"))
	require.NoError(t, err)
	assert.Len(t, png, 1)
	md, err := filepath.Glob(filepath.Join(h.exportDir, "acme-*.md"))
	require.NoError(t, err)
	assert.Len(t, md, 1)
}

func TestSessionSubmitIncompleteDraft(t *testing.T) {
	h := newHarness(t)
	out := h.run(t,
		"submit",
		"module case-study",
		"set clientName Acme",
		"submit",
	)
	assert.Contains(t, out, "choose a draft module first")
	assert.Contains(t, out, "Challenge description is required")
	assert.Zero(t, h.backend.calls[core.EndpointCaseStudy])
}

func TestSessionPresentationSlideFeedback(t *testing.T) {
	h := newHarness(t)
	out := h.run(t,
		"module presentation",
		"set title Q3 Review",
		"set objective Share results",
		"set audience Board",
		"add keypoint Revenue",
		"add keypoint Churn",
		"add keypoint Hiring",
		"submit",
		"slide 3",
		"feedback shorten this",
		"history",
	)

	assert.Contains(t, out, "Hiring (shorten this)")
	body := h.backend.last[core.EndpointPresentationRefine]
	require.NotNil(t, body)
	assert.EqualValues(t, 2, body["slideIndex"])
	assert.Equal(t, "shorten this", body["feedback"])
	assert.Contains(t, out, "PRESENTATION · 3/3")
}

func TestSessionRecruiting(t *testing.T) {
	h := newHarness(t)
	out := h.run(t,
		"tool boolean-search",
		"run senior Go engineer",
	)
	assert.Contains(t, out, "(golang OR go) AND senior")
	assert.Equal(t, "senior Go engineer", h.backend.last[core.EndpointRecruiting]["input"])
}

func TestSessionCopyRecruitingResult(t *testing.T) {
	var copied []string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	h := newHarness(t)
	out := h.run(t,
		"copy",
		"tool boolean-search",
		"run senior Go engineer",
		"copy",
	)
	assert.Contains(t, out, "nothing to copy yet")
	assert.Contains(t, out, "Copied to clipboard")
	assert.Equal(t, []string{"(golang OR go) AND senior"}, copied)
}

func TestSessionServerError(t *testing.T) {
	h := newHarness(t)
	h.backend.failed = "model overloaded"
	out := h.run(t,
		"module case-study",
		"mode freeform",
		"set rawNotes Acme moved to CI and cut build time from 2h to 10m",
		"submit",
		"export image",
	)
	assert.Contains(t, out, "model overloaded")
	assert.Contains(t, out, "Nothing to export yet")
}

func TestSessionDraftSurvivesRestart(t *testing.T) {
	h := newHarness(t)
	h.run(t, "module case-study", "set clientName Acme")

	_, err := h.app.ws.Switch(core.ModulePresentation)
	require.NoError(t, err)
	out := h.run(t, "module case-study", "show")
	assert.Contains(t, out, "Restored your saved draft")
	assert.Contains(t, out, "Acme")
}
