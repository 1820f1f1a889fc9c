package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calance/sales-edge/internal/core"
)

// backend records the last request and answers with a fixed response.
type backend struct {
	t      *testing.T
	path   string
	body   map[string]any
	status int
	reply  string
}

func (b *backend) handler(w http.ResponseWriter, r *http.Request) {
	b.path = r.URL.Path
	data, err := io.ReadAll(r.Body)
	require.NoError(b.t, err)
	b.body = nil
	if len(data) > 0 {
		require.NoError(b.t, json.Unmarshal(data, &b.body))
	}
	if b.status == 0 {
		b.status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.status)
	io.WriteString(w, b.reply)
}

func newTestClient(t *testing.T, b *backend) *Client {
	t.Helper()
	b.t = t
	srv := httptest.NewServer(http.HandlerFunc(b.handler))
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/"})
}

func acmeDraft() core.Draft {
	d := core.NewDraft()
	d.ClientName = "Acme"
	d.Challenge = "slow builds"
	d.Solution = "adopted CI"
	d.Metrics = []core.Metric{{Label: "Build time", Before: "2h", After: "10m"}}
	return d
}

func TestGenerateCaseStudyPostsDraft(t *testing.T) {
	b := &backend{reply: `{"success":true,"data":{"title":"Acme cuts build time","client_name":"Acme"}}`}
	c := newTestClient(t, b)

	cs, err := c.GenerateCaseStudy(context.Background(), acmeDraft())
	require.NoError(t, err)

	assert.Equal(t, core.EndpointCaseStudy, b.path)
	assert.Equal(t, "Acme", b.body["clientName"])
	assert.Equal(t, "technology", b.body["industry"])
	assert.Equal(t, "slow builds", b.body["challenge"])
	assert.Equal(t, "adopted CI", b.body["solution"])
	assert.Equal(t, []any{map[string]any{"label": "Build time", "before": "2h", "after": "10m"}}, b.body["metrics"])
	assert.Equal(t, "Acme cuts build time", cs.Title)
	assert.Equal(t, "Acme", cs.ClientName)
}

func TestRefineCaseStudySendsFeedback(t *testing.T) {
	b := &backend{reply: `{"data":{"title":"Acme v2"}}`}
	c := newTestClient(t, b)

	cs, err := c.RefineCaseStudy(context.Background(), &core.CaseStudy{Title: "Acme v1"}, "add a quote")
	require.NoError(t, err)

	assert.Equal(t, "Acme v1", b.body["title"])
	assert.Equal(t, "add a quote", b.body["feedback"])
	assert.Equal(t, "Acme v2", cs.Title)
}

func TestRefineSlidePostsIndexAndFeedback(t *testing.T) {
	b := &backend{reply: `{"data":{"title":"Deck","slides":[{"type":"title","title":"Deck"}]}}`}
	c := newTestClient(t, b)

	deck := &core.Presentation{Title: "Deck", Slides: make([]core.Slide, 5)}
	_, err := c.RefineSlide(context.Background(), deck, 2, "shorten this")
	require.NoError(t, err)

	assert.Equal(t, core.EndpointPresentationRefine, b.path)
	assert.EqualValues(t, 2, b.body["slideIndex"])
	assert.Equal(t, "shorten this", b.body["feedback"])
	pres, ok := b.body["presentation"].(map[string]any)
	require.True(t, ok, "presentation not posted as an object")
	assert.Equal(t, "Deck", pres["title"])
	assert.Len(t, pres["slides"], 5)
}

func TestServerErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		reply   string
		wantMsg string
	}{
		{"error field", http.StatusBadRequest, `{"error":"Missing required fields"}`, "Missing required fields"},
		{"plain text", http.StatusInternalServerError, `boom`, "Server error: 500"},
		{"missing data", http.StatusOK, `{"success":true}`, ""},
		{"null data", http.StatusOK, `{"success":true,"data":null}`, ""},
		{"not json", http.StatusOK, `<html>`, ""},
		{"no title", http.StatusOK, `{"data":{"subtitle":"x"}}`, ""},
		{"bad metrics", http.StatusOK, `{"data":{"title":"t","metrics":{}}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &backend{status: tt.status, reply: tt.reply})
			_, err := c.GenerateCaseStudy(context.Background(), acmeDraft())
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrServer)

			var e *core.Error
			require.True(t, errors.As(err, &e))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, e.Message)
				assert.Equal(t, tt.status, e.Status)
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	c := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.GenerateCaseStudy(context.Background(), acmeDraft())

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTimeout)
	assert.NotErrorIs(t, err, core.ErrNetwork)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Contains(t, core.UserMessage(err), "timed out")
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Config{BaseURL: url})
	_, err := c.GeneratePresentation(context.Background(), core.PresentationDraft{Title: "x"})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNetwork)
	assert.Contains(t, core.UserMessage(err), "Unable to connect")
}

func TestGeneratePresentationRequiresSlides(t *testing.T) {
	c := newTestClient(t, &backend{reply: `{"data":{"title":"Deck","slides":[]}}`})
	_, err := c.GeneratePresentation(context.Background(), core.PresentationDraft{Title: "Deck"})
	assert.ErrorIs(t, err, core.ErrServer)
}

func TestGenerateRecruiting(t *testing.T) {
	b := &backend{reply: `{"success":true,"data":{"content":"Dear candidate"}}`}
	c := newTestClient(t, b)

	tool, err := core.LookupTool("sourcing-email")
	require.NoError(t, err)
	res, err := c.GenerateRecruiting(context.Background(), tool, "Senior Go engineer, remote")
	require.NoError(t, err)

	assert.Equal(t, core.EndpointRecruiting, b.path)
	assert.Equal(t, "sourcing-email", b.body["tool"])
	assert.Equal(t, "Senior Go engineer, remote", b.body["input"])
	assert.Equal(t, tool.Prompt, b.body["prompt"])
	assert.Equal(t, "Dear candidate", res.Content)
}

func TestExportPresentationHTML(t *testing.T) {
	b := &backend{reply: `{"content":"<html><body>Deck</body></html>"}`}
	c := newTestClient(t, b)

	html, err := c.ExportPresentationHTML(context.Background(), &core.Presentation{Title: "Deck"})
	require.NoError(t, err)
	assert.Equal(t, "<html><body>Deck</body></html>", html)
	assert.Equal(t, core.EndpointPresentationHTML, b.path)
	assert.Contains(t, b.body, "presentation")

	c = newTestClient(t, &backend{reply: `{}`})
	_, err = c.ExportPresentationHTML(context.Background(), &core.Presentation{Title: "Deck"})
	assert.ErrorIs(t, err, core.ErrServer)
}

func TestHealth(t *testing.T) {
	b := &backend{reply: `{"status":"ok","service":"Calance Sales Edge API"}`}
	c := newTestClient(t, b)

	hs, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", hs.Status)
	assert.Equal(t, core.EndpointHealth, b.path)
}
