package preview

import (
	"reflect"
	"strings"
	"testing"

	"github.com/calance/sales-edge/internal/core"
)

func fullCaseStudy() *core.CaseStudy {
	return &core.CaseStudy{
		Title:            "Acme cuts build time 92%",
		Subtitle:         "CI overhaul",
		ClientName:       "Acme",
		Challenge:        "slow builds",
		SolutionBullets:  []string{"adopted CI", "cached deps"},
		Metrics:          []core.MetricResult{{Label: "Build time", Value: "92%", Context: "faster"}, {Label: "Deploys", Before: "1", After: "20"}},
		Results:          "Ship daily",
		ROI:              "3x in 6 months",
		Testimonial:      "It changed how we work.",
	}
}

func TestRenderPlaceholder(t *testing.T) {
	r := New("CALANCE")
	for _, a := range []core.Artifact{nil, (*core.CaseStudy)(nil), (*core.Presentation)(nil)} {
		doc := r.Render(a, 0)
		if doc.Layout != LayoutPlaceholder {
			t.Errorf("Render(%T) layout = %s", a, doc.Layout)
		}
	}
}

func TestRenderCaseStudyFallback(t *testing.T) {
	doc := New("CALANCE").Render(fullCaseStudy(), 0)

	if doc.Layout != LayoutCaseStudy || doc.Title != "Acme cuts build time 92%" || doc.Subtitle != "CI overhaul" {
		t.Fatalf("doc = %+v", doc)
	}
	kinds := make([]BlockKind, len(doc.Blocks))
	for i, b := range doc.Blocks {
		kinds[i] = b.Kind
	}
	want := []BlockKind{BlockMetrics, BlockSection, BlockSection, BlockSection, BlockCallout, BlockQuote}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("blocks = %v, want %v", kinds, want)
	}

	if doc.Blocks[1].Text != "slow builds" || doc.Blocks[1].Items != nil {
		t.Errorf("challenge block = %+v, want raw text", doc.Blocks[1])
	}
	if len(doc.Blocks[2].Items) != 2 {
		t.Errorf("solution block = %+v, want bullets", doc.Blocks[2])
	}
	if got := doc.Blocks[0].Metrics[1].Value; got != "1 → 20" {
		t.Errorf("metric without value = %q", got)
	}
}

func TestRenderCaseStudyOptionalBlocksOmitted(t *testing.T) {
	doc := New("").Render(&core.CaseStudy{Title: "t", Challenge: "c", Solution: "s"}, 0)
	if len(doc.Blocks) != 2 {
		t.Errorf("blocks = %d, want challenge and solution only", len(doc.Blocks))
	}
}

func TestRenderInfographic(t *testing.T) {
	cs := fullCaseStudy()
	cs.Image = &core.ImageReference{URL: "https://cdn/acme.png"}

	doc := New("CALANCE").Render(cs, 0)
	if doc.Layout != LayoutInfographic || doc.ImageURL != "https://cdn/acme.png" || len(doc.Blocks) != 0 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestRenderDoesNotMutate(t *testing.T) {
	cs := fullCaseStudy()
	before := fullCaseStudy()
	doc := New("").Render(cs, 0)
	doc.Blocks[2].Items[0] = "changed"

	if !reflect.DeepEqual(cs, before) {
		t.Error("rendering or editing the document changed the artifact")
	}
}

func deck() *core.Presentation {
	return &core.Presentation{
		Title: "Q3 Review",
		Slides: []core.Slide{
			{Type: core.SlideTitle, Title: "Q3 Review", Subtitle: "For Acme"},
			{Type: core.SlideContent, Title: "Wins", Bullets: []string{"uptime", "cost"}},
			{Type: core.SlideFreeform, Title: "Notes", Text: "Open discussion"},
		},
	}
}

func TestRenderSlides(t *testing.T) {
	r := New("CALANCE")
	tests := []struct {
		name      string
		index     int
		wantIdx   int
		layout    Layout
		wantBlock BlockKind
	}{
		{"title slide", 0, 0, LayoutTitleSlide, ""},
		{"content slide", 1, 1, LayoutSlide, BlockList},
		{"freeform slide", 2, 2, LayoutSlide, BlockParagraph},
		{"clamped high", 9, 2, LayoutSlide, BlockParagraph},
		{"clamped low", -3, 0, LayoutTitleSlide, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := r.Render(deck(), tt.index)
			if doc.SlideIndex != tt.wantIdx || doc.Layout != tt.layout || doc.SlideCount != 3 {
				t.Fatalf("doc = %+v", doc)
			}
			if tt.wantBlock == "" {
				if len(doc.Blocks) != 0 {
					t.Errorf("title slide has blocks: %+v", doc.Blocks)
				}
				return
			}
			if len(doc.Blocks) != 1 || doc.Blocks[0].Kind != tt.wantBlock {
				t.Errorf("blocks = %+v", doc.Blocks)
			}
		})
	}
}

func TestMarkdownAndHTML(t *testing.T) {
	doc := New("CALANCE").Render(fullCaseStudy(), 0)
	md := Markdown(doc)

	for _, want := range []string{"# Acme cuts build time 92%", "| Build time | 92% (faster) |", "### The Solution", "- cached deps", "> It changed how we work.", "**Return on Investment:** 3x in 6 months"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	page, err := HTML(doc)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<title>Acme cuts build time 92%</title>", "<table>", "<blockquote>", "<li>cached deps</li>"} {
		if !strings.Contains(page, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestMarkdownSlideBadge(t *testing.T) {
	md := Markdown(New("").Render(deck(), 1))
	if !strings.Contains(md, "slide 2 of 3") || !strings.Contains(md, "- uptime") {
		t.Errorf("markdown = %s", md)
	}
}
