package preview

import (
	"strings"

	"github.com/calance/sales-edge/internal/core"
)

// Renderer turns artifacts into Documents. It holds only branding and
// never modifies the artifacts it is given.
type Renderer struct {
	Brand string
}

// New returns a renderer that stamps documents with brand.
func New(brand string) Renderer {
	return Renderer{Brand: brand}
}

// Render maps an artifact (or nil) to a Document. For presentations,
// slide selects the slide shown and is clamped into range.
func (r Renderer) Render(a core.Artifact, slide int) Document {
	switch v := a.(type) {
	case *core.CaseStudy:
		if v != nil {
			return r.caseStudy(v)
		}
	case *core.Presentation:
		if v != nil {
			return r.slide(v, slide)
		}
	}
	return r.placeholder()
}

func (r Renderer) placeholder() Document {
	return Document{
		Layout:   LayoutPlaceholder,
		Brand:    r.Brand,
		Title:    "Nothing generated yet",
		Subtitle: "Fill in the form and generate to see a preview here.",
	}
}

func (r Renderer) caseStudy(cs *core.CaseStudy) Document {
	doc := Document{
		Brand:    r.Brand,
		Badge:    "CASE STUDY",
		Title:    cs.Title,
		Subtitle: cs.Subtitle,
	}

	if cs.Image != nil && cs.Image.URL != "" {
		doc.Layout = LayoutInfographic
		doc.ImageURL = cs.Image.URL
		return doc
	}

	doc.Layout = LayoutCaseStudy
	if len(cs.Metrics) > 0 {
		cells := make([]MetricCell, 0, len(cs.Metrics))
		for _, m := range cs.Metrics {
			value := m.Value
			if value == "" && (m.Before != "" || m.After != "") {
				value = m.Before + " → " + m.After
			}
			cells = append(cells, MetricCell{Label: m.Label, Value: value, Context: m.Context})
		}
		doc.Blocks = append(doc.Blocks, Block{Kind: BlockMetrics, Metrics: cells})
	}

	doc.Blocks = append(doc.Blocks,
		section("The Challenge", cs.ChallengeBullets, cs.Challenge),
		section("The Solution", cs.SolutionBullets, cs.Solution),
	)
	if len(cs.ResultsBullets) > 0 || strings.TrimSpace(cs.Results) != "" {
		doc.Blocks = append(doc.Blocks, section("The Results", cs.ResultsBullets, cs.Results))
	}
	if strings.TrimSpace(cs.ROI) != "" {
		doc.Blocks = append(doc.Blocks, Block{Kind: BlockCallout, Heading: "Return on Investment", Text: cs.ROI})
	}
	if strings.TrimSpace(cs.Testimonial) != "" {
		doc.Blocks = append(doc.Blocks, Block{Kind: BlockQuote, Text: cs.Testimonial})
	}
	return doc
}

// section prefers bullets and falls back to raw text.
func section(heading string, bullets []string, text string) Block {
	b := Block{Kind: BlockSection, Heading: heading}
	if len(bullets) > 0 {
		b.Items = append([]string(nil), bullets...)
	} else {
		b.Text = text
	}
	return b
}

func (r Renderer) slide(p *core.Presentation, index int) Document {
	doc := Document{
		Brand:      r.Brand,
		Badge:      "PRESENTATION",
		SlideCount: len(p.Slides),
	}
	if len(p.Slides) == 0 {
		doc.Layout = LayoutTitleSlide
		doc.Title = p.Title
		return doc
	}

	index = ClampSlide(index, len(p.Slides))
	s := p.Slides[index]
	doc.SlideIndex = index
	doc.Title = s.Title
	doc.ImageURL = s.Image

	switch s.Type {
	case core.SlideTitle:
		doc.Layout = LayoutTitleSlide
		doc.Subtitle = s.Subtitle
	case core.SlideContent:
		doc.Layout = LayoutSlide
		doc.Subtitle = s.Subtitle
		if len(s.Bullets) > 0 {
			doc.Blocks = []Block{{Kind: BlockList, Items: append([]string(nil), s.Bullets...)}}
		} else if s.Text != "" {
			doc.Blocks = []Block{{Kind: BlockParagraph, Text: s.Text}}
		}
	default:
		doc.Layout = LayoutSlide
		text := s.Text
		if text == "" && len(s.Bullets) > 0 {
			text = strings.Join(s.Bullets, "\n")
		}
		doc.Blocks = []Block{{Kind: BlockParagraph, Text: text}}
	}
	return doc
}

// ClampSlide keeps a slide index inside [0, count).
func ClampSlide(index, count int) int {
	if count <= 0 || index < 0 {
		return 0
	}
	if index >= count {
		return count - 1
	}
	return index
}
