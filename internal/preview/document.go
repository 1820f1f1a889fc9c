// Package preview maps generated artifacts to a display-neutral Document
// that the terminal, Markdown and HTML emitters share.
package preview

// Layout identifies which of the fixed layouts a Document uses.
type Layout string

const (
	LayoutPlaceholder Layout = "placeholder"
	LayoutInfographic Layout = "infographic"
	LayoutCaseStudy   Layout = "case-study"
	LayoutTitleSlide  Layout = "title-slide"
	LayoutSlide       Layout = "slide"
)

// BlockKind identifies how a block is drawn.
type BlockKind string

const (
	BlockMetrics   BlockKind = "metrics"
	BlockSection   BlockKind = "section"
	BlockCallout   BlockKind = "callout"
	BlockQuote     BlockKind = "quote"
	BlockList      BlockKind = "list"
	BlockParagraph BlockKind = "paragraph"
)

// Document is the rendered form of an artifact.
type Document struct {
	Layout   Layout
	Brand    string
	Badge    string // "CASE STUDY", "PRESENTATION"
	Title    string
	Subtitle string
	ImageURL string
	Blocks   []Block

	SlideIndex int // Zero-based; only meaningful for slides
	SlideCount int
}

// Block is one section of a Document.
type Block struct {
	Kind    BlockKind
	Heading string
	Text    string
	Items   []string
	Ordered bool
	Metrics []MetricCell
}

// MetricCell is one tile of the metrics grid.
type MetricCell struct {
	Label   string
	Value   string
	Context string
}

// IsSlide reports whether the document shows a presentation slide.
func (d Document) IsSlide() bool {
	return d.Layout == LayoutTitleSlide || d.Layout == LayoutSlide
}
