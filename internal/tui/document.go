package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/calance/sales-edge/internal/preview"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 80

// RenderDocument draws a preview document for the terminal.
func RenderDocument(doc preview.Document, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	inner := width - 6

	var b strings.Builder
	header := BrandStyle.Render(doc.Brand)
	if doc.Badge != "" {
		header += "  " + BadgeStyle.Render(badge(doc))
	}
	b.WriteString(header + "\n\n")

	if doc.Layout == preview.LayoutPlaceholder {
		b.WriteString(SubtitleStyle.Render(doc.Title) + "\n")
		b.WriteString(HelpStyle.Render(doc.Subtitle))
		return BoxStyle.Width(width - 2).Render(b.String())
	}

	b.WriteString(TitleStyle.Width(inner).Render(doc.Title) + "\n")
	if doc.Subtitle != "" {
		b.WriteString(SubtitleStyle.Width(inner).Render(doc.Subtitle) + "\n")
	}
	if doc.ImageURL != "" {
		b.WriteString("\n" + HelpStyle.Render("Image: "+describeImage(doc.ImageURL)) + "\n")
	}

	for _, blk := range doc.Blocks {
		b.WriteString("\n")
		b.WriteString(renderBlock(blk, inner))
		b.WriteString("\n")
	}

	box := BoxStyle
	if doc.IsSlide() {
		box = HighlightBoxStyle
	}
	return box.Width(width - 2).Render(strings.TrimRight(b.String(), "\n"))
}

func badge(doc preview.Document) string {
	if doc.IsSlide() && doc.SlideCount > 0 {
		return fmt.Sprintf("%s · %d/%d", doc.Badge, doc.SlideIndex+1, doc.SlideCount)
	}
	return doc.Badge
}

func renderBlock(blk preview.Block, width int) string {
	switch blk.Kind {
	case preview.BlockMetrics:
		cards := make([]string, 0, len(blk.Metrics))
		for _, m := range blk.Metrics {
			card := MetricValueStyle.Render(m.Value) + "\n" + m.Label
			if m.Context != "" {
				card += "\n" + HelpStyle.Render(m.Context)
			}
			cards = append(cards, MetricCardStyle.Render(card))
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, cards...)

	case preview.BlockCallout:
		return CalloutStyle.Width(width).Render(SectionStyle.Render(blk.Heading) + "\n" + blk.Text)

	case preview.BlockQuote:
		return SubtitleStyle.Width(width).Render("“" + blk.Text + "”")

	case preview.BlockSection:
		body := blk.Text
		if len(blk.Items) > 0 {
			body = bullets(blk.Items, blk.Ordered)
		}
		return SectionStyle.Render(blk.Heading) + "\n" + lipgloss.NewStyle().Width(width).Render(body)

	case preview.BlockList:
		return lipgloss.NewStyle().Width(width).Render(bullets(blk.Items, blk.Ordered))
	}
	return lipgloss.NewStyle().Width(width).Render(blk.Text)
}

func bullets(items []string, ordered bool) string {
	lines := make([]string, len(items))
	for i, it := range items {
		marker := "•"
		if ordered {
			marker = fmt.Sprintf("%d.", i+1)
		}
		lines[i] = SelectedStyle.Render(marker) + " " + it
	}
	return strings.Join(lines, "\n")
}

func describeImage(url string) string {
	if strings.HasPrefix(url, "data:") {
		return fmt.Sprintf("embedded (%d KB)", len(url)*3/4/1024)
	}
	return url
}
