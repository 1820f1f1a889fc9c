package preview

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders a Document as Markdown.
func Markdown(doc Document) string {
	var b strings.Builder

	if doc.Badge != "" {
		fmt.Fprintf(&b, "_%s", doc.Badge)
		if doc.IsSlide() && doc.SlideCount > 0 {
			fmt.Fprintf(&b, " · slide %d of %d", doc.SlideIndex+1, doc.SlideCount)
		}
		b.WriteString("_\n\n")
	}
	if doc.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	}
	if doc.Subtitle != "" {
		if doc.Layout == LayoutPlaceholder {
			fmt.Fprintf(&b, "%s\n\n", doc.Subtitle)
		} else {
			fmt.Fprintf(&b, "## %s\n\n", doc.Subtitle)
		}
	}
	if doc.ImageURL != "" {
		fmt.Fprintf(&b, "![%s](%s)\n\n", altText(doc.Title), doc.ImageURL)
	}

	for _, blk := range doc.Blocks {
		writeBlock(&b, blk)
	}

	if doc.Brand != "" {
		fmt.Fprintf(&b, "---\n\n%s\n", doc.Brand)
	}
	return b.String()
}

func writeBlock(b *strings.Builder, blk Block) {
	switch blk.Kind {
	case BlockMetrics:
		b.WriteString("| Metric | Result |\n|---|---|\n")
		for _, m := range blk.Metrics {
			value := m.Value
			if m.Context != "" {
				value += " (" + m.Context + ")"
			}
			fmt.Fprintf(b, "| %s | %s |\n", cell(m.Label), cell(value))
		}
		b.WriteString("\n")
	case BlockSection:
		fmt.Fprintf(b, "### %s\n\n", blk.Heading)
		if len(blk.Items) > 0 {
			writeItems(b, blk.Items, false)
		} else if blk.Text != "" {
			fmt.Fprintf(b, "%s\n\n", blk.Text)
		}
	case BlockCallout:
		fmt.Fprintf(b, "**%s:** %s\n\n", blk.Heading, blk.Text)
	case BlockQuote:
		for _, line := range strings.Split(blk.Text, "\n") {
			fmt.Fprintf(b, "> %s\n", line)
		}
		b.WriteString("\n")
	case BlockList:
		writeItems(b, blk.Items, blk.Ordered)
	case BlockParagraph:
		if blk.Text != "" {
			fmt.Fprintf(b, "%s\n\n", blk.Text)
		}
	}
}

func writeItems(b *strings.Builder, items []string, ordered bool) {
	for i, item := range items {
		if ordered {
			fmt.Fprintf(b, "%d. %s\n", i+1, item)
		} else {
			fmt.Fprintf(b, "- %s\n", item)
		}
	}
	b.WriteString("\n")
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func altText(title string) string {
	if title == "" {
		return "infographic"
	}
	return strings.NewReplacer("[", "", "]", "").Replace(title)
}

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; max-width: 860px; margin: 2rem auto; color: #1a2b4a; }
h1 { color: #1a2b4a; } h3 { color: #2563eb; }
table { border-collapse: collapse; } td, th { border: 1px solid #cbd5e1; padding: .4rem .8rem; }
blockquote { border-left: 4px solid #f97316; margin-left: 0; padding-left: 1rem; font-style: italic; }
img { max-width: 100%%; }
</style>
</head>
<body>
%s</body>
</html>
`

// HTML renders a Document as a standalone HTML page.
func HTML(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(doc)), &buf); err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}
	title := doc.Title
	if title == "" {
		title = doc.Brand
	}
	return fmt.Sprintf(pageTemplate, html.EscapeString(title), buf.String()), nil
}
