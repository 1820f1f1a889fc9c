// Package export turns the current artifact into downloadable files and
// hands them to a Sink.
package export

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/calance/sales-edge/internal/core"
	"github.com/calance/sales-edge/internal/logger"
	"github.com/calance/sales-edge/internal/preview"
)

// Format is a document export format.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name or its file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "html", "htm":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", &core.ValidationError{Field: "format", Message: fmt.Sprintf("unknown export format %q", s)}
}

// File is an exported artifact ready to be written.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// PresentationRenderer renders a deck server-side. The generation client
// implements it.
type PresentationRenderer interface {
	ExportPresentationHTML(ctx context.Context, p *core.Presentation) (string, error)
}

// Handler builds export files.
type Handler struct {
	renderer PresentationRenderer
	preview  preview.Renderer
	http     *http.Client
	now      func() time.Time
	log      *slog.Logger
}

// Option customizes a Handler.
type Option func(*Handler)

// WithHTTPClient sets the client used to fetch remote images.
func WithHTTPClient(c *http.Client) Option {
	return func(h *Handler) { h.http = c }
}

// WithClock sets the timestamp source for file names.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) { h.log = l }
}

// NewHandler returns an export handler. renderer may be nil, in which case
// presentations are exported with the local renderer.
func NewHandler(renderer PresentationRenderer, pr preview.Renderer, opts ...Option) *Handler {
	h := &Handler{
		renderer: renderer,
		preview:  pr,
		http:     &http.Client{Timeout: 60 * time.Second},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = logger.Or(h.log)
	return h
}

// ExportImage produces the case study infographic as an image file.
func (h *Handler) ExportImage(ctx context.Context, a core.Artifact) (File, error) {
	const op = "export image"
	cs, ok := a.(*core.CaseStudy)
	if !ok || cs == nil || cs.Image == nil || cs.Image.URL == "" {
		return File{}, &core.Error{Kind: core.KindNoArtifact, Op: op}
	}

	stem := cs.SafeClientName() + "-infographic"
	if cs.Image.Embedded() {
		data, mimeType, err := DecodeDataURL(cs.Image.URL)
		if err != nil {
			return File{}, &core.Error{Kind: core.KindExportFailed, Op: op, Message: "invalid embedded image", Err: err}
		}
		return File{
			Name:        stem + "." + extensionFor(mimeType),
			ContentType: mimeType,
			Data:        data,
		}, nil
	}

	data, err := h.fetch(ctx, cs.Image.URL)
	if err != nil {
		h.log.Warn("image fetch failed", "url", cs.Image.URL, "error", err)
		return File{}, &core.Error{Kind: core.KindFetchFailed, Op: op, Err: err}
	}
	return File{Name: stem + ".png", ContentType: "image/png", Data: data}, nil
}

func (h *Handler) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ExportDocument produces a document file for the artifact. Presentations
// exported as HTML are rendered by the backend and saved verbatim.
func (h *Handler) ExportDocument(ctx context.Context, a core.Artifact, format Format) (File, error) {
	const op = "export document"
	if a == nil || isNilArtifact(a) {
		return File{}, &core.Error{Kind: core.KindNoArtifact, Op: op}
	}

	stem := documentStem(a)
	stamp := h.now().UnixMilli()
	name := func(ext string) string { return fmt.Sprintf("%s-%d.%s", stem, stamp, ext) }

	if p, ok := a.(*core.Presentation); ok && format == FormatHTML && h.renderer != nil {
		content, err := h.renderer.ExportPresentationHTML(ctx, p)
		if err != nil {
			return File{}, &core.Error{Kind: core.KindExportFailed, Op: op, Message: core.UserMessage(err), Err: err}
		}
		return File{Name: name("html"), ContentType: "text/html; charset=utf-8", Data: []byte(content)}, nil
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return File{}, &core.Error{Kind: core.KindExportFailed, Op: op, Err: err}
		}
		return File{Name: name("json"), ContentType: "application/json", Data: data}, nil
	case FormatMarkdown:
		return File{Name: name("md"), ContentType: "text/markdown; charset=utf-8", Data: []byte(h.renderAll(a, preview.Markdown))}, nil
	case FormatHTML:
		var pages []string
		for _, doc := range h.documents(a) {
			page, err := preview.HTML(doc)
			if err != nil {
				return File{}, &core.Error{Kind: core.KindExportFailed, Op: op, Err: err}
			}
			pages = append(pages, page)
		}
		return File{Name: name("html"), ContentType: "text/html; charset=utf-8", Data: []byte(strings.Join(pages, "\n"))}, nil
	}
	return File{}, &core.Error{Kind: core.KindExportFailed, Op: op, Message: fmt.Sprintf("unsupported format %q", format)}
}

// documents renders every slide of a deck, or the single case study page.
func (h *Handler) documents(a core.Artifact) []preview.Document {
	p, ok := a.(*core.Presentation)
	if !ok {
		return []preview.Document{h.preview.Render(a, 0)}
	}
	docs := make([]preview.Document, 0, len(p.Slides))
	for i := range p.Slides {
		docs = append(docs, h.preview.Render(a, i))
	}
	if len(docs) == 0 {
		docs = append(docs, h.preview.Render(a, 0))
	}
	return docs
}

func (h *Handler) renderAll(a core.Artifact, emit func(preview.Document) string) string {
	var parts []string
	for _, doc := range h.documents(a) {
		parts = append(parts, emit(doc))
	}
	return strings.Join(parts, "\n")
}

func documentStem(a core.Artifact) string {
	switch v := a.(type) {
	case *core.Presentation:
		if v.Title != "" {
			return core.Sanitize(v.Title)
		}
		return "presentation"
	case *core.CaseStudy:
		return v.SafeClientName()
	}
	return "artifact"
}

func isNilArtifact(a core.Artifact) bool {
	switch v := a.(type) {
	case *core.CaseStudy:
		return v == nil
	case *core.Presentation:
		return v == nil
	}
	return false
}

// DecodeDataURL decodes a base64 data: URL. The mime type defaults to
// image/png when the header omits it.
func DecodeDataURL(s string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data url")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("data url has no payload")
	}

	params := strings.Split(header, ";")
	mimeType := strings.TrimSpace(params[0])
	if mimeType == "" {
		mimeType = "image/png"
	}
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}
	if !isBase64 {
		return nil, "", fmt.Errorf("data url is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}
	return data, mimeType, nil
}

// extensionFor maps a mime type to a file extension, using the subtype as
// given (image/webp -> webp, image/svg+xml -> svg).
func extensionFor(mimeType string) string {
	if base, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = base
	}
	_, sub, ok := strings.Cut(mimeType, "/")
	if !ok || sub == "" {
		return "png"
	}
	if i := strings.IndexByte(sub, '+'); i > 0 {
		sub = sub[:i]
	}
	return sub
}
