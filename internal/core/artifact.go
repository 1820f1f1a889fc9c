package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Artifact is the result of a generation call. Case studies and
// presentations are the only implementations.
type Artifact interface {
	Module() Module
	Heading() string
	isArtifact()
}

// ImageReference points at the single infographic of a case study. URL is
// either a data: payload or a remote http(s) address.
type ImageReference struct {
	URL string `json:"url"`
}

// Embedded reports whether the reference carries its bytes inline.
func (r ImageReference) Embedded() bool {
	return strings.HasPrefix(r.URL, "data:")
}

// MetricResult is a metric as displayed on a generated case study.
type MetricResult struct {
	Label   string `json:"label"`
	Value   string `json:"value,omitempty"`
	Context string `json:"context,omitempty"`
	Before  string `json:"before,omitempty"`
	After   string `json:"after,omitempty"`
}

func (m *MetricResult) UnmarshalJSON(data []byte) error {
	var wire struct {
		Label       string `json:"label"`
		Value       string `json:"value"`
		Improvement string `json:"improvement"`
		Context     string `json:"context"`
		Before      string `json:"before"`
		After       string `json:"after"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*m = MetricResult{
		Label:   wire.Label,
		Value:   firstNonEmpty(wire.Value, wire.Improvement),
		Context: wire.Context,
		Before:  wire.Before,
		After:   wire.After,
	}
	return nil
}

// CaseStudy is a generated customer success story.
type CaseStudy struct {
	Title            string          `json:"title"`
	Subtitle         string          `json:"subtitle,omitempty"`
	ClientName       string          `json:"clientName,omitempty"`
	Industry         string          `json:"industry,omitempty"`
	Challenge        string          `json:"challenge,omitempty"`
	Solution         string          `json:"solution,omitempty"`
	ChallengeBullets []string        `json:"challengeBullets,omitempty"`
	SolutionBullets  []string        `json:"solutionBullets,omitempty"`
	Results          string          `json:"results,omitempty"`
	ResultsBullets   []string        `json:"resultsBullets,omitempty"`
	Metrics          []MetricResult  `json:"metrics,omitempty"`
	ROI              string          `json:"roi,omitempty"`
	Testimonial      string          `json:"testimonial,omitempty"`
	Technologies     []string        `json:"technologies,omitempty"`
	Image            *ImageReference `json:"-"` // Normalized from the historical response shapes
}

func (*CaseStudy) Module() Module    { return ModuleCaseStudy }
func (c *CaseStudy) Heading() string { return c.Title }
func (*CaseStudy) isArtifact()       {}

type caseStudyAlias CaseStudy

// MarshalJSON writes the image under "infographic" as a plain URL, which is
// one of the shapes UnmarshalJSON accepts.
func (c CaseStudy) MarshalJSON() ([]byte, error) {
	out := struct {
		caseStudyAlias
		Infographic string `json:"infographic,omitempty"`
	}{caseStudyAlias: caseStudyAlias(c)}
	if c.Image != nil {
		out.Infographic = c.Image.URL
	}
	return json.Marshal(out)
}

func (c *CaseStudy) UnmarshalJSON(data []byte) error {
	var wire struct {
		caseStudyAlias
		ClientNameSnake string          `json:"client_name"`
		Infographic     json.RawMessage `json:"infographic"`
		Images          []struct {
			URL string `json:"url"`
		} `json:"images"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*c = CaseStudy(wire.caseStudyAlias)
	c.ClientName = firstNonEmpty(wire.ClientNameSnake, c.ClientName)

	var first string
	if len(wire.Images) > 0 {
		first = wire.Images[0].URL
	}
	infoURL, infoString, err := decodeInfographic(wire.Infographic)
	if err != nil {
		return err
	}
	if url := firstNonEmpty(infoURL, infoString, first); url != "" {
		c.Image = &ImageReference{URL: url}
	}
	return nil
}

// decodeInfographic accepts {"url": "..."} or a bare string.
func decodeInfographic(raw json.RawMessage) (objectURL, plain string, err error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", "", nil
	}
	switch raw[0] {
	case '"':
		err = json.Unmarshal(raw, &plain)
	case '{':
		var obj struct {
			URL string `json:"url"`
		}
		err = json.Unmarshal(raw, &obj)
		objectURL = obj.URL
	default:
		err = fmt.Errorf("infographic: unexpected JSON %s", truncate(string(raw), 20))
	}
	return objectURL, plain, err
}

// SafeClientName is the case study's client name reduced to a file stem.
func (c *CaseStudy) SafeClientName() string {
	return Sanitize(firstNonEmpty(c.ClientName, "case-study"))
}

// Slide is one page of a presentation. Content arrives either as a list of
// bullets or as a single block of text.
type Slide struct {
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Bullets  []string `json:"-"`
	Text     string   `json:"-"`
	Image    string   `json:"image,omitempty"`
}

// Slide types the renderer lays out specially.
const (
	SlideTitle    = "title"
	SlideContent  = "content"
	SlideFreeform = "freeform"
)

type slideAlias Slide

func (s Slide) MarshalJSON() ([]byte, error) {
	var content any = s.Text
	if s.Bullets != nil {
		content = s.Bullets
	}
	return json.Marshal(struct {
		slideAlias
		Content any `json:"content,omitempty"`
	}{slideAlias(s), content})
}

func (s *Slide) UnmarshalJSON(data []byte) error {
	var wire struct {
		slideAlias
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*s = Slide(wire.slideAlias)

	raw := wire.Content
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	switch raw[0] {
	case '[':
		return json.Unmarshal(raw, &s.Bullets)
	case '"':
		return json.Unmarshal(raw, &s.Text)
	}
	return fmt.Errorf("slide %q: content must be a list or a string", s.Title)
}

// Presentation is a generated slide deck.
type Presentation struct {
	Title     string  `json:"title"`
	Objective string  `json:"objective,omitempty"`
	Audience  string  `json:"audience,omitempty"`
	Duration  string  `json:"duration,omitempty"`
	Slides    []Slide `json:"slides"`
}

func (*Presentation) Module() Module    { return ModulePresentation }
func (p *Presentation) Heading() string { return p.Title }
func (*Presentation) isArtifact()       {}

// RecruitingResult is the text produced by one recruiting tool.
type RecruitingResult struct {
	Tool    string `json:"tool"`
	Content string `json:"content"`
}

var (
	errNoTitle  = errors.New("case study has no title")
	errNoSlides = errors.New("presentation has no slides")
)

// DecodeCaseStudy decodes a response payload and rejects incomplete ones.
func DecodeCaseStudy(data []byte) (*CaseStudy, error) {
	var cs CaseStudy
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, fmt.Errorf("decode case study: %w", err)
	}
	if strings.TrimSpace(cs.Title) == "" {
		return nil, errNoTitle
	}
	return &cs, nil
}

// DecodePresentation decodes a response payload and rejects empty decks.
func DecodePresentation(data []byte) (*Presentation, error) {
	var p Presentation
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode presentation: %w", err)
	}
	if len(p.Slides) == 0 {
		return nil, errNoSlides
	}
	return &p, nil
}

// Sanitize lowercases a name and replaces every character outside
// [a-zA-Z0-9] with a hyphen.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
