package core

import (
	"fmt"
	"strings"
)

// MinKeyPoints is how many key points a presentation draft needs.
const MinKeyPoints = 3

// PresentationDraft is the editable presentation form.
type PresentationDraft struct {
	Title     string   `json:"title,omitempty"`
	Objective string   `json:"objective,omitempty"`
	Audience  string   `json:"audience,omitempty"`
	Duration  string   `json:"duration,omitempty"` // e.g. "30 minutes"
	KeyPoints []string `json:"keyPoints,omitempty"`
}

// IsZero reports whether nothing has been entered.
func (d PresentationDraft) IsZero() bool {
	return d.Title == "" && d.Objective == "" && d.Audience == "" &&
		d.Duration == "" && len(d.KeyPoints) == 0
}

// With sets one field addressed by path and returns the new draft.
func (d PresentationDraft) With(path, value string) (PresentationDraft, error) {
	p, err := parseFieldPath(path)
	if err != nil {
		return d, err
	}
	if (p.Index >= 0 || p.Append) && p.Name != "keyPoints" {
		return d, &ValidationError{Field: p.Name, Message: "field is not a list"}
	}

	out := d.clone()
	switch p.Name {
	case "title":
		out.Title = value
	case "objective":
		out.Objective = value
	case "audience":
		out.Audience = value
	case "duration":
		out.Duration = value
	case "keyPoints":
		out.KeyPoints, err = setStringList(out.KeyPoints, p, value)
		if err != nil {
			return d, err
		}
	default:
		return d, &ValidationError{Field: p.Name, Message: "unknown field"}
	}
	return out, nil
}

// RemoveKeyPoint drops the key point at i.
func (d PresentationDraft) RemoveKeyPoint(i int) (PresentationDraft, error) {
	points, err := removeAt(d.KeyPoints, i)
	if err != nil {
		return d, err
	}
	out := d.clone()
	out.KeyPoints = points
	return out, nil
}

// Validate checks the presentation form.
func (d PresentationDraft) Validate() Validation {
	var errs []*ValidationError
	required := func(field, value, msg string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, &ValidationError{Field: field, Message: msg})
		}
	}
	required("title", d.Title, "Title is required")
	required("objective", d.Objective, "Objective is required")
	required("audience", d.Audience, "Audience is required")

	filled := 0
	for _, kp := range d.KeyPoints {
		if strings.TrimSpace(kp) != "" {
			filled++
		}
	}
	if filled < MinKeyPoints {
		errs = append(errs, &ValidationError{
			Field:   "keyPoints",
			Message: fmt.Sprintf("At least %d key points are required", MinKeyPoints),
		})
	}
	return Validation{CanSubmit: len(errs) == 0, Errors: errs}
}

func (d PresentationDraft) clone() PresentationDraft {
	out := d
	out.KeyPoints = append([]string(nil), d.KeyPoints...)
	if len(out.KeyPoints) == 0 {
		out.KeyPoints = nil
	}
	return out
}
