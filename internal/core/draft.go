package core

import (
	"fmt"
	"strings"
)

// Draft is the editable case study form. Every transition returns a new
// value; the receiver is never modified.
type Draft struct {
	InputMode  InputMode `json:"inputMode"`
	RawNotes   string    `json:"rawNotes,omitempty"` // Freeform mode only
	ClientName string    `json:"clientName,omitempty"`
	Industry   string    `json:"industry,omitempty"`
	Challenge  string    `json:"challenge,omitempty"`
	Solution   string    `json:"solution,omitempty"`
	Subtitle   string    `json:"subtitle,omitempty"`
	Technology string    `json:"technology,omitempty"`
	Timeline   string    `json:"timeline,omitempty"`
	ROI        string    `json:"roi,omitempty"`
	Metrics    []Metric  `json:"metrics,omitempty"`
	Benefits   []string  `json:"benefits,omitempty"`
}

// NewDraft returns an empty structured draft with the default industry.
func NewDraft() Draft {
	return Draft{
		InputMode: InputStructured,
		Industry:  DefaultIndustry,
	}
}

// IsZero reports whether the draft carries nothing the user typed.
func (d Draft) IsZero() bool {
	return d.RawNotes == "" && d.ClientName == "" && d.Challenge == "" &&
		d.Solution == "" && d.Subtitle == "" && d.Technology == "" &&
		d.Timeline == "" && d.ROI == "" && len(d.Metrics) == 0 && len(d.Benefits) == 0
}

// With sets one field addressed by path and returns the new draft.
func (d Draft) With(path, value string) (Draft, error) {
	p, err := parseFieldPath(path)
	if err != nil {
		return d, err
	}

	if (p.Index >= 0 || p.Append) && p.Name != "metrics" && p.Name != "benefits" {
		return d, &ValidationError{Field: p.Name, Message: "field is not a list"}
	}

	out := d.clone()
	switch p.Name {
	case "inputMode":
		mode := InputMode(strings.ToLower(strings.TrimSpace(value)))
		if mode != InputFreeform && mode != InputStructured {
			return d, &ValidationError{Field: "inputMode", Message: fmt.Sprintf("unknown input mode %q", value)}
		}
		out.InputMode = mode
	case "rawNotes":
		out.RawNotes = value
	case "clientName":
		out.ClientName = value
	case "industry":
		out.Industry = value
	case "challenge":
		out.Challenge = value
	case "solution":
		out.Solution = value
	case "subtitle":
		out.Subtitle = value
	case "technology":
		out.Technology = value
	case "timeline":
		out.Timeline = value
	case "roi":
		out.ROI = value
	case "metrics":
		out.Metrics, err = setMetric(out.Metrics, p, value)
	case "benefits":
		out.Benefits, err = setStringList(out.Benefits, p, value)
	default:
		return d, &ValidationError{Field: p.Name, Message: "unknown field"}
	}
	if err != nil {
		return d, err
	}
	return out, nil
}

// AppendMetric adds an empty metric row.
func (d Draft) AppendMetric() Draft {
	out := d.clone()
	out.Metrics = append(out.Metrics, Metric{})
	return out
}

// RemoveMetric drops the metric at i.
func (d Draft) RemoveMetric(i int) (Draft, error) {
	metrics, err := removeAt(d.Metrics, i)
	if err != nil {
		return d, err
	}
	out := d.clone()
	out.Metrics = metrics
	return out, nil
}

// AppendBenefit adds an empty benefit line.
func (d Draft) AppendBenefit() Draft {
	out := d.clone()
	out.Benefits = append(out.Benefits, "")
	return out
}

// RemoveBenefit drops the benefit at i.
func (d Draft) RemoveBenefit(i int) (Draft, error) {
	benefits, err := removeAt(d.Benefits, i)
	if err != nil {
		return d, err
	}
	out := d.clone()
	out.Benefits = benefits
	return out, nil
}

// Validate checks the draft against the rules of its input mode.
func (d Draft) Validate() Validation {
	var errs []*ValidationError
	required := func(field, value, msg string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, &ValidationError{Field: field, Message: msg})
		}
	}

	if d.InputMode == InputFreeform {
		required("rawNotes", d.RawNotes, "Notes are required")
		return Validation{CanSubmit: len(errs) == 0, Errors: errs}
	}

	required("clientName", d.ClientName, "Client name is required")
	required("industry", d.Industry, "Industry is required")
	required("challenge", d.Challenge, "Challenge description is required")
	required("solution", d.Solution, "Solution description is required")

	complete := false
	for _, m := range d.Metrics {
		if m.Complete() {
			complete = true
			break
		}
	}
	if !complete {
		errs = append(errs, &ValidationError{
			Field:   "metrics",
			Message: "At least one metric with label, before and after values is required",
		})
	}
	return Validation{CanSubmit: len(errs) == 0, Errors: errs}
}

// RequestBody is the payload posted for an initial generation.
func (d Draft) RequestBody() any {
	if d.InputMode == InputFreeform {
		return struct {
			InputMode  InputMode `json:"inputMode"`
			RawNotes   string    `json:"rawNotes"`
			ClientName string    `json:"clientName,omitempty"`
			Industry   string    `json:"industry,omitempty"`
		}{InputFreeform, d.RawNotes, d.ClientName, d.Industry}
	}
	out := d.clone()
	out.InputMode = InputStructured
	out.RawNotes = ""
	return out
}

func (d Draft) clone() Draft {
	out := d
	out.Metrics = append([]Metric(nil), d.Metrics...)
	out.Benefits = append([]string(nil), d.Benefits...)
	if len(out.Metrics) == 0 {
		out.Metrics = nil
	}
	if len(out.Benefits) == 0 {
		out.Benefits = nil
	}
	return out
}

func setMetric(metrics []Metric, p fieldPath, value string) ([]Metric, error) {
	if p.Index < 0 && !p.Append {
		return nil, &ValidationError{Field: "metrics", Message: "index required"}
	}
	i, grow, err := p.resolve(len(metrics))
	if err != nil {
		return nil, err
	}
	out := append([]Metric(nil), metrics...)
	if grow {
		out = append(out, Metric{})
	}

	m := &out[i]
	switch p.Sub {
	case "label":
		m.Label = value
	case "before":
		m.Before = value
	case "after":
		m.After = value
	case "improvement":
		m.Improvement = value
	default:
		return nil, &ValidationError{Field: fmt.Sprintf("metrics[%d].%s", i, p.Sub), Message: "unknown field"}
	}
	return out, nil
}
