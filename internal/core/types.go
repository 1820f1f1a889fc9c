package core

import (
	"fmt"
	"strings"
)

// Module identifies one of the generation workflows.
type Module string

const (
	ModuleCaseStudy    Module = "case-study"
	ModulePresentation Module = "presentation"
	ModuleRecruiting   Module = "recruiting"
)

// ParseModule accepts the canonical module names plus a few short aliases.
func ParseModule(s string) (Module, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "case-study", "casestudy", "cs":
		return ModuleCaseStudy, nil
	case "presentation", "deck", "pres":
		return ModulePresentation, nil
	case "recruiting", "recruit":
		return ModuleRecruiting, nil
	}
	return "", &ValidationError{Field: "module", Message: fmt.Sprintf("unknown module %q", s)}
}

// InputMode selects how a case study draft is filled in.
type InputMode string

const (
	InputFreeform   InputMode = "freeform"
	InputStructured InputMode = "structured"
)

// DefaultIndustry is preselected on a new case study draft.
const DefaultIndustry = "technology"

// Metric is one before/after measurement entered on the form.
type Metric struct {
	Label       string `json:"label"`
	Before      string `json:"before"`
	After       string `json:"after"`
	Improvement string `json:"improvement,omitempty"` // Optional, e.g. "92% faster"
}

// Complete reports whether the metric can count toward submission.
func (m Metric) Complete() bool {
	return strings.TrimSpace(m.Label) != "" &&
		strings.TrimSpace(m.Before) != "" &&
		strings.TrimSpace(m.After) != ""
}

// VersionKind tags why a version was generated.
type VersionKind string

const (
	VersionInitial    VersionKind = "initial"
	VersionRefinement VersionKind = "refinement"
)

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// Validation is the result of checking a draft before submission.
type Validation struct {
	CanSubmit bool
	Errors    []*ValidationError
}

// FieldError returns the message for a field, or "" when it is valid.
func (v Validation) FieldError(field string) string {
	for _, e := range v.Errors {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// Err collapses the validation into a single error, or nil if submittable.
func (v Validation) Err() error {
	if v.CanSubmit || len(v.Errors) == 0 {
		return nil
	}
	return v.Errors[0]
}
