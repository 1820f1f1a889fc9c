package core

import (
	"reflect"
	"testing"
)

func acmeDraft(t *testing.T) Draft {
	t.Helper()
	d := NewDraft()
	steps := [][2]string{
		{"clientName", "Acme"},
		{"industry", "technology"},
		{"challenge", "slow builds"},
		{"solution", "adopted CI"},
		{"metrics[+].label", "Build time"},
		{"metrics[0].before", "2h"},
		{"metrics[0].after", "10m"},
	}
	for _, s := range steps {
		var err error
		if d, err = d.With(s[0], s[1]); err != nil {
			t.Fatalf("With(%q): %v", s[0], err)
		}
	}
	return d
}

func TestDraftValidateStructured(t *testing.T) {
	tests := []struct {
		name      string
		path      string // field cleared from an otherwise valid draft
		wantField string
	}{
		{"missing client name", "clientName", "clientName"},
		{"missing industry", "industry", "industry"},
		{"missing challenge", "challenge", "challenge"},
		{"missing solution", "solution", "solution"},
		{"whitespace solution", "solution", "solution"},
		{"metric without label", "metrics[0].label", "metrics"},
		{"metric without before", "metrics[0].before", "metrics"},
		{"metric without after", "metrics[0].after", "metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value := ""
			if tt.name == "whitespace solution" {
				value = "   "
			}
			d, err := acmeDraft(t).With(tt.path, value)
			if err != nil {
				t.Fatalf("With: %v", err)
			}
			v := d.Validate()
			if v.CanSubmit {
				t.Fatal("CanSubmit = true, want false")
			}
			if v.FieldError(tt.wantField) == "" {
				t.Errorf("no error message for %s; errors = %v", tt.wantField, v.Errors)
			}
		})
	}
}

func TestDraftValidateStructuredComplete(t *testing.T) {
	v := acmeDraft(t).Validate()
	if !v.CanSubmit {
		t.Fatalf("CanSubmit = false, errors = %v", v.Errors)
	}
	if v.Err() != nil {
		t.Errorf("Err() = %v, want nil", v.Err())
	}
}

func TestDraftValidateOneCompleteMetricIsEnough(t *testing.T) {
	d := acmeDraft(t).AppendMetric()
	d, _ = d.With("metrics[1].label", "Deploys per week")
	if v := d.Validate(); !v.CanSubmit {
		t.Errorf("CanSubmit = false with one complete metric, errors = %v", v.Errors)
	}
}

func TestDraftValidateFreeform(t *testing.T) {
	tests := []struct {
		name  string
		notes string
		want  bool
	}{
		{"notes present", "Met with Acme, they cut build time from 2h to 10m", true},
		{"empty notes", "", false},
		{"whitespace notes", " \n\t", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Draft{InputMode: InputFreeform, RawNotes: tt.notes}
			v := d.Validate()
			if v.CanSubmit != tt.want {
				t.Errorf("CanSubmit = %v, want %v", v.CanSubmit, tt.want)
			}
			if !tt.want && v.FieldError("rawNotes") == "" {
				t.Error("missing rawNotes error message")
			}
		})
	}
}

func TestDraftWithDoesNotMutate(t *testing.T) {
	orig := acmeDraft(t)
	snapshot := acmeDraft(t)

	if _, err := orig.With("metrics[0].label", "changed"); err != nil {
		t.Fatal(err)
	}
	if _, err := orig.RemoveMetric(0); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(orig, snapshot) {
		t.Errorf("draft mutated: %+v", orig)
	}
}

func TestDraftWithErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"unknown field", "budget"},
		{"index on scalar", "clientName[0]"},
		{"metric out of range", "metrics[5].label"},
		{"unknown metric field", "metrics[0].delta"},
		{"list without index", "benefits"},
		{"bad index", "benefits[x]"},
		{"bad input mode", "inputMode"},
		{"empty path", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := acmeDraft(t).With(tt.path, "value"); err == nil {
				t.Errorf("With(%q) succeeded, want error", tt.path)
			}
		})
	}
}

func TestDraftBenefits(t *testing.T) {
	d := NewDraft()
	d, _ = d.With("benefits[+]", "Faster releases")
	d, _ = d.With("benefits[1]", "Happier engineers")
	d, _ = d.With("benefits[0]", "Faster feedback")

	want := []string{"Faster feedback", "Happier engineers"}
	if !reflect.DeepEqual(d.Benefits, want) {
		t.Errorf("Benefits = %v, want %v", d.Benefits, want)
	}

	d, err := d.RemoveBenefit(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Benefits) != 1 || d.Benefits[0] != "Happier engineers" {
		t.Errorf("after remove, Benefits = %v", d.Benefits)
	}
}

func TestDraftRequestBodyFreeform(t *testing.T) {
	d := acmeDraft(t)
	d, _ = d.With("inputMode", "freeform")
	d, _ = d.With("rawNotes", "call notes")

	body, ok := d.RequestBody().(struct {
		InputMode  InputMode `json:"inputMode"`
		RawNotes   string    `json:"rawNotes"`
		ClientName string    `json:"clientName,omitempty"`
		Industry   string    `json:"industry,omitempty"`
	})
	if !ok {
		t.Fatalf("RequestBody() type = %T", d.RequestBody())
	}
	if body.RawNotes != "call notes" || body.ClientName != "Acme" || body.InputMode != InputFreeform {
		t.Errorf("body = %+v", body)
	}
}

func TestPresentationDraftValidate(t *testing.T) {
	base := PresentationDraft{
		Title:     "Q3 Review",
		Objective: "Win renewal",
		Audience:  "CTO",
		KeyPoints: []string{"Uptime", "Cost", "Roadmap"},
	}

	tests := []struct {
		name      string
		mutate    func(d PresentationDraft) PresentationDraft
		want      bool
		wantField string
	}{
		{"complete", func(d PresentationDraft) PresentationDraft { return d }, true, ""},
		{"no title", func(d PresentationDraft) PresentationDraft { d.Title = ""; return d }, false, "title"},
		{"two key points", func(d PresentationDraft) PresentationDraft { d.KeyPoints = d.KeyPoints[:2]; return d }, false, "keyPoints"},
		{"blank key point", func(d PresentationDraft) PresentationDraft {
			d.KeyPoints = []string{"Uptime", " ", "Roadmap"}
			return d
		}, false, "keyPoints"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.mutate(base).Validate()
			if v.CanSubmit != tt.want {
				t.Errorf("CanSubmit = %v, want %v", v.CanSubmit, tt.want)
			}
			if tt.wantField != "" && v.FieldError(tt.wantField) == "" {
				t.Errorf("missing error for %s", tt.wantField)
			}
		})
	}
}

func TestPresentationDraftWith(t *testing.T) {
	d := PresentationDraft{}
	d, _ = d.With("title", "Q3 Review")
	d, _ = d.With("keyPoints[+]", "Uptime")
	d, _ = d.With("keyPoints[1]", "Cost")

	if d.Title != "Q3 Review" || !reflect.DeepEqual(d.KeyPoints, []string{"Uptime", "Cost"}) {
		t.Errorf("draft = %+v", d)
	}
	if _, err := d.With("title[0]", "x"); err == nil {
		t.Error("index on scalar accepted")
	}
}
