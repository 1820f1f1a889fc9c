package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDecodeCaseStudyImageReference(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"infographic object", `{"title":"t","infographic":{"url":"https://cdn/a.png"}}`, "https://cdn/a.png"},
		{"infographic string", `{"title":"t","infographic":"data:image/png;base64,AAAA"}`, "data:image/png;base64,AAAA"},
		{"images list", `{"title":"t","images":[{"url":"https://cdn/b.png"},{"url":"https://cdn/c.png"}]}`, "https://cdn/b.png"},
		{"object wins over images", `{"title":"t","infographic":{"url":"https://cdn/a.png"},"images":[{"url":"https://cdn/b.png"}]}`, "https://cdn/a.png"},
		{"empty object falls through", `{"title":"t","infographic":{"url":""},"images":[{"url":"https://cdn/b.png"}]}`, "https://cdn/b.png"},
		{"no image", `{"title":"t"}`, ""},
		{"null infographic", `{"title":"t","infographic":null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := DecodeCaseStudy([]byte(tt.json))
			if err != nil {
				t.Fatalf("DecodeCaseStudy: %v", err)
			}
			got := ""
			if cs.Image != nil {
				got = cs.Image.URL
			}
			if got != tt.want {
				t.Errorf("image = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeCaseStudyMetricValue(t *testing.T) {
	raw := `{"title":"t","metrics":[
		{"label":"a","value":"92%","improvement":"faster"},
		{"label":"b","improvement":"3x"},
		{"label":"c","value":"  ","improvement":"half"}
	]}`
	cs, err := DecodeCaseStudy([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"92%", "3x", "half"}
	for i, m := range cs.Metrics {
		if m.Value != want[i] {
			t.Errorf("metric %d value = %q, want %q", i, m.Value, want[i])
		}
	}
}

func TestDecodeCaseStudyClientName(t *testing.T) {
	cs, err := DecodeCaseStudy([]byte(`{"title":"t","client_name":"Beazer Homes","clientName":"Other"}`))
	if err != nil {
		t.Fatal(err)
	}
	if cs.ClientName != "Beazer Homes" {
		t.Errorf("ClientName = %q", cs.ClientName)
	}
	if got := cs.SafeClientName(); got != "beazer-homes" {
		t.Errorf("SafeClientName() = %q", got)
	}
	if got := (&CaseStudy{}).SafeClientName(); got != "case-study" {
		t.Errorf("SafeClientName() default = %q", got)
	}
}

func TestDecodeCaseStudyFailsClosed(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"no title", `{"subtitle":"x"}`},
		{"wrong type", `{"title":"t","metrics":"lots"}`},
		{"bad infographic", `{"title":"t","infographic":42}`},
		{"not an object", `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeCaseStudy([]byte(tt.json)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCaseStudyJSONRoundTrip(t *testing.T) {
	in := &CaseStudy{
		Title:      "Acme ships faster",
		ClientName: "Acme",
		Metrics:    []MetricResult{{Label: "Build time", Value: "92%"}},
		Image:      &ImageReference{URL: "https://cdn/a.png"},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := DecodeCaseStudy(data)
	if err != nil {
		t.Fatal(err)
	}
	if out.Image == nil || out.Image.URL != in.Image.URL || out.Metrics[0].Value != "92%" {
		t.Errorf("round trip = %+v", out)
	}
}

func TestDecodePresentationSlideContent(t *testing.T) {
	raw := `{"title":"Deck","slides":[
		{"type":"title","title":"Welcome","subtitle":"Q3"},
		{"type":"content","title":"Wins","content":["a","b"]},
		{"type":"freeform","title":"Notes","content":"free text"}
	]}`
	p, err := DecodePresentation([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Slides) != 3 {
		t.Fatalf("slides = %d", len(p.Slides))
	}
	if got := strings.Join(p.Slides[1].Bullets, ","); got != "a,b" {
		t.Errorf("bullets = %q", got)
	}
	if p.Slides[2].Text != "free text" {
		t.Errorf("text = %q", p.Slides[2].Text)
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"content":["a","b"]`) {
		t.Errorf("marshalled slides lost bullets: %s", data)
	}
}

func TestDecodePresentationFailsClosed(t *testing.T) {
	if _, err := DecodePresentation([]byte(`{"title":"Deck","slides":[]}`)); !errors.Is(err, errNoSlides) {
		t.Errorf("err = %v, want errNoSlides", err)
	}
	if _, err := DecodePresentation([]byte(`{"title":"Deck","slides":[{"title":"x","content":7}]}`)); err == nil {
		t.Error("numeric content accepted")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Beazer Homes!", "beazer-homes-"},
		{"Acme", "acme"},
		{"R&D Labs 2024", "r-d-labs-2024"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCaseStudyRefinementBody(t *testing.T) {
	req := CaseStudyRefinement(&CaseStudy{Title: "Acme"}, "more numbers")
	data, err := json.Marshal(req.Body)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["title"] != "Acme" || got["feedback"] != "more numbers" {
		t.Errorf("body = %s", data)
	}
	if req.Kind != VersionRefinement || req.Endpoint != EndpointCaseStudy {
		t.Errorf("request = %+v", req)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", &Error{Kind: KindTimeout}, "Request timed out"},
		{"network", &Error{Kind: KindNetwork}, "Unable to connect"},
		{"server message", &Error{Kind: KindServer, Message: "Missing required fields"}, "Missing required fields"},
		{"server status", &Error{Kind: KindServer, Status: 502}, "Server error: 502"},
		{"validation", &ValidationError{Field: "clientName", Message: "Client name is required"}, "Client name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); !strings.HasPrefix(got, tt.want) {
				t.Errorf("UserMessage = %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := &Error{Kind: KindFetchFailed, Op: "export image", Err: errors.New("dial tcp")}
	wrapped := errors.Join(errors.New("ctx"), err)

	if !errors.Is(wrapped, ErrFetchFailed) {
		t.Error("errors.Is(ErrFetchFailed) = false")
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("fetch error matched ErrTimeout")
	}
	if kind, ok := KindOf(wrapped); !ok || kind != KindFetchFailed {
		t.Errorf("KindOf = %v, %v", kind, ok)
	}
}
