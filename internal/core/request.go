package core

import "encoding/json"

// Backend endpoints, relative to the configured API URL.
const (
	EndpointCaseStudy          = "/api/generate/case-study"
	EndpointPresentation       = "/api/presentation/generate"
	EndpointPresentationRefine = "/api/presentation/refine"
	EndpointPresentationHTML   = "/api/presentation/export/html"
	EndpointRecruiting         = "/api/recruiting/generate"
	EndpointHealth             = "/api/health"
)

// GenerationRequest is one outbound call to the generation service.
type GenerationRequest struct {
	Module   Module
	Kind     VersionKind
	Endpoint string
	Body     any
}

// CaseStudyRequest builds the initial generation request for a draft.
func CaseStudyRequest(d Draft) GenerationRequest {
	return GenerationRequest{
		Module:   ModuleCaseStudy,
		Kind:     VersionInitial,
		Endpoint: EndpointCaseStudy,
		Body:     d.RequestBody(),
	}
}

// CaseStudyRefinement posts the current case study back with feedback.
func CaseStudyRefinement(cs *CaseStudy, feedback string) GenerationRequest {
	return GenerationRequest{
		Module:   ModuleCaseStudy,
		Kind:     VersionRefinement,
		Endpoint: EndpointCaseStudy,
		Body:     caseStudyFeedback{cs, feedback},
	}
}

// caseStudyFeedback flattens the case study and its feedback into one
// object. Embedding would promote CaseStudy.MarshalJSON and lose feedback.
type caseStudyFeedback struct {
	cs       *CaseStudy
	feedback string
}

func (b caseStudyFeedback) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(b.cs)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	fb, err := json.Marshal(b.feedback)
	if err != nil {
		return nil, err
	}
	fields["feedback"] = fb
	return json.Marshal(fields)
}

// PresentationRequest builds the initial presentation request.
func PresentationRequest(d PresentationDraft) GenerationRequest {
	return GenerationRequest{
		Module:   ModulePresentation,
		Kind:     VersionInitial,
		Endpoint: EndpointPresentation,
		Body:     d,
	}
}

// SlideRefinement asks for one slide of a presentation to be rewritten.
func SlideRefinement(p *Presentation, slideIndex int, feedback string) GenerationRequest {
	return GenerationRequest{
		Module:   ModulePresentation,
		Kind:     VersionRefinement,
		Endpoint: EndpointPresentationRefine,
		Body: struct {
			Presentation *Presentation `json:"presentation"`
			SlideIndex   int           `json:"slideIndex"`
			Feedback     string        `json:"feedback"`
		}{p, slideIndex, feedback},
	}
}

// RecruitingRequest runs one recruiting tool over the given text.
func RecruitingRequest(tool RecruitingTool, input string) GenerationRequest {
	return GenerationRequest{
		Module:   ModuleRecruiting,
		Kind:     VersionInitial,
		Endpoint: EndpointRecruiting,
		Body: struct {
			Tool   string `json:"tool"`
			Input  string `json:"input"`
			Prompt string `json:"prompt"`
		}{tool.ID, input, tool.Prompt},
	}
}
