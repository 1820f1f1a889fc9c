package core

import (
	"fmt"
	"strings"
)

// RecruitingTool is one prompt-driven helper in the recruiting module.
type RecruitingTool struct {
	ID          string
	Name        string
	Description string
	Prompt      string // Instruction sent alongside the user's text
}

// RecruitingTools is the fixed tool catalog, in display order.
var RecruitingTools = []RecruitingTool{
	{
		ID:          "jd-enhancer",
		Name:        "JD Enhancer",
		Description: "Improve job descriptions with AI-powered suggestions",
		Prompt:      "Improve this job description to make it more compelling, inclusive, and effective for attracting top talent.",
	},
	{
		ID:          "sourcing-email",
		Name:        "Sourcing Email Generator",
		Description: "Create personalized outreach emails for candidates",
		Prompt:      "Create a personalized sourcing email to engage potential candidates for this role. Make it compelling and professional.",
	},
	{
		ID:          "boolean-search",
		Name:        "Boolean Search Generator",
		Description: "Generate Boolean search strings for sourcing",
		Prompt:      "Generate effective Boolean search strings for recruitment databases and LinkedIn based on these requirements.",
	},
	{
		ID:          "candidate-submittal",
		Name:        "Candidate Submittal",
		Description: "Write candidate summaries for hiring managers",
		Prompt:      "Create a professional candidate submittal summary highlighting why this candidate is ideal for the position.",
	},
	{
		ID:          "interview-prep",
		Name:        "Interview Prep Email",
		Description: "Prepare candidates for upcoming interviews",
		Prompt:      "Generate a comprehensive interview preparation email with details, expectations, and helpful tips for the candidate.",
	},
	{
		ID:          "mock-interview",
		Name:        "Mock Interview Questions",
		Description: "Generate role-specific interview questions",
		Prompt:      "Create relevant and insightful interview questions to effectively assess candidates for this position.",
	},
	{
		ID:          "skills-extractor",
		Name:        "Skills Extractor",
		Description: "Extract skills, titles and locations from text",
		Prompt:      "Extract and categorize key skills, job titles, and locations from the provided text.",
	},
	{
		ID:          "executive-summary",
		Name:        "Executive Summary",
		Description: "Summarize candidates for executives",
		Prompt:      "Write a concise executive summary of this candidate suitable for hiring managers and executives.",
	},
}

// LookupTool finds a recruiting tool by ID.
func LookupTool(id string) (RecruitingTool, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, t := range RecruitingTools {
		if t.ID == id {
			return t, nil
		}
	}
	return RecruitingTool{}, &ValidationError{Field: "tool", Message: fmt.Sprintf("unknown recruiting tool %q", id)}
}
