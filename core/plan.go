package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FileSpec is a planned file: its relative path and free-text purpose.
type FileSpec struct {
	Path    string `json:"path"`
	Purpose string `json:"purpose"`
}

// Plan is the structured output of the planning step. It is produced once
// per run and never mutated afterward.
type Plan struct {
	Steps   []string   `json:"steps"`
	Files   []FileSpec `json:"files"`
	Summary string     `json:"summary"`
}

// ParsePlan extracts a Plan from raw model output. Models wrap JSON in
// prose, so the substring between the first '{' and the last '}' is tried
// first, then the whole text.
func ParsePlan(raw string) (*Plan, error) {
	text := strings.TrimSpace(raw)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		var plan Plan
		if err := json.Unmarshal([]byte(text[start:end+1]), &plan); err == nil {
			return &plan, nil
		}
	}

	var plan Plan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return nil, fmt.Errorf("no parsable plan in model output: %w", err)
	}
	return &plan, nil
}

// FallbackPlan is the deterministic plan used when the model's reply can't
// be parsed or the planning call fails outright.
func FallbackPlan(request string) *Plan {
	summary := strings.TrimSpace(request)
	if summary == "" {
		summary = "Simple Android application"
	}
	return &Plan{
		Steps: []string{
			"Understand the request",
			"Create initial project structure",
			"Add main code files",
			"Add a short README",
		},
		Files: []FileSpec{
			{Path: "README.md", Purpose: "Project overview and how to run"},
		},
		Summary: summary,
	}
}

// LanguageHint derives a generation hint from a file extension.
func LanguageHint(path string) string {
	lower := strings.ToLower(path)
	idx := strings.LastIndex(lower, ".")
	if idx == -1 {
		return "text"
	}
	switch lower[idx:] {
	case ".md":
		return "markdown"
	case ".kt", ".kts":
		return "kotlin"
	case ".java":
		return "java"
	case ".xml":
		return "xml"
	case ".json":
		return "json"
	case ".gradle":
		return "groovy"
	case ".properties":
		return "properties"
	case ".py":
		return "python"
	case ".txt":
		return "text"
	default:
		return "text"
	}
}
