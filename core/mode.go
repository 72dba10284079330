package core

import (
	"strings"

	"droidsmith/llm"
)

// AgentMode selects the role-specific behavior for a task.
type AgentMode int

const (
	ModePlanner AgentMode = iota
	ModeCoder
	ModeReviewer
	ModeArchitect
	ModeDebugger
)

func (m AgentMode) String() string {
	switch m {
	case ModePlanner:
		return "planner"
	case ModeCoder:
		return "coder"
	case ModeReviewer:
		return "reviewer"
	case ModeArchitect:
		return "architect"
	case ModeDebugger:
		return "debugger"
	default:
		return "unknown"
	}
}

// promptName maps a mode to its gateway system prompt.
func (m AgentMode) promptName() string {
	switch m {
	case ModeCoder:
		return llm.PromptAndroid
	case ModeReviewer:
		return llm.PromptCodeReview
	case ModeArchitect:
		return llm.PromptArchitecture
	case ModeDebugger:
		return llm.PromptDebugging
	default:
		return llm.PromptDefault
	}
}

var modeKeywords = []struct {
	mode     AgentMode
	keywords []string
}{
	{ModeArchitect, []string{"architecture", "design", "structure"}},
	{ModeCoder, []string{"code", "implement", "write"}},
	{ModeReviewer, []string{"test", "review", "check"}},
	{ModeDebugger, []string{"debug", "fix", "error"}},
}

// ClassifyMode picks the agent mode for a task description. The substring
// heuristic is isolated here so it can be swapped for a model-based
// classifier without touching callers.
func ClassifyMode(description string) AgentMode {
	lower := strings.ToLower(description)
	for _, entry := range modeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.mode
			}
		}
	}
	return ModePlanner
}
