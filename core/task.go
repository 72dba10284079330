package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"droidsmith/llm"
)

// Task is one unit of agent work. Completed and Result are set exactly once
// by the executor; a failed gateway call triggers a separate debugger
// invocation instead of a failure state on the task itself.
type Task struct {
	ID           string
	Description  string
	Mode         AgentMode
	Context      map[string]string
	Completed    bool
	Result       string
	Dependencies []string
}

// Memory is an explicit, bounded key/value store for a single run. It
// replaces ambient module-level state: create it at run start, inject it
// into the runner, discard it when the run ends.
type Memory struct {
	mu    sync.Mutex
	items map[string]string
	order []string
	max   int
}

// NewMemory creates a store retaining at most max entries (oldest evicted).
func NewMemory(max int) *Memory {
	if max <= 0 {
		max = 20
	}
	return &Memory{items: make(map[string]string), max: max}
}

// Put stores a value, evicting the oldest entry when full.
func (m *Memory) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[key]; !exists {
		m.order = append(m.order, key)
		if len(m.order) > m.max {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.items, oldest)
		}
	}
	m.items[key] = value
}

// Get returns the value for key and whether it exists.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

// Relevant returns up to limit stored entries whose values mention any word
// of the query, formatted for prompt injection.
func (m *Memory) Relevant(query string, limit int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	words := strings.Fields(strings.ToLower(query))
	var lines []string
	for _, key := range m.order {
		value := m.items[key]
		lower := strings.ToLower(value)
		for _, w := range words {
			if strings.Contains(lower, w) {
				snippet := value
				if len(snippet) > 200 {
					snippet = snippet[:200] + "..."
				}
				lines = append(lines, key+": "+snippet)
				break
			}
		}
		if len(lines) >= limit {
			break
		}
	}
	return strings.Join(lines, "\n")
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// TaskRunner decomposes a project description into tasks and executes them
// sequentially, one gateway call per task.
type TaskRunner struct {
	llm       llm.Client
	memory    *Memory
	logger    *zerolog.Logger
	completed []*Task
}

// NewTaskRunner creates a runner over the gateway with an injected memory
// store.
func NewTaskRunner(client llm.Client, memory *Memory, logger *zerolog.Logger) *TaskRunner {
	if memory == nil {
		memory = NewMemory(20)
	}
	return &TaskRunner{llm: client, memory: memory, logger: logger}
}

// Completed returns the tasks executed so far, in order.
func (r *TaskRunner) Completed() []*Task { return r.completed }

// PlanTasks asks the architect for a structure, then the planner for a task
// breakdown, and parses the reply into typed tasks.
func (r *TaskRunner) PlanTasks(ctx context.Context, description string) ([]*Task, error) {
	arch, err := r.llm.Generate(ctx, "Design architecture for: "+description,
		llm.WithSystemPrompt(llm.SystemPrompt(llm.PromptArchitecture)))
	if err != nil {
		return nil, fmt.Errorf("architecture call failed: %w", err)
	}

	planReply, err := r.llm.Generate(ctx,
		fmt.Sprintf("Create detailed task breakdown for: %s\n\nArchitecture: %s", description, arch),
		llm.WithSystemPrompt(llm.SystemPrompt(llm.PromptDefault)))
	if err != nil {
		return nil, fmt.Errorf("planning call failed: %w", err)
	}

	tasks := ParseTasks(planReply)
	if len(tasks) == 0 {
		tasks = []*Task{{
			ID:          uuid.NewString(),
			Description: "Implement: " + description,
			Mode:        ModeCoder,
			Context:     map[string]string{},
		}}
	}
	return tasks, nil
}

var taskLineRe = regexp.MustCompile(`^\s*(?:-|\d+\.)\s*(.+)$`)

// ParseTasks converts a planner reply into tasks, one per list line, with
// the mode classified from the line's content.
func ParseTasks(reply string) []*Task {
	var tasks []*Task
	for _, line := range strings.Split(reply, "\n") {
		m := taskLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		desc := strings.TrimSpace(m[1])
		if desc == "" {
			continue
		}
		tasks = append(tasks, &Task{
			ID:          uuid.NewString(),
			Description: desc,
			Mode:        ClassifyMode(desc),
			Context:     map[string]string{"priority": extractPriority(desc)},
		})
	}
	return tasks
}

func extractPriority(description string) string {
	lower := strings.ToLower(description)
	switch {
	case strings.Contains(lower, "high") || strings.Contains(lower, "critical"):
		return "high"
	case strings.Contains(lower, "low") || strings.Contains(lower, "optional"):
		return "low"
	default:
		return "medium"
	}
}

// Execute runs one task through the gateway with its mode's system prompt
// and any relevant memory. On a gateway error the task is completed with
// the result of a debugger-mode query about the failure.
func (r *TaskRunner) Execute(ctx context.Context, task *Task) (string, error) {
	if task.Completed {
		return task.Result, nil
	}

	var sb strings.Builder
	if mem := r.memory.Relevant(task.Description, 3); mem != "" {
		sb.WriteString("RELEVANT_MEMORY:\n" + mem + "\n\n")
	}
	for k, v := range task.Context {
		sb.WriteString(fmt.Sprintf("CONTEXT %s: %s\n", k, v))
	}
	sb.WriteString("TASK: " + task.Description)

	result, err := r.llm.Generate(ctx, sb.String(),
		llm.WithSystemPrompt(llm.SystemPrompt(task.Mode.promptName())))
	if err != nil {
		r.logger.Warn().Err(err).Str("task", task.ID).Msg("task failed, invoking debugger")
		debugResult, debugErr := r.llm.Generate(ctx,
			fmt.Sprintf("Fix this error in task '%s': %v", task.Description, err),
			llm.WithSystemPrompt(llm.SystemPrompt(llm.PromptDebugging)))
		if debugErr != nil {
			return "", fmt.Errorf("task %s failed and debugger call also failed: %w", task.ID, debugErr)
		}
		result = debugResult
	}

	task.Completed = true
	task.Result = result
	r.completed = append(r.completed, task)

	if task.Mode == ModeCoder {
		for i, block := range ExtractCodeBlocks(result) {
			r.memory.Put(fmt.Sprintf("code_%s_%d", task.ID, i), block)
		}
	}
	return result, nil
}

// ExtractCodeBlocks returns the contents of fenced code blocks in a reply.
func ExtractCodeBlocks(reply string) []string {
	var blocks []string
	var current []string
	inBlock := false

	for _, line := range strings.Split(reply, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inBlock {
				blocks = append(blocks, strings.Join(current, "\n"))
				current = nil
			}
			inBlock = !inBlock
			continue
		}
		if inBlock {
			current = append(current, line)
		}
	}
	return blocks
}
