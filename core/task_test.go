package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"droidsmith/logger"
)

func TestMemoryEvictsOldest(t *testing.T) {
	mem := NewMemory(2)
	mem.Put("a", "first")
	mem.Put("b", "second")
	mem.Put("c", "third")

	assert.Equal(t, 2, mem.Len())
	_, ok := mem.Get("a")
	assert.False(t, ok)
	v, ok := mem.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "third", v)
}

func TestMemoryRelevant(t *testing.T) {
	mem := NewMemory(10)
	mem.Put("code_1", "fun main() { login() }")
	mem.Put("code_2", "database schema for items")
	mem.Put("note", "unrelated content")

	out := mem.Relevant("implement the login screen", 3)
	assert.Contains(t, out, "code_1")
	assert.NotContains(t, out, "code_2")
}

func TestParseTasks(t *testing.T) {
	reply := `Here is the breakdown:
1. Design the overall architecture (high priority)
2. Implement the main activity code
- Review the tests
not a list line
3. Fix the startup error (optional)`

	tasks := ParseTasks(reply)
	require.Len(t, tasks, 4)
	assert.Equal(t, ModeArchitect, tasks[0].Mode)
	assert.Equal(t, "high", tasks[0].Context["priority"])
	assert.Equal(t, ModeCoder, tasks[1].Mode)
	assert.Equal(t, "medium", tasks[1].Context["priority"])
	assert.Equal(t, ModeReviewer, tasks[2].Mode)
	assert.Equal(t, ModeDebugger, tasks[3].Mode)
	assert.Equal(t, "low", tasks[3].Context["priority"])

	for _, task := range tasks {
		assert.NotEmpty(t, task.ID)
		assert.False(t, task.Completed)
	}
}

func TestPlanTasksFallsBackToSingleTask(t *testing.T) {
	client := new(MockClient)
	client.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, "Design architecture")
	})).Return("layered architecture", nil)
	client.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, "Create detailed task breakdown")
	})).Return("no list items here", nil)

	runner := NewTaskRunner(client, nil, logger.Nop())
	tasks, err := runner.PlanTasks(context.Background(), "a todo app")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, ModeCoder, tasks[0].Mode)
	assert.Contains(t, tasks[0].Description, "a todo app")
}

func TestExecuteStoresCoderOutput(t *testing.T) {
	client := new(MockClient)
	client.On("Generate", mock.Anything, mock.Anything).
		Return("Here you go:\n```\nfun main() {}\n```", nil)

	mem := NewMemory(10)
	runner := NewTaskRunner(client, mem, logger.Nop())
	task := &Task{ID: "t1", Description: "Implement main", Mode: ModeCoder, Context: map[string]string{}}

	result, err := runner.Execute(context.Background(), task)
	require.NoError(t, err)
	assert.True(t, task.Completed)
	assert.Equal(t, result, task.Result)

	stored, ok := mem.Get("code_t1_0")
	require.True(t, ok)
	assert.Equal(t, "fun main() {}", stored)
	require.Len(t, runner.Completed(), 1)
}

func TestExecuteIsIdempotent(t *testing.T) {
	client := new(MockClient)
	client.On("Generate", mock.Anything, mock.Anything).Return("done", nil).Once()

	runner := NewTaskRunner(client, nil, logger.Nop())
	task := &Task{ID: "t1", Description: "Plan things", Mode: ModePlanner, Context: map[string]string{}}

	first, err := runner.Execute(context.Background(), task)
	require.NoError(t, err)
	second, err := runner.Execute(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	client.AssertExpectations(t)
}

func TestExecuteDebuggerFallback(t *testing.T) {
	client := new(MockClient)
	client.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "TASK: Implement login")
	})).Return("", errors.New("model overloaded"))
	client.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, "Fix this error")
	})).Return("try again with a smaller prompt", nil)

	runner := NewTaskRunner(client, nil, logger.Nop())
	task := &Task{ID: "t1", Description: "Implement login", Mode: ModeCoder, Context: map[string]string{}}

	result, err := runner.Execute(context.Background(), task)
	require.NoError(t, err)
	assert.True(t, task.Completed)
	assert.Equal(t, "try again with a smaller prompt", result)
}

func TestExecuteDebuggerAlsoFails(t *testing.T) {
	client := new(MockClient)
	client.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("gateway down"))

	runner := NewTaskRunner(client, nil, logger.Nop())
	task := &Task{ID: "t1", Description: "Implement login", Mode: ModeCoder, Context: map[string]string{}}

	_, err := runner.Execute(context.Background(), task)
	require.Error(t, err)
	assert.False(t, task.Completed)
}

func TestExtractCodeBlocks(t *testing.T) {
	reply := "intro\n```kotlin\nval x = 1\nval y = 2\n```\nmiddle\n```\nplain\n```\ntrailer"
	blocks := ExtractCodeBlocks(reply)
	require.Len(t, blocks, 2)
	assert.Equal(t, "val x = 1\nval y = 2", blocks[0])
	assert.Equal(t, "plain", blocks[1])
}
