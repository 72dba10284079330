// Package core turns one free-text app request into a bounded sequence of
// planning and generation calls against the language model gateway, writing
// the results safely to disk while streaming progress to the caller.
package core

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"droidsmith/fs"
	"droidsmith/llm"
	"droidsmith/progress"
)

// GeneratedFile records one successfully materialized file. It is written
// once and never mutated afterward.
type GeneratedFile struct {
	Path    string `json:"path"`
	AbsPath string `json:"abs_path"`
	Content string `json:"-"`
}

// RunResult is the aggregate outcome of one agent run. Success is true iff
// Errors is empty.
type RunResult struct {
	Success   bool            `json:"success"`
	OutputDir string          `json:"output_dir"`
	Written   []GeneratedFile `json:"written"`
	Errors    []string        `json:"errors"`
	Plan      *Plan           `json:"plan"`
	Summary   string          `json:"summary"`
}

// Agent executes the plan → generate → materialize pipeline for one request
// at a time. It holds no cross-run state.
type Agent struct {
	llm    llm.Client
	files  *fs.Manager
	logger *zerolog.Logger
}

// NewAgent creates an agent over the given gateway and materializer.
func NewAgent(client llm.Client, files *fs.Manager, logger *zerolog.Logger) *Agent {
	return &Agent{llm: client, files: files, logger: logger}
}

// Run executes the pipeline for one request. Phases emitted, in order:
// planning, preparing, then generating/writing per file, then done (or
// error). Per-file failures are recorded and do not abort the remaining
// files; only an unusable output directory or cancellation is fatal.
func (a *Agent) Run(ctx context.Context, request, outputDir string, cb progress.Func) (*RunResult, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if err := a.files.EnsureDir(outputDir); err != nil {
		return nil, fmt.Errorf("output directory is not usable: %w", err)
	}

	result := &RunResult{OutputDir: outputDir}

	progress.Emit(cb, progress.PhasePlanning, "Thinking about the best simple plan...")
	plan := a.plan(ctx, request)
	result.Plan = plan
	result.Summary = plan.Summary
	progress.Emit(cb, progress.PhasePlanning, "Plan ready. I will create the files now.")

	files := plan.Files
	if len(files) == 0 {
		files = FallbackPlan(request).Files
	}

	progress.Emit(cb, progress.PhasePreparing, "Creating folders for your project...")
	for _, spec := range files {
		safe := fs.Sanitize(spec.Path)
		if safe == "" {
			continue
		}
		if dir := filepath.Dir(filepath.Join(outputDir, safe)); dir != "" {
			if err := a.files.EnsureDir(dir); err != nil {
				a.logger.Warn().Err(err).Str("path", spec.Path).Msg("failed to pre-create directory")
			}
		}
	}

	for _, spec := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if fs.Sanitize(spec.Path) == "" {
			continue
		}

		progress.Emit(cb, progress.PhaseGenerating, "Creating: "+spec.Path)
		content, err := a.generateFile(ctx, request, spec)
		if err == nil {
			progress.Emit(cb, progress.PhaseWriting, "Saving: "+spec.Path)
			var absPath string
			absPath, err = a.files.Write(outputDir, spec.Path, content)
			if err == nil {
				result.Written = append(result.Written, GeneratedFile{Path: spec.Path, AbsPath: absPath, Content: content})
				continue
			}
		}

		msg := fmt.Sprintf("Failed to create %s: %v", spec.Path, err)
		a.logger.Error().Err(err).Str("path", spec.Path).Msg("file generation failed")
		result.Errors = append(result.Errors, msg)
		progress.Emit(cb, progress.PhaseError, msg)
	}

	result.Success = len(result.Errors) == 0
	progress.Emit(cb, progress.PhaseDone, "All set! Your files are ready.")
	return result, nil
}

// plan issues one gateway call for the run's plan. Failures of any kind
// degrade to the deterministic fallback plan; planning never aborts a run.
func (a *Agent) plan(ctx context.Context, request string) *Plan {
	prompt := planningPrompt(request)
	reply, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		a.logger.Warn().Err(err).Msg("planning call failed, using fallback plan")
		return FallbackPlan(request)
	}

	plan, err := ParsePlan(reply)
	if err != nil {
		a.logger.Warn().Err(err).Msg("plan reply not parsable, using fallback plan")
		return FallbackPlan(request)
	}
	return plan
}

// generateFile issues one independent gateway call for a single planned
// file. No cross-file context is shared beyond the original request.
func (a *Agent) generateFile(ctx context.Context, request string, spec FileSpec) (string, error) {
	prompt := generationPrompt(request, spec)
	return a.llm.Generate(ctx, prompt)
}

func planningPrompt(request string) string {
	return fmt.Sprintf(`You are a very friendly app-building assistant for non-programmers.
Task: Create a simple plan for generating an app or code project from this request.
Keep it short and concrete.

REQUEST:
%s

Respond in JSON with keys: steps (list of strings), files (array of objects {path, purpose}), and summary (string).`, request)
}

func generationPrompt(request string, spec FileSpec) string {
	return fmt.Sprintf(`Generate COMPLETE, ready-to-use content for the following file.
Be friendly for non-programmers: include a few comments or headings, but keep it simple.
Return only the file content without extra explanations.

FILE_PATH: %s
FILE_PURPOSE: %s
LANGUAGE_HINT: %s

USER_REQUEST:
%s`, spec.Path, spec.Purpose, LanguageHint(spec.Path), request)
}

// RunOutcome carries an async run's result over a channel.
type RunOutcome struct {
	Result *RunResult
	Err    error
}

// RunAsync runs Run on its own goroutine so callers driving an event loop
// never block. The returned channel receives exactly one outcome.
func (a *Agent) RunAsync(ctx context.Context, request, outputDir string, cb progress.Func) <-chan RunOutcome {
	out := make(chan RunOutcome, 1)
	go func() {
		res, err := a.Run(ctx, request, outputDir, cb)
		if err != nil {
			progress.Emit(cb, progress.PhaseError, err.Error())
		}
		out <- RunOutcome{Result: res, Err: err}
		close(out)
	}()
	return out
}
