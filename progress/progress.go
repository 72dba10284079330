// Package progress defines the callback protocol connecting long-running
// operations (agent runs, toolchain bootstrap, builds) to their caller.
// Callbacks are fire-and-forget: a panicking caller never aborts the
// operation that emitted the event.
package progress

// Phase tags an agent-facing progress event.
type Phase string

const (
	PhasePlanning   Phase = "planning"
	PhasePreparing  Phase = "preparing"
	PhaseGenerating Phase = "generating"
	PhaseWriting    Phase = "writing"
	PhaseDone       Phase = "done"
	PhaseError      Phase = "error"
)

// Func receives agent-facing phase/message events.
type Func func(phase Phase, message string)

// Status tags a step event from the scaffold or build pipelines.
type Status string

const (
	StatusStart Status = "start"
	StatusDone  Status = "done"
	StatusError Status = "error"
)

// StepFunc receives step-keyed events from the scaffold or build pipelines.
type StepFunc func(step, message string, status Status)

// Emit invokes cb if non-nil, swallowing any panic it raises.
func Emit(cb Func, phase Phase, message string) {
	if cb == nil {
		return
	}
	defer func() { _ = recover() }()
	cb(phase, message)
}

// EmitStep invokes cb if non-nil, swallowing any panic it raises.
func EmitStep(cb StepFunc, step, message string, status Status) {
	if cb == nil {
		return
	}
	defer func() { _ = recover() }()
	cb(step, message, status)
}
