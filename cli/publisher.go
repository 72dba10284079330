package cli

import (
	"github.com/rs/zerolog"

	"droidsmith/progress"
)

// event is one progress update delivered to the TUI event loop.
type event struct {
	phase   progress.Phase
	message string
}

// eventPublisher bridges agent progress callbacks to the bubbletea event
// loop. Sends never block: a full channel drops the event with a warning,
// the agent keeps running.
type eventPublisher struct {
	events chan event
	logger *zerolog.Logger
}

func newEventPublisher(logger *zerolog.Logger) *eventPublisher {
	return &eventPublisher{
		events: make(chan event, 100),
		logger: logger,
	}
}

// callback returns the progress.Func the agent is run with.
func (p *eventPublisher) callback() progress.Func {
	return func(phase progress.Phase, message string) {
		select {
		case p.events <- event{phase: phase, message: message}:
		default:
			p.logger.Warn().Str("phase", string(phase)).Msg("event channel full, dropping progress event")
		}
	}
}
