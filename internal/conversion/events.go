package conversion

import (
	"mediaconv/internal/media"
	"mediaconv/internal/presets"
)

// Request is the immutable description of one conversion.
type Request struct {
	SourcePath          string
	DeclaredContentType string
	Target              media.Format
	// Compress requests a lossy re-encode; Quality only matters when set.
	Compress bool
	Quality  presets.Quality
}

// Phase is the orchestrator's position in the session lifecycle.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseClassifying     Phase = "classifying"
	PhaseBackendSelected Phase = "backend-selected"
	PhaseInProgress      Phase = "in-progress"
	PhaseSucceeded       Phase = "succeeded"
	PhaseFailed          Phase = "failed"
	PhaseCancelled       Phase = "cancelled"
)

// Terminal reports whether a phase ends the session.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseSucceeded, PhaseFailed, PhaseCancelled:
		return true
	default:
		return false
	}
}

// EventType discriminates session events.
type EventType string

const (
	EventProgress  EventType = "progress"
	EventSucceeded EventType = "succeeded"
	EventFailed    EventType = "failed"
	EventCancelled EventType = "cancelled"
)

// Event is one observation of a running session. Progress events carry a
// fraction in [0,1]; succeeded events carry the destination path; failed
// events carry the terminal error.
type Event struct {
	Type        EventType
	Fraction    float64
	Destination string
	Err         error
}

// Terminal reports whether an event ends the stream.
func (e Event) Terminal() bool {
	return e.Type != EventProgress
}

// Session is the caller's handle on one submitted conversion. Events yields
// zero or more progress events followed by exactly one terminal event and is
// then closed.
type Session struct {
	ID     string
	Events <-chan Event

	done chan struct{}
}

// Done is closed once the session's bookkeeping has settled: the history row
// is written and the completion side effects have run. The terminal event on
// Events only seals the outcome; one-shot processes must wait on Done before
// exiting or the bookkeeping races process teardown.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
