package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"mediaconv/internal/backend"
	"mediaconv/internal/logging"
	"mediaconv/internal/media"
	"mediaconv/internal/presets"
)

// Session is one ffmpeg export attempt. It starts at most once; Done is
// closed exactly once when ffmpeg exits or the session is cancelled before
// starting.
type Session struct {
	engine      *Engine
	source      string
	destination string
	format      media.Format
	preset      presets.Candidate
	args        []string

	mu        sync.Mutex
	started   bool
	cancelled bool
	cancel    context.CancelFunc
	status    backend.SessionStatus
	err       error
	duration  float64
	position  float64
	done      chan struct{}
}

// SupportsFormat reports whether this session's preset can produce the format.
func (s *Session) SupportsFormat(format media.Format) bool {
	return supportsFormat(s.preset, format)
}

// Start launches ffmpeg and returns immediately; completion is observed via
// Done and Status.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("session already started")
	}
	if s.cancelled {
		s.mu.Unlock()
		return errors.New("session cancelled before start")
	}
	s.started = true
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.engine.logger.Debug("starting export",
		logging.String("preset", string(s.preset)),
		logging.String("destination", s.destination),
		logging.String("args", strings.Join(s.args, " ")),
	)

	go s.run(runCtx)
	return nil
}

func (s *Session) run(ctx context.Context) {
	err := s.engine.exec.Run(ctx, s.engine.binary, s.args, s.observeLine)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.cancelled || (err != nil && ctx.Err() != nil):
		s.status = backend.SessionCancelled
		// A half-written destination is useless after cancellation.
		_ = os.Remove(s.destination)
	case err != nil:
		s.status = backend.SessionFailed
		s.err = fmt.Errorf("ffmpeg export: %w", err)
	default:
		s.status = backend.SessionCompleted
		s.position = s.duration
	}
	close(s.done)
}

func (s *Session) observeLine(line string) {
	if seconds, ok := parseDurationLine(line); ok {
		s.mu.Lock()
		if s.duration == 0 {
			s.duration = seconds
		}
		s.mu.Unlock()
		return
	}
	if seconds, ok := parseOutTime(line); ok {
		s.mu.Lock()
		if seconds > s.position {
			s.position = seconds
		}
		s.mu.Unlock()
	}
}

// Progress returns the fraction of the source processed so far. Before the
// duration header has been seen it reports zero; it never reaches 1.0 until
// the session completes.
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.duration <= 0 {
		return 0
	}
	fraction := s.position / s.duration
	if s.status != backend.SessionCompleted && fraction > 0.99 {
		fraction = 0.99
	}
	if fraction > 1 {
		fraction = 1
	}
	return fraction
}

// Done is closed when the session reaches a terminal status.
func (s *Session) Done() <-chan struct{} { return s.done }

// Status reports the current lifecycle state.
func (s *Session) Status() backend.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the failure cause after a failed session, nil otherwise.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Cancel interrupts the running export. Cancelling a session that never
// started settles it as cancelled immediately.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.cancelled || s.status != backend.SessionRunning {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	cancel := s.cancel
	if !s.started {
		s.status = backend.SessionCancelled
		close(s.done)
	}
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
