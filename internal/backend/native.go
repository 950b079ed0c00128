package backend

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mediaconv/internal/logging"
	"mediaconv/internal/media"
	"mediaconv/internal/presets"
)

// SessionStatus is the lifecycle state of an export session.
type SessionStatus string

const (
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
	SessionCancelled SessionStatus = "cancelled"
)

// ExportSession is one bound export attempt: a source, a destination, and a
// preset. Progress must be monotonically non-decreasing in [0,1] while the
// session runs. Done is closed exactly once when the session reaches a
// terminal status.
type ExportSession interface {
	SupportsFormat(format media.Format) bool
	Start(ctx context.Context) error
	Progress() float64
	Done() <-chan struct{}
	Status() SessionStatus
	Err() error
	Cancel()
}

// ExportEngine constructs export sessions. The production implementation
// lives in internal/services/ffmpeg; tests inject fakes.
type ExportEngine interface {
	NewSession(source, destination string, format media.Format, preset presets.Candidate) (ExportSession, error)
}

// Native drives the export engine for formats the engine can read.
type Native struct {
	engine   ExportEngine
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	session ExportSession
}

// NativeOption configures the native backend.
type NativeOption func(*Native)

// WithSampleInterval overrides the progress sampling interval (default 100ms).
func WithSampleInterval(interval time.Duration) NativeOption {
	return func(n *Native) {
		if interval > 0 {
			n.interval = interval
		}
	}
}

// NewNative constructs a native backend over an export engine.
func NewNative(engine ExportEngine, logger *slog.Logger, opts ...NativeOption) *Native {
	n := &Native{
		engine:   engine,
		interval: 100 * time.Millisecond,
		logger:   logging.NewComponentLogger(logger, "native-backend"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Run walks the preset candidates in order, accepts the first session that
// supports the target format, and drives it to completion. onProgress
// receives monotonically non-decreasing fractions sampled on a fixed
// interval; the final 1.0 is emitted only on success. Returns nil on success,
// ErrCancelled when the session was cancelled, and a classified error
// otherwise. When no candidate is accepted nothing is started and no
// progress is emitted.
func (n *Native) Run(ctx context.Context, source, destination string, format media.Format, candidates []presets.Candidate, onProgress func(float64)) error {
	if onProgress == nil {
		onProgress = func(float64) {}
	}

	var (
		session  ExportSession
		accepted presets.Candidate
	)
	for _, candidate := range candidates {
		s, err := n.engine.NewSession(source, destination, format, candidate)
		if err != nil {
			n.logger.Debug("preset rejected at session construction",
				logging.String("preset", string(candidate)),
				logging.Error(err),
			)
			continue
		}
		if !s.SupportsFormat(format) {
			n.logger.Debug("preset does not support target format",
				logging.String("preset", string(candidate)),
				logging.String("format", string(format)),
			)
			continue
		}
		session = s
		accepted = candidate
		break
	}
	if session == nil {
		return fmt.Errorf("%w: target %s, candidates %v", ErrNoCompatiblePreset, format, candidates)
	}

	n.logger.Info("preset accepted",
		logging.String("preset", string(accepted)),
		logging.String("format", string(format)),
		logging.String("destination", destination),
	)

	n.setSession(session)
	defer n.setSession(nil)

	if err := session.Start(ctx); err != nil {
		return fmt.Errorf("%w: start export: %w", ErrExportFailed, err)
	}

	// The sampling timer is owned by this run and stopped on every exit path
	// so no periodic callback can outlive the session.
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	sampler := logging.NewProgressSampler(0.05)
	last := 0.0
	for {
		select {
		case <-session.Done():
			switch session.Status() {
			case SessionCompleted:
				onProgress(1)
				return nil
			case SessionFailed:
				return fmt.Errorf("%w: %w", ErrExportFailed, session.Err())
			case SessionCancelled:
				return ErrCancelled
			default:
				return fmt.Errorf("%w: session finished in status %q", ErrInternal, session.Status())
			}
		case <-ticker.C:
			fraction := session.Progress()
			if fraction < last {
				fraction = last
			}
			if fraction > 1 {
				fraction = 1
			}
			last = fraction
			if sampler.ShouldLog(fraction) {
				n.logger.Debug("export progress", logging.Float64("fraction", fraction))
			}
			onProgress(fraction)
		}
	}
}

// Cancel requests cancellation of the in-flight session, if any. The run
// returns ErrCancelled once the session honours it.
func (n *Native) Cancel() {
	n.mu.Lock()
	session := n.session
	n.mu.Unlock()
	if session != nil {
		session.Cancel()
	}
}

func (n *Native) setSession(session ExportSession) {
	n.mu.Lock()
	n.session = session
	n.mu.Unlock()
}
