package conversion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"mediaconv/internal/backend"
	"mediaconv/internal/fileutil"
	"mediaconv/internal/history"
	"mediaconv/internal/logging"
	"mediaconv/internal/media"
	"mediaconv/internal/notifications"
	"mediaconv/internal/presets"
)

// NativeRunner drives the in-process export engine.
type NativeRunner interface {
	Run(ctx context.Context, source, destination string, format media.Format, candidates []presets.Candidate, onProgress func(float64)) error
	Cancel()
}

// ExternalRunner drives the external command-line transcoder.
type ExternalRunner interface {
	Run(ctx context.Context, source, destination string) error
}

// Recorder persists terminal sessions. Failures are logged, never surfaced.
type Recorder interface {
	Add(ctx context.Context, record *history.Record) error
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithNotifications wires the completion side-effect service.
func WithNotifications(svc notifications.Service) Option {
	return func(o *Orchestrator) {
		if svc != nil {
			o.notify = svc
		}
	}
}

// WithHistory wires best-effort session persistence.
func WithHistory(recorder Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = recorder
	}
}

// Orchestrator runs one conversion session at a time.
type Orchestrator struct {
	native   NativeRunner
	external ExternalRunner
	notify   notifications.Service
	recorder Recorder
	logger   *slog.Logger

	mu     sync.Mutex
	phase  Phase
	active *Session
}

// New constructs an orchestrator over the two backends.
func New(native NativeRunner, external ExternalRunner, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		native:   native,
		external: external,
		notify:   notifications.NewNop(),
		logger:   logging.NewComponentLogger(logger, "orchestrator"),
		phase:    PhaseIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Phase reports the orchestrator's current lifecycle position.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Targets classifies a source and returns its legal output formats. Unknown
// sources have none.
func (o *Orchestrator) Targets(sourcePath, declaredContentType string) (media.Kind, []media.Format) {
	kind := media.Classify(sourcePath, declaredContentType)
	return kind, media.LegalTargets(kind)
}

// Submit starts a conversion and returns the session handle immediately.
// Validation happens inside the session: illegal requests surface as a failed
// terminal event, not a submit error. The only submit-level rejection is
// ErrBusy while another session is active.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (*Session, error) {
	o.mu.Lock()
	if o.phase != PhaseIdle {
		o.mu.Unlock()
		return nil, fmt.Errorf("%w: session %s is %s", ErrBusy, o.activeID(), o.phase)
	}
	events := make(chan Event, 16)
	session := &Session{ID: uuid.NewString(), Events: events, done: make(chan struct{})}
	o.active = session
	o.phase = PhaseClassifying
	o.mu.Unlock()

	go o.run(ctx, req, session, events)
	return session, nil
}

// Cancel requests cancellation of the active session. Only native-backed
// sessions honour it; cancelling an external-tool session is a documented
// no-op, as is cancelling when nothing runs.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	phase := o.phase
	o.mu.Unlock()
	if phase == PhaseInProgress {
		o.native.Cancel()
	}
}

func (o *Orchestrator) run(ctx context.Context, req Request, session *Session, events chan<- Event) {
	startedAt := time.Now().UTC()
	logger := o.logger.With(logging.String("session_id", session.ID))

	kind, choice, destination, err := o.prepare(req, logger)
	if err != nil {
		o.finish(session, events, outcome{
			req: req, kind: kind, choice: choice,
			startedAt: startedAt, err: err,
		}, logger)
		return
	}

	o.setPhase(PhaseInProgress)

	switch choice {
	case backend.KindNative:
		// Progress events come from the sampling loop; a rejected preset
		// search fails without ever touching progress.
		candidates := presets.Candidates(kind, req.Target, req.Compress, req.Quality)
		err = o.native.Run(ctx, req.SourcePath, destination, req.Target, candidates, func(fraction float64) {
			events <- Event{Type: EventProgress, Fraction: fraction}
		})
	case backend.KindExternalTool:
		// The external path has no incremental progress: a successful run is
		// observed as 0.0 then 1.0, a failed one emits nothing.
		err = o.external.Run(ctx, req.SourcePath, destination)
		if err == nil {
			events <- Event{Type: EventProgress, Fraction: 0}
			events <- Event{Type: EventProgress, Fraction: 1}
		}
	}

	o.finish(session, events, outcome{
		req: req, kind: kind, choice: choice, destination: destination,
		startedAt: startedAt, err: err,
	}, logger)
}

// prepare covers the classifying and backend-selected phases: source and
// target validation, backend choice, and destination resolution. Nothing is
// written to the filesystem.
func (o *Orchestrator) prepare(req Request, logger *slog.Logger) (media.Kind, backend.Kind, string, error) {
	if _, err := os.Stat(req.SourcePath); err != nil {
		return media.KindUnknown, "", "", fmt.Errorf("%w: source %q: %v", ErrInvalidRequest, req.SourcePath, err)
	}

	kind := media.Classify(req.SourcePath, req.DeclaredContentType)
	if kind == media.KindUnknown {
		return kind, "", "", fmt.Errorf("%w: unrecognized media %q", ErrInvalidRequest, req.SourcePath)
	}
	if !media.TargetAllowed(kind, req.Target) {
		return kind, "", "", fmt.Errorf("%w: %s source cannot target %s", ErrInvalidRequest, kind, req.Target)
	}

	o.setPhase(PhaseBackendSelected)
	choice := backend.Choose(req.SourcePath)
	destination := fileutil.ResolveDestination(req.SourcePath, req.Target.Extension())
	logger.Info("backend selected",
		logging.String("backend", string(choice)),
		logging.String("kind", string(kind)),
		logging.String("destination", destination),
	)
	return kind, choice, destination, nil
}

type outcome struct {
	req         Request
	kind        media.Kind
	choice      backend.Kind
	destination string
	startedAt   time.Time
	err         error
}

func (o *Orchestrator) finish(session *Session, events chan<- Event, result outcome, logger *slog.Logger) {
	var (
		phase Phase
		event Event
	)
	switch {
	case result.err == nil:
		phase = PhaseSucceeded
		event = Event{Type: EventSucceeded, Destination: result.destination}
	case errors.Is(result.err, backend.ErrCancelled):
		phase = PhaseCancelled
		event = Event{Type: EventCancelled}
	default:
		phase = PhaseFailed
		event = Event{Type: EventFailed, Err: result.err}
	}

	o.setPhase(phase)
	events <- event
	close(events)

	// Side effects fire after the terminal event and cannot alter the
	// outcome; session.done still waits for them so a one-shot process does
	// not exit while they are in flight.
	var effects sync.WaitGroup
	switch phase {
	case PhaseSucceeded:
		logger.Info("conversion succeeded", logging.String("destination", result.destination))
		effects.Add(1)
		go func() {
			defer effects.Done()
			o.completionEffects(result.destination)
		}()
	case PhaseCancelled:
		logger.Info("conversion cancelled")
	default:
		logger.Error("conversion failed", logging.Error(result.err))
		effects.Add(1)
		go func() {
			defer effects.Done()
			o.failureEffects(result.req.SourcePath, result.err)
		}()
	}

	// History writes outlive the submit context; a cancelled session still
	// gets its row.
	recordCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	o.record(recordCtx, session.ID, result, phase, logger)

	o.mu.Lock()
	o.active = nil
	o.phase = PhaseIdle
	o.mu.Unlock()

	effects.Wait()
	close(session.done)
}

// completionEffects fires the success side channel: reveal the file, play the
// completion sound, post a notification. Each is best-effort and must never
// alter the session outcome, so errors are only logged inside the service.
func (o *Orchestrator) completionEffects(destination string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = o.notify.RevealDestination(ctx, destination)
	_ = o.notify.PlayCompletionSound(ctx)
	_ = o.notify.NotifyConversionComplete(ctx, destination)
}

// failureEffects posts the failure notification. Best-effort like the success
// channel; the session outcome is already sealed.
func (o *Orchestrator) failureEffects(source string, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = o.notify.NotifyConversionFailed(ctx, source, cause)
}

func (o *Orchestrator) record(ctx context.Context, id string, result outcome, phase Phase, logger *slog.Logger) {
	if o.recorder == nil {
		return
	}
	record := &history.Record{
		ID:          id,
		SourcePath:  result.req.SourcePath,
		Destination: result.destination,
		Kind:        string(result.kind),
		Target:      string(result.req.Target),
		Backend:     string(result.choice),
		StartedAt:   result.startedAt,
		FinishedAt:  time.Now().UTC(),
	}
	switch phase {
	case PhaseSucceeded:
		record.Outcome = history.OutcomeSucceeded
	case PhaseCancelled:
		record.Outcome = history.OutcomeCancelled
	default:
		record.Outcome = history.OutcomeFailed
		record.ErrorMessage = result.err.Error()
	}
	if err := o.recorder.Add(ctx, record); err != nil {
		logger.Warn("record conversion history", logging.Error(err))
	}
}

func (o *Orchestrator) setPhase(phase Phase) {
	o.mu.Lock()
	o.phase = phase
	o.mu.Unlock()
}

func (o *Orchestrator) activeID() string {
	if o.active == nil {
		return "none"
	}
	return o.active.ID
}
