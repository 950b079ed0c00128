package ffmpeg_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mediaconv/internal/backend"
	"mediaconv/internal/logging"
	"mediaconv/internal/media"
	"mediaconv/internal/presets"
	"mediaconv/internal/services/ffmpeg"
)

// scriptedExecutor feeds canned output lines, then optionally blocks until
// released or the context is cancelled.
type scriptedExecutor struct {
	lines   []string
	err     error
	release chan struct{}
}

func (s *scriptedExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	for _, line := range s.lines {
		onLine(line)
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.err
}

func newTestEngine(t *testing.T, executor ffmpeg.Executor) *ffmpeg.Engine {
	t.Helper()
	engine, err := ffmpeg.New("ffmpeg", logging.NewNop(), ffmpeg.WithExecutor(executor))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return engine
}

func waitDone(t *testing.T, session backend.ExportSession) {
	t.Helper()
	select {
	case <-session.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish")
	}
}

func TestSessionCompletes(t *testing.T) {
	executor := &scriptedExecutor{lines: []string{
		"  Duration: 00:01:40.00, start: 0.000000, bitrate: 1000 kb/s",
		"out_time_us=50000000",
		"progress=end",
	}}
	engine := newTestEngine(t, executor)

	session, err := engine.NewSession("in.mov", "out.mp4", media.FormatMP4, presets.Passthrough)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	waitDone(t, session)

	if got := session.Status(); got != backend.SessionCompleted {
		t.Fatalf("status = %v, want completed", got)
	}
	if got := session.Progress(); got != 1 {
		t.Fatalf("completed session must report full progress, got %v", got)
	}
	if session.Err() != nil {
		t.Fatalf("completed session must have nil error, got %v", session.Err())
	}
}

func TestSessionProgressMidRun(t *testing.T) {
	executor := &scriptedExecutor{
		lines: []string{
			"  Duration: 00:01:40.00, start: 0.000000",
			"out_time_us=50000000",
		},
		release: make(chan struct{}),
	}
	engine := newTestEngine(t, executor)

	session, err := engine.NewSession("in.mov", "out.mp4", media.FormatMP4, presets.Passthrough)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for session.Progress() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("progress never advanced")
		}
		time.Sleep(time.Millisecond)
	}
	if got := session.Progress(); got < 0.49 || got > 0.51 {
		t.Fatalf("progress = %v, want about 0.5", got)
	}

	close(executor.release)
	waitDone(t, session)
}

func TestSessionFailure(t *testing.T) {
	executor := &scriptedExecutor{
		lines: []string{"  Duration: 00:01:40.00, start: 0.000000"},
		err:   errors.New("exit status 1"),
	}
	engine := newTestEngine(t, executor)

	session, err := engine.NewSession("in.mov", "out.mp4", media.FormatMP4, presets.Passthrough)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	waitDone(t, session)

	if got := session.Status(); got != backend.SessionFailed {
		t.Fatalf("status = %v, want failed", got)
	}
	if session.Err() == nil {
		t.Fatal("failed session must expose its error")
	}
}

func TestSessionCancelMidRun(t *testing.T) {
	destination := filepath.Join(t.TempDir(), "out.mp4")
	if err := os.WriteFile(destination, []byte("partial"), 0o644); err != nil {
		t.Fatalf("seed destination: %v", err)
	}

	executor := &scriptedExecutor{
		lines:   []string{"  Duration: 00:01:40.00, start: 0.000000"},
		release: make(chan struct{}),
	}
	engine := newTestEngine(t, executor)

	session, err := engine.NewSession("in.mov", destination, media.FormatMP4, presets.Passthrough)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	session.Cancel()
	waitDone(t, session)

	if got := session.Status(); got != backend.SessionCancelled {
		t.Fatalf("status = %v, want cancelled", got)
	}
	if _, err := os.Stat(destination); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("cancelled session must remove its partial destination")
	}
}

func TestSessionCancelBeforeStart(t *testing.T) {
	engine := newTestEngine(t, &scriptedExecutor{})

	session, err := engine.NewSession("in.mov", "out.mp4", media.FormatMP4, presets.Passthrough)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	session.Cancel()

	waitDone(t, session)
	if got := session.Status(); got != backend.SessionCancelled {
		t.Fatalf("status = %v, want cancelled", got)
	}
	if err := session.Start(context.Background()); err == nil {
		t.Fatal("starting a cancelled session must fail")
	}
}

func TestSessionStartTwice(t *testing.T) {
	engine := newTestEngine(t, &scriptedExecutor{})

	session, err := engine.NewSession("in.mov", "out.mp4", media.FormatMP4, presets.Passthrough)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("first Start returned error: %v", err)
	}
	if err := session.Start(context.Background()); err == nil {
		t.Fatal("second Start must fail")
	}
	waitDone(t, session)
}

func TestSessionSupportsFormat(t *testing.T) {
	engine := newTestEngine(t, &scriptedExecutor{})

	session, err := engine.NewSession("in.wav", "out.m4a", media.FormatM4A, presets.AudioCompressed)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	if !session.SupportsFormat(media.FormatM4A) {
		t.Fatal("audio-compressed must support m4a")
	}
	if session.SupportsFormat(media.FormatMP4) {
		t.Fatal("audio-compressed must not support mp4")
	}
}
