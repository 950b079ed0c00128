package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"mediaconv/internal/backend"
	"mediaconv/internal/logging"
	"mediaconv/internal/media"
	"mediaconv/internal/presets"
)

// Executor abstracts ffmpeg execution for testability. Output lines from both
// stdout and stderr are forwarded to onLine as they arrive.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// Option configures the engine.
type Option func(*Engine)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(executor Executor) Option {
	return func(e *Engine) {
		if executor != nil {
			e.exec = executor
		}
	}
}

// Engine constructs ffmpeg export sessions.
type Engine struct {
	binary string
	exec   Executor
	logger *slog.Logger
}

// New constructs an ffmpeg engine.
func New(binary string, logger *slog.Logger, opts ...Option) (*Engine, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	engine := &Engine{
		binary: binary,
		exec:   commandExecutor{},
		logger: logging.NewComponentLogger(logger, "ffmpeg"),
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine, nil
}

// NewSession binds a source, destination, and preset into an export session.
// The argument list is assembled up front; construction fails when the preset
// has no recipe at all, while format support is reported through the session.
func (e *Engine) NewSession(source, destination string, format media.Format, preset presets.Candidate) (backend.ExportSession, error) {
	args, err := buildArgs(source, destination, format, preset)
	if err != nil {
		return nil, fmt.Errorf("build ffmpeg args: %w", err)
	}
	return &Session{
		engine:      e,
		source:      source,
		destination: destination,
		format:      format,
		preset:      preset,
		args:        args,
		done:        make(chan struct{}),
		status:      backend.SessionRunning,
	}, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if onLine != nil {
				onLine(scanner.Text())
			}
		}
	}
	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
