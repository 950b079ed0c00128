package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"mediaconv/internal/logging"
)

// Executor abstracts external tool execution for testability. Run returns the
// tool's combined output and exit code; exitCode is -1 when the process never
// started.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (output []byte, exitCode int, err error)
}

// ExternalToolOption configures the external tool backend.
type ExternalToolOption func(*ExternalTool)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(executor Executor) ExternalToolOption {
	return func(t *ExternalTool) {
		if executor != nil {
			t.exec = executor
		}
	}
}

// WithLookPath overrides executable resolution (primarily for tests).
func WithLookPath(lookPath func(string) (string, error)) ExternalToolOption {
	return func(t *ExternalTool) {
		if lookPath != nil {
			t.lookPath = lookPath
		}
	}
}

// ExternalTool converts legacy sources by spawning a command-line transcoder
// and blocking until it exits. Combined output is captured for diagnostics
// but never parsed; there is no incremental progress and no cancellation
// once the process is spawned.
type ExternalTool struct {
	binary   string
	exec     Executor
	lookPath func(string) (string, error)
	logger   *slog.Logger
}

// NewExternalTool constructs the external tool backend.
func NewExternalTool(binary string, logger *slog.Logger, opts ...ExternalToolOption) (*ExternalTool, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("external tool binary required")
	}
	tool := &ExternalTool{
		binary:   binary,
		exec:     commandExecutor{},
		lookPath: exec.LookPath,
		logger:   logging.NewComponentLogger(logger, "external-tool"),
	}
	for _, opt := range opts {
		opt(tool)
	}
	return tool, nil
}

// Run converts source into destination. Exit code 0 maps to success, nonzero
// to ErrExternalExit carrying the code, and a start failure to ErrSpawn. When
// the executable cannot be located nothing is spawned and ErrToolMissing is
// returned.
func (t *ExternalTool) Run(ctx context.Context, source, destination string) error {
	resolved, err := t.lookPath(t.binary)
	if err != nil {
		return fmt.Errorf("%w: %s not found in PATH", ErrToolMissing, t.binary)
	}

	args := []string{"-i", source, destination}
	t.logger.Info("launching external transcoder",
		logging.String("binary", resolved),
		logging.String("input", source),
		logging.String("output", destination),
	)

	output, exitCode, err := t.exec.Run(ctx, resolved, args)
	if err != nil {
		if exitCode >= 0 {
			t.logger.Error("external transcoder failed",
				logging.Int("exit_code", exitCode),
				logging.String("output", tailLines(output, 10)),
			)
			return fmt.Errorf("%w: %w", ErrExternalExit, &ExitCodeError{Code: exitCode})
		}
		return fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	t.logger.Info("external transcoder finished", logging.String("output", destination))
	return nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return output, exitErr.ExitCode(), err
		}
		return output, -1, err
	}
	return output, 0, nil
}

func tailLines(output []byte, n int) string {
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return ""
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
