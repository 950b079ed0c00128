package backend_test

import (
	"context"
	"errors"
	"testing"

	"mediaconv/internal/backend"
	"mediaconv/internal/logging"
)

type stubToolExecutor struct {
	output   []byte
	exitCode int
	err      error
	calls    int
	binary   string
	args     []string
}

func (s *stubToolExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, int, error) {
	s.calls++
	s.binary = binary
	s.args = append([]string(nil), args...)
	return s.output, s.exitCode, s.err
}

func foundLookPath(binary string) (string, error) { return "/usr/bin/" + binary, nil }

func TestExternalToolMissingExecutable(t *testing.T) {
	executor := &stubToolExecutor{}
	tool, err := backend.NewExternalTool("ffmpeg", logging.NewNop(),
		backend.WithExecutor(executor),
		backend.WithLookPath(func(string) (string, error) { return "", errors.New("not found") }))
	if err != nil {
		t.Fatalf("NewExternalTool returned error: %v", err)
	}

	runErr := tool.Run(context.Background(), "old.avi", "old.mp4")
	if !errors.Is(runErr, backend.ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", runErr)
	}
	if executor.calls != 0 {
		t.Fatal("nothing may be spawned when the tool is missing")
	}
}

func TestExternalToolSuccess(t *testing.T) {
	executor := &stubToolExecutor{output: []byte("frame= 100\n")}
	tool, err := backend.NewExternalTool("ffmpeg", logging.NewNop(),
		backend.WithExecutor(executor), backend.WithLookPath(foundLookPath))
	if err != nil {
		t.Fatalf("NewExternalTool returned error: %v", err)
	}

	if err := tool.Run(context.Background(), "old.avi", "old.mp4"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if executor.binary != "/usr/bin/ffmpeg" {
		t.Fatalf("unexpected binary: %q", executor.binary)
	}
	want := []string{"-i", "old.avi", "old.mp4"}
	if len(executor.args) != len(want) {
		t.Fatalf("unexpected args: %v", executor.args)
	}
	for i := range want {
		if executor.args[i] != want[i] {
			t.Fatalf("unexpected args: got %v want %v", executor.args, want)
		}
	}
}

func TestExternalToolNonzeroExit(t *testing.T) {
	executor := &stubToolExecutor{exitCode: 3, err: errors.New("exit status 3"), output: []byte("corrupt input")}
	tool, err := backend.NewExternalTool("ffmpeg", logging.NewNop(),
		backend.WithExecutor(executor), backend.WithLookPath(foundLookPath))
	if err != nil {
		t.Fatalf("NewExternalTool returned error: %v", err)
	}

	runErr := tool.Run(context.Background(), "old.avi", "old.mp4")
	if !errors.Is(runErr, backend.ErrExternalExit) {
		t.Fatalf("expected ErrExternalExit, got %v", runErr)
	}
	if code := backend.ExitCode(runErr); code != 3 {
		t.Fatalf("expected exit code 3 in error chain, got %d", code)
	}
}

func TestExternalToolSpawnError(t *testing.T) {
	executor := &stubToolExecutor{exitCode: -1, err: errors.New("permission denied")}
	tool, err := backend.NewExternalTool("ffmpeg", logging.NewNop(),
		backend.WithExecutor(executor), backend.WithLookPath(foundLookPath))
	if err != nil {
		t.Fatalf("NewExternalTool returned error: %v", err)
	}

	runErr := tool.Run(context.Background(), "old.avi", "old.mp4")
	if !errors.Is(runErr, backend.ErrSpawn) {
		t.Fatalf("expected ErrSpawn, got %v", runErr)
	}
}

func TestNewExternalToolRequiresBinary(t *testing.T) {
	if _, err := backend.NewExternalTool("  ", logging.NewNop()); err == nil {
		t.Fatal("expected error for empty binary")
	}
}
