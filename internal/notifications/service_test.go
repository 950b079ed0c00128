package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"mediaconv/internal/config"
	"mediaconv/internal/logging"
	"mediaconv/internal/notifications"
)

type recordedCommand struct {
	name string
	args []string
}

type recordingRunner struct {
	mu       sync.Mutex
	commands []recordedCommand
	err      error
}

func (r *recordingRunner) run(ctx context.Context, name string, args []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, recordedCommand{name: name, args: append([]string(nil), args...)})
	return r.err
}

func TestRevealDestinationRunsConfiguredCommand(t *testing.T) {
	runner := &recordingRunner{}
	svc := notifications.NewService(config.Notifications{
		Reveal:        true,
		RevealCommand: "xdg-open",
	}, logging.NewNop(), notifications.WithRunner(runner.run))

	if err := svc.RevealDestination(context.Background(), "/media/out/clip.mp4"); err != nil {
		t.Fatalf("RevealDestination returned error: %v", err)
	}
	if len(runner.commands) != 1 {
		t.Fatalf("expected one command, got %d", len(runner.commands))
	}
	cmd := runner.commands[0]
	if cmd.name != "xdg-open" || len(cmd.args) != 1 || cmd.args[0] != filepath.Dir("/media/out/clip.mp4") {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestRevealDisabledIsNoop(t *testing.T) {
	runner := &recordingRunner{}
	svc := notifications.NewService(config.Notifications{
		Reveal:        false,
		RevealCommand: "xdg-open",
	}, logging.NewNop(), notifications.WithRunner(runner.run))

	if err := svc.RevealDestination(context.Background(), "/media/out/clip.mp4"); err != nil {
		t.Fatalf("RevealDestination returned error: %v", err)
	}
	if len(runner.commands) != 0 {
		t.Fatalf("disabled channel must not run commands, got %+v", runner.commands)
	}
}

func TestCompletionSoundCommandSplitsArgs(t *testing.T) {
	runner := &recordingRunner{}
	svc := notifications.NewService(config.Notifications{
		Sound:        true,
		SoundCommand: "paplay /usr/share/sounds/complete.oga",
	}, logging.NewNop(), notifications.WithRunner(runner.run))

	if err := svc.PlayCompletionSound(context.Background()); err != nil {
		t.Fatalf("PlayCompletionSound returned error: %v", err)
	}
	if len(runner.commands) != 1 {
		t.Fatalf("expected one command, got %d", len(runner.commands))
	}
	cmd := runner.commands[0]
	if cmd.name != "paplay" || len(cmd.args) != 1 || cmd.args[0] != "/usr/share/sounds/complete.oga" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestCommandFailureSurfacesButIsIsolated(t *testing.T) {
	runner := &recordingRunner{err: errors.New("exit status 1")}
	svc := notifications.NewService(config.Notifications{
		Sound:        true,
		SoundCommand: "paplay",
	}, logging.NewNop(), notifications.WithRunner(runner.run))

	if err := svc.PlayCompletionSound(context.Background()); err == nil {
		t.Fatal("expected command failure to surface")
	}
}

func TestNotifyPushesToNtfy(t *testing.T) {
	var (
		mu      sync.Mutex
		gotBody string
		gotHdr  http.Header
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotBody = string(body)
		gotHdr = r.Header.Clone()
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := notifications.NewService(config.Notifications{
		Push:      true,
		NtfyTopic: server.URL,
	}, logging.NewNop())

	if err := svc.NotifyConversionComplete(context.Background(), "/media/out/clip.mp4"); err != nil {
		t.Fatalf("NotifyConversionComplete returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotBody != "Conversion complete: clip.mp4" {
		t.Fatalf("unexpected body: %q", gotBody)
	}
	if gotHdr.Get("Title") != "Conversion Complete" {
		t.Fatalf("unexpected title header: %q", gotHdr.Get("Title"))
	}
}

func TestNotifyFailureReportsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	svc := notifications.NewService(config.Notifications{
		Push:      true,
		NtfyTopic: server.URL,
	}, logging.NewNop())

	if err := svc.NotifyConversionFailed(context.Background(), "clip.mov", errors.New("export failed")); err == nil {
		t.Fatal("expected push failure to surface")
	}
}

func TestNotifyWithoutChannelsIsNoop(t *testing.T) {
	svc := notifications.NewService(config.Notifications{}, logging.NewNop())
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("TestNotification returned error: %v", err)
	}
}
