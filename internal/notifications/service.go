package notifications

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"mediaconv/internal/config"
	"mediaconv/internal/logging"
)

const userAgent = "mediaconv/0.1.0"

// Service is the completion side-effect surface exposed to conversion code.
type Service interface {
	RevealDestination(ctx context.Context, path string) error
	PlayCompletionSound(ctx context.Context) error
	NotifyConversionComplete(ctx context.Context, destination string) error
	NotifyConversionFailed(ctx context.Context, source string, cause error) error
	TestNotification(ctx context.Context) error
}

// Runner executes a local side-effect command.
type Runner func(ctx context.Context, name string, args []string) error

// Option configures the service.
type Option func(*service)

// WithRunner injects a custom command runner (primarily for tests).
func WithRunner(runner Runner) Option {
	return func(s *service) {
		if runner != nil {
			s.runner = runner
		}
	}
}

// WithHTTPClient injects a custom HTTP client for push delivery.
func WithHTTPClient(client *http.Client) Option {
	return func(s *service) {
		if client != nil {
			s.client = client
		}
	}
}

// NewService builds the notification service from configuration. Disabled or
// unconfigured channels degrade to no-ops individually.
func NewService(cfg config.Notifications, logger *slog.Logger, opts ...Option) Service {
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	svc := &service{
		cfg:    cfg,
		topic:  strings.TrimSpace(cfg.NtfyTopic),
		client: &http.Client{Timeout: timeout},
		runner: commandRunner,
		logger: logging.NewComponentLogger(logger, "notifications"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type service struct {
	cfg    config.Notifications
	topic  string
	client *http.Client
	runner Runner
	logger *slog.Logger
}

// RevealDestination points the user at the finished file, typically by
// opening its enclosing directory.
func (s *service) RevealDestination(ctx context.Context, path string) error {
	command := strings.TrimSpace(s.cfg.RevealCommand)
	if !s.cfg.Reveal || command == "" {
		return nil
	}
	return s.runCommand(ctx, "reveal", command, filepath.Dir(path))
}

// PlayCompletionSound plays the configured completion chime.
func (s *service) PlayCompletionSound(ctx context.Context) error {
	command := strings.TrimSpace(s.cfg.SoundCommand)
	if !s.cfg.Sound || command == "" {
		return nil
	}
	return s.runCommand(ctx, "sound", command)
}

// NotifyConversionComplete posts a success notification on every configured
// channel. Partial failure still attempts the remaining channels.
func (s *service) NotifyConversionComplete(ctx context.Context, destination string) error {
	message := fmt.Sprintf("Conversion complete: %s", filepath.Base(destination))
	return s.notify(ctx, payload{
		title:   "Conversion Complete",
		message: message,
		tags:    []string{"mediaconv", "completed"},
	})
}

// NotifyConversionFailed posts a failure notification.
func (s *service) NotifyConversionFailed(ctx context.Context, source string, cause error) error {
	reason := "unknown"
	if cause != nil {
		reason = strings.TrimSpace(cause.Error())
	}
	return s.notify(ctx, payload{
		title:    "Conversion Failed",
		message:  fmt.Sprintf("Conversion failed: %s\n%s", filepath.Base(source), reason),
		tags:     []string{"mediaconv", "error"},
		priority: "high",
	})
}

// TestNotification exercises the notification channels end to end.
func (s *service) TestNotification(ctx context.Context) error {
	return s.notify(ctx, payload{
		title:    "Test",
		message:  "Notification system test",
		tags:     []string{"mediaconv", "test"},
		priority: "low",
	})
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

func (s *service) notify(ctx context.Context, data payload) error {
	var errs []error
	if command := strings.TrimSpace(s.cfg.NotifyCommand); command != "" {
		if err := s.runCommand(ctx, "notify", command, data.message); err != nil {
			errs = append(errs, err)
		}
	}
	if s.cfg.Push && s.topic != "" {
		if err := s.push(ctx, data); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("deliver notification: %w", errs[0])
	}
	return nil
}

func (s *service) runCommand(ctx context.Context, channel, command string, extraArgs ...string) error {
	fields := strings.Fields(command)
	name := fields[0]
	args := append(fields[1:], extraArgs...)
	if err := s.runner(ctx, name, args); err != nil {
		s.logger.Warn("side effect command failed",
			logging.String("channel", channel),
			logging.String("command", name),
			logging.Error(err),
		)
		return fmt.Errorf("%s command: %w", channel, err)
	}
	return nil
}

func (s *service) push(ctx context.Context, data payload) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.topic, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func commandRunner(ctx context.Context, name string, args []string) error {
	return exec.CommandContext(ctx, name, args...).Run() //nolint:gosec
}

// NewNop returns a service with every channel disabled.
func NewNop() Service {
	return &service{
		runner: func(context.Context, string, []string) error { return nil },
		logger: logging.NewNop(),
	}
}
