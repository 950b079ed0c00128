package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"mediaconv/internal/logging"
)

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	component := logging.NewComponentLogger(logger, "native-backend")
	component.Info("preset accepted", logging.String("preset", "passthrough"), logging.Float64("fraction", 0.5))

	line := buf.String()
	if !strings.Contains(line, "INFO native-backend: preset accepted") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "preset=passthrough") || !strings.Contains(line, "fraction=0.5") {
		t.Fatalf("attrs missing from console line: %q", line)
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Error("conversion failed", logging.Error(errors.New("exit status 1")))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if payload["msg"] != "conversion failed" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["level"] != "error" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("suppressed")
	logger.Warn("kept")
	if strings.Contains(buf.String(), "suppressed") {
		t.Fatalf("info should be filtered at warn level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn should pass: %q", buf.String())
	}
}
